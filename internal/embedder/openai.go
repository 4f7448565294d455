package embedder

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rosterhq/talentsearch/pkg/types"
)

const (
	DefaultOpenAIModel     = "text-embedding-3-small"
	DefaultOpenAIDimension = 1536
)

// OpenAIProvider implements Embedder using the OpenAI embeddings API.
// The API has no document/query task distinction; the role still tags the
// returned vectors so cache keys stay role-separated.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	dimension int
}

// NewOpenAIProvider creates an OpenAI embedder for the given API key
func NewOpenAIProvider(apiKey, model string, dimension int) (*OpenAIProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key is required", ErrNoProvider)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultOpenAIModel
	}
	if dimension <= 0 {
		dimension = DefaultOpenAIDimension
	}

	return &OpenAIProvider{
		client:    openai.NewClient(apiKey),
		model:     model,
		dimension: dimension,
	}, nil
}

func (o *OpenAIProvider) Embed(ctx context.Context, texts []string, role types.EmbeddingRole) ([]types.EmbeddingVector, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	req := openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(o.model),
		Dimensions: o.dimension,
	}

	resp, err := o.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, classifyProviderError(err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			ErrProviderUnavailable, len(resp.Data), len(texts))
	}

	vectors := make([]types.EmbeddingVector, len(texts))
	for _, data := range resp.Data {
		i := data.Index
		if i < 0 || i >= len(texts) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", ErrProviderUnavailable, i)
		}
		vectors[i] = types.EmbeddingVector{
			Values:         Normalize(data.Embedding),
			Dimension:      len(data.Embedding),
			Provider:       ProviderOpenAI,
			Model:          o.model,
			Role:           role,
			SourceTextHash: ComputeHash(texts[i]),
		}
	}

	return vectors, nil
}

func (o *OpenAIProvider) Dimension() int {
	return o.dimension
}

func (o *OpenAIProvider) Provider() string {
	return ProviderOpenAI
}

func (o *OpenAIProvider) Model() string {
	return o.model
}

func (o *OpenAIProvider) Close() error {
	return nil
}
