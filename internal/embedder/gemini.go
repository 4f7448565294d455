package embedder

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"google.golang.org/genai"

	"github.com/rosterhq/talentsearch/pkg/types"
)

const (
	DefaultGeminiModel     = "gemini-embedding-001"
	DefaultGeminiDimension = 768
)

// GeminiProvider implements Embedder using the Gemini embedding API. The
// role maps to the API's task type so documents and queries are encoded
// with retrieval-appropriate representations.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGeminiProvider creates a Gemini embedder for the given API key
func NewGeminiProvider(ctx context.Context, apiKey, model string, dimension int) (*GeminiProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", ErrNoProvider)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultGeminiModel
	}
	if dimension <= 0 {
		dimension = DefaultGeminiDimension
	}

	return &GeminiProvider{client: client, model: model, dimension: dimension}, nil
}

func (g *GeminiProvider) Embed(ctx context.Context, texts []string, role types.EmbeddingRole) ([]types.EmbeddingVector, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.Text(text)...)
	}

	dim := int32(g.dimension)
	cfg := &genai.EmbedContentConfig{
		TaskType:             taskTypeFor(role),
		OutputDimensionality: &dim,
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, classifyProviderError(err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			ErrProviderUnavailable, len(resp.Embeddings), len(texts))
	}

	vectors := make([]types.EmbeddingVector, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", ErrProviderUnavailable, i)
		}
		// Truncated-dimension embeddings are not unit length; normalize so
		// inner product equals cosine similarity.
		vectors[i] = types.EmbeddingVector{
			Values:         Normalize(emb.Values),
			Dimension:      len(emb.Values),
			Provider:       ProviderGemini,
			Model:          g.model,
			Role:           role,
			SourceTextHash: ComputeHash(texts[i]),
		}
	}

	return vectors, nil
}

func (g *GeminiProvider) Dimension() int {
	return g.dimension
}

func (g *GeminiProvider) Provider() string {
	return ProviderGemini
}

func (g *GeminiProvider) Model() string {
	return g.model
}

func (g *GeminiProvider) Close() error {
	return nil
}

// taskTypeFor maps an embedding role to the Gemini task type hint
func taskTypeFor(role types.EmbeddingRole) string {
	if role == types.RoleQuery {
		return "RETRIEVAL_QUERY"
	}
	return "RETRIEVAL_DOCUMENT"
}

// classifyProviderError maps transport failures onto the adapter error
// taxonomy the fallback orchestrator consumes.
func classifyProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
