package index

import (
	"context"
	"fmt"
	"sync/atomic"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rosterhq/talentsearch/pkg/types"
)

// QdrantIndex backs the Index interface with a Qdrant collection over gRPC.
// It exists for rosters too large for the linear scan; each Build recreates
// the collection so the remote state always mirrors the current corpus.
type QdrantIndex struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string

	built     atomic.Bool
	count     atomic.Int64
	dimension int
	provider  string
}

// NewQdrantIndex connects to Qdrant at the given gRPC address. The
// collection name should be unique per corpus version.
func NewQdrantIndex(addr, collection string) (*QdrantIndex, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial qdrant %s: %w", addr, err)
	}
	return &QdrantIndex{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// Close closes the underlying gRPC connection
func (q *QdrantIndex) Close() error {
	return q.conn.Close()
}

// Build recreates the collection and upserts one point per entry, using the
// candidate id as the point id.
func (q *QdrantIndex) Build(ctx context.Context, entries []Entry) error {
	if err := validateEntries(entries); err != nil {
		return err
	}

	if len(entries) == 0 {
		q.built.Store(true)
		q.count.Store(0)
		return nil
	}

	q.dimension = entries[0].Vector.Dimension
	q.provider = entries[0].Vector.Provider

	if err := q.recreateCollection(ctx, q.dimension); err != nil {
		return err
	}

	points := make([]*pb.PointStruct, len(entries))
	for i := range entries {
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Num{Num: uint64(entries[i].CandidateID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: entries[i].Vector.Values},
				},
			},
		}
	}

	wait := true
	_, err := q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}

	q.count.Store(int64(len(entries)))
	q.built.Store(true)
	return nil
}

// recreateCollection drops any stale collection and creates a fresh one
// with cosine distance.
func (q *QdrantIndex) recreateCollection(ctx context.Context, dims int) error {
	list, err := q.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == q.collection {
			if _, err := q.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: q.collection}); err != nil {
				return fmt.Errorf("delete collection %s: %w", q.collection, err)
			}
			break
		}
	}

	_, err = q.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", q.collection, err)
	}
	return nil
}

// Query performs k-NN search against the collection
func (q *QdrantIndex) Query(ctx context.Context, vector *types.EmbeddingVector, limit int) ([]Hit, error) {
	if !q.built.Load() {
		return nil, ErrNotBuilt
	}
	if err := vector.Validate(); err != nil {
		return nil, err
	}
	if q.count.Load() > 0 && (vector.Dimension != q.dimension || vector.Provider != q.provider) {
		return nil, types.ErrDimensionMismatch
	}
	if q.count.Load() == 0 {
		return []Hit{}, nil
	}

	// Non-positive limit means every point
	if limit <= 0 {
		limit = int(q.count.Load())
	}

	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector.Values,
		Limit:          uint64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		hits[i] = Hit{
			CandidateID: int64(r.GetId().GetNum()),
			Score:       float64(r.GetScore()),
		}
	}
	return hits, nil
}

// Len returns the number of indexed entries
func (q *QdrantIndex) Len() int {
	return int(q.count.Load())
}
