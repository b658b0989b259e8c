package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// vectorSize matches the all-MiniLM-L6-v2 embedding model the corpus was
// built with.
const vectorSize = 384

// Passage is one retrievable chunk of the health/fitness corpus.
type Passage struct {
	ID    string
	Text  string
	Score float32
}

// Retriever handles vector search over the knowledge corpus in Qdrant.
type Retriever struct {
	client     *qdrant.Client
	collection string
}

// NewRetriever connects to Qdrant and ensures the corpus collection exists.
func NewRetriever(qdrantURL, collection, apiKey string) (*Retriever, error) {
	// Strip scheme and port; the client speaks gRPC on 6334.
	host := strings.TrimPrefix(strings.TrimPrefix(qdrantURL, "https://"), "http://")
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   6334,
		APIKey: apiKey,
		UseTLS: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	r := &Retriever{client: client, collection: collection}
	if err := r.ensureCollection(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	return r, nil
}

func (r *Retriever) ensureCollection(ctx context.Context) error {
	exists, err := r.client.CollectionExists(ctx, r.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}
	err = r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Search returns the topK most similar corpus passages for a query vector,
// best first.
func (r *Retriever) Search(ctx context.Context, vector []float32, topK int) ([]Passage, error) {
	limit := uint64(topK)
	points, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	passages := make([]Passage, 0, len(points))
	for _, p := range points {
		text := ""
		if v, ok := p.Payload["text"]; ok {
			text = v.GetStringValue()
		}
		if text == "" {
			continue
		}
		passages = append(passages, Passage{
			ID:    p.Id.GetUuid(),
			Text:  text,
			Score: p.Score,
		})
	}
	return passages, nil
}

// Upsert stores corpus passages, assigning point IDs where missing. Used by
// the ingestion path when (re)building the knowledge base.
func (r *Retriever) Upsert(ctx context.Context, texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("texts and vectors length mismatch: %d != %d", len(texts), len(vectors))
	}

	points := make([]*qdrant.PointStruct, 0, len(texts))
	for i, text := range texts {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.New().String()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{"text": text}),
		})
	}

	wait := true
	_, err := r.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}
