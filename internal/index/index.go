// Package index holds the in-memory nearest-neighbor store for one document.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"chatdocs/internal/ai"
)

// Providers often cap embedding batch sizes around this.
const embeddingBatchSize = 10

// VectorIndex is the (chunk, embedding) set for exactly one document. It is
// owned by a single session, rebuilt wholesale on every upload and never
// persisted.
type VectorIndex struct {
	chunks  []string
	vectors [][]float32
}

// Build embeds every chunk and stores the pairs. Batches are embedded in
// parallel but results are slotted by chunk position, so index order matches
// chunk order regardless of completion order. No chunks builds an empty but
// valid index.
func Build(ctx context.Context, embedder ai.Embedder, chunks []string, workers int) (*VectorIndex, error) {
	idx := &VectorIndex{
		chunks:  append([]string(nil), chunks...),
		vectors: make([][]float32, len(chunks)),
	}
	if len(chunks) == 0 {
		return idx, nil
	}
	if workers <= 0 {
		workers = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(chunks); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		start, end := start, end
		g.Go(func() error {
			vecs, err := embedder.EmbedBatch(gctx, idx.chunks[start:end])
			if err != nil {
				return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
			}
			if len(vecs) != end-start {
				return fmt.Errorf("embed chunks %d-%d: got %d vectors", start, end-1, len(vecs))
			}
			copy(idx.vectors[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Len reports the number of indexed chunks.
func (idx *VectorIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.chunks)
}

// Search embeds the query and returns the k most similar chunks by cosine
// similarity, ties broken by original chunk order. An empty index returns nil
// without calling the provider; callers treat that as "no context retrieved".
func (idx *VectorIndex) Search(ctx context.Context, embedder ai.Embedder, query string, k int) ([]string, error) {
	if idx.Len() == 0 || k <= 0 {
		return nil, nil
	}

	queryVec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scores := make([]float32, len(idx.chunks))
	for i := range idx.vectors {
		scores[i] = cosineSimilarity(queryVec, idx.vectors[i])
	}

	order := make([]int, len(idx.chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	result := make([]string, k)
	for i := 0; i < k; i++ {
		result[i] = idx.chunks[order[i]]
	}
	return result, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
