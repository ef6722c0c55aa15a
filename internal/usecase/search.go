package usecase

import (
	"fmt"

	"addrvec/internal/domain"
	"addrvec/internal/port"
)

// SearchUseCase finds the cached addresses nearest to a query string in
// embedding space.
type SearchUseCase struct {
	encoder port.Encoder
	vectors port.VectorStore
}

// NewSearchUseCase wires a search over the cached vectors.
func NewSearchUseCase(encoder port.Encoder, vectors port.VectorStore) *SearchUseCase {
	return &SearchUseCase{encoder: encoder, vectors: vectors}
}

// Search embeds the query and returns the top-k nearest neighbors.
func (uc *SearchUseCase) Search(query string, k int) ([]domain.Neighbor, error) {
	vecs, err := uc.encoder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	results, err := uc.vectors.Search(vecs[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	neighbors := make([]domain.Neighbor, len(results))
	for i, r := range results {
		neighbors[i] = domain.Neighbor{
			Address: r.Metadata["address"],
			Group:   r.Metadata["group"],
			Score:   r.Score,
		}
	}
	return neighbors, nil
}
