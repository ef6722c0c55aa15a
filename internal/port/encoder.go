package port

// Encoder maps raw strings to fixed-dimension embedding vectors.
type Encoder interface {
	// Embed generates embeddings for the given texts.
	// Returns one vector per input text.
	Embed(texts []string) ([][]float64, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int
}

// VectorStore stores and searches embedding vectors.
type VectorStore interface {
	// Upsert adds or updates vectors in the store.
	Upsert(items []VectorItem) error

	// Search finds the k nearest vectors to the query by cosine similarity.
	Search(query []float64, k int) ([]VectorResult, error)

	// Delete removes vectors by their IDs.
	Delete(ids []string) error

	// Count returns the number of vectors in the store.
	Count() (int, error)
}

// VectorItem represents a vector to be stored.
type VectorItem struct {
	ID       string
	Vector   []float64
	Metadata map[string]string
}

// VectorResult represents a search result.
type VectorResult struct {
	ID       string
	Score    float64
	Metadata map[string]string
}
