package usecase

import (
	"fmt"

	"addrvec/internal/domain"
	"addrvec/internal/port"
)

// EmbedProgress reports how many records have been embedded so far.
type EmbedProgress func(done, total int)

// EmbedUseCase runs every dataset address through the trained encoder and
// caches the vectors for later search.
type EmbedUseCase struct {
	encoder   port.Encoder
	vectors   port.VectorStore
	batchSize int
}

// NewEmbedUseCase wires a dataset embedding pass.
func NewEmbedUseCase(encoder port.Encoder, vectors port.VectorStore, batchSize int) *EmbedUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &EmbedUseCase{
		encoder:   encoder,
		vectors:   vectors,
		batchSize: batchSize,
	}
}

// Embed encodes all records in batches and upserts them into the vector
// store. Returns the number of vectors written.
func (uc *EmbedUseCase) Embed(records []domain.AddressRecord, progress EmbedProgress) (int, error) {
	written := 0
	for start := 0; start < len(records); start += uc.batchSize {
		end := start + uc.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, r := range batch {
			texts[i] = r.Address
		}

		embeddings, err := uc.encoder.Embed(texts)
		if err != nil {
			return written, fmt.Errorf("embedding batch failed: %w", err)
		}

		items := make([]port.VectorItem, len(batch))
		for i, r := range batch {
			items[i] = port.VectorItem{
				ID:     r.ID,
				Vector: embeddings[i],
				Metadata: map[string]string{
					"address": r.Address,
					"group":   r.Group,
				},
			}
		}

		if err := uc.vectors.Upsert(items); err != nil {
			return written, fmt.Errorf("failed to store vectors: %w", err)
		}

		written += len(batch)
		if progress != nil {
			progress(written, len(records))
		}
	}
	return written, nil
}
