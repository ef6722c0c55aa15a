package usecase

import (
	"testing"

	"addrvec/internal/port"
)

// memVectorStore is a map-backed VectorStore for tests.
type memVectorStore struct {
	items map[string]port.VectorItem
}

func newMemVectorStore() *memVectorStore {
	return &memVectorStore{items: make(map[string]port.VectorItem)}
}

func (m *memVectorStore) Upsert(items []port.VectorItem) error {
	for _, it := range items {
		m.items[it.ID] = it
	}
	return nil
}

func (m *memVectorStore) Search(query []float64, k int) ([]port.VectorResult, error) {
	var results []port.VectorResult
	for id, it := range m.items {
		var dot float64
		for i := range query {
			dot += query[i] * it.Vector[i]
		}
		results = append(results, port.VectorResult{ID: id, Score: dot, Metadata: it.Metadata})
	}
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (m *memVectorStore) Delete(ids []string) error {
	for _, id := range ids {
		delete(m.items, id)
	}
	return nil
}

func (m *memVectorStore) Count() (int, error) { return len(m.items), nil }

func TestEmbed_WritesAllRecords(t *testing.T) {
	vs := newMemVectorStore()
	uc := NewEmbedUseCase(testNetwork(), vs, 2)

	records := trainingRecords()
	var lastDone int
	written, err := uc.Embed(records, func(done, total int) { lastDone = done })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if written != len(records) {
		t.Errorf("expected %d vectors written, got %d", len(records), written)
	}
	if lastDone != len(records) {
		t.Errorf("expected final progress %d, got %d", len(records), lastDone)
	}

	item, ok := vs.items["1"]
	if !ok {
		t.Fatal("record 1 not stored")
	}
	if item.Metadata["address"] != "101 fake street" {
		t.Errorf("address metadata lost: %v", item.Metadata)
	}
	if item.Metadata["group"] != "g1" {
		t.Errorf("group metadata lost: %v", item.Metadata)
	}
	if len(item.Vector) != 8 {
		t.Errorf("expected 8-dim vector, got %d", len(item.Vector))
	}
}

func TestEmbed_EmptyInput(t *testing.T) {
	uc := NewEmbedUseCase(testNetwork(), newMemVectorStore(), 10)
	written, err := uc.Embed(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != 0 {
		t.Errorf("expected 0 written, got %d", written)
	}
}
