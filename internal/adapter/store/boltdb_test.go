package store

import (
	"path/filepath"
	"testing"

	"addrvec/internal/adapter/nn"
	"addrvec/internal/port"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "model.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestCheckpoint_RoundTrip(t *testing.T) {
	st := openTestStore(t)

	net := nn.New(nn.Config{
		MaxLength:    12,
		EmbeddingDim: 4,
		HiddenDim:    6,
		OutputDim:    3,
	}, 42)
	want := net.EmbedOne("101 fake street")

	err := st.SaveCheckpoint(LatestCheckpoint, Checkpoint{
		Config:    net.Config(),
		Weights:   net.Params(),
		Epochs:    5,
		FinalLoss: 0.123,
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cp, err := st.LoadCheckpoint(LatestCheckpoint)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cp.Epochs != 5 {
		t.Errorf("expected 5 epochs, got %d", cp.Epochs)
	}
	if cp.FinalLoss != 0.123 {
		t.Errorf("expected loss 0.123, got %f", cp.FinalLoss)
	}
	if cp.SavedAt == 0 {
		t.Error("expected SavedAt to be filled in")
	}

	restored := nn.Restore(cp.Config, cp.Weights)
	got := restored.EmbedOne("101 fake street")
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("restored encoder differs at %d: %v vs %v", i, want[i], got[i])
		}
	}
}

func TestCheckpoint_NotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.LoadCheckpoint("nope"); err == nil {
		t.Error("expected error for missing checkpoint")
	}
}

func TestListCheckpoints(t *testing.T) {
	st := openTestStore(t)

	cfg := nn.Config{MaxLength: 4, EmbeddingDim: 2, HiddenDim: 2, OutputDim: 2, VocabSize: 97}
	cp := Checkpoint{Config: cfg, Weights: nn.NewParams(cfg)}
	if err := st.SaveCheckpoint("latest", cp); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveCheckpoint("experiment", cp); err != nil {
		t.Fatal(err)
	}

	names, err := st.ListCheckpoints()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("expected 2 checkpoints, got %v", names)
	}
}

func TestVectorStore_UpsertSearch(t *testing.T) {
	st := openTestStore(t)

	vs, err := NewBoltVectorStore(st.DB(), 2)
	if err != nil {
		t.Fatalf("failed to create vector store: %v", err)
	}

	err = vs.Upsert([]port.VectorItem{
		{ID: "a", Vector: []float64{1, 0}, Metadata: map[string]string{"address": "101 fake street"}},
		{ID: "b", Vector: []float64{0.9, 0.1}},
		{ID: "c", Vector: []float64{0, 1}},
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	results, err := vs.Search([]float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a" {
		t.Errorf("expected nearest to be a, got %s", results[0].ID)
	}
	if results[0].Score != 1.0 {
		t.Errorf("expected exact match score 1.0, got %v", results[0].Score)
	}
	if results[0].Metadata["address"] != "101 fake street" {
		t.Errorf("metadata lost: %v", results[0].Metadata)
	}
	if results[1].ID != "b" {
		t.Errorf("expected second result b, got %s", results[1].ID)
	}
}

func TestVectorStore_DimensionMismatch(t *testing.T) {
	st := openTestStore(t)
	vs, err := NewBoltVectorStore(st.DB(), 3)
	if err != nil {
		t.Fatal(err)
	}

	if err := vs.Upsert([]port.VectorItem{{ID: "x", Vector: []float64{1, 2}}}); err == nil {
		t.Error("expected dimension mismatch error on upsert")
	}
	if _, err := vs.Search([]float64{1, 2}, 1); err == nil {
		t.Error("expected dimension mismatch error on search")
	}
}

func TestVectorStore_DeleteAndCount(t *testing.T) {
	st := openTestStore(t)
	vs, err := NewBoltVectorStore(st.DB(), 1)
	if err != nil {
		t.Fatal(err)
	}

	vs.Upsert([]port.VectorItem{
		{ID: "a", Vector: []float64{1}},
		{ID: "b", Vector: []float64{2}},
	})
	if err := vs.Delete([]string{"a"}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	n, err := vs.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 vector after delete, got %d", n)
	}
}

func TestVectorStore_ReloadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.db")

	st, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	vs, err := NewBoltVectorStore(st.DB(), 2)
	if err != nil {
		t.Fatal(err)
	}
	vs.Upsert([]port.VectorItem{{ID: "a", Vector: []float64{3, 4}}})
	st.Close()

	st2, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st2.Close()
	vs2, err := NewBoltVectorStore(st2.DB(), 2)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := vs2.Count()
	if n != 1 {
		t.Errorf("expected 1 vector after reopen, got %d", n)
	}
}
