package nn

import (
	"math"
	"testing"

	"addrvec/internal/domain"
)

func TestLoss_ZeroWhenMarginSatisfied(t *testing.T) {
	net := New(tinyConfig(), 13)
	// Margin 0 and identical anchor/positive: cos(a,p) = 1 >= cos(a,n),
	// so the hinge is inactive.
	tr := NewTrainer(net, 0, 0.01, 1)
	loss := tr.Loss(domain.Triplet{
		Anchor:   "101 fake street",
		Positive: "101 fake street",
		Negative: "12 oak avenue",
	})
	if loss != 0 {
		t.Errorf("expected zero loss inside the margin, got %v", loss)
	}
}

func TestLoss_PositiveWhenMarginViolated(t *testing.T) {
	net := New(tinyConfig(), 13)
	// A margin of 2 cannot be satisfied (cosine differences are < 2), so
	// every triplet is in violation.
	tr := NewTrainer(net, 2.0, 0.01, 1)
	loss := tr.Loss(domain.Triplet{
		Anchor:   "101 fake street",
		Positive: "101 fake st",
		Negative: "12 oak avenue",
	})
	if loss <= 0 {
		t.Errorf("expected positive loss, got %v", loss)
	}
}

// TestGradientCheck compares the analytic BPTT gradients against central
// finite differences over every parameter of a tiny network.
func TestGradientCheck(t *testing.T) {
	cfg := Config{
		MaxLength:    8,
		EmbeddingDim: 3,
		HiddenDim:    4,
		OutputDim:    3,
	}
	net := New(cfg, 17)
	// Margin 2 keeps the hinge active, so the loss is differentiable at
	// the current weights.
	tr := NewTrainer(net, 2.0, 0.01, 1)
	triplet := domain.Triplet{
		Anchor:   "12 elm st",
		Positive: "12 elm street",
		Negative: "900 oak rd",
	}

	analytic := NewParams(net.Config())
	tr.accumulate(triplet, analytic)

	const eps = 1e-5
	pRows := net.Params().rows()
	gRows := analytic.rows()

	for r := range pRows {
		for i := range pRows[r] {
			orig := pRows[r][i]

			pRows[r][i] = orig + eps
			up := tr.Loss(triplet)
			pRows[r][i] = orig - eps
			down := tr.Loss(triplet)
			pRows[r][i] = orig

			numeric := (up - down) / (2 * eps)
			diff := math.Abs(numeric - gRows[r][i])
			scale := math.Max(1, math.Max(math.Abs(numeric), math.Abs(gRows[r][i])))
			if diff/scale > 1e-6 {
				t.Fatalf("gradient mismatch at row %d, col %d: analytic %v, numeric %v", r, i, gRows[r][i], numeric)
			}
		}
	}
}

func TestTrainEpoch_ReducesLoss(t *testing.T) {
	net := New(tinyConfig(), 21)
	tr := NewTrainer(net, 0.4, 0.01, 5)

	triplets := []domain.Triplet{
		{Anchor: "101 fake street", Positive: "101 fake st", Negative: "12 oak avenue"},
		{Anchor: "101 fake st", Positive: "101 fake street", Negative: "77 pine road"},
		{Anchor: "12 oak avenue", Positive: "12 oak ave", Negative: "101 fake street"},
		{Anchor: "12 oak ave", Positive: "12 oak avenue", Negative: "77 pine rd"},
		{Anchor: "77 pine road", Positive: "77 pine rd", Negative: "101 fake st"},
		{Anchor: "77 pine rd", Positive: "77 pine road", Negative: "12 oak ave"},
	}

	first := tr.TrainEpoch(triplets, 3, nil)
	var last float64
	for epoch := 0; epoch < 40; epoch++ {
		last = tr.TrainEpoch(triplets, 3, nil)
	}

	if math.IsNaN(last) {
		t.Fatal("training diverged to NaN")
	}
	if last >= first {
		t.Errorf("expected loss to decrease: first epoch %v, last epoch %v", first, last)
	}
}

func TestTrainEpoch_ProgressCallback(t *testing.T) {
	net := New(tinyConfig(), 23)
	tr := NewTrainer(net, 0.4, 0.01, 5)

	triplets := []domain.Triplet{
		{Anchor: "a", Positive: "b", Negative: "c"},
		{Anchor: "b", Positive: "a", Negative: "d"},
		{Anchor: "c", Positive: "d", Negative: "a"},
	}

	var calls []int
	tr.TrainEpoch(triplets, 2, func(done int) { calls = append(calls, done) })

	if len(calls) != 2 || calls[0] != 2 || calls[1] != 3 {
		t.Errorf("expected callbacks [2 3], got %v", calls)
	}
}
