package nn

import (
	"math"
	"math/rand"

	"addrvec/internal/domain"
)

// Trainer minimizes the triplet cosine margin loss
//
//	loss = max(0, (1 - cos(F(a), F(p))) - (1 - cos(F(a), F(n))) + margin)
//
// over mini-batches with Adam. Gradients come from backpropagation through
// time over the shared encoder.
type Trainer struct {
	net    *Network
	margin float64
	opt    *Adam
	grads  *Params
	rng    *rand.Rand
}

// NewTrainer creates a trainer for net.
func NewTrainer(net *Network, margin, learningRate float64, seed int64) *Trainer {
	return &Trainer{
		net:    net,
		margin: margin,
		opt:    NewAdam(net.Config(), learningRate),
		grads:  NewParams(net.Config()),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// TrainEpoch runs one pass over the triplets in shuffled mini-batches and
// returns the mean loss. onBatch, if non-nil, is called after each batch
// with the number of triplets consumed so far.
func (t *Trainer) TrainEpoch(triplets []domain.Triplet, batchSize int, onBatch func(done int)) float64 {
	if batchSize <= 0 {
		batchSize = 32
	}

	order := t.rng.Perm(len(triplets))

	var totalLoss float64
	for start := 0; start < len(order); start += batchSize {
		end := start + batchSize
		if end > len(order) {
			end = len(order)
		}

		t.grads.zero()
		for _, idx := range order[start:end] {
			totalLoss += t.accumulate(triplets[idx], t.grads)
		}

		scale := 1.0 / float64(end-start)
		for _, row := range t.grads.rows() {
			for i := range row {
				row[i] *= scale
			}
		}
		t.opt.Step(t.net.Params(), t.grads)

		if onBatch != nil {
			onBatch(end)
		}
	}

	return totalLoss / float64(len(order))
}

// Loss returns the triplet loss without touching any gradients.
func (t *Trainer) Loss(tr domain.Triplet) float64 {
	a := t.net.forward(tr.Anchor)
	p := t.net.forward(tr.Positive)
	n := t.net.forward(tr.Negative)

	loss := Cosine(a.out, n.out) - Cosine(a.out, p.out) + t.margin
	if loss < 0 {
		return 0
	}
	return loss
}

// accumulate adds the gradients of one triplet into grads and returns its
// loss. Triplets inside the margin contribute nothing.
func (t *Trainer) accumulate(tr domain.Triplet, grads *Params) float64 {
	a := t.net.forward(tr.Anchor)
	p := t.net.forward(tr.Positive)
	n := t.net.forward(tr.Negative)

	cosAP, daP, dp := cosineGrad(a.out, p.out)
	cosAN, daN, dn := cosineGrad(a.out, n.out)

	loss := cosAN - cosAP + t.margin
	if loss <= 0 {
		return 0
	}

	// dloss/da = dcosAN/da - dcosAP/da; dloss/dp = -dcosAP/dp;
	// dloss/dn = dcosAN/dn.
	da := make([]float64, len(a.out))
	for i := range da {
		da[i] = daN[i] - daP[i]
	}
	for i := range dp {
		dp[i] = -dp[i]
	}

	t.backward(a, da, grads)
	t.backward(p, dp, grads)
	t.backward(n, dn, grads)
	return loss
}

// cosineGrad returns cos(x, y) and its gradients with respect to x and y:
// dcos/dx = y/(|x||y|) - cos * x/|x|^2.
func cosineGrad(x, y []float64) (cos float64, dx, dy []float64) {
	var d, nx, ny float64
	for i := range x {
		d += x[i] * y[i]
		nx += x[i] * x[i]
		ny += y[i] * y[i]
	}
	dx = make([]float64, len(x))
	dy = make([]float64, len(y))
	if nx == 0 || ny == 0 {
		return 0, dx, dy
	}

	norm := 1.0 / (math.Sqrt(nx) * math.Sqrt(ny))
	cos = d * norm
	for i := range x {
		dx[i] = y[i]*norm - cos*x[i]/nx
		dy[i] = x[i]*norm - cos*y[i]/ny
	}
	return cos, dx, dy
}

// backward propagates dOut through the linear head and the recurrence,
// accumulating into grads.
func (t *Trainer) backward(cache *forwardCache, dOut []float64, grads *Params) {
	p := t.net.params
	cfg := t.net.cfg
	T := len(cache.seq)
	hT := cache.hs[T]

	// Linear head: out = Wo h_T + bo.
	dh := make([]float64, cfg.HiddenDim)
	for i := 0; i < cfg.OutputDim; i++ {
		grads.Bo[i] += dOut[i]
		for j := 0; j < cfg.HiddenDim; j++ {
			grads.Wo[i][j] += dOut[i] * hT[j]
			dh[j] += p.Wo[i][j] * dOut[i]
		}
	}

	// Through time: h_t = tanh(z_t), dz = dh * (1 - h_t^2).
	for step := T - 1; step >= 0; step-- {
		h := cache.hs[step+1]
		prev := cache.hs[step]
		x := cache.xs[step]
		ci := cache.seq[step]

		dz := make([]float64, cfg.HiddenDim)
		for i := range dz {
			dz[i] = dh[i] * (1 - h[i]*h[i])
		}

		dhPrev := make([]float64, cfg.HiddenDim)
		for i := 0; i < cfg.HiddenDim; i++ {
			grads.B[i] += dz[i]
			for j := 0; j < cfg.EmbeddingDim; j++ {
				grads.Wx[i][j] += dz[i] * x[j]
				grads.Embed[ci][j] += p.Wx[i][j] * dz[i]
			}
			for j := 0; j < cfg.HiddenDim; j++ {
				grads.Wh[i][j] += dz[i] * prev[j]
				dhPrev[j] += p.Wh[i][j] * dz[i]
			}
		}
		dh = dhPrev
	}
}
