// Package nn implements the character-level recurrent encoder and its
// triplet-loss trainer. All math is hand-written float64 loops; the model
// is small enough that no tensor runtime is warranted.
package nn

import (
	"math"
	"math/rand"

	"addrvec/internal/adapter/charenc"
)

// Config holds the encoder dimensions. VocabSize is fixed by the character
// formatter.
type Config struct {
	MaxLength    int `json:"max_length"`
	EmbeddingDim int `json:"embedding_dim"`
	HiddenDim    int `json:"hidden_dim"`
	OutputDim    int `json:"output_dim"`
	VocabSize    int `json:"vocab_size"`
}

// Params holds every trainable weight of the encoder:
// a character embedding table, one tanh recurrent layer, and a linear head.
type Params struct {
	Embed [][]float64 `json:"embed"` // VocabSize x EmbeddingDim
	Wx    [][]float64 `json:"wx"`    // HiddenDim x EmbeddingDim
	Wh    [][]float64 `json:"wh"`    // HiddenDim x HiddenDim
	B     []float64   `json:"b"`     // HiddenDim
	Wo    [][]float64 `json:"wo"`    // OutputDim x HiddenDim
	Bo    []float64   `json:"bo"`    // OutputDim
}

// NewParams allocates zeroed parameters for the given config.
func NewParams(cfg Config) *Params {
	return &Params{
		Embed: newMatrix(cfg.VocabSize, cfg.EmbeddingDim),
		Wx:    newMatrix(cfg.HiddenDim, cfg.EmbeddingDim),
		Wh:    newMatrix(cfg.HiddenDim, cfg.HiddenDim),
		B:     make([]float64, cfg.HiddenDim),
		Wo:    newMatrix(cfg.OutputDim, cfg.HiddenDim),
		Bo:    make([]float64, cfg.OutputDim),
	}
}

// initParams fills weight matrices with Xavier-uniform values. Biases and
// the padding embedding row stay zero.
func initParams(p *Params, cfg Config, rng *rand.Rand) {
	xavier(p.Embed, cfg.VocabSize, cfg.EmbeddingDim, rng)
	xavier(p.Wx, cfg.EmbeddingDim, cfg.HiddenDim, rng)
	xavier(p.Wh, cfg.HiddenDim, cfg.HiddenDim, rng)
	xavier(p.Wo, cfg.HiddenDim, cfg.OutputDim, rng)
	for j := range p.Embed[charenc.PadIndex] {
		p.Embed[charenc.PadIndex][j] = 0
	}
}

func xavier(m [][]float64, fanIn, fanOut int, rng *rand.Rand) {
	r := math.Sqrt(6.0 / float64(fanIn+fanOut))
	for i := range m {
		for j := range m[i] {
			m[i][j] = (rng.Float64()*2 - 1) * r
		}
	}
}

// rows lists every parameter row in a fixed order, so the optimizer can
// walk params and gradients in lockstep.
func (p *Params) rows() [][]float64 {
	out := make([][]float64, 0, len(p.Embed)+len(p.Wx)+len(p.Wh)+len(p.Wo)+2)
	out = append(out, p.Embed...)
	out = append(out, p.Wx...)
	out = append(out, p.Wh...)
	out = append(out, p.B)
	out = append(out, p.Wo...)
	out = append(out, p.Bo)
	return out
}

// zero clears all parameter values in place.
func (p *Params) zero() {
	for _, row := range p.rows() {
		for i := range row {
			row[i] = 0
		}
	}
}

// Network is the encoder F: string -> R^OutputDim. The same weights embed
// anchor, positive, and negative during training.
type Network struct {
	cfg    Config
	params *Params
	fmtr   *charenc.Formatter
}

// New creates a randomly initialized network.
func New(cfg Config, seed int64) *Network {
	if cfg.VocabSize == 0 {
		cfg.VocabSize = charenc.VocabSize
	}
	p := NewParams(cfg)
	initParams(p, cfg, rand.New(rand.NewSource(seed)))
	return &Network{
		cfg:    cfg,
		params: p,
		fmtr:   charenc.NewFormatter(cfg.MaxLength),
	}
}

// Restore builds a network around previously trained weights.
func Restore(cfg Config, params *Params) *Network {
	return &Network{
		cfg:    cfg,
		params: params,
		fmtr:   charenc.NewFormatter(cfg.MaxLength),
	}
}

// Config returns the encoder dimensions.
func (n *Network) Config() Config { return n.cfg }

// Params returns the trainable weights.
func (n *Network) Params() *Params { return n.params }

// Dimension returns the embedding vector dimension.
func (n *Network) Dimension() int { return n.cfg.OutputDim }

// Embed maps each text to its embedding. Inference is deterministic for
// fixed weights.
func (n *Network) Embed(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, s := range texts {
		cache := n.forward(s)
		out[i] = cache.out
	}
	return out, nil
}

// EmbedOne maps a single text to its embedding.
func (n *Network) EmbedOne(s string) []float64 {
	return n.forward(s).out
}

// forwardCache keeps every intermediate the backward pass needs.
type forwardCache struct {
	seq []int       // character indices, padding trimmed
	xs  [][]float64 // character embeddings per step
	hs  [][]float64 // hidden states; hs[0] is the zero state
	out []float64
}

// forward runs the recurrence over the non-padding prefix of s.
// h_t = tanh(Wx x_t + Wh h_{t-1} + b), out = Wo h_T + bo.
func (n *Network) forward(s string) *forwardCache {
	encoded := n.fmtr.Encode(s)
	T := charenc.Length(encoded)
	seq := encoded[:T]

	p := n.params
	cache := &forwardCache{
		seq: seq,
		xs:  make([][]float64, T),
		hs:  make([][]float64, T+1),
	}
	cache.hs[0] = make([]float64, n.cfg.HiddenDim)

	for t := 0; t < T; t++ {
		x := p.Embed[seq[t]]
		cache.xs[t] = x
		prev := cache.hs[t]
		h := make([]float64, n.cfg.HiddenDim)
		for i := 0; i < n.cfg.HiddenDim; i++ {
			z := p.B[i] + dot(p.Wx[i], x) + dot(p.Wh[i], prev)
			h[i] = math.Tanh(z)
		}
		cache.hs[t+1] = h
	}

	hT := cache.hs[T]
	out := make([]float64, n.cfg.OutputDim)
	for i := 0; i < n.cfg.OutputDim; i++ {
		out[i] = p.Bo[i] + dot(p.Wo[i], hT)
	}
	cache.out = out
	return cache
}

// Cosine returns the cosine similarity of two vectors. Computed as
// dot/sqrt(na*nb) so a vector against itself is exactly 1.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / math.Sqrt(na*nb)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func newMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}
