package nn

import "math"

// Adam is a standard Adam optimizer over the encoder parameters.
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	step  int
	m     *Params
	v     *Params
}

// NewAdam creates an optimizer with the usual beta defaults.
func NewAdam(cfg Config, learningRate float64) *Adam {
	return &Adam{
		lr:    learningRate,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		m:     NewParams(cfg),
		v:     NewParams(cfg),
	}
}

// Step applies one bias-corrected Adam update of params against grads.
func (a *Adam) Step(params, grads *Params) {
	a.step++
	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))

	pRows := params.rows()
	gRows := grads.rows()
	mRows := a.m.rows()
	vRows := a.v.rows()

	for r := range pRows {
		p, g, m, v := pRows[r], gRows[r], mRows[r], vRows[r]
		for i := range p {
			m[i] = a.beta1*m[i] + (1-a.beta1)*g[i]
			v[i] = a.beta2*v[i] + (1-a.beta2)*g[i]*g[i]
			mHat := m[i] / c1
			vHat := v[i] / c2
			p[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}
