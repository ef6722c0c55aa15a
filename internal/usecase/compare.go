package usecase

import (
	"fmt"
	"math"

	"addrvec/internal/adapter/lexical"
	"addrvec/internal/adapter/nn"
	"addrvec/internal/domain"
	"addrvec/internal/port"
)

// CompareUseCase scores two raw address strings against each other: cosine
// similarity of their learned embeddings next to the classical edit-ratio
// baseline. Both numbers are reported as-is; nothing here classifies.
type CompareUseCase struct {
	encoder port.Encoder
}

// NewCompareUseCase wires a comparator around a trained encoder.
func NewCompareUseCase(encoder port.Encoder) *CompareUseCase {
	return &CompareUseCase{encoder: encoder}
}

// Compare embeds both strings and reports the similarity scores. Cosine is
// rounded to two decimals for display parity with the edit ratio.
func (uc *CompareUseCase) Compare(a, b string) (domain.Comparison, error) {
	vecs, err := uc.encoder.Embed([]string{a, b})
	if err != nil {
		return domain.Comparison{}, fmt.Errorf("embedding failed: %w", err)
	}

	return domain.Comparison{
		A:           a,
		B:           b,
		Cosine:      roundTo(nn.Cosine(vecs[0], vecs[1]), 2),
		EditRatio:   lexical.Ratio(a, b),
		EditPercent: lexical.Percent(a, b),
	}, nil
}

func roundTo(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}
