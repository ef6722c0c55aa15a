package port

import "addrvec/internal/domain"

// TripletSampler builds training triplets from grouped address records.
type TripletSampler interface {
	Sample(records []domain.AddressRecord) ([]domain.Triplet, error)
}
