// Package sampler builds (anchor, positive, negative) training triplets
// from grouped address records.
//
// Negatives are drawn from arbitrary other rows on the assumption that a
// random row rarely shares the anchor's location. When group ids are
// meaningful a drawn negative from the anchor's own group is rejected and
// redrawn; with a single degenerate group that check cannot help and the
// original approximation stands.
package sampler

import (
	"fmt"
	"math/rand"

	"addrvec/internal/domain"
)

// TripletSampler generates triplets with a seeded source so runs are
// reproducible.
type TripletSampler struct {
	negatives int
	rng       *rand.Rand
}

// New creates a sampler drawing n negatives per anchor.
func New(negatives int, seed int64) *TripletSampler {
	if negatives <= 0 {
		negatives = 1
	}
	return &TripletSampler{
		negatives: negatives,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Sample builds triplets from the given records. Every record takes a turn
// as anchor; records whose group has no other member are skipped. Returns
// an error if no triplet can be formed at all.
func (s *TripletSampler) Sample(records []domain.AddressRecord) ([]domain.Triplet, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("need at least 2 records, got %d", len(records))
	}

	byGroup := make(map[string][]int)
	for i, r := range records {
		byGroup[r.Group] = append(byGroup[r.Group], i)
	}
	multiGroup := len(byGroup) > 1

	var triplets []domain.Triplet
	for i, anchor := range records {
		peers := byGroup[anchor.Group]
		if len(peers) < 2 {
			continue // no positive available for this anchor
		}

		positive := s.pickPeer(records, peers, i)

		for n := 0; n < s.negatives; n++ {
			negative, ok := s.pickNegative(records, i, anchor.Group, multiGroup)
			if !ok {
				break
			}
			triplets = append(triplets, domain.Triplet{
				Anchor:   anchor.Address,
				Positive: positive,
				Negative: negative,
			})
		}
	}

	if len(triplets) == 0 {
		return nil, fmt.Errorf("no triplets could be formed: no group has more than one record")
	}
	return triplets, nil
}

// pickPeer selects a random same-group record other than the anchor itself.
func (s *TripletSampler) pickPeer(records []domain.AddressRecord, peers []int, anchorIdx int) string {
	for {
		idx := peers[s.rng.Intn(len(peers))]
		if idx != anchorIdx {
			return records[idx].Address
		}
	}
}

// pickNegative draws a random row, rejecting the anchor itself and, when
// more than one group exists, rows from the anchor's group.
func (s *TripletSampler) pickNegative(records []domain.AddressRecord, anchorIdx int, group string, multiGroup bool) (string, bool) {
	const maxDraws = 64
	for i := 0; i < maxDraws; i++ {
		idx := s.rng.Intn(len(records))
		if idx == anchorIdx {
			continue
		}
		if multiGroup && records[idx].Group == group {
			continue
		}
		return records[idx].Address, true
	}
	return "", false
}
