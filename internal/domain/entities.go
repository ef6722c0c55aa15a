package domain

// DefaultGroup is the equivalence group assigned when the input has no
// group column. With a single group every record is "equivalent" to every
// other, which degrades negative sampling to the documented approximation.
const DefaultGroup = "0"

// AddressRecord is one raw address string tagged with an equivalence group.
// Records sharing a group id denote the same physical location spelled
// differently.
type AddressRecord struct {
	ID      string
	Address string
	Group   string
}

// Triplet is one training example. Anchor and Positive share a group,
// Negative is drawn from other rows. Only group membership is guaranteed;
// the literal strings may coincide.
type Triplet struct {
	Anchor   string
	Positive string
	Negative string
}

// Comparison is the result of scoring two raw address strings against each
// other: learned cosine similarity next to the lexical edit ratio.
type Comparison struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Cosine      float64 `json:"cosine"`
	EditRatio   int     `json:"edit_ratio"`
	EditPercent float64 `json:"edit_percent"`
}

// Neighbor is one vector search hit.
type Neighbor struct {
	Address string  `json:"address"`
	Group   string  `json:"group,omitempty"`
	Score   float64 `json:"score"`
}

// DatasetStats summarizes a loaded address table.
type DatasetStats struct {
	Records       int
	Groups        int
	UsableAnchors int
	Files         int
}

// TrainResult summarizes a completed training run.
type TrainResult struct {
	Triplets    int
	Epochs      int
	FinalLoss   float64
	EpochLosses []float64
}
