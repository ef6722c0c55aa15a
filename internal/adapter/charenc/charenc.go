// Package charenc turns variable-length strings into fixed-width character
// index tensors for the recurrent encoder. No normalization is applied:
// case and punctuation survive into the encoding.
package charenc

// The vocabulary covers the printable ASCII range. Index 0 is reserved for
// padding; bytes outside the range share a single unknown index so they
// never read as padding.
const (
	PadIndex  = 0
	firstChar = 32  // space
	lastChar  = 126 // tilde

	// UnknownIndex encodes any byte outside the printable ASCII range.
	UnknownIndex = lastChar - firstChar + 2

	// VocabSize is the number of distinct indices an encoded position can
	// take, padding and unknown included.
	VocabSize = UnknownIndex + 1
)

// Formatter encodes strings into index sequences of exactly MaxLength
// positions. Longer strings are truncated from the end, shorter ones are
// zero-padded.
type Formatter struct {
	MaxLength int
}

// NewFormatter creates a formatter with the given fixed width.
func NewFormatter(maxLength int) *Formatter {
	return &Formatter{MaxLength: maxLength}
}

// Index maps a single byte to its vocabulary index.
func Index(c byte) int {
	if c < firstChar || c > lastChar {
		return UnknownIndex
	}
	return int(c-firstChar) + 1
}

// Char is the inverse of Index for in-vocabulary indices.
func Char(idx int) byte {
	if idx <= PadIndex || idx >= UnknownIndex {
		return '?'
	}
	return byte(idx-1) + firstChar
}

// Encode converts s into a fixed-width index sequence.
func (f *Formatter) Encode(s string) []int {
	out := make([]int, f.MaxLength)
	n := len(s)
	if n > f.MaxLength {
		n = f.MaxLength
	}
	for i := 0; i < n; i++ {
		out[i] = Index(s[i])
	}
	return out
}

// EncodeBatch converts a batch of strings, one row per input.
func (f *Formatter) EncodeBatch(texts []string) [][]int {
	out := make([][]int, len(texts))
	for i, s := range texts {
		out[i] = f.Encode(s)
	}
	return out
}

// Decode reconstructs the non-padding prefix of an encoded sequence.
// Out-of-vocabulary bytes come back as '?'.
func (f *Formatter) Decode(seq []int) string {
	buf := make([]byte, 0, len(seq))
	for _, idx := range seq {
		if idx == PadIndex {
			break
		}
		buf = append(buf, Char(idx))
	}
	return string(buf)
}

// Length returns the number of non-padding positions in an encoded
// sequence, i.e. min(len(s), MaxLength) for the string it came from.
func Length(seq []int) int {
	n := 0
	for _, idx := range seq {
		if idx == PadIndex {
			break
		}
		n++
	}
	return n
}
