// Package lexical provides the classical edit-distance baseline the learned
// embeddings are compared against.
package lexical

// Distance returns the Levenshtein edit distance between a and b.
func Distance(a, b string) int {
	return dp(a, b, 1)
}

// Ratio returns a normalized indel similarity on a 0-100 scale:
// substitutions cost 2, so ratio = round(100 * (la+lb-dist) / (la+lb)).
// Equal strings score 100, fully disjoint strings score 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	dist := dp(a, b, 2)
	return int(float64(total-dist)/float64(total)*100 + 0.5)
}

// Percent returns the Levenshtein similarity as a percentage of the longer
// string, the usual "how much survived" reading of edit distance.
func Percent(a, b string) float64 {
	if a == b {
		return 100
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}
	return (1 - float64(Distance(a, b))/float64(maxLen)) * 100
}

// dp runs the two-row edit distance recurrence with the given substitution
// cost (1 for Levenshtein, 2 for indel).
func dp(a, b string, subCost int) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = subCost
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}
