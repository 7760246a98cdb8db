package gesture

// NoMatchScore is returned by Score when either sequence is empty.
// It is larger than any sensible fudge factor, so it never matches.
const NoMatchScore = 10000

// Score calculates a direction-aware edit distance between an observed path
// and a pattern.
//
// Every cell of the (len(pattern)+1) x (len(observed)+1) matrix costs the
// DirectionDistance of the two directions it aligns, and that cost is added
// to the cheapest of its three neighbours whether the step is an insertion,
// a deletion or a substitution. Repeating a direction therefore costs
// nothing when it matches the pattern, so an oversampled path such as
// "000111" scores 0 against "01", and a neighbouring octant costs 1 rather
// than a full mismatch.
func Score(observed, pattern []Direction) int {
	n := len(observed)
	m := len(pattern)

	if n == 0 || m == 0 {
		return NoMatchScore
	}

	lev := make([][]int, m+1)
	for i := range lev {
		lev[i] = make([]int, n+1)
	}

	// Seed the first row and column so that alignments must start at (0, 0)
	for j := 1; j <= n; j++ {
		lev[0][j] = NoMatchScore
	}
	for i := 1; i <= m; i++ {
		lev[i][0] = NoMatchScore
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := DirectionDistance(observed[j-1], pattern[i-1])
			lev[i][j] = cost + min3(lev[i-1][j], lev[i][j-1], lev[i-1][j-1])
		}
	}

	return lev[m][n]
}

// min3 returns the minimum of three int values.
func min3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
