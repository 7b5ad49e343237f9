/*
Package distance measures how far apart two words are.

LevenshteinDistance is the plain optimal string alignment variant of
Damerau-Levenshtein: insert, delete, substitute and adjacent transpose all
count as one edit. DistanceAStarWeighted searches the same edit graph with a
WeightMap that makes selected edits cheaper (or more expensive) and extends
them to multi character substrings. With an empty WeightMap both agree:

	DistanceAStarWeighted(a, b, NewWeightMap(), 100) == LevenshteinDistance(a, b) * 100
*/
package distance

// DefaultEditCost is the cost of one unweighted edit.
const DefaultEditCost = 100

// LevenshteinDistance returns the number of edits needed to turn a into b.
// Only three rows of the matrix are kept, indexed modulo 3.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(rb) > len(ra) {
		ra, rb = rb, ra
	}
	n, m := len(ra), len(rb)
	if m == 0 {
		return n
	}

	var rows [3][]int
	for i := range rows {
		rows[i] = make([]int, m+1)
	}
	for j := 0; j <= m; j++ {
		rows[0][j] = j
	}

	for i := 1; i <= n; i++ {
		cur := rows[i%3]
		prev := rows[(i-1)%3]
		prev2 := rows[(i+1)%3]
		cur[0] = i
		for j := 1; j <= m; j++ {
			sub := prev[j-1]
			if ra[i-1] != rb[j-1] {
				sub++
			}
			d := min(prev[j]+1, cur[j-1]+1, sub)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d = min(d, prev2[j-2]+1)
			}
			cur[j] = d
		}
	}
	return rows[n%3][m]
}

// EditDistanceCost returns LevenshteinDistance scaled by editCost.
func EditDistanceCost(a, b string, editCost int) int {
	return LevenshteinDistance(a, b) * editCost
}

// EditDistance returns the unweighted distance with DefaultEditCost per edit.
func EditDistance(a, b string) int {
	return EditDistanceCost(a, b, DefaultEditCost)
}

// EditDistanceWeighted returns the distance under m. A nil map falls back
// to EditDistanceCost.
func EditDistanceWeighted(a, b string, m *WeightMap, editCost int) int {
	if m == nil {
		return EditDistanceCost(a, b, editCost)
	}
	return DistanceAStarWeighted(a, b, m, editCost)
}
