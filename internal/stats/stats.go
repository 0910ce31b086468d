// Package stats computes distribution-shape metrics over completed play
// count distributions. All functions are pure and deterministic.
package stats

import "sort"

// Gini computes the Gini coefficient of a distribution of counts. Zero and
// negative values are filtered out first; the remainder is sorted ascending
// and the standard discrete formula applied, clamped to [0, 1]. Empty and
// single-element distributions yield 0.0 — for n == 1 that falls out of the
// formula's algebra and rankings depend on it, so it is not special-cased.
func Gini(counts []int) float64 {
	arr := make([]int, 0, len(counts))
	for _, c := range counts {
		if c > 0 {
			arr = append(arr, c)
		}
	}
	n := len(arr)
	if n == 0 {
		return 0.0
	}
	sort.Ints(arr)

	var cum, total int64
	for i, x := range arr {
		cum += int64(i+1) * int64(x)
		total += int64(x)
	}
	if total == 0 {
		return 0.0
	}

	g := (2*float64(cum))/(float64(n)*float64(total)) - float64(n+1)/float64(n)
	if g < 0.0 {
		return 0.0
	}
	if g > 1.0 {
		return 1.0
	}
	return g
}

// Flatness is a [0, 1] score of how evenly plays spread across items:
// (1 - Gini) scaled by a diversity factor of 1 - 1/n over the positive
// counts. Fewer than two positive counts always yield 0.0 — a single
// dominant item is not meaningfully flat.
func Flatness(counts []int) float64 {
	positive := 0
	for _, c := range counts {
		if c > 0 {
			positive++
		}
	}
	if positive < 2 {
		return 0.0
	}
	diversity := 1.0 - 1.0/float64(positive)
	return (1.0 - Gini(counts)) * diversity
}

// Consistency is the capped-per-year score of one item across years: each
// year contributes min(count, cap), so steady listening across many years
// beats a one-year burst.
type Consistency struct {
	Score       int
	YearsActive int
	TotalPlays  int
}

// ConsistencyScore computes the Consistency of a per-year count map. Every
// year present counts as active; callers populate the map from qualifying
// plays, so entries are positive.
func ConsistencyScore(countsByYear map[string]int, capPerYear int) Consistency {
	var c Consistency
	c.YearsActive = len(countsByYear)
	for _, n := range countsByYear {
		c.TotalPlays += n
		if n > capPerYear {
			n = capPerYear
		}
		c.Score += n
	}
	return c
}
