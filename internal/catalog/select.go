package catalog

import (
	"math/rand"
	"sort"
)

// WeightedCategory draws one category from the weight map. Weights are
// relative integers; zero and negative weights are skipped. Returns false
// when no category carries weight. Iteration is over sorted keys so a seeded
// rng gives reproducible draws.
func WeightedCategory(rng *rand.Rand, weights map[Category]int) (Category, bool) {
	cats := make([]Category, 0, len(weights))
	total := 0
	for c, w := range weights {
		if w > 0 {
			cats = append(cats, c)
			total += w
		}
	}
	if total == 0 {
		return "", false
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	roll := rng.Intn(total)
	for _, c := range cats {
		roll -= weights[c]
		if roll < 0 {
			return c, true
		}
	}
	return cats[len(cats)-1], true
}

// PickExcluding picks one definition uniformly at random from defs, skipping
// any whose id appears in exclude. Returns nil when nothing remains.
func PickExcluding(rng *rand.Rand, defs []Definition, exclude map[string]bool) *Definition {
	candidates := make([]Definition, 0, len(defs))
	for _, d := range defs {
		if !exclude[d.ID] {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	d := candidates[rng.Intn(len(candidates))]
	return &d
}
