package adjacency

import (
	"sort"

	"parking_recommender/internal/geometry"
	"parking_recommender/internal/models"
)

// Pair is an unordered adjacency, normalised so that A < B.
type Pair struct {
	A, B string
}

func newPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Build returns every touching pair with at least one side in focus.
// A nil focus selects every footprint, which is a full rebuild.
// Pairs come back sorted.
func Build(all []Footprint, focus func(id string) bool) ([]Pair, error) {
	idx, err := NewIndex(all)
	if err != nil {
		return nil, err
	}

	seen := make(map[Pair]bool)
	var pairs []Pair
	for i := range all {
		fp := &all[i]
		if focus != nil && !focus(fp.ID) {
			continue
		}
		candidates, err := idx.Candidates(fp)
		if err != nil {
			return nil, err
		}
		for _, other := range candidates {
			if other.ID == fp.ID {
				continue
			}
			p := newPair(fp.ID, other.ID)
			if seen[p] {
				continue
			}
			seen[p] = true
			if geometry.Touches(fp.Polygon, other.Polygon) {
				pairs = append(pairs, p)
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs, nil
}

// Links expands pairs into the two directed rows stored per adjacency.
func Links(pairs []Pair) []models.StallNeighbor {
	links := make([]models.StallNeighbor, 0, 2*len(pairs))
	for _, p := range pairs {
		links = append(links,
			models.StallNeighbor{StallID: p.A, NeighborID: p.B},
			models.StallNeighbor{StallID: p.B, NeighborID: p.A},
		)
	}
	return links
}

// Neighbors groups directed links by stall id.
func Neighbors(links []models.StallNeighbor) map[string][]string {
	out := make(map[string][]string)
	for _, l := range links {
		out[l.StallID] = append(out[l.StallID], l.NeighborID)
	}
	for id := range out {
		sort.Strings(out[id])
	}
	return out
}
