// Package recommend ranks the free stalls of a lot against a driver's
// filters.
package recommend

import (
	"sort"
	"strings"

	"parking_recommender/internal/nlp"
)

// DefaultLimit is used when the caller does not ask for a count.
const DefaultLimit = 3

// Spot is the read view of one stall with everything ranking needs.
type Spot struct {
	ID             string   `json:"id"`
	LotID          string   `json:"lot_id"`
	IsEV           bool     `json:"is_ev"`
	IsADA          bool     `json:"is_ada"`
	Connectors     string   `json:"connectors"`
	WidthClass     *int     `json:"width_class,omitempty"`
	DistToEntrance float64  `json:"dist_to_entrance"`
	CenterX        float64  `json:"center_x"`
	CenterY        float64  `json:"center_y"`
	Neighbors      []string `json:"neighbors"`
	Occupied       bool     `json:"occupied"`
}

// Recommendation is one ranked stall.
type Recommendation struct {
	ID             string   `json:"id"`
	DistToEntrance float64  `json:"dist_to_entrance"`
	Reasons        []string `json:"reasons"`
	Reason         string   `json:"reason"`
}

var minWidth = map[string]int{
	"compact": 1,
	"midsize": 2,
	"full":    2,
	"suv":     3,
	"truck":   3,
}

// MinWidthClass returns the narrowest width class that fits a size class.
func MinWidthClass(size string) (int, bool) {
	w, ok := minWidth[strings.ToLower(size)]
	return w, ok
}

// Rank filters out occupied and non-matching stalls and orders the rest by
// distance to the entrance, then id. Neighbors not present in spots count as
// free. limit <= 0 means DefaultLimit.
func Rank(spots []Spot, f nlp.Filters, limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultLimit
	}
	occupied := make(map[string]bool, len(spots))
	for _, s := range spots {
		occupied[s.ID] = s.Occupied
	}

	candidates := make([]Spot, 0, len(spots))
	for _, s := range spots {
		if s.Occupied || !matches(s, f, occupied) {
			continue
		}
		candidates = append(candidates, s)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistToEntrance != candidates[j].DistToEntrance {
			return candidates[i].DistToEntrance < candidates[j].DistToEntrance
		}
		return candidates[i].ID < candidates[j].ID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]Recommendation, 0, len(candidates))
	for i, s := range candidates {
		reasons := reasonsFor(s, i == 0, occupied)
		out = append(out, Recommendation{
			ID:             s.ID,
			DistToEntrance: s.DistToEntrance,
			Reasons:        reasons,
			Reason:         strings.Join(reasons, ", "),
		})
	}
	return out
}

func matches(s Spot, f nlp.Filters, occupied map[string]bool) bool {
	if f.EV && !s.IsEV {
		return false
	}
	if f.ADA && !s.IsADA {
		return false
	}
	if f.Connector != "" && !hasConnector(s.Connectors, f.Connector) {
		return false
	}
	if f.Size != "" {
		need, ok := MinWidthClass(f.Size)
		if ok {
			if s.WidthClass == nil {
				if need > 1 {
					return false
				}
			} else if *s.WidthClass < need {
				return false
			}
		}
	}
	if f.Buffered && !buffered(s, occupied) {
		return false
	}
	return true
}

// buffered holds when the stall has neighbors and all of them are free.
func buffered(s Spot, occupied map[string]bool) bool {
	if len(s.Neighbors) == 0 {
		return false
	}
	for _, n := range s.Neighbors {
		if occupied[n] {
			return false
		}
	}
	return true
}

// hasConnector compares normalised labels, so "CCS" matches "ccs" and
// "DC Fast" matches "dc_fast".
func hasConnector(labels, want string) bool {
	want = normalizeConnector(want)
	for _, l := range strings.Split(labels, ",") {
		l = normalizeConnector(l)
		if l == "" {
			continue
		}
		if l == want {
			return true
		}
		if want == "dcfast" && (strings.Contains(l, "dc") || strings.Contains(l, "fast")) {
			return true
		}
	}
	return false
}

func normalizeConnector(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func reasonsFor(s Spot, closest bool, occupied map[string]bool) []string {
	var r []string
	if closest {
		r = append(r, "Near entrance")
	}
	if s.IsEV {
		r = append(r, "EV-ready")
	}
	if s.IsADA {
		r = append(r, "ADA accessible")
	}
	if s.WidthClass != nil && *s.WidthClass >= 3 {
		r = append(r, "Wide space")
	}
	if buffered(s, occupied) {
		r = append(r, "Buffered")
	}
	if len(r) == 0 {
		r = append(r, "Available")
	}
	return r
}
