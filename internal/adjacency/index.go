// Package adjacency finds stalls whose polygons touch. Candidates come from an
// R-tree over bounding boxes; the exact predicate runs only on those.
package adjacency

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/twpayne/go-geom"
)

const (
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
	// padding keeps degenerate (zero-width) boxes valid and makes boxes that
	// merely share an edge intersect. It is relative to coordinate magnitude
	// so that it stays above one ulp for large projected coordinates.
	padding = 1e-9
)

// Footprint is a stall polygon keyed by stall id.
type Footprint struct {
	ID      string
	Polygon *geom.Polygon
}

// spatialFootprint wraps a Footprint to implement rtreego.Spatial
type spatialFootprint struct {
	*Footprint
	rect rtreego.Rect
}

func (s *spatialFootprint) Bounds() rtreego.Rect {
	return s.rect
}

// Index is a read-only R-tree over stall footprints.
type Index struct {
	tree  *rtreego.Rtree
	items []*spatialFootprint
}

// NewIndex bulk-loads the footprints into an R-tree.
func NewIndex(footprints []Footprint) (*Index, error) {
	items := make([]*spatialFootprint, 0, len(footprints))
	objs := make([]rtreego.Spatial, 0, len(footprints))
	for i := range footprints {
		rect, err := boundsRect(footprints[i].Polygon)
		if err != nil {
			return nil, err
		}
		item := &spatialFootprint{Footprint: &footprints[i], rect: rect}
		items = append(items, item)
		objs = append(objs, item)
	}
	return &Index{
		tree:  rtreego.NewTree(dimensions, minChildren, maxChildren, objs...),
		items: items,
	}, nil
}

// Size returns the number of indexed footprints.
func (idx *Index) Size() int {
	return idx.tree.Size()
}

// Candidates returns every footprint whose padded box intersects fp's.
// fp itself is included when it is indexed.
func (idx *Index) Candidates(fp *Footprint) ([]*Footprint, error) {
	rect, err := boundsRect(fp.Polygon)
	if err != nil {
		return nil, err
	}
	results := idx.tree.SearchIntersect(rect)
	out := make([]*Footprint, 0, len(results))
	for _, r := range results {
		item, ok := r.(*spatialFootprint)
		if !ok {
			continue
		}
		out = append(out, item.Footprint)
	}
	return out, nil
}

func boundsRect(p *geom.Polygon) (rtreego.Rect, error) {
	b := p.Bounds()
	scale := 1.0
	for dim := 0; dim < dimensions; dim++ {
		scale = math.Max(scale, math.Max(math.Abs(b.Min(dim)), math.Abs(b.Max(dim))))
	}
	pad := scale * padding
	return rtreego.NewRectFromPoints(
		rtreego.Point{b.Min(0) - pad, b.Min(1) - pad},
		rtreego.Point{b.Max(0) + pad, b.Max(1) + pad},
	)
}
