package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/lineintersection"
	"github.com/twpayne/go-geom/xy/lineintersector"
	"github.com/twpayne/go-geom/xy/location"
)

// relTolerance scales with coordinate magnitude so that rounding in midpoint
// sample points on shared, non axis-aligned edges is not read as overlap.
const relTolerance = 1e-9

type segment struct {
	start, end geom.Coord
}

// Touches reports whether the boundaries of a and b meet while their
// interiors stay disjoint. A single shared corner counts.
func Touches(a, b *geom.Polygon) bool {
	if !a.Bounds().Overlaps(geom.XY, b.Bounds()) {
		return false
	}
	segsA, segsB := segments(a), segments(b)
	if !boundariesMeet(segsA, segsB) {
		return false
	}
	tol := tolerance(a, b)
	return !interiorsOverlap(a, b, segsA, segsB, tol)
}

func tolerance(polys ...*geom.Polygon) float64 {
	scale := 1.0
	for _, p := range polys {
		b := p.Bounds()
		for dim := 0; dim < 2; dim++ {
			scale = math.Max(scale, math.Max(math.Abs(b.Min(dim)), math.Abs(b.Max(dim))))
		}
	}
	return scale * relTolerance
}

func segments(p *geom.Polygon) []segment {
	var out []segment
	for i := 0; i < p.NumLinearRings(); i++ {
		coords := p.LinearRing(i).Coords()
		for j := 0; j+1 < len(coords); j++ {
			out = append(out, segment{start: coords[j], end: coords[j+1]})
		}
	}
	return out
}

func boundariesMeet(segsA, segsB []segment) bool {
	for _, sa := range segsA {
		for _, sb := range segsB {
			res := lineintersector.LineIntersectsLine(lineintersector.RobustLineIntersector{}, sa.start, sa.end, sb.start, sb.end)
			if res.HasIntersection() {
				return true
			}
		}
	}
	return false
}

func interiorsOverlap(a, b *geom.Polygon, segsA, segsB []segment, tol float64) bool {
	if properCrossing(segsA, segsB, tol) {
		return true
	}
	if samplesInside(segsA, b, tol) || samplesInside(segsB, a, tol) {
		return true
	}
	// Identical or vertex-aligned polygons leave every sample point on the boundary;
	// an interior point of one inside the other settles it.
	return interiorPointInside(a, b, tol) || interiorPointInside(b, a, tol)
}

// properCrossing finds two edges crossing at a point that is not an endpoint
// of either edge.
func properCrossing(segsA, segsB []segment, tol float64) bool {
	for _, sa := range segsA {
		for _, sb := range segsB {
			res := lineintersector.LineIntersectsLine(lineintersector.RobustLineIntersector{}, sa.start, sa.end, sb.start, sb.end)
			if res.Type() != lineintersection.PointIntersection {
				continue
			}
			pt := res.Intersection()[0]
			if !sameCoord(pt, sa.start, tol) && !sameCoord(pt, sa.end, tol) &&
				!sameCoord(pt, sb.start, tol) && !sameCoord(pt, sb.end, tol) {
				return true
			}
		}
	}
	return false
}

// samplesInside checks every vertex and edge midpoint of segs against poly.
func samplesInside(segs []segment, poly *geom.Polygon, tol float64) bool {
	for _, s := range segs {
		if strictlyInside(s.start, poly, tol) {
			return true
		}
		mid := geom.Coord{(s.start.X() + s.end.X()) / 2, (s.start.Y() + s.end.Y()) / 2}
		if strictlyInside(mid, poly, tol) {
			return true
		}
	}
	return false
}

func interiorPointInside(a, b *geom.Polygon, tol float64) bool {
	c, err := xy.Centroid(a)
	if err != nil || !strictlyInside(c, a, tol) {
		return false
	}
	return strictlyInside(c, b, tol)
}

// strictlyInside is true for points in the interior and farther than tol
// from every ring.
func strictlyInside(p geom.Coord, poly *geom.Polygon, tol float64) bool {
	if locate(p, poly) != location.Interior {
		return false
	}
	for i := 0; i < poly.NumLinearRings(); i++ {
		ring := poly.LinearRing(i)
		if xy.DistanceFromPointToLineString(ring.Layout(), p, ring.FlatCoords()) <= tol {
			return false
		}
	}
	return true
}

// locate classifies p against poly, treating holes as exterior.
func locate(p geom.Coord, poly *geom.Polygon) location.Type {
	shell := poly.LinearRing(0)
	switch xy.LocatePointInRing(shell.Layout(), p, shell.FlatCoords()) {
	case location.Exterior:
		return location.Exterior
	case location.Boundary:
		return location.Boundary
	}
	for i := 1; i < poly.NumLinearRings(); i++ {
		hole := poly.LinearRing(i)
		switch xy.LocatePointInRing(hole.Layout(), p, hole.FlatCoords()) {
		case location.Interior:
			return location.Exterior
		case location.Boundary:
			return location.Boundary
		}
	}
	return location.Interior
}

func sameCoord(a, b geom.Coord, tol float64) bool {
	return math.Abs(a.X()-b.X()) <= tol && math.Abs(a.Y()-b.Y()) <= tol
}
