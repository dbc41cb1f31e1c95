package geometry

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument wraps any failure to decode the input as a GeoJSON
// FeatureCollection.
var ErrMalformedDocument = errors.New("malformed GeoJSON document")

// MissingEntranceError reports that the document does not designate exactly
// one entrance Point.
type MissingEntranceError struct {
	Candidates int    // features whose id is the entrance id
	Geometry   string // geometry type of the single candidate when it is not a Point
}

func (e *MissingEntranceError) Error() string {
	switch {
	case e.Candidates == 0:
		return fmt.Sprintf("could not find a valid %q Point feature in the GeoJSON", EntranceID)
	case e.Candidates > 1:
		return fmt.Sprintf("ambiguous entrance: %d features are marked %q", e.Candidates, EntranceID)
	default:
		return fmt.Sprintf("entrance feature must be a Point, got %s", e.Geometry)
	}
}

// InvalidGeometryError reports a stall polygon that cannot be used for
// centroid or adjacency computation.
type InvalidGeometryError struct {
	StallID string
	Reason  string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("stall %s: invalid polygon: %s", e.StallID, e.Reason)
}
