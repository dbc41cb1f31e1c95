// Package geometry turns a GeoJSON lot survey into typed stall geometries and
// derives the per-stall attributes stored alongside them.
package geometry

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// EntranceID is the id property value that marks the lot entrance.
const EntranceID = "ENTRANCE"

// StallGeometry is one stall polygon together with its raw properties.
type StallGeometry struct {
	ID         string
	Polygon    *geom.Polygon
	Properties map[string]interface{}
}

// Document is the parsed content of a lot survey.
type Document struct {
	Entrance geom.Coord
	Stalls   []StallGeometry
	Skipped  int // polygons dropped for a missing or duplicate id
}

// ParseDocument reads a GeoJSON FeatureCollection. Stalls keep document order.
func ParseDocument(r io.Reader) (*Document, error) {
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	for i, f := range fc.Features {
		if f == nil {
			return nil, fmt.Errorf("%w: null feature at index %d", ErrMalformedDocument, i)
		}
	}

	entrance, err := findEntrance(fc.Features)
	if err != nil {
		return nil, err
	}

	doc := &Document{Entrance: entrance}
	seen := make(map[string]bool)
	for _, f := range fc.Features {
		poly, ok := f.Geometry.(*geom.Polygon)
		if !ok {
			continue
		}
		id, _ := f.Properties["id"].(string)
		if id == "" {
			logrus.WithField("properties", f.Properties).Warn("Skipping polygon feature with no id")
			doc.Skipped++
			continue
		}
		if seen[id] {
			logrus.WithField("stall_id", id).Warn("Skipping polygon feature with duplicate id")
			doc.Skipped++
			continue
		}
		if err := validatePolygon(id, poly); err != nil {
			return nil, err
		}
		seen[id] = true
		doc.Stalls = append(doc.Stalls, StallGeometry{ID: id, Polygon: poly, Properties: f.Properties})
	}
	return doc, nil
}

func findEntrance(features []*geojson.Feature) (geom.Coord, error) {
	var candidates []*geojson.Feature
	for _, f := range features {
		if id, _ := f.Properties["id"].(string); id == EntranceID {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) != 1 {
		return nil, &MissingEntranceError{Candidates: len(candidates)}
	}
	pt, ok := candidates[0].Geometry.(*geom.Point)
	if !ok || pt.Empty() {
		return nil, &MissingEntranceError{Candidates: 1, Geometry: fmt.Sprintf("%T", candidates[0].Geometry)}
	}
	return pt.Coords(), nil
}

func validatePolygon(id string, poly *geom.Polygon) error {
	if poly.NumLinearRings() == 0 {
		return &InvalidGeometryError{StallID: id, Reason: "empty polygon"}
	}
	shell := poly.LinearRing(0)
	if shell.NumCoords() < 4 {
		return &InvalidGeometryError{StallID: id, Reason: "shell needs at least 4 coordinates"}
	}
	if math.Abs(shell.Area()) == 0 {
		return &InvalidGeometryError{StallID: id, Reason: "zero area"}
	}
	return nil
}
