package geometry

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
	"github.com/twpayne/go-geom/xy"

	"parking_recommender/internal/models"
)

// DeriveStall builds the Stall row and its StallFeature for one polygon.
// Distance to the entrance is planar Euclidean, in input units.
func DeriveStall(sg StallGeometry, entrance geom.Coord, lotID string) (models.Stall, error) {
	centroid, err := xy.Centroid(sg.Polygon)
	if err != nil {
		return models.Stall{}, &InvalidGeometryError{StallID: sg.ID, Reason: err.Error()}
	}
	text, err := wkt.Marshal(sg.Polygon)
	if err != nil {
		return models.Stall{}, fmt.Errorf("stall %s: encode wkt: %w", sg.ID, err)
	}

	feature := models.StallFeature{
		ID:             sg.ID,
		IsADA:          boolProp(sg.Properties, "is_ada"),
		IsEV:           boolProp(sg.Properties, "is_ev"),
		Connectors:     stringProp(sg.Properties, "connectors"),
		WidthClass:     intProp(sg.Properties, "width_class"),
		DistToEntrance: xy.Distance(centroid, entrance),
	}

	return models.Stall{
		ID:      sg.ID,
		LotID:   lotID,
		GeomWKT: text,
		CenterX: centroid.X(),
		CenterY: centroid.Y(),
		Feature: &feature,
	}, nil
}

// ParseWKTPolygon decodes a stored stall geometry.
func ParseWKTPolygon(text string) (*geom.Polygon, error) {
	g, err := wkt.Unmarshal(text)
	if err != nil {
		return nil, err
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("expected POLYGON, got %T", g)
	}
	return poly, nil
}

func boolProp(props map[string]interface{}, key string) bool {
	v, _ := props[key].(bool)
	return v
}

func stringProp(props map[string]interface{}, key string) string {
	v, _ := props[key].(string)
	return v
}

// intProp accepts JSON numbers with no fractional part.
func intProp(props map[string]interface{}, key string) *int {
	f, ok := props[key].(float64)
	if !ok || f != math.Trunc(f) {
		return nil
	}
	n := int(f)
	return &n
}
