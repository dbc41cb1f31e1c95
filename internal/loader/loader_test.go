package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_recommender/internal/geometry"
	"parking_recommender/internal/models"
)

type polygon struct {
	id    string
	props string // extra JSON properties, without braces
	x0    float64
	y0    float64
	x1    float64
	y1    float64
}

func survey(entrance [2]float64, polys ...polygon) string {
	var b strings.Builder
	b.WriteString(`{"type": "FeatureCollection", "features": [`)
	fmt.Fprintf(&b, `{"type": "Feature", "properties": {"id": "ENTRANCE"}, "geometry": {"type": "Point", "coordinates": [%g, %g]}}`,
		entrance[0], entrance[1])
	for _, p := range polys {
		props := fmt.Sprintf(`"id": %q`, p.id)
		if p.props != "" {
			props += ", " + p.props
		}
		fmt.Fprintf(&b, `, {"type": "Feature", "properties": {%s}, "geometry": {"type": "Polygon", "coordinates": [[[%g, %g], [%g, %g], [%g, %g], [%g, %g], [%g, %g]]]}}`,
			props, p.x0, p.y0, p.x1, p.y0, p.x1, p.y1, p.x0, p.y1, p.x0, p.y0)
	}
	b.WriteString(`]}`)
	return b.String()
}

var lotA = survey([2]float64{0, 0},
	polygon{id: "A-1", props: `"is_ev": true`, x0: 0, y0: 0, x1: 2, y1: 5},
	polygon{id: "A-2", props: `"is_ada": true, "width_class": 3`, x0: 2, y0: 0, x1: 4, y1: 5},
	polygon{id: "A-3", x0: 10, y0: 0, x1: 12, y1: 5},
)

// B-1 sits directly above A-3, sharing its top edge. B-2 is raised so it
// does not meet A-3's corner.
var lotB = survey([2]float64{10, 20},
	polygon{id: "B-1", x0: 10, y0: 5, x1: 12, y1: 10},
	polygon{id: "B-2", x0: 12, y0: 6, x1: 14, y1: 10},
)

type recordingInvalidator struct {
	lots []string
}

func (r *recordingInvalidator) InvalidateLot(_ context.Context, lotID string) error {
	r.lots = append(r.lots, lotID)
	return nil
}

func TestLoadTwoTouchingOneIsolated(t *testing.T) {
	store := newMemStore()
	res, err := New(store).Load(context.Background(), strings.NewReader(lotA), "LotA")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Stalls)
	assert.Equal(t, 1, res.Pairs)
	assert.Equal(t, ScopeLot, res.Scope)
	assert.Equal(t, []models.StallNeighbor{
		{StallID: "A-1", NeighborID: "A-2"},
		{StallID: "A-2", NeighborID: "A-1"},
	}, store.neighborRows())
	assert.Equal(t, []string{"LotA", adjacencyLockKey}, store.locks)
}

func TestLoadAppliesFeatureDefaults(t *testing.T) {
	store := newMemStore()
	_, err := New(store).Load(context.Background(), strings.NewReader(lotA), "LotA")
	require.NoError(t, err)

	stalls := store.lotStalls("LotA")
	require.Len(t, stalls, 3)
	a1 := stalls[0].Feature
	assert.True(t, a1.IsEV)
	assert.False(t, a1.IsADA)
	assert.Nil(t, a1.WidthClass)
	assert.InDelta(t, 2.692582, a1.DistToEntrance, 1e-6) // |(1, 2.5)|

	a2 := stalls[1].Feature
	assert.True(t, a2.IsADA)
	require.NotNil(t, a2.WidthClass)
	assert.Equal(t, 3, *a2.WidthClass)
}

func TestLoadIsIdempotent(t *testing.T) {
	store := newMemStore()
	l := New(store)

	_, err := l.Load(context.Background(), strings.NewReader(lotA), "LotA")
	require.NoError(t, err)
	firstStalls, firstLinks := store.lotStalls("LotA"), store.neighborRows()

	res, err := l.Load(context.Background(), strings.NewReader(lotA), "LotA")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Cleared)

	assert.Equal(t, firstStalls, store.lotStalls("LotA"))
	assert.Equal(t, firstLinks, store.neighborRows())
}

func TestLoadMissingEntranceLeavesStorageUnchanged(t *testing.T) {
	store := newMemStore()
	l := New(store)
	_, err := l.Load(context.Background(), strings.NewReader(lotA), "LotA")
	require.NoError(t, err)
	before := store.state

	noEntrance := `{"type": "FeatureCollection", "features": [
	  {"type": "Feature", "properties": {"id": "A-9"},
	   "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]}}
	]}`
	_, err = l.Load(context.Background(), strings.NewReader(noEntrance), "LotA")

	var missing *geometry.MissingEntranceError
	require.True(t, errors.As(err, &missing))
	assert.Same(t, before, store.state, "failed load must not commit")
	assert.Len(t, store.lotStalls("LotA"), 3)
}

func TestLoadMissingEntranceOnEmptyStorage(t *testing.T) {
	store := newMemStore()
	_, err := New(store).Load(context.Background(), strings.NewReader(`{"type": "FeatureCollection", "features": []}`), "LotA")
	require.Error(t, err)
	assert.Empty(t, store.state.stalls)
}

func TestLoadRollsBackOnStorageError(t *testing.T) {
	store := newMemStore()
	inv := &recordingInvalidator{}
	store.failNext = errors.New("connection reset")

	_, err := New(store, WithInvalidator(inv)).Load(context.Background(), strings.NewReader(lotA), "LotA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert neighbors")
	assert.Empty(t, store.state.stalls)
	assert.Empty(t, inv.lots)
}

func TestLoadRejectsIDCollisionAcrossLots(t *testing.T) {
	store := newMemStore()
	l := New(store)
	_, err := l.Load(context.Background(), strings.NewReader(lotA), "LotA")
	require.NoError(t, err)

	_, err = l.Load(context.Background(), strings.NewReader(lotA), "LotZ")
	require.Error(t, err)
	assert.Empty(t, store.lotStalls("LotZ"))
	assert.Len(t, store.lotStalls("LotA"), 3)
}

func TestLoadKeepsCrossLotAdjacency(t *testing.T) {
	store := newMemStore()
	l := New(store)
	ctx := context.Background()

	_, err := l.Load(ctx, strings.NewReader(lotA), "LotA")
	require.NoError(t, err)
	res, err := l.Load(ctx, strings.NewReader(lotB), "LotB")
	require.NoError(t, err)
	// B-1/B-2 plus B-1 on A-3's top edge.
	assert.Equal(t, 2, res.Pairs)

	want := []models.StallNeighbor{
		{StallID: "A-1", NeighborID: "A-2"},
		{StallID: "A-2", NeighborID: "A-1"},
		{StallID: "A-3", NeighborID: "B-1"},
		{StallID: "B-1", NeighborID: "A-3"},
		{StallID: "B-1", NeighborID: "B-2"},
		{StallID: "B-2", NeighborID: "B-1"},
	}
	assert.Equal(t, want, store.neighborRows())

	// Reloading A must not drop the A-3/B-1 edge owned jointly with LotB.
	_, err = l.Load(ctx, strings.NewReader(lotA), "LotA")
	require.NoError(t, err)
	assert.Equal(t, want, store.neighborRows())

	// A global rebuild lands on the same relation.
	_, err = New(store, WithScope(ScopeGlobal)).Load(ctx, strings.NewReader(lotB), "LotB")
	require.NoError(t, err)
	assert.Equal(t, want, store.neighborRows())
}

func TestLoadEmptySurveyClearsLot(t *testing.T) {
	store := newMemStore()
	l := New(store)
	_, err := l.Load(context.Background(), strings.NewReader(lotA), "LotA")
	require.NoError(t, err)

	res, err := l.Load(context.Background(), strings.NewReader(survey([2]float64{0, 0})), "LotA")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Stalls)
	assert.Empty(t, store.lotStalls("LotA"))
	assert.Empty(t, store.neighborRows())
}

func TestLoadInvalidatesAfterCommit(t *testing.T) {
	inv := &recordingInvalidator{}
	_, err := New(newMemStore(), WithInvalidator(inv)).Load(context.Background(), strings.NewReader(lotA), "LotA")
	require.NoError(t, err)
	assert.Equal(t, []string{"LotA"}, inv.lots)
}

func TestLoadInvalidatesLotsSharingAnEdge(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	_, err := New(store).Load(ctx, strings.NewReader(lotA), "LotA")
	require.NoError(t, err)

	inv := &recordingInvalidator{}
	l := New(store, WithInvalidator(inv))
	_, err = l.Load(ctx, strings.NewReader(lotB), "LotB")
	require.NoError(t, err)
	// B-1 gained A-3 as a neighbor.
	assert.Equal(t, []string{"LotA", "LotB"}, inv.lots)

	// Emptying A drops the A-3/B-1 edge, so B's listing is stale too.
	inv.lots = nil
	_, err = l.Load(ctx, strings.NewReader(survey([2]float64{0, 0})), "LotA")
	require.NoError(t, err)
	assert.Equal(t, []string{"LotA", "LotB"}, inv.lots)
	assert.Equal(t, []models.StallNeighbor{
		{StallID: "B-1", NeighborID: "B-2"},
		{StallID: "B-2", NeighborID: "B-1"},
	}, store.neighborRows())
}

func TestLoadGlobalScopeInvalidatesEveryLot(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	_, err := New(store).Load(ctx, strings.NewReader(lotA), "LotA")
	require.NoError(t, err)
	lotC := survey([2]float64{100, 100}, polygon{id: "C-1", x0: 100, y0: 100, x1: 102, y1: 105})
	_, err = New(store).Load(ctx, strings.NewReader(lotC), "LotC")
	require.NoError(t, err)

	inv := &recordingInvalidator{}
	_, err = New(store, WithScope(ScopeGlobal), WithInvalidator(inv)).Load(ctx, strings.NewReader(lotB), "LotB")
	require.NoError(t, err)
	assert.Equal(t, []string{"LotA", "LotB", "LotC"}, inv.lots)
}

func TestLoadRequiresLotID(t *testing.T) {
	_, err := New(newMemStore()).Load(context.Background(), strings.NewReader(lotA), "")
	assert.Error(t, err)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := New(newMemStore()).LoadFile(context.Background(), "/does/not/exist.geojson", "LotA")
	assert.Error(t, err)
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeLot, s)

	s, err = ParseScope("global")
	require.NoError(t, err)
	assert.Equal(t, ScopeGlobal, s)

	_, err = ParseScope("everything")
	assert.Error(t, err)
}
