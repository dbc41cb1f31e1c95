package loader

import (
	"context"
	"fmt"
	"sort"

	"parking_recommender/internal/models"
)

// memState is a copy-on-transaction snapshot of the three loader tables.
type memState struct {
	stalls    map[string]models.Stall
	features  map[string]models.StallFeature
	neighbors map[models.StallNeighbor]bool
}

func newMemState() *memState {
	return &memState{
		stalls:    make(map[string]models.Stall),
		features:  make(map[string]models.StallFeature),
		neighbors: make(map[models.StallNeighbor]bool),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.stalls {
		c.stalls[k] = v
	}
	for k, v := range s.features {
		c.features[k] = v
	}
	for k := range s.neighbors {
		c.neighbors[k] = true
	}
	return c
}

// memStore commits a transaction by swapping in the mutated snapshot.
type memStore struct {
	state    *memState
	locks    []string
	failNext error // returned from CreateNeighbors once, to exercise rollback
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

func (m *memStore) Transaction(_ context.Context, fn func(tx Tx) error) error {
	tx := &memTx{store: m, state: m.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	m.state = tx.state
	return nil
}

func (m *memStore) lotStalls(lotID string) []models.Stall {
	var out []models.Stall
	for _, s := range m.state.stalls {
		if s.LotID == lotID {
			f := m.state.features[s.ID]
			s.Feature = &f
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) neighborRows() []models.StallNeighbor {
	out := make([]models.StallNeighbor, 0, len(m.state.neighbors))
	for n := range m.state.neighbors {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StallID != out[j].StallID {
			return out[i].StallID < out[j].StallID
		}
		return out[i].NeighborID < out[j].NeighborID
	})
	return out
}

type memTx struct {
	store *memStore
	state *memState
}

func (t *memTx) Lock(key string) error {
	t.store.locks = append(t.store.locks, key)
	return nil
}

func (t *memTx) DeleteAllNeighbors() (int64, error) {
	n := int64(len(t.state.neighbors))
	t.state.neighbors = make(map[models.StallNeighbor]bool)
	return n, nil
}

func (t *memTx) DeleteLotNeighbors(lotID string) (int64, error) {
	var n int64
	for link := range t.state.neighbors {
		if t.inLot(link.StallID, lotID) || t.inLot(link.NeighborID, lotID) {
			delete(t.state.neighbors, link)
			n++
		}
	}
	return n, nil
}

func (t *memTx) NeighborLots(lotID string) ([]string, error) {
	seen := make(map[string]bool)
	for link := range t.state.neighbors {
		if t.inLot(link.StallID, lotID) {
			seen[t.state.stalls[link.NeighborID].LotID] = true
		}
	}
	lots := make([]string, 0, len(seen))
	for id := range seen {
		lots = append(lots, id)
	}
	sort.Strings(lots)
	return lots, nil
}

func (t *memTx) inLot(stallID, lotID string) bool {
	s, ok := t.state.stalls[stallID]
	return ok && s.LotID == lotID
}

func (t *memTx) DeleteLot(lotID string) (int64, error) {
	var n int64
	for id, s := range t.state.stalls {
		if s.LotID != lotID {
			continue
		}
		for link := range t.state.neighbors {
			if link.StallID == id || link.NeighborID == id {
				return 0, fmt.Errorf("foreign key violation: %s still referenced", id)
			}
		}
		delete(t.state.features, id)
		delete(t.state.stalls, id)
		n++
	}
	return n, nil
}

func (t *memTx) CreateStalls(stalls []models.Stall) error {
	for _, s := range stalls {
		if _, exists := t.state.stalls[s.ID]; exists {
			return fmt.Errorf("duplicate key value violates unique constraint \"stalls_pkey\": %s", s.ID)
		}
		if s.Feature != nil {
			t.state.features[s.ID] = *s.Feature
		}
		s.Feature = nil
		t.state.stalls[s.ID] = s
	}
	return nil
}

func (t *memTx) AllStalls() ([]models.Stall, error) {
	out := make([]models.Stall, 0, len(t.state.stalls))
	for _, s := range t.state.stalls {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) CreateNeighbors(links []models.StallNeighbor) error {
	if err := t.store.failNext; err != nil {
		t.store.failNext = nil
		return err
	}
	for _, l := range links {
		if t.state.neighbors[l] {
			return fmt.Errorf("duplicate key value violates unique constraint \"stall_neighbors_pkey\": %v", l)
		}
		t.state.neighbors[l] = true
	}
	return nil
}
