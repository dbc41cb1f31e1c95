package controllers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"parking_recommender/internal/loader"
	"parking_recommender/internal/models"
	"parking_recommender/internal/recommend"
	"parking_recommender/internal/repository"
)

type fakeStore struct {
	mu       sync.Mutex
	pingErr  error
	spots    map[string][]recommend.Spot
	events   []models.Event
	status   []models.SpotStatus
	runs     map[string]*models.Run
	dets     []models.Detection
	specs    []models.CarSpec
	registry []models.ModelRegistry
}

func newFakeStore() *fakeStore {
	w2, w3 := 2, 3
	return &fakeStore{
		spots: map[string][]recommend.Spot{
			"LotA": {
				{ID: "A-1", LotID: "LotA", IsEV: true, Connectors: "J1772", WidthClass: &w2, DistToEntrance: 1, Neighbors: []string{"A-2"}},
				{ID: "A-2", LotID: "LotA", DistToEntrance: 2, Neighbors: []string{"A-1", "A-3"}},
				{ID: "A-3", LotID: "LotA", IsADA: true, WidthClass: &w3, DistToEntrance: 3, Neighbors: []string{"A-2"}},
			},
		},
		runs:  map[string]*models.Run{},
		specs: []models.CarSpec{
			{Make: "Ford", Model: "F-150", Year: 2022, SizeClass: "truck"},
		},
		registry: []models.ModelRegistry{{Name: "yolov8n", Path: "weights/yolov8n.pt"}},
	}
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) LotSpots(_ context.Context, lotID string) ([]recommend.Spot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	spots := f.spots[lotID]
	out := make([]recommend.Spot, len(spots))
	copy(out, spots)
	return out, nil
}

func (f *fakeStore) Spot(_ context.Context, lotID, id string) (*recommend.Spot, error) {
	for _, s := range f.spots[lotID] {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) RecordEvent(_ context.Context, lotID string, ev *models.Event, status *models.SpotStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := -1
	for i, s := range f.spots[lotID] {
		if s.ID == ev.StallID {
			idx = i
		}
	}
	if idx < 0 {
		return fmt.Errorf("stall %s in lot %s: %w", ev.StallID, lotID, repository.ErrNotFound)
	}
	if status != nil {
		if _, ok := f.runs[status.RunID]; !ok {
			return fmt.Errorf("run %s: %w", status.RunID, repository.ErrNotFound)
		}
		for _, s := range f.status {
			if s.RunID == status.RunID && s.TsMs == status.TsMs && s.SpotID == status.SpotID {
				return repository.ErrConflict
			}
		}
		f.status = append(f.status, *status)
	}
	ev.ID = uint(len(f.events) + 1)
	ev.Ts = time.Now()
	f.events = append(f.events, *ev)
	f.spots[lotID][idx].Occupied = ev.EventType == models.EventOccupy
	return nil
}

func (f *fakeStore) CreateRun(_ context.Context, run *models.Run) error {
	f.runs[run.RunID] = run
	return nil
}

func (f *fakeStore) EndRun(_ context.Context, runID string, at time.Time) (*models.Run, error) {
	run, ok := f.runs[runID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if run.EndedAt != nil {
		return nil, repository.ErrConflict
	}
	run.EndedAt = &at
	return run, nil
}

func (f *fakeStore) RunExists(_ context.Context, runID string) (bool, error) {
	_, ok := f.runs[runID]
	return ok, nil
}

func (f *fakeStore) CreateDetections(_ context.Context, dets []models.Detection) error {
	f.dets = append(f.dets, dets...)
	return nil
}

func (f *fakeStore) CarSpec(_ context.Context, carMake, model string, year int) (*models.CarSpec, error) {
	for _, s := range f.specs {
		if strings.EqualFold(s.Make, carMake) && strings.EqualFold(s.Model, model) && s.Year == year {
			s := s
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListModels(context.Context) ([]models.ModelRegistry, error) {
	return f.registry, nil
}

type fakeLoader struct {
	lotID string
	body  string
	err   error
}

func (l *fakeLoader) Load(_ context.Context, r io.Reader, lotID string) (*loader.Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	l.lotID, l.body = lotID, string(b)
	if l.err != nil {
		return nil, l.err
	}
	return &loader.Result{LotID: lotID, Scope: loader.ScopeLot, Stalls: 3, Pairs: 1}, nil
}
