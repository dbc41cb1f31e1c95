// Package loader replaces the stalls of one lot from a GeoJSON survey and
// rebuilds the adjacency relation, all inside one transaction.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"parking_recommender/internal/adjacency"
	"parking_recommender/internal/geometry"
	"parking_recommender/internal/metrics"
	"parking_recommender/internal/models"
)

// Stage is a step of a load run.
type Stage string

const (
	StageClearing  Stage = "CLEARING"
	StageParsing   Stage = "PARSING"
	StageInserting Stage = "INSERTING"
	StageLinking   Stage = "LINKING"
	StageCommitted Stage = "COMMITTED"
)

// Scope selects how much of the adjacency relation a load recomputes.
type Scope string

const (
	// ScopeLot clears and recomputes only adjacencies involving the lot.
	ScopeLot Scope = "lot"
	// ScopeGlobal clears the whole relation and rebuilds it from every stall.
	ScopeGlobal Scope = "global"
)

// adjacencyLockKey is shared by every load since adjacency crosses lots.
const adjacencyLockKey = "stall_neighbors"

// ParseScope accepts "lot" and "global".
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeLot, ScopeGlobal:
		return Scope(s), nil
	case "":
		return ScopeLot, nil
	}
	return "", fmt.Errorf("unknown adjacency scope %q (want lot or global)", s)
}

// Result summarises a committed load.
type Result struct {
	LotID    string        `json:"lot_id"`
	Scope    Scope         `json:"scope"`
	Stalls   int           `json:"stalls"`
	Skipped  int           `json:"skipped"`
	Pairs    int           `json:"neighbor_pairs"`
	Cleared  int64         `json:"cleared_stalls"`
	Duration time.Duration `json:"duration_ns"`
}

// Loader runs idempotent lot loads against a Store.
type Loader struct {
	store       Store
	scope       Scope
	invalidator Invalidator
	log         *logrus.Entry
}

// Option configures a Loader.
type Option func(*Loader)

// WithScope sets the adjacency scope, ScopeLot by default.
func WithScope(s Scope) Option {
	return func(l *Loader) { l.scope = s }
}

// WithInvalidator registers a hook run after commit.
func WithInvalidator(inv Invalidator) Option {
	return func(l *Loader) { l.invalidator = inv }
}

// New returns a Loader bound to store.
func New(store Store, opts ...Option) *Loader {
	l := &Loader{
		store: store,
		scope: ScopeLot,
		log:   logrus.WithField("component", "loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads path and loads it as lotID.
func (l *Loader) LoadFile(ctx context.Context, path, lotID string) (*Result, error) {
	l.log.Infof("Starting stall data load for lot: %s from %s...", lotID, path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return l.Load(ctx, bytes.NewReader(data), lotID)
}

// Load replaces lotID with the stalls in r. Either every stage commits or
// storage is left as it was.
func (l *Loader) Load(ctx context.Context, r io.Reader, lotID string) (*Result, error) {
	if lotID == "" {
		return nil, errors.New("lot id is required")
	}
	start := time.Now()
	res := &Result{LotID: lotID, Scope: l.scope}
	log := l.log.WithFields(logrus.Fields{"lot_id": lotID, "scope": l.scope})
	// Lots whose cached listings may hold stale stalls or neighbors.
	affected := map[string]bool{lotID: true}

	err := l.store.Transaction(ctx, func(tx Tx) error {
		if err := tx.Lock(lotID); err != nil {
			return fmt.Errorf("lock lot: %w", err)
		}
		if err := tx.Lock(adjacencyLockKey); err != nil {
			return fmt.Errorf("lock adjacency: %w", err)
		}

		enter(log, StageClearing)
		if l.scope == ScopeLot {
			prior, err := tx.NeighborLots(lotID)
			if err != nil {
				return fmt.Errorf("list neighbor lots: %w", err)
			}
			for _, id := range prior {
				affected[id] = true
			}
		}
		cleared, err := l.clear(tx, lotID)
		if err != nil {
			return err
		}
		res.Cleared = cleared

		enter(log, StageParsing)
		doc, err := geometry.ParseDocument(r)
		if err != nil {
			return err
		}
		log.Infof("Found entrance at (%g %g)", doc.Entrance.X(), doc.Entrance.Y())
		res.Skipped = doc.Skipped

		stalls := make([]models.Stall, 0, len(doc.Stalls))
		for _, sg := range doc.Stalls {
			stall, err := geometry.DeriveStall(sg, doc.Entrance, lotID)
			if err != nil {
				return err
			}
			log.Debugf("Prepared stall %s for creation.", stall.ID)
			stalls = append(stalls, stall)
		}

		enter(log, StageInserting)
		if len(stalls) == 0 {
			// The lot stays cleared: an empty survey means an empty lot.
			log.Warn("No valid stall polygons found to load.")
		} else if err := tx.CreateStalls(stalls); err != nil {
			return fmt.Errorf("insert stalls: %w", err)
		}
		res.Stalls = len(stalls)

		enter(log, StageLinking)
		pairs, err := l.link(tx, lotID, affected)
		if err != nil {
			return err
		}
		res.Pairs = len(pairs)
		for _, p := range pairs {
			log.Debugf("  - %s and %s are neighbors.", p.A, p.B)
		}
		return nil
	})
	if err != nil {
		metrics.LoadsTotal.WithLabelValues("failed").Inc()
		log.WithError(err).Error("Stall load rolled back")
		return nil, err
	}

	res.Duration = time.Since(start)
	enter(log, StageCommitted)
	metrics.LoadsTotal.WithLabelValues("committed").Inc()
	metrics.StallsLoaded.WithLabelValues(lotID).Set(float64(res.Stalls))
	metrics.LoadDuration.Observe(res.Duration.Seconds())

	if l.invalidator != nil {
		lots := make([]string, 0, len(affected))
		for id := range affected {
			lots = append(lots, id)
		}
		sort.Strings(lots)
		for _, id := range lots {
			if err := l.invalidator.InvalidateLot(ctx, id); err != nil {
				log.WithError(err).WithField("invalidate_lot", id).Warn("Cache invalidation failed after commit")
			}
		}
	}
	log.WithFields(logrus.Fields{
		"stalls":  res.Stalls,
		"skipped": res.Skipped,
		"pairs":   res.Pairs,
	}).Infof("Stall data load for lot %s complete.", lotID)
	return res, nil
}

func enter(log *logrus.Entry, s Stage) {
	log.WithField("stage", s).Info("loader stage")
}

func (l *Loader) clear(tx Tx, lotID string) (int64, error) {
	var err error
	if l.scope == ScopeGlobal {
		_, err = tx.DeleteAllNeighbors()
	} else {
		_, err = tx.DeleteLotNeighbors(lotID)
	}
	if err != nil {
		return 0, fmt.Errorf("clear neighbors: %w", err)
	}
	n, err := tx.DeleteLot(lotID)
	if err != nil {
		return 0, fmt.Errorf("clear lot: %w", err)
	}
	return n, nil
}

// link rebuilds adjacency and marks the lots on either side of every new
// pair in affected. A global rebuild marks every lot.
func (l *Loader) link(tx Tx, lotID string, affected map[string]bool) ([]adjacency.Pair, error) {
	stalls, err := tx.AllStalls()
	if err != nil {
		return nil, fmt.Errorf("list stalls: %w", err)
	}
	footprints := make([]adjacency.Footprint, 0, len(stalls))
	for _, s := range stalls {
		poly, err := geometry.ParseWKTPolygon(s.GeomWKT)
		if err != nil {
			return nil, &geometry.InvalidGeometryError{StallID: s.ID, Reason: err.Error()}
		}
		footprints = append(footprints, adjacency.Footprint{ID: s.ID, Polygon: poly})
	}

	lotOf := make(map[string]string, len(stalls))
	for _, s := range stalls {
		lotOf[s.ID] = s.LotID
		if l.scope == ScopeGlobal {
			affected[s.LotID] = true
		}
	}

	var focus func(string) bool
	if l.scope == ScopeLot {
		inLot := make(map[string]bool)
		for _, s := range stalls {
			if s.LotID == lotID {
				inLot[s.ID] = true
			}
		}
		focus = func(id string) bool { return inLot[id] }
	}

	pairs, err := adjacency.Build(footprints, focus)
	if err != nil {
		return nil, fmt.Errorf("build adjacency: %w", err)
	}
	for _, p := range pairs {
		affected[lotOf[p.A]] = true
		affected[lotOf[p.B]] = true
	}
	if len(pairs) > 0 {
		if err := tx.CreateNeighbors(adjacency.Links(pairs)); err != nil {
			return nil, fmt.Errorf("insert neighbors: %w", err)
		}
	}
	return pairs, nil
}
