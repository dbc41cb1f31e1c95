package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"parking_recommender/internal/adjacency"
	"parking_recommender/internal/models"
	"parking_recommender/internal/recommend"
)

// LotSpots returns every stall of a lot with its features, neighbors and
// current occupancy, ordered by id.
func (r *Repository) LotSpots(ctx context.Context, lotID string) ([]recommend.Spot, error) {
	db := r.db.WithContext(ctx)

	var stalls []models.Stall
	if err := db.Preload("Feature").Where("lot_id = ?", lotID).Order("id").Find(&stalls).Error; err != nil {
		return nil, err
	}
	if len(stalls) == 0 {
		return []recommend.Spot{}, nil
	}
	ids := make([]string, len(stalls))
	for i, s := range stalls {
		ids[i] = s.ID
	}

	neighbors, err := r.neighborsOf(db, ids)
	if err != nil {
		return nil, err
	}
	occupied, err := r.occupancy(db, lotID)
	if err != nil {
		return nil, err
	}

	spots := make([]recommend.Spot, 0, len(stalls))
	for _, s := range stalls {
		spots = append(spots, toSpot(s, neighbors[s.ID], occupied[s.ID]))
	}
	return spots, nil
}

// Spot returns a single stall of a lot.
func (r *Repository) Spot(ctx context.Context, lotID, id string) (*recommend.Spot, error) {
	db := r.db.WithContext(ctx)

	var stall models.Stall
	if err := db.Preload("Feature").Where("lot_id = ? AND id = ?", lotID, id).First(&stall).Error; err != nil {
		return nil, mapError(err)
	}
	neighbors, err := r.neighborsOf(db, []string{id})
	if err != nil {
		return nil, err
	}
	occupied, err := r.occupancy(db, lotID)
	if err != nil {
		return nil, err
	}
	spot := toSpot(stall, neighbors[id], occupied[id])
	return &spot, nil
}

func toSpot(s models.Stall, neighbors []string, occupied bool) recommend.Spot {
	if neighbors == nil {
		neighbors = []string{}
	}
	spot := recommend.Spot{
		ID:        s.ID,
		LotID:     s.LotID,
		CenterX:   s.CenterX,
		CenterY:   s.CenterY,
		Neighbors: neighbors,
		Occupied:  occupied,
	}
	if f := s.Feature; f != nil {
		spot.IsEV = f.IsEV
		spot.IsADA = f.IsADA
		spot.Connectors = f.Connectors
		spot.WidthClass = f.WidthClass
		spot.DistToEntrance = f.DistToEntrance
	}
	return spot
}

func (r *Repository) neighborsOf(db *gorm.DB, ids []string) (map[string][]string, error) {
	var links []models.StallNeighbor
	err := db.Where("stall_id IN ?", ids).Order("stall_id, neighbor_id").Find(&links).Error
	if err != nil {
		return nil, err
	}
	return adjacency.Neighbors(links), nil
}

// occupancy reports, per stall, whether its latest event is an occupy.
func (r *Repository) occupancy(db *gorm.DB, lotID string) (map[string]bool, error) {
	var rows []struct {
		StallID   string
		EventType string
	}
	err := db.Raw(`
		SELECT DISTINCT ON (e.stall_id) e.stall_id, e.event_type
		FROM events e
		JOIN stalls s ON s.id = e.stall_id
		WHERE s.lot_id = ?
		ORDER BY e.stall_id, e.ts DESC, e.id DESC`, lotID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		out[row.StallID] = row.EventType == models.EventOccupy
	}
	return out, nil
}

// RecordEvent stores an occupancy event for a stall of the lot and, when
// status is given, the matching spot_status row. Both or neither are written.
func (r *Repository) RecordEvent(ctx context.Context, lotID string, ev *models.Event, status *models.SpotStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Stall{}).Where("lot_id = ? AND id = ?", lotID, ev.StallID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("stall %s in lot %s: %w", ev.StallID, lotID, ErrNotFound)
		}
		if status != nil {
			if err := tx.Model(&models.Run{}).Where("run_id = ?", status.RunID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("run %s: %w", status.RunID, ErrNotFound)
			}
		}
		if err := tx.Create(ev).Error; err != nil {
			return mapError(err)
		}
		if status == nil {
			return nil
		}
		return mapError(tx.Create(status).Error)
	})
}

func (r *Repository) CreateRun(ctx context.Context, run *models.Run) error {
	return mapError(r.db.WithContext(ctx).Create(run).Error)
}

// EndRun stamps ended_at on a run that has not ended yet.
func (r *Repository) EndRun(ctx context.Context, runID string, at time.Time) (*models.Run, error) {
	db := r.db.WithContext(ctx)
	var run models.Run
	if err := db.Where("run_id = ?", runID).First(&run).Error; err != nil {
		return nil, mapError(err)
	}
	if run.EndedAt != nil {
		return nil, ErrConflict
	}
	run.EndedAt = &at
	if err := db.Model(&run).Update("ended_at", at).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// RunExists is used to validate run ids before writing detections.
func (r *Repository) RunExists(ctx context.Context, runID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Run{}).Where("run_id = ?", runID).Count(&n).Error
	return n > 0, err
}

func (r *Repository) CreateDetections(ctx context.Context, dets []models.Detection) error {
	if len(dets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&dets, batchSize).Error
}

// CarSpec matches make and model case-insensitively.
func (r *Repository) CarSpec(ctx context.Context, carMake, model string, year int) (*models.CarSpec, error) {
	var spec models.CarSpec
	err := r.db.WithContext(ctx).
		Where("LOWER(make) = ? AND LOWER(model) = ? AND year = ?",
			strings.ToLower(carMake), strings.ToLower(model), year).
		First(&spec).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &spec, nil
}

func (r *Repository) ListModels(ctx context.Context) ([]models.ModelRegistry, error) {
	var out []models.ModelRegistry
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}
