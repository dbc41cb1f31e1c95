// Package repository is the Postgres storage layer, built on GORM.
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parking_recommender/internal/loader"
	"parking_recommender/internal/models"
)

const batchSize = 500

// Repository owns no connection state beyond the handle it was given.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Ping runs SELECT 1.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("SELECT 1").Error
}

// Transaction implements loader.Store.
func (r *Repository) Transaction(ctx context.Context, fn func(tx loader.Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&stallTx{db: tx})
	})
}

type stallTx struct {
	db *gorm.DB
}

// Lock takes a transaction-scoped advisory lock, released on commit or
// rollback.
func (t *stallTx) Lock(key string) error {
	return t.db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (t *stallTx) DeleteAllNeighbors() (int64, error) {
	res := t.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.StallNeighbor{})
	return res.RowsAffected, res.Error
}

func (t *stallTx) lotStallIDs(lotID string) *gorm.DB {
	return t.db.Model(&models.Stall{}).Select("id").Where("lot_id = ?", lotID)
}

func (t *stallTx) NeighborLots(lotID string) ([]string, error) {
	var lots []string
	err := t.db.Model(&models.Stall{}).
		Distinct("lot_id").
		Where("id IN (?)", t.db.Model(&models.StallNeighbor{}).
			Select("neighbor_id").
			Where("stall_id IN (?)", t.lotStallIDs(lotID))).
		Order("lot_id").
		Pluck("lot_id", &lots).Error
	return lots, err
}

func (t *stallTx) DeleteLotNeighbors(lotID string) (int64, error) {
	ids := t.lotStallIDs(lotID)
	res := t.db.Where("stall_id IN (?) OR neighbor_id IN (?)", ids, ids).Delete(&models.StallNeighbor{})
	return res.RowsAffected, res.Error
}

func (t *stallTx) DeleteLot(lotID string) (int64, error) {
	if err := t.db.Where("id IN (?)", t.lotStallIDs(lotID)).Delete(&models.StallFeature{}).Error; err != nil {
		return 0, err
	}
	res := t.db.Where("lot_id = ?", lotID).Delete(&models.Stall{})
	return res.RowsAffected, res.Error
}

func (t *stallTx) CreateStalls(stalls []models.Stall) error {
	features := make([]models.StallFeature, 0, len(stalls))
	for _, s := range stalls {
		if s.Feature != nil {
			features = append(features, *s.Feature)
		}
	}
	if err := t.db.Omit(clause.Associations).CreateInBatches(stalls, batchSize).Error; err != nil {
		return mapError(err)
	}
	if len(features) == 0 {
		return nil
	}
	return mapError(t.db.CreateInBatches(features, batchSize).Error)
}

func (t *stallTx) AllStalls() ([]models.Stall, error) {
	var stalls []models.Stall
	err := t.db.Order("id").Find(&stalls).Error
	return stalls, err
}

func (t *stallTx) CreateNeighbors(links []models.StallNeighbor) error {
	return mapError(t.db.CreateInBatches(links, batchSize).Error)
}
