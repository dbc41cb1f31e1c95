package loader

import (
	"context"

	"parking_recommender/internal/models"
)

// Store opens the single transaction a load runs in. Returning an error from
// fn rolls everything back.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of storage operations a load needs.
type Tx interface {
	// Lock serialises loaders that share a key until the transaction ends.
	Lock(key string) error
	// NeighborLots lists the lots of stalls adjacent to the lot's stalls.
	NeighborLots(lotID string) ([]string, error)
	DeleteAllNeighbors() (int64, error)
	DeleteLotNeighbors(lotID string) (int64, error)
	// DeleteLot removes the lot's StallFeature rows, then its Stall rows.
	DeleteLot(lotID string) (int64, error)
	CreateStalls(stalls []models.Stall) error
	AllStalls() ([]models.Stall, error)
	CreateNeighbors(links []models.StallNeighbor) error
}

// Invalidator drops derived data (caches) for a lot once a load commits.
type Invalidator interface {
	InvalidateLot(ctx context.Context, lotID string) error
}
