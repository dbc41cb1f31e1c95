package controllers

import (
	"context"
	"io"
	"time"

	"parking_recommender/internal/cache"
	"parking_recommender/internal/loader"
	"parking_recommender/internal/middleware"
	"parking_recommender/internal/models"
	"parking_recommender/internal/recommend"
)

// Store is the storage the HTTP API reads and writes.
type Store interface {
	Ping(ctx context.Context) error
	LotSpots(ctx context.Context, lotID string) ([]recommend.Spot, error)
	Spot(ctx context.Context, lotID, id string) (*recommend.Spot, error)
	RecordEvent(ctx context.Context, lotID string, ev *models.Event, status *models.SpotStatus) error
	CreateRun(ctx context.Context, run *models.Run) error
	EndRun(ctx context.Context, runID string, at time.Time) (*models.Run, error)
	RunExists(ctx context.Context, runID string) (bool, error)
	CreateDetections(ctx context.Context, dets []models.Detection) error
	CarSpec(ctx context.Context, carMake, model string, year int) (*models.CarSpec, error)
	ListModels(ctx context.Context) ([]models.ModelRegistry, error)
}

// StallLoader runs a survey load for one lot.
type StallLoader interface {
	Load(ctx context.Context, r io.Reader, lotID string) (*loader.Result, error)
}

// Handler carries the dependencies of every endpoint.
type Handler struct {
	store  Store
	cache  *cache.SpotCache
	hub    *LotHub
	loader StallLoader
	auth   *middleware.Auth

	operatorUser string
	operatorHash string
}

// Options wires a Handler. Cache may be nil.
type Options struct {
	Store        Store
	Cache        *cache.SpotCache
	Hub          *LotHub
	Loader       StallLoader
	Auth         *middleware.Auth
	OperatorUser string
	OperatorHash string
}

func NewHandler(o Options) *Handler {
	return &Handler{
		store:        o.Store,
		cache:        o.Cache,
		hub:          o.Hub,
		loader:       o.Loader,
		auth:         o.Auth,
		operatorUser: o.OperatorUser,
		operatorHash: o.OperatorHash,
	}
}
