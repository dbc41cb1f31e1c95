package models

import (
	"time"
)

// ModelRegistry lists the detector weights available to the pipeline.
type ModelRegistry struct {
	Name        string    `gorm:"primaryKey" json:"name"`
	Path        string    `json:"path"`
	MetricsJSON *string   `gorm:"type:jsonb" json:"metrics_json,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ModelRegistry) TableName() string {
	return "models"
}
