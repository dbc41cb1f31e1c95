package models

import (
	"time"
)

// Run is one pass of the detector over a video of a lot.
type Run struct {
	RunID     string     `gorm:"primaryKey" json:"run_id"` // UUID
	LotID     string     `gorm:"not null" json:"lot_id"`
	VideoPath string     `json:"video_path"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}
