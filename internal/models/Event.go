package models

import (
	"time"
)

const (
	EventOccupy = "occupy"
	EventVacate = "vacate"
)

// Event is an occupancy change observed for a stall.
type Event struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StallID   string    `gorm:"not null;index" json:"stall_id"`
	Ts        time.Time `gorm:"autoCreateTime" json:"ts"`
	EventType string    `gorm:"not null" json:"event_type"` // "occupy" or "vacate"
}
