package models

const (
	SpotFree  = "FREE"
	SpotTaken = "TAKEN"
)

// SpotStatus is the state of a stall at a given offset into a run.
type SpotStatus struct {
	RunID  string `gorm:"primaryKey" json:"run_id"`
	TsMs   int64  `gorm:"primaryKey" json:"ts_ms"`
	SpotID string `gorm:"primaryKey" json:"spot_id"`
	State  string `gorm:"not null" json:"state"` // FREE or TAKEN

	Run   Run   `gorm:"foreignKey:RunID;references:RunID;constraint:OnDelete:CASCADE;" json:"-"`
	Stall Stall `gorm:"foreignKey:SpotID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (SpotStatus) TableName() string {
	return "spot_status"
}
