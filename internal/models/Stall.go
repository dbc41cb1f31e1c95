// internal/models/stall.go
package models

// DefaultLotID is used when a request or load does not name a lot.
const DefaultLotID = "LotA"

// Stall is a single parking space. The id is global across lots ("A-27"),
// the loader never namespaces it by lot.
type Stall struct {
	ID      string  `gorm:"primaryKey" json:"id"`
	LotID   string  `gorm:"not null;default:LotA;index" json:"lot_id"`
	GeomWKT string  `gorm:"type:text;not null" json:"geom_wkt"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`

	// Associations
	Feature *StallFeature `gorm:"foreignKey:ID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"features,omitempty"`
	Events  []Event       `gorm:"foreignKey:StallID;constraint:OnDelete:CASCADE;" json:"-"`
}
