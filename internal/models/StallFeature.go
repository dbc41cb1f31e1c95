package models

// StallFeature is owned 1:1 by a Stall and shares its primary key.
type StallFeature struct {
	ID             string  `gorm:"primaryKey" json:"id"`
	IsEV           bool    `gorm:"default:false" json:"is_ev"`
	IsADA          bool    `gorm:"default:false" json:"is_ada"`
	Connectors     string  `json:"connectors"`            // e.g. "J1772, NACS"
	WidthClass     *int    `json:"width_class,omitempty"` // 1 compact, 2 standard, 3 wide
	DistToEntrance float64 `json:"dist_to_entrance"`
}
