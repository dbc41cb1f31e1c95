package models

// StallNeighbor is one direction of the symmetric adjacency relation.
// Every pair is stored twice: (a, b) and (b, a).
type StallNeighbor struct {
	StallID    string `gorm:"primaryKey" json:"stall_id"`
	NeighborID string `gorm:"primaryKey;index" json:"neighbor_id"`
}
