package models

// All lists every model the schema migration creates, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Stall{},
		&StallFeature{},
		&StallNeighbor{},
		&Event{},
		&Run{},
		&SpotStatus{},
		&Detection{},
		&CarSpec{},
		&ModelRegistry{},
	}
}
