package models

// Detection is a single bounding box produced by the vehicle detector.
type Detection struct {
	DetID uint    `gorm:"primaryKey;autoIncrement" json:"det_id"`
	RunID *string `gorm:"index" json:"run_id,omitempty"`
	TsMs  int64   `json:"ts_ms"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Conf  float64 `json:"conf"`
	Cls   string  `json:"cls"`
}
