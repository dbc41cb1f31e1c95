package models

// CarSpec holds the dimensions of a vehicle model, used to derive the
// size class a driver needs.
type CarSpec struct {
	Make      string `gorm:"primaryKey" json:"make"`
	Model     string `gorm:"primaryKey" json:"model"`
	Year      int    `gorm:"primaryKey" json:"year"`
	SizeClass string `json:"size_class"` // compact, midsize, full, suv, truck
	LengthMM  int    `json:"length_mm"`
	WidthMM   int    `json:"width_mm"`
	HeightMM  int    `json:"height_mm"`
}

func (CarSpec) TableName() string {
	return "carspecs"
}
