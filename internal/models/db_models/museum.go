package db_models

type Museum struct {
	BaseModel
	Name    string
	Address string
	// Registered location. Nil until the row has been surveyed; the
	// geofence check skips museums without one.
	Latitude     *float64 `gorm:"type:decimal(10,7)"`
	Longitude    *float64 `gorm:"type:decimal(10,7)"`
	Status       string
	OpeningHours string
	ContactInfo  string
	Description  string

	CheckIns []CheckinRecord `gorm:"foreignKey:MuseumID"`
}
