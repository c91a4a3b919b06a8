package entity

import "time"

type Land struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	AreaAcres   float64   `json:"area_acres"`
	SoilPH      float64   `json:"soil_ph"`
	Moisture    float64   `json:"moisture"`
	Temperature *float64  `json:"temperature,omitempty"`
	Crop        string    `json:"crop,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Reading returns the land's stored soil parameters as a SoilReading.
func (l *Land) Reading() SoilReading {
	return SoilReading{PH: l.SoilPH, Moisture: l.Moisture, Temperature: l.Temperature}
}

// LandInput uses pointers for the soil readings so that a missing value can be
// told apart from a zero reading.
type LandInput struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	AreaAcres   float64  `json:"area_acres"`
	SoilPH      *float64 `json:"soil_ph"`
	Moisture    *float64 `json:"moisture"`
	Temperature *float64 `json:"temperature"`
	Crop        string   `json:"crop"`
}
