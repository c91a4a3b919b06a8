package entity

// SoilReading holds one set of field measurements. Temperature is optional;
// a nil value means the reading was not taken.
type SoilReading struct {
	PH          float64  `json:"ph"`
	Moisture    float64  `json:"moisture"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// RecommendationRequest uses pointers so that a missing ph or moisture can be
// told apart from a zero reading.
type RecommendationRequest struct {
	PH          *float64 `json:"ph"`
	Moisture    *float64 `json:"moisture"`
	Temperature *float64 `json:"temperature"`
	DesiredCrop string   `json:"desired_crop"`
}

type Recommendation struct {
	Advisories     []string `json:"advisories"`
	Recommendation string   `json:"recommendation"`
}
