package response_models

type NearbyMuseum struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	OpeningHours   string  `json:"opening_hours,omitempty"`
	DistanceMeters float64 `json:"distance_meters"`
}
