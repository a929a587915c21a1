package dto

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Envelope fields shared by every operation that can degrade to a failed result.
type Outcome struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type BearingResponse struct {
	Outcome
	Bearing float64 `json:"bearing"`
}

type DistanceResponse struct {
	Outcome
	Kind           string  `json:"kind"`
	DistanceMeters float64 `json:"distance_meters"`
}

type CenterResponse struct {
	Center Point `json:"center"`
}

type GeocodeResponse struct {
	Outcome
	Query       string       `json:"query"`
	Point       *Point       `json:"point,omitempty"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}
