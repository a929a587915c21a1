package dto

type ShortestRouteResponse struct {
	Outcome
	Mode         string  `json:"mode"`
	Weight       string  `json:"weight"`
	Nodes        []int64 `json:"nodes,omitempty"`
	Points       []Point `json:"points,omitempty"`
	Polyline     string  `json:"polyline,omitempty"`
	LengthMeters float64 `json:"length_meters,omitempty"`
	GraphNodes   int     `json:"graph_nodes,omitempty"`
	GraphEdges   int     `json:"graph_edges,omitempty"`
}

type RoadDistanceResponse struct {
	Outcome
	DistanceMeters float64 `json:"distance_meters"`
}

type RemoteRouteResponse struct {
	Outcome
	DistanceMeters  float64 `json:"distance_meters,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

type MatrixRequest struct {
	Origins      []Point `json:"origins"`
	Destinations []Point `json:"destinations"`
	Mode         string  `json:"mode"`
	Weight       string  `json:"weight"`
}

type MatrixCell struct {
	Outcome
	DistanceMeters float64 `json:"distance_meters"`
}

type MatrixResponse struct {
	Mode   string         `json:"mode"`
	Weight string         `json:"weight"`
	Rows   [][]MatrixCell `json:"rows"`
}
