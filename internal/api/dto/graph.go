package dto

import "time"

// Exactly one of Query, BBox or Points selects the area to fetch.
type CreateGraphRequest struct {
	Name        string       `json:"name"`
	NetworkType string       `json:"network_type"`
	Query       string       `json:"query"`
	Kind        string       `json:"kind"`
	BBox        *BoundingBox `json:"bbox"`
	Points      []Point      `json:"points"`
	Strategy    string       `json:"strategy"`
}

type GraphMetadata struct {
	GraphName   string    `json:"graph_name"`
	NetworkType string    `json:"network_type"`
	FilePath    string    `json:"file_path"`
	DateCreated time.Time `json:"date_created"`
}

type CreateGraphResponse struct {
	Outcome
	Metadata *GraphMetadata `json:"metadata,omitempty"`
	Nodes    int            `json:"nodes,omitempty"`
	Edges    int            `json:"edges,omitempty"`
}

type ListGraphsResponse struct {
	Graphs []GraphMetadata `json:"graphs"`
}

type GraphSummary struct {
	Name        string    `json:"name"`
	NetworkType string    `json:"network_type"`
	CRS         string    `json:"crs"`
	CreatedAt   time.Time `json:"created_at"`
	Simplified  bool      `json:"simplified"`
	Nodes       int       `json:"nodes"`
	Edges       int       `json:"edges"`
}
