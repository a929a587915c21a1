package ports

import "geo-route-service/internal/domain"

// Port: persisted graphs keyed by (name, network type).
type GraphStore interface {
	Save(g *domain.NetworkGraph, name, networkType string) (domain.GraphMetadata, error)
	Load(name, networkType string) (*domain.NetworkGraph, error)
	List() ([]domain.GraphMetadata, error)
}
