package domain

import (
	"fmt"
	"sort"
	"time"
)

type NodeID int64

// Intersection or way endpoint in a street network.
type Node struct {
	ID          NodeID
	Point       GeoPoint
	StreetCount int
}

// Directed road segment. Key disambiguates parallel edges between the same pair of nodes.
type Edge struct {
	From       NodeID
	To         NodeID
	Key        int
	OSMWayID   int64
	Length     float64 // meters
	SpeedKPH   float64
	TravelTime float64 // seconds
	Highway    string
	Name       string
	Oneway     bool
	Reversed   bool
	Geometry   []GeoPoint
}

const (
	WeightLength     = "length"
	WeightTravelTime = "travel_time"
	WeightTime       = "time"
	WeightSpeed      = "speed_kph"
)

// Weight returns the edge attribute named by key. Unknown keys weigh 1, so a shortest path
// over an unknown key minimises hop count.
func (e Edge) Weight(key string) float64 {
	switch key {
	case WeightLength:
		return e.Length
	case WeightTravelTime, WeightTime:
		return e.TravelTime
	case WeightSpeed:
		return e.SpeedKPH
	default:
		return 1
	}
}

// NetworkGraph is a directed multigraph of a street network. Nodes and edges are only added
// through AddNode and AddEdge; nothing is removed once a graph has been handed to callers.
type NetworkGraph struct {
	NetworkType string
	CRS         string
	CreatedAt   time.Time
	Simplified  bool

	nodes map[NodeID]Node
	out   map[NodeID][]Edge
	edges int
}

func NewNetworkGraph(networkType string) *NetworkGraph {
	return &NetworkGraph{
		NetworkType: networkType,
		CRS:         "epsg:4326",
		CreatedAt:   time.Now().UTC(),
		nodes:       make(map[NodeID]Node),
		out:         make(map[NodeID][]Edge),
	}
}

// AddNode inserts or replaces a node.
func (g *NetworkGraph) AddNode(n Node) {
	g.nodes[n.ID] = n
}

// AddEdge appends an edge and assigns the next free key for its node pair.
// Both endpoints must already exist.
func (g *NetworkGraph) AddEdge(e Edge) (Edge, error) {
	if _, ok := g.nodes[e.From]; !ok {
		return Edge{}, fmt.Errorf("add edge %d->%d: unknown source node", e.From, e.To)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return Edge{}, fmt.Errorf("add edge %d->%d: unknown target node", e.From, e.To)
	}

	key := 0
	for _, existing := range g.out[e.From] {
		if existing.To == e.To && existing.Key >= key {
			key = existing.Key + 1
		}
	}
	e.Key = key

	g.out[e.From] = append(g.out[e.From], e)
	g.edges++
	return e, nil
}

func (g *NetworkGraph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *NetworkGraph) NodeCount() int { return len(g.nodes) }

func (g *NetworkGraph) EdgeCount() int { return g.edges }

// Nodes returns all nodes ordered by ID.
func (g *NetworkGraph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges ordered by (From, To, Key).
func (g *NetworkGraph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, es := range g.out {
		out = append(out, es...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// EdgesBetween returns the parallel edges u->v.
func (g *NetworkGraph) EdgesBetween(u, v NodeID) []Edge {
	var out []Edge
	for _, e := range g.out[u] {
		if e.To == v {
			out = append(out, e)
		}
	}
	return out
}

// MinEdge returns the parallel edge u->v with the smallest weight under key.
func (g *NetworkGraph) MinEdge(u, v NodeID, key string) (Edge, bool) {
	var best Edge
	found := false
	for _, e := range g.out[u] {
		if e.To != v {
			continue
		}
		if !found || e.Weight(key) < best.Weight(key) {
			best = e
			found = true
		}
	}
	return best, found
}
