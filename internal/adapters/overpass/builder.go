package overpass

import (
	"context"
	"fmt"
	"io"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/geodesy"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Builder turns an OSM XML document into a simplified street network: ways are split only at
// intersections and way ends, so each edge carries the full geometry between two junctions.
type Builder struct {
	NetworkType string
	// BBox, when set, drops nodes outside the box and splits ways where they leave it.
	BBox *domain.BoundingBox
	// RetainAll keeps every weakly connected component instead of only the largest.
	RetainAll bool
}

type way struct {
	id    osm.WayID
	nodes []osm.NodeID
	tags  osm.Tags
}

type segment struct {
	way   way
	nodes []osm.NodeID
}

func (b Builder) Build(ctx context.Context, r io.Reader) (*domain.NetworkGraph, error) {
	filter, err := FilterFor(b.NetworkType)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	points, ways, err := readOSM(ctx, r, filter)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	runs := b.runs(points, ways)
	segments := splitAtJunctions(runs)
	if len(segments) == 0 {
		return nil, fmt.Errorf("build graph: %w: no %s ways in response", domain.ErrNotFound, b.NetworkType)
	}

	keep := b.component(segments)

	g := domain.NewNetworkGraph(b.NetworkType)
	g.Simplified = true

	streets := streetCounts(segments)
	for id := range keep {
		g.AddNode(domain.Node{
			ID:          domain.NodeID(id),
			Point:       points[id],
			StreetCount: streets[id],
		})
	}

	for _, s := range segments {
		if _, ok := keep[s.nodes[0]]; !ok {
			continue
		}
		if err := b.addSegment(g, points, s); err != nil {
			return nil, fmt.Errorf("build graph: %w", err)
		}
	}

	return g, nil
}

// readOSM collects node coordinates and the ways accepted by filter.
func readOSM(ctx context.Context, r io.Reader, filter Filter) (map[osm.NodeID]domain.GeoPoint, []way, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	points := make(map[osm.NodeID]domain.GeoPoint)
	var ways []way

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			points[o.ID] = domain.GeoPoint{Lat: o.Lat, Lon: o.Lon}
		case *osm.Way:
			if !filter.Match(o.Tags) {
				continue
			}
			ids := make([]osm.NodeID, 0, len(o.Nodes))
			for _, wn := range o.Nodes {
				ids = append(ids, wn.ID)
			}
			ways = append(ways, way{id: o.ID, nodes: ids, tags: o.Tags})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan osm xml: %w", err)
	}

	return points, ways, nil
}

// runs cuts each way into maximal stretches of nodes that are known and inside the box.
func (b Builder) runs(points map[osm.NodeID]domain.GeoPoint, ways []way) []segment {
	var out []segment
	for _, w := range ways {
		var cur []osm.NodeID
		flush := func() {
			if len(cur) >= 2 {
				out = append(out, segment{way: w, nodes: cur})
			}
			cur = nil
		}
		for _, id := range w.nodes {
			p, ok := points[id]
			if !ok || (b.BBox != nil && !b.BBox.Contains(p)) {
				flush()
				continue
			}
			cur = append(cur, id)
		}
		flush()
	}
	return out
}

// splitAtJunctions splits runs at every node shared by another run or repeated within one.
func splitAtJunctions(runs []segment) []segment {
	uses := make(map[osm.NodeID]int)
	for _, r := range runs {
		for i, id := range r.nodes {
			uses[id]++
			if i == 0 || i == len(r.nodes)-1 {
				uses[id]++
			}
		}
	}

	var out []segment
	for _, r := range runs {
		start := 0
		for i := 1; i < len(r.nodes); i++ {
			if i == len(r.nodes)-1 || uses[r.nodes[i]] > 1 {
				out = append(out, segment{way: r.way, nodes: r.nodes[start : i+1]})
				start = i
			}
		}
	}
	return out
}

// component returns the node set to keep: everything with RetainAll, otherwise the largest
// weakly connected component (ties broken by the smallest node ID).
func (b Builder) component(segments []segment) map[osm.NodeID]struct{} {
	ug := simple.NewUndirectedGraph()
	for _, s := range segments {
		for _, id := range []osm.NodeID{s.nodes[0], s.nodes[len(s.nodes)-1]} {
			if ug.Node(int64(id)) == nil {
				ug.AddNode(simple.Node(int64(id)))
			}
		}
		u, v := int64(s.nodes[0]), int64(s.nodes[len(s.nodes)-1])
		if u != v {
			ug.SetEdge(ug.NewEdge(simple.Node(u), simple.Node(v)))
		}
	}

	comps := topo.ConnectedComponents(ug)
	if b.RetainAll {
		all := make(map[osm.NodeID]struct{})
		for _, c := range comps {
			for _, n := range c {
				all[osm.NodeID(n.ID())] = struct{}{}
			}
		}
		return all
	}

	best, bestMin := -1, int64(0)
	for i, c := range comps {
		min := c[0].ID()
		for _, n := range c {
			if n.ID() < min {
				min = n.ID()
			}
		}
		if best < 0 || len(c) > len(comps[best]) || (len(c) == len(comps[best]) && min < bestMin) {
			best, bestMin = i, min
		}
	}

	keep := make(map[osm.NodeID]struct{})
	if best >= 0 {
		for _, n := range comps[best] {
			keep[osm.NodeID(n.ID())] = struct{}{}
		}
	}
	return keep
}

// streetCounts counts undirected segments meeting at each junction; a loop counts twice.
func streetCounts(segments []segment) map[osm.NodeID]int {
	out := make(map[osm.NodeID]int)
	for _, s := range segments {
		out[s.nodes[0]]++
		out[s.nodes[len(s.nodes)-1]]++
	}
	return out
}

func (b Builder) addSegment(g *domain.NetworkGraph, points map[osm.NodeID]domain.GeoPoint, s segment) error {
	geom := make([]domain.GeoPoint, len(s.nodes))
	length := 0.0
	for i, id := range s.nodes {
		geom[i] = points[id]
		if i > 0 {
			length += geodesy.SegmentLength(geom[i-1], geom[i])
		}
	}

	speed := speedKPH(s.way.tags, b.NetworkType)
	base := domain.Edge{
		OSMWayID:   int64(s.way.id),
		Length:     length,
		SpeedKPH:   speed,
		TravelTime: travelTime(length, speed),
		Highway:    s.way.tags.Find("highway"),
		Name:       s.way.tags.Find("name"),
	}

	from := domain.NodeID(s.nodes[0])
	to := domain.NodeID(s.nodes[len(s.nodes)-1])
	dir := onewayDirection(s.way.tags, b.NetworkType)

	forward := base
	forward.From, forward.To, forward.Geometry = from, to, geom
	forward.Oneway = dir != 0

	backward := base
	backward.From, backward.To, backward.Geometry = to, from, reversed(geom)
	backward.Oneway = dir != 0
	backward.Reversed = true

	var edges []domain.Edge
	switch dir {
	case 1:
		edges = []domain.Edge{forward}
	case -1:
		edges = []domain.Edge{backward}
	default:
		edges = []domain.Edge{forward, backward}
	}

	for _, e := range edges {
		if _, err := g.AddEdge(e); err != nil {
			return err
		}
	}
	return nil
}

func reversed(pts []domain.GeoPoint) []domain.GeoPoint {
	out := make([]domain.GeoPoint, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
