package graphstore

import (
	"fmt"
	"io"

	"geo-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ExportGeoJSON writes every edge of g as a LineString feature. A non-empty route is added as
// one more feature with kind "route", drawn along the parallel edges weight selects.
func ExportGeoJSON(w io.Writer, g *domain.NetworkGraph, route domain.Route, weight string) error {
	fc, err := FeatureCollection(g, route, weight)
	if err != nil {
		return err
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("export geojson: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("export geojson: %w", err)
	}
	return nil
}

func FeatureCollection(g *domain.NetworkGraph, route domain.Route, weight string) (*geojson.FeatureCollection, error) {
	if g == nil {
		return nil, fmt.Errorf("export geojson: %w", domain.ErrNilGraph)
	}

	fc := geojson.NewFeatureCollection()
	for _, e := range g.Edges() {
		geom := e.Geometry
		if len(geom) < 2 {
			geom = domain.Route{e.From, e.To}.Points(g)
		}

		f := geojson.NewFeature(lineString(geom))
		f.Properties["kind"] = "edge"
		f.Properties["u"] = int64(e.From)
		f.Properties["v"] = int64(e.To)
		f.Properties["key"] = e.Key
		f.Properties["osmid"] = e.OSMWayID
		f.Properties["length"] = e.Length
		f.Properties["travel_time"] = e.TravelTime
		f.Properties["oneway"] = e.Oneway
		if e.Name != "" {
			f.Properties["name"] = e.Name
		}
		if e.Highway != "" {
			f.Properties["highway"] = e.Highway
		}
		fc.Append(f)
	}

	if len(route) > 0 {
		var ls orb.LineString
		for i := 0; i+1 < len(route); i++ {
			e, ok := g.MinEdge(route[i], route[i+1], weight)
			if !ok || len(e.Geometry) < 2 {
				ls = append(ls, lineString(domain.Route{route[i], route[i+1]}.Points(g))...)
				continue
			}
			ls = append(ls, lineString(e.Geometry)...)
		}
		if len(route) == 1 {
			ls = lineString(route.Points(g))
		}

		f := geojson.NewFeature(ls)
		f.Properties["kind"] = "route"
		f.Properties["nodes"] = len(route)
		if length, err := route.Length(g, weight); err == nil {
			f.Properties["length"] = length
		}
		fc.Append(f)
	}

	return fc, nil
}
