package graphstore

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"geo-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

type gmlDoc struct {
	XMLName xml.Name `xml:"graphml"`
	XMLNS   string   `xml:"xmlns,attr,omitempty"`
	Keys    []gmlKey `xml:"key"`
	Graph   gmlGraph `xml:"graph"`
}

type gmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type gmlGraph struct {
	EdgeDefault string    `xml:"edgedefault,attr"`
	Data        []gmlData `xml:"data"`
	Nodes       []gmlNode `xml:"node"`
	Edges       []gmlEdge `xml:"edge"`
}

type gmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type gmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []gmlData `xml:"data"`
}

type gmlEdge struct {
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	ID     string    `xml:"id,attr"`
	Data   []gmlData `xml:"data"`
}

// Attribute keys, in declaration order.
var gmlKeys = []gmlKey{
	{For: "graph", Name: "created_date", Type: "string"},
	{For: "graph", Name: "crs", Type: "string"},
	{For: "graph", Name: "network_type", Type: "string"},
	{For: "graph", Name: "simplified", Type: "boolean"},
	{For: "node", Name: "y", Type: "double"},
	{For: "node", Name: "x", Type: "double"},
	{For: "node", Name: "street_count", Type: "long"},
	{For: "edge", Name: "osmid", Type: "long"},
	{For: "edge", Name: "name", Type: "string"},
	{For: "edge", Name: "highway", Type: "string"},
	{For: "edge", Name: "oneway", Type: "boolean"},
	{For: "edge", Name: "reversed", Type: "boolean"},
	{For: "edge", Name: "length", Type: "double"},
	{For: "edge", Name: "speed_kph", Type: "double"},
	{For: "edge", Name: "travel_time", Type: "double"},
	{For: "edge", Name: "geometry", Type: "string"},
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// EncodeGraphML writes g as a GraphML document. Edges are written in (source, target, key)
// order so that decoding reassigns identical parallel-edge keys.
func EncodeGraphML(w io.Writer, g *domain.NetworkGraph) error {
	if g == nil {
		return fmt.Errorf("encode graphml: %w", domain.ErrNilGraph)
	}

	ids := make(map[string]string, len(gmlKeys))
	doc := gmlDoc{XMLNS: graphMLNamespace}
	for i, k := range gmlKeys {
		k.ID = "d" + strconv.Itoa(i)
		ids[k.Name] = k.ID
		doc.Keys = append(doc.Keys, k)
	}
	data := func(name, value string) gmlData { return gmlData{Key: ids[name], Value: value} }

	doc.Graph.EdgeDefault = "directed"
	doc.Graph.Data = []gmlData{
		data("created_date", g.CreatedAt.UTC().Format(time.RFC3339Nano)),
		data("crs", g.CRS),
		data("network_type", g.NetworkType),
		data("simplified", strconv.FormatBool(g.Simplified)),
	}

	for _, n := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, gmlNode{
			ID: strconv.FormatInt(int64(n.ID), 10),
			Data: []gmlData{
				data("y", ftoa(n.Point.Lat)),
				data("x", ftoa(n.Point.Lon)),
				data("street_count", strconv.Itoa(n.StreetCount)),
			},
		})
	}

	for _, e := range g.Edges() {
		d := []gmlData{
			data("osmid", strconv.FormatInt(e.OSMWayID, 10)),
			data("oneway", strconv.FormatBool(e.Oneway)),
			data("reversed", strconv.FormatBool(e.Reversed)),
			data("length", ftoa(e.Length)),
			data("speed_kph", ftoa(e.SpeedKPH)),
			data("travel_time", ftoa(e.TravelTime)),
		}
		if e.Name != "" {
			d = append(d, data("name", e.Name))
		}
		if e.Highway != "" {
			d = append(d, data("highway", e.Highway))
		}
		if len(e.Geometry) > 0 {
			d = append(d, data("geometry", wkt.MarshalString(lineString(e.Geometry))))
		}
		doc.Graph.Edges = append(doc.Graph.Edges, gmlEdge{
			Source: strconv.FormatInt(int64(e.From), 10),
			Target: strconv.FormatInt(int64(e.To), 10),
			ID:     strconv.Itoa(e.Key),
			Data:   d,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	return nil
}

// DecodeGraphML reads a document written by EncodeGraphML. Keys are resolved through their
// attr.name, so documents using other key ids decode as well; unknown attributes are ignored.
func DecodeGraphML(r io.Reader) (*domain.NetworkGraph, error) {
	var doc gmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode graphml: %w", err)
	}

	names := make(map[string]string, len(doc.Keys))
	for _, k := range doc.Keys {
		names[k.ID] = k.Name
	}
	attrs := func(ds []gmlData) map[string]string {
		out := make(map[string]string, len(ds))
		for _, d := range ds {
			out[names[d.Key]] = d.Value
		}
		return out
	}

	ga := attrs(doc.Graph.Data)
	g := domain.NewNetworkGraph(ga["network_type"])
	if v := ga["crs"]; v != "" {
		g.CRS = v
	}
	if v := ga["created_date"]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("decode graphml: created_date: %w", err)
		}
		g.CreatedAt = t
	}
	g.Simplified = ga["simplified"] == "true" || ga["simplified"] == "True"

	for _, n := range doc.Graph.Nodes {
		id, err := strconv.ParseInt(n.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode graphml: node id %q: %w", n.ID, err)
		}
		a := attrs(n.Data)
		lat, err := parseFloat(a, "y")
		if err != nil {
			return nil, fmt.Errorf("decode graphml: node %d: %w", id, err)
		}
		lon, err := parseFloat(a, "x")
		if err != nil {
			return nil, fmt.Errorf("decode graphml: node %d: %w", id, err)
		}
		streets, _ := strconv.Atoi(a["street_count"])
		g.AddNode(domain.Node{ID: domain.NodeID(id), Point: domain.GeoPoint{Lat: lat, Lon: lon}, StreetCount: streets})
	}

	for i, e := range doc.Graph.Edges {
		edge, err := decodeEdge(e, attrs(e.Data))
		if err != nil {
			return nil, fmt.Errorf("decode graphml: edge #%d: %w", i+1, err)
		}
		if _, err := g.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("decode graphml: %w", err)
		}
	}

	return g, nil
}

func decodeEdge(e gmlEdge, a map[string]string) (domain.Edge, error) {
	from, err := strconv.ParseInt(e.Source, 10, 64)
	if err != nil {
		return domain.Edge{}, fmt.Errorf("source %q: %w", e.Source, err)
	}
	to, err := strconv.ParseInt(e.Target, 10, 64)
	if err != nil {
		return domain.Edge{}, fmt.Errorf("target %q: %w", e.Target, err)
	}

	out := domain.Edge{
		From:     domain.NodeID(from),
		To:       domain.NodeID(to),
		Name:     a["name"],
		Highway:  a["highway"],
		Oneway:   a["oneway"] == "true" || a["oneway"] == "True",
		Reversed: a["reversed"] == "true" || a["reversed"] == "True",
	}
	out.OSMWayID, _ = strconv.ParseInt(a["osmid"], 10, 64)

	if out.Length, err = parseFloat(a, "length"); err != nil {
		return domain.Edge{}, err
	}
	out.SpeedKPH, _ = parseFloat(a, "speed_kph")
	out.TravelTime, _ = parseFloat(a, "travel_time")

	if s := a["geometry"]; s != "" {
		ls, err := wkt.UnmarshalLineString(s)
		if err != nil {
			return domain.Edge{}, fmt.Errorf("geometry: %w", err)
		}
		out.Geometry = make([]domain.GeoPoint, len(ls))
		for i, p := range ls {
			out.Geometry[i] = domain.GeoPoint{Lat: p.Lat(), Lon: p.Lon()}
		}
	}
	return out, nil
}

func parseFloat(a map[string]string, name string) (float64, error) {
	v, ok := a[name]
	if !ok {
		return 0, fmt.Errorf("missing %s", name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, v, err)
	}
	return f, nil
}

func lineString(pts []domain.GeoPoint) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}
