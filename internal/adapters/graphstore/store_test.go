package graphstore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"geo-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) *domain.NetworkGraph {
	t.Helper()

	g := domain.NewNetworkGraph("drive")
	g.CreatedAt = time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC)
	g.Simplified = true
	g.AddNode(domain.Node{ID: 101, Point: domain.GeoPoint{Lat: -6.82186645, Lon: 39.301757704855774}, StreetCount: 2})
	g.AddNode(domain.Node{ID: 202, Point: domain.GeoPoint{Lat: -6.8163, Lon: 39.2803}, StreetCount: 3})

	edges := []domain.Edge{
		{From: 101, To: 202, OSMWayID: 7, Length: 2500.25, SpeedKPH: 30, TravelTime: 300.03, Highway: "primary",
			Name: "Kilwa Road", Oneway: true,
			Geometry: []domain.GeoPoint{{Lat: -6.82186645, Lon: 39.301757704855774}, {Lat: -6.82, Lon: 39.29}, {Lat: -6.8163, Lon: 39.2803}}},
		{From: 101, To: 202, OSMWayID: 8, Length: 2600, SpeedKPH: 50, TravelTime: 187.2, Highway: "secondary"},
		{From: 202, To: 101, OSMWayID: 7, Length: 2500.25, SpeedKPH: 30, TravelTime: 300.03, Reversed: true},
	}
	for _, e := range edges {
		_, err := g.AddEdge(e)
		require.NoError(t, err)
	}
	return g
}

func TestGraphMLRoundTrip(t *testing.T) {
	g := sampleGraph(t)

	var buf bytes.Buffer
	require.NoError(t, EncodeGraphML(&buf, g))

	got, err := DecodeGraphML(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.NetworkType, got.NetworkType)
	assert.Equal(t, g.CRS, got.CRS)
	assert.True(t, g.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, got.Simplified)
	assert.Equal(t, g.Nodes(), got.Nodes())
	assert.Equal(t, g.Edges(), got.Edges())
}

func TestDecodeGraphMLRejectsGarbage(t *testing.T) {
	_, err := DecodeGraphML(bytes.NewBufferString("not xml"))
	assert.Error(t, err)
}

func TestFileStoreSaveLoadList(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Graph_Network")
	s := NewFileStore(root)
	s.now = func() time.Time { return time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC) }

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	meta, err := s.Save(sampleGraph(t), "dar", "drive")
	require.NoError(t, err)

	wantPath := filepath.Join(root, "dar", "drive", "dar.graphml")
	assert.Equal(t, wantPath, meta.FilePath)
	assert.FileExists(t, wantPath)

	raw, err := os.ReadFile(filepath.Join(root, "dar", "drive", "dar_metadata.json"))
	require.NoError(t, err)
	var sidecar map[string]string
	require.NoError(t, json.Unmarshal(raw, &sidecar))
	assert.Equal(t, "dar", sidecar["graph_name"])
	assert.Equal(t, "drive", sidecar["network_type"])
	assert.Equal(t, wantPath, sidecar["file_path"])
	assert.Equal(t, "2024-06-02T08:00:00Z", sidecar["date_created"])
	assert.Contains(t, string(raw), "\n    \"graph_name\"")

	loaded, err := s.Load("dar", "drive")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.NodeCount())
	assert.Equal(t, 3, loaded.EdgeCount())

	// Overwrite is silent.
	_, err = s.Save(sampleGraph(t), "dar", "drive")
	require.NoError(t, err)
	_, err = s.Save(sampleGraph(t), "arusha", "walk")
	require.NoError(t, err)

	list, err = s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "arusha", list[0].GraphName)
	assert.Equal(t, "dar", list[1].GraphName)
}

func TestFileStoreErrors(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, err := s.Save(nil, "dar", "drive")
	assert.ErrorIs(t, err, domain.ErrNilGraph)

	_, err = s.Load("missing", "drive")
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)

	for _, name := range []string{"", "..", "a/b", `a\b`, "x..y"} {
		_, err = s.Save(sampleGraph(t), name, "drive")
		assert.ErrorIs(t, err, domain.ErrInvalidName, name)
	}
	_, err = s.Load("dar", "../drive")
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestExportGeoJSON(t *testing.T) {
	g := sampleGraph(t)

	var buf bytes.Buffer
	require.NoError(t, ExportGeoJSON(&buf, g, domain.Route{101, 202}, domain.WeightLength))

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string      `json:"type"`
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 4)

	first := doc.Features[0]
	assert.Equal(t, "LineString", first.Geometry.Type)
	assert.Len(t, first.Geometry.Coordinates, 3)
	assert.Equal(t, "Kilwa Road", first.Properties["name"])

	route := doc.Features[3]
	assert.Equal(t, "route", route.Properties["kind"])
	assert.InDelta(t, 2500.25, route.Properties["length"], 1e-9)

	assert.ErrorIs(t, ExportGeoJSON(&buf, nil, nil, domain.WeightLength), domain.ErrNilGraph)
}

func TestExportGeoJSONRouteFollowsWeightedEdge(t *testing.T) {
	g := sampleGraph(t)

	fc, err := FeatureCollection(g, domain.Route{101, 202}, domain.WeightTravelTime)
	require.NoError(t, err)

	route := fc.Features[len(fc.Features)-1]
	assert.Equal(t, "route", route.Properties["kind"])
	// The secondary road is faster but longer and has no geometry of its own.
	assert.Equal(t, 2600.0, route.Properties["length"])
	assert.Len(t, route.Geometry, 2)
}

func TestFileStoreSavedFilesAreWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	root := t.TempDir()
	s := NewFileStore(root)

	_, err := s.Save(sampleGraph(t), "dar", "drive")
	require.NoError(t, err)

	for _, name := range []string{"dar.graphml", "dar_metadata.json"} {
		info, err := os.Stat(filepath.Join(root, "dar", "drive", name))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm(), name)
	}
}
