package overpass

import (
	"context"
	"math"
	"os"
	"testing"

	"geo-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixture(t *testing.T, b Builder) *domain.NetworkGraph {
	t.Helper()

	f, err := os.Open("testdata/junction.osm")
	require.NoError(t, err)
	defer f.Close()

	g, err := b.Build(context.Background(), f)
	require.NoError(t, err)
	return g
}

func TestBuildDriveSplitsAtJunctionsAndKeepsLargestComponent(t *testing.T) {
	g := buildFixture(t, Builder{NetworkType: NetworkDrive})

	assert.Equal(t, 4, g.NodeCount())
	// 1<->2, 2<->3 two-way plus the one-way 2->4.
	assert.Equal(t, 5, g.EdgeCount())
	assert.True(t, g.Simplified)

	_, ok := g.Node(10)
	assert.False(t, ok, "disconnected component should be dropped")

	n2, ok := g.Node(2)
	require.True(t, ok)
	assert.Equal(t, 3, n2.StreetCount)

	assert.Len(t, g.EdgesBetween(2, 4), 1)
	assert.Empty(t, g.EdgesBetween(4, 2), "one-way way must not produce a reverse edge")

	e, ok := g.MinEdge(1, 2, domain.WeightLength)
	require.True(t, ok)
	want := 6371009.0 * 0.001 * math.Pi / 180
	assert.InDelta(t, want, e.Length, 1e-6)
	assert.Equal(t, "Ferry Road", e.Name)
	assert.Equal(t, int64(100), e.OSMWayID)
	assert.Equal(t, 30.0, e.SpeedKPH)
	assert.InDelta(t, e.Length/(30.0/3.6), e.TravelTime, 1e-9)

	oneway, ok := g.MinEdge(2, 4, domain.WeightLength)
	require.True(t, ok)
	assert.True(t, oneway.Oneway)
	assert.Equal(t, 20.0, oneway.SpeedKPH)

	back, ok := g.MinEdge(2, 1, domain.WeightLength)
	require.True(t, ok)
	assert.True(t, back.Reversed)
	assert.Equal(t, domain.GeoPoint{Lat: 0, Lon: 0}, back.Geometry[len(back.Geometry)-1])
}

func TestBuildWalkIgnoresOnewayAndKeepsFootways(t *testing.T) {
	g := buildFixture(t, Builder{NetworkType: NetworkWalk})

	assert.Equal(t, 5, g.NodeCount())
	assert.Equal(t, 8, g.EdgeCount())
	assert.Len(t, g.EdgesBetween(4, 2), 1)

	e, ok := g.MinEdge(3, 20, domain.WeightLength)
	require.True(t, ok)
	assert.Equal(t, walkSpeedKPH, e.SpeedKPH)
}

func TestBuildRetainAll(t *testing.T) {
	g := buildFixture(t, Builder{NetworkType: NetworkDrive, RetainAll: true})

	assert.Equal(t, 6, g.NodeCount())
	assert.Equal(t, 7, g.EdgeCount())
}

func TestBuildTruncatesToBoundingBox(t *testing.T) {
	bbox := domain.BoundingBox{North: 0.0015, South: -0.0005, East: 0.0015, West: -0.0005}
	g := buildFixture(t, Builder{NetworkType: NetworkDrive, BBox: &bbox})

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	_, ok := g.Node(3)
	assert.False(t, ok)
}

func TestBuildRejectsUnknownNetworkType(t *testing.T) {
	f, err := os.Open("testdata/junction.osm")
	require.NoError(t, err)
	defer f.Close()

	_, err = Builder{NetworkType: "boat"}.Build(context.Background(), f)
	assert.Error(t, err)
}

func TestBuildEmptyNetworkIsNotFound(t *testing.T) {
	bbox := domain.BoundingBox{North: 50.1, South: 50, East: 10.1, West: 10}
	g, err := Builder{NetworkType: NetworkDrive, BBox: &bbox}.Build(context.Background(),
		mustOpen(t, "testdata/junction.osm"))
	assert.Nil(t, g)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
