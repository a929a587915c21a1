package handlers

import (
	"net/http"

	"geo-route-service/internal/api/dto"
	"geo-route-service/internal/domain"
	"geo-route-service/internal/services"

	"github.com/twpayne/go-polyline"
)

const (
	defaultMode   = "drive"
	defaultWeight = domain.WeightLength

	// maxMatrixCells bounds a single matrix request; each cell may fetch a graph.
	maxMatrixCells = 100
)

// RouteHandler exposes local road routing over fetched street networks and the remote routing
// cross-check. Remote may be nil when no routing service is configured.
type RouteHandler struct {
	Planner *services.RoutePlanner
	Remote  *services.RemoteRouter
}

func (h *RouteHandler) Shortest(w http.ResponseWriter, r *http.Request) {
	origin, destination, err := queryPair(r, "origin", "destination")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	mode := queryDefault(r, "mode", defaultMode)
	weight := queryDefault(r, "weight", defaultWeight)

	res := h.Planner.ShortestRoute(r.Context(), origin, destination, mode, weight)
	out := dto.ShortestRouteResponse{Outcome: outcome(res), Mode: mode, Weight: weight}
	if res.OK() {
		g, route := res.Value.Graph, res.Value.Route
		points := route.Points(g)

		coords := make([][]float64, 0, len(points))
		out.Points = make([]dto.Point, 0, len(points))
		for _, p := range points {
			coords = append(coords, []float64{p.Lat, p.Lon})
			out.Points = append(out.Points, toDTO(p))
		}
		out.Nodes = make([]int64, 0, len(route))
		for _, id := range route {
			out.Nodes = append(out.Nodes, int64(id))
		}
		out.Polyline = string(polyline.EncodeCoords(coords))
		out.GraphNodes = g.NodeCount()
		out.GraphEdges = g.EdgeCount()

		length, err := route.Length(g, weight)
		if err != nil {
			writeFault(w, r, "shortest route", err)
			return
		}
		out.LengthMeters = length
	}
	writeJSON(w, r, http.StatusOK, out)
}

// RoadDistance reports -1 meters alongside ok=false when no distance could be computed.
func (h *RouteHandler) RoadDistance(w http.ResponseWriter, r *http.Request) {
	origin, destination, err := queryPair(r, "origin", "destination")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := h.Planner.RoadDistance(r.Context(), origin, destination,
		queryDefault(r, "mode", defaultMode), queryDefault(r, "weight", defaultWeight))
	writeJSON(w, r, http.StatusOK, dto.RoadDistanceResponse{
		Outcome:        outcome(res),
		DistanceMeters: domain.LegacyDistance(res),
	})
}

func (h *RouteHandler) Remote(w http.ResponseWriter, r *http.Request) {
	if h.Remote == nil {
		writeError(w, r, http.StatusServiceUnavailable, "remote routing is not configured")
		return
	}
	start, end, err := queryPair(r, "start", "end")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := h.Remote.Route(r.Context(), start, end)
	writeJSON(w, r, http.StatusOK, dto.RemoteRouteResponse{
		Outcome:         outcome(res),
		DistanceMeters:  res.Value.DistanceMeters,
		DurationSeconds: res.Value.DurationSeconds,
	})
}

// Matrix computes road distances for every origin and destination pair.
func (h *RouteHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	var req dto.MatrixRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Origins) == 0 || len(req.Destinations) == 0 {
		writeError(w, r, http.StatusBadRequest, "origins and destinations are required")
		return
	}
	if len(req.Origins)*len(req.Destinations) > maxMatrixCells {
		writeError(w, r, http.StatusBadRequest, "matrix is limited to 100 cells")
		return
	}

	mode, weight := req.Mode, req.Weight
	if mode == "" {
		mode = defaultMode
	}
	if weight == "" {
		weight = defaultWeight
	}

	origins := make([]domain.GeoPoint, len(req.Origins))
	for i, p := range req.Origins {
		origins[i] = fromDTO(p)
	}
	destinations := make([]domain.GeoPoint, len(req.Destinations))
	for i, p := range req.Destinations {
		destinations[i] = fromDTO(p)
	}

	cells := h.Planner.DistanceMatrix(r.Context(), origins, destinations, mode, weight)

	res := dto.MatrixResponse{Mode: mode, Weight: weight, Rows: make([][]dto.MatrixCell, len(cells))}
	for i, row := range cells {
		res.Rows[i] = make([]dto.MatrixCell, len(row))
		for j, c := range row {
			res.Rows[i][j] = dto.MatrixCell{Outcome: outcome(c), DistanceMeters: domain.LegacyDistance(c)}
		}
	}
	writeJSON(w, r, http.StatusOK, res)
}
