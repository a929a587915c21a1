package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"geo-route-service/internal/api/dto"
	"geo-route-service/internal/domain"
	"geo-route-service/internal/ports"
	"geo-route-service/internal/services"

	"github.com/julienschmidt/httprouter"
)

// GraphHandler fetches street networks and manages the persisted copies.
type GraphHandler struct {
	Network *services.NetworkService
	Store   ports.GraphStore
	// GeoJSON renders a graph, and optionally a route over it, as a feature collection.
	GeoJSON func(w io.Writer, g *domain.NetworkGraph, route domain.Route, weight string) error
}

func (h *GraphHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGraphRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	networkType := strings.TrimSpace(req.NetworkType)
	if networkType == "" {
		networkType = defaultMode
	}

	selectors := 0
	for _, set := range []bool{strings.TrimSpace(req.Query) != "", req.BBox != nil, len(req.Points) > 0} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		writeError(w, r, http.StatusBadRequest, "exactly one of query, bbox or points is required")
		return
	}

	ctx := r.Context()
	var res domain.Result[*domain.NetworkGraph]
	switch {
	case req.BBox != nil:
		bbox := domain.BoundingBox{North: req.BBox.North, South: req.BBox.South, East: req.BBox.East, West: req.BBox.West}
		if err := bbox.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		res = h.Network.GraphFromBBox(ctx, bbox, networkType)

	case len(req.Points) > 0:
		strategy, err := services.ParsePointStrategy(req.Strategy)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		points := make([]domain.GeoPoint, len(req.Points))
		for i, p := range req.Points {
			points[i] = fromDTO(p)
		}
		res = h.Network.GraphFromPoints(ctx, points, strategy, networkType)

	default:
		kind, err := services.ParseQueryKind(req.Kind)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		res = h.Network.Graph(ctx, req.Query, networkType, kind)
	}

	if !res.OK() {
		writeJSON(w, r, http.StatusOK, dto.CreateGraphResponse{Outcome: outcome(res)})
		return
	}

	meta, err := h.Store.Save(res.Value, name, networkType)
	if err != nil {
		writeFault(w, r, "save graph", err)
		return
	}

	md := metadataDTO(meta)
	writeJSON(w, r, http.StatusCreated, dto.CreateGraphResponse{
		Outcome:  outcome(res),
		Metadata: &md,
		Nodes:    res.Value.NodeCount(),
		Edges:    res.Value.EdgeCount(),
	})
}

func (h *GraphHandler) List(w http.ResponseWriter, r *http.Request) {
	metas, err := h.Store.List()
	if err != nil {
		writeFault(w, r, "list graphs", err)
		return
	}

	res := dto.ListGraphsResponse{Graphs: make([]dto.GraphMetadata, 0, len(metas))}
	for _, m := range metas {
		res.Graphs = append(res.Graphs, metadataDTO(m))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *GraphHandler) Get(w http.ResponseWriter, r *http.Request) {
	name, networkType, g, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.GraphSummary{
		Name:        name,
		NetworkType: networkType,
		CRS:         g.CRS,
		CreatedAt:   g.CreatedAt,
		Simplified:  g.Simplified,
		Nodes:       g.NodeCount(),
		Edges:       g.EdgeCount(),
	})
}

func (h *GraphHandler) GeoJSONExport(w http.ResponseWriter, r *http.Request) {
	_, _, g, ok := h.load(w, r)
	if !ok {
		return
	}

	// Render to a buffer first so a failure can still produce an error response.
	var buf bytes.Buffer
	if err := h.GeoJSON(&buf, g, nil, domain.WeightLength); err != nil {
		writeFault(w, r, "export geojson", err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *GraphHandler) load(w http.ResponseWriter, r *http.Request) (string, string, *domain.NetworkGraph, bool) {
	params := httprouter.ParamsFromContext(r.Context())
	name, networkType := params.ByName("name"), params.ByName("network")

	g, err := h.Store.Load(name, networkType)
	if err != nil {
		writeFault(w, r, "load graph", err)
		return "", "", nil, false
	}
	return name, networkType, g, true
}

func metadataDTO(m domain.GraphMetadata) dto.GraphMetadata {
	return dto.GraphMetadata{
		GraphName:   m.GraphName,
		NetworkType: m.NetworkType,
		FilePath:    m.FilePath,
		DateCreated: m.DateCreated,
	}
}
