package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"geo-route-service/internal/adapters/geocode"
	"geo-route-service/internal/adapters/graphstore"
	"geo-route-service/internal/adapters/overpass"
	"geo-route-service/internal/adapters/pathing"
	"geo-route-service/internal/config"
	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/httpx"
	"geo-route-service/internal/services"
)

// graphtool fetches street networks into the graph store and inspects stored ones.
//
//	graphtool fetch -name Kigamboni -place "Kigamboni, Dar es Salaam" -network drive
//	graphtool fetch -name Ferry -address "Kigamboni Ferry Terminal" -network walk
//	graphtool fetch -name Box -bbox -6.80,-6.84,39.33,39.28
//	graphtool list
//	graphtool show -name Kigamboni -network drive
//	graphtool geojson -name Kigamboni -network drive -origin -6.81,39.29 -destination -6.83,39.30 -out route.geojson
func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	store := graphstore.NewFileStore(cfg.GraphRoot)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "fetch":
		err = fetch(ctx, cfg, store, os.Args[2:])
	case "list":
		err = list(store)
	case "show":
		err = show(store, os.Args[2:])
	case "geojson":
		err = export(store, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: graphtool fetch|list|show|geojson [flags]")
	os.Exit(2)
}

func fetch(ctx context.Context, cfg config.Config, store *graphstore.FileStore, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	name := fs.String("name", "", "graph name")
	network := fs.String("network", "drive", "network type: "+strings.Join(overpass.NetworkTypes(), ", "))
	place := fs.String("place", "", "place name, fetched by its geocoded extent")
	address := fs.String("address", "", "address, fetched within 1000 m of its point")
	bbox := fs.String("bbox", "", "north,south,east,west")
	retainAll := fs.Bool("retain-all", false, "keep disconnected components")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("fetch: -name is required")
	}

	var opts []overpass.Option
	if *retainAll {
		opts = append(opts, overpass.WithRetainAll())
	}
	provider, err := overpass.NewProvider(cfg.OverpassURL,
		httpx.New("overpass", cfg.UserAgent, cfg.OverpassTimeout, httpx.WithMaxAttempts(3)),
		cfg.OverpassTimeout, opts...)
	if err != nil {
		return err
	}
	geocoder, err := geocode.NewNominatimGeocoder(cfg.NominatimURL, httpx.New("nominatim", cfg.UserAgent, cfg.HTTPTimeout))
	if err != nil {
		return err
	}
	resolver, err := services.NewResolver(geocoder, nil, cfg.MemoSize)
	if err != nil {
		return err
	}
	networks, err := services.NewNetworkService(provider, resolver, cfg.GraphMemoSize)
	if err != nil {
		return err
	}

	var res domain.Result[*domain.NetworkGraph]
	switch {
	case *bbox != "":
		b, err := parseBBox(*bbox)
		if err != nil {
			return err
		}
		res = networks.GraphFromBBox(ctx, b, *network)
	case *place != "":
		res = networks.Graph(ctx, *place, *network, services.QueryPlace)
	case *address != "":
		res = networks.Graph(ctx, *address, *network, services.QueryAddress)
	default:
		return fmt.Errorf("fetch: one of -place, -address or -bbox is required")
	}
	if !res.OK() {
		return fmt.Errorf("fetch: %w", res.Err)
	}

	meta, err := store.Save(res.Value, *name, *network)
	if err != nil {
		return err
	}
	log.Printf("Saved graph name=%s network=%s nodes=%d edges=%d path=%s",
		meta.GraphName, meta.NetworkType, res.Value.NodeCount(), res.Value.EdgeCount(), meta.FilePath)
	return nil
}

func list(store *graphstore.FileStore) error {
	metas, err := store.List()
	if err != nil {
		return err
	}
	for _, m := range metas {
		fmt.Printf("%s\t%s\t%s\t%s\n", m.GraphName, m.NetworkType, m.DateCreated.Format("2006-01-02 15:04:05"), m.FilePath)
	}
	return nil
}

func show(store *graphstore.FileStore, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	name := fs.String("name", "", "graph name")
	network := fs.String("network", "drive", "network type")
	_ = fs.Parse(args)

	g, err := store.Load(*name, *network)
	if err != nil {
		return err
	}
	fmt.Printf("network=%s crs=%s created=%s nodes=%d edges=%d simplified=%t\n",
		g.NetworkType, g.CRS, g.CreatedAt.Format("2006-01-02 15:04:05"), g.NodeCount(), g.EdgeCount(), g.Simplified)
	return nil
}

// export writes a stored graph as GeoJSON, with the shortest route between two points when
// both are given.
func export(store *graphstore.FileStore, args []string) error {
	fs := flag.NewFlagSet("geojson", flag.ExitOnError)
	name := fs.String("name", "", "graph name")
	network := fs.String("network", "drive", "network type")
	origin := fs.String("origin", "", "route origin lat,lon")
	destination := fs.String("destination", "", "route destination lat,lon")
	weight := fs.String("weight", domain.WeightLength, "route weight")
	out := fs.String("out", "", "output file (stdout when empty)")
	_ = fs.Parse(args)

	g, err := store.Load(*name, *network)
	if err != nil {
		return err
	}

	var route domain.Route
	if *origin != "" && *destination != "" {
		route, err = routeOver(g, *origin, *destination, *weight)
		if err != nil {
			return err
		}
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("geojson: %w", err)
		}
		defer f.Close()
		w = f
	}
	return graphstore.ExportGeoJSON(w, g, route, *weight)
}

func routeOver(g *domain.NetworkGraph, origin, destination, weight string) (domain.Route, error) {
	o, err := domain.ParseGeoPoint(origin)
	if err != nil {
		return nil, err
	}
	d, err := domain.ParseGeoPoint(destination)
	if err != nil {
		return nil, err
	}

	finder := pathing.NewFinder()
	src, err := finder.NearestNode(g, o)
	if err != nil {
		return nil, err
	}
	dst, err := finder.NearestNode(g, d)
	if err != nil {
		return nil, err
	}
	return finder.ShortestPath(g, src, dst, weight)
}

func parseBBox(s string) (domain.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.BoundingBox{}, fmt.Errorf("bbox %q: expected north,south,east,west", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.BoundingBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	b := domain.BoundingBox{North: v[0], South: v[1], East: v[2], West: v[3]}
	return b, b.Validate()
}
