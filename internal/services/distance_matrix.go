package services

import (
	"context"
	"sync"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/obs"
)

const matrixWorkers = 5

type matrixCell struct {
	i, j int
}

// DistanceMatrix computes RoadDistance for every origin x destination pair with at most
// matrixWorkers routes in flight. Cells fail independently; a failed cell never cancels the
// others. Identical points are 0 without a graph request.
func (p *RoutePlanner) DistanceMatrix(
	ctx context.Context,
	origins, destinations []domain.GeoPoint,
	mode, weight string,
) [][]domain.Result[float64] {
	var err error
	defer obs.Time(ctx, "planner.DistanceMatrix")(&err)

	out := make([][]domain.Result[float64], len(origins))
	for i := range out {
		out[i] = make([]domain.Result[float64], len(destinations))
	}

	sem := make(chan struct{}, matrixWorkers)
	var wg sync.WaitGroup

	for i, o := range origins {
		for j, d := range destinations {
			if o == d && o.Valid() {
				out[i][j] = domain.Ok(0.0)
				continue
			}

			wg.Add(1)
			go func(c matrixCell, o, d domain.GeoPoint) {
				sem <- struct{}{}
				defer wg.Done()
				defer func() { <-sem }()

				if err := ctx.Err(); err != nil {
					out[c.i][c.j] = domain.Fail[float64](err)
					return
				}
				out[c.i][c.j] = p.RoadDistance(ctx, o, d, mode, weight)
			}(matrixCell{i, j}, o, d)
		}
	}

	wg.Wait()
	return out
}
