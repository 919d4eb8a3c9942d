package renderer

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// TileFunc renders a single tile. It is called concurrently from several
// workers, each tile exactly once.
type TileFunc func(ctx context.Context, tile *Tile) error

// WorkerPool renders tiles in parallel with a fixed number of workers
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// A non-positive count uses one worker per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers the pool runs
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run hands out every tile to the workers and blocks until all of them are
// rendered, a tile fails or ctx is canceled. Workers check ctx between tiles.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, render TileFunc) ([]WorkerStats, error) {
	stats := make([]WorkerStats, wp.numWorkers)
	queue := make(chan *Tile, len(tiles))
	for _, tile := range tiles {
		queue <- tile
	}
	close(queue)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < wp.numWorkers; i++ {
		workerID := i
		stats[workerID].ID = workerID
		g.Go(func() error {
			ws := &stats[workerID]
			for tile := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}

				start := time.Now()
				if err := render(gctx, tile); err != nil {
					return err
				}
				ws.Busy += time.Since(start)
				ws.Tiles++
				ws.Pixels += tile.Bounds.Dx() * tile.Bounds.Dy()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	// A cancellation that lands after the last tile still counts
	return stats, ctx.Err()
}
