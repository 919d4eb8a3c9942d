package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrInvalidImageSize is returned for non-positive frame dimensions
var ErrInvalidImageSize = errors.New("image width and height must be positive")

// Config contains the frame driver parameters that do not affect the
// estimator
type Config struct {
	TileSize   int   // Edge length of each square tile in pixels
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Base seed; tile i draws from Seed+i
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:   32,
		NumWorkers: 0,
		Seed:       1,
	}
}

// Renderer renders complete frames of a scene with a tile-parallel worker pool
type Renderer struct {
	scene         *scene.Scene
	width, height int
	integrator    integrator.Integrator
	samples       int
	config        Config
	workerPool    *WorkerPool
	logger        log.Logger
}

// New creates a renderer driving integ. samplesPerPixel is only used for
// statistics.
func New(s *scene.Scene, width, height int, integ integrator.Integrator, samplesPerPixel int, config Config, logger log.Logger) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidImageSize, width, height)
	}
	if err := s.Camera.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultConfig().TileSize
	}
	if logger == nil {
		logger = log.New("renderer")
	}

	return &Renderer{
		scene:      s,
		width:      width,
		height:     height,
		integrator: integ,
		samples:    samplesPerPixel,
		config:     config,
		workerPool: NewWorkerPool(config.NumWorkers),
		logger:     logger,
	}, nil
}

// NewPathTracingRenderer creates a renderer backed by a path tracer with the
// given settings
func NewPathTracingRenderer(s *scene.Scene, width, height int, settings integrator.Settings, config Config, logger log.Logger) (*Renderer, error) {
	pt, err := integrator.NewPathTracer(settings)
	if err != nil {
		return nil, err
	}
	return New(s, width, height, pt, settings.SamplesPerPixel, config, logger)
}

// Render traces every pixel of the frame once. The result does not depend on
// the number of workers, only on the seed.
func (r *Renderer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	start := time.Now()

	view := integrator.NewView(r.scene, r.width, r.height)
	frame := NewFrame(r.width, r.height)
	tiles := NewTileGrid(r.width, r.height, r.config.TileSize, r.config.Seed)
	tileRenderer := NewTileRenderer(r.integrator, view, frame)

	r.logger.Infof("rendering %q at %dx%d: %d triangles, %d emitters (area %.4g), %d tiles on %d workers",
		r.scene.Name, r.width, r.height, r.scene.TriangleCount(), len(r.scene.Emissives()),
		view.TotalLightArea, len(tiles), r.workerPool.NumWorkers())

	workerStats, err := r.workerPool.Run(ctx, tiles, func(ctx context.Context, tile *Tile) error {
		if err := tileRenderer.RenderTile(ctx, tile); err != nil {
			return err
		}
		r.logger.Debugf("tile %d %v done", tile.ID, tile.Bounds)
		return nil
	})

	stats := RenderStats{
		TotalPixels:     r.width * r.height,
		SamplesPerPixel: r.samples,
		TotalSamples:    r.width * r.height * r.samples,
		Tiles:           len(tiles),
		Emitters:        len(r.scene.Emissives()),
		TotalLightArea:  view.TotalLightArea,
		Workers:         workerStats,
		Elapsed:         time.Since(start),
	}
	if err != nil {
		r.logger.Warningf("render of %q stopped after %v: %v", r.scene.Name, stats.Elapsed, err)
		return nil, stats, err
	}

	r.logger.Noticef("rendered %q in %v", r.scene.Name, stats.Elapsed)
	return frame, stats, nil
}
