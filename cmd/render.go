package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderFrame renders a still frame and writes it as a PNG.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sc, err := loadScene(cfg)
	if err != nil {
		return err
	}

	r, err := renderer.NewPathTracingRenderer(sc, cfg.Width, cfg.Height, cfg.Settings, renderer.Config{
		TileSize:   cfg.TileSize,
		NumWorkers: cfg.Workers,
		Seed:       cfg.Seed,
	}, nil)
	if err != nil {
		return err
	}

	// Ctrl+C stops the workers after their current tile
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frame, stats, err := r.Render(renderCtx)
	if err != nil {
		return err
	}

	if err := writePNG(cfg.Output, frame.ToneMap()); err != nil {
		return err
	}
	logger.Noticef("wrote %s (average luminance %.4f)", cfg.Output, frame.AverageLuminance())

	displayFrameStats(stats)
	return nil
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet("scene") {
		cfg.Scene = ctx.String("scene")
	}
	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Height = ctx.Int("height")
	}
	if ctx.IsSet("spp") {
		cfg.Settings.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("direct-only") {
		cfg.Settings.DirectLightingOnly = ctx.Bool("direct-only")
	}
	if ctx.IsSet("light-samples") {
		cfg.Settings.NumDirectLightingSamples = ctx.Int("light-samples")
	}
	if ctx.IsSet("continuation") {
		cfg.Settings.PathContinuationProb = ctx.Float64("continuation")
	}
	if ctx.IsSet("max-depth") {
		cfg.Settings.MaxDepth = ctx.Int("max-depth")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("tile-size") {
		cfg.TileSize = ctx.Int("tile-size")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("out") {
		cfg.Output = ctx.String("out")
	}

	// The camera always follows the frame shape
	if cfg.Camera != nil && cfg.Width > 0 && cfg.Height > 0 {
		camera := cfg.Camera.WithAspectRatio(cfg.Width, cfg.Height)
		cfg.Camera = &camera
	}
	return cfg, nil
}

// loadScene resolves a built-in scene name or a mesh file.
func loadScene(cfg config.Config) (*scene.Scene, error) {
	var sc *scene.Scene
	switch {
	case scene.IsBuiltin(cfg.Scene):
		var err error
		if sc, err = scene.Builtin(cfg.Scene); err != nil {
			return nil, err
		}
		if cfg.Camera != nil {
			sc.Camera = *cfg.Camera
		}
	case loaders.IsSceneFile(cfg.Scene):
		mesh, err := loaders.Load(cfg.Scene)
		if err != nil {
			return nil, err
		}
		if sc, err = mesh.Scene(cfg.Camera); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown scene %q; run the scenes command for the built-in list", cfg.Scene)
	}

	sc.Camera = sc.Camera.WithAspectRatio(cfg.Width, cfg.Height)
	return sc, nil
}

func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	return f.Close()
}

func displayFrameStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Tiles", "Pixels", "% of frame", "Busy time"})
	for _, ws := range stats.Workers {
		percent := 0.0
		if stats.TotalPixels > 0 {
			percent = 100 * float64(ws.Pixels) / float64(stats.TotalPixels)
		}
		table.Append([]string{
			fmt.Sprintf("%d", ws.ID),
			fmt.Sprintf("%d", ws.Tiles),
			fmt.Sprintf("%d", ws.Pixels),
			fmt.Sprintf("%02.1f %%", percent),
			ws.Busy.String(),
		})
	}
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d", stats.Tiles),
		fmt.Sprintf("%d", stats.TotalPixels),
		fmt.Sprintf("%.0f samples/s", stats.SamplesPerSecond()),
		stats.Elapsed.String(),
	})

	table.Render()
	logger.Noticef("frame statistics (%d spp, %d emitters, light area %.4g)\n%s",
		stats.SamplesPerPixel, stats.Emitters, stats.TotalLightArea, buf.String())
}
