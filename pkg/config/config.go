package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Config describes a complete render job
type Config struct {
	Width    int                 `json:"width"`
	Height   int                 `json:"height"`
	Workers  int                 `json:"workers"`  // 0 uses every CPU
	TileSize int                 `json:"tileSize"` // Tile edge length in pixels
	Seed     int64               `json:"seed"`     // Base seed; tile i uses Seed+i
	Scene    string              `json:"scene"`    // Builtin scene name or path to an .obj, .ply, .gltf or .glb file
	Output   string              `json:"output"`   // PNG output path
	Camera   *scene.Camera       `json:"camera,omitempty"`
	Settings integrator.Settings `json:"settings"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Width:    400,
		Height:   300,
		Workers:  0,
		TileSize: 32,
		Seed:     1,
		Scene:    "cornell",
		Output:   "render.png",
		Settings: integrator.DefaultSettings(),
	}
}

// Load reads a JSON configuration. Fields missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.completeCamera()
	return cfg, nil
}

// completeCamera fills the camera fields a config file may leave out: a unit
// far plane and the aspect ratio of the frame
func (c *Config) completeCamera() {
	if c.Camera == nil {
		return
	}
	if c.Camera.Far == 0 {
		c.Camera.Far = 1
	}
	if c.Camera.AspectRatio == 0 && c.Width > 0 && c.Height > 0 {
		*c.Camera = c.Camera.WithAspectRatio(c.Width, c.Height)
	}
}

// Validate reports every problem in the configuration at once
func (c Config) Validate() error {
	var errs []error

	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("tile size must be positive, got %d", c.TileSize))
	}
	if c.Scene == "" {
		errs = append(errs, errors.New("no scene given"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("no output path given"))
	}
	if c.Camera != nil {
		if err := c.Camera.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.Settings.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
