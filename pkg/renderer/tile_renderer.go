package renderer

import (
	"context"

	"github.com/df07/go-pathtracer/pkg/integrator"
)

// TileRenderer traces the pixels of tiles into a shared frame
type TileRenderer struct {
	integrator integrator.Integrator
	view       *integrator.View
	frame      *Frame
}

// NewTileRenderer creates a tile renderer writing into frame
func NewTileRenderer(integ integrator.Integrator, view *integrator.View, frame *Frame) *TileRenderer {
	return &TileRenderer{
		integrator: integ,
		view:       view,
		frame:      frame,
	}
}

// RenderTile traces every pixel inside the tile bounds. Tiles never overlap,
// so concurrent calls write disjoint pixels.
func (tr *TileRenderer) RenderTile(ctx context.Context, tile *Tile) error {
	bounds := tile.Bounds
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tr.frame.Set(x, y, tr.integrator.TracePixel(tr.view, x, y, tile.Sampler))
		}
	}
	return nil
}
