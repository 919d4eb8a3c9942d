package renderer

import (
	"image"
	"image/color"
	"math"
)

const gamma = 1.0 / 2.2

// ToneMapChannel compresses a linear radiance value with the Reinhard curve
// v/(1+v), gamma corrects it and scales it to [0, 255]. Negative and NaN
// inputs map to 0.
func ToneMapChannel(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if math.IsInf(v, 1) {
		return 255
	}
	return uint8(math.Pow(v/(1+v), gamma) * 255)
}

// ToneMap converts the frame into an 8-bit sRGB-like image
func (f *Frame) ToneMap() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			p := f.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: ToneMapChannel(p.X),
				G: ToneMapChannel(p.Y),
				B: ToneMapChannel(p.Z),
				A: 255,
			})
		}
	}
	return img
}
