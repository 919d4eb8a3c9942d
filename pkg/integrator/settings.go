package integrator

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors reported by Settings.Validate
var (
	ErrInvalidSamplesPerPixel    = errors.New("samples per pixel must be at least 1")
	ErrInvalidDirectLightSamples = errors.New("direct lighting samples must be at least 1")
	ErrInvalidContinuationProb   = errors.New("path continuation probability must be in (0, 1]")
	ErrInvalidMaxDepth           = errors.New("max depth must not be negative")
	ErrUnboundedPaths            = errors.New("path continuation probability 1 with indirect lighting needs a max depth")
)

// Settings controls the estimator. It is read-only during a render.
type Settings struct {
	SamplesPerPixel          int     `json:"samplesPerPixel"`          // Primary rays per pixel
	DirectLightingOnly       bool    `json:"directLightingOnly"`       // Skip indirect bounces
	NumDirectLightingSamples int     `json:"numDirectLightingSamples"` // Shadow ray budget per hit
	PathContinuationProb     float64 `json:"pathContinuationProb"`     // Russian roulette survival probability
	MaxDepth                 int     `json:"maxDepth"`                 // Bounce cap, 0 for none
}

// DefaultSettings returns settings suitable for a quick preview
func DefaultSettings() Settings {
	return Settings{
		SamplesPerPixel:          16,
		DirectLightingOnly:       false,
		NumDirectLightingSamples: 2,
		PathContinuationProb:     0.8,
		MaxDepth:                 0,
	}
}

// Validate reports every configuration problem at once
func (s Settings) Validate() error {
	var errs []error

	if s.SamplesPerPixel < 1 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidSamplesPerPixel, s.SamplesPerPixel))
	}
	if s.NumDirectLightingSamples < 1 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidDirectLightSamples, s.NumDirectLightingSamples))
	}
	if math.IsNaN(s.PathContinuationProb) || s.PathContinuationProb <= 0 || s.PathContinuationProb > 1 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidContinuationProb, s.PathContinuationProb))
	}
	if s.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidMaxDepth, s.MaxDepth))
	}
	if s.PathContinuationProb == 1 && !s.DirectLightingOnly && s.MaxDepth == 0 {
		errs = append(errs, ErrUnboundedPaths)
	}

	return errors.Join(errs...)
}
