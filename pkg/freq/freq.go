// Package freq provides the frequency vectors every sweep in the engine
// runs over. A Grid is immutable and shared by pointer; pointer identity
// is what per-grid caches key on.
package freq

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParameter = errors.New("freq: invalid parameter")

// Grid is a strictly increasing vector of frequencies in Hz.
type Grid struct {
	hz []float64
}

// Log creates a log-spaced grid with stepsPerDecade points per decade,
// including both endpoints.
func Log(startHz, stopHz float64, stepsPerDecade int) (*Grid, error) {
	if startHz <= 0 || stopHz <= 0 {
		return nil, fmt.Errorf("log grid: frequencies must be positive: %w", ErrInvalidParameter)
	}
	if stopHz <= startHz {
		return nil, fmt.Errorf("log grid: stop %g Hz not above start %g Hz: %w", stopHz, startHz, ErrInvalidParameter)
	}
	if stepsPerDecade < 1 {
		return nil, fmt.Errorf("log grid: steps per decade %d < 1: %w", stepsPerDecade, ErrInvalidParameter)
	}

	logStart := math.Log10(startHz)
	logStop := math.Log10(stopHz)
	n := int(math.Round((logStop - logStart) * float64(stepsPerDecade)))
	if n < 2 {
		return &Grid{hz: []float64{startHz}}, nil
	}

	hz := make([]float64, n)
	step := (logStop - logStart) / float64(n-1)
	for i := 0; i < n; i++ {
		hz[i] = math.Pow(10, logStart+float64(i)*step)
	}
	hz[n-1] = stopHz // avoid endpoint rounding drift

	return &Grid{hz: hz}, nil
}

// Linear creates a linearly spaced grid with points samples including
// both endpoints.
func Linear(startHz, stopHz float64, points int) (*Grid, error) {
	if startHz <= 0 || stopHz <= 0 {
		return nil, fmt.Errorf("linear grid: frequencies must be positive: %w", ErrInvalidParameter)
	}
	if stopHz <= startHz {
		return nil, fmt.Errorf("linear grid: stop %g Hz not above start %g Hz: %w", stopHz, startHz, ErrInvalidParameter)
	}
	if points < 2 {
		return nil, fmt.Errorf("linear grid: %d points < 2: %w", points, ErrInvalidParameter)
	}

	hz := make([]float64, points)
	step := (stopHz - startHz) / float64(points-1)
	for i := 0; i < points; i++ {
		hz[i] = startHz + float64(i)*step
	}
	hz[points-1] = stopHz

	return &Grid{hz: hz}, nil
}

// FromSlice creates a grid from an explicit frequency vector. The vector
// must be strictly increasing. A leading 0 Hz point is accepted so the
// time-domain engine can evaluate models down to DC; all other points
// must be positive.
func FromSlice(hz []float64) (*Grid, error) {
	if len(hz) < 1 {
		return nil, fmt.Errorf("grid: empty frequency vector: %w", ErrInvalidParameter)
	}
	if hz[0] < 0 {
		return nil, fmt.Errorf("grid: negative frequency %g Hz: %w", hz[0], ErrInvalidParameter)
	}
	for i := 1; i < len(hz); i++ {
		if hz[i] <= hz[i-1] {
			return nil, fmt.Errorf("grid: not strictly increasing at index %d (%g Hz after %g Hz): %w",
				i, hz[i], hz[i-1], ErrInvalidParameter)
		}
	}

	out := make([]float64, len(hz))
	copy(out, hz)

	return &Grid{hz: out}, nil
}

func (g *Grid) Len() int { return len(g.hz) }

// Hz returns the frequency of point i in Hz.
func (g *Grid) Hz(i int) float64 { return g.hz[i] }

// Omega returns the angular frequency of point i in rad/s.
func (g *Grid) Omega(i int) float64 { return 2 * math.Pi * g.hz[i] }

// HzSlice returns a copy of the frequency vector for export and plotting.
func (g *Grid) HzSlice() []float64 {
	out := make([]float64, len(g.hz))
	copy(out, g.hz)
	return out
}
