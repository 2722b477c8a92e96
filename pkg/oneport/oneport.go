// Package oneport models two-pin devices by their driving-point
// impedance and provides the series/parallel algebra to combine them.
package oneport

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/edp1096/go2port/pkg/freq"
)

var (
	ErrInvalidParameter = errors.New("oneport: invalid parameter")
	ErrDivisionByZero   = errors.New("oneport: division by zero")
)

// OnePort is a device characterized by its driving-point impedance.
// Z returns one impedance per grid point, aligned index for index with
// the grid. Implementations are pure; the same grid always produces the
// same result.
type OnePort interface {
	Z(g *freq.Grid) ([]complex128, error)
}

type seriesCombo struct {
	a, b OnePort
}

// Series connects two one-ports end to end. Impedances add.
func Series(a, b OnePort) OnePort {
	return &seriesCombo{a: a, b: b}
}

func (s *seriesCombo) Z(g *freq.Grid) ([]complex128, error) {
	za, err := s.a.Z(g)
	if err != nil {
		return nil, err
	}
	zb, err := s.b.Z(g)
	if err != nil {
		return nil, err
	}

	z := make([]complex128, g.Len())
	for i := range z {
		z[i] = za[i] + zb[i]
	}
	return z, nil
}

type parallelCombo struct {
	a, b OnePort
}

// Parallel connects two one-ports side by side: Z = Za*Zb/(Za+Zb).
// A short on either side wins, an open circuit leaves the other side
// unchanged, and Za+Zb = 0 with both finite and nonzero is an
// ErrDivisionByZero.
func Parallel(a, b OnePort) OnePort {
	return &parallelCombo{a: a, b: b}
}

func (p *parallelCombo) Z(g *freq.Grid) ([]complex128, error) {
	za, err := p.a.Z(g)
	if err != nil {
		return nil, err
	}
	zb, err := p.b.Z(g)
	if err != nil {
		return nil, err
	}

	z := make([]complex128, g.Len())
	for i := range z {
		z[i], err = parallelPoint(za[i], zb[i])
		if err != nil {
			return nil, fmt.Errorf("parallel combination at %g Hz: %w", g.Hz(i), err)
		}
	}
	return z, nil
}

func parallelPoint(za, zb complex128) (complex128, error) {
	switch {
	case cmplx.IsInf(za):
		return zb, nil
	case cmplx.IsInf(zb):
		return za, nil
	case za == 0 || zb == 0:
		return 0, nil
	}

	den := za + zb
	if den == 0 {
		return 0, ErrDivisionByZero
	}
	return za * zb / den, nil
}

type repeated struct {
	x        OnePort
	count    int
	parallel bool
}

// RepeatSeries connects count instances of the same device in series,
// folding the binary series operator count-1 times. count=1 is the
// identity.
func RepeatSeries(x OnePort, count int) (OnePort, error) {
	if count < 1 {
		return nil, fmt.Errorf("repeat series: count %d < 1: %w", count, ErrInvalidParameter)
	}
	return &repeated{x: x, count: count}, nil
}

// RepeatParallel connects count instances of the same device in
// parallel. count=1 is the identity.
func RepeatParallel(x OnePort, count int) (OnePort, error) {
	if count < 1 {
		return nil, fmt.Errorf("repeat parallel: count %d < 1: %w", count, ErrInvalidParameter)
	}
	return &repeated{x: x, count: count, parallel: true}, nil
}

func (r *repeated) Z(g *freq.Grid) ([]complex128, error) {
	zx, err := r.x.Z(g)
	if err != nil {
		return nil, err
	}

	n := complex(float64(r.count), 0)
	z := make([]complex128, g.Len())
	for i := range z {
		switch {
		case !r.parallel:
			z[i] = zx[i] * n
		case cmplx.IsInf(zx[i]):
			// identical opens stay open
			z[i] = zx[i]
		default:
			z[i] = zx[i] / n
		}
	}
	return z, nil
}

type openCircuit struct{}

// Open returns an ideal open circuit (infinite impedance).
func Open() OnePort { return openCircuit{} }

func (openCircuit) Z(g *freq.Grid) ([]complex128, error) {
	z := make([]complex128, g.Len())
	for i := range z {
		z[i] = complex(math.Inf(1), 0)
	}
	return z, nil
}

type shortCircuit struct{}

// Short returns an ideal short circuit (zero impedance).
func Short() OnePort { return shortCircuit{} }

func (shortCircuit) Z(g *freq.Grid) ([]complex128, error) {
	return make([]complex128, g.Len()), nil
}

type cached struct {
	x  OnePort
	mu sync.Mutex
	// keyed by grid identity; a grid is immutable so the stored result
	// never goes stale
	memo map[*freq.Grid][]complex128
}

// Cached memoizes a one-port's impedance per grid. Results are keyed by
// grid pointer identity and copied on every call, so caching is not
// observable compared to recomputation.
func Cached(x OnePort) OnePort {
	return &cached{x: x, memo: make(map[*freq.Grid][]complex128)}
}

func (c *cached) Z(g *freq.Grid) ([]complex128, error) {
	c.mu.Lock()
	z, ok := c.memo[g]
	c.mu.Unlock()

	if !ok {
		var err error
		z, err = c.x.Z(g)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.memo[g] = z
		c.mu.Unlock()
	}

	out := make([]complex128, len(z))
	copy(out, z)
	return out, nil
}
