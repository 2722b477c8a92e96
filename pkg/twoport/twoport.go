// Package twoport models networks as per-frequency 2x2 chain (ABCD)
// matrices and provides cascade/series/shunt composition over them.
//
//	 I1                 I2
//	----> .----------. ---->
//	o-----|          |------o
//	V1    |          |     V2
//	o-----|          |------o
//	      '----------'
//
// Composition never mutates its operands; every operator returns a new
// TwoPort.
package twoport

import (
	"errors"
	"fmt"
	"math/cmplx"
	"sync"

	"github.com/edp1096/go2port/pkg/freq"
	"github.com/edp1096/go2port/pkg/oneport"
	"github.com/edp1096/go2port/pkg/util"
)

var (
	ErrInvalidParameter  = errors.New("twoport: invalid parameter")
	ErrDimensionMismatch = errors.New("twoport: dimension mismatch")
)

// ABCD is the chain matrix of a two-port at one frequency:
//
//	V1 = A*V2 + B*I2
//	I1 = C*V2 + D*I2
type ABCD struct {
	A, B, C, D complex128
}

// Mul returns m*n, the chain matrix of m cascaded into n.
func (m ABCD) Mul(n ABCD) ABCD {
	return ABCD{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
	}
}

// Det returns AD - BC, which is 1 for any reciprocal network.
func (m ABCD) Det() complex128 {
	return m.A*m.D - m.B*m.C
}

// Identity is the chain matrix of a transparent through connection.
func Identity() ABCD {
	return ABCD{A: 1, D: 1}
}

// Chain is a chain-matrix sequence aligned index for index with a
// frequency grid.
type Chain []ABCD

// CascadeChains multiplies two already evaluated chains in port order.
// The sequences must come from the same grid; differing lengths are an
// ErrDimensionMismatch.
func CascadeChains(a, b Chain) (Chain, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("cascade: chain lengths %d and %d differ: %w", len(a), len(b), ErrDimensionMismatch)
	}

	out := make(Chain, len(a))
	for i := range out {
		out[i] = a[i].Mul(b[i])
	}
	return out, nil
}

// TwoPort produces a chain-matrix sequence for a frequency grid.
// Implementations are pure.
type TwoPort interface {
	Chain(g *freq.Grid) (Chain, error)
}

type seriesEmbed struct {
	z oneport.OnePort
}

// SeriesOf embeds a one-port in the signal path:
//
//	    ___
//	o--|___|--o
//	     Z
//	o---------o
func SeriesOf(z oneport.OnePort) TwoPort {
	return &seriesEmbed{z: z}
}

func (s *seriesEmbed) Chain(g *freq.Grid) (Chain, error) {
	z, err := s.z.Z(g)
	if err != nil {
		return nil, err
	}

	ch := make(Chain, g.Len())
	for i := range ch {
		ch[i] = ABCD{A: 1, B: z[i], C: 0, D: 1}
	}
	return ch, nil
}

type shuntEmbed struct {
	z oneport.OnePort
}

// ShuntOf embeds a one-port across the line:
//
//	o----o----o
//	     |
//	    .-.
//	    | | Z
//	    '-'
//	     |
//	o----o----o
func ShuntOf(z oneport.OnePort) TwoPort {
	return &shuntEmbed{z: z}
}

func (s *shuntEmbed) Chain(g *freq.Grid) (Chain, error) {
	z, err := s.z.Z(g)
	if err != nil {
		return nil, err
	}

	ch := make(Chain, g.Len())
	for i := range ch {
		y := complex128(0)
		if !cmplx.IsInf(z[i]) {
			y = util.Div(1, z[i])
		}
		ch[i] = ABCD{A: 1, B: 0, C: y, D: 1}
	}
	return ch, nil
}

type cascade struct {
	ports []TwoPort
}

// Cascade connects two-ports output to input, in argument order. Chain
// matrices multiply left to right; the operation is associative but not
// commutative.
func Cascade(ports ...TwoPort) (TwoPort, error) {
	if len(ports) == 0 {
		return nil, fmt.Errorf("cascade: no two-ports given: %w", ErrInvalidParameter)
	}
	own := make([]TwoPort, len(ports))
	copy(own, ports)
	return &cascade{ports: own}, nil
}

func (c *cascade) Chain(g *freq.Grid) (Chain, error) {
	out, err := c.ports[0].Chain(g)
	if err != nil {
		return nil, err
	}
	for _, p := range c.ports[1:] {
		next, err := p.Chain(g)
		if err != nil {
			return nil, err
		}
		out, err = CascadeChains(out, next)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

type repeated struct {
	x     TwoPort
	count int
}

// Repeat cascades count instances of the same two-port. count=1 is the
// identity.
func Repeat(x TwoPort, count int) (TwoPort, error) {
	if count < 1 {
		return nil, fmt.Errorf("repeat: count %d < 1: %w", count, ErrInvalidParameter)
	}
	return &repeated{x: x, count: count}, nil
}

func (r *repeated) Chain(g *freq.Grid) (Chain, error) {
	ch, err := r.x.Chain(g)
	if err != nil {
		return nil, err
	}

	out := make(Chain, len(ch))
	copy(out, ch)
	for n := 0; n < r.count-1; n++ {
		for i := range out {
			out[i] = out[i].Mul(ch[i])
		}
	}
	return out, nil
}

type inputPort struct {
	x    TwoPort
	load oneport.OnePort
}

// Input reduces a two-port to the one-port seen looking into port 1
// with port 2 terminated by load: Zin = (A*Zl + B)/(C*Zl + D).
// Use oneport.Open() for an unterminated network.
func Input(x TwoPort, load oneport.OnePort) oneport.OnePort {
	return &inputPort{x: x, load: load}
}

func (p *inputPort) Z(g *freq.Grid) ([]complex128, error) {
	ch, err := p.x.Chain(g)
	if err != nil {
		return nil, err
	}
	zl, err := p.load.Z(g)
	if err != nil {
		return nil, err
	}

	z := make([]complex128, g.Len())
	for i := range z {
		m := ch[i]
		if cmplx.IsInf(zl[i]) {
			z[i] = util.Div(m.A, m.C)
			continue
		}
		z[i] = util.Div(m.A*zl[i]+m.B, m.C*zl[i]+m.D)
	}
	return z, nil
}

type cachedPort struct {
	x    TwoPort
	mu   sync.Mutex
	memo map[*freq.Grid]Chain
}

// Cached memoizes a two-port's chain per grid, keyed by grid pointer
// identity. Results are copied on every call so the cache is not
// observable compared to recomputation.
func Cached(x TwoPort) TwoPort {
	return &cachedPort{x: x, memo: make(map[*freq.Grid]Chain)}
}

func (c *cachedPort) Chain(g *freq.Grid) (Chain, error) {
	c.mu.Lock()
	ch, ok := c.memo[g]
	c.mu.Unlock()

	if !ok {
		var err error
		ch, err = c.x.Chain(g)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.memo[g] = ch
		c.mu.Unlock()
	}

	out := make(Chain, len(ch))
	copy(out, ch)
	return out, nil
}
