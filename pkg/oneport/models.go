package oneport

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/edp1096/go2port/internal/consts"
	"github.com/edp1096/go2port/pkg/freq"
	"github.com/edp1096/go2port/pkg/util"
)

type Resistor struct {
	R float64 // ohm
}

func NewResistor(r float64) (*Resistor, error) {
	if r < 0 {
		return nil, fmt.Errorf("resistor: negative resistance %g ohm: %w", r, ErrInvalidParameter)
	}
	return &Resistor{R: r}, nil
}

func (r *Resistor) Z(g *freq.Grid) ([]complex128, error) {
	z := make([]complex128, g.Len())
	for i := range z {
		z[i] = complex(r.R, 0)
	}
	return z, nil
}

type Inductor struct {
	L float64 // H
}

func NewInductor(l float64) (*Inductor, error) {
	if l < 0 {
		return nil, fmt.Errorf("inductor: negative inductance %g H: %w", l, ErrInvalidParameter)
	}
	return &Inductor{L: l}, nil
}

func (l *Inductor) Z(g *freq.Grid) ([]complex128, error) {
	z := make([]complex128, g.Len())
	for i := range z {
		z[i] = complex(0, g.Omega(i)*l.L)
	}
	return z, nil
}

type Capacitor struct {
	C float64 // F
}

func NewCapacitor(c float64) (*Capacitor, error) {
	if c <= 0 {
		return nil, fmt.Errorf("capacitor: capacitance %g F not positive: %w", c, ErrInvalidParameter)
	}
	return &Capacitor{C: c}, nil
}

func (c *Capacitor) Z(g *freq.Grid) ([]complex128, error) {
	z := make([]complex128, g.Len())
	for i := range z {
		// clamped at 0 Hz so DC-extended sweeps stay evaluable
		z[i] = util.Div(1, complex(0, g.Omega(i)*c.C))
	}
	return z, nil
}

// NewBypass builds a bypass/decoupling capacitor with its parasitics:
// capacitance c in series with the equivalent series inductance esl and
// resistance esr.
func NewBypass(c, esl, esr float64) (OnePort, error) {
	cDev, err := NewCapacitor(c)
	if err != nil {
		return nil, fmt.Errorf("bypass: %w", err)
	}
	lDev, err := NewInductor(esl)
	if err != nil {
		return nil, fmt.Errorf("bypass: %w", err)
	}
	rDev, err := NewResistor(esr)
	if err != nil {
		return nil, fmt.Errorf("bypass: %w", err)
	}
	return Series(cDev, Series(lDev, rDev)), nil
}

// NewViaPair builds the loop inductance of a via pair from the drill
// diameter d, barrel length h and via-to-via spacing s (all meters):
// L = (mu0/pi) * h * ln(2s/d).
func NewViaPair(d, h, s float64) (*Inductor, error) {
	if d <= 0 || h <= 0 || s <= 0 {
		return nil, fmt.Errorf("via pair: dimensions must be positive (d=%g h=%g s=%g m): %w", d, h, s, ErrInvalidParameter)
	}
	if 2*s <= d {
		return nil, fmt.Errorf("via pair: spacing %g m too small for drill %g m: %w", s, d, ErrInvalidParameter)
	}

	l := consts.MU0 / math.Pi * h * math.Log(2*s/d)
	return &Inductor{L: l}, nil
}

// Bead is a tabulated frequency-dependent element, typically a ferrite
// bead taken from a datasheet impedance curve. Resistance and reactance
// are piecewise-linearly interpolated between table points; queries
// outside the tabulated range are an error, never extrapolated.
type Bead struct {
	minHz, maxHz float64
	res          interp.PiecewiseLinear
	react        interp.PiecewiseLinear
}

// NewBead builds a tabulated element from parallel arrays of frequency
// (Hz, strictly increasing), resistance (ohm) and reactance (ohm).
func NewBead(fHz, r, x []float64) (*Bead, error) {
	if len(fHz) != len(r) || len(fHz) != len(x) {
		return nil, fmt.Errorf("bead: table arrays must have equal length (%d/%d/%d): %w",
			len(fHz), len(r), len(x), ErrInvalidParameter)
	}
	if len(fHz) < 2 {
		return nil, fmt.Errorf("bead: table needs at least 2 points, got %d: %w", len(fHz), ErrInvalidParameter)
	}
	if fHz[0] < 0 {
		return nil, fmt.Errorf("bead: negative table frequency %g Hz: %w", fHz[0], ErrInvalidParameter)
	}
	for i := 1; i < len(fHz); i++ {
		if fHz[i] <= fHz[i-1] {
			return nil, fmt.Errorf("bead: table frequencies not strictly increasing at index %d: %w", i, ErrInvalidParameter)
		}
	}

	b := &Bead{minHz: fHz[0], maxHz: fHz[len(fHz)-1]}
	if err := b.res.Fit(fHz, r); err != nil {
		return nil, fmt.Errorf("bead: resistance fit: %w", ErrInvalidParameter)
	}
	if err := b.react.Fit(fHz, x); err != nil {
		return nil, fmt.Errorf("bead: reactance fit: %w", ErrInvalidParameter)
	}
	return b, nil
}

func (b *Bead) Z(g *freq.Grid) ([]complex128, error) {
	z := make([]complex128, g.Len())
	for i := range z {
		f := g.Hz(i)
		if f < b.minHz || f > b.maxHz {
			return nil, fmt.Errorf("bead: %g Hz outside table range [%g, %g] Hz: %w",
				f, b.minHz, b.maxHz, ErrInvalidParameter)
		}
		z[i] = complex(b.res.Predict(f), b.react.Predict(f))
	}
	return z, nil
}

// Plane is the impedance of a rectangular power/ground plane pair seen
// from a probe point, using Novak's bedspring cavity model. It ignores
// cut-outs and via perforation.
type Plane struct {
	cp         float64 // static plane capacitance (F)
	tpdx, tpdy float64 // edge-to-edge propagation delays (s)
	m, n       int
	amp        []float64 // modal amplitudes, m*n
}

// NewPlane builds a plane-pair model probed at (x, y) on a plane of
// size sizeX by sizeY with dielectric thickness gap (all meters), with
// relative permittivity 4.7 and a 20x20 modal grid.
func NewPlane(x, y, sizeX, sizeY, gap float64) (*Plane, error) {
	return NewPlaneGrid(x, y, sizeX, sizeY, gap, 4.7, 20, 20)
}

// NewPlaneGrid is NewPlane with explicit permittivity and modal grid
// size.
func NewPlaneGrid(x, y, sizeX, sizeY, gap, er float64, m, n int) (*Plane, error) {
	if sizeX <= 0 || sizeY <= 0 || gap <= 0 {
		return nil, fmt.Errorf("plane: dimensions must be positive (X=%g Y=%g h=%g m): %w",
			sizeX, sizeY, gap, ErrInvalidParameter)
	}
	if x < 0 || x > sizeX || y < 0 || y > sizeY {
		return nil, fmt.Errorf("plane: probe point (%g, %g) outside plane: %w", x, y, ErrInvalidParameter)
	}
	if er < 1 {
		return nil, fmt.Errorf("plane: relative permittivity %g < 1: %w", er, ErrInvalidParameter)
	}
	if m < 1 || n < 1 {
		return nil, fmt.Errorf("plane: modal grid %dx%d too small: %w", m, n, ErrInvalidParameter)
	}

	p := &Plane{
		cp: consts.EPS0 * er * sizeX * sizeY / gap,
		m:  m,
		n:  n,
	}

	v := consts.LIGHTSPEED / math.Sqrt(er)
	p.tpdx = sizeX / v
	p.tpdy = sizeY / v

	cs := func(i int, q, r float64) float64 {
		return math.Cos(math.Pi * float64(i) * q / r)
	}

	p.amp = make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			a := 4.0
			switch {
			case i == 0 && j == 0:
				a = 1.0
			case i == 0 || j == 0:
				a = 2.0
			}
			cx := cs(i, x, sizeX)
			cy := cs(j, y, sizeY)
			p.amp[i*n+j] = a * cx * cx * cy * cy
		}
	}

	return p, nil
}

func (p *Plane) Z(g *freq.Grid) ([]complex128, error) {
	phs := func(i int, w, tpd float64) float64 {
		if i == 0 {
			return 0
		}
		if w == 0 {
			return math.Inf(1)
		}
		t := math.Pi * float64(i) / (w * tpd)
		return t * t
	}

	z := make([]complex128, g.Len())
	for k := range z {
		w := g.Omega(k)

		sum := 0.0
		for i := 0; i < p.m; i++ {
			for j := 0; j < p.n; j++ {
				den := 1 - phs(i, w, p.tpdx) - phs(j, w, p.tpdy)
				if den == 0 {
					// exact cavity resonance, pin rather than blow up
					sum += util.ClampMagnitude
					continue
				}
				sum += p.amp[i*p.n+j] / den
			}
		}

		z[k] = util.Div(1, complex(0, w*p.cp)) * complex(sum, 0)
	}
	return z, nil
}
