package twoport

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/edp1096/go2port/internal/consts"
	"github.com/edp1096/go2port/pkg/freq"
	"github.com/edp1096/go2port/pkg/util"
)

// LossyLine is a W-element-like transmission line built from
// per-unit-length parameters, with optional skin-effect and
// dielectric-loss terms. Per-unit-length values can be extracted with a
// field solver such as TNT/MMTL.
type LossyLine struct {
	Length float64 // line length (m)
	L      float64 // inductance (H/m)
	C      float64 // capacitance (F/m)
	R0     float64 // DC series resistance (ohm/m)
	G0     float64 // DC shunt conductance (S/m)
	Rs     float64 // skin-effect resistance (ohm/(m*sqrt(Hz)))
	Gd     float64 // dielectric-loss conductance (S/(m*Hz))
}

// NewLossyLine builds a lossless-by-default line from length and
// per-unit-length L and C. Loss terms can be set on the returned value.
func NewLossyLine(length, l, c float64) (*LossyLine, error) {
	return NewLossyLineLoss(length, l, c, 0, 0, 0, 0)
}

// NewLossyLineLoss builds a line with all loss terms.
func NewLossyLineLoss(length, l, c, r0, g0, rs, gd float64) (*LossyLine, error) {
	if length <= 0 {
		return nil, fmt.Errorf("lossy line: length %g m not positive: %w", length, ErrInvalidParameter)
	}
	if l <= 0 || c <= 0 {
		return nil, fmt.Errorf("lossy line: L=%g H/m and C=%g F/m must be positive: %w", l, c, ErrInvalidParameter)
	}
	if r0 < 0 || g0 < 0 || rs < 0 || gd < 0 {
		return nil, fmt.Errorf("lossy line: loss terms must not be negative: %w", ErrInvalidParameter)
	}
	return &LossyLine{Length: length, L: l, C: c, R0: r0, G0: g0, Rs: rs, Gd: gd}, nil
}

func (w *LossyLine) Chain(g *freq.Grid) (Chain, error) {
	ch := make(Chain, g.Len())
	for i := range ch {
		f := g.Hz(i)
		if f == 0 {
			// the loss terms vanish at DC and gamma*length -> 0, so the
			// line degenerates to a through connection
			ch[i] = Identity()
			continue
		}

		omega := g.Omega(i)

		// series impedance per meter, with skin effect
		r := complex(w.R0, 0) + complex(math.Sqrt(f)*w.Rs, math.Sqrt(f)*w.Rs)
		zs := complex(0, omega*w.L) + r

		// shunt admittance per meter, with dielectric loss
		gc := complex(w.G0+f/math.Sqrt(1+f*f)*w.Gd, 0)
		yp := complex(0, omega*w.C) + gc

		zc := cmplx.Sqrt(util.Div(zs, yp))
		gl := cmplx.Sqrt(zs*yp) * complex(w.Length, 0)

		coshGL := cmplx.Cosh(gl)
		sinhGL := cmplx.Sinh(gl)

		ch[i] = ABCD{
			A: coshGL,
			B: zc * sinhGL,
			C: util.Div(sinhGL, zc),
			D: coshGL,
		}
	}
	return ch, nil
}

// LosslessLine is an ideal transmission line described by its
// characteristic impedance and the relative permittivity of its
// dielectric.
type LosslessLine struct {
	Length float64 // line length (m)
	Z0     float64 // characteristic impedance (ohm)
	Er     float64 // relative permittivity
}

func NewLosslessLine(length, z0, er float64) (*LosslessLine, error) {
	if length <= 0 {
		return nil, fmt.Errorf("lossless line: length %g m not positive: %w", length, ErrInvalidParameter)
	}
	if z0 <= 0 {
		return nil, fmt.Errorf("lossless line: impedance %g ohm not positive: %w", z0, ErrInvalidParameter)
	}
	if er < 1 {
		return nil, fmt.Errorf("lossless line: relative permittivity %g < 1: %w", er, ErrInvalidParameter)
	}
	return &LosslessLine{Length: length, Z0: z0, Er: er}, nil
}

func (t *LosslessLine) Chain(g *freq.Grid) (Chain, error) {
	v := consts.LIGHTSPEED / math.Sqrt(t.Er)
	z0 := complex(t.Z0, 0)

	ch := make(Chain, g.Len())
	for i := range ch {
		bl := g.Omega(i) / v * t.Length // beta * length

		cosBL := complex(math.Cos(bl), 0)
		sinBL := complex(math.Sin(bl), 0)

		ch[i] = ABCD{
			A: cosBL,
			B: 1i * z0 * sinBL,
			C: 1i * sinBL / z0,
			D: cosBL,
		}
	}
	return ch, nil
}
