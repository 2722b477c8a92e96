// Package convert derives impedance, admittance, scattering and gain
// representations from chain-matrix sequences.
//
// Gain and port-impedance helpers follow the sweep convention of the
// rest of the engine: degenerate per-point divisions are pinned to a
// huge finite magnitude (util.ClampMagnitude) so a sweep crossing a
// singular frequency still yields a full-length result. Whole-matrix
// conversions (ToZ, ToY, ToS) have no finite representation at a
// degenerate point and fail with ErrNumericInstability instead.
package convert

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/edp1096/go2port/pkg/twoport"
	"github.com/edp1096/go2port/pkg/util"
)

var (
	ErrDimensionMismatch  = errors.New("convert: dimension mismatch")
	ErrNumericInstability = errors.New("convert: numeric instability")
)

// ZParams holds open-circuit impedance parameters per frequency point.
type ZParams struct {
	Z11, Z12, Z21, Z22 []complex128
}

// YParams holds short-circuit admittance parameters per frequency point.
type YParams struct {
	Y11, Y12, Y21, Y22 []complex128
}

// SParams holds scattering parameters per frequency point for a real
// reference impedance.
type SParams struct {
	Z0                 float64
	S11, S12, S21, S22 []complex128
}

// ToZ converts a chain sequence to impedance parameters. A point with
// C = 0 (no shunt path anywhere in the network) has no finite Z
// representation and fails with ErrNumericInstability.
func ToZ(ch twoport.Chain) (*ZParams, error) {
	z := &ZParams{
		Z11: make([]complex128, len(ch)),
		Z12: make([]complex128, len(ch)),
		Z21: make([]complex128, len(ch)),
		Z22: make([]complex128, len(ch)),
	}
	for i, m := range ch {
		if m.C == 0 {
			return nil, fmt.Errorf("to Z at point %d: C=0: %w", i, ErrNumericInstability)
		}
		z.Z11[i] = m.A / m.C
		z.Z12[i] = m.Det() / m.C
		z.Z21[i] = 1 / m.C
		z.Z22[i] = m.D / m.C
	}
	return z, nil
}

// FromZ converts impedance parameters back to a chain sequence. A point
// with Z21 = 0 has no chain representation and fails with
// ErrNumericInstability.
func FromZ(z *ZParams) (twoport.Chain, error) {
	n := len(z.Z11)
	if len(z.Z12) != n || len(z.Z21) != n || len(z.Z22) != n {
		return nil, fmt.Errorf("from Z: parameter arrays differ in length: %w", ErrDimensionMismatch)
	}

	ch := make(twoport.Chain, n)
	for i := range ch {
		if z.Z21[i] == 0 {
			return nil, fmt.Errorf("from Z at point %d: Z21=0: %w", i, ErrNumericInstability)
		}
		ch[i] = twoport.ABCD{
			A: z.Z11[i] / z.Z21[i],
			B: (z.Z11[i]*z.Z22[i] - z.Z12[i]*z.Z21[i]) / z.Z21[i],
			C: 1 / z.Z21[i],
			D: z.Z22[i] / z.Z21[i],
		}
	}
	return ch, nil
}

// ToY converts a chain sequence to admittance parameters. A point with
// B = 0 fails with ErrNumericInstability.
func ToY(ch twoport.Chain) (*YParams, error) {
	y := &YParams{
		Y11: make([]complex128, len(ch)),
		Y12: make([]complex128, len(ch)),
		Y21: make([]complex128, len(ch)),
		Y22: make([]complex128, len(ch)),
	}
	for i, m := range ch {
		if m.B == 0 {
			return nil, fmt.Errorf("to Y at point %d: B=0: %w", i, ErrNumericInstability)
		}
		y.Y11[i] = m.D / m.B
		y.Y12[i] = -m.Det() / m.B
		y.Y21[i] = -1 / m.B
		y.Y22[i] = m.A / m.B
	}
	return y, nil
}

// ToS converts a chain sequence to scattering parameters for a real,
// positive reference impedance z0.
func ToS(ch twoport.Chain, z0 float64) (*SParams, error) {
	if z0 <= 0 || math.IsInf(z0, 0) || math.IsNaN(z0) {
		return nil, fmt.Errorf("to S: reference impedance %g ohm degenerate: %w", z0, ErrNumericInstability)
	}

	s := &SParams{
		Z0:  z0,
		S11: make([]complex128, len(ch)),
		S12: make([]complex128, len(ch)),
		S21: make([]complex128, len(ch)),
		S22: make([]complex128, len(ch)),
	}
	zr := complex(z0, 0)
	for i, m := range ch {
		den := m.A + m.B/zr + m.C*zr + m.D
		if den == 0 {
			return nil, fmt.Errorf("to S at point %d: singular denominator: %w", i, ErrNumericInstability)
		}
		s.S11[i] = (m.A + m.B/zr - m.C*zr - m.D) / den
		s.S12[i] = 2 * m.Det() / den
		s.S21[i] = 2 / den
		s.S22[i] = (-m.A + m.B/zr - m.C*zr + m.D) / den
	}
	return s, nil
}

// ForwardGain returns the open-circuit forward voltage gain V2/V1 = 1/A
// per frequency point.
func ForwardGain(ch twoport.Chain) []complex128 {
	out := make([]complex128, len(ch))
	for i, m := range ch {
		out[i] = util.Div(1, m.A)
	}
	return out
}

// ReverseGain returns the reverse voltage gain V1/V2 = det/D with port 2
// driven and port 1 open, per frequency point.
func ReverseGain(ch twoport.Chain) []complex128 {
	out := make([]complex128, len(ch))
	for i, m := range ch {
		out[i] = util.Div(m.Det(), m.D)
	}
	return out
}

// InputImpedance returns the impedance looking into port 1 with port 2
// open: A/C.
func InputImpedance(ch twoport.Chain) []complex128 {
	out := make([]complex128, len(ch))
	for i, m := range ch {
		out[i] = util.Div(m.A, m.C)
	}
	return out
}

// InputImpedanceInto returns the impedance looking into port 1 with
// port 2 terminated by load: (A*Zl + B)/(C*Zl + D).
func InputImpedanceInto(ch twoport.Chain, load complex128) []complex128 {
	out := make([]complex128, len(ch))
	for i, m := range ch {
		if cmplx.IsInf(load) {
			out[i] = util.Div(m.A, m.C)
			continue
		}
		out[i] = util.Div(m.A*load+m.B, m.C*load+m.D)
	}
	return out
}

// OutputImpedance returns the impedance looking back into port 2 with
// port 1 open: D/C.
func OutputImpedance(ch twoport.Chain) []complex128 {
	out := make([]complex128, len(ch))
	for i, m := range ch {
		out[i] = util.Div(m.D, m.C)
	}
	return out
}

// OutputImpedanceFrom returns the impedance looking back into port 2
// with port 1 closed by a source impedance: (D*Zs + B)/(C*Zs + A).
func OutputImpedanceFrom(ch twoport.Chain, source complex128) []complex128 {
	out := make([]complex128, len(ch))
	for i, m := range ch {
		if cmplx.IsInf(source) {
			out[i] = util.Div(m.D, m.C)
			continue
		}
		out[i] = util.Div(m.D*source+m.B, m.C*source+m.A)
	}
	return out
}

// Magnitude returns per-point absolute values.
func Magnitude(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// MagnitudeDB returns per-point magnitudes in decibels.
func MagnitudeDB(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = 20 * math.Log10(cmplx.Abs(v))
	}
	return out
}

// PhaseDeg returns per-point phases in degrees.
func PhaseDeg(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = cmplx.Phase(v) * 180 / math.Pi
	}
	return out
}
