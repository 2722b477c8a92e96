package convert

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/go2port/pkg/freq"
	"github.com/edp1096/go2port/pkg/oneport"
	"github.com/edp1096/go2port/pkg/twoport"
	"github.com/edp1096/go2port/pkg/util"
)

// testChain builds a non-degenerate L-section (series R+L, shunt C)
// over a log sweep.
func testChain(t *testing.T) twoport.Chain {
	t.Helper()

	g, err := freq.Log(1e6, 1e9, 10)
	require.NoError(t, err)

	r, err := oneport.NewResistor(50)
	require.NoError(t, err)
	l, err := oneport.NewInductor(10e-9)
	require.NoError(t, err)
	c, err := oneport.NewCapacitor(100e-12)
	require.NoError(t, err)

	cct, err := twoport.Cascade(
		twoport.SeriesOf(oneport.Series(r, l)),
		twoport.ShuntOf(c),
	)
	require.NoError(t, err)

	ch, err := cct.Chain(g)
	require.NoError(t, err)
	return ch
}

func TestZRoundTrip(t *testing.T) {
	ch := testChain(t)

	z, err := ToZ(ch)
	require.NoError(t, err)
	back, err := FromZ(z)
	require.NoError(t, err)

	require.Equal(t, len(ch), len(back))
	for i := range ch {
		assert.InDelta(t, real(ch[i].A), real(back[i].A), 1e-9*cmplx.Abs(ch[i].A)+1e-15, "A[%d]", i)
		assert.InDelta(t, imag(ch[i].A), imag(back[i].A), 1e-9*cmplx.Abs(ch[i].A)+1e-15, "A[%d]", i)
		assert.InDelta(t, real(ch[i].B), real(back[i].B), 1e-9*cmplx.Abs(ch[i].B)+1e-15, "B[%d]", i)
		assert.InDelta(t, imag(ch[i].B), imag(back[i].B), 1e-9*cmplx.Abs(ch[i].B)+1e-15, "B[%d]", i)
		assert.InDelta(t, real(ch[i].C), real(back[i].C), 1e-9*cmplx.Abs(ch[i].C)+1e-15, "C[%d]", i)
		assert.InDelta(t, imag(ch[i].C), imag(back[i].C), 1e-9*cmplx.Abs(ch[i].C)+1e-15, "C[%d]", i)
		assert.InDelta(t, real(ch[i].D), real(back[i].D), 1e-9*cmplx.Abs(ch[i].D)+1e-15, "D[%d]", i)
		assert.InDelta(t, imag(ch[i].D), imag(back[i].D), 1e-9*cmplx.Abs(ch[i].D)+1e-15, "D[%d]", i)
	}
}

func TestToZDegenerate(t *testing.T) {
	// a pure series element has C = 0 everywhere
	ch := twoport.Chain{{A: 1, B: 50, C: 0, D: 1}}
	_, err := ToZ(ch)
	require.ErrorIs(t, err, ErrNumericInstability)
}

func TestToYDegenerate(t *testing.T) {
	// a pure shunt element has B = 0 everywhere
	ch := twoport.Chain{{A: 1, B: 0, C: 0.02, D: 1}}
	_, err := ToY(ch)
	require.ErrorIs(t, err, ErrNumericInstability)
}

func TestToY(t *testing.T) {
	ch := twoport.Chain{{A: 1, B: 50, C: 0, D: 1}}
	y, err := ToY(ch)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, real(y.Y11[0]), 1e-12)
	assert.InDelta(t, -0.02, real(y.Y21[0]), 1e-12)
}

func TestFromZDimensionMismatch(t *testing.T) {
	z := &ZParams{
		Z11: make([]complex128, 3),
		Z12: make([]complex128, 3),
		Z21: make([]complex128, 2),
		Z22: make([]complex128, 3),
	}
	_, err := FromZ(z)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestToSMatchedLine(t *testing.T) {
	g, err := freq.Log(1e6, 1e9, 5)
	require.NoError(t, err)

	line, err := twoport.NewLosslessLine(0.1, 50, 1)
	require.NoError(t, err)
	ch, err := line.Chain(g)
	require.NoError(t, err)

	s, err := ToS(ch, 50)
	require.NoError(t, err)

	for i := range ch {
		assert.InDelta(t, 0, cmplx.Abs(s.S11[i]), 1e-9, "S11[%d]", i)
		assert.InDelta(t, 1, cmplx.Abs(s.S21[i]), 1e-9, "S21[%d]", i)
		assert.InDelta(t, 0, cmplx.Abs(s.S22[i]), 1e-9, "S22[%d]", i)
	}
}

func TestToSDegenerateReference(t *testing.T) {
	ch := testChain(t)
	_, err := ToS(ch, 0)
	require.ErrorIs(t, err, ErrNumericInstability)
	_, err = ToS(ch, -50)
	require.ErrorIs(t, err, ErrNumericInstability)
}

func TestGains(t *testing.T) {
	// resistive divider: series 50 into shunt 50
	ch := twoport.Chain{{A: 2, B: 50, C: 0.02, D: 1}}

	gf := ForwardGain(ch)
	assert.InDelta(t, 0.5, real(gf[0]), 1e-12)

	gr := ReverseGain(ch)
	assert.InDelta(t, 1, real(gr[0]), 1e-12, "det/D for the reciprocal divider")
}

func TestPortImpedances(t *testing.T) {
	ch := twoport.Chain{{A: 2, B: 50, C: 0.02, D: 1}}

	zin := InputImpedance(ch)
	assert.InDelta(t, 100, real(zin[0]), 1e-9)

	zinLoaded := InputImpedanceInto(ch, 50)
	assert.InDelta(t, 75, real(zinLoaded[0]), 1e-9) // 50 + 50||50

	zout := OutputImpedance(ch)
	assert.InDelta(t, 50, real(zout[0]), 1e-9)

	zoutDriven := OutputImpedanceFrom(ch, 0)
	assert.InDelta(t, 25, real(zoutDriven[0]), 1e-9) // 50||50

	open := complex(math.Inf(1), 0)
	assert.Equal(t, InputImpedance(ch)[0], InputImpedanceInto(ch, open)[0])
	assert.Equal(t, OutputImpedance(ch)[0], OutputImpedanceFrom(ch, open)[0])
}

func TestDegenerateDivisionsClamp(t *testing.T) {
	ch := twoport.Chain{{A: 1, B: 50, C: 0, D: 1}} // pure series, open input

	zin := InputImpedance(ch)
	assert.Equal(t, util.ClampMagnitude, real(zin[0]))
	assert.False(t, cmplx.IsNaN(zin[0]))
	assert.False(t, cmplx.IsInf(zin[0]))
}

func TestScalarDerivations(t *testing.T) {
	x := []complex128{complex(0, 1), complex(-1, 0), complex(10, 0)}

	mag := Magnitude(x)
	assert.Equal(t, []float64{1, 1, 10}, mag)

	db := MagnitudeDB(x)
	assert.InDelta(t, 0, db[0], 1e-12)
	assert.InDelta(t, 20, db[2], 1e-12)

	ph := PhaseDeg(x)
	assert.InDelta(t, 90, ph[0], 1e-9)
	assert.InDelta(t, 180, ph[1], 1e-9)
	assert.InDelta(t, 0, ph[2], 1e-9)
}
