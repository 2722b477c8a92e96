package waveform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/go2port/pkg/oneport"
	"github.com/edp1096/go2port/pkg/twoport"
)

func TestPropagateThroughShuntResistor(t *testing.T) {
	// A=1 B=0 C=1/50 D=1: unity gain, 50 ohm input impedance. The
	// output must reproduce the input and the input current must be
	// V/50 at every sample.
	r, err := oneport.NewResistor(50)
	require.NoError(t, err)

	cfg := testConfig()
	in, err := PRBS(16, cfg)
	require.NoError(t, err)

	vOut, iIn, err := Propagate(in, twoport.ShuntOf(r))
	require.NoError(t, err)

	require.Equal(t, in.Len(), vOut.Len())
	require.Equal(t, in.Len(), iIn.Len())
	assert.Equal(t, in.Start, vOut.Start)
	assert.Equal(t, in.Step, vOut.Step)

	for i := range in.Samples {
		assert.InDelta(t, in.Samples[i], vOut.Samples[i], 1e-9, "voltage sample %d", i)
		assert.InDelta(t, in.Samples[i]/50, iIn.Samples[i], 1e-9, "current sample %d", i)
	}
}

func TestPropagateResistiveDivider(t *testing.T) {
	// series 50 into shunt 50 halves the voltage at every frequency,
	// DC included
	rs, err := oneport.NewResistor(50)
	require.NoError(t, err)
	rp, err := oneport.NewResistor(50)
	require.NoError(t, err)

	cct, err := twoport.Cascade(twoport.SeriesOf(rs), twoport.ShuntOf(rp))
	require.NoError(t, err)

	cfg := testConfig()
	in, err := PRBS(16, cfg)
	require.NoError(t, err)

	vOut, iIn, err := Propagate(in, cct)
	require.NoError(t, err)

	for i := range in.Samples {
		assert.InDelta(t, in.Samples[i]/2, vOut.Samples[i], 1e-9, "voltage sample %d", i)
		assert.InDelta(t, in.Samples[i]/100, iIn.Samples[i], 1e-9, "current sample %d", i)
	}
}

func TestPropagateSeriesSourceTermination(t *testing.T) {
	// open-circuit load: a series resistor drops nothing and draws
	// nothing
	r, err := oneport.NewResistor(100)
	require.NoError(t, err)

	cfg := testConfig()
	in, err := Clock(4, cfg)
	require.NoError(t, err)

	vOut, iIn, err := Propagate(in, twoport.SeriesOf(r))
	require.NoError(t, err)

	for i := range in.Samples {
		assert.InDelta(t, in.Samples[i], vOut.Samples[i], 1e-9, "voltage sample %d", i)
		assert.InDelta(t, 0, iIn.Samples[i], 1e-9, "current sample %d", i)
	}
}

func TestPropagateLossyLineDelays(t *testing.T) {
	// 111.55 ohm line driven through a matched-ish source resistor;
	// the output should still swing rail to rail after the line delay
	line, err := twoport.NewLossyLine(0.254, 6.35011e-7, 5.10343e-11)
	require.NoError(t, err)
	rs, err := oneport.NewResistor(100)
	require.NoError(t, err)

	cct, err := twoport.Cascade(twoport.SeriesOf(rs), line)
	require.NoError(t, err)

	cfg := testConfig()
	in, err := PRBS(32, cfg)
	require.NoError(t, err)

	vOut, _, err := Propagate(in, cct)
	require.NoError(t, err)

	require.Equal(t, in.Len(), vOut.Len())

	// the line is unloaded, so reflections double and the source
	// divider halves; midpoints must still carry the bit levels
	delay := 0.254 * 5.69277e-9 // length * sqrt(L*C)
	for k := 2; k < 30; k++ {
		mid := (float64(k)+0.5)*cfg.BitPeriod + delay
		v := vOut.At(mid)
		assert.Greater(t, 1.2, v, "midpoint of bit %d within swing", k)
		assert.Less(t, -1.2, v, "midpoint of bit %d within swing", k)
	}
}

func TestPropagateValidation(t *testing.T) {
	r, err := oneport.NewResistor(50)
	require.NoError(t, err)

	short, err := New(0, 1e-9, []float64{1})
	require.NoError(t, err)

	_, _, err = Propagate(short, twoport.ShuntOf(r))
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSpectrumDC(t *testing.T) {
	samples := make([]float64, 64)
	for i := range samples {
		samples[i] = 2.5
	}
	w, err := New(0, 1e-9, samples)
	require.NoError(t, err)

	hz, coeff := Spectrum(w)
	require.Equal(t, 33, len(coeff))
	assert.Equal(t, 0.0, hz[0])
	assert.InDelta(t, 2.5, real(coeff[0]), 1e-12)
	for k := 1; k < len(coeff); k++ {
		assert.InDelta(t, 0, real(coeff[k]), 1e-12, "bin %d", k)
		assert.InDelta(t, 0, imag(coeff[k]), 1e-12, "bin %d", k)
	}
}

func TestSpectrumSingleTone(t *testing.T) {
	// one full cycle across the record lands in bin 1
	n := 128
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Cos(2 * math.Pi * float64(i) / float64(n))
	}
	w, err := New(0, 1e-9, samples)
	require.NoError(t, err)

	hz, coeff := Spectrum(w)
	assert.InDelta(t, 1.0/(128e-9), hz[1], 1e-3)

	// cos amplitude 1 splits between the positive and negative bins
	assert.InDelta(t, 0.5, real(coeff[1]), 1e-9)
	assert.InDelta(t, 0, real(coeff[2]), 1e-9)
}
