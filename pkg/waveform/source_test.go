package waveform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() SourceConfig {
	return SourceConfig{
		V1:            -1,
		V2:            1,
		BitPeriod:     10e-9,
		RiseTime:      1e-9,
		Jitter:        0,
		SamplesPerBit: 100,
		Edge:          EdgeLinear,
		Seed:          1,
	}
}

func levelOf(bit int, cfg SourceConfig) float64 {
	if bit == 0 {
		return cfg.V1
	}
	return cfg.V2
}

func TestPRBSDurationAndLevels(t *testing.T) {
	cfg := testConfig()

	w, err := PRBS(50, cfg)
	require.NoError(t, err)

	assert.InDelta(t, 50*cfg.BitPeriod, w.Duration(), 1e-18)
	assert.Equal(t, 50*cfg.SamplesPerBit, w.Len())
	assert.InDelta(t, 0, w.Start, 1e-18)

	// every bit is settled at its midpoint
	for k := 0; k < 50; k++ {
		mid := (float64(k) + 0.5) * cfg.BitPeriod
		v := w.At(mid)
		if v > 0 {
			assert.InDelta(t, cfg.V2, v, 1e-9, "bit %d", k)
		} else {
			assert.InDelta(t, cfg.V1, v, 1e-9, "bit %d", k)
		}
	}
}

func TestPRBSReproducible(t *testing.T) {
	cfg := testConfig()
	cfg.Jitter = 1e-10

	w1, err := PRBS(32, cfg)
	require.NoError(t, err)
	w2, err := PRBS(32, cfg)
	require.NoError(t, err)

	assert.Equal(t, w1.Samples, w2.Samples, "same seed, same waveform")

	cfg.Seed = 2
	w3, err := PRBS(32, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, w1.Samples, w3.Samples)
}

func TestPatternMidpoints(t *testing.T) {
	cfg := testConfig()
	bits := []int{0, 1, 1, 0, 1, 0, 0, 1}

	w, err := Pattern(bits, cfg)
	require.NoError(t, err)

	for k, b := range bits {
		mid := (float64(k) + 0.5) * cfg.BitPeriod
		assert.InDelta(t, levelOf(b, cfg), w.At(mid), 1e-9, "bit %d", k)
	}
}

func TestPatternGaussEdges(t *testing.T) {
	cfg := testConfig()
	cfg.Edge = EdgeGauss
	bits := []int{0, 1, 0, 1, 1, 0}

	w, err := Pattern(bits, cfg)
	require.NoError(t, err)

	for k, b := range bits {
		mid := (float64(k) + 0.5) * cfg.BitPeriod
		assert.InDelta(t, levelOf(b, cfg), w.At(mid), 1e-3, "bit %d", k)
	}

	// the edge midpoint sits halfway between the levels
	assert.InDelta(t, 0, w.At(1*cfg.BitPeriod), 0.02)
}

func TestClockAlternates(t *testing.T) {
	cfg := testConfig()

	w, err := Clock(4, cfg)
	require.NoError(t, err)

	assert.Equal(t, 8*cfg.SamplesPerBit, w.Len(), "a period is two bits")
	for k := 0; k < 8; k++ {
		mid := (float64(k) + 0.5) * cfg.BitPeriod
		assert.InDelta(t, levelOf(k%2, cfg), w.At(mid), 1e-9, "half period %d", k)
	}
}

func TestJitterBoundedAndSettled(t *testing.T) {
	cfg := testConfig()
	cfg.Jitter = 2e-9
	bits := []int{0, 1, 0, 1, 0, 1, 0, 1}

	w, err := Pattern(bits, cfg)
	require.NoError(t, err)

	// worst-case shifted edge still settles by the midpoint
	for k, b := range bits {
		mid := (float64(k) + 0.5) * cfg.BitPeriod
		assert.InDelta(t, levelOf(b, cfg), w.At(mid), 1e-9, "bit %d", k)
	}

	// edges moved somewhere within the jitter bound
	unjittered, err := Pattern(bits, SourceConfig{
		V1: cfg.V1, V2: cfg.V2, BitPeriod: cfg.BitPeriod, RiseTime: cfg.RiseTime,
		SamplesPerBit: cfg.SamplesPerBit, Edge: cfg.Edge, Seed: cfg.Seed,
	})
	require.NoError(t, err)
	assert.NotEqual(t, unjittered.Samples, w.Samples)
}

func TestSourceMargin(t *testing.T) {
	cfg := testConfig()
	cfg.Margin = 5e-9
	bits := []int{1, 0, 1}

	w, err := Pattern(bits, cfg)
	require.NoError(t, err)

	assert.InDelta(t, 3*cfg.BitPeriod+2*cfg.Margin, w.Duration(), 1e-18)
	assert.InDelta(t, -cfg.Margin, w.Start, 1e-18)
	assert.InDelta(t, cfg.V2, w.Samples[0], 1e-12, "leading margin holds the first level")
	assert.InDelta(t, cfg.V2, w.Samples[w.Len()-1], 1e-12, "trailing margin holds the last level")
}

func TestSourceValidation(t *testing.T) {
	base := testConfig()

	t.Run("bit count", func(t *testing.T) {
		_, err := PRBS(0, base)
		require.ErrorIs(t, err, ErrInvalidParameter)
		_, err = Clock(0, base)
		require.ErrorIs(t, err, ErrInvalidParameter)
		_, err = Pattern(nil, base)
		require.ErrorIs(t, err, ErrInvalidParameter)
		_, err = Pattern([]int{0, 2}, base)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("bad timing", func(t *testing.T) {
		cfg := base
		cfg.BitPeriod = 0
		_, err := PRBS(8, cfg)
		require.ErrorIs(t, err, ErrInvalidParameter)

		cfg = base
		cfg.RiseTime = 0
		_, err = PRBS(8, cfg)
		require.ErrorIs(t, err, ErrInvalidParameter)

		cfg = base
		cfg.Jitter = -1e-12
		_, err = PRBS(8, cfg)
		require.ErrorIs(t, err, ErrInvalidParameter)

		cfg = base
		cfg.RiseTime = 6e-9
		cfg.Jitter = 3e-9 // rise + 2*jitter > bit period
		_, err = PRBS(8, cfg)
		require.ErrorIs(t, err, ErrInvalidParameter)

		cfg = base
		cfg.SamplesPerBit = 1
		_, err = PRBS(8, cfg)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("unresolvable rise time", func(t *testing.T) {
		cfg := base
		cfg.SamplesPerBit = 10 // sample period 1 ns, rise time 1 ns
		_, err := PRBS(8, cfg)
		require.ErrorIs(t, err, ErrInsufficientBandwidth)
	})
}
