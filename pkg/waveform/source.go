package waveform

import (
	"fmt"
	"math"
	"math/rand"
)

// Edge selects the shape of bit transitions.
type Edge int

const (
	// EdgeLinear ramps linearly over RiseTime, centered on the
	// transition instant.
	EdgeLinear Edge = iota
	// EdgeGauss uses an erf-shaped edge whose 20%-80% width is
	// RiseTime, approximating a square wave driven through the LRC
	// parasitics of a pin.
	EdgeGauss
)

// erf z-value where 0.5*(1+erf(z)) crosses 80%
const gaussEdgePoint = 0.5951160814499948

// SourceConfig describes a digital stimulus. All times are seconds,
// levels are volts.
type SourceConfig struct {
	V1            float64 // level of bit value 0
	V2            float64 // level of bit value 1
	BitPeriod     float64
	RiseTime      float64 // rise/fall time; see Edge for the reference points
	Jitter        float64 // max per-transition timing shift, uniform in [-Jitter, +Jitter]
	Margin        float64 // flat padding before and after the bit sequence
	SamplesPerBit int     // sampling resolution; the rise-time quality knob
	Edge          Edge
	Seed          int64 // seeds bit selection and jitter; same seed, same waveform
}

func (cfg *SourceConfig) validate() error {
	if cfg.BitPeriod <= 0 {
		return fmt.Errorf("source: bit period %g s not positive: %w", cfg.BitPeriod, ErrInvalidParameter)
	}
	if cfg.RiseTime <= 0 {
		return fmt.Errorf("source: rise time %g s not positive: %w", cfg.RiseTime, ErrInvalidParameter)
	}
	if cfg.Jitter < 0 || cfg.Margin < 0 {
		return fmt.Errorf("source: jitter and margin must not be negative: %w", ErrInvalidParameter)
	}
	if cfg.RiseTime+2*cfg.Jitter > cfg.BitPeriod {
		return fmt.Errorf("source: rise time %g s plus jitter %g s exceeds bit period %g s: %w",
			cfg.RiseTime, cfg.Jitter, cfg.BitPeriod, ErrInvalidParameter)
	}
	if cfg.SamplesPerBit < 2 {
		return fmt.Errorf("source: %d samples per bit < 2: %w", cfg.SamplesPerBit, ErrInvalidParameter)
	}

	step := cfg.BitPeriod / float64(cfg.SamplesPerBit)
	if cfg.RiseTime < 2*step {
		return fmt.Errorf("source: rise time %g s needs at least 2 samples, sample period is %g s: %w",
			cfg.RiseTime, step, ErrInsufficientBandwidth)
	}
	return nil
}

// PRBS generates a pseudo-random bit sequence waveform of the given bit
// count. The sequence is reproducible from cfg.Seed.
func PRBS(bits int, cfg SourceConfig) (*Waveform, error) {
	if bits < 1 {
		return nil, fmt.Errorf("prbs: bit count %d < 1: %w", bits, ErrInvalidParameter)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	states := make([]int, bits)
	for i := range states {
		states[i] = rng.Intn(2)
	}
	return generate(states, cfg, rng)
}

// Clock generates a waveform alternating 0,1 for the given number of
// periods.
func Clock(periods int, cfg SourceConfig) (*Waveform, error) {
	if periods < 1 {
		return nil, fmt.Errorf("clock: period count %d < 1: %w", periods, ErrInvalidParameter)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	states := make([]int, 2*periods)
	for i := range states {
		states[i] = i % 2
	}
	return generate(states, cfg, rand.New(rand.NewSource(cfg.Seed)))
}

// Pattern generates a waveform from an explicit bit pattern. Entries
// must be 0 or 1.
func Pattern(bits []int, cfg SourceConfig) (*Waveform, error) {
	if len(bits) < 1 {
		return nil, fmt.Errorf("pattern: empty bit pattern: %w", ErrInvalidParameter)
	}
	for i, b := range bits {
		if b != 0 && b != 1 {
			return nil, fmt.Errorf("pattern: bit %d is %d, want 0 or 1: %w", i, b, ErrInvalidParameter)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return generate(bits, cfg, rand.New(rand.NewSource(cfg.Seed)))
}

type transition struct {
	t0    float64 // jittered transition instant
	delta float64 // level change
}

func generate(bits []int, cfg SourceConfig, rng *rand.Rand) (*Waveform, error) {
	level := func(b int) float64 {
		if b == 0 {
			return cfg.V1
		}
		return cfg.V2
	}

	var edges []transition
	for k := 1; k < len(bits); k++ {
		if bits[k] == bits[k-1] {
			continue
		}
		jit := (2*rng.Float64() - 1) * cfg.Jitter
		edges = append(edges, transition{
			t0:    float64(k)*cfg.BitPeriod + jit,
			delta: level(bits[k]) - level(bits[k-1]),
		})
	}

	// beyond halfspan from the transition instant an edge is settled
	halfspan := cfg.RiseTime / 2
	shape := linearShape(cfg.RiseTime)
	if cfg.Edge == EdgeGauss {
		s := cfg.RiseTime / (2 * gaussEdgePoint)
		halfspan = 5 * s
		shape = gaussShape(s)
	}

	step := cfg.BitPeriod / float64(cfg.SamplesPerBit)
	marginSamples := int(math.Round(cfg.Margin / step))
	n := len(bits)*cfg.SamplesPerBit + 2*marginSamples
	start := -float64(marginSamples) * step

	samples := make([]float64, n)
	base := level(bits[0])
	lo := 0
	for i := range samples {
		t := start + float64(i)*step

		for lo < len(edges) && t > edges[lo].t0+halfspan {
			base += edges[lo].delta
			lo++
		}

		v := base
		for k := lo; k < len(edges) && edges[k].t0-halfspan <= t; k++ {
			v += edges[k].delta * shape(t-edges[k].t0)
		}
		samples[i] = v
	}

	return New(start, step, samples)
}

// linearShape ramps 0 to 1 over tr, centered on the transition.
func linearShape(tr float64) func(float64) float64 {
	return func(dt float64) float64 {
		switch {
		case dt <= -tr/2:
			return 0
		case dt >= tr/2:
			return 1
		}
		return dt/tr + 0.5
	}
}

// gaussShape is an erf edge with scale s, centered on the transition.
func gaussShape(s float64) func(float64) float64 {
	return func(dt float64) float64 {
		return 0.5 * (1 + math.Erf(dt/s))
	}
}
