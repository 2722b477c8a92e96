// Package waveform generates digital test stimuli, propagates them
// through two-port networks in the frequency domain and folds the
// results into eye diagrams.
package waveform

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter      = errors.New("waveform: invalid parameter")
	ErrInsufficientBandwidth = errors.New("waveform: insufficient bandwidth")
)

// Waveform is a uniformly sampled real-valued signal (voltage or
// current). Samples[i] is the value at Start + i*Step.
type Waveform struct {
	Start   float64 // time of the first sample (s)
	Step    float64 // sample period (s)
	Samples []float64
}

func New(start, step float64, samples []float64) (*Waveform, error) {
	if step <= 0 {
		return nil, fmt.Errorf("waveform: sample period %g s not positive: %w", step, ErrInvalidParameter)
	}
	if len(samples) < 1 {
		return nil, fmt.Errorf("waveform: no samples: %w", ErrInvalidParameter)
	}
	return &Waveform{Start: start, Step: step, Samples: samples}, nil
}

func (w *Waveform) Len() int { return len(w.Samples) }

// Duration returns the time span covered by the record.
func (w *Waveform) Duration() float64 {
	return float64(len(w.Samples)) * w.Step
}

// Time returns the time of sample i.
func (w *Waveform) Time(i int) float64 {
	return w.Start + float64(i)*w.Step
}

// Times materializes the time axis for export and plotting.
func (w *Waveform) Times() []float64 {
	out := make([]float64, len(w.Samples))
	for i := range out {
		out[i] = w.Time(i)
	}
	return out
}

// At returns the value at time t, linearly interpolated between samples
// and clamped to the record's edge values outside it.
func (w *Waveform) At(t float64) float64 {
	x := (t - w.Start) / w.Step
	if x <= 0 {
		return w.Samples[0]
	}
	last := len(w.Samples) - 1
	if x >= float64(last) {
		return w.Samples[last]
	}

	i := int(x)
	frac := x - float64(i)
	return w.Samples[i]*(1-frac) + w.Samples[i+1]*frac
}
