package waveform

import (
	"fmt"
	"math"
)

// Eye is a waveform folded into unit-interval segments for eye-diagram
// rendering. All segments have the same length and the same time axis:
// sample j of any segment is at Offset + j*Step relative to its bit
// boundary.
type Eye struct {
	Step     float64
	Offset   float64 // time of each segment's first sample relative to the bit boundary
	Segments [][]float64
}

// SegmentTimes materializes the shared segment time axis.
func (e *Eye) SegmentTimes() []float64 {
	if len(e.Segments) == 0 {
		return nil
	}
	out := make([]float64, len(e.Segments[0]))
	for i := range out {
		out[i] = e.Offset + float64(i)*e.Step
	}
	return out
}

// Fold slices the waveform into one segment per bit interval. Bit
// boundaries are taken from the known bit clock, at integer multiples
// of bitPeriod on the waveform's absolute time axis; no clock recovery
// is performed, so jittered transitions overlay correctly. Each segment
// spans one bit period plus margin on both sides and is resampled onto
// the bit-aligned time axis. Only intervals covered by the record
// (within one sample period of its ends) produce segments.
func Fold(w *Waveform, bitPeriod, margin float64) (*Eye, error) {
	if bitPeriod <= 0 {
		return nil, fmt.Errorf("eye: bit period %g s not positive: %w", bitPeriod, ErrInvalidParameter)
	}
	if margin < 0 {
		return nil, fmt.Errorf("eye: negative margin %g s: %w", margin, ErrInvalidParameter)
	}

	segLen := int(math.Round((bitPeriod+2*margin)/w.Step)) + 1

	tMin := w.Start
	tMax := w.Start + float64(w.Len()-1)*w.Step
	tol := w.Step * (1 + 1e-9)

	kFirst := int(math.Floor(tMin/bitPeriod)) - 1
	kLast := int(math.Ceil(tMax/bitPeriod)) + 1

	var segments [][]float64
	for k := kFirst; k <= kLast; k++ {
		s0 := float64(k)*bitPeriod - margin
		s1 := float64(k)*bitPeriod + bitPeriod + margin
		if s0 < tMin-tol || s1 > tMax+tol {
			continue
		}

		seg := make([]float64, segLen)
		for j := range seg {
			seg[j] = w.At(s0 + float64(j)*w.Step)
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("eye: record spans no complete bit interval: %w", ErrInvalidParameter)
	}

	return &Eye{Step: w.Step, Offset: -margin, Segments: segments}, nil
}
