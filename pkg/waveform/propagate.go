package waveform

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/edp1096/go2port/pkg/convert"
	"github.com/edp1096/go2port/pkg/freq"
	"github.com/edp1096/go2port/pkg/twoport"
	"github.com/edp1096/go2port/pkg/util"
)

// Propagate drives the waveform into port 1 of a two-port network and
// returns the open-circuit output voltage at port 2 and the current
// drawn at port 1.
//
// The record is transformed with a real FFT, multiplied per bin by the
// network's forward gain (output voltage) and divided by its input
// impedance (input current), then transformed back. The network is
// evaluated on the FFT bin grid, which extends from DC up to the
// waveform's Nyquist frequency; models are responsible for staying
// evaluable over that whole range (the element models clamp their DC
// singularities, transmission lines degenerate to a through connection
// at 0 Hz). The record is padded on both sides with its own length of
// edge-value samples to mask the rectangular window.
func Propagate(in *Waveform, network twoport.TwoPort) (vOut, iIn *Waveform, err error) {
	n := in.Len()
	if n < 2 {
		return nil, nil, fmt.Errorf("propagate: record of %d samples too short: %w", n, ErrInvalidParameter)
	}

	m := 3 * n
	padded := make([]float64, m)
	for i := 0; i < n; i++ {
		padded[i] = in.Samples[0]
		padded[2*n+i] = in.Samples[n-1]
	}
	copy(padded[n:2*n], in.Samples)

	fft := fourier.NewFFT(m)
	coeff := fft.Coefficients(nil, padded)

	binHz := make([]float64, len(coeff))
	for k := range binHz {
		binHz[k] = fft.Freq(k) / in.Step
	}
	grid, err := freq.FromSlice(binHz)
	if err != nil {
		return nil, nil, fmt.Errorf("propagate: %w", err)
	}

	ch, err := network.Chain(grid)
	if err != nil {
		return nil, nil, fmt.Errorf("propagate: %w", err)
	}
	if len(ch) != grid.Len() {
		return nil, nil, fmt.Errorf("propagate: chain length %d for %d-point grid: %w",
			len(ch), grid.Len(), twoport.ErrDimensionMismatch)
	}

	gain := convert.ForwardGain(ch)
	zin := convert.InputImpedance(ch)

	vCoeff := make([]complex128, len(coeff))
	iCoeff := make([]complex128, len(coeff))
	for k := range coeff {
		vCoeff[k] = coeff[k] * gain[k]
		iCoeff[k] = util.Div(coeff[k], zin[k])
	}

	vSeq := fft.Sequence(nil, vCoeff)
	iSeq := fft.Sequence(nil, iCoeff)

	scale := 1 / float64(m)
	vSamples := make([]float64, n)
	iSamples := make([]float64, n)
	for i := 0; i < n; i++ {
		vSamples[i] = vSeq[n+i] * scale
		iSamples[i] = iSeq[n+i] * scale
	}

	vOut, err = New(in.Start, in.Step, vSamples)
	if err != nil {
		return nil, nil, err
	}
	iIn, err = New(in.Start, in.Step, iSamples)
	if err != nil {
		return nil, nil, err
	}
	return vOut, iIn, nil
}

// Spectrum returns the waveform's one-sided spectrum: bin frequencies
// in Hz and the normalized complex amplitude per bin.
func Spectrum(w *Waveform) ([]float64, []complex128) {
	n := w.Len()
	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, w.Samples)

	hz := make([]float64, len(coeff))
	for k := range coeff {
		hz[k] = fft.Freq(k) / w.Step
		coeff[k] /= complex(float64(n), 0)
	}
	return hz, coeff
}
