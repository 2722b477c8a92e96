// Package standard maps ideal component values to the nearest standard
// E-series catalog values.
package standard

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParameter = errors.New("standard: invalid parameter")

// Resistor returns the closest standard resistor value for the given
// tolerance in percent (1, 2, 5 or 10, the E96/E48/E24/E12 series).
func Resistor(value float64, tolerancePct int) (float64, error) {
	if value <= 0 {
		return 0, fmt.Errorf("standard value: %g not positive: %w", value, ErrInvalidParameter)
	}

	var series, figs int
	switch tolerancePct {
	case 1:
		series, figs = 96, 1
	case 2:
		series, figs = 48, 1
	case 5:
		series, figs = 24, 0
	case 10:
		series, figs = 12, 0
	default:
		return 0, fmt.Errorf("standard value: tolerance must be 1%%, 2%%, 5%% or 10%%, got %d%%: %w",
			tolerancePct, ErrInvalidParameter)
	}

	dec := math.Floor(math.Log10(value)) - 1
	mant := value / math.Pow(10, dec)
	i := math.Round(math.Log10(mant) * float64(series))

	scale := math.Pow(10, float64(figs))
	rounded := math.Round(math.Pow(10, i/float64(series))*scale) / scale

	return math.Pow(10, dec) * rounded, nil
}

// Capacitor returns the closest standard capacitor value for the given
// tolerance in percent.
func Capacitor(value float64, tolerancePct int) (float64, error) {
	return Resistor(value, tolerancePct)
}
