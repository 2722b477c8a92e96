package util

// ClampMagnitude replaces the result of a degenerate division. Reactive
// one-ports hit exact zeros at DC (1/jwC at w=0) and the sweep must stay
// evaluable there, so indeterminate points are pinned to a huge finite
// impedance instead of propagating NaN/Inf.
const ClampMagnitude = 1e18

// Div divides x by y, clamping division by zero to ClampMagnitude.
func Div(x, y complex128) complex128 {
	if y == 0 {
		return complex(ClampMagnitude, 0)
	}
	return x / y
}
