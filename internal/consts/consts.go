package consts

const (
	LIGHTSPEED = 2.99792458e8     // Speed of light in vacuum (m/s)
	MU0        = 1.25663706e-6    // Vacuum permeability (H/m)
	EPS0       = 8.8541878128e-12 // Vacuum permittivity (F/m)
)
