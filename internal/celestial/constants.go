package celestial

const (
	// G is the Newtonian gravitational constant in m³·kg⁻¹·s⁻².
	G = 6.67430e-11

	// SecondsPerYear is one Julian year.
	SecondsPerYear = 31557600.0

	// AU is the astronomical unit in metres.
	AU = 1.496e11

	DefaultMass        = 1.0e24
	DefaultRadius      = 1.0e6
	DefaultDensity     = 5514.0
	DefaultTrailLength = 1000
)
