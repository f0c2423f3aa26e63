package radauint

// Fundamental units: AU, days, solar masses throughout.
const (
	// AU is one astronomical unit in kilometers.
	AU = 149597870.700
	// SecondsPerDay converts a day to seconds.
	SecondsPerDay = 86400.0
	// SpeedOfLight is c in AU/day.
	SpeedOfLight = 173.14463267424031
	// GravitationalConstant is G in AU^3 * Msun^-1 * day^-2.
	GravitationalConstant = 2.959122082841196e-4
)

// Earth harmonic coefficients (DE441-aligned, per spec Open Question iii).
const (
	earthJ2         = 1.0826253900e-3
	earthJ4         = -1.619898e-6
	earthEquatorRad = 6378.1366 / AU // km -> AU
	earthPoleRA     = 0.0
	earthPoleDec    = 90.0
)

// Sun harmonic coefficients and pole.
const (
	sunJ2         = 2.196139e-7
	sunEquatorRad = 696000.0 / AU
	sunPoleRA     = 286.13
	sunPoleDec    = 63.87
)

// NEphem is the number of planetary-ephemeris perturbers: Sun, the 8
// planets, the Moon and Pluto.
const NEphem = 11

// NAsteroids is the number of massive main-belt asteroids carried by the
// default small-body perturber set.
const NAsteroids = 16

// PerturberIndex names the planetary-ephemeris perturbers in the fixed
// order the summation discipline (spec.md §5) requires.
type PerturberIndex int

// Planetary-ephemeris perturber indices, i < NEphem.
const (
	PerturberSun PerturberIndex = iota
	PerturberMercury
	PerturberVenus
	PerturberEarth
	PerturberMoon
	PerturberMars
	PerturberJupiter
	PerturberSaturn
	PerturberUranus
	PerturberNeptune
	PerturberPluto
)

var perturberNames = [NEphem]string{
	"Sun", "Mercury", "Venus", "Earth", "Moon", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto",
}

// String implements fmt.Stringer.
func (p PerturberIndex) String() string {
	if int(p) >= 0 && int(p) < NEphem {
		return perturberNames[p]
	}
	return "asteroid"
}

// massFraction holds each planetary-ephemeris body's mass as a fraction of
// the Sun's (DE441-class constants; mixing these with hand-derived numbers
// elsewhere in the module is forbidden, spec.md §3 invariant iii). GM is
// never baked in here: the façade scales massFraction by the run's
// Config.G at query time (spec.md §3: "gravitational constant G" is a
// per-run configuration knob, not a compile-time one — see DESIGN.md),
// so every force term still reads GM through Ephemeris.Query, never this
// table directly, except for the façade itself.
var massFraction = [NEphem]float64{
	1.0,           // Sun (GM_sun = G*Msun by construction)
	1.66012e-7,    // Mercury
	2.44783833e-6, // Venus
	3.04043264e-6, // Earth
	3.69464274e-8, // Moon
	3.22715608e-7, // Mars
	9.54791938e-4, // Jupiter
	2.85885670e-4, // Saturn
	4.36625324e-5, // Uranus
	5.15138902e-5, // Neptune
	7.34081198e-9, // Pluto system
}

// Radau (IAS15-style) node spacings, normalised to [0,1], per spec.md §4.E.
var radauNodes = [8]float64{
	0,
	0.0562625605369221,
	0.1802406917368924,
	0.3526247171131696,
	0.5471536263305554,
	0.7342101772154105,
	0.8853209468390958,
	0.9775206135612875,
}

// c2 returns the speed-of-light squared, AU^2/day^2.
func c2(c float64) float64 { return c * c }

func sq(x float64) float64   { return x * x }
func cube(x float64) float64 { return x * x * x }
