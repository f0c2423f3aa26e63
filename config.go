package radauint

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config bundles the per-run immutable knobs of spec.md §3 ("Simulation
// configuration"). Grounded on the teacher's config.go idiom (a package
// loader wrapping a single viper instance), generalized from SPICE/output
// path knobs to this module's physical and numerical ones.
type Config struct {
	G             float64 // gravitational constant, AU^3 Msun^-1 day^-2; 0 disables all mass-dependent forces
	C             float64 // speed of light, AU/day
	Geocentric    bool    // reference-frame flag
	Epsilon       float64 // integrator tolerance
	DT0           float64 // initial step, days
	DTMin         float64 // minimum step, days (>= 1e-2 per spec.md §4.E)
	ExactFinish   bool    // exact-finish-time flag
	AsteroidFile  string  // small-body SPK ephemeris path
	PlanetaryFile string  // planetary DE ephemeris path

	// Non-gravitational (C4) and relativistic (C5/C6) switches, resolving
	// Open Question (i) of spec.md §9 as runtime knobs rather than
	// compile-time ones.
	A1, A2, A3 float64
	UseEIH     bool

	LogLevel string
}

// DefaultAsteroidFile is the fallback small-body SPK path used when
// JPL_SB_EPHEM is unset (spec.md §6).
const DefaultAsteroidFile = "sb441-n16.bsp"

// NewConfig builds a Config with the spec's fixed physical constants
// (spec.md §6) and the caller-chosen numerical/frame knobs, then validates
// it (spec.md §7: InvalidConfiguration for a missing c or frame flag —
// both are always set here, so validation mainly guards dt/epsilon).
func NewConfig(geocentric bool, epsilon, dt0, dtMin float64, exactFinish bool) (*Config, error) {
	c := &Config{
		G:             GravitationalConstant,
		C:             SpeedOfLight,
		Geocentric:    geocentric,
		Epsilon:       epsilon,
		DT0:           dt0,
		DTMin:         dtMin,
		ExactFinish:   exactFinish,
		AsteroidFile:  asteroidFileFromEnv(),
		LogLevel:      "info",
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// asteroidFileFromEnv resolves JPL_SB_EPHEM per spec.md §6, defaulting to
// sb441-n16.bsp in the working directory when unset.
func asteroidFileFromEnv() string {
	if p := os.Getenv("JPL_SB_EPHEM"); p != "" {
		return p
	}
	return DefaultAsteroidFile
}

// Validate enforces spec.md §7's InvalidConfiguration checks plus the
// dt_min floor of spec.md §4.E.
func (c *Config) Validate() error {
	if c.C <= 0 {
		return &ErrInvalidConfiguration{Reason: "speed of light c must be set and positive"}
	}
	if c.G < 0 {
		return &ErrInvalidConfiguration{Reason: "gravitational constant G must not be negative"}
	}
	if c.Epsilon <= 0 {
		return &ErrInvalidConfiguration{Reason: "integrator tolerance epsilon must be positive"}
	}
	if c.DTMin < 1e-2 {
		return &ErrInvalidConfiguration{Reason: "dt_min must be >= 1e-2 days (spec.md §4.E)"}
	}
	if c.DT0 == 0 {
		return &ErrInvalidConfiguration{Reason: "initial step dt0 must be nonzero"}
	}
	return nil
}

// LoadConfigFile reads a run's knobs from a config file via a fresh viper
// instance (SetConfigFile/ReadInConfig), for the CLI
// wrapper (component J). Physical constants (G, c) are never read from the
// file — spec.md invariant (iii) forbids mixing hand-coded and table-
// derived constants, so they always come from NewConfig's defaults.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("epsilon", 1e-9)
	v.SetDefault("dt0", 0.01)
	v.SetDefault("dtmin", 1e-2)
	v.SetDefault("geocentric", false)
	v.SetDefault("exactfinish", true)
	v.SetDefault("loglevel", "info")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("radauint: reading config %q: %w", path, err)
	}
	cfg, err := NewConfig(
		v.GetBool("geocentric"),
		v.GetFloat64("epsilon"),
		v.GetFloat64("dt0"),
		v.GetFloat64("dtmin"),
		v.GetBool("exactfinish"),
	)
	if err != nil {
		return nil, err
	}
	cfg.A1 = v.GetFloat64("a1")
	cfg.A2 = v.GetFloat64("a2")
	cfg.A3 = v.GetFloat64("a3")
	cfg.UseEIH = v.GetBool("useeih")
	cfg.PlanetaryFile = v.GetString("planetaryfile")
	if v.IsSet("asteroidfile") {
		cfg.AsteroidFile = v.GetString("asteroidfile")
	}
	if v.IsSet("loglevel") {
		cfg.LogLevel = v.GetString("loglevel")
	}
	return cfg, nil
}
