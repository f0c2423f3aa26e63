package radauint

import "math"

// Term is one of the five independent acceleration contributors of
// spec.md §4.C. Each mutates the accelerations of the real particles in
// its domain and of any variational partner whose parent is in that
// domain.
type Term interface {
	Apply(ctx *AggregatorContext) error
}

// AggregatorContext bundles everything a Term needs for one evaluation:
// the current time, the particle array, the perturber snapshots gathered
// once per node, the variational links grouped by parent, and the active
// frame-shift origin (spec.md §4.D).
type AggregatorContext struct {
	T             float64
	Particles     *ParticleSet
	Perturbers    []Perturber
	LinksByParent [][]VariationalLink // indexed by real-particle index
	Origin        []float64           // zero if barycentric, Earth's state if geocentric
	Geocentric    bool
	Config        *Config
}

// ForceModel is the aggregator of spec.md §4.D: it queries perturber
// states once per node, zeroes accelerations, and sums the configured
// Terms in the fixed order direct gravity, harmonics, non-gravs,
// relativistic — "for numerical reproducibility, not correctness"
// (spec.md §4.D). Grounded on perturbations.go's Perturbations.Perturb,
// generalised from "one orbit's perturbation vector" to "every particle's
// acceleration, once per Radau sub-node".
type ForceModel struct {
	Ephem    *Ephemeris
	Config   *Config
	Terms    []Term // C1, C2, C3, C4, C5 or C6 in that order
	NBodies  int    // NEphem + NAsteroids, how many perturbers to query
	// (asteroid indices are skipped when Ephem has no asteroid reader)
}

// NewForceModel builds the default aggregator: direct gravity (C1), Earth
// J2/J4 (C2), Sun J2 (C3), non-gravitational (C4, zero coefficients unless
// configured), and either the Damour-Deruelle (C5, default) or EIH (C6)
// relativistic correction, per the runtime switch in Config (resolving
// Open Question (i) of spec.md §9).
func NewForceModel(ephem *Ephemeris, cfg *Config) *ForceModel {
	terms := []Term{
		DirectGravity{},
		EarthHarmonics{},
		SunHarmonics{},
		NonGravitational{},
	}
	if cfg.UseEIH {
		terms = append(terms, EIHCorrection{})
	} else {
		terms = append(terms, SolarRelativity{})
	}
	return &ForceModel{Ephem: ephem, Config: cfg, Terms: terms, NBodies: NEphem + NAsteroids}
}

// Evaluate performs one full force evaluation at time t (spec.md §4.D):
// it gathers perturbers, zeroes accelerations, runs every term in order,
// applies the geocentric indirect term, and validates finiteness.
func (f *ForceModel) Evaluate(t float64, ps *ParticleSet) error {
	origin := []float64{0, 0, 0}
	var earthPert Perturber
	if f.Config.Geocentric {
		gm, r, v, a, err := f.Ephem.Query(int(PerturberEarth), t, f.Config.G)
		if err != nil {
			return err
		}
		earthPert = Perturber{Index: PerturberEarth, GM: gm, R: r[:], V: v[:], A: a[:]}
		origin = earthPert.R
	}

	nBodies := f.NBodies
	if f.Ephem.asteroids == nil && nBodies > NEphem {
		// No small-body reader configured: asteroid perturbers are left
		// out of the force model.
		nBodies = NEphem
	}
	perturbers := make([]Perturber, 0, nBodies)
	for i := 0; i < nBodies; i++ {
		gm, r, v, a, err := f.Ephem.Query(i, t, f.Config.G)
		if err != nil {
			return err
		}
		rel := Sub(r[:], origin)
		perturbers = append(perturbers, Perturber{Index: PerturberIndex(i), GM: gm, R: rel, V: v[:], A: a[:]})
	}

	ps.ZeroAccelerations()

	linksByParent := make([][]VariationalLink, len(ps.Real))
	for i := range ps.Real {
		linksByParent[i] = ps.LinksFor(i)
	}

	ctx := &AggregatorContext{
		T:             t,
		Particles:     ps,
		Perturbers:    perturbers,
		LinksByParent: linksByParent,
		Origin:        origin,
		Geocentric:    f.Config.Geocentric,
		Config:        f.Config,
	}

	for _, term := range f.Terms {
		if err := term.Apply(ctx); err != nil {
			return err
		}
	}

	if f.Config.Geocentric {
		for i := range ps.Real {
			ps.Real[i].AX -= earthPert.A[0]
			ps.Real[i].AY -= earthPert.A[1]
			ps.Real[i].AZ -= earthPert.A[2]
		}
	}

	return f.validate(ps)
}

// validate raises NumericalFailure for the first non-finite acceleration
// found (spec.md §4.D step 5).
func (f *ForceModel) validate(ps *ParticleSet) error {
	for i, p := range ps.Real {
		if !finite3(p.AX, p.AY, p.AZ) {
			return &ErrNumericalFailure{Term: "aggregator", Particle: i, Component: "real acceleration"}
		}
	}
	for i, v := range ps.Var {
		if !finite3(v.DAX, v.DAY, v.DAZ) {
			return &ErrNumericalFailure{Term: "aggregator", Particle: i, Component: "variational acceleration"}
		}
	}
	return nil
}

func finite3(x, y, z float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) &&
		!math.IsNaN(y) && !math.IsInf(y, 0) &&
		!math.IsNaN(z) && !math.IsInf(z, 0)
}
