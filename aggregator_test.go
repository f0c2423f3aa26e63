package radauint

import (
	"math"
	"testing"
)

func newTestConfig() *Config {
	return &Config{
		G: GravitationalConstant, C: SpeedOfLight,
		Epsilon: 1e-9, DT0: 0.01, DTMin: 1e-2,
	}
}

func TestNewForceModelSelectsRelativityTerm(t *testing.T) {
	ephem := NewEphemeris(fakePlanetaryReader{}, nil)

	fm := NewForceModel(ephem, newTestConfig())
	if _, ok := fm.Terms[len(fm.Terms)-1].(SolarRelativity); !ok {
		t.Errorf("default config should select SolarRelativity (C5), got %T", fm.Terms[len(fm.Terms)-1])
	}

	cfgEIH := newTestConfig()
	cfgEIH.UseEIH = true
	fmEIH := NewForceModel(ephem, cfgEIH)
	if _, ok := fmEIH.Terms[len(fmEIH.Terms)-1].(EIHCorrection); !ok {
		t.Errorf("UseEIH=true should select EIHCorrection (C6), got %T", fmEIH.Terms[len(fmEIH.Terms)-1])
	}
}

func TestForceModelEvaluateProducesFiniteAccelerations(t *testing.T) {
	ephem := NewEphemeris(fakePlanetaryReader{}, nil)
	fm := NewForceModel(ephem, newTestConfig())

	ps, err := NewParticleSet([]float64{1, 0, 0, 0, 0.017, 0}, []float64{0.001, 0, 0, 0, 0, 0}, []int{0})
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}

	if err := fm.Evaluate(2451545.0, ps); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	a := ps.Real[0]
	if math.IsNaN(a.AX) || math.IsNaN(a.AY) || math.IsNaN(a.AZ) {
		t.Errorf("real particle acceleration is NaN: (%v,%v,%v)", a.AX, a.AY, a.AZ)
	}
	if a.AX == 0 && a.AY == 0 && a.AZ == 0 {
		t.Errorf("real particle acceleration is exactly zero, want a nonzero Solar System force")
	}
	v := ps.Var[0]
	if math.IsNaN(v.DAX) || math.IsNaN(v.DAY) || math.IsNaN(v.DAZ) {
		t.Errorf("variational differential acceleration is NaN: (%v,%v,%v)", v.DAX, v.DAY, v.DAZ)
	}
}

// TestForceModelEvaluateZeroGYieldsZeroAcceleration exercises spec.md §8
// invariant I1: with G=0, every mass-dependent term (direct gravity,
// harmonics, relativity) must contribute nothing, since Ephemeris.Query
// now scales GM by Config.G rather than a hardcoded physical constant.
func TestForceModelEvaluateZeroGYieldsZeroAcceleration(t *testing.T) {
	ephem := NewEphemeris(fakePlanetaryReader{}, nil)
	cfg := newTestConfig()
	cfg.G = 0
	fm := NewForceModel(ephem, cfg)

	ps, err := NewParticleSet([]float64{1, 0, 0, 0, 0.017, 0}, []float64{0.001, 0, 0, 0, 0, 0}, []int{0})
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}

	if err := fm.Evaluate(2451545.0, ps); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	a := ps.Real[0]
	if a.AX != 0 || a.AY != 0 || a.AZ != 0 {
		t.Errorf("real particle acceleration = (%v,%v,%v), want exactly zero with G=0", a.AX, a.AY, a.AZ)
	}
	v := ps.Var[0]
	if v.DAX != 0 || v.DAY != 0 || v.DAZ != 0 {
		t.Errorf("variational acceleration = (%v,%v,%v), want exactly zero with G=0", v.DAX, v.DAY, v.DAZ)
	}
}

func TestForceModelEvaluateGeocentricSubtractsEarth(t *testing.T) {
	ephem := NewEphemeris(fakePlanetaryReader{}, nil)
	cfg := newTestConfig()
	cfg.Geocentric = true
	fm := NewForceModel(ephem, cfg)

	ps, err := NewParticleSet([]float64{1, 0, 0, 0, 0.017, 0}, nil, nil)
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}
	if err := fm.Evaluate(2451545.0, ps); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	a := ps.Real[0]
	if math.IsNaN(a.AX) || math.IsNaN(a.AY) || math.IsNaN(a.AZ) {
		t.Errorf("geocentric acceleration is NaN: (%v,%v,%v)", a.AX, a.AY, a.AZ)
	}
}
