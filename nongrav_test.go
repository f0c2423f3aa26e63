package radauint

import (
	"math"
	"testing"
)

func TestNonGravTermRadialOnlyMatchesClosedForm(t *testing.T) {
	d := []float64{3.0, 4.0, 0}
	w := []float64{0, 0, 1.0}
	acc, _, _ := nonGravTerm(d, w, 2.0, 0, 0)

	r := Norm(d)
	g := 1 / (r * r)
	dHat := Unit(d)
	want := Scale(2.0*g, dHat)
	for i := 0; i < 3; i++ {
		if math.Abs(acc[i]-want[i]) > 1e-12 {
			t.Errorf("acc[%d] = %v, want %v", i, acc[i], want[i])
		}
	}
}

func TestNonGravTermJacobianMatchesFiniteDifference(t *testing.T) {
	d := []float64{1.1, -0.6, 0.4}
	w := []float64{0.2, 0.5, -0.1}
	a1, a2, a3 := 1.3, 0.8, -0.5

	_, jacD, jacW := nonGravTerm(d, w, a1, a2, a3)

	accOfD := func(dd [3]float64) []float64 {
		acc, _, _ := nonGravTerm(dd[:], w, a1, a2, a3)
		return acc
	}
	accOfW := func(ww [3]float64) []float64 {
		acc, _, _ := nonGravTerm(d, ww[:], a1, a2, a3)
		return acc
	}
	var d3, w3 [3]float64
	copy(d3[:], d)
	copy(w3[:], w)

	fdD := fdJacobian3(accOfD, d3, 1e-6)
	fdW := fdJacobian3(accOfW, w3, 1e-6)

	assertMatClose(t, "jacD", jacD, fdD, 1e-5)
	assertMatClose(t, "jacW", jacW, fdW, 1e-5)
}

func TestNonGravitationalNoOpWithZeroCoefficients(t *testing.T) {
	ephem := NewEphemeris(fakePlanetaryReader{}, nil)
	cfg := newTestConfig() // A1=A2=A3=0

	ps, err := NewParticleSet([]float64{1, 0, 0, 0, 0.017, 0}, nil, nil)
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}
	fm := &ForceModel{Ephem: ephem, Config: cfg, Terms: []Term{NonGravitational{}}, NBodies: NEphem + NAsteroids}
	if err := fm.Evaluate(2451545.0, ps); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	a := ps.Real[0]
	if a.AX != 0 || a.AY != 0 || a.AZ != 0 {
		t.Errorf("acceleration = (%v,%v,%v), want exactly zero with A1=A2=A3=0", a.AX, a.AY, a.AZ)
	}
}

func TestNonGravitationalAppliesAboutSunWhenConfigured(t *testing.T) {
	ephem := NewEphemeris(fakePlanetaryReader{}, nil)
	cfg := newTestConfig()
	cfg.A1 = 1e-10

	ps, err := NewParticleSet([]float64{1, 0, 0, 0, 0.017, 0}, []float64{0.001, 0, 0, 0, 0, 0}, []int{0})
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}
	fm := &ForceModel{Ephem: ephem, Config: cfg, Terms: []Term{NonGravitational{}}, NBodies: NEphem + NAsteroids}
	if err := fm.Evaluate(2451545.0, ps); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	a := ps.Real[0]
	if a.AX == 0 && a.AY == 0 && a.AZ == 0 {
		t.Errorf("acceleration is exactly zero with A1 configured, want a nonzero Marsden term")
	}
	if math.IsNaN(a.AX) || math.IsNaN(a.AY) || math.IsNaN(a.AZ) {
		t.Errorf("acceleration is NaN: (%v,%v,%v)", a.AX, a.AY, a.AZ)
	}
}
