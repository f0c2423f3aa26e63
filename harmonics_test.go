package radauint

import (
	"math"
	"testing"
)

func TestZonalAccelerationMagnitudeOnEquator(t *testing.T) {
	// On the equator (z=0), J2's radial term reduces to
	// -1.5*j2*rEq^2*gm/r^5 * pos (the "5u^2-1" bracket is -1 and u=0), a
	// simpler closed form to check independently of zonalAcceleration's
	// own bookkeeping.
	gm, rEq, j2 := 1.0, 0.1, 1.0826253900e-3
	pos := []float64{2.0, 0, 0}
	acc := zonalAcceleration(pos, gm, rEq, j2, 0)

	r := 2.0
	r5 := r * r * r * r * r
	j2Fact := (3 * j2 * rEq * rEq / 2) * gm / r5
	want := j2Fact * (-1) * pos[0] // u2=0 on the equator, 5u2-1 = -1
	if math.Abs(acc[0]-want) > 1e-12 {
		t.Errorf("acc[0] = %v, want %v", acc[0], want)
	}
	if math.Abs(acc[1]) > 1e-15 || math.Abs(acc[2]) > 1e-15 {
		t.Errorf("acc = %v, want zero y/z component on the equator", acc)
	}
}

func TestZonalAccelerationOnPoleIsAlongAxis(t *testing.T) {
	// On the pole (x=y=0), u^2=1, so the only nonzero component is z.
	gm, rEq, j2, j4 := 1.0, 0.1, 1.0826253900e-3, -1.619898e-6
	pos := []float64{0, 0, 3.0}
	acc := zonalAcceleration(pos, gm, rEq, j2, j4)

	if acc[0] != 0 || acc[1] != 0 {
		t.Errorf("acc = %v, want zero x/y component on the pole", acc)
	}
	if acc[2] == 0 {
		t.Errorf("acc[2] = 0 on the pole, want a nonzero zonal correction")
	}
}

func TestZonalJacobianMatchesFiniteDifference(t *testing.T) {
	gm, rEq, j2, j4 := 1.0, 0.2, 1.0826253900e-3, -1.619898e-6
	pos := [3]float64{1.3, -0.5, 0.6}

	jac := zonalJacobian(pos[:], gm, rEq, j2, j4)

	f := func(p [3]float64) []float64 { return zonalAcceleration(p[:], gm, rEq, j2, j4) }
	fd := fdJacobian3(f, pos, 1e-6)

	assertMatClose(t, "zonalJacobian", jac, fd, 1e-7)
}

func TestEarthHarmonicsAppliesAboutEarth(t *testing.T) {
	ephem := NewEphemeris(fakePlanetaryReader{}, nil)
	cfg := newTestConfig()
	fm := &ForceModel{Ephem: ephem, Config: cfg, Terms: []Term{EarthHarmonics{}}, NBodies: NEphem + NAsteroids}

	ps, err := NewParticleSet([]float64{1.0001, 0, 0, 0, 0, 0}, []float64{0.001, 0, 0, 0, 0, 0}, []int{0})
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}
	if err := fm.Evaluate(2451545.0, ps); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	a := ps.Real[0]
	if math.IsNaN(a.AX) || math.IsNaN(a.AY) || math.IsNaN(a.AZ) {
		t.Errorf("Earth J2/J4 acceleration is NaN: (%v,%v,%v)", a.AX, a.AY, a.AZ)
	}
	v := ps.Var[0]
	if math.IsNaN(v.DAX) || math.IsNaN(v.DAY) || math.IsNaN(v.DAZ) {
		t.Errorf("Earth J2/J4 variational acceleration is NaN: (%v,%v,%v)", v.DAX, v.DAY, v.DAZ)
	}
}

func TestSunHarmonicsMatchesJ2OnlyClosedForm(t *testing.T) {
	// The fake reader puts the Sun stationary at the barycenter, so a
	// particle's displacement from the Sun equals its position; compare
	// SunHarmonics.Apply's result against a direct, independent
	// zonalAcceleration(j4=0) call at that same position, confirming C3
	// never pulls in the Sun's (unmodelled) J4 term.
	ephem := NewEphemeris(fakePlanetaryReader{}, nil)
	cfg := newTestConfig()
	fm := &ForceModel{Ephem: ephem, Config: cfg, Terms: []Term{SunHarmonics{}}, NBodies: NEphem + NAsteroids}

	ps, err := NewParticleSet([]float64{1.1, 0.2, -0.1, 0, 0, 0}, nil, nil)
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}
	if err := fm.Evaluate(2451545.0, ps); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	sunGM := cfg.G * massFraction[PerturberSun]
	rel := []float64{1.1, 0.2, -0.1} // Sun stationary at the barycenter in the fake reader
	eq := SunFrame.Rotate(rel)
	accEq := zonalAcceleration(eq, sunGM, sunEquatorRad, sunJ2, 0)
	want := SunFrame.InverseRotate(accEq)
	got := ps.Real[0]
	if math.Abs(got.AX-want[0]) > 1e-15 || math.Abs(got.AY-want[1]) > 1e-15 || math.Abs(got.AZ-want[2]) > 1e-15 {
		t.Errorf("acc = (%v,%v,%v), want %v", got.AX, got.AY, got.AZ, want)
	}
}
