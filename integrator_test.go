package radauint

import (
	"testing"

	"github.com/gonum/floats"
)

func TestPredictConstantAcceleration(t *testing.T) {
	x0 := []float64{0}
	v0 := []float64{1}
	a0 := []float64{2}
	var b [7][]float64
	for i := range b {
		b[i] = []float64{0}
	}
	tau := 0.5
	x, v := predict(x0, v0, a0, b, tau)

	wantV := v0[0] + a0[0]*tau
	wantX := x0[0] + v0[0]*tau + 0.5*a0[0]*tau*tau
	if !floats.EqualWithinAbs(v[0], wantV, 1e-12) {
		t.Errorf("v = %v, want %v", v[0], wantV)
	}
	if !floats.EqualWithinAbs(x[0], wantX, 1e-12) {
		t.Errorf("x = %v, want %v", x[0], wantX)
	}
}

// TestDividedDifferencesLinearAcceleration samples a strictly linear
// acceleration a(tau) = a0 + c1*tau at the fixed Radau nodes; the Newton
// divided differences of a linear function collapse to g1=c1 and every
// higher-order difference to zero.
func TestDividedDifferencesLinearAcceleration(t *testing.T) {
	const a0, c1 = 3.0, 5.0
	var samples [8][]float64
	for i, h := range radauNodes {
		samples[i] = []float64{a0 + c1*h}
	}
	g := dividedDifferences(samples)
	if !floats.EqualWithinAbs(g[0][0], c1, 1e-9) {
		t.Errorf("g1 = %v, want %v", g[0][0], c1)
	}
	for k := 1; k < 7; k++ {
		if !floats.EqualWithinAbs(g[k][0], 0, 1e-9) {
			t.Errorf("g%d = %v, want 0 for a linear acceleration profile", k+1, g[k][0])
		}
	}
}

// TestGaussRadauTransformLinear checks that a purely linear acceleration's
// g-coefficients convert to b0=c1 and b1..b6=0, so predict()'s power series
// reconstructs exactly the same linear acceleration (a(tau)=a0+b0*tau+...).
func TestGaussRadauTransformLinear(t *testing.T) {
	const a0, c1 = 3.0, 5.0
	var samples [8][]float64
	for i, h := range radauNodes {
		samples[i] = []float64{a0 + c1*h}
	}
	g := dividedDifferences(samples)
	transform := newGaussRadauTransform()
	b := transform.ToB(g)

	if !floats.EqualWithinAbs(b[0][0], c1, 1e-9) {
		t.Errorf("b0 = %v, want %v", b[0][0], c1)
	}
	for k := 1; k < 7; k++ {
		if !floats.EqualWithinAbs(b[k][0], 0, 1e-9) {
			t.Errorf("b%d = %v, want 0", k, b[k][0])
		}
	}
}

// TestGaussRadauTransformQuadratic exercises a second-order acceleration
// profile, the smallest case that depends on the transform's cross-term
// expansion (Q2 = tau*(tau-h1)) rather than just its leading coefficient.
func TestGaussRadauTransformQuadratic(t *testing.T) {
	const a0, c1, c2 = 1.0, 2.0, 3.0
	var samples [8][]float64
	for i, h := range radauNodes {
		samples[i] = []float64{a0 + c1*h + c2*h*h}
	}
	g := dividedDifferences(samples)
	transform := newGaussRadauTransform()
	b := transform.ToB(g)

	if !floats.EqualWithinAbs(b[0][0], c1, 1e-9) {
		t.Errorf("b0 = %v, want %v", b[0][0], c1)
	}
	if !floats.EqualWithinAbs(b[1][0], c2, 1e-9) {
		t.Errorf("b1 = %v, want %v", b[1][0], c2)
	}
	for k := 2; k < 7; k++ {
		if !floats.EqualWithinAbs(b[k][0], 0, 1e-9) {
			t.Errorf("b%d = %v, want 0", k, b[k][0])
		}
	}
}

// TestIntegratorStepRoundTripsToRecordedEndpoint is the integration-level
// check for testable property I5: predict() evaluated at tau=dt from the
// step's own cached (x0,v0,a0,b) must reproduce the post-step state the
// integrator actually committed to the particle set.
func TestIntegratorStepRoundTripsToRecordedEndpoint(t *testing.T) {
	ephem := NewEphemeris(fakePlanetaryReader{}, nil)
	cfg := &Config{
		G: GravitationalConstant, C: SpeedOfLight,
		Epsilon: 1e-6, DT0: 0.05, DTMin: 1e-2,
	}
	force := NewForceModel(ephem, cfg)
	ig := NewIntegrator(force, cfg, nil)

	ps, err := NewParticleSet([]float64{1, 0, 0, 0, 0.017, 0}, nil, nil)
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}

	step, err := ig.Step(2451545.0, ps)
	if err != nil {
		t.Fatalf("Step returned error: %v", err)
	}

	x, v := predict(step.x0, step.v0, step.a0, step.b, step.dt)
	state := make([]float64, 6)
	interleave(x, v, state)

	got := ps.StateVector()
	for i := range got {
		if !floats.EqualWithinAbs(got[i], state[i], 1e-9) {
			t.Errorf("component %d: committed state %v, predict(dt) %v", i, got[i], state[i])
		}
	}
}

func TestIsBufferFull(t *testing.T) {
	if !isBufferFull(&ErrBufferFull{}) {
		t.Errorf("isBufferFull(ErrBufferFull) = false, want true")
	}
	if isBufferFull(&ErrNumericalFailure{}) {
		t.Errorf("isBufferFull(ErrNumericalFailure) = true, want false")
	}
}
