package radauint

import (
	"testing"

	"github.com/gonum/floats"
)

func TestNewParticleSetOrdering(t *testing.T) {
	instate := []float64{
		1, 2, 3, 4, 5, 6, // particle 0
		7, 8, 9, 10, 11, 12, // particle 1
	}
	invar := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	parents := []int{1}

	ps, err := NewParticleSet(instate, invar, parents)
	if err != nil {
		t.Fatalf("NewParticleSet returned error: %v", err)
	}
	if ps.N() != 3 {
		t.Fatalf("N() = %d, want 3 (2 real + 1 variational)", ps.N())
	}
	if len(ps.LinksFor(1)) != 1 {
		t.Errorf("LinksFor(1) = %v, want one link", ps.LinksFor(1))
	}
	if len(ps.LinksFor(0)) != 0 {
		t.Errorf("LinksFor(0) = %v, want no links", ps.LinksFor(0))
	}
}

func TestNewParticleSetRejectsMisalignedLengths(t *testing.T) {
	if _, err := NewParticleSet([]float64{1, 2, 3}, nil, nil); err == nil {
		t.Errorf("instate length not a multiple of 6: want error, got nil")
	}
	if _, err := NewParticleSet(nil, []float64{1, 2, 3}, []int{0}); err == nil {
		t.Errorf("invar length not a multiple of 6: want error, got nil")
	}
	if _, err := NewParticleSet(nil, make([]float64, 6), nil); err == nil {
		t.Errorf("invarParent length mismatch: want error, got nil")
	}
	if _, err := NewParticleSet(nil, make([]float64, 6), []int{5}); err == nil {
		t.Errorf("invarParent out of range: want error, got nil")
	}
}

func TestStateVectorRoundTrip(t *testing.T) {
	instate := []float64{1, 2, 3, 4, 5, 6}
	invar := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	ps, err := NewParticleSet(instate, invar, []int{0})
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}

	sv := ps.StateVector()
	ps2, err := NewParticleSet(make([]float64, 6), make([]float64, 6), []int{0})
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}
	ps2.LoadStateVector(sv)

	got := ps2.StateVector()
	for i := range sv {
		if !floats.EqualWithinAbs(got[i], sv[i], 1e-12) {
			t.Errorf("round trip component %d = %v, want %v", i, got[i], sv[i])
		}
	}
}

func TestAccelerationVectorOrdering(t *testing.T) {
	ps, err := NewParticleSet(make([]float64, 12), make([]float64, 6), []int{1})
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}
	ps.Real[0].SetAcceleration([]float64{1, 2, 3})
	ps.Real[1].SetAcceleration([]float64{4, 5, 6})
	ps.Var[0].SetDAcceleration([]float64{7, 8, 9})

	av := ps.AccelerationVector()
	want := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	for i := range want {
		if av[i] != want[i] {
			t.Errorf("AccelerationVector()[%d] = %v, want %v", i, av[i], want[i])
		}
	}
}

func TestZeroAccelerations(t *testing.T) {
	ps, err := NewParticleSet(make([]float64, 6), make([]float64, 6), []int{0})
	if err != nil {
		t.Fatalf("NewParticleSet: %v", err)
	}
	ps.Real[0].SetAcceleration([]float64{1, 2, 3})
	ps.Var[0].SetDAcceleration([]float64{4, 5, 6})
	ps.ZeroAccelerations()
	for _, c := range ps.AccelerationVector() {
		if c != 0 {
			t.Errorf("ZeroAccelerations left a nonzero component: %v", ps.AccelerationVector())
			break
		}
	}
}
