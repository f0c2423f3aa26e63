package radauint

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Perturber is a snapshot of one perturber's barycentric state at the
// current evaluation time, as returned by the Ephemeris façade. The
// aggregator gathers one of these per perturber per Radau node before
// invoking the force terms, so every term shares the same façade query
// (spec.md §4.D step 3 / §2 data-flow note: "D asks A for perturbers").
type Perturber struct {
	Index PerturberIndex
	GM    float64
	R, V, A []float64 // len 3, AU / AU/day / AU/day^2
}

// DirectGravity is force term C1 (spec.md §4.C): direct Newtonian
// point-mass gravity from every perturber, plus its 3x3 position Jacobian
// applied to each variational sibling. The teacher's estimate.go assembles
// exactly this shape of Jacobian (dAxDx, dAxDy, ...) for a single central
// body's two-body term; C1 generalises it to a sum over an arbitrary
// perturber list, perturbers outermost so the ephemeris query amortises
// across every particle (spec.md §4.C).
type DirectGravity struct{}

// Apply implements Term. Perturbers must already be in the fixed order
// spec.md §5 requires (perturber index 0..N_tot-1) for bit-identical
// summation across platforms; AggregatorContext.Perturbers guarantees this.
func (DirectGravity) Apply(ctx *AggregatorContext) error {
	ps := ctx.Particles
	for _, pert := range ctx.Perturbers {
		for j := range ps.Real {
			rj := ps.Real[j].Position()
			d := Sub(rj, pert.R)
			r2 := Dot(d, d)
			if r2 == 0 {
				continue
			}
			r := math.Sqrt(r2)
			invR3 := 1 / (r2 * r)
			ps.Real[j].AddAcceleration(Scale(-pert.GM*invR3, d))

			links := ctx.LinksByParent[j]
			if len(links) == 0 {
				continue
			}
			invR5 := invR3 / r2
			jac := gravityJacobian(d, invR3, invR5)
			for _, link := range links {
				v := &ps.Var[link.Index]
				dav := MulVec3(jac, v.DPosition())
				v.AddDAcceleration(Scale(pert.GM, dav))
			}
		}
	}
	return nil
}

// gravityJacobian builds J_ab = 3 d_a d_b / |d|^5 - delta_ab / |d|^3
// (spec.md §4.C, C1) — the same polynomial-of-separation pattern as the
// teacher's estimate.go two-body STM block, expressed for an arbitrary
// perturber's displacement d.
func gravityJacobian(d []float64, invR3, invR5 float64) *mat64.Dense {
	vals := make([]float64, 9)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			val := 3 * d[a] * d[b] * invR5
			if a == b {
				val -= invR3
			}
			vals[3*a+b] = val
		}
	}
	return mat64.NewDense(3, 3, vals)
}
