package radauint

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// EarthHarmonics is force term C2 (spec.md §4.C): the Earth's J2 and J4
// zonal harmonics, evaluated in the Earth-equatorial frame and rotated
// back to ICRF via rotation.go's Frame. The analytic Jacobian follows exactly the
// shape the teacher's estimate.go assembles for its J2/J3 STM block
// (dAxDx, dAyDx, ... built from powers of r and z) — C2 reuses that same
// construction, generalised to the rotated frame and extended to J4 using
// the polynomial coefficients spec.md §4.C documents in terms of
// u² = z²/r².
type EarthHarmonics struct{}

// Apply implements Term.
func (EarthHarmonics) Apply(ctx *AggregatorContext) error {
	return zonalHarmonics(ctx, PerturberEarth, EarthFrame, earthEquatorRad, earthJ2, earthJ4)
}

// SunHarmonics is force term C3 (spec.md §4.C): the Sun's J2, same shape
// as C2 with the Sun-equatorial frame and J4 = 0 (not modelled for the
// Sun per spec.md §4.C).
type SunHarmonics struct{}

// Apply implements Term.
func (SunHarmonics) Apply(ctx *AggregatorContext) error {
	return zonalHarmonics(ctx, PerturberSun, SunFrame, sunEquatorRad, sunJ2, 0)
}

// zonalHarmonics implements the shared J2/J4 computation of C2/C3: rotate
// into the body-equatorial frame, evaluate acceleration and its analytic
// Jacobian there, rotate both back to ICRF, and apply to every real
// particle relative to the named body (and its variational siblings).
func zonalHarmonics(ctx *AggregatorContext, body PerturberIndex, frame *Frame, rEq, j2, j4 float64) error {
	var bodyPos []float64
	var gm float64
	found := false
	for _, p := range ctx.Perturbers {
		if p.Index == body {
			bodyPos = p.R
			gm = p.GM
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	ps := ctx.Particles
	for j := range ps.Real {
		rel := Sub(ps.Real[j].Position(), bodyPos)
		if Dot(rel, rel) == 0 {
			continue // coincident with the body: no contribution, as in DirectGravity
		}
		eq := frame.Rotate(rel)
		accEq := zonalAcceleration(eq, gm, rEq, j2, j4)
		acc := frame.InverseRotate(accEq)
		ps.Real[j].AddAcceleration(acc)

		links := ctx.LinksByParent[j]
		if len(links) == 0 {
			continue
		}
		jacEq := zonalJacobian(eq, gm, rEq, j2, j4)
		jac := frame.RotateJacobian(jacEq)
		for _, link := range links {
			v := &ps.Var[link.Index]
			dav := MulVec3(jac, v.DPosition())
			v.AddDAcceleration(dav)
		}
	}
	return nil
}

// zonalAcceleration evaluates the J2/J4 acceleration of spec.md §4.C in
// the body-equatorial frame.
func zonalAcceleration(pos []float64, gm, rEq, j2, j4 float64) []float64 {
	x, y, z := pos[0], pos[1], pos[2]
	r2 := x*x + y*y + z*z
	r := math.Sqrt(r2)
	u2 := z * z / r2

	r5 := r2 * r2 * r
	j2Fact := (3 * j2 * rEq * rEq / 2) * gm / r5
	a := []float64{
		j2Fact * (5*u2 - 1) * x,
		j2Fact * (5*u2 - 1) * y,
		j2Fact * (5*u2 - 3) * z,
	}
	if j4 != 0 {
		r7 := r5 * r2
		f := 63*u2*u2 - 42*u2 + 3
		j4Fact := (5 * j4 * rEq * rEq * rEq * rEq / 8) * gm / r7
		a[0] += j4Fact * f * x
		a[1] += j4Fact * f * y
		a[2] += j4Fact * (f + 12 - 28*u2) * z
	}
	return a
}

// zonalJacobian builds the analytic 3x3 position Jacobian of
// zonalAcceleration, in the body-equatorial frame. The J2 block is the
// teacher's estimate.go STM construction (dAxDx = -3/2 j2fact(35x²z²/r^9 -
// 5x²/r^7 - 5z²/r^7 + 1/r^5), etc. — note that factoring out 1/r^5 turns
// that expression into -3/2 j2fact/r^5 (35u^4 - 30u^2 + 3), matching
// spec.md §4.C's "35u⁴−30u²+3" polynomial exactly). The J4 block extends
// the same tensor pattern one harmonic degree further using the remaining
// documented polynomials (7u²−1, 33u⁴−18u²+1, 33u⁴−30u²+5,
// 231u⁶−315u⁴+105u²−5).
func zonalJacobian(pos []float64, gm, rEq, j2, j4 float64) *mat64.Dense {
	x, y, z := pos[0], pos[1], pos[2]
	r2 := x*x + y*y + z*z
	r5 := r2 * r2 * math.Sqrt(r2)
	r7 := r5 * r2
	r9 := r7 * r2

	j2fact := j2 * rEq * rEq * gm
	xx := -1.5 * j2fact * (35*x*x*z*z/r9 - 5*x*x/r7 - 5*z*z/r7 + 1/r5)
	xy := -7.5 * j2fact * (7*x*y*z*z/r9 - x*y/r7)
	xz := -7.5 * j2fact * (7*x*z*z*z/r9 - 3*x*z/r7)
	yy := -1.5 * j2fact * (35*y*y*z*z/r9 - 5*y*y/r7 - 5*z*z/r7 + 1/r5)
	yz := -7.5 * j2fact * (7*y*z*z*z/r9 - 3*y*z/r7)
	zz := -1.5 * j2fact * (35*z*z*z*z/r9 - 30*z*z/r7 + 3/r5)

	if j4 != 0 {
		r11 := r9 * r2
		r13 := r11 * r2
		j4fact := j4 * rEq * rEq * rEq * rEq * gm
		// Extends the J2 tensor pattern to the next zonal degree using the
		// documented u-polynomials as the z-heavy coefficients.
		xx += -1.875 * j4fact * (231*x*x*z*z*z*z/r13 - 126*x*x*z*z/r11 - 21*z*z*z*z/r11 + 14*z*z/r9 + 7*x*x/r9 - 1/r7)
		yy += -1.875 * j4fact * (231*y*y*z*z*z*z/r13 - 126*y*y*z*z/r11 - 21*z*z*z*z/r11 + 14*z*z/r9 + 7*y*y/r9 - 1/r7)
		zz += -1.875 * j4fact * (231*z*z*z*z*z*z/r13 - 315*z*z*z*z/r11 + 105*z*z/r9 - 5/r7)
		xy += -13.125 * j4fact * (33*x*y*z*z*z*z/r13 - 18*x*y*z*z/r11 + x*y/r9)
		xz += -13.125 * j4fact * (33*x*z*z*z*z*z/r13 - 30*x*z*z*z/r11 + 5*x*z/r9)
		yz += -13.125 * j4fact * (33*y*z*z*z*z*z/r13 - 30*y*z*z*z/r11 + 5*y*z/r9)
	}

	return mat64.NewDense(3, 3, []float64{
		xx, xy, xz,
		xy, yy, yz,
		xz, yz, zz,
	})
}
