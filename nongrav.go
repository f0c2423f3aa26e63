package radauint

import "github.com/gonum/matrix/mat64"

// NonGravitational is force term C4 (spec.md §4.C): the standard Marsden
// comet model, radial/transverse/out-of-plane coefficients A1, A2, A3
// applied about the Sun. A1=A2=A3=0 (the Config default) makes Apply a
// no-op beyond the perturber lookup, "at no cost" per spec.md §4.C.
//
// The 3x6 Jacobian is assembled analytically from the cross-product
// identities d(a×b)/da = -[b]_x, d(a×b)/db = [a]_x and the unit-vector
// projector d(û)/dx = (I - ûûᵀ)/|u| · du/dx, the same style of chained
// analytic partial the teacher's estimate.go uses to build its two-body
// STM before composing it with the higher-order terms.
type NonGravitational struct{}

// Apply implements Term.
func (NonGravitational) Apply(ctx *AggregatorContext) error {
	cfg := ctx.Config
	if cfg.A1 == 0 && cfg.A2 == 0 && cfg.A3 == 0 {
		return nil
	}
	var sunPos []float64
	for _, p := range ctx.Perturbers {
		if p.Index == PerturberSun {
			sunPos = p.R
			break
		}
	}
	if sunPos == nil {
		return nil
	}
	ps := ctx.Particles
	for j := range ps.Real {
		d := Sub(ps.Real[j].Position(), sunPos)
		w := ps.Real[j].Velocity()
		acc, jacD, jacW := nonGravTerm(d, w, cfg.A1, cfg.A2, cfg.A3)
		ps.Real[j].AddAcceleration(acc)

		links := ctx.LinksByParent[j]
		if len(links) == 0 {
			continue
		}
		for _, link := range links {
			v := &ps.Var[link.Index]
			dav := MulVec3(jacD, v.DPosition())
			dav = Add(dav, MulVec3(jacW, v.DVelocity()))
			v.AddDAcceleration(dav)
		}
	}
	return nil
}

// nonGravTerm evaluates the Marsden acceleration and its position/velocity
// Jacobian blocks.
func nonGravTerm(d, w []float64, a1, a2, a3 float64) (acc []float64, jacD, jacW *mat64.Dense) {
	r := Norm(d)
	g := 1 / (r * r)
	dHat := Unit(d)

	h := Cross(d, w)
	tau := Cross(h, d)
	hHat := Unit(h)
	tauHat := Unit(tau)

	acc = Add(Add(Scale(a1*g, dHat), Scale(a2*g, tauHat)), Scale(a3*g, hHat))

	// dg/dd, as a row: -2/r^4 * d
	gGradD := Scale(-2/(r*r*r*r), d)

	// d(dHat)/dd = (I - dHat dHatᵀ)/r ; no velocity dependence.
	dHatJacD := unitJacobian(d, dHat)

	wCross := crossMatrix(w)
	dCross := crossMatrix(d)
	hCross := crossMatrix(h)

	// h = d x w: dh/dd = -[w]_x, dh/dw = [d]_x.
	negWCross := matScale(wCross, -1)

	// tau = h x d: dtau/dd(direct) = [h]_x, dtau/dh = -[d]_x, chained
	// through dh/dd gives dtau/dd = [h]_x + [d]_x[w]_x.
	tauJacD := matAdd(hCross, matMul(dCross, wCross))
	// dtau/dw = -[d]_x * dh/dw = -[d]_x[d]_x.
	tauJacW := matScale(matMul(dCross, dCross), -1)

	hHatJacD := matMul(unitJacobian(h, hHat), negWCross)
	hHatJacW := matMul(unitJacobian(h, hHat), dCross)

	tauHatJacD := unitJacobian(tau, tauHat)
	tauHatJacD = matMul(tauHatJacD, tauJacD)
	tauHatJacW := unitJacobian(tau, tauHat)
	tauHatJacW = matMul(tauHatJacW, tauJacW)

	term1D := matAdd(outer(dHat, gGradD), matScale(dHatJacD, g))
	term2D := matAdd(outer(tauHat, gGradD), matScale(tauHatJacD, g))
	term3D := matAdd(outer(hHat, gGradD), matScale(hHatJacD, g))
	jacD = matAdd(matAdd(matScale(term1D, a1), matScale(term2D, a2)), matScale(term3D, a3))

	term2W := matScale(tauHatJacW, g)
	term3W := matScale(hHatJacW, g)
	jacW = matAdd(matScale(term2W, a2), matScale(term3W, a3))

	return acc, jacD, jacW
}

// unitJacobian returns d(û)/dx = (I - ûûᵀ)/|u|.
func unitJacobian(u, uHat []float64) *mat64.Dense {
	n := Norm(u)
	id := DenseIdentity(3)
	proj := outer(uHat, uHat)
	j := matSub(id, proj)
	return matScale(j, 1/n)
}

// crossMatrix returns [v]_x such that [v]_x * x = v × x.
func crossMatrix(v []float64) *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{
		0, -v[2], v[1],
		v[2], 0, -v[0],
		-v[1], v[0], 0,
	})
}

func outer(a, b []float64) *mat64.Dense {
	vals := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			vals[3*i+j] = a[i] * b[j]
		}
	}
	return mat64.NewDense(3, 3, vals)
}

func matMul(a, b *mat64.Dense) *mat64.Dense {
	var out mat64.Dense
	out.Mul(a, b)
	return &out
}

func matAdd(a, b *mat64.Dense) *mat64.Dense {
	var out mat64.Dense
	out.Add(a, b)
	return &out
}

func matSub(a, b *mat64.Dense) *mat64.Dense {
	var out mat64.Dense
	out.Sub(a, b)
	return &out
}

func matScale(a *mat64.Dense, s float64) *mat64.Dense {
	var out mat64.Dense
	out.Scale(s, a)
	return &out
}
