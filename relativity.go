package radauint

import "github.com/gonum/matrix/mat64"

// SolarRelativity is force term C5 (spec.md §4.C): the Damour-Deruelle
// one-body relativistic correction for a test particle orbiting the Sun.
// This is the default relativistic term; Config.UseEIH switches it out for
// EIHCorrection (resolving Open Question (i) of spec.md §9 as a runtime
// switch).
type SolarRelativity struct{}

// Apply implements Term.
func (SolarRelativity) Apply(ctx *AggregatorContext) error {
	var sun Perturber
	found := false
	for _, p := range ctx.Perturbers {
		if p.Index == PerturberSun {
			sun = p
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	mu := sun.GM
	c2 := ctx.Config.C * ctx.Config.C
	ps := ctx.Particles
	for j := range ps.Real {
		d := Sub(ps.Real[j].Position(), sun.R)
		w := ps.Real[j].Velocity()
		acc, jacD, jacV := damourDeruelle(d, w, mu, c2)
		ps.Real[j].AddAcceleration(acc)

		links := ctx.LinksByParent[j]
		if len(links) == 0 {
			continue
		}
		for _, link := range links {
			v := &ps.Var[link.Index]
			dav := MulVec3(jacD, v.DPosition())
			dav = Add(dav, MulVec3(jacV, v.DVelocity()))
			v.AddDAcceleration(dav)
		}
	}
	return nil
}

// damourDeruelle evaluates spec.md §4.C's C5 formula
// a = (mu/(r^3 c^2)) [ (4mu/r - v^2) d + 4(d.w) w ]
// and its analytic 3x6 Jacobian, built the same product-rule way as C4's
// Marsden term.
func damourDeruelle(d, w []float64, mu, c2 float64) (acc []float64, jacD, jacV *mat64.Dense) {
	r := Norm(d)
	r2 := r * r
	r3 := r2 * r
	v2 := Dot(w, w)
	dw := Dot(d, w)
	fact := mu / (r3 * c2)

	bracket := Add(Scale(4*mu/r-v2, d), Scale(4*dw, w))
	acc = Scale(fact, bracket)

	// d(fact)/dd = -3 mu/(r^4 c^2) * dHat ; d(fact)/dw = 0.
	dHat := Unit(d)
	factGradD := Scale(-3*mu/(r2*r2*c2), dHat)

	// d(bracket)/dd = (4mu/r - v^2) I + 4mu * d(1/r)/dd outer d + 4 w outer d(dw)/dd
	// d(1/r)/dd = -dHat/r^2 ; d(dw)/dd = w.
	id := DenseIdentity(3)
	coefTerm := matScale(id, 4*mu/r-v2)
	invRGrad := Scale(-1/r2, dHat)
	radialTerm := outer(Scale(4*mu, d), invRGrad)
	dwTermD := outer(Scale(4, w), w)
	bracketJacD := matAdd(matAdd(coefTerm, radialTerm), dwTermD)

	// d(bracket)/dw = -2 d outer w + 4 w outer d + 4 dw * I
	velCoefTerm := matScale(id, 4*dw)
	v2GradW := Scale(-2, w) // d(-v^2)/dw
	v2Term := outer(d, v2GradW)
	dwTermW := outer(Scale(4, w), d)
	bracketJacV := matAdd(matAdd(velCoefTerm, v2Term), dwTermW)

	jacD = matAdd(matScale(bracketJacD, fact), outer(bracket, factGradD))
	jacV = matScale(bracketJacV, fact)
	return acc, jacD, jacV
}

// EIHCorrection is force term C6 (spec.md §4.C): the Einstein-Infeld-
// Hoffmann 1PN N-body correction, gamma=beta=1, activated here only for
// the Sun (perturber 0) to match the present design's single-j subset,
// but written as a loop over perturbers so extending it to the full
// planetary set is a one-line change (spec.md §4.C: "keeps the loop form
// to permit full expansion").
type EIHCorrection struct{}

// Apply implements Term.
func (EIHCorrection) Apply(ctx *AggregatorContext) error {
	const gamma, beta = 1.0, 1.0
	c2 := ctx.Config.C * ctx.Config.C
	ps := ctx.Particles
	for _, pert := range ctx.Perturbers {
		if pert.Index != PerturberSun {
			continue
		}
		for j := range ps.Real {
			d := Sub(ps.Real[j].Position(), pert.R)
			w := Sub(ps.Real[j].Velocity(), pert.V)
			r := Norm(d)
			r2 := r * r
			r3 := r2 * r
			v2 := Dot(w, w)
			dw := Dot(d, w)
			mu := pert.GM

			ppnFactor := (1 + gamma + beta) - gamma*v2/c2
			scalarTerm := mu / (r3 * c2) * (ppnFactor*4*mu/r + (1+gamma)*v2)
			radialAcc := Scale(scalarTerm, d)
			velAcc := Scale((4+4*gamma)*mu*dw/(r3*c2), w)

			acc := Add(radialAcc, velAcc)
			accelCoupling := Scale((1+gamma)*mu/(r*c2), pert.A)
			acc = Add(acc, accelCoupling)

			ps.Real[j].AddAcceleration(acc)

			links := ctx.LinksByParent[j]
			if len(links) == 0 {
				continue
			}
			jacD, jacV := eihJacobian(d, w, mu, c2, gamma, beta)
			// accelCoupling's 1/r coefficient adds -(1+gamma) mu/(r^2 c^2) A outer dHat.
			jacD = matAdd(jacD, outer(pert.A, Scale(-(1+gamma)*mu/(r2*c2), Unit(d))))
			for _, link := range links {
				v := &ps.Var[link.Index]
				dav := MulVec3(jacD, v.DPosition())
				dav = Add(dav, MulVec3(jacV, v.DVelocity()))
				v.AddDAcceleration(dav)
			}
		}
	}
	return nil
}

// eihJacobian is the analytic Jacobian of EIHCorrection's scalar-times-d /
// scalar-times-w structure (the pert.A coupling term is added by the
// caller), reusing the same Damour-
// Deruelle assembly pattern (spec.md §4.C: "sums point-mass-like
// contributions" of that shape for each perturber).
func eihJacobian(d, w []float64, mu, c2, gamma, beta float64) (jacD, jacV *mat64.Dense) {
	r := Norm(d)
	dHat := Unit(d)
	v2 := Dot(w, w)
	ppnFactor := (1 + gamma + beta) - gamma*v2/c2

	scalarTerm := mu / (r*r*r*c2) * (ppnFactor*4*mu/r + (1+gamma)*v2)
	// d(scalarTerm)/dr = -3*scalarTerm/r - 4*mu^2*ppnFactor/(c^2*r^5); a
	// single power of c2, not c2^2 (scalarTerm already carries one c2).
	scalarGradD := Scale(-4*mu*mu*ppnFactor/(r*r*r*r*r*c2)-3*scalarTerm/r, dHat)
	// velAcc = velCoef * (d.w) * w ; velCoef is independent of w and
	// falls off as 1/r^3.
	velCoef := (4 + 4*gamma) * mu / (r * r * r * c2)
	dw := Dot(d, w)
	velGradD := Add(Scale(velCoef, w), Scale(-3*velCoef*dw/r, dHat))
	jacD = matAdd(matAdd(matScale(DenseIdentity(3), scalarTerm), outer(d, scalarGradD)), outer(w, velGradD))

	// scalarTerm also depends on w through v^2, directly and via ppnFactor.
	dScalarDv2 := mu / (r * r * r * c2) * ((1 + gamma) - gamma*4*mu/(r*c2))
	jacV = matAdd(outer(w, Scale(velCoef, d)), matScale(DenseIdentity(3), velCoef*dw))
	jacV = matAdd(jacV, outer(d, Scale(2*dScalarDv2, w)))
	return jacD, jacV
}
