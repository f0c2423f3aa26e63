package radauint

// Particle holds the Cartesian state of a massless test particle in AU,
// AU/day, AU/day^2 (spec.md §3).
type Particle struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	AX, AY, AZ float64 // scratch, overwritten every force evaluation
}

// Position returns the particle's position as a 3-vector.
func (p *Particle) Position() []float64 { return []float64{p.X, p.Y, p.Z} }

// Velocity returns the particle's velocity as a 3-vector.
func (p *Particle) Velocity() []float64 { return []float64{p.VX, p.VY, p.VZ} }

// Acceleration returns the particle's current scratch acceleration.
func (p *Particle) Acceleration() []float64 { return []float64{p.AX, p.AY, p.AZ} }

// SetAcceleration overwrites the scratch acceleration.
func (p *Particle) SetAcceleration(a []float64) { p.AX, p.AY, p.AZ = a[0], a[1], a[2] }

// AddAcceleration accumulates into the scratch acceleration.
func (p *Particle) AddAcceleration(a []float64) { p.AX += a[0]; p.AY += a[1]; p.AZ += a[2] }

// Variational holds a first-order variational partner's differential state
// (δx...δvz) plus its own scratch differential acceleration (spec.md §3).
// Shape-identical to Particle; kept as a distinct type so the aggregator
// cannot accidentally treat a variational partner as a real particle.
type Variational struct {
	DX, DY, DZ    float64
	DVX, DVY, DVZ float64
	DAX, DAY, DAZ float64
}

// DPosition returns the variational position differential.
func (v *Variational) DPosition() []float64 { return []float64{v.DX, v.DY, v.DZ} }

// DVelocity returns the variational velocity differential.
func (v *Variational) DVelocity() []float64 { return []float64{v.DVX, v.DVY, v.DVZ} }

// SetDAcceleration overwrites the scratch differential acceleration.
func (v *Variational) SetDAcceleration(a []float64) { v.DAX, v.DAY, v.DAZ = a[0], a[1], a[2] }

// AddDAcceleration accumulates into the scratch differential acceleration.
func (v *Variational) AddDAcceleration(a []float64) { v.DAX += a[0]; v.DAY += a[1]; v.DAZ += a[2] }

// VariationalLink binds a variational partner to its parent real particle
// by index, per the Design Note in spec.md §9 (replacing the source's
// "shared particle array + parallel index vector" idiom with a typed link).
type VariationalLink struct {
	Parent int // index into the real-particle slice
	Index  int // index of this partner within the variational slice
}

// ParticleSet holds the invariant-ordered particle array described in
// spec.md §3: reals first, then variational partners, each bound to
// exactly one parent by a VariationalLink. Variational indices (counted
// within the whole state vector, i.e. offset by len(Real)) must strictly
// exceed their parent's index (invariant i).
type ParticleSet struct {
	Real  []Particle
	Var   []Variational
	Links []VariationalLink
}

// NewParticleSet builds a ParticleSet from flat instate/invar vectors and a
// parent-index vector, mirroring the external ABI of spec.md §6
// (instate []f64, invar []f64, invarParent []uint).
func NewParticleSet(instate []float64, invar []float64, invarParent []int) (*ParticleSet, error) {
	if len(instate)%6 != 0 {
		return nil, &ErrInvalidConfiguration{Reason: "instate length must be a multiple of 6"}
	}
	if len(invar)%6 != 0 {
		return nil, &ErrInvalidConfiguration{Reason: "invar length must be a multiple of 6"}
	}
	nReal := len(instate) / 6
	nVar := len(invar) / 6
	if len(invarParent) != nVar {
		return nil, &ErrInvalidConfiguration{Reason: "invarParent length must match number of variational particles"}
	}
	ps := &ParticleSet{
		Real:  make([]Particle, nReal),
		Var:   make([]Variational, nVar),
		Links: make([]VariationalLink, nVar),
	}
	for i := 0; i < nReal; i++ {
		ps.Real[i] = Particle{
			X: instate[6*i], Y: instate[6*i+1], Z: instate[6*i+2],
			VX: instate[6*i+3], VY: instate[6*i+4], VZ: instate[6*i+5],
		}
	}
	for i := 0; i < nVar; i++ {
		if invarParent[i] >= nReal {
			return nil, &ErrInvalidConfiguration{Reason: "variational parent index out of range"}
		}
		ps.Var[i] = Variational{
			DX: invar[6*i], DY: invar[6*i+1], DZ: invar[6*i+2],
			DVX: invar[6*i+3], DVY: invar[6*i+4], DVZ: invar[6*i+5],
		}
		ps.Links[i] = VariationalLink{Parent: invarParent[i], Index: i}
	}
	return ps, nil
}

// LinksFor returns every VariationalLink whose parent is the given real
// particle index, in declaration order (summation discipline, spec.md §5).
func (ps *ParticleSet) LinksFor(parent int) []VariationalLink {
	var out []VariationalLink
	for _, l := range ps.Links {
		if l.Parent == parent {
			out = append(out, l)
		}
	}
	return out
}

// N returns the total particle count (reals + variational), i.e. the
// ordering width used by the dense-output state vector (6*N columns).
func (ps *ParticleSet) N() int { return len(ps.Real) + len(ps.Var) }

// ZeroAccelerations clears every real and variational scratch acceleration
// before a force evaluation (spec.md §4.D step 2).
func (ps *ParticleSet) ZeroAccelerations() {
	for i := range ps.Real {
		ps.Real[i].AX, ps.Real[i].AY, ps.Real[i].AZ = 0, 0, 0
	}
	for i := range ps.Var {
		ps.Var[i].DAX, ps.Var[i].DAY, ps.Var[i].DAZ = 0, 0, 0
	}
}

// StateVector packs the full particle array (reals then variational) into
// a flat 6*N row-major slice, matching the output-buffer layout of spec.md
// §3.
func (ps *ParticleSet) StateVector() []float64 {
	out := make([]float64, 6*ps.N())
	idx := 0
	for _, p := range ps.Real {
		out[idx], out[idx+1], out[idx+2] = p.X, p.Y, p.Z
		out[idx+3], out[idx+4], out[idx+5] = p.VX, p.VY, p.VZ
		idx += 6
	}
	for _, v := range ps.Var {
		out[idx], out[idx+1], out[idx+2] = v.DX, v.DY, v.DZ
		out[idx+3], out[idx+4], out[idx+5] = v.DVX, v.DVY, v.DVZ
		idx += 6
	}
	return out
}

// AccelerationVector packs the current scratch accelerations (reals then
// variational differentials) into a flat 3*N row-major slice, matching the
// b-coefficient vector layout of spec.md §3 ("each of length 3*N").
func (ps *ParticleSet) AccelerationVector() []float64 {
	out := make([]float64, 3*ps.N())
	idx := 0
	for _, p := range ps.Real {
		out[idx], out[idx+1], out[idx+2] = p.AX, p.AY, p.AZ
		idx += 3
	}
	for _, v := range ps.Var {
		out[idx], out[idx+1], out[idx+2] = v.DAX, v.DAY, v.DAZ
		idx += 3
	}
	return out
}

// LoadStateVector overwrites positions/velocities (not accelerations) from
// a flat 6*N row-major slice, the inverse of StateVector.
func (ps *ParticleSet) LoadStateVector(s []float64) {
	idx := 0
	for i := range ps.Real {
		ps.Real[i].X, ps.Real[i].Y, ps.Real[i].Z = s[idx], s[idx+1], s[idx+2]
		ps.Real[i].VX, ps.Real[i].VY, ps.Real[i].VZ = s[idx+3], s[idx+4], s[idx+5]
		idx += 6
	}
	for i := range ps.Var {
		ps.Var[i].DX, ps.Var[i].DY, ps.Var[i].DZ = s[idx], s[idx+1], s[idx+2]
		ps.Var[i].DVX, ps.Var[i].DVY, ps.Var[i].DVZ = s[idx+3], s[idx+4], s[idx+5]
		idx += 6
	}
}
