package radauint

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// R1 is an elementary rotation about the 1st axis, kept from the teacher's
// rotation.go for consistency with single-axis rotations used elsewhere.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 is an elementary rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a 3x3 matrix with a 3-vector. No dimension check.
func MxV33(m *mat64.Dense, v []float64) []float64 {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// Frame rotates ICRF vectors into a body-equatorial frame given the pole's
// right ascension alpha and declination delta (spec.md §4.B). It is built
// from the same z-then-x elementary rotation the teacher assembles by hand
// in R3R1R3, but precomputes the single combined matrix once (Design Note,
// spec.md §9) instead of recomputing trigonometry on every call.
type Frame struct {
	Name string
	r    *mat64.Dense // ICRF -> body-equatorial
	rInv *mat64.Dense // body-equatorial -> ICRF
}

// NewFrame builds the rotation carrying ICRF vectors into the body-fixed
// equatorial frame whose pole has right ascension alphaDeg and declination
// deltaDeg, both in degrees (spec.md §4.B):
//
//	R = [ -sinα,            cosα,           0
//	      -cosα·sinδ,  -sinα·sinδ,      cosδ
//	       cosα·cosδ,   sinα·cosδ,      sinδ ]
func NewFrame(name string, alphaDeg, deltaDeg float64) *Frame {
	alpha := alphaDeg * math.Pi / 180
	delta := deltaDeg * math.Pi / 180
	sA, cA := math.Sincos(alpha)
	sD, cD := math.Sincos(delta)
	r := mat64.NewDense(3, 3, []float64{
		-sA, cA, 0,
		-cA * sD, -sA * sD, cD,
		cA * cD, sA * cD, sD,
	})
	var rInv mat64.Dense
	rInv.Clone(r.T())
	return &Frame{Name: name, r: r, rInv: &rInv}
}

// EarthFrame is the Earth-equatorial frame, pole frozen at J2000 per
// spec.md §4.B (sub-arcsecond drift not modelled — Open Question ii in
// spec.md §9, resolved as out of the core's contract).
var EarthFrame = NewFrame("Earth", earthPoleRA, earthPoleDec)

// SunFrame is the Sun-equatorial frame.
var SunFrame = NewFrame("Sun", sunPoleRA, sunPoleDec)

// Rotate carries an ICRF vector into the body-equatorial frame.
func (f *Frame) Rotate(v []float64) []float64 { return MxV33(f.r, v) }

// InverseRotate carries a body-equatorial vector back into ICRF.
func (f *Frame) InverseRotate(v []float64) []float64 { return MxV33(f.rInv, v) }

// RotateJacobian performs R^T J R on a 3x3 Jacobian block expressed in the
// body-equatorial frame, returning the equivalent block in ICRF (spec.md
// §4.B). A 3x6 position+velocity block is handled by rotating the position
// and velocity halves identically: under a time-fixed frame change the
// velocity columns transform exactly like the position columns, so no
// additional identity extension is required.
func (f *Frame) RotateJacobian(j *mat64.Dense) *mat64.Dense {
	rows, cols := j.Dims()
	switch cols {
	case 3:
		var tmp, out mat64.Dense
		tmp.Mul(f.rInv, j)
		out.Mul(&tmp, f.r)
		return &out
	case 6:
		posBlock := blockCols(j, rows, 0, 3)
		velBlock := blockCols(j, rows, 3, 6)
		var tmp, posOut, velOut mat64.Dense
		tmp.Mul(f.rInv, posBlock)
		posOut.Mul(&tmp, f.r)
		tmp.Mul(f.rInv, velBlock)
		velOut.Mul(&tmp, f.r)
		out := mat64.NewDense(rows, 6, nil)
		for i := 0; i < rows; i++ {
			for k := 0; k < 3; k++ {
				out.Set(i, k, posOut.At(i, k))
				out.Set(i, k+3, velOut.At(i, k))
			}
		}
		return out
	default:
		panic("radauint: RotateJacobian only supports 3x3 or Nx6 blocks")
	}
}

// blockCols extracts columns [lo,hi) of an r-row Dense into a fresh Dense,
// avoiding a dependency on any view/slice API that may differ across gonum
// matrix package vintages.
func blockCols(j *mat64.Dense, rows, lo, hi int) *mat64.Dense {
	out := mat64.NewDense(rows, hi-lo, nil)
	for i := 0; i < rows; i++ {
		for k := lo; k < hi; k++ {
			out.Set(i, k-lo, j.At(i, k))
		}
	}
	return out
}
