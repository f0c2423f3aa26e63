package radauint

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Norm returns the Euclidean norm of a 3-vector.
func Norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Unit returns the unit vector of a, or the zero vector if a is ~0.
func Unit(a []float64) []float64 {
	n := Norm(a)
	if n < 1e-12 {
		return []float64{0, 0, 0}
	}
	return []float64{a[0] / n, a[1] / n, a[2] / n}
}

// Dot performs the inner product of two 3-vectors.
func Dot(a, b []float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross performs the cross product a x b.
func Cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Sub returns a-b for two 3-vectors.
func Sub(a, b []float64) []float64 {
	return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Add returns a+b for two 3-vectors.
func Add(a, b []float64) []float64 {
	return []float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Scale returns s*a for a 3-vector.
func Scale(s float64, a []float64) []float64 {
	return []float64{s * a[0], s * a[1], s * a[2]}
}

// DenseIdentity returns an n x n identity matrix. Replaces the teacher's
// dependency on gokalman.DenseIdentity (see DESIGN.md): the teacher's own
// math.go already implements this, so no separate import is warranted.
func DenseIdentity(n int) *mat64.Dense {
	return ScaledDenseIdentity(n, 1)
}

// ScaledDenseIdentity returns s times the n x n identity matrix.
func ScaledDenseIdentity(n int, s float64) *mat64.Dense {
	vals := make([]float64, n*n)
	for j := 0; j < n*n; j++ {
		if j%(n+1) == 0 {
			vals[j] = s
		}
	}
	return mat64.NewDense(n, n, vals)
}

// Mat3 builds a 3x3 gonum Dense from nine row-major entries.
func Mat3(m00, m01, m02, m10, m11, m12, m20, m21, m22 float64) *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{m00, m01, m02, m10, m11, m12, m20, m21, m22})
}

// MulVec3 multiplies a 3x3 matrix by a 3-vector, returning a plain slice.
func MulVec3(m *mat64.Dense, v []float64) []float64 {
	var r mat64.Vector
	r.MulVec(m, mat64.NewVector(3, v))
	return []float64{r.At(0, 0), r.At(1, 0), r.At(2, 0)}
}
