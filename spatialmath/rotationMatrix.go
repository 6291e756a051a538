package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/num/quat"
)

// A matrix is accepted as a rotation if RᵀR is within this of I elementwise and its determinant within this of +1.
const rotationMatrixTolerance = 1e-6

// RotationMatrix is a 3x3 matrix in row major order.
// m[3*r + c] is the element in the r'th row and c'th column.
type RotationMatrix struct {
	mat mgl64.Mat3
}

// NewRotationMatrix creates the rotation matrix from a slice of 9 row-major elements. The elements must form a
// right-handed orthonormal matrix.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, errors.Errorf("input slice has %d elements, need exactly 9", len(m))
	}
	rm := &RotationMatrix{mgl64.Mat3FromRows(
		mgl64.Vec3{m[0], m[1], m[2]},
		mgl64.Vec3{m[3], m[4], m[5]},
		mgl64.Vec3{m[6], m[7], m[8]},
	)}
	if orthErr := rm.OrthogonalityError(); orthErr > rotationMatrixTolerance {
		return nil, errors.Errorf("matrix is not orthonormal, RᵀR deviates from identity by %g", orthErr)
	}
	if det := rm.mat.Det(); math.Abs(det-1) > rotationMatrixTolerance {
		return nil, errors.Errorf("matrix is not a right-handed rotation, determinant is %g", det)
	}
	return rm, nil
}

// QuatToRotationMatrix converts a quat to a Rotation Matrix
// reference: https://github.com/go-gl/mathgl/blob/592312d8590acb0686c14740dcf60e2f32d9c618/mgl64/quat.go#L168
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	glq := mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}
	return &RotationMatrix{glq.Mat4().Mat3()}
}

// AxisAngles returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngles() *R4AA {
	return QuatToR4AA(rm.Quaternion())
}

// Quaternion returns orientation in quaternion representation.
func (rm *RotationMatrix) Quaternion() quat.Number {
	q := mgl64.Mat4ToQuat(rm.mat.Mat4())
	return quat.Number{Real: q.W, Imag: q.V[0], Jmag: q.V[1], Kmag: q.V[2]}
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

// At returns the element of the rotation matrix at the specified row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat.At(row, col)
}

// Row returns the a 3 element vector corresponding to the specified row.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	v := rm.mat.Row(row)
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// Mul returns the product R·v.
func (rm *RotationMatrix) Mul(v r3.Vector) r3.Vector {
	out := rm.mat.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return r3.Vector{X: out[0], Y: out[1], Z: out[2]}
}

// OrthogonalityError returns the largest absolute element of RᵀR - I. It is zero for an exact rotation.
func (rm *RotationMatrix) OrthogonalityError() float64 {
	deviation := rm.mat.Transpose().Mul3(rm.mat).Sub(mgl64.Ident3())
	return floats.Norm(deviation[:], math.Inf(1))
}
