package spatialmath

import (
	"gonum.org/v1/gonum/num/quat"
)

// Quaternion is an orientation in quaternion representation.
type Quaternion quat.Number

// NewQuaternion returns the unit quaternion (w, x, y, z) as an Orientation. A zero quaternion is the identity.
func NewQuaternion(w, x, y, z float64) Orientation {
	q := quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	if n := quat.Abs(q); n == 0 {
		q = quat.Number{Real: 1}
	} else if n != 1 {
		q = quat.Scale(1/n, q)
	}
	rot := Quaternion(q)
	return &rot
}

// Quaternion returns orientation in quaternion representation.
func (q *Quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

// AxisAngles returns the orientation in axis angle representation.
func (q *Quaternion) AxisAngles() *R4AA {
	return QuatToR4AA(q.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (q *Quaternion) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(q.Quaternion())
}
