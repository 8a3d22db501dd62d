package geometry

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrDegenerateRotation = errors.New("quaternion has zero norm")
)

// Rotation converts a w, x, y, z quaternion into a 3x3 rotation matrix.
// The quaternion is normalized first.
func Rotation(qvec [4]float64) (*mat.Dense, error) {
	q := quat.Number{Real: qvec[0], Imag: qvec[1], Jmag: qvec[2], Kmag: qvec[3]}
	norm := quat.Abs(q)
	if norm == 0 {
		return nil, ErrDegenerateRotation
	}
	q = quat.Scale(1/norm, q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*y*y - 2*z*z, 2*x*y - 2*w*z, 2*z*x + 2*w*y,
		2*x*y + 2*w*z, 1 - 2*x*x - 2*z*z, 2*y*z - 2*w*x,
		2*z*x - 2*w*y, 2*y*z + 2*w*x, 1 - 2*x*x - 2*y*y,
	}), nil
}

// Center returns the camera position in world coordinates, -R^T t, for a
// world-to-camera rotation R and translation t.
func Center(rotation mat.Matrix, tvec [3]float64) r3.Vec {
	var c mat.VecDense
	c.MulVec(rotation.T(), mat.NewVecDense(3, tvec[:]))
	c.ScaleVec(-1, &c)
	return r3.Vec{X: c.AtVec(0), Y: c.AtVec(1), Z: c.AtVec(2)}
}

// CameraToWorld maps a direction in camera coordinates to world coordinates.
func CameraToWorld(rotation mat.Matrix, dir r3.Vec) r3.Vec {
	var v mat.VecDense
	v.MulVec(rotation.T(), mat.NewVecDense(3, []float64{dir.X, dir.Y, dir.Z}))
	return r3.Vec{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2)}
}
