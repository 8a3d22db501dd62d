package geometry

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Edges index into Frustum.Vertices: four from the center to the far corners,
// four around the far rectangle.
var Edges = [8][2]int{
	{0, 1}, {0, 2}, {0, 3}, {0, 4},
	{1, 2}, {2, 3}, {3, 4}, {4, 1},
}

// Frustum is a pyramid drawn from a camera center along its viewing axis.
type Frustum struct {
	Vertices [5]r3.Vec
}

// NewFrustum builds a frustum of depth scale for the camera with the given
// world-to-camera rotation and center.
func NewFrustum(rotation mat.Matrix, center r3.Vec, scale float64) Frustum {
	var (
		forward = r3.Scale(scale, CameraToWorld(rotation, r3.Vec{Z: 1}))
		right   = r3.Scale(scale/2, CameraToWorld(rotation, r3.Vec{X: 1}))
		// image y points down
		up = r3.Scale(scale/2, CameraToWorld(rotation, r3.Vec{Y: -1}))
	)
	far := r3.Add(center, forward)
	return Frustum{Vertices: [5]r3.Vec{
		center,
		r3.Add(r3.Add(far, right), up),
		r3.Add(r3.Sub(far, right), up),
		r3.Sub(r3.Sub(far, right), up),
		r3.Sub(r3.Add(far, right), up),
	}}
}

// Lines returns the frustum edges as vertex pairs.
func (f Frustum) Lines() [8][2]r3.Vec {
	var out [8][2]r3.Vec
	for i, e := range Edges {
		out[i] = [2]r3.Vec{f.Vertices[e[0]], f.Vertices[e[1]]}
	}
	return out
}
