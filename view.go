package sparsemodel

import (
	"fmt"
	"maps"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/yyyoichi/sparsemodel/internal/geometry"
)

type Frustum = geometry.Frustum

var ErrDegenerateRotation = geometry.ErrDegenerateRotation

// PointCloud is the point table flattened for rendering, ordered by point id.
type PointCloud struct {
	IDs       []uint64
	Positions [][3]float64
	// Colors are RGB in [0, 1].
	Colors [][3]float64
}

func (pc PointCloud) Len() int { return len(pc.IDs) }

func (m *Model) PointCloud() PointCloud {
	ids := slices.Sorted(maps.Keys(m.Points))
	pc := PointCloud{
		IDs:       ids,
		Positions: make([][3]float64, len(ids)),
		Colors:    make([][3]float64, len(ids)),
	}
	for i, id := range ids {
		p := m.Points[id]
		pc.Positions[i] = p.XYZ
		for c := range p.RGB {
			pc.Colors[i][c] = float64(p.RGB[c]) / 255
		}
	}
	return pc
}

// CameraPose is the pose of a registered image.
type CameraPose struct {
	ImageID int32
	Name    string
	// Rotation maps world to camera coordinates.
	Rotation *mat.Dense
	// Center is the camera position in world coordinates.
	Center r3.Vec
}

// CameraPoses returns one pose per image, ordered by image id.
func (m *Model) CameraPoses() ([]CameraPose, error) {
	ids := slices.Sorted(maps.Keys(m.Images))
	poses := make([]CameraPose, 0, len(ids))
	for _, id := range ids {
		img := m.Images[id]
		r, err := geometry.Rotation(img.Qvec)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", id, err)
		}
		poses = append(poses, CameraPose{
			ImageID:  id,
			Name:     img.Name,
			Rotation: r,
			Center:   geometry.Center(r, img.Tvec),
		})
	}
	return poses, nil
}

// Frustums returns a viewing pyramid of depth scale per image, ordered by
// image id.
func (m *Model) Frustums(scale float64) ([]Frustum, error) {
	poses, err := m.CameraPoses()
	if err != nil {
		return nil, err
	}
	out := make([]Frustum, len(poses))
	for i, p := range poses {
		out[i] = geometry.NewFrustum(p.Rotation, p.Center, scale)
	}
	return out, nil
}
