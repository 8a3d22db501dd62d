package sparsemodel

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/yyyoichi/sparsemodel/internal/camera"
	"github.com/yyyoichi/sparsemodel/internal/colmap"
)

type (
	Camera       = colmap.Camera
	Image        = colmap.Image
	Observation  = colmap.Observation
	Point3D      = colmap.Point3D
	TrackElement = colmap.TrackElement
	DecodeError  = colmap.DecodeError
	CameraModel  = camera.Model
)

// NoPoint3D is the Point3DID of an observation without a 3D point.
const NoPoint3D = colmap.NoPoint3D

var (
	ErrDanglingReference = errors.New("dangling reference")
)

// CameraModels lists the known camera models ordered by id.
func CameraModels() []CameraModel {
	return camera.Models()
}

// LookupCameraModel resolves a camera model by the name stored in Camera.Model.
func LookupCameraModel(name string) (CameraModel, bool) {
	return camera.LookupName(name)
}

// Model holds the three decoded tables. It is read-only once loaded.
type Model struct {
	Cameras map[int32]Camera
	Images  map[int32]Image
	Points  map[uint64]Point3D
}

// Validate checks references between tables: every image's camera, every
// observation's 3D point and every track element's image and keypoint.
// All problems are reported together, each wrapping ErrDanglingReference.
func (m *Model) Validate() error {
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(m.Images)) {
		img := m.Images[id]
		if _, ok := m.Cameras[img.CameraID]; !ok {
			errs = append(errs, fmt.Errorf("%w: image %d: camera %d", ErrDanglingReference, id, img.CameraID))
		}
		for i, o := range img.Observations {
			if !o.Triangulated() {
				continue
			}
			if _, ok := m.Points[uint64(o.Point3DID)]; o.Point3DID < 0 || !ok {
				errs = append(errs, fmt.Errorf("%w: image %d observation %d: point3D %d", ErrDanglingReference, id, i, o.Point3DID))
			}
		}
	}
	for _, id := range slices.Sorted(maps.Keys(m.Points)) {
		for _, e := range m.Points[id].Track {
			if e.ImageID > math.MaxInt32 {
				errs = append(errs, fmt.Errorf("%w: point3D %d: image %d", ErrDanglingReference, id, e.ImageID))
				continue
			}
			img, ok := m.Images[int32(e.ImageID)]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: point3D %d: image %d", ErrDanglingReference, id, e.ImageID))
				continue
			}
			if e.Point2DIndex >= uint64(len(img.Observations)) {
				errs = append(errs, fmt.Errorf("%w: point3D %d: image %d keypoint %d", ErrDanglingReference, id, e.ImageID, e.Point2DIndex))
			}
		}
	}
	return errors.Join(errs...)
}

type Summary struct {
	Cameras int
	Images  int
	Points  int
	// CameraModels counts cameras per model name.
	CameraModels map[string]int

	Observations int
	// Triangulated counts observations linked to a 3D point.
	Triangulated             int
	MeanObservationsPerImage float64
	MeanTrackLength          float64

	MeanError   float64
	MedianError float64
	MaxError    float64

	// Bounds of the point positions; zero when there are no points.
	Min, Max r3.Vec
}

// TriangulatedRatio is the share of observations with a 3D point.
func (s Summary) TriangulatedRatio() float64 {
	if s.Observations == 0 {
		return 0
	}
	return float64(s.Triangulated) / float64(s.Observations)
}

func (m *Model) Summary() Summary {
	s := Summary{
		Cameras:      len(m.Cameras),
		Images:       len(m.Images),
		Points:       len(m.Points),
		CameraModels: make(map[string]int),
	}
	for _, cam := range m.Cameras {
		s.CameraModels[cam.Model]++
	}
	for _, img := range m.Images {
		s.Observations += len(img.Observations)
		s.Triangulated += img.NumTriangulated()
	}
	if s.Images > 0 {
		s.MeanObservationsPerImage = float64(s.Observations) / float64(s.Images)
	}
	if s.Points == 0 {
		return s
	}

	var (
		errs   = make([]float64, 0, s.Points)
		tracks = make([]float64, 0, s.Points)
		axes   [3][]float64
	)
	for _, p := range m.Points {
		errs = append(errs, p.Error)
		tracks = append(tracks, float64(len(p.Track)))
		for i := range axes {
			axes[i] = append(axes[i], p.XYZ[i])
		}
	}
	slices.Sort(errs)
	s.MeanError = stat.Mean(errs, nil)
	s.MedianError = stat.Quantile(0.5, stat.Empirical, errs, nil)
	s.MaxError = floats.Max(errs)
	s.MeanTrackLength = stat.Mean(tracks, nil)
	s.Min = r3.Vec{X: floats.Min(axes[0]), Y: floats.Min(axes[1]), Z: floats.Min(axes[2])}
	s.Max = r3.Vec{X: floats.Max(axes[0]), Y: floats.Max(axes[1]), Z: floats.Max(axes[2])}
	return s
}
