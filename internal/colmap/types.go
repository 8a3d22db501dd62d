package colmap

// NoPoint3D marks an observation that was not triangulated.
const NoPoint3D int64 = -1

type Camera struct {
	ID     int32
	Model  string
	Width  uint64
	Height uint64
	Params []float64
}

type Image struct {
	ID int32
	// Qvec is the world-to-camera rotation as w, x, y, z.
	Qvec [4]float64
	// Tvec is the world-to-camera translation.
	Tvec         [3]float64
	CameraID     int32
	Name         string
	Observations []Observation
}

// Observation is a keypoint in an image and the 3D point it belongs to, if any.
type Observation struct {
	X, Y      float64
	Point3DID int64
}

func (o Observation) Triangulated() bool { return o.Point3DID != NoPoint3D }

type Point3D struct {
	ID    uint64
	XYZ   [3]float64
	RGB   [3]uint8
	Error float64
	Track []TrackElement
}

// TrackElement references the observation a point was triangulated from.
type TrackElement struct {
	ImageID      uint64
	Point2DIndex uint64
}
