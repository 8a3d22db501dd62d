// Package testutil builds synthetic model streams for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

type CameraRecord struct {
	ID      int32
	ModelID int32
	Width   uint64
	Height  uint64
	Params  []float64
}

type ObservationRecord struct {
	X, Y      float64
	Point3DID int64
}

type ImageRecord struct {
	ID           int32
	Qvec         [4]float64
	Tvec         [3]float64
	CameraID     int32
	Name         []byte
	Observations []ObservationRecord
}

type TrackRecord struct {
	ImageID      uint64
	Point2DIndex uint64
}

type PointRecord struct {
	ID    uint64
	XYZ   [3]float64
	RGB   [3]uint8
	Error float64
	Track []TrackRecord
}

type stream struct {
	buf bytes.Buffer
}

func (s *stream) put(v any) {
	// bytes.Buffer writes never fail
	_ = binary.Write(&s.buf, binary.LittleEndian, v)
}

func Cameras(records ...CameraRecord) []byte {
	var s stream
	s.put(uint64(len(records)))
	for _, r := range records {
		s.put(r.ID)
		s.put(r.ModelID)
		s.put(r.Width)
		s.put(r.Height)
		s.put(r.Params)
	}
	return s.buf.Bytes()
}

func Images(records ...ImageRecord) []byte {
	var s stream
	s.put(uint64(len(records)))
	for _, r := range records {
		s.put(r.ID)
		s.put(r.Qvec)
		s.put(r.Tvec)
		s.put(r.CameraID)
		s.put(uint64(len(r.Name)))
		s.buf.Write(r.Name)
		s.put(uint64(len(r.Observations)))
		for _, o := range r.Observations {
			s.put(o.X)
			s.put(o.Y)
			s.put(o.Point3DID)
		}
	}
	return s.buf.Bytes()
}

func Points(records ...PointRecord) []byte {
	var s stream
	s.put(uint64(len(records)))
	for _, r := range records {
		s.put(r.ID)
		s.put(r.XYZ)
		s.put(r.RGB)
		s.put(r.Error)
		s.put(uint64(len(r.Track)))
		for _, e := range r.Track {
			s.put(e.ImageID)
			s.put(e.Point2DIndex)
		}
	}
	return s.buf.Bytes()
}

// WriteFile writes data under dir and returns the full path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Model is a small consistent reconstruction: two cameras, two images and
// three points observed by both images.
type Model struct {
	Cameras []CameraRecord
	Images  []ImageRecord
	Points  []PointRecord
}

func SampleModel() Model {
	return Model{
		Cameras: []CameraRecord{
			{ID: 1, ModelID: 0, Width: 640, Height: 480, Params: []float64{500, 320, 240}},
			{ID: 2, ModelID: 1, Width: 1920, Height: 1080, Params: []float64{1000, 1001, 960, 540}},
		},
		Images: []ImageRecord{
			{
				ID: 1, Qvec: [4]float64{1, 0, 0, 0}, Tvec: [3]float64{0, 0, 0}, CameraID: 1,
				Name: []byte("frame_0001.jpg"),
				Observations: []ObservationRecord{
					{10, 20, 100}, {11, 21, -1}, {12, 22, 101}, {13, 23, 102},
				},
			},
			{
				// 180 degrees about z, camera center at (1, 2, 0)
				ID: 2, Qvec: [4]float64{0, 0, 0, 1}, Tvec: [3]float64{1, 2, 0}, CameraID: 2,
				Name: []byte("frame_0002.jpg"),
				Observations: []ObservationRecord{
					{30, 40, 100}, {31, 41, 101}, {32, 42, 102},
				},
			},
		},
		Points: []PointRecord{
			{ID: 100, XYZ: [3]float64{0, 0, 5}, RGB: [3]uint8{255, 0, 0}, Error: 0.5,
				Track: []TrackRecord{{1, 0}, {2, 0}}},
			{ID: 101, XYZ: [3]float64{1, 1, 6}, RGB: [3]uint8{0, 255, 0}, Error: 1.0,
				Track: []TrackRecord{{1, 2}, {2, 1}}},
			{ID: 102, XYZ: [3]float64{-1, 2, 7}, RGB: [3]uint8{0, 0, 255}, Error: 1.5,
				Track: []TrackRecord{{1, 3}, {2, 2}}},
		},
	}
}

// WriteDir writes the model as cameras.bin, images.bin and points3D.bin under dir.
func (m Model) WriteDir(t testing.TB, dir string) {
	t.Helper()
	WriteFile(t, dir, "cameras.bin", Cameras(m.Cameras...))
	WriteFile(t, dir, "images.bin", Images(m.Images...))
	WriteFile(t, dir, "points3D.bin", Points(m.Points...))
}
