package colmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/sparsemodel/internal/binio"
	"github.com/yyyoichi/sparsemodel/internal/camera"
	"github.com/yyyoichi/sparsemodel/internal/testutil"
)

func TestDecodeCameras(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		c := binio.NewBytesCursor(testutil.Cameras())
		cams, err := DecodeCameras(c)
		require.NoError(t, err)
		assert.Empty(t, cams)
		assert.True(t, c.EOF())
	})

	t.Run("simple pinhole consumes 48 bytes", func(t *testing.T) {
		data := testutil.Cameras(testutil.CameraRecord{
			ID: 7, ModelID: 0, Width: 640, Height: 480, Params: []float64{500, 320, 240},
		})
		c := binio.NewBytesCursor(data)
		cams, err := DecodeCameras(c)
		require.NoError(t, err)
		assert.Equal(t, int64(8+48), c.Offset())
		assert.True(t, c.EOF())
		require.Contains(t, cams, int32(7))
		assert.Equal(t, Camera{
			ID: 7, Model: "SIMPLE_PINHOLE", Width: 640, Height: 480,
			Params: []float64{500, 320, 240},
		}, cams[7])
	})

	t.Run("every model consumes 24 + 8*num_params", func(t *testing.T) {
		for _, m := range camera.Models() {
			t.Run(m.Name, func(t *testing.T) {
				params := make([]float64, m.NumParams)
				for i := range params {
					params[i] = float64(i) + 0.5
				}
				data := testutil.Cameras(
					testutil.CameraRecord{ID: 1, ModelID: m.ID, Width: 10, Height: 20, Params: params},
					testutil.CameraRecord{ID: 2, ModelID: 0, Width: 1, Height: 1, Params: []float64{1, 2, 3}},
				)
				c := binio.NewBytesCursor(data)
				cams, err := DecodeCameras(c)
				require.NoError(t, err)
				assert.Len(t, cams, 2)
				assert.Equal(t, params, cams[1].Params)
				assert.Equal(t, m.Name, cams[1].Model)
				assert.Equal(t, "SIMPLE_PINHOLE", cams[2].Model)
				assert.Equal(t, int64(8+24+8*m.NumParams+48), c.Offset())
			})
		}
	})

	t.Run("unknown model fails before params", func(t *testing.T) {
		// header only: a params read would report truncation instead
		data := testutil.Cameras(testutil.CameraRecord{ID: 1, ModelID: 999, Width: 1, Height: 1})
		c := binio.NewBytesCursor(data)
		_, err := DecodeCameras(c)
		assert.ErrorIs(t, err, camera.ErrUnknownModel)
		assert.NotErrorIs(t, err, binio.ErrTruncatedInput)

		var de *DecodeError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, TableCameras, de.Table)
		assert.Equal(t, 0, de.Record)
		assert.Equal(t, int64(8+24), de.Offset)
	})

	t.Run("duplicate ids keep the last record", func(t *testing.T) {
		data := testutil.Cameras(
			testutil.CameraRecord{ID: 3, ModelID: 0, Width: 1, Height: 1, Params: []float64{1, 1, 1}},
			testutil.CameraRecord{ID: 3, ModelID: 1, Width: 2, Height: 2, Params: []float64{2, 2, 2, 2}},
		)
		cams, err := DecodeCameras(binio.NewBytesCursor(data))
		require.NoError(t, err)
		require.Len(t, cams, 1)
		assert.Equal(t, "PINHOLE", cams[3].Model)
		assert.Equal(t, uint64(2), cams[3].Width)
	})
}

func TestDecodeImages(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		imgs, err := DecodeImages(binio.NewBytesCursor(testutil.Images()))
		require.NoError(t, err)
		assert.Empty(t, imgs)
	})

	t.Run("records", func(t *testing.T) {
		m := testutil.SampleModel()
		c := binio.NewBytesCursor(testutil.Images(m.Images...))
		imgs, err := DecodeImages(c)
		require.NoError(t, err)
		require.Len(t, imgs, len(m.Images))
		assert.True(t, c.EOF())

		want := Image{
			ID:       1,
			Qvec:     [4]float64{1, 0, 0, 0},
			CameraID: 1,
			Name:     "frame_0001.jpg",
			Observations: []Observation{
				{10, 20, 100}, {11, 21, NoPoint3D}, {12, 22, 101}, {13, 23, 102},
			},
		}
		if diff := cmp.Diff(want, imgs[1]); diff != "" {
			t.Errorf("image 1 mismatch (-want +got):\n%s", diff)
		}
		for _, r := range m.Images {
			assert.Len(t, imgs[r.ID].Observations, len(r.Observations))
		}
	})

	t.Run("no observations", func(t *testing.T) {
		data := testutil.Images(
			testutil.ImageRecord{ID: 4, CameraID: 1, Name: []byte("a.png")},
			testutil.ImageRecord{ID: 5, CameraID: 1, Name: []byte{}, Observations: []testutil.ObservationRecord{{X: 1, Y: 2, Point3DID: -1}}},
		)
		c := binio.NewBytesCursor(data)
		imgs, err := DecodeImages(c)
		require.NoError(t, err)
		assert.Empty(t, imgs[4].Observations)
		assert.Equal(t, "", imgs[5].Name)
		assert.Len(t, imgs[5].Observations, 1)
		assert.True(t, c.EOF())
	})

	t.Run("invalid utf-8 stops before the observation count", func(t *testing.T) {
		data := testutil.Images(testutil.ImageRecord{ID: 1, Name: []byte{'a', 0xff, 0xfe}})
		// drop the observation count so reading it would be a truncation
		data = data[:len(data)-8]
		c := binio.NewBytesCursor(data)
		_, err := DecodeImages(c)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
		assert.NotErrorIs(t, err, binio.ErrTruncatedInput)
		assert.Equal(t, int64(len(data)), c.Offset())
	})

	t.Run("utf-8 names", func(t *testing.T) {
		data := testutil.Images(testutil.ImageRecord{ID: 1, Name: []byte("画像_01.jpg")})
		imgs, err := DecodeImages(binio.NewBytesCursor(data))
		require.NoError(t, err)
		assert.Equal(t, "画像_01.jpg", imgs[1].Name)
	})
}

func TestDecodePoints(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		pts, err := DecodePoints(binio.NewBytesCursor(testutil.Points()))
		require.NoError(t, err)
		assert.Empty(t, pts)
	})

	t.Run("track lengths 0 and 3 end at eof", func(t *testing.T) {
		data := testutil.Points(
			testutil.PointRecord{ID: 1, XYZ: [3]float64{1, 2, 3}, RGB: [3]uint8{1, 2, 3}, Error: 0.25},
			testutil.PointRecord{ID: 2, XYZ: [3]float64{4, 5, 6}, RGB: [3]uint8{250, 251, 252}, Error: 2,
				Track: []testutil.TrackRecord{{ImageID: 1, Point2DIndex: 0}, {ImageID: 2, Point2DIndex: 5}, {ImageID: 3, Point2DIndex: 9}}},
		)
		c := binio.NewBytesCursor(data)
		pts, err := DecodePoints(c)
		require.NoError(t, err)
		require.Len(t, pts, 2)
		assert.Empty(t, pts[1].Track)
		assert.Equal(t, []TrackElement{{1, 0}, {2, 5}, {3, 9}}, pts[2].Track)
		assert.Equal(t, [3]uint8{250, 251, 252}, pts[2].RGB)
		assert.Equal(t, 0.25, pts[1].Error)
		assert.Equal(t, int64(len(data)), c.Offset())
		assert.True(t, c.EOF())
	})
}

func TestTruncation(t *testing.T) {
	m := testutil.SampleModel()
	test := []struct {
		name   string
		data   []byte
		decode func(c *binio.Cursor) error
	}{
		{"cameras", testutil.Cameras(m.Cameras...), func(c *binio.Cursor) error { _, err := DecodeCameras(c); return err }},
		{"images", testutil.Images(m.Images...), func(c *binio.Cursor) error { _, err := DecodeImages(c); return err }},
		{"points", testutil.Points(m.Points...), func(c *binio.Cursor) error { _, err := DecodePoints(c); return err }},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.decode(binio.NewBytesCursor(tt.data)))
			for cut := range len(tt.data) {
				err := tt.decode(binio.NewBytesCursor(tt.data[:cut]))
				if !assert.ErrorIs(t, err, binio.ErrTruncatedInput, "cut at %d", cut) {
					return
				}
				var de *DecodeError
				require.True(t, errors.As(err, &de))
				assert.LessOrEqual(t, de.Offset, int64(cut))
				if cut < 8 {
					assert.Equal(t, HeaderRecord, de.Record)
				}
			}
		})
	}
}

func TestDecodeError(t *testing.T) {
	err := &DecodeError{Table: TableImages, Record: 3, Offset: 120, Err: binio.ErrTruncatedInput}
	assert.Equal(t, "images: record 3 at offset 120: truncated input", err.Error())
	err.Path = "sparse/images.bin"
	assert.Equal(t, "sparse/images.bin: images: record 3 at offset 120: truncated input", err.Error())
	head := &DecodeError{Table: TableCameras, Record: HeaderRecord, Err: binio.ErrTruncatedInput}
	assert.Equal(t, "cameras: header at offset 0: truncated input", head.Error())
}

func TestTriangulatedMask(t *testing.T) {
	img := Image{Observations: []Observation{
		{Point3DID: 4}, {Point3DID: NoPoint3D}, {Point3DID: 0}, {Point3DID: NoPoint3D},
	}}
	mask := img.TriangulatedMask()
	require.Equal(t, 4, mask.Bits())
	want := []bool{true, false, true, false}
	for i, w := range want {
		got, _ := mask.ReadBitAt(i)
		assert.Equal(t, w, got, "bit %d", i)
	}
	assert.Equal(t, 2, img.NumTriangulated())
	assert.Equal(t, 0, Image{}.NumTriangulated())

	// the count agrees with the packed mask
	img.Observations = append(img.Observations, make([]Observation, 70)...)
	var set int
	mask = img.TriangulatedMask()
	for i := range mask.Bits() {
		if ok, _ := mask.ReadBitAt(i); ok {
			set++
		}
	}
	assert.Equal(t, set, img.NumTriangulated())
	assert.Equal(t, 72, set)
}
