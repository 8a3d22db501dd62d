package colmap

import (
	"fmt"
	"unicode/utf8"

	"github.com/yyyoichi/sparsemodel/internal/binio"
)

// DecodeImages reads an image table.
//
// Layout: u64 count, then per record
//
//	i32 image_id, f64 qw qx qy qz, f64 tx ty tz, i32 camera_id,
//	u64 name_length, byte[name_length] name,
//	u64 num_observations, num_observations × (f64 x, f64 y, i64 point3D_id)
//
// The name and the observations are two independently sized regions and are
// consumed in that order.
func DecodeImages(c *binio.Cursor) (map[int32]Image, error) {
	n, err := c.Uint64()
	if err != nil {
		return nil, fail(TableImages, HeaderRecord, c.Offset(), err)
	}
	images := make(map[int32]Image, min(n, maxPrealloc))
	for i := range n {
		img, err := decodeImage(c)
		if err != nil {
			return nil, fail(TableImages, int(i), c.Offset(), err)
		}
		images[img.ID] = img
	}
	return images, nil
}

func decodeImage(c *binio.Cursor) (Image, error) {
	var (
		img Image
		err error
	)
	if img.ID, err = c.Int32(); err != nil {
		return img, err
	}
	if err = c.Float64s(img.Qvec[:]); err != nil {
		return img, err
	}
	if err = c.Float64s(img.Tvec[:]); err != nil {
		return img, err
	}
	if img.CameraID, err = c.Int32(); err != nil {
		return img, err
	}
	if img.Name, err = decodeName(c); err != nil {
		return img, err
	}
	if img.Observations, err = decodeObservations(c); err != nil {
		return img, err
	}
	return img, nil
}

func decodeName(c *binio.Cursor) (string, error) {
	size, err := c.Uint64()
	if err != nil {
		return "", err
	}
	raw, err := c.Bytes(size)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: image name %q", ErrInvalidEncoding, raw)
	}
	return string(raw), nil
}

func decodeObservations(c *binio.Cursor) ([]Observation, error) {
	n, err := c.Uint64()
	if err != nil {
		return nil, err
	}
	obs := make([]Observation, 0, min(n, maxPrealloc))
	for range n {
		var o Observation
		if o.X, err = c.Float64(); err != nil {
			return nil, err
		}
		if o.Y, err = c.Float64(); err != nil {
			return nil, err
		}
		if o.Point3DID, err = c.Int64(); err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return obs, nil
}
