package colmap

import (
	"github.com/yyyoichi/sparsemodel/internal/binio"
)

// DecodePoints reads a 3D point table.
//
// Layout: u64 count, then per record
//
//	u64 point_id, f64 x y z, u8 r g b, f64 error,
//	u64 track_length, track_length × (u64 image_id, u64 point2D_index)
func DecodePoints(c *binio.Cursor) (map[uint64]Point3D, error) {
	n, err := c.Uint64()
	if err != nil {
		return nil, fail(TablePoints, HeaderRecord, c.Offset(), err)
	}
	points := make(map[uint64]Point3D, min(n, maxPrealloc))
	for i := range n {
		p, err := decodePoint(c)
		if err != nil {
			return nil, fail(TablePoints, int(i), c.Offset(), err)
		}
		points[p.ID] = p
	}
	return points, nil
}

func decodePoint(c *binio.Cursor) (Point3D, error) {
	var (
		p   Point3D
		err error
	)
	if p.ID, err = c.Uint64(); err != nil {
		return p, err
	}
	if err = c.Float64s(p.XYZ[:]); err != nil {
		return p, err
	}
	for i := range p.RGB {
		if p.RGB[i], err = c.Uint8(); err != nil {
			return p, err
		}
	}
	if p.Error, err = c.Float64(); err != nil {
		return p, err
	}
	if p.Track, err = decodeTrack(c); err != nil {
		return p, err
	}
	return p, nil
}

func decodeTrack(c *binio.Cursor) ([]TrackElement, error) {
	n, err := c.Uint64()
	if err != nil {
		return nil, err
	}
	track := make([]TrackElement, 0, min(n, maxPrealloc))
	for range n {
		var e TrackElement
		if e.ImageID, err = c.Uint64(); err != nil {
			return nil, err
		}
		if e.Point2DIndex, err = c.Uint64(); err != nil {
			return nil, err
		}
		track = append(track, e)
	}
	return track, nil
}
