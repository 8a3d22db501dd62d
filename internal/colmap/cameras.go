package colmap

import (
	"github.com/yyyoichi/sparsemodel/internal/binio"
	"github.com/yyyoichi/sparsemodel/internal/camera"
)

// maxPrealloc caps capacity hints taken from counts in the stream, which are
// not trustworthy until the records behind them have been read.
const maxPrealloc = 1 << 16

// DecodeCameras reads a camera table.
//
// Layout: u64 count, then per record
//
//	i32 camera_id, i32 model_id, u64 width, u64 height, f64[num_params] params
//
// where num_params comes from the camera model catalog.
func DecodeCameras(c *binio.Cursor) (map[int32]Camera, error) {
	n, err := c.Uint64()
	if err != nil {
		return nil, fail(TableCameras, HeaderRecord, c.Offset(), err)
	}
	cameras := make(map[int32]Camera, min(n, maxPrealloc))
	for i := range n {
		cam, err := decodeCamera(c)
		if err != nil {
			return nil, fail(TableCameras, int(i), c.Offset(), err)
		}
		// duplicate ids overwrite
		cameras[cam.ID] = cam
	}
	return cameras, nil
}

func decodeCamera(c *binio.Cursor) (Camera, error) {
	var (
		cam     Camera
		modelID int32
		err     error
	)
	if cam.ID, err = c.Int32(); err != nil {
		return cam, err
	}
	if modelID, err = c.Int32(); err != nil {
		return cam, err
	}
	if cam.Width, err = c.Uint64(); err != nil {
		return cam, err
	}
	if cam.Height, err = c.Uint64(); err != nil {
		return cam, err
	}
	model, err := camera.Lookup(modelID)
	if err != nil {
		return cam, err
	}
	cam.Model = model.Name
	cam.Params = make([]float64, model.NumParams)
	if err := c.Float64s(cam.Params); err != nil {
		return cam, err
	}
	return cam, nil
}
