package sparsemodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/yyyoichi/sparsemodel/internal/binio"
	"github.com/yyyoichi/sparsemodel/internal/camera"
	"github.com/yyyoichi/sparsemodel/internal/colmap"
)

var (
	ErrTruncatedInput    = binio.ErrTruncatedInput
	ErrUnknownModel      = camera.ErrUnknownModel
	ErrInvalidEncoding   = colmap.ErrInvalidEncoding
	ErrUnsupportedFormat = errors.New("unsupported model file format")
)

// Default file names inside a sparse model directory.
const (
	CamerasFile = "cameras.bin"
	ImagesFile  = "images.bin"
	PointsFile  = "points3D.bin"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	}
	return "unknown"
}

// DetectFormat picks the decoder for a model file from its extension.
func DetectFormat(path string) (Format, error) {
	if filepath.Ext(path) == ".bin" {
		return FormatBinary, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load decodes the three model files with default options.
func Load(ctx context.Context, camerasPath, imagesPath, pointsPath string, opts ...Option) (*Model, error) {
	l, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, camerasPath, imagesPath, pointsPath)
}

// LoadDir decodes cameras.bin, images.bin and points3D.bin from dir.
func LoadDir(ctx context.Context, dir string, opts ...Option) (*Model, error) {
	l, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return l.LoadDir(ctx, dir)
}

func LoadCameras(path string) (map[int32]Camera, error) {
	return defaultLoader().LoadCameras(path)
}

func LoadImages(path string) (map[int32]Image, error) {
	return defaultLoader().LoadImages(path)
}

func LoadPoints(path string) (map[uint64]Point3D, error) {
	return defaultLoader().LoadPoints(path)
}

type Loader struct {
	logger     *slog.Logger
	validate   bool
	sequential bool
	names      struct {
		cameras, images, points string
	}
}

// New initializes a loader. For default values, refer to the init function.
func New(opts ...Option) (*Loader, error) {
	l := new(Loader)
	if err := l.init(opts...); err != nil {
		return nil, err
	}
	return l, nil
}

func defaultLoader() *Loader {
	l, _ := New()
	return l
}

func (l *Loader) init(opts ...Option) error {
	l.logger = slog.New(slog.DiscardHandler)
	l.names.cameras = CamerasFile
	l.names.images = ImagesFile
	l.names.points = PointsFile
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return err
		}
	}
	return nil
}

// Load decodes the three files and assembles a Model.
//
// The files share nothing but the camera model catalog, so they are decoded
// concurrently unless WithSequential is set. The first failure is returned
// and no partial model is produced.
func (l *Loader) Load(ctx context.Context, camerasPath, imagesPath, pointsPath string) (*Model, error) {
	var m Model
	tasks := []func() error{
		func() (err error) {
			m.Cameras, err = l.LoadCameras(camerasPath)
			return err
		},
		func() (err error) {
			m.Images, err = l.LoadImages(imagesPath)
			return err
		},
		func() (err error) {
			m.Points, err = l.LoadPoints(pointsPath)
			return err
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	if l.sequential {
		g.SetLimit(1)
	}
	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return task()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if l.validate {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	l.logger.Info("model loaded",
		"cameras", len(m.Cameras), "images", len(m.Images), "points", len(m.Points))
	return &m, nil
}

func (l *Loader) LoadDir(ctx context.Context, dir string) (*Model, error) {
	return l.Load(ctx,
		filepath.Join(dir, l.names.cameras),
		filepath.Join(dir, l.names.images),
		filepath.Join(dir, l.names.points),
	)
}

func (l *Loader) LoadCameras(path string) (map[int32]Camera, error) {
	return decodeFile(l, path, colmap.TableCameras, colmap.DecodeCameras)
}

func (l *Loader) LoadImages(path string) (map[int32]Image, error) {
	return decodeFile(l, path, colmap.TableImages, colmap.DecodeImages)
}

func (l *Loader) LoadPoints(path string) (map[uint64]Point3D, error) {
	return decodeFile(l, path, colmap.TablePoints, colmap.DecodePoints)
}

// decodeFile checks the format before touching the file, then decodes the
// whole stream. The file is closed on every path.
func decodeFile[K comparable, V any](l *Loader, path, table string, decode func(*binio.Cursor) (map[K]V, error)) (map[K]V, error) {
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", table, err)
	}
	defer f.Close()

	c := binio.NewCursor(f)
	records, err := decode(c)
	if err != nil {
		var de *colmap.DecodeError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}
	more, err := c.More()
	if err != nil {
		return nil, fmt.Errorf("read %s after last record: %w", path, err)
	}
	if more {
		l.logger.Warn("trailing bytes after last record", "table", table, "path", path, "offset", c.Offset())
	}
	l.logger.Debug("decoded table", "table", table, "path", path, "records", len(records), "bytes", c.Offset())
	return records, nil
}
