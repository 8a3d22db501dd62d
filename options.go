package sparsemodel

import (
	"errors"
	"log/slog"
)

type Option func(*Loader) error

// WithLogger sets the logger used for per-table decode diagnostics.
// A nil logger is rejected.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		l.logger = logger
		return nil
	}
}

// WithValidation makes Load check references between the decoded tables
// after decoding. Dangling references fail with ErrDanglingReference.
//
// Without it, an image may point at a camera that does not exist and tracks
// may point at images that do not exist, which is what the producer allows.
func WithValidation() Option {
	return func(l *Loader) error {
		l.validate = true
		return nil
	}
}

// WithSequential decodes the three files one after another instead of
// concurrently.
func WithSequential() Option {
	return func(l *Loader) error {
		l.sequential = true
		return nil
	}
}

// WithFileNames overrides the file names LoadDir looks for.
// Empty names keep the default.
func WithFileNames(cameras, images, points string) Option {
	return func(l *Loader) error {
		if cameras != "" {
			l.names.cameras = cameras
		}
		if images != "" {
			l.names.images = images
		}
		if points != "" {
			l.names.points = points
		}
		return nil
	}
}
