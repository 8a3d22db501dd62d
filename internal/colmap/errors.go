package colmap

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEncoding = errors.New("invalid utf-8 encoding")
)

const (
	TableCameras = "cameras"
	TableImages  = "images"
	TablePoints  = "points3D"
)

// HeaderRecord is the Record value of a failure while reading the count prefix.
const HeaderRecord = -1

// DecodeError locates a decode failure in its stream. Offset is where the
// failing read started.
type DecodeError struct {
	Path   string
	Table  string
	Record int
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	where := fmt.Sprintf("record %d", e.Record)
	if e.Record == HeaderRecord {
		where = "header"
	}
	msg := fmt.Sprintf("%s: %s at offset %d: %v", e.Table, where, e.Offset, e.Err)
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

func fail(table string, record int, offset int64, err error) error {
	return &DecodeError{Table: table, Record: record, Offset: offset, Err: err}
}
