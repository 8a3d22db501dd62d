package binio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

var (
	ErrTruncatedInput = errors.New("truncated input")
)

// chunkSize bounds how much Bytes allocates ahead of data actually read.
const chunkSize = 64 << 10

// Cursor reads little-endian scalars from a byte source, strictly forward.
// Every read either consumes exactly the width of the value or fails with
// ErrTruncatedInput and leaves the offset where the short read started.
type Cursor struct {
	r      *bufio.Reader
	offset int64
	buf    [8]byte
}

// NewCursor wraps a streamed source.
func NewCursor(r io.Reader) *Cursor {
	return &Cursor{r: bufio.NewReader(r)}
}

// NewBytesCursor wraps an in-memory buffer.
func NewBytesCursor(b []byte) *Cursor {
	return NewCursor(bytes.NewReader(b))
}

// Offset is the number of bytes consumed so far.
func (c *Cursor) Offset() int64 { return c.offset }

// More reports whether the source has bytes left. A read failure other
// than end of input is returned as is.
func (c *Cursor) More() (bool, error) {
	_, err := c.r.Peek(1)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EOF reports whether the source ended cleanly at the current offset.
func (c *Cursor) EOF() bool {
	more, err := c.More()
	return !more && err == nil
}

func (c *Cursor) fill(n int) ([]byte, error) {
	b := c.buf[:n]
	if _, err := io.ReadFull(c.r, b); err != nil {
		return nil, c.wrap(err)
	}
	c.offset += int64(n)
	return b, nil
}

func (c *Cursor) wrap(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedInput
	}
	return err
}

func (c *Cursor) Uint64() (uint64, error) {
	b, err := c.fill(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *Cursor) Int64() (int64, error) {
	v, err := c.Uint64()
	return int64(v), err
}

func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.fill(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

func (c *Cursor) Float64() (float64, error) {
	v, err := c.Uint64()
	return math.Float64frombits(v), err
}

func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.fill(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Float64s reads n consecutive doubles into dst, which must have length n.
func (c *Cursor) Float64s(dst []float64) error {
	for i := range dst {
		v, err := c.Float64()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// Bytes reads exactly n raw bytes.
func (c *Cursor) Bytes(n uint64) ([]byte, error) {
	out := make([]byte, 0, min(n, chunkSize))
	for remaining := n; remaining > 0; {
		step := min(remaining, chunkSize)
		start := len(out)
		out = append(out, make([]byte, step)...)
		if _, err := io.ReadFull(c.r, out[start:]); err != nil {
			return nil, c.wrap(err)
		}
		remaining -= step
	}
	c.offset += int64(n)
	return out, nil
}
