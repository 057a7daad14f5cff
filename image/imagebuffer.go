package image

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/kpfaulkner/histeq-go/util"
)

// FlatPixelBuffer is a row-major grid of interleaved pixels, independent of
// any platform image type. Row y starts at Data[y*RowStride]; bytes between
// Width*BytesPerPixel and RowStride are padding.
//
// A buffer is owned by whichever stage currently holds it and must be
// released after last use.
type FlatPixelBuffer struct {
	Width     int
	Height    int
	RowStride int
	Format    pixelformat.PixelFormat
	Data      []byte

	// pool the data came from, nil for plain allocations
	pool     *util.SlicePool[byte]
	released bool
}

var ErrMalformedBuffer = errors.New("malformed pixel buffer")

// NewFlatPixelBuffer allocates a buffer directly. A rowStride of 0 means rows are tightly packed.
func NewFlatPixelBuffer(width int, height int, rowStride int, format pixelformat.PixelFormat) (*FlatPixelBuffer, error) {
	return newFlatPixelBuffer(nil, width, height, rowStride, format)
}

// NewPooledFlatPixelBuffer acquires the pixel data from pool. Release hands it back.
func NewPooledFlatPixelBuffer(pool *util.SlicePool[byte], width int, height int, rowStride int, format pixelformat.PixelFormat) (*FlatPixelBuffer, error) {
	if pool == nil {
		return nil, errors.New("pool required")
	}
	return newFlatPixelBuffer(pool, width, height, rowStride, format)
}

func newFlatPixelBuffer(pool *util.SlicePool[byte], width int, height int, rowStride int, format pixelformat.PixelFormat) (*FlatPixelBuffer, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: invalid pixel format", ErrMalformedBuffer)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: degenerate dimensions %dx%d", ErrMalformedBuffer, width, height)
	}
	minStride := width * format.BytesPerPixel()
	if rowStride == 0 {
		rowStride = minStride
	}
	if rowStride < minStride {
		return nil, fmt.Errorf("%w: row stride %d smaller than row size %d", ErrMalformedBuffer, rowStride, minStride)
	}

	b := &FlatPixelBuffer{
		Width:     width,
		Height:    height,
		RowStride: rowStride,
		Format:    format,
		pool:      pool,
	}
	if pool != nil {
		b.Data = pool.Get(rowStride * height)
	} else {
		b.Data = make([]byte, rowStride*height)
	}
	return b, nil
}

// NewFlatPixelBufferFromBytes wraps existing data without copying. The
// resulting buffer is not pooled.
func NewFlatPixelBufferFromBytes(width int, height int, rowStride int, format pixelformat.PixelFormat, data []byte) (*FlatPixelBuffer, error) {
	b := &FlatPixelBuffer{
		Width:     width,
		Height:    height,
		RowStride: rowStride,
		Format:    format,
		Data:      data,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *FlatPixelBuffer) BytesPerPixel() int {
	return b.Format.BytesPerPixel()
}

// RowSize is the number of pixel bytes in one row, excluding padding.
func (b *FlatPixelBuffer) RowSize() int {
	return b.Width * b.Format.BytesPerPixel()
}

// Validate checks the dimension, stride and length invariants.
func (b *FlatPixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrMalformedBuffer)
	}
	if b.released {
		return fmt.Errorf("%w: buffer already released", ErrMalformedBuffer)
	}
	if !b.Format.IsValid() {
		return fmt.Errorf("%w: invalid pixel format", ErrMalformedBuffer)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: degenerate dimensions %dx%d", ErrMalformedBuffer, b.Width, b.Height)
	}
	if b.RowStride < b.RowSize() {
		return fmt.Errorf("%w: row stride %d smaller than row size %d", ErrMalformedBuffer, b.RowStride, b.RowSize())
	}
	if len(b.Data) != b.RowStride*b.Height {
		return fmt.Errorf("%w: data length %d, expected %d", ErrMalformedBuffer, len(b.Data), b.RowStride*b.Height)
	}
	return nil
}

// Row returns the pixel bytes of row y, without padding.
func (b *FlatPixelBuffer) Row(y int) []byte {
	start := y * b.RowStride
	return b.Data[start : start+b.RowSize()]
}

func (b *FlatPixelBuffer) PixelOffset(x int, y int) int {
	return y*b.RowStride + x*b.Format.BytesPerPixel()
}

// Pixel returns the bytes of the pixel at x, y in the buffer's channel order.
func (b *FlatPixelBuffer) Pixel(x int, y int) []byte {
	off := b.PixelOffset(x, y)
	return b.Data[off : off+b.Format.BytesPerPixel()]
}

// Release returns the pixel data to its pool. Calling it more than once is a no-op.
func (b *FlatPixelBuffer) Release() {
	if b == nil || b.released {
		return
	}
	b.released = true
	if b.pool != nil {
		b.pool.Put(b.Data)
	}
	b.Data = nil
}

func (b *FlatPixelBuffer) Released() bool {
	return b.released
}

// Equals compares dimensions, format and pixel bytes. Row padding is ignored.
func (b *FlatPixelBuffer) Equals(other *FlatPixelBuffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.Width != other.Width || b.Height != other.Height || !b.Format.Equal(other.Format) {
		return false
	}
	for y := 0; y < b.Height; y++ {
		if !bytes.Equal(b.Row(y), other.Row(y)) {
			return false
		}
	}
	return true
}

// Clone makes an unpooled deep copy.
func (b *FlatPixelBuffer) Clone() *FlatPixelBuffer {
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	return &FlatPixelBuffer{
		Width:     b.Width,
		Height:    b.Height,
		RowStride: b.RowStride,
		Format:    b.Format,
		Data:      data,
	}
}
