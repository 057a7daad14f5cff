package bridge

import (
	"fmt"
	"image"
	"reflect"

	"github.com/kpfaulkner/histeq-go/pixelformat"
)

// PlatformImageBuffer is the minimal view of a host-owned image buffer.
// Rows are RowBytes apart in PixelBytes; the bridge never reads or writes
// the padding at the end of a row.
type PlatformImageBuffer interface {
	Width() int
	Height() int
	RowBytes() int
	PixelBytes() []byte
}

// FormatDescriber is implemented by platform buffers that know their native
// pixel layout. Buffers that don't are assumed to already be in the
// interchange format.
type FormatDescriber interface {
	PixelFormat() pixelformat.PixelFormat
}

// IsAbsent reports whether p is nil or a typed nil pointer.
func IsAbsent(p PlatformImageBuffer) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// MemoryBuffer is a plain in-memory platform buffer.
type MemoryBuffer struct {
	width    int
	height   int
	rowBytes int
	format   pixelformat.PixelFormat
	Pix      []byte
}

// NewMemoryBuffer allocates a zeroed buffer. A rowBytes of 0 means tightly packed rows.
func NewMemoryBuffer(width int, height int, rowBytes int, native pixelformat.PixelFormat) (*MemoryBuffer, error) {
	if !native.IsValid() {
		return nil, fmt.Errorf("invalid native format")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate dimensions %dx%d", width, height)
	}
	if rowBytes == 0 {
		rowBytes = width * native.BytesPerPixel()
	}
	if rowBytes < width*native.BytesPerPixel() {
		return nil, fmt.Errorf("row bytes %d smaller than row size %d", rowBytes, width*native.BytesPerPixel())
	}
	return &MemoryBuffer{
		width:    width,
		height:   height,
		rowBytes: rowBytes,
		format:   native,
		Pix:      make([]byte, rowBytes*height),
	}, nil
}

func (m *MemoryBuffer) Width() int {
	return m.width
}

func (m *MemoryBuffer) Height() int {
	return m.height
}

func (m *MemoryBuffer) RowBytes() int {
	return m.rowBytes
}

func (m *MemoryBuffer) PixelBytes() []byte {
	return m.Pix
}

func (m *MemoryBuffer) PixelFormat() pixelformat.PixelFormat {
	return m.format
}

// NRGBABuffer exposes a stdlib *image.NRGBA (straight alpha, RGBA order) as a
// platform buffer. Sub-images are honoured through Rect.
type NRGBABuffer struct {
	Image *image.NRGBA
}

func (b NRGBABuffer) Width() int {
	return b.Image.Rect.Dx()
}

func (b NRGBABuffer) Height() int {
	return b.Image.Rect.Dy()
}

func (b NRGBABuffer) RowBytes() int {
	return b.Image.Stride
}

func (b NRGBABuffer) PixelBytes() []byte {
	return b.Image.Pix[b.Image.PixOffset(b.Image.Rect.Min.X, b.Image.Rect.Min.Y):]
}

func (b NRGBABuffer) PixelFormat() pixelformat.PixelFormat {
	return pixelformat.RGBA8
}

// RGBABuffer exposes a stdlib *image.RGBA. Its bytes are alpha-premultiplied
// and are passed through as they are.
type RGBABuffer struct {
	Image *image.RGBA
}

func (b RGBABuffer) Width() int {
	return b.Image.Rect.Dx()
}

func (b RGBABuffer) Height() int {
	return b.Image.Rect.Dy()
}

func (b RGBABuffer) RowBytes() int {
	return b.Image.Stride
}

func (b RGBABuffer) PixelBytes() []byte {
	return b.Image.Pix[b.Image.PixOffset(b.Image.Rect.Min.X, b.Image.Rect.Min.Y):]
}

func (b RGBABuffer) PixelFormat() pixelformat.PixelFormat {
	return pixelformat.RGBA8
}
