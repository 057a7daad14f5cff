package bridge

import (
	"errors"
	"fmt"

	"github.com/kpfaulkner/histeq-go/image"
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/kpfaulkner/histeq-go/util"
)

var ErrConversionFailed = errors.New("conversion failed")

// conversion holds the per-call byte permutation between two layouts of the
// same family. It lives only for the duration of one import or export.
type conversion struct {
	perm     [4]int
	bpp      int
	identity bool
}

func newConversion(src pixelformat.PixelFormat, dst pixelformat.PixelFormat) (*conversion, error) {
	if !src.IsValid() || !dst.IsValid() {
		return nil, fmt.Errorf("%w: invalid pixel format", ErrConversionFailed)
	}
	if !src.SameLayoutFamily(dst) {
		return nil, fmt.Errorf("%w: cannot convert %v to %v", ErrConversionFailed, src, dst)
	}

	c := &conversion{bpp: dst.BytesPerPixel(), identity: src.Order() == dst.Order()}
	for _, ch := range []pixelformat.Channel{pixelformat.Red, pixelformat.Green, pixelformat.Blue, pixelformat.Alpha} {
		c.perm[dst.Index(ch)] = src.Index(ch)
	}
	return c, nil
}

func (c *conversion) convertRow(dst []byte, src []byte) {
	if c.identity {
		copy(dst, src)
		return
	}
	for off := 0; off+c.bpp <= len(dst); off += c.bpp {
		d := dst[off : off+c.bpp]
		s := src[off : off+c.bpp]
		for i, p := range c.perm {
			d[i] = s[p]
		}
	}
}

func nativeFormat(p PlatformImageBuffer, fallback pixelformat.PixelFormat) pixelformat.PixelFormat {
	if fd, ok := p.(FormatDescriber); ok {
		return fd.PixelFormat()
	}
	return fallback
}

func checkPlatform(p PlatformImageBuffer, bpp int) error {
	if IsAbsent(p) {
		return fmt.Errorf("%w: platform buffer absent", ErrConversionFailed)
	}
	w, h := p.Width(), p.Height()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: degenerate dimensions %dx%d", ErrConversionFailed, w, h)
	}
	// bounds are compared by division so huge geometry cannot wrap
	n := len(p.PixelBytes())
	if w > n/bpp || h > n {
		return fmt.Errorf("%w: platform buffer holds %d bytes, too few for %dx%d", ErrConversionFailed, n, w, h)
	}
	rowSize, rowBytes := w*bpp, p.RowBytes()
	if rowBytes < rowSize {
		return fmt.Errorf("%w: row bytes %d smaller than row size %d", ErrConversionFailed, rowBytes, rowSize)
	}
	if h > 1 && rowBytes > (n-rowSize)/(h-1) {
		return fmt.Errorf("%w: platform buffer holds %d bytes, too few for %d rows of %d bytes", ErrConversionFailed, n, h, rowBytes)
	}
	return nil
}

// ImportBuffer copies src into a newly allocated, tightly packed flat buffer in
// format's channel order. The data comes from pool when pool is non-nil; the
// caller owns the result and must Release it.
func ImportBuffer(src PlatformImageBuffer, format pixelformat.PixelFormat, pool *util.SlicePool[byte]) (*image.FlatPixelBuffer, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: invalid interchange format", ErrConversionFailed)
	}
	if err := checkPlatform(src, format.BytesPerPixel()); err != nil {
		return nil, err
	}
	conv, err := newConversion(nativeFormat(src, format), format)
	if err != nil {
		return nil, err
	}

	var buf *image.FlatPixelBuffer
	if pool != nil {
		buf, err = image.NewPooledFlatPixelBuffer(pool, src.Width(), src.Height(), 0, format)
	} else {
		buf, err = image.NewFlatPixelBuffer(src.Width(), src.Height(), 0, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	pix := src.PixelBytes()
	rowBytes := src.RowBytes()
	rowSize := buf.RowSize()
	for y := 0; y < buf.Height; y++ {
		conv.convertRow(buf.Row(y), pix[y*rowBytes:y*rowBytes+rowSize])
	}
	return buf, nil
}

// ExportBuffer writes buf into dst's native layout. buf must be in format and
// have dst's dimensions. Nothing is written unless all checks pass.
func ExportBuffer(buf *image.FlatPixelBuffer, format pixelformat.PixelFormat, dst PlatformImageBuffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	if !buf.Format.Equal(format) {
		return fmt.Errorf("%w: buffer is %v, expected %v", ErrConversionFailed, buf.Format, format)
	}
	if err := checkPlatform(dst, format.BytesPerPixel()); err != nil {
		return err
	}
	if dst.Width() != buf.Width || dst.Height() != buf.Height {
		return fmt.Errorf("%w: destination is %dx%d, buffer is %dx%d", ErrConversionFailed, dst.Width(), dst.Height(), buf.Width, buf.Height)
	}
	conv, err := newConversion(format, nativeFormat(dst, format))
	if err != nil {
		return err
	}

	pix := dst.PixelBytes()
	rowBytes := dst.RowBytes()
	rowSize := buf.RowSize()
	for y := 0; y < buf.Height; y++ {
		conv.convertRow(pix[y*rowBytes:y*rowBytes+rowSize], buf.Row(y))
	}
	return nil
}
