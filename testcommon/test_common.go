package testcommon

import (
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/kpfaulkner/histeq-go/util"
)

// NewFakeBuffer returns a zeroed buffer in the given native layout with rows
// stride bytes apart. A stride of 0 means tightly packed.
func NewFakeBuffer(width int, height int, stride int, native pixelformat.PixelFormat) *FakeDescribedBuffer {
	if stride == 0 {
		stride = width * native.BytesPerPixel()
	}
	return &FakeDescribedBuffer{
		FakePlatformBuffer: FakePlatformBuffer{
			W:      width,
			H:      height,
			Stride: stride,
			Pix:    make([]byte, stride*height),
		},
		Native: native,
	}
}

// BufferFromPixels builds a tightly packed buffer; each pixel is given in the
// native layout's byte order, row by row.
func BufferFromPixels(width int, height int, native pixelformat.PixelFormat, pixels [][4]byte) *FakeDescribedBuffer {
	b := NewFakeBuffer(width, height, 0, native)
	for i, p := range pixels {
		copy(b.Pix[i*4:], p[:])
	}
	return b
}

// GradientBuffer fills a padded buffer with a deterministic pattern covering
// a narrow band of levels per channel, with a varying alpha and non-zero
// padding bytes.
func GradientBuffer(width int, height int, native pixelformat.PixelFormat) *FakeDescribedBuffer {
	stride := width*native.BytesPerPixel() + 8
	b := NewFakeBuffer(width, height, stride, native)
	ri, gi, bi, ai := native.Index(pixelformat.Red), native.Index(pixelformat.Green), native.Index(pixelformat.Blue), native.AlphaIndex()
	for y := 0; y < height; y++ {
		row := b.Pix[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+4]
			p[ri] = byte(100 + (x+y)%40)
			p[gi] = byte(60 + (x*3)%50)
			p[bi] = byte(10 + (y*7)%30)
			p[ai] = byte(255 - (x+2*y)%200)
		}
		util.Fill(row[width*4:], 0xEE)
	}
	return b
}
