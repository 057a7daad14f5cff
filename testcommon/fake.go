package testcommon

import "github.com/kpfaulkner/histeq-go/pixelformat"

// FakePlatformBuffer is a platform buffer with every accessor backed by a
// plain field, so tests can describe inconsistent buffers the real adapters
// would never produce.
type FakePlatformBuffer struct {
	W      int
	H      int
	Stride int
	Pix    []byte
}

func (f *FakePlatformBuffer) Width() int {
	return f.W
}

func (f *FakePlatformBuffer) Height() int {
	return f.H
}

func (f *FakePlatformBuffer) RowBytes() int {
	return f.Stride
}

func (f *FakePlatformBuffer) PixelBytes() []byte {
	return f.Pix
}

// FakeDescribedBuffer additionally declares its native pixel layout.
type FakeDescribedBuffer struct {
	FakePlatformBuffer
	Native pixelformat.PixelFormat
}

func (f *FakeDescribedBuffer) PixelFormat() pixelformat.PixelFormat {
	return f.Native
}
