package imageformats

import (
	stdimage "image"

	"github.com/kpfaulkner/histeq-go/bridge"
	"github.com/kpfaulkner/histeq-go/image"
)

// ToNRGBA copies buf into a new stdlib NRGBA image.
func ToNRGBA(buf *image.FlatPixelBuffer) (*stdimage.NRGBA, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, buf.Width, buf.Height))
	if err := bridge.ExportBuffer(buf, buf.Format, bridge.NRGBABuffer{Image: img}); err != nil {
		return nil, err
	}
	return img, nil
}
