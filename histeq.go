package histeq

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/kpfaulkner/histeq-go/bridge"
	"github.com/kpfaulkner/histeq-go/imageformats"
	"github.com/kpfaulkner/histeq-go/processor"
	log "github.com/sirupsen/logrus"
)

func init() {
	image.RegisterFormat("fpb", imageformats.SnapshotMagic, Decode, DecodeConfig)
}

// Decode reads a flat pixel buffer snapshot as an *image.NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	buf, err := imageformats.ReadSnapshot(r)
	if err != nil {
		return nil, err
	}
	return imageformats.ToNRGBA(buf)
}

func DecodeConfig(r io.Reader) (image.Config, error) {
	info, err := imageformats.ReadSnapshotInfo(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      info.Width,
		Height:     info.Height,
	}, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	n := image.NewNRGBA(img.Bounds())
	draw.Draw(n, n.Rect, img, img.Bounds().Min, draw.Src)
	return n
}

// Equalize returns a histogram-equalized copy of img with the same bounds.
// Colour channels are equalized independently and alpha is left unchanged.
// img itself is never modified.
func Equalize(img image.Image, opts ...processor.StageOption) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no input image", processor.ErrConversionFailed)
	}
	stage, err := processor.NewStage(opts...)
	if err != nil {
		return nil, err
	}

	src := toNRGBA(img)
	dst := image.NewNRGBA(src.Rect)
	if err := stage.Process(bridge.NRGBABuffer{Image: src}, bridge.NRGBABuffer{Image: dst}, stage.Format()); err != nil {
		return nil, err
	}
	return dst, nil
}

// ApplyFilter is Equalize for display callers that have no way to report an
// error: on failure it logs a single warning and returns img unchanged. The
// stage logs to a discarding logger unless opts supply one.
func ApplyFilter(img image.Image, opts ...processor.StageOption) image.Image {
	silent := log.New()
	silent.SetOutput(io.Discard)
	opts = append([]processor.StageOption{processor.WithLogger(silent)}, opts...)

	out, err := Equalize(img, opts...)
	if err != nil {
		log.Warnf("histogram equalization skipped: %v", err)
		return img
	}
	return out
}
