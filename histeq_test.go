package histeq

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	imagebuf "github.com/kpfaulkner/histeq-go/image"
	"github.com/kpfaulkner/histeq-go/imageformats"
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/kpfaulkner/histeq-go/processor"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() processor.StageOption {
	logger, _ := test.NewNullLogger()
	return processor.WithLogger(logger)
}

func TestEqualizeNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: uint8(100 + x), G: 50, B: uint8(10 * x), A: uint8(60 * x)})
	}

	out, err := Equalize(img, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, img.Rect, out.Rect)
	assert.Equal(t, color.NRGBA{R: 0, G: 50, B: 0, A: 0}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 85, G: 50, B: 85, A: 60}, out.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 50, B: 255, A: 180}, out.NRGBAAt(3, 0))

	// input untouched
	assert.Equal(t, uint8(101), img.NRGBAAt(1, 0).R)
}

func TestEqualizeOffsetBounds(t *testing.T) {
	gray := image.NewGray(image.Rect(5, 5, 7, 6))
	gray.SetGray(5, 5, color.Gray{Y: 40})
	gray.SetGray(6, 5, color.Gray{Y: 41})

	out, err := Equalize(gray, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, gray.Bounds(), out.Bounds())
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 0, A: 255}, out.NRGBAAt(5, 5))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(6, 5))
}

func TestEqualizeFailures(t *testing.T) {
	_, err := Equalize(nil)
	assert.ErrorIs(t, err, processor.ErrConversionFailed)

	_, err = Equalize(image.NewNRGBA(image.Rectangle{}), quietLogger())
	assert.ErrorIs(t, err, processor.ErrConversionFailed)
}

func TestApplyFilterPassesThroughOnFailure(t *testing.T) {
	empty := image.NewNRGBA(image.Rectangle{})
	assert.Same(t, empty, ApplyFilter(empty, quietLogger()))

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Pix[0] = 9
	out := ApplyFilter(img, quietLogger())
	assert.NotSame(t, img, out)
}

func TestApplyFilterWarnsOnce(t *testing.T) {
	hook := test.NewGlobal()
	t.Cleanup(func() { log.StandardLogger().ReplaceHooks(make(log.LevelHooks)) })

	empty := image.NewNRGBA(image.Rectangle{})
	assert.Same(t, empty, ApplyFilter(empty))

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
}

func TestDecodeRegisteredFormat(t *testing.T) {
	buf, err := imagebuf.NewFlatPixelBufferFromBytes(2, 1, 8, pixelformat.BGRA8, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, imageformats.WriteSnapshot(buf, &out))

	cfg, name, err := image.DecodeConfig(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "fpb", name)
	assert.Equal(t, 2, cfg.Width)
	assert.Equal(t, 1, cfg.Height)

	img, name, err := image.Decode(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "fpb", name)
	assert.Equal(t, color.NRGBA{R: 3, G: 2, B: 1, A: 4}, img.(*image.NRGBA).NRGBAAt(0, 0))
}
