package pixelformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	f, err := New(8, 4, OrderBGRA, SRGB)
	require.NoError(t, err)

	assert.Equal(t, 8, f.BitsPerComponent())
	assert.Equal(t, 4, f.ChannelsPerPixel())
	assert.Equal(t, 32, f.BitsPerPixel())
	assert.Equal(t, f.BitsPerComponent()*f.ChannelsPerPixel(), f.BitsPerPixel())
	assert.Equal(t, 4, f.BytesPerPixel())
	assert.Equal(t, OrderBGRA, f.Order())
	assert.Equal(t, SRGB, f.ColorSpace())
	assert.True(t, f.IsValid())
}

func TestNewRejectsUnsupported(t *testing.T) {
	_, err := New(16, 4, OrderRGBA, SRGB)
	assert.Error(t, err)

	_, err = New(8, 3, OrderRGBA, SRGB)
	assert.Error(t, err)

	_, err = New(8, 4, ChannelOrder(42), SRGB)
	assert.Error(t, err)

	_, err = New(8, 4, OrderRGBA, "")
	assert.Error(t, err)

	assert.Panics(t, func() { MustNew(1, 4, OrderRGBA, SRGB) })
}

func TestChannelIndex(t *testing.T) {
	tests := []struct {
		format PixelFormat
		r      int
		g      int
		b      int
		a      int
	}{
		{RGBA8, 0, 1, 2, 3},
		{BGRA8, 2, 1, 0, 3},
		{ARGB8, 1, 2, 3, 0},
		{MustNew(8, 4, OrderABGR, SRGB), 3, 2, 1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.format.String(), func(t *testing.T) {
			assert.Equal(t, tc.r, tc.format.Index(Red))
			assert.Equal(t, tc.g, tc.format.Index(Green))
			assert.Equal(t, tc.b, tc.format.Index(Blue))
			assert.Equal(t, tc.a, tc.format.AlphaIndex())
		})
	}
}

func TestChannelIndexOutOfRange(t *testing.T) {
	assert.Equal(t, -1, RGBA8.Index(Channel(4)))
	assert.Equal(t, -1, BGRA8.Index(Channel(-1)))
	assert.Equal(t, -1, PixelFormat{order: ChannelOrder(9)}.Index(Red))
}

func TestParseChannelOrder(t *testing.T) {
	o, err := ParseChannelOrder(" BGRA ")
	require.NoError(t, err)
	assert.Equal(t, OrderBGRA, o)

	_, err = ParseChannelOrder("rgb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abgr, argb, bgra, rgba")
}

func TestEqualAndFamily(t *testing.T) {
	assert.True(t, RGBA8.Equal(MustNew(8, 4, OrderRGBA, SRGB)))
	assert.False(t, RGBA8.Equal(BGRA8))
	assert.False(t, RGBA8.Equal(MustNew(8, 4, OrderRGBA, DisplayP3)))
	assert.True(t, RGBA8.SameLayoutFamily(BGRA8))
	assert.False(t, RGBA8.SameLayoutFamily(PixelFormat{}))
}

func TestZeroValueInvalid(t *testing.T) {
	var f PixelFormat
	assert.False(t, f.IsValid())
	assert.Equal(t, "invalid", f.String())
	assert.Equal(t, "RGBA8 (sRGB)", RGBA8.String())
}
