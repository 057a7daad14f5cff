package equalize

import (
	"testing"

	"github.com/kpfaulkner/histeq-go/image"
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/kpfaulkner/histeq-go/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferFromPixels(t *testing.T, width int, height int, format pixelformat.PixelFormat, pixels [][4]byte) *image.FlatPixelBuffer {
	t.Helper()
	buf, err := image.NewFlatPixelBuffer(width, height, 0, format)
	require.NoError(t, err)
	for i, p := range pixels {
		copy(buf.Data[i*4:], p[:])
	}
	return buf
}

func TestEqualizeSpreadLevels(t *testing.T) {
	in := bufferFromPixels(t, 2, 2, pixelformat.BGRA8, [][4]byte{
		{0, 0, 0, 255},
		{85, 85, 85, 255},
		{170, 170, 170, 255},
		{255, 255, 255, 255},
	})

	out, err := Equalize(in)
	require.NoError(t, err)

	expected := []byte{0, 85, 170, 255}
	for i := 0; i < 4; i++ {
		p := out.Data[i*4 : i*4+4]
		assert.Equal(t, expected[i], p[0])
		assert.Equal(t, expected[i], p[1])
		assert.Equal(t, expected[i], p[2])
		assert.Equal(t, byte(255), p[3])
	}
}

func TestEqualizeStretchesNarrowRange(t *testing.T) {
	in := bufferFromPixels(t, 4, 1, pixelformat.RGBA8, [][4]byte{
		{100, 100, 100, 255},
		{101, 101, 101, 255},
		{102, 102, 102, 255},
		{103, 103, 103, 255},
	})

	out, err := Equalize(in)
	require.NoError(t, err)

	assert.Equal(t, []byte{0, 0, 0, 255}, out.Pixel(0, 0))
	assert.Equal(t, []byte{85, 85, 85, 255}, out.Pixel(1, 0))
	assert.Equal(t, []byte{170, 170, 170, 255}, out.Pixel(2, 0))
	assert.Equal(t, []byte{255, 255, 255, 255}, out.Pixel(3, 0))
}

func TestEqualizeConstantChannelUnchanged(t *testing.T) {
	in := bufferFromPixels(t, 3, 1, pixelformat.RGBA8, [][4]byte{
		{77, 10, 0, 1},
		{77, 20, 0, 2},
		{77, 30, 0, 3},
	})

	out, err := Equalize(in)
	require.NoError(t, err)

	for x := 0; x < 3; x++ {
		assert.Equal(t, byte(77), out.Pixel(x, 0)[0])
		assert.Equal(t, byte(0), out.Pixel(x, 0)[2])
	}
	assert.Equal(t, byte(0), out.Pixel(0, 0)[1])
	assert.Equal(t, byte(255), out.Pixel(2, 0)[1])
}

func TestEqualizeAlphaUnchanged(t *testing.T) {
	for _, format := range []pixelformat.PixelFormat{pixelformat.RGBA8, pixelformat.BGRA8, pixelformat.ARGB8} {
		t.Run(format.String(), func(t *testing.T) {
			in, err := image.NewFlatPixelBuffer(17, 9, 17*4+3, format)
			require.NoError(t, err)
			for i := range in.Data {
				in.Data[i] = byte(i*31 + i/7)
			}

			out, err := Equalize(in)
			require.NoError(t, err)

			a := format.AlphaIndex()
			for y := 0; y < in.Height; y++ {
				for x := 0; x < in.Width; x++ {
					assert.Equal(t, in.Pixel(x, y)[a], out.Pixel(x, y)[a])
				}
				// padding copied too
				assert.Equal(t, in.Data[y*in.RowStride+in.RowSize():(y+1)*in.RowStride],
					out.Data[y*out.RowStride+out.RowSize():(y+1)*out.RowStride])
			}
		})
	}
}

func TestEqualizeFlatHistogramIdempotent(t *testing.T) {
	pixels := make([][4]byte, 0, 16)
	for i := 0; i < 16; i++ {
		l := []byte{10, 20, 30, 40}[i%4]
		pixels = append(pixels, [4]byte{l, 40 - l + 10, l, 128})
	}
	in := bufferFromPixels(t, 4, 4, pixelformat.RGBA8, pixels)

	once, err := Equalize(in)
	require.NoError(t, err)
	twice, err := Equalize(once)
	require.NoError(t, err)

	assert.True(t, once.Equals(twice))
	assert.False(t, once.Equals(in))
}

func TestEqualizeDeterministicAndPure(t *testing.T) {
	in, err := image.NewFlatPixelBuffer(32, 8, 0, pixelformat.BGRA8)
	require.NoError(t, err)
	for i := range in.Data {
		in.Data[i] = byte((i * i) % 97)
	}
	orig := in.Clone()

	a, err := Equalize(in)
	require.NoError(t, err)
	b, err := Equalize(in)
	require.NoError(t, err)

	assert.Equal(t, a.Data, b.Data)
	assert.True(t, in.Equals(orig))
}

func TestEqualizeKeepsGeometry(t *testing.T) {
	in, err := image.NewFlatPixelBuffer(5, 3, 32, pixelformat.ARGB8)
	require.NoError(t, err)

	out, err := Equalize(in)
	require.NoError(t, err)

	assert.Equal(t, in.Width, out.Width)
	assert.Equal(t, in.Height, out.Height)
	assert.Equal(t, in.RowStride, out.RowStride)
	assert.True(t, in.Format.Equal(out.Format))
}

func TestEqualizeMalformed(t *testing.T) {
	in, err := image.NewFlatPixelBuffer(4, 4, 0, pixelformat.RGBA8)
	require.NoError(t, err)
	in.Data = in.Data[:10]

	out, err := Equalize(in)
	assert.ErrorIs(t, err, ErrEqualizationFailed)
	assert.Nil(t, out)

	_, err = Equalize(nil)
	assert.ErrorIs(t, err, ErrEqualizationFailed)

	released, err := image.NewFlatPixelBuffer(2, 2, 0, pixelformat.RGBA8)
	require.NoError(t, err)
	released.Release()
	_, err = Equalize(released)
	assert.ErrorIs(t, err, ErrEqualizationFailed)
}

func TestKernelPooled(t *testing.T) {
	pool := util.NewSlicePool[byte]()
	k := NewKernel(pool)

	in, err := image.NewFlatPixelBuffer(8, 8, 0, pixelformat.RGBA8)
	require.NoError(t, err)

	out, err := k.Equalize(in)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pool.Outstanding())

	out.Release()
	assert.EqualValues(t, 0, pool.Outstanding())
}

func TestBuildLUT(t *testing.T) {
	t.Run("empty is identity", func(t *testing.T) {
		lut := BuildLUT(Histogram{})
		for v := range lut {
			assert.Equal(t, uint8(v), lut[v])
		}
	})

	t.Run("single level is identity", func(t *testing.T) {
		var h Histogram
		h[200] = 1000
		lut := BuildLUT(h)
		assert.Equal(t, uint8(200), lut[200])
		assert.Equal(t, uint8(13), lut[13])
	})

	t.Run("monotonic and spans full range", func(t *testing.T) {
		var h Histogram
		for v := 50; v < 120; v++ {
			h[v] = uint64(v % 7)
		}
		h[50] = 3
		lut := BuildLUT(h)
		for v := 1; v < len(lut); v++ {
			assert.GreaterOrEqual(t, lut[v], lut[v-1])
		}
		assert.Equal(t, uint8(0), lut[50])
		assert.Equal(t, uint8(255), lut[119])
		assert.Equal(t, uint8(255), lut[255])
	})

	t.Run("two levels", func(t *testing.T) {
		var h Histogram
		h[3] = 10
		h[4] = 30
		lut := BuildLUT(h)
		assert.Equal(t, uint8(0), lut[3])
		assert.Equal(t, uint8(255), lut[4])
	})
}

func TestComputeHistograms(t *testing.T) {
	in := bufferFromPixels(t, 2, 1, pixelformat.BGRA8, [][4]byte{
		{1, 2, 3, 255},
		{1, 5, 6, 255},
	})

	hists, err := ComputeHistograms(in)
	require.NoError(t, err)
	require.Len(t, hists, 4)
	assert.EqualValues(t, 2, hists[0][1])
	assert.EqualValues(t, 1, hists[1][2])
	assert.EqualValues(t, 2, hists[3][255])
	assert.EqualValues(t, 2, hists[2].Total())
}

func TestStats(t *testing.T) {
	in := bufferFromPixels(t, 2, 1, pixelformat.BGRA8, [][4]byte{
		{10, 20, 30, 255},
		{50, 20, 90, 255},
	})

	stats, err := Stats(in)
	require.NoError(t, err)
	require.Len(t, stats, 4)

	red := stats[0]
	assert.Equal(t, pixelformat.Red, red.Channel)
	assert.Equal(t, uint8(30), red.Min)
	assert.Equal(t, uint8(90), red.Max)
	assert.InDelta(t, 60.0, red.Mean, 0.001)
	assert.Equal(t, 2, red.Levels)

	green := stats[1]
	assert.Equal(t, 1, green.Levels)

	blue := stats[2]
	assert.Equal(t, uint8(10), blue.Min)

	alpha := stats[3]
	assert.Equal(t, pixelformat.Alpha, alpha.Channel)
	assert.Equal(t, uint8(255), alpha.Min)
}
