package equalize

import (
	"errors"
	"fmt"

	"github.com/kpfaulkner/histeq-go/image"
	"github.com/kpfaulkner/histeq-go/util"
)

var ErrEqualizationFailed = errors.New("equalization failed")

// Kernel histogram-equalizes flat pixel buffers. Output data is taken from
// pool when one is set.
type Kernel struct {
	pool *util.SlicePool[byte]
}

func NewKernel(pool *util.SlicePool[byte]) *Kernel {
	return &Kernel{pool: pool}
}

// Equalize is a convenience wrapper around an unpooled Kernel.
func Equalize(in *image.FlatPixelBuffer) (*image.FlatPixelBuffer, error) {
	return NewKernel(nil).Equalize(in)
}

// Equalize returns a new buffer with the same dimensions, stride and format as
// in, with every colour channel remapped by its own equalizing LUT. Alpha and
// row padding are copied verbatim. in is not modified; the caller owns and
// must Release the result.
func (k *Kernel) Equalize(in *image.FlatPixelBuffer) (*image.FlatPixelBuffer, error) {
	hists, err := ComputeHistograms(in)
	if err != nil {
		return nil, err
	}

	bpp := in.BytesPerPixel()
	alpha := in.Format.AlphaIndex()
	luts := make([][levels]uint8, bpp)
	for c := range luts {
		if c != alpha {
			luts[c] = BuildLUT(hists[c])
		}
	}

	var out *image.FlatPixelBuffer
	if k.pool != nil {
		out, err = image.NewPooledFlatPixelBuffer(k.pool, in.Width, in.Height, in.RowStride, in.Format)
	} else {
		out, err = image.NewFlatPixelBuffer(in.Width, in.Height, in.RowStride, in.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEqualizationFailed, err)
	}
	copy(out.Data, in.Data)

	for y := 0; y < out.Height; y++ {
		row := out.Row(y)
		for off := 0; off < len(row); off += bpp {
			for c := 0; c < bpp; c++ {
				if c == alpha {
					continue
				}
				row[off+c] = luts[c][row[off+c]]
			}
		}
	}
	return out, nil
}
