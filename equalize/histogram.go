package equalize

import (
	"fmt"

	"github.com/kpfaulkner/histeq-go/image"
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/kpfaulkner/histeq-go/util"
)

const levels = 256

// Histogram counts occurrences of each 8-bit level in one channel.
type Histogram [levels]uint64

func (h *Histogram) Total() uint64 {
	var total uint64
	for _, n := range h {
		total += n
	}
	return total
}

// ComputeHistograms returns one histogram per byte of the pixel, indexed in
// the buffer's channel order. Row padding is not counted.
func ComputeHistograms(buf *image.FlatPixelBuffer) ([]Histogram, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEqualizationFailed, err)
	}
	if buf.Format.BitsPerComponent() != 8 {
		return nil, fmt.Errorf("%w: %d bits per component not supported", ErrEqualizationFailed, buf.Format.BitsPerComponent())
	}

	bpp := buf.BytesPerPixel()
	hists := make([]Histogram, bpp)
	for y := 0; y < buf.Height; y++ {
		row := buf.Row(y)
		for off := 0; off < len(row); off += bpp {
			for c := 0; c < bpp; c++ {
				hists[c][row[off+c]]++
			}
		}
	}
	return hists, nil
}

// BuildLUT derives the equalizing remap for one channel. The lowest occupied
// level maps to 0 and the highest to 255, with the cumulative distribution
// spread linearly between them. A channel with a single level (or no
// samples) gets the identity mapping.
func BuildLUT(h Histogram) [levels]uint8 {
	var cdf [levels]uint64
	var running uint64
	for v := range h {
		running += h[v]
		cdf[v] = running
	}
	total := running

	var cdfMin uint64
	for v := range h {
		if h[v] != 0 {
			cdfMin = cdf[v]
			break
		}
	}

	var lut [levels]uint8
	if total == cdfMin {
		for v := range lut {
			lut[v] = uint8(v)
		}
		return lut
	}

	denom := total - cdfMin
	for v := range lut {
		if cdf[v] <= cdfMin {
			continue
		}
		lut[v] = uint8(util.Clamp(util.RoundDiv((cdf[v]-cdfMin)*(levels-1), denom), 0, levels-1))
	}
	return lut
}

type ChannelStats struct {
	Channel pixelformat.Channel
	Min     uint8
	Max     uint8
	Mean    float64

	// number of distinct levels present
	Levels int
}

// Stats summarises each channel of buf, reported in R, G, B, A order
// regardless of the buffer's byte order.
func Stats(buf *image.FlatPixelBuffer) ([]ChannelStats, error) {
	hists, err := ComputeHistograms(buf)
	if err != nil {
		return nil, err
	}

	channels := []pixelformat.Channel{pixelformat.Red, pixelformat.Green, pixelformat.Blue, pixelformat.Alpha}
	stats := make([]ChannelStats, 0, len(channels))
	for _, ch := range channels {
		h := hists[buf.Format.Index(ch)]
		s := ChannelStats{Channel: ch, Min: 255}
		var sum, total uint64
		for v, n := range h {
			if n == 0 {
				continue
			}
			s.Levels++
			s.Min = min(s.Min, uint8(v))
			s.Max = max(s.Max, uint8(v))
			sum += uint64(v) * n
			total += n
		}
		s.Mean = util.IfThenElse(total > 0, float64(sum)/float64(total), 0)
		stats = append(stats, s)
	}
	return stats, nil
}
