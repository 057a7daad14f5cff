package pixelformat

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

type ChannelOrder int

const (
	OrderRGBA ChannelOrder = iota
	OrderBGRA
	OrderARGB
	OrderABGR
)

type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Alpha
)

// ColorSpace names the colour space pixel bytes are expressed in.
// It is carried along with the buffer but never interpreted.
type ColorSpace string

const (
	SRGB       ColorSpace = "sRGB"
	DisplayP3  ColorSpace = "Display P3"
	LinearSRGB ColorSpace = "Linear sRGB"
)

var orderNames = map[string]ChannelOrder{
	"rgba": OrderRGBA,
	"bgra": OrderBGRA,
	"argb": OrderARGB,
	"abgr": OrderABGR,
}

// channel layouts, indexed by ChannelOrder then Channel
var layouts = [...][4]int{
	OrderRGBA: {0, 1, 2, 3},
	OrderBGRA: {2, 1, 0, 3},
	OrderARGB: {1, 2, 3, 0},
	OrderABGR: {3, 2, 1, 0},
}

var (
	RGBA8 = MustNew(8, 4, OrderRGBA, SRGB)
	BGRA8 = MustNew(8, 4, OrderBGRA, SRGB)
	ARGB8 = MustNew(8, 4, OrderARGB, SRGB)
)

func (o ChannelOrder) String() string {
	switch o {
	case OrderRGBA:
		return "RGBA"
	case OrderBGRA:
		return "BGRA"
	case OrderARGB:
		return "ARGB"
	case OrderABGR:
		return "ABGR"
	default:
		return fmt.Sprintf("ChannelOrder(%d)", int(o))
	}
}

func (o ChannelOrder) valid() bool {
	return o >= OrderRGBA && o <= OrderABGR
}

// ParseChannelOrder accepts the case-insensitive names "rgba", "bgra", "argb" and "abgr".
func ParseChannelOrder(s string) (ChannelOrder, error) {
	if o, ok := orderNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return o, nil
	}
	names := lo.Keys(orderNames)
	slices.Sort(names)
	return 0, fmt.Errorf("unknown channel order %q, expected one of %s", s, strings.Join(names, ", "))
}

// PixelFormat describes how the bytes of one interleaved pixel are laid out.
// The zero value is not a usable format; construct with New.
type PixelFormat struct {
	bitsPerComponent int
	channelsPerPixel int
	order            ChannelOrder
	colorSpace       ColorSpace
}

func New(bitsPerComponent int, channelsPerPixel int, order ChannelOrder, cs ColorSpace) (PixelFormat, error) {
	if bitsPerComponent != 8 {
		return PixelFormat{}, fmt.Errorf("unsupported bits per component %d", bitsPerComponent)
	}
	if channelsPerPixel != 4 {
		return PixelFormat{}, fmt.Errorf("unsupported channels per pixel %d", channelsPerPixel)
	}
	if !order.valid() {
		return PixelFormat{}, fmt.Errorf("unsupported channel order %v", order)
	}
	if cs == "" {
		return PixelFormat{}, errors.New("colour space required")
	}

	return PixelFormat{
		bitsPerComponent: bitsPerComponent,
		channelsPerPixel: channelsPerPixel,
		order:            order,
		colorSpace:       cs,
	}, nil
}

func MustNew(bitsPerComponent int, channelsPerPixel int, order ChannelOrder, cs ColorSpace) PixelFormat {
	f, err := New(bitsPerComponent, channelsPerPixel, order, cs)
	if err != nil {
		panic(err)
	}
	return f
}

func (f PixelFormat) BitsPerComponent() int {
	return f.bitsPerComponent
}

func (f PixelFormat) ChannelsPerPixel() int {
	return f.channelsPerPixel
}

func (f PixelFormat) BitsPerPixel() int {
	return f.bitsPerComponent * f.channelsPerPixel
}

func (f PixelFormat) BytesPerPixel() int {
	return f.BitsPerPixel() / 8
}

func (f PixelFormat) Order() ChannelOrder {
	return f.order
}

func (f PixelFormat) ColorSpace() ColorSpace {
	return f.colorSpace
}

// IsValid reports whether f was produced by New.
func (f PixelFormat) IsValid() bool {
	return f.bitsPerComponent > 0 && f.channelsPerPixel > 0 && f.colorSpace != ""
}

// Index returns the byte offset of channel c within a pixel, or -1 if c is
// not one of Red, Green, Blue or Alpha.
func (f PixelFormat) Index(c Channel) int {
	if c < Red || c > Alpha || int(f.order) < 0 || int(f.order) >= len(layouts) {
		return -1
	}
	return layouts[f.order][c]
}

func (f PixelFormat) AlphaIndex() int {
	return f.Index(Alpha)
}

func (f PixelFormat) Equal(other PixelFormat) bool {
	return f == other
}

// SameLayoutFamily reports whether pixels of f and other can be converted into
// each other by reordering bytes alone.
func (f PixelFormat) SameLayoutFamily(other PixelFormat) bool {
	return f.bitsPerComponent == other.bitsPerComponent && f.channelsPerPixel == other.channelsPerPixel
}

func (f PixelFormat) String() string {
	if !f.IsValid() {
		return "invalid"
	}
	return fmt.Sprintf("%s%d (%s)", f.order, f.bitsPerComponent, f.colorSpace)
}
