package imageformats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/kpfaulkner/histeq-go/image"
	"github.com/kpfaulkner/histeq-go/pixelformat"
)

// SnapshotMagic starts every flat pixel buffer snapshot (.fpb) file.
const SnapshotMagic = "FPB1"

// upper bound on decoded pixel data, 1 GiB
const maxSnapshotBytes = 1 << 30

type snapshotHeader struct {
	Width            uint32
	Height           uint32
	RowStride        uint32
	BitsPerComponent uint8
	ChannelsPerPixel uint8
	Order            uint8
	ColorSpaceLen    uint8
}

// SnapshotInfo is the decoded header of a snapshot.
type SnapshotInfo struct {
	Width     int
	Height    int
	RowStride int
	Format    pixelformat.PixelFormat
}

// WriteSnapshot writes buf, padding included, as a big-endian header followed
// by a zstd compressed copy of the pixel data.
func WriteSnapshot(buf *image.FlatPixelBuffer, output io.Writer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	cs := string(buf.Format.ColorSpace())
	if len(cs) > 255 {
		return fmt.Errorf("colour space name too long: %d bytes", len(cs))
	}

	if _, err := io.WriteString(output, SnapshotMagic); err != nil {
		return err
	}
	hdr := snapshotHeader{
		Width:            uint32(buf.Width),
		Height:           uint32(buf.Height),
		RowStride:        uint32(buf.RowStride),
		BitsPerComponent: uint8(buf.Format.BitsPerComponent()),
		ChannelsPerPixel: uint8(buf.Format.ChannelsPerPixel()),
		Order:            uint8(buf.Format.Order()),
		ColorSpaceLen:    uint8(len(cs)),
	}
	if err := binary.Write(output, binary.BigEndian, hdr); err != nil {
		return err
	}
	if _, err := io.WriteString(output, cs); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(output)
	if err != nil {
		return err
	}
	if _, err := enc.Write(buf.Data); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadSnapshotInfo reads and validates only the header, leaving r positioned
// at the start of the compressed pixel data.
func ReadSnapshotInfo(r io.Reader) (SnapshotInfo, error) {
	magic := make([]byte, len(SnapshotMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return SnapshotInfo{}, err
	}
	if string(magic) != SnapshotMagic {
		return SnapshotInfo{}, errors.New("not a flat pixel buffer snapshot")
	}

	var hdr snapshotHeader
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return SnapshotInfo{}, err
	}
	cs := make([]byte, hdr.ColorSpaceLen)
	if _, err := io.ReadFull(r, cs); err != nil {
		return SnapshotInfo{}, err
	}

	format, err := pixelformat.New(int(hdr.BitsPerComponent), int(hdr.ChannelsPerPixel), pixelformat.ChannelOrder(hdr.Order), pixelformat.ColorSpace(cs))
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("snapshot format: %w", err)
	}
	info := SnapshotInfo{
		Width:     int(hdr.Width),
		Height:    int(hdr.Height),
		RowStride: int(hdr.RowStride),
		Format:    format,
	}
	if info.Width <= 0 || info.Height <= 0 || info.RowStride < info.Width*format.BytesPerPixel() {
		return SnapshotInfo{}, fmt.Errorf("invalid snapshot geometry %dx%d stride %d", info.Width, info.Height, info.RowStride)
	}
	if uint64(info.RowStride)*uint64(info.Height) > maxSnapshotBytes {
		return SnapshotInfo{}, fmt.Errorf("snapshot too large: %dx%d stride %d", info.Width, info.Height, info.RowStride)
	}
	return info, nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot into a new, unpooled buffer.
func ReadSnapshot(r io.Reader) (*image.FlatPixelBuffer, error) {
	info, err := ReadSnapshotInfo(r)
	if err != nil {
		return nil, err
	}

	buf, err := image.NewFlatPixelBuffer(info.Width, info.Height, info.RowStride, info.Format)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	if _, err := io.ReadFull(dec, buf.Data); err != nil {
		return nil, fmt.Errorf("snapshot pixel data: %w", err)
	}
	return buf, nil
}
