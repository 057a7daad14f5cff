package imageformats

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kpfaulkner/histeq-go/image"
	"github.com/kpfaulkner/histeq-go/pixelformat"
)

// WritePAM writes buf as a Netpbm PAM (P7) RGB_ALPHA image. Pixels are
// reordered to RGBA whatever the buffer's channel order.
func WritePAM(buf *image.FlatPixelBuffer, output io.Writer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	w := bufio.NewWriter(output)
	header := fmt.Sprintf("P7\nWIDTH %d\nHEIGHT %d\nDEPTH 4\nMAXVAL 255\nTUPLTYPE RGB_ALPHA\nENDHDR\n", buf.Width, buf.Height)
	if _, err := w.WriteString(header); err != nil {
		return err
	}

	f := buf.Format
	order := [4]int{f.Index(pixelformat.Red), f.Index(pixelformat.Green), f.Index(pixelformat.Blue), f.AlphaIndex()}
	var px [4]byte
	for y := 0; y < buf.Height; y++ {
		row := buf.Row(y)
		for off := 0; off < len(row); off += 4 {
			for i, idx := range order {
				px[i] = row[off+idx]
			}
			if _, err := w.Write(px[:]); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
