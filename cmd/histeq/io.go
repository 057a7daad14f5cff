package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpfaulkner/histeq-go/bridge"
	imagebuf "github.com/kpfaulkner/histeq-go/image"
	"github.com/kpfaulkner/histeq-go/imageformats"
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/samber/lo"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var outputFormats = []string{"png", "pam", "fpb"}

func loadImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading input: %w", err)
	}
	defer f.Close()

	img, name, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, name, nil
}

// outputFormat picks the explicit format if given, otherwise the one implied
// by the file extension.
func outputFormat(path string, explicit string) (string, error) {
	format := strings.ToLower(explicit)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if !lo.Contains(outputFormats, format) {
		return "", fmt.Errorf("unsupported output format %q, expected one of %s", format, strings.Join(outputFormats, ", "))
	}
	return format, nil
}

func writeImage(path string, format string, img *image.NRGBA, flat pixelformat.PixelFormat) error {
	var buf *imagebuf.FlatPixelBuffer
	if format != "png" {
		var err error
		if buf, err = bridge.ImportBuffer(bridge.NRGBABuffer{Image: img}, flat, nil); err != nil {
			return err
		}
		defer buf.Release()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	switch format {
	case "png":
		err = png.Encode(f, img)
	case "pam":
		err = imageformats.WritePAM(buf, f)
	default:
		err = imageformats.WriteSnapshot(buf, f)
	}
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return f.Close()
}
