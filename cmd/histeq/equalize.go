package main

import (
	"fmt"
	"time"

	histeq "github.com/kpfaulkner/histeq-go"
	"github.com/kpfaulkner/histeq-go/options"
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/kpfaulkner/histeq-go/processor"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var equalizeCmd = &cobra.Command{
	Use:   "equalize",
	Short: "Equalize an image and write the result as PNG, PAM or FPB",
	RunE:  runEqualize,
}

func init() {
	equalizeCmd.Flags().StringP("input", "i", "", "Input image (png, jpeg, gif, bmp, tiff, webp, fpb)")
	equalizeCmd.Flags().StringP("output", "o", "", "Output file")
	equalizeCmd.Flags().String("output-format", "", "Output format (png, pam, fpb); defaults to the output extension")
	equalizeCmd.Flags().String("order", "rgba", "Interchange channel order (rgba, bgra, argb, abgr)")
	equalizeCmd.Flags().Bool("debug", false, "Log pipeline state transitions")
	equalizeCmd.MarkFlagRequired("input")
	equalizeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(equalizeCmd)
}

func runEqualize(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	explicitFormat, _ := cmd.Flags().GetString("output-format")
	orderStr, _ := cmd.Flags().GetString("order")
	debug, _ := cmd.Flags().GetBool("debug")

	order, err := pixelformat.ParseChannelOrder(orderStr)
	if err != nil {
		return err
	}
	flat, err := pixelformat.New(8, 4, order, pixelformat.SRGB)
	if err != nil {
		return err
	}
	format, err := outputFormat(outputPath, explicitFormat)
	if err != nil {
		return err
	}

	img, decodedAs, err := loadImage(inputPath)
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := histeq.Equalize(img, processor.WithProcessorOptions(&options.ProcessorOptions{
		Debug:        debug,
		Format:       flat,
		ReuseBuffers: true,
	}))
	if err != nil {
		return fmt.Errorf("equalization: %w", err)
	}
	log.Debugf("equalization took %d ms", time.Since(start).Milliseconds())

	if err := writeImage(outputPath, format, out, flat); err != nil {
		return err
	}

	b := out.Bounds()
	fmt.Printf("Equalized %dx%d %s image\n", b.Dx(), b.Dy(), decodedAs)
	fmt.Printf("Output: %s (%s)\n", outputPath, format)
	return nil
}
