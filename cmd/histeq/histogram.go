package main

import (
	"fmt"
	"image"
	"image/draw"

	histeq "github.com/kpfaulkner/histeq-go"
	"github.com/kpfaulkner/histeq-go/bridge"
	"github.com/kpfaulkner/histeq-go/equalize"
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/spf13/cobra"
)

var histogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Print per-channel level statistics for an image",
	RunE:  runHistogram,
}

var channelNames = map[pixelformat.Channel]string{
	pixelformat.Red:   "R",
	pixelformat.Green: "G",
	pixelformat.Blue:  "B",
	pixelformat.Alpha: "A",
}

func init() {
	histogramCmd.Flags().StringP("input", "i", "", "Input image")
	histogramCmd.Flags().Bool("equalized", false, "Also show statistics after equalization")
	histogramCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(histogramCmd)
}

func printStats(title string, stats []equalize.ChannelStats) {
	fmt.Println(title)
	for _, s := range stats {
		fmt.Printf("  %s  min %3d  max %3d  mean %7.2f  levels %3d\n", channelNames[s.Channel], s.Min, s.Max, s.Mean, s.Levels)
	}
}

func statsOf(img image.Image) ([]equalize.ChannelStats, error) {
	n := image.NewNRGBA(img.Bounds())
	draw.Draw(n, n.Rect, img, img.Bounds().Min, draw.Src)

	flat, err := bridge.ImportBuffer(bridge.NRGBABuffer{Image: n}, pixelformat.RGBA8, nil)
	if err != nil {
		return nil, err
	}
	return equalize.Stats(flat)
}

func runHistogram(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	showEqualized, _ := cmd.Flags().GetBool("equalized")

	img, _, err := loadImage(inputPath)
	if err != nil {
		return err
	}

	stats, err := statsOf(img)
	if err != nil {
		return err
	}
	printStats(inputPath, stats)

	if !showEqualized {
		return nil
	}
	out, err := histeq.Equalize(img)
	if err != nil {
		return fmt.Errorf("equalization: %w", err)
	}
	eqStats, err := statsOf(out)
	if err != nil {
		return err
	}
	printStats("equalized", eqStats)
	return nil
}
