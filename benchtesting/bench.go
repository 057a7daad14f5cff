package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/kpfaulkner/histeq-go/bridge"
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/kpfaulkner/histeq-go/processor"
	"github.com/kpfaulkner/histeq-go/util"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
)

// gradient builds a low contrast BGRA test frame.
func gradient(width int, height int) *bridge.MemoryBuffer {
	buf, err := bridge.NewMemoryBuffer(width, height, 0, pixelformat.BGRA8)
	if err != nil {
		log.Fatalf("boomage %v", err)
	}
	for y := 0; y < height; y++ {
		row := buf.Pix[y*buf.RowBytes():]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+4]
			p[0] = byte(90 + (x*40)/width)
			p[1] = byte(100 + (y*40)/height)
			p[2] = byte(110 + ((x+y)*20)/(width+height))
			p[3] = 255
		}
	}
	return buf
}

func fromFile(path string) *bridge.NRGBABuffer {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("boomage %v", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		log.Fatalf("boomage %v", err)
	}
	n := image.NewNRGBA(img.Bounds())
	for y := n.Rect.Min.Y; y < n.Rect.Max.Y; y++ {
		for x := n.Rect.Min.X; x < n.Rect.Max.X; x++ {
			n.Set(x, y, img.At(x, y))
		}
	}
	return &bridge.NRGBABuffer{Image: n}
}

func main() {
	infile := flag.String("i", "", "optional input image, defaults to a synthetic gradient")
	size := flag.Int("size", 4096, "width and height of the synthetic gradient")
	iterations := flag.Int("iter", 20, "number of Process calls")
	mode := flag.String("profile", "cpu", "profile mode (cpu, mem)")
	flag.Parse()

	var p interface{ Stop() }
	switch *mode {
	case "mem":
		p = profile.Start(profile.MemProfileHeap, profile.ProfilePath("."))
	default:
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	}
	defer p.Stop()

	var input, output bridge.PlatformImageBuffer
	if *infile != "" {
		in := fromFile(*infile)
		input = in
		output = &bridge.NRGBABuffer{Image: image.NewNRGBA(in.Image.Rect)}
	} else {
		input = gradient(*size, *size)
		output = gradient(*size, *size)
	}

	pool := util.NewSlicePool[byte]()
	stage, err := processor.NewStage(processor.WithPool(pool))
	if err != nil {
		log.Fatalf("boomage %v", err)
	}

	start := time.Now()
	for count := 0; count < *iterations; count++ {
		iterStart := time.Now()
		if err := stage.Process(input, output, pixelformat.RGBA8); err != nil {
			log.Errorf("Error processing: %v", err)
			return
		}
		fmt.Printf("iteration %d took %d ms\n", count, time.Since(iterStart).Milliseconds())
	}

	hits, misses := pool.GetMetrics()
	fmt.Printf("%dx%d, %d iterations, total %d ms\n", input.Width(), input.Height(), *iterations, time.Since(start).Milliseconds())
	fmt.Printf("pool hits %d misses %d outstanding %d\n", hits, misses, pool.Outstanding())
}
