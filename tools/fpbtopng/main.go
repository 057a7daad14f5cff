package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/kpfaulkner/histeq-go/imageformats"
	log "github.com/sirupsen/logrus"
)

func main() {
	infile := flag.String("i", "", "input fpb snapshot")
	outfile := flag.String("o", "", "output png file")
	flag.Parse()

	if *infile == "" || *outfile == "" {
		fmt.Printf("both input and output files must be specified\n")
		os.Exit(1)
	}

	in, err := os.Open(*infile)
	if err != nil {
		log.Errorf("Error opening file: %v\n", err)
		return
	}
	defer in.Close()

	start := time.Now()
	buf, err := imageformats.ReadSnapshot(in)
	if err != nil {
		log.Errorf("Error reading snapshot: %v", err)
		return
	}
	fmt.Printf("decoding took %d ms\n", time.Since(start).Milliseconds())
	fmt.Printf("%dx%d stride %d format %v\n", buf.Width, buf.Height, buf.RowStride, buf.Format)

	img, err := imageformats.ToNRGBA(buf)
	if err != nil {
		log.Fatalf("boomage %v", err)
	}

	out, err := os.Create(*outfile)
	if err != nil {
		log.Fatalf("boomage %v", err)
	}
	defer out.Close()

	startEncoding := time.Now()
	if err := png.Encode(out, img); err != nil {
		log.Fatalf("boomage %v", err)
	}
	fmt.Printf("encoding took %d ms\n", time.Since(startEncoding).Milliseconds())
}
