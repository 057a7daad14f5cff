package options

import "github.com/kpfaulkner/histeq-go/pixelformat"

type ProcessorOptions struct {
	// log every state transition at debug level
	Debug bool

	// interchange format flat buffers are converted into
	Format pixelformat.PixelFormat

	// take pixel buffers from a shared pool rather than allocating per call
	ReuseBuffers bool
}

func NewProcessorOptions(options *ProcessorOptions) *ProcessorOptions {

	opt := &ProcessorOptions{
		Format:       pixelformat.RGBA8,
		ReuseBuffers: true,
	}
	if options != nil {
		opt.Debug = options.Debug
		opt.ReuseBuffers = options.ReuseBuffers
		if options.Format.IsValid() {
			opt.Format = options.Format
		}
	}
	return opt
}
