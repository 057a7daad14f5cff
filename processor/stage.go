package processor

import (
	"errors"
	"fmt"

	"github.com/kpfaulkner/histeq-go/bridge"
	"github.com/kpfaulkner/histeq-go/equalize"
	"github.com/kpfaulkner/histeq-go/image"
	"github.com/kpfaulkner/histeq-go/options"
	"github.com/kpfaulkner/histeq-go/pixelformat"
	"github.com/kpfaulkner/histeq-go/util"
	log "github.com/sirupsen/logrus"
)

// Equalizer computes an equalized copy of a flat buffer. The caller owns the result.
type Equalizer interface {
	Equalize(in *image.FlatPixelBuffer) (*image.FlatPixelBuffer, error)
}

type StageOption func(s *Stage) error

func WithPool(pool *util.SlicePool[byte]) StageOption {
	return func(s *Stage) error {
		if pool == nil {
			return errors.New("nil pool")
		}
		s.pool = pool
		return nil
	}
}

func WithLogger(logger *log.Logger) StageOption {
	return func(s *Stage) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		s.logger = logger
		return nil
	}
}

func WithProcessorOptions(opts *options.ProcessorOptions) StageOption {
	return func(s *Stage) error {
		s.opts = options.NewProcessorOptions(opts)
		return nil
	}
}

// WithEqualizer replaces the default histogram kernel.
func WithEqualizer(e Equalizer) StageOption {
	return func(s *Stage) error {
		if e == nil {
			return errors.New("nil equalizer")
		}
		s.equalizer = e
		return nil
	}
}

// Stage runs import, equalize and export strictly in sequence on the calling
// goroutine. A Stage is not safe for concurrent use; separate stages may share
// a pool and run in parallel on distinct buffers.
type Stage struct {
	opts      *options.ProcessorOptions
	pool      *util.SlicePool[byte]
	equalizer Equalizer
	logger    *log.Logger

	state       State
	transitions []State
}

func NewStage(opts ...StageOption) (*Stage, error) {
	s := &Stage{
		opts:   options.NewProcessorOptions(nil),
		logger: log.StandardLogger(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying stage option: %w", err)
		}
	}

	if !s.opts.ReuseBuffers {
		s.pool = nil
	} else if s.pool == nil {
		s.pool = util.BytePool
	}
	if s.equalizer == nil {
		s.equalizer = equalize.NewKernel(s.pool)
	}
	s.transitions = []State{Idle}
	return s, nil
}

func (s *Stage) State() State {
	return s.state
}

// Transitions returns the states visited by the most recent Process call.
func (s *Stage) Transitions() []State {
	out := make([]State, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// Format is the interchange format configured through ProcessorOptions.
func (s *Stage) Format() pixelformat.PixelFormat {
	return s.opts.Format
}

func (s *Stage) enter(state State) {
	if s.opts.Debug {
		s.logger.Debugf("stage %s -> %s", s.state, state)
	}
	s.state = state
	s.transitions = append(s.transitions, state)
}

func (s *Stage) fail(err error, input bridge.PlatformImageBuffer) error {
	pe := &ProcessingError{Stage: s.state, Err: err}
	s.enter(Failed)
	fields := log.Fields{"stage": pe.Stage.String()}
	if !bridge.IsAbsent(input) {
		fields["width"] = input.Width()
		fields["height"] = input.Height()
	}
	s.logger.WithFields(fields).Errorf("equalization pipeline failed: %v", err)
	return pe
}

func checkPreconditions(input bridge.PlatformImageBuffer, output bridge.PlatformImageBuffer) error {
	if bridge.IsAbsent(input) {
		return fmt.Errorf("%w: input buffer absent", ErrConversionFailed)
	}
	if bridge.IsAbsent(output) {
		return fmt.Errorf("%w: output buffer absent", ErrConversionFailed)
	}
	if input.Width() <= 0 || input.Height() <= 0 {
		return fmt.Errorf("%w: degenerate input dimensions %dx%d", ErrConversionFailed, input.Width(), input.Height())
	}
	if input.Width() != output.Width() || input.Height() != output.Height() {
		return fmt.Errorf("%w: input is %dx%d, output is %dx%d", ErrConversionFailed,
			input.Width(), input.Height(), output.Width(), output.Height())
	}
	return nil
}

// Process writes the histogram-equalized contents of input into output,
// re-encoded into output's native layout. format is the interchange layout
// used in between. Every flat buffer acquired along the way is released before
// Process returns, whether it succeeds or not; on failure output is left
// unwritten.
func (s *Stage) Process(input bridge.PlatformImageBuffer, output bridge.PlatformImageBuffer, format pixelformat.PixelFormat) error {
	s.state = Idle
	s.transitions = append(s.transitions[:0], Idle)

	if err := checkPreconditions(input, output); err != nil {
		return s.fail(err, input)
	}

	s.enter(Importing)
	src, err := bridge.ImportBuffer(input, format, s.pool)
	if err != nil {
		return s.fail(err, input)
	}
	defer src.Release()

	s.enter(Computing)
	dst, err := s.equalizer.Equalize(src)
	if err != nil {
		return s.fail(err, input)
	}
	defer dst.Release()

	s.enter(Exporting)
	if err := bridge.ExportBuffer(dst, format, output); err != nil {
		return s.fail(err, input)
	}

	s.enter(Done)
	s.logger.WithFields(log.Fields{
		"width":  input.Width(),
		"height": input.Height(),
		"format": format.String(),
	}).Debug("equalized image")
	return nil
}
