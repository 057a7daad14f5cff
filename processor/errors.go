package processor

import (
	"fmt"

	"github.com/kpfaulkner/histeq-go/bridge"
	"github.com/kpfaulkner/histeq-go/equalize"
)

var (
	ErrConversionFailed   = bridge.ErrConversionFailed
	ErrEqualizationFailed = equalize.ErrEqualizationFailed
)

// ProcessingError records which step of a run failed. It unwraps to
// ErrConversionFailed or ErrEqualizationFailed.
type ProcessingError struct {
	Stage State
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
