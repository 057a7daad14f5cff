package processor

import "fmt"

// State is the position of a Stage in its linear run:
// Idle -> Importing -> Computing -> Exporting -> Done, or Failed from any step.
type State int

const (
	Idle State = iota
	Importing
	Computing
	Exporting
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Importing:
		return "importing"
	case Computing:
		return "computing"
	case Exporting:
		return "exporting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
