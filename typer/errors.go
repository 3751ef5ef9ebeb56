package typer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBusy is returned when a typing operation is already in flight.
// Interleaved synthesis would corrupt output ordering, so concurrent
// triggers are rejected rather than queued.
var ErrBusy = errors.New("typing operation already in progress")

// ExhaustedError is the only hard failure the engine surfaces: every
// strategy in the fallback chain failed. It carries the audit trail.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Strategy, a.Err)
	}
	return "all typing strategies failed: " + strings.Join(parts, "; ")
}
