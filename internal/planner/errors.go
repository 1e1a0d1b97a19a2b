package planner

import (
	"errors"
	"fmt"
)

// ErrPlanInFlight is returned when a generation run is requested while
// another run for the same Planner is still executing.
var ErrPlanInFlight = errors.New("a grocery plan generation is already in flight")

// MalformedResponseError indicates the provider text failed JSON parsing
// even after stripping formatting artifacts. Raw carries the original text
// for diagnostics.
type MalformedResponseError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("stage %s: malformed response: %v. Response: %s", e.Stage, e.Err, e.Raw)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError indicates parsed JSON is missing a required key, a key
// has the wrong container type, or a per-entry required field is absent.
// Index is -1 for top-level keys.
type SchemaMismatchError struct {
	Stage string
	Field string
	Index int
}

func (e *SchemaMismatchError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("stage %s: schema mismatch: entry %d is missing required field '%s'", e.Stage, e.Index, e.Field)
	}
	return fmt.Sprintf("stage %s: schema mismatch: missing or wrong-typed key '%s'", e.Stage, e.Field)
}
