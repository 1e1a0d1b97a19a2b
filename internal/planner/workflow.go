package planner

import "fmt"

// State is the lifecycle state of one workflow run.
type State int

const (
	StateIdle State = iota
	StateStageRunning
	StateStageDone
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateStageRunning:
		return "StageRunning"
	case StateStageDone:
		return "StageDone"
	case StateComplete:
		return "Complete"
	case StateFailed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Workflow carries validated results forward between stages and enforces the
// legal transitions: Idle -> Stage1Running -> Stage1Done -> ... -> Complete,
// with Failed(stage, err) reachable from any running state. Complete and
// Failed are terminal; there are no backward transitions.
type Workflow struct {
	state  State
	stage  int // 1-based; the stage currently running or last completed
	result *GroceryListResult
	err    error
}

// NewWorkflow returns a workflow in the Idle state.
func NewWorkflow() *Workflow {
	return &Workflow{state: StateIdle}
}

// State returns the current state.
func (w *Workflow) State() State { return w.state }

// Stage returns the stage the workflow is running or last completed.
func (w *Workflow) Stage() int { return w.stage }

// Err returns the failure cause, set only in the Failed state.
func (w *Workflow) Err() error { return w.err }

// Result returns the final aggregate, set only in the Complete state.
func (w *Workflow) Result() *GroceryListResult { return w.result }

// StartStage moves the workflow into StageRunning for stage k. Stage 1 may
// start from Idle; stage k>1 requires stage k-1 to be done.
func (w *Workflow) StartStage(k int) error {
	switch {
	case w.state == StateIdle && k == 1:
	case w.state == StateStageDone && k == w.stage+1:
	default:
		return fmt.Errorf("cannot start stage %d from state %s (stage %d)", k, w.state, w.stage)
	}
	w.state = StateStageRunning
	w.stage = k
	return nil
}

// CompleteStage marks the running stage as done, holding its validated
// output for the next stage's prompt.
func (w *Workflow) CompleteStage(k int) error {
	if w.state != StateStageRunning || w.stage != k {
		return fmt.Errorf("cannot complete stage %d from state %s (stage %d)", k, w.state, w.stage)
	}
	w.state = StateStageDone
	return nil
}

// Fail moves the workflow into the terminal Failed state. Any stage failure
// aborts the entire run; there is no partial-result recovery.
func (w *Workflow) Fail(k int, err error) error {
	if w.state == StateComplete || w.state == StateFailed {
		return fmt.Errorf("cannot fail from terminal state %s", w.state)
	}
	w.state = StateFailed
	w.stage = k
	w.err = err
	return nil
}

// Finish moves the workflow into the terminal Complete state with the final
// aggregate.
func (w *Workflow) Finish(result *GroceryListResult) error {
	if w.state != StateStageDone {
		return fmt.Errorf("cannot finish from state %s", w.state)
	}
	w.state = StateComplete
	w.result = result
	return nil
}
