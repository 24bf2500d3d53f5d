package types

import (
	"fmt"
	"time"
)

// DegenerateLabelError reports that a labeling step had no atoms to
// sample from. It fails the current learning attempt and is not
// retried internally.
type DegenerateLabelError struct {
	Msg string
}

func (e *DegenerateLabelError) Error() string {
	return "degenerate labels: " + e.Msg
}

// UnsupportedStrategyError reports a configuration naming an
// unrecognized policy.
type UnsupportedStrategyError struct {
	Strategy string
}

func (e *UnsupportedStrategyError) Error() string {
	return fmt.Sprintf("unsupported strategy %q", e.Strategy)
}

// PlannerFailureError is the planner collaborator's failure result.
type PlannerFailureError struct {
	Msg string
}

func (e *PlannerFailureError) Error() string {
	return "planner failure: " + e.Msg
}

// PlannerTimeoutError is the planner collaborator's timeout result.
type PlannerTimeoutError struct {
	Timeout time.Duration
}

func (e *PlannerTimeoutError) Error() string {
	return fmt.Sprintf("planner timed out after %s", e.Timeout)
}
