package schedule

import (
	"fmt"
	"time"
)

// CancelError reports a failed cancel-all step. The run is aborted: adding
// on top of an unknown existing set would risk duplicate firings.
type CancelError struct {
	Err error
}

func (e *CancelError) Error() string {
	return fmt.Sprintf("canceling scheduled notifications: %v", e.Err)
}

func (e *CancelError) Unwrap() error {
	return e.Err
}

// SubmitFailure records one rejected submission.
type SubmitFailure struct {
	EventType EventType
	FireAt    time.Time
	Err       error
}

// SubmitError aggregates the submission failures of a run. The run attempts
// every submission regardless: a partial future set is more useful than none.
type SubmitError struct {
	Failures []SubmitFailure
}

func (e *SubmitError) Error() string {
	if len(e.Failures) == 1 {
		f := e.Failures[0]
		return fmt.Sprintf("1 notification submission failed (%s at %s): %v",
			f.EventType, f.FireAt.Format(time.RFC3339), f.Err)
	}
	return fmt.Sprintf("%d notification submissions failed", len(e.Failures))
}
