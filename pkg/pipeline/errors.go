package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrRunNotSubmitted is wrapped by OrphanedRunError.
var ErrRunNotSubmitted = errors.New("run created but not submitted")

// OrphanedRunError reports a run that was created but whose submission failed. The backend
// keeps the unsubmitted run; cleaning it up is left to the caller.
type OrphanedRunError struct {
	RunID string
	Err   error
}

func (e *OrphanedRunError) Error() string {
	return fmt.Sprintf("%s: run %s: %v", ErrRunNotSubmitted, e.RunID, e.Err)
}

// Unwrap exposes both the sentinel and the submission error.
func (e *OrphanedRunError) Unwrap() []error { return []error{ErrRunNotSubmitted, e.Err} }
