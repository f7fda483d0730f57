package kind

import (
	"errors"
	"fmt"
)

// ErrStructureChanged reports that no row-locating expression matched the
// result area and no "no results" marker was present either; the table
// format is unrecognized.
var ErrStructureChanged = errors.New("result table structure not recognized")

// ErrVerificationFailed reports that an action ran but its expected effect
// did not materialize (checkbox still unchecked, page number unchanged).
var ErrVerificationFailed = errors.New("action effect not observed")

// StepError wraps a failure of one named form-configuration step together
// with its criticality. Only required steps abort the current sub-range.
type StepError struct {
	Step     string
	Required bool
	Err      error
}

func (e *StepError) Error() string {
	kind := "optional"
	if e.Required {
		kind = "required"
	}
	return fmt.Sprintf("%s step %q failed: %v", kind, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
