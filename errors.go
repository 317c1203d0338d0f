package outlining

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrActionNotFound = errors.New("specified action was not found")
	ErrNoActiveView   = errors.New("there is no active text view")
)

// StatusError is a failed host call carrying the host's status code.
type StatusError struct {
	Op   string
	Code Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with status %d", e.Op, e.Code)
}

// CheckStatus converts a host status code into an error.
func CheckStatus(op string, code Status) error {
	if code == StatusOK {
		return nil
	}
	return &StatusError{Op: op, Code: code}
}

// ConfigurationError means a required host service was unavailable when
// the command was set up.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "required service(s) unavailable: " + strings.Join(e.Missing, ", ")
}

// PerViewFailure is a failure confined to a single view. Err may join
// several step failures; Step names the first one.
type PerViewFailure struct {
	Index int
	Step  Step
	Err   error
}

func (e *PerViewFailure) Error() string {
	return fmt.Sprintf("view #%d: %s: %s", e.Index, e.Step, e.Err)
}

func (e *PerViewFailure) Unwrap() error {
	return e.Err
}

// add records a failure at step. The first step recorded is the one
// reported by Step.
func (e *PerViewFailure) add(step Step, err error) *PerViewFailure {
	if e == nil {
		return &PerViewFailure{Step: step, Err: err}
	}
	e.Err = stderrors.Join(e.Err, errors.Wrap(err, string(step)))
	return e
}

// IsPerViewFailure reports whether err, or anything it wraps, is a
// *PerViewFailure.
func IsPerViewFailure(err error) bool {
	var pvf *PerViewFailure
	return errors.As(err, &pvf)
}
