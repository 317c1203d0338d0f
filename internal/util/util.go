package util

import (
	"github.com/pkg/errors"
)

type causer interface {
	Cause() error
}

type exitStatuser interface {
	ExitStatus() int
}

type exitStatusError struct {
	error
	status int
}

func (e *exitStatusError) ExitStatus() int { return e.status }
func (e *exitStatusError) Cause() error    { return e.error }
func (e *exitStatusError) Unwrap() error   { return e.error }

// WithExitStatus attaches a process exit status to err. A nil err stays nil.
func WithExitStatus(err error, status int) error {
	if err == nil {
		return nil
	}
	return &exitStatusError{error: err, status: status}
}

// GetExitStatus walks the cause chain of err looking for an exit status.
// When none is found it returns 1 and false.
func GetExitStatus(err error) (int, bool) {
	for e := err; e != nil; {
		if ese, ok := e.(exitStatuser); ok {
			return ese.ExitStatus(), true
		}
		if cerr, ok := e.(causer); ok {
			e = cerr.Cause()
			continue
		}
		var ese exitStatuser
		if errors.As(e, &ese) {
			return ese.ExitStatus(), true
		}
		break
	}
	return 1, false
}
