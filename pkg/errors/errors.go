// Package errors adds stack traces to errors that are reported but not returned,
// so diagnostics can point at where a best-effort step failed.
package errors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// New returns an error with a captured stack.
func New(msg string) error {
	return goerrors.Wrap(errors.New(msg), 1)
}

// Errorf formats like fmt.Errorf and captures a stack.
func Errorf(format string, args ...interface{}) error {
	return goerrors.Wrap(fmt.Errorf(format, args...), 1)
}

// Wrap captures a stack for err. Errors that already carry one are returned as is.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var withStack *goerrors.Error
	if errors.As(err, &withStack) {
		return err
	}
	return goerrors.Wrap(err, 1)
}

// ErrorStack returns the stack recorded for err, or the plain message when none was captured.
func ErrorStack(err error) string {
	if err == nil {
		return ""
	}
	var withStack *goerrors.Error
	if errors.As(err, &withStack) {
		return withStack.ErrorStack()
	}
	return err.Error()
}

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }
