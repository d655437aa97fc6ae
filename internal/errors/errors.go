// Package errors defines the failure taxonomy of the client and shared
// formatting helpers.
package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vishwaskamath/sankalp-cli/internal/logger"
)

// ErrAlreadyCompleted signals that an item was already toggled done for the
// current day. It is a defined no-op with its own feedback, not a failure.
var ErrAlreadyCompleted = errors.New("already completed today")

// ErrToggleInFlight signals that a toggle for the same item is still waiting
// on the gateway. At most one toggle per item may be outstanding.
var ErrToggleInFlight = errors.New("toggle already in flight")

// ValidationError is an input rejected locally, before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf creates a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransportError is a network failure or a malformed backend response. The
// prior client state is always preserved when one occurs.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// SemanticError carries backend-reported errors (bad credentials, duplicate
// registration, ...) joined into a single message.
type SemanticError struct {
	Messages []string
}

func (e *SemanticError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// IsSemantic reports whether err is a SemanticError.
func IsSemantic(err error) bool {
	var se *SemanticError
	return errors.As(err, &se)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
