package enableapp

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when submitting to a Coordinator that has been closed.
var ErrClosed = errors.New("enableapp: coordinator closed")

// Error represents an enableapp error with additional context and actionable guidance.
type Error struct {
	Op   string // Operation that failed (e.g., "watch folder", "render log")
	Err  error  // Underlying error
	Help string // Actionable guidance for the user
}

func (e *Error) Error() string {
	if e.Help != "" {
		return fmt.Sprintf("enableapp: %s: %v\n  hint: %s", e.Op, e.Err, e.Help)
	}
	return fmt.Sprintf("enableapp: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
