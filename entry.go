package enableapp

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a processed item ended.
type Outcome string

const (
	// OutcomeCleared means the command exited zero.
	OutcomeCleared Outcome = "cleared"
	// OutcomeLaunchFailed means the command could not be started.
	OutcomeLaunchFailed Outcome = "launch-failed"
	// OutcomeExecFailed means the command ran and exited non-zero.
	OutcomeExecFailed Outcome = "exec-failed"
)

// SuccessMessage accompanies every successful entry.
const SuccessMessage = "Attributes cleared"

// UnknownError is the failure message used when the command exited non-zero
// without writing readable text to standard error.
const UnknownError = "Unknown error"

// ResultEntry records the outcome of processing one item.
// Entries are values; the log hands out copies, so a stored entry never changes.
type ResultEntry struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Path        string    `json:"path" yaml:"path"`
	Success     bool      `json:"success" yaml:"success"`
	Message     string    `json:"message,omitempty" yaml:"message,omitempty"`
	Outcome     Outcome   `json:"outcome" yaml:"outcome"`
	ExitCode    int       `json:"exit_code" yaml:"exit_code"`
	ProcessedAt time.Time `json:"processed_at" yaml:"processed_at"`
}

// HasMessage reports whether the entry carries a message.
func (e ResultEntry) HasMessage() bool {
	return e.Message != ""
}

// DisplayName returns the last path component of path, ignoring trailing
// separators, e.g. "Foo.app" for "/Applications/Foo.app/".
func DisplayName(path string) string {
	trimmed := strings.TrimRight(path, string(filepath.Separator))
	if trimmed == "" {
		if path == "" {
			return ""
		}
		return string(filepath.Separator)
	}
	return filepath.Base(trimmed)
}
