// Package xattr clears and inspects extended attributes on files and
// application bundles.
//
// Clearing is delegated to the system xattr utility, invoked as
//
//	/usr/bin/xattr -cr <path>
//
// which removes every extended attribute (com.apple.quarantine included)
// from the path and everything beneath it. Inspection uses listxattr(2)
// directly and never modifies anything.
package xattr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// DefaultCommand is the attribute-clearing utility shipped with macOS.
const DefaultCommand = "/usr/bin/xattr"

// ClearFlag asks xattr to clear all attributes recursively. Paths without
// attributes are not treated as errors.
const ClearFlag = "-cr"

// Result is the outcome of a clearing command that was started successfully.
type Result struct {
	// ExitCode is the exit status of the command. Zero means success.
	ExitCode int
	// Stderr is the command's standard error, trimmed of surrounding
	// whitespace. Empty when nothing was written or when Undecodable is set.
	Stderr string
	// Undecodable reports that standard error was not valid UTF-8.
	Undecodable bool
}

// OK reports whether the command exited with status zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// LaunchError reports that the clearing command could not be started at all,
// as opposed to starting and exiting non-zero.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// CommandClearer clears attributes by running an external command.
// The zero value runs DefaultCommand.
type CommandClearer struct {
	// Path overrides the executable. Only tests set it.
	Path string
}

// NewCommandClearer returns a clearer that runs DefaultCommand.
func NewCommandClearer() *CommandClearer {
	return &CommandClearer{}
}

func (c *CommandClearer) command() string {
	if c == nil || c.Path == "" {
		return DefaultCommand
	}
	return c.Path
}

// Args returns the argument list passed to the command for path.
func Args(path string) []string {
	return []string{ClearFlag, path}
}

// Clear runs the clearing command on path and blocks until it exits.
//
// A nil error means the command ran; inspect Result.ExitCode for the outcome.
// A *LaunchError means it never started. The path is passed through
// unvalidated, so a missing path surfaces as a non-zero exit.
func (c *CommandClearer) Clear(ctx context.Context, path string) (Result, error) {
	name := c.command()
	cmd := exec.CommandContext(ctx, name, Args(path)...)

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, &LaunchError{Command: name, Err: err}
	}

	err := cmd.Wait()
	res := decodeStderr(stderr.Bytes())
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode == 0 {
			// Terminated by a signal; ExitCode reports -1 in that case, but
			// guard against platforms that report zero.
			res.ExitCode = -1
		}
		return res, nil
	}

	// Wait failed for a reason other than the exit status (for example a
	// broken stderr copy). The process did run, so report it as a failed
	// execution rather than a launch failure.
	if res.Stderr == "" {
		res.Stderr = err.Error()
		res.Undecodable = false
	}
	res.ExitCode = -1
	return res, nil
}

func decodeStderr(b []byte) Result {
	if !utf8.Valid(b) {
		return Result{Undecodable: true}
	}
	return Result{Stderr: strings.TrimSpace(string(b))}
}
