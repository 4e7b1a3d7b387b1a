package xattr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeCommand writes an executable shell script into a temp dir and returns
// its path.
func fakeCommand(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "xattr")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("Failed to write fake command: %v", err)
	}
	return path
}

func TestCommandClearer_Clear(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		wantCode        int
		wantStderr      string
		wantUndecodable bool
	}{
		{
			name:     "success",
			body:     "exit 0",
			wantCode: 0,
		},
		{
			name:     "stdout is discarded",
			body:     "echo cleared; exit 0",
			wantCode: 0,
		},
		{
			name:       "permission denied",
			body:       "echo '  Permission denied  ' >&2; exit 1",
			wantCode:   1,
			wantStderr: "Permission denied",
		},
		{
			name:       "multi-line stderr is trimmed at the edges only",
			body:       "printf '\\nline one\\nline two\\n\\n' >&2; exit 2",
			wantCode:   2,
			wantStderr: "line one\nline two",
		},
		{
			name:     "empty stderr",
			body:     "exit 3",
			wantCode: 3,
		},
		{
			name:            "invalid utf-8",
			body:            "printf '\\377\\376' >&2; exit 1",
			wantCode:        1,
			wantUndecodable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CommandClearer{Path: fakeCommand(t, tt.body)}
			got, err := c.Clear(context.Background(), "/Applications/Foo.app")
			if err != nil {
				t.Fatalf("Clear() error = %v, want nil", err)
			}
			if got.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", got.ExitCode, tt.wantCode)
			}
			if got.Stderr != tt.wantStderr {
				t.Errorf("Stderr = %q, want %q", got.Stderr, tt.wantStderr)
			}
			if got.Undecodable != tt.wantUndecodable {
				t.Errorf("Undecodable = %v, want %v", got.Undecodable, tt.wantUndecodable)
			}
			if got.OK() != (tt.wantCode == 0) {
				t.Errorf("OK() = %v, want %v", got.OK(), tt.wantCode == 0)
			}
		})
	}
}

func TestCommandClearer_Arguments(t *testing.T) {
	out := filepath.Join(t.TempDir(), "args")
	c := &CommandClearer{Path: fakeCommand(t, `printf '%s\n' "$@" > "`+out+`"`)}

	if _, err := c.Clear(context.Background(), "/Applications/Foo Bar.app"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read recorded args: %v", err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{"-cr", "/Applications/Foo Bar.app"}
	if len(got) != len(want) {
		t.Fatalf("args = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCommandClearer_LaunchFailure(t *testing.T) {
	dir := t.TempDir()
	notExec := filepath.Join(dir, "not-executable")
	if err := os.WriteFile(notExec, []byte("#!/bin/sh\nexit 0\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing executable", path: filepath.Join(dir, "does-not-exist")},
		{name: "not executable", path: notExec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CommandClearer{Path: tt.path}
			res, err := c.Clear(context.Background(), "/tmp/whatever")
			if err == nil {
				t.Fatalf("Clear() error = nil, want launch error (result %+v)", res)
			}
			var launchErr *LaunchError
			if !errors.As(err, &launchErr) {
				t.Fatalf("Clear() error = %T %v, want *LaunchError", err, err)
			}
			if launchErr.Command != tt.path {
				t.Errorf("LaunchError.Command = %q, want %q", launchErr.Command, tt.path)
			}
			if err.Error() == "" {
				t.Error("LaunchError has empty description")
			}
		})
	}
}

func TestCommandClearer_Defaults(t *testing.T) {
	var nilClearer *CommandClearer
	if got := nilClearer.command(); got != DefaultCommand {
		t.Errorf("nil clearer command = %q, want %q", got, DefaultCommand)
	}
	if got := NewCommandClearer().command(); got != DefaultCommand {
		t.Errorf("NewCommandClearer().command() = %q, want %q", got, DefaultCommand)
	}
	args := Args("/Applications/Foo.app")
	if len(args) != 2 || args[0] != "-cr" || args[1] != "/Applications/Foo.app" {
		t.Errorf("Args() = %q", args)
	}
}
