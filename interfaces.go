package enableapp

import (
	"context"

	"github.com/tmc/enableapp/xattr"
)

// Clearer defines the interface for removing extended attributes from a path.
// This interface separates the external command from the pipeline,
// enabling tests to substitute a fake.
type Clearer interface {
	// Clear removes every extended attribute from path, recursively, and
	// blocks until done. A nil error means the operation ran; the Result
	// carries its exit status. A non-nil error means it could not start.
	Clear(ctx context.Context, path string) (xattr.Result, error)
}

// ClearerFunc adapts an ordinary function to the Clearer interface.
type ClearerFunc func(ctx context.Context, path string) (xattr.Result, error)

// Clear calls f(ctx, path).
func (f ClearerFunc) Clear(ctx context.Context, path string) (xattr.Result, error) {
	return f(ctx, path)
}

var _ Clearer = (*xattr.CommandClearer)(nil)
