//go:build darwin || linux

package xattr

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// List returns the sorted extended attribute names set on path.
func List(path string) ([]string, error) {
	for {
		sz, err := unix.Listxattr(path, nil)
		if err != nil {
			return nil, listErr(path, err)
		}
		if sz == 0 {
			return nil, nil
		}
		buf := make([]byte, sz)
		n, err := unix.Listxattr(path, buf)
		if errors.Is(err, unix.ERANGE) {
			// Attributes were added between the two calls.
			continue
		}
		if err != nil {
			return nil, listErr(path, err)
		}
		return splitNames(buf[:n]), nil
	}
}

func listErr(path string, err error) error {
	if errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.EOPNOTSUPP) {
		return fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	return fmt.Errorf("listxattr %s: %w", path, err)
}
