//go:build !darwin && !linux

package xattr

// List returns ErrUnsupported.
func List(path string) ([]string, error) {
	return nil, ErrUnsupported
}
