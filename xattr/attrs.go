package xattr

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// QuarantineAttr is the attribute Gatekeeper attaches to downloaded files.
const QuarantineAttr = "com.apple.quarantine"

// ErrUnsupported is returned by List on platforms without listxattr(2).
var ErrUnsupported = errors.New("extended attributes not supported on this platform")

// FileAttrs holds the attribute names found on a single file.
type FileAttrs struct {
	Path  string   `json:"path" yaml:"path"`
	Names []string `json:"names" yaml:"names"`
}

// Report summarizes the attributes found beneath a root path.
type Report struct {
	Root     string      `json:"root" yaml:"root"`
	BundleID string      `json:"bundle_id,omitempty" yaml:"bundle_id,omitempty"`
	Scanned  int         `json:"scanned" yaml:"scanned"`
	Files    []FileAttrs `json:"files,omitempty" yaml:"files,omitempty"`
}

// Quarantined reports whether any scanned file carries QuarantineAttr.
func (r Report) Quarantined() bool {
	for _, f := range r.Files {
		if slices.Contains(f.Names, QuarantineAttr) {
			return true
		}
	}
	return false
}

// Count returns the total number of attributes found.
func (r Report) Count() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Names)
	}
	return n
}

// Scan lists attributes on root and, when root is a directory (such as an
// .app bundle), on everything beneath it. Symbolic links are not followed.
// Files whose filesystem does not support extended attributes are counted
// but contribute no names.
func Scan(ctx context.Context, root string) (Report, error) {
	rep := Report{Root: root, BundleID: BundleID(root)}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		rep.Scanned++
		names, err := List(path)
		if err != nil {
			if errors.Is(err, ErrUnsupported) {
				return nil
			}
			return err
		}
		if len(names) > 0 {
			rep.Files = append(rep.Files, FileAttrs{Path: path, Names: names})
		}
		return nil
	})
	return rep, err
}

// splitNames parses the NUL-separated name list returned by listxattr(2).
func splitNames(buf []byte) []string {
	var names []string
	for _, name := range strings.Split(string(buf), "\x00") {
		if name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
