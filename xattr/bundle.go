package xattr

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IsAppBundle reports whether path looks like an application bundle: a
// directory named *.app with a Contents directory inside.
func IsAppBundle(path string) bool {
	if !strings.HasSuffix(strings.TrimRight(path, "/"), ".app") {
		return false
	}
	info, err := os.Stat(filepath.Join(path, "Contents"))
	return err == nil && info.IsDir()
}

// BundleID returns the CFBundleIdentifier from an app bundle's Info.plist,
// or "" if the bundle has none or the plist is not in XML form.
func BundleID(bundlePath string) string {
	if !IsAppBundle(bundlePath) {
		return ""
	}
	f, err := os.Open(filepath.Join(bundlePath, "Contents", "Info.plist"))
	if err != nil {
		return ""
	}
	defer f.Close()

	id, _ := plistString(f, "CFBundleIdentifier")
	return id
}

// plistString finds the <string> value following <key>key</key> in an XML
// property list.
func plistString(r io.Reader, key string) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		inKey   bool
		matched bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "key":
				inKey = true
				matched = false
			case matched && t.Name.Local == "string":
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return "", err
				}
				return strings.TrimSpace(s), nil
			default:
				matched = false
			}
		case xml.CharData:
			if inKey {
				matched = strings.TrimSpace(string(t)) == key
			}
		case xml.EndElement:
			if t.Name.Local == "key" {
				inKey = false
			}
		}
	}
}
