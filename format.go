package enableapp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"
)

// NameWidth is the display width of the name column in table output.
const NameWidth = 28

// Supported output formats for FormatEntries.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists every format accepted by FormatEntries.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// FormatEntries renders entries in the given format ("table", "json", or
// "yaml"). An empty format means "table". Entries are written in the order
// given, which for ResultLog.Entries is newest first.
func FormatEntries(entries []ResultEntry, format string) (string, error) {
	switch format {
	case FormatJSON:
		if entries == nil {
			entries = []ResultEntry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case FormatYAML:
		if entries == nil {
			entries = []ResultEntry{}
		}
		data, err := yaml.Marshal(entries)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case FormatTable, "":
		var b strings.Builder
		b.WriteString("Status | Name                         | Message\n")
		b.WriteString("-------|------------------------------|----------------------------------------\n")
		for _, e := range entries {
			// Only the first line of multi-line stderr fits a table row.
			msg, _, _ := strings.Cut(e.Message, "\n")
			fmt.Fprintf(&b, "%-6s | %s | %s\n", statusLabel(e), FitColumn(e.Name, NameWidth), msg)
		}
		return b.String(), nil

	default:
		return "", &Error{
			Op:   "format entries",
			Err:  fmt.Errorf("unsupported format: %s", format),
			Help: "use one of: " + strings.Join(Formats, ", "),
		}
	}
}

// FitColumn truncates s to width terminal cells, marking the cut with "...",
// and pads it with spaces to exactly width cells. Wide characters count as
// two cells and are never split.
func FitColumn(s string, width int) string {
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "...")
	}
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// FormatEntry renders a single entry as one line: a check or cross marker,
// the item name, and the message if present.
func FormatEntry(e ResultEntry) string {
	marker := "✓"
	if !e.Success {
		marker = "✗"
	}
	if !e.HasMessage() {
		return marker + " " + e.Name
	}
	return fmt.Sprintf("%s %s: %s", marker, e.Name, e.Message)
}

func statusLabel(e ResultEntry) string {
	if e.Success {
		return "ok"
	}
	return "FAILED"
}
