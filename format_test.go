package enableapp

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func sampleEntries() []ResultEntry {
	return []ResultEntry{
		{
			ID:       uuid.New(),
			Name:     "Locked.app",
			Path:     "/Applications/Locked.app",
			Message:  "Permission denied\nsecond line",
			Outcome:  OutcomeExecFailed,
			ExitCode: 1,
		},
		{
			ID:      uuid.New(),
			Name:    "Foo.app",
			Path:    "/Applications/Foo.app",
			Success: true,
			Message: SuccessMessage,
			Outcome: OutcomeCleared,
		},
	}
}

func TestFormatEntries_Table(t *testing.T) {
	for _, format := range []string{"", FormatTable} {
		out, err := FormatEntries(sampleEntries(), format)
		if err != nil {
			t.Fatalf("FormatEntries(%q) error = %v", format, err)
		}
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		if len(lines) != 4 {
			t.Fatalf("table has %d lines, want 4:\n%s", len(lines), out)
		}
		if !strings.HasPrefix(lines[2], "FAILED | Locked.app") || !strings.HasSuffix(lines[2], "| Permission denied") {
			t.Errorf("row 1 = %q", lines[2])
		}
		if !strings.HasPrefix(lines[3], "ok     | Foo.app") || !strings.HasSuffix(lines[3], SuccessMessage) {
			t.Errorf("row 2 = %q", lines[3])
		}
	}
}

func TestFormatEntries_TableTruncatesLongNames(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"ascii", strings.Repeat("x", 40) + ".app"},
		{"cjk", "日日日日日日日日日日日日.app"},
		{"accented", strings.Repeat("é", 30) + ".app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FormatEntries([]ResultEntry{{Name: tt.entry, Success: true, Message: SuccessMessage}}, FormatTable)
			if err != nil {
				t.Fatalf("FormatEntries() error = %v", err)
			}
			if !utf8.ValidString(out) {
				t.Fatalf("output is not valid UTF-8: %q", out)
			}
			if strings.Contains(out, tt.entry) {
				t.Error("long name was not truncated")
			}
			rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
			cells := strings.Split(rows[len(rows)-1], " | ")
			if len(cells) != 3 {
				t.Fatalf("row %q has %d cells, want 3", rows[len(rows)-1], len(cells))
			}
			if !strings.HasSuffix(strings.TrimRight(cells[1], " "), "...") {
				t.Errorf("truncated name %q has no ellipsis", cells[1])
			}
			if w := ansi.StringWidth(cells[1]); w != NameWidth {
				t.Errorf("name column width = %d, want %d", w, NameWidth)
			}
		})
	}
}

func TestFitColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Foo.app", "Foo.app   "},
		{"0123456789", "0123456789"},
		{"0123456789AB", "0123456..."},
		{"日本語.app", "日本語.app"},
		{"日本語日本語.app", "日本語... "},
		{"", "          "},
	}
	for _, tt := range tests {
		if got := FitColumn(tt.in, 10); got != tt.want {
			t.Errorf("FitColumn(%q, 10) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatEntries_JSON(t *testing.T) {
	entries := sampleEntries()
	out, err := FormatEntries(entries, FormatJSON)
	if err != nil {
		t.Fatalf("FormatEntries() error = %v", err)
	}
	var got []ResultEntry
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got) != 2 || got[0].ID != entries[0].ID || got[1].Name != "Foo.app" {
		t.Errorf("decoded = %+v", got)
	}

	empty, err := FormatEntries(nil, FormatJSON)
	if err != nil {
		t.Fatalf("FormatEntries(nil) error = %v", err)
	}
	if strings.TrimSpace(empty) != "[]" {
		t.Errorf("empty JSON = %q, want []", empty)
	}
}

func TestFormatEntries_YAML(t *testing.T) {
	out, err := FormatEntries(sampleEntries(), FormatYAML)
	if err != nil {
		t.Fatalf("FormatEntries() error = %v", err)
	}
	var got []map[string]any
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(got) != 2 {
		t.Fatalf("decoded %d entries, want 2", len(got))
	}
	if got[0]["name"] != "Locked.app" || got[0]["success"] != false {
		t.Errorf("entry 0 = %v", got[0])
	}
	if got[1]["outcome"] != string(OutcomeCleared) {
		t.Errorf("entry 1 outcome = %v", got[1]["outcome"])
	}
}

func TestFormatEntries_Unsupported(t *testing.T) {
	_, err := FormatEntries(sampleEntries(), "xml")
	if err == nil {
		t.Fatal("FormatEntries(xml) error = nil")
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if e.Help == "" {
		t.Error("unsupported format error has no hint")
	}
}

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		entry ResultEntry
		want  string
	}{
		{ResultEntry{Name: "Foo.app", Success: true, Message: SuccessMessage}, "✓ Foo.app: Attributes cleared"},
		{ResultEntry{Name: "Foo.app", Success: true}, "✓ Foo.app"},
		{ResultEntry{Name: "Bar.app", Message: "Permission denied"}, "✗ Bar.app: Permission denied"},
	}
	for _, tt := range tests {
		if got := FormatEntry(tt.entry); got != tt.want {
			t.Errorf("FormatEntry() = %q, want %q", got, tt.want)
		}
	}
}
