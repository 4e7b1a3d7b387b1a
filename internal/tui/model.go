// Package tui renders the result log as a live terminal list.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmc/enableapp"
)

// EntryMsg tells the model that an entry was prepended to the log.
type EntryMsg enableapp.ResultEntry

// SubmittedMsg tells the model that an item was dropped and is in progress.
type SubmittedMsg struct{ Path string }

// ErrMsg reports a fatal error from the surrounding program.
type ErrMsg struct{ Err error }

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	messageStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(4)
)

// Model displays a drop-folder header and the log, newest first.
type Model struct {
	dir     string
	log     *enableapp.ResultLog
	pending int
	height  int
	err     error
}

// New returns a model that renders log for the drop folder dir.
func New(dir string, log *enableapp.ResultLog) Model {
	return Model{dir: dir, log: log}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case SubmittedMsg:
		m.pending++
	case EntryMsg:
		if m.pending > 0 {
			m.pending--
		}
	case ErrMsg:
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// Pending returns the number of items dropped but not yet finished.
func (m Model) Pending() int {
	return m.pending
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Drop .app bundles into "+m.dir) + "\n")
	b.WriteString(hintStyle.Render("Removes quarantine & damage flags via xattr -cr") + "\n")
	if m.pending > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf("Processing %d item(s)...", m.pending)) + "\n")
	}
	b.WriteString("\n")

	entries := m.log.Entries()
	limit := len(entries)
	if m.height > 0 {
		// Each entry takes up to two lines; keep the header and footer visible.
		if room := (m.height - 6) / 2; room < limit {
			limit = max(room, 1)
		}
	}
	for _, e := range entries[:min(limit, len(entries))] {
		marker := okStyle.Render("✓")
		if !e.Success {
			marker = failStyle.Render("✗")
		}
		b.WriteString(marker + " " + e.Name + "\n")
		if e.HasMessage() {
			msg, _, _ := strings.Cut(e.Message, "\n")
			b.WriteString(messageStyle.Render(msg) + "\n")
		}
	}
	if hidden := len(entries) - limit; hidden > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf("... %d older", hidden)) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + failStyle.Render("error: "+m.err.Error()) + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("q to quit") + "\n")
	return b.String()
}
