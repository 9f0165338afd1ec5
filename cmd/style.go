package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0ea5a4"))
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#94a3b8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Italic(true)
)

// painter renders styles only when writing to a terminal, so piped output
// and test buffers stay plain.
type painter struct{ on bool }

func painterFor(w io.Writer) painter {
	f, ok := w.(*os.File)
	return painter{on: ok && term.IsTerminal(int(f.Fd()))}
}

func (p painter) render(s lipgloss.Style, text string) string {
	if !p.on {
		return text
	}
	return s.Render(text)
}
