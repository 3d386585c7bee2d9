package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/crewboard/internal/board"
)

var levelIcons = map[board.Level]string{
	board.LevelSuccess: "✅",
	board.LevelInfo:    "ℹ️ ",
	board.LevelWarning: "⚠️ ",
	board.LevelError:   "❌",
}

func levelColor(l board.Level) string {
	switch l {
	case board.LevelSuccess:
		return ColorSuccess
	case board.LevelWarning:
		return ColorWarning
	case board.LevelError:
		return ColorError
	}
	return ColorInfo
}

// TerminalSink prints events as single styled lines, for commands that run
// outside the board screen.
type TerminalSink struct {
	Out io.Writer
}

func (s TerminalSink) Emit(e board.Event) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(levelColor(e.Level))).Render(e.Title)
	fmt.Fprintf(s.Out, "%s %s %s\n", levelIcons[e.Level], title, e.Message)
}
