package tui

import "github.com/balkashynov/crewboard/internal/models"

// Color constants for the crewboard TUI theme
const (
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240"

	// Accent (purple)
	ColorAccentMain   = "#7C3AED" // Logo, active borders
	ColorAccentBright = "#A78BFA" // Highlights, current selection
	ColorShimmerPeak  = "#EAE6FF"

	// State
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
	ColorInfo    = "#38BDF8"
)

// statusColor is the header color of a board column
func statusColor(s models.TaskStatus) string {
	switch s {
	case models.StatusInProgress:
		return ColorWarning
	case models.StatusDone:
		return ColorSuccess
	default:
		return ColorSecondaryText
	}
}

func statusIcon(s models.TaskStatus) string {
	switch s {
	case models.StatusInProgress:
		return "◐"
	case models.StatusDone:
		return "✓"
	default:
		return "○"
	}
}
