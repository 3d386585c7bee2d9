package tui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer sweeps a highlight across the selected card's title
type Shimmer struct {
	center   float64
	paused   time.Time
	enabled  bool
	interval time.Duration
	width    float64 // highlight width as a fraction of the text
	cycle    int     // ticks per sweep
	pause    time.Duration
}

// shimmerTickMsg advances the highlight
type shimmerTickMsg struct{}

func NewShimmer(enabled bool) *Shimmer {
	return &Shimmer{
		enabled:  enabled,
		interval: 100 * time.Millisecond,
		width:    0.25,
		cycle:    18,
		pause:    500 * time.Millisecond,
	}
}

// Tick schedules the next frame, or nothing when disabled
func (s *Shimmer) Tick() tea.Cmd {
	if !s.enabled {
		return nil
	}
	return tea.Tick(s.interval, func(time.Time) tea.Msg { return shimmerTickMsg{} })
}

// Reset restarts the sweep, e.g. when the selection changes
func (s *Shimmer) Reset() {
	s.center = 0
	s.paused = time.Time{}
}

// Advance moves the highlight one frame along text of length n
func (s *Shimmer) Advance(n int, now time.Time) {
	if !s.enabled || n == 0 {
		return
	}
	if !s.paused.IsZero() {
		if now.Sub(s.paused) < s.pause {
			return
		}
		s.paused = time.Time{}
		s.center = -float64(n) * s.width
	}

	total := float64(n) * (1 + 2*s.width)
	s.center += total / float64(s.cycle)
	if end := float64(n) * (1 + s.width); s.center >= end {
		s.center = end
		s.paused = now
	}
}

// Render draws text with the highlight blended in around the current center
func (s *Shimmer) Render(text string) string {
	runes := []rune(text)
	if !s.enabled {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Render(text)
	}

	sigma := math.Max(1, s.width*float64(len(runes))/2)
	base := [3]float64{177, 184, 199} // ColorSecondaryText
	peak := [3]float64{234, 230, 255} // ColorShimmerPeak

	out := make([]byte, 0, len(text)*20)
	for i, r := range runes {
		dx := float64(i) - s.center
		w := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		c := lipgloss.Color(hex(
			base[0]*(1-w)+peak[0]*w,
			base[1]*(1-w)+peak[1]*w,
			base[2]*(1-w)+peak[2]*w,
		))
		out = append(out, lipgloss.NewStyle().Foreground(c).Bold(true).Render(string(r))...)
	}
	return string(out)
}

func hex(r, g, b float64) string {
	const digits = "0123456789ABCDEF"
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []float64{r, g, b} {
		n := int(math.Round(math.Min(255, math.Max(0, v))))
		buf[1+i*2] = digits[n>>4]
		buf[2+i*2] = digits[n&0x0F]
	}
	return string(buf)
}
