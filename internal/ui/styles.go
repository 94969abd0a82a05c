package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all lipgloss styles for terminal output
type Styles struct {
	enabled bool

	// Priority styles
	Critical lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// Score bands, from strong to weak
	Strong   lipgloss.Style
	Adequate lipgloss.Style
	Weak     lipgloss.Style

	// Structural styles
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Muted     lipgloss.Style
	Quote     lipgloss.Style
	Separator lipgloss.Style

	// Icons (degraded to ASCII when not interactive)
	IconCritical string
	IconHigh     string
	IconMedium   string
	IconSuccess  string
	IconWarning  string
	IconBullet   string
}

// NewStyles creates a new Styles instance
// When enabled is false, styles return text unchanged (for non-TTY output)
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled}

	if !enabled {
		plain := lipgloss.NewStyle()
		s.Critical, s.High, s.Medium, s.Success, s.Warning = plain, plain, plain, plain, plain
		s.Strong, s.Adequate, s.Weak = plain, plain, plain
		s.Header, s.Subheader, s.Muted, s.Quote, s.Separator = plain, plain, plain, plain, plain

		s.IconCritical = "CRITICAL:"
		s.IconHigh = "HIGH:"
		s.IconMedium = "MEDIUM:"
		s.IconSuccess = "OK:"
		s.IconWarning = "WARN:"
		s.IconBullet = "-"
		return s
	}

	s.Critical = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")) // Red
	s.High = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))               // Yellow
	s.Medium = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))             // Cyan
	s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // Green
	s.Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	s.Strong = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	s.Adequate = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	s.Weak = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	s.Subheader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	s.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	s.Quote = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	s.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	s.IconCritical = "✗"
	s.IconHigh = "⚠"
	s.IconMedium = "ℹ"
	s.IconSuccess = "✓"
	s.IconWarning = "⚠"
	s.IconBullet = "•"

	return s
}

// Enabled returns whether styling is enabled
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Score picks the band style for a 0-10 score
func (s *Styles) Score(v float64) lipgloss.Style {
	switch {
	case v >= 7:
		return s.Strong
	case v >= 5:
		return s.Adequate
	default:
		return s.Weak
	}
}

// Bar renders a fixed-width bar for a 0-10 score
func (s *Styles) Bar(v float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(v/10*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	full, empty := "█", "░"
	if !s.enabled {
		full, empty = "#", "."
	}

	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += full
		} else {
			bar += empty
		}
	}
	return s.Score(v).Render(bar)
}
