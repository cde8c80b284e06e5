package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pmdrill/internal/ui/theme"
)

// ProgressBar renders an accuracy ratio as a block bar colored by band.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar. percent is a 0..1 ratio.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     min(max(percent, 0), 1),
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the label, the bar and the optional percentage on one line.
func (p ProgressBar) View() string {
	var parts []string
	if p.Label != "" {
		parts = append(parts, theme.Body.Render(p.Label))
	}

	pct := ""
	if p.ShowPercent {
		pct = fmt.Sprintf("%3d%%", int(p.Percent*100+0.5))
	}

	used := 0
	for _, s := range parts {
		used += lipgloss.Width(s) + 2
	}
	if pct != "" {
		used += len(pct) + 2
	}
	cells := max(p.Width-used, 4)
	filled := int(float64(cells)*p.Percent + 0.5)

	fill := lipgloss.NewStyle().Foreground(theme.AccuracyColor(p.Percent))
	parts = append(parts, fill.Render(strings.Repeat("█", filled))+
		theme.ProgressEmpty.Render(strings.Repeat("░", cells-filled)))

	if pct != "" {
		parts = append(parts, theme.Dimmed.Render(pct))
	}
	return strings.Join(parts, "  ")
}
