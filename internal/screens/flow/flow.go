package flow

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/screen"
	"github.com/abhisek/pmdrill/internal/ui/layout"
	"github.com/abhisek/pmdrill/internal/ui/theme"
)

// FlowScreen is the study view: every process group with its processes in
// ID order.
type FlowScreen struct {
	groups []dataset.FlowGroup
	offset int
	height int
}

var _ screen.Screen = (*FlowScreen)(nil)
var _ screen.KeyHintProvider = (*FlowScreen)(nil)

// New creates a study view over ds.
func New(ds *dataset.Dataset) *FlowScreen {
	return &FlowScreen{groups: ds.Flow()}
}

func (s *FlowScreen) Init() tea.Cmd {
	return nil
}

func (s *FlowScreen) Title() string {
	return "Study Flow"
}

func (s *FlowScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FlowScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	page := max(s.height-1, 1)
	switch kmsg.String() {
	case "up", "k":
		s.scroll(-1)
	case "down", "j":
		s.scroll(1)
	case "pgup":
		s.scroll(-page)
	case "pgdown", "space":
		s.scroll(page)
	case "home", "g":
		s.offset = 0
	case "end", "G":
		s.scroll(len(s.lines()))
	}
	return s, nil
}

func (s *FlowScreen) scroll(delta int) {
	maxOffset := max(len(s.lines())-s.height, 0)
	s.offset = min(max(s.offset+delta, 0), maxOffset)
}

// lines renders the plain study text, one entry per line.
func (s *FlowScreen) lines() []string {
	var out []string
	for i, g := range s.groups {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, theme.Selected.Render(fmt.Sprintf("%s (%d)", g.Name, len(g.Processes))))
		for _, p := range g.Processes {
			out = append(out, fmt.Sprintf("  %-5s %s  %s",
				p.ID, theme.Body.Render(p.Name), theme.Dimmed.Render(p.KnowledgeArea)))
		}
	}
	return out
}

func (s *FlowScreen) View(width, height int) string {
	s.height = max(height-2, 1)
	lines := s.lines()
	s.offset = min(s.offset, max(len(lines)-s.height, 0))

	end := min(s.offset+s.height, len(lines))
	visible := lines[s.offset:end]

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range visible {
		b.WriteString("  ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	if end < len(lines) {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render(fmt.Sprintf("… %d more", len(lines)-end)))
	}
	return b.String()
}
