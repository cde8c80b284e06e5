package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/abhisek/pmdrill/internal/router"
	"github.com/abhisek/pmdrill/internal/screen"
	"github.com/abhisek/pmdrill/internal/screens/drill"
	"github.com/abhisek/pmdrill/internal/screens/flow"
	"github.com/abhisek/pmdrill/internal/screens/history"
	"github.com/abhisek/pmdrill/internal/screens/itto"
	"github.com/abhisek/pmdrill/internal/session"
	"github.com/abhisek/pmdrill/internal/store"
	"github.com/abhisek/pmdrill/internal/ui/components"
	"github.com/abhisek/pmdrill/internal/ui/layout"
	"github.com/abhisek/pmdrill/internal/ui/theme"
)

// statsResetMsg reports the result of resetting the score.
type statsResetMsg struct {
	Err error
}

// HomeScreen is the main menu: one entry per drill mode plus the study,
// ITTO and history views.
type HomeScreen struct {
	sess   *session.Session
	menu   components.Menu
	status string
	ittos  int
	counts string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen. events may be nil, which disables history.
func New(sess *session.Session, events store.EventRepo) *HomeScreen {
	ds := sess.Dataset()
	h := &HomeScreen{
		sess:  sess,
		ittos: sess.OverlayCount(),
		counts: fmt.Sprintf("%d processes · %d groups · %d knowledge areas",
			len(ds.Processes), len(ds.ProcessGroups), len(ds.KnowledgeAreas)),
	}

	var items []components.MenuItem
	for _, m := range quiz.Modes() {
		items = append(items, components.MenuItem{
			Label: m.Title(),
			Hint:  modeHint(m),
			Action: func() tea.Cmd {
				return push(drill.New(sess, m))
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "Study flow", Hint: "processes by group", Action: func() tea.Cmd {
			return push(flow.New(sess.Dataset()))
		}},
		components.MenuItem{Label: "ITTO data", Hint: "import, export, clear", Action: func() tea.Cmd {
			return push(itto.New(sess))
		}},
		components.MenuItem{Label: "History", Hint: "recent answers", Disabled: events == nil, Action: func() tea.Cmd {
			return push(history.New(events))
		}},
		components.MenuItem{Label: "Reset stats", Action: h.resetStats},
		components.MenuItem{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	)

	h.menu = components.NewMenu(items)
	h.status = "Choose a mode and press Enter."
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func modeHint(m quiz.Mode) string {
	switch m {
	case quiz.ModeGroup:
		return "which process group?"
	case quiz.ModeKnowledgeArea:
		return "which knowledge area?"
	case quiz.ModeBoth:
		return "group and area together"
	case quiz.ModeSequence:
		return "which of two comes first?"
	case quiz.ModeITTO:
		return "inputs, tools, outputs"
	}
	return ""
}

func (h *HomeScreen) resetStats() tea.Cmd {
	return func() tea.Msg {
		return statsResetMsg{Err: h.sess.ResetStats(context.Background())}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes the overlay status after returning from another screen.
func (h *HomeScreen) Resume() tea.Cmd {
	h.ittos = h.sess.OverlayCount()
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "1-9", Description: "Quick pick"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsResetMsg); ok {
		if msg.Err != nil {
			h.status = "Could not reset stats: " + msg.Err.Error()
		} else {
			h.status = "Stats reset."
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("PMBOK Process Drill"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(h.counts))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())
	b.WriteString("\n")
	b.WriteString(theme.Dimmed.Render(itto.Status(h.ittos)))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(h.status))

	card := theme.Card.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
