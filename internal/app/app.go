package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/abhisek/pmdrill/internal/router"
	"github.com/abhisek/pmdrill/internal/screen"
	"github.com/abhisek/pmdrill/internal/screens/drill"
	"github.com/abhisek/pmdrill/internal/screens/home"
	"github.com/abhisek/pmdrill/internal/screens/welcome"
	"github.com/abhisek/pmdrill/internal/session"
	"github.com/abhisek/pmdrill/internal/store"
	"github.com/abhisek/pmdrill/internal/ui/layout"
)

// Options wires the TUI to the drill session and the answer log.
type Options struct {
	Session *session.Session

	// Events feeds the history screen. Nil hides it.
	Events store.EventRepo

	// StartMode opens a drill in this mode on top of the home screen.
	// Empty starts on the home screen.
	StartMode quiz.Mode
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	session *session.Session
	initCmd tea.Cmd
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen, plus a drill
// screen when a start mode is given. A learner with no answers yet sees
// the welcome intro first.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen { return home.New(opts.Session, opts.Events) }

	var root screen.Screen
	if opts.StartMode == "" && opts.Session.Stats().Total == 0 {
		root = welcome.New(homeFactory)
	} else {
		root = homeFactory()
	}
	r := router.New(root)
	m := AppModel{router: r, session: opts.Session}
	if opts.StartMode != "" {
		m.initCmd = r.Push(drill.New(opts.Session, opts.StartMode))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.initCmd)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if eh, ok := m.router.Active().(screen.EscapeHandler); ok && eh.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var score layout.Score
	if m.session != nil {
		s := m.session.Stats()
		score = layout.Score{Streak: s.Streak, Correct: s.Correct, Total: s.Total}
	}
	header := layout.RenderHeader(title, score, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-layout.HeaderHeight-layout.FooterHeight, 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints() []layout.KeyHint {
	if hp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
