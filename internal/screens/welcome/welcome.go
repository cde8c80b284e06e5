package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pmdrill/internal/router"
	"github.com/abhisek/pmdrill/internal/screen"
	"github.com/abhisek/pmdrill/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 300 * time.Millisecond
	introAt      = 900 * time.Millisecond
	readyAt      = 1500 * time.Millisecond
)

// introLines reveal one per tick after the banner.
var introLines = []string{
	"Drill the 49 PMBOK processes until they stick.",
	"",
	"Process → Group and Process → Knowledge Area ask where a process belongs.",
	"Sequence asks which of two processes comes earlier.",
	"ITTO drills inputs, tools and outputs once you import your own data.",
	"",
	"Every answer counts toward your streak, saved between runs.",
}

type tickMsg time.Time

// WelcomeScreen is the first-run introduction. Any key after the intro has
// played replaces it with the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= readyAt {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		if w.elapsed >= readyAt {
			return w, w.transition()
		}
		// First key skips the animation.
		w.elapsed = readyAt
		return w, nil
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// visibleIntro returns how many intro lines have been revealed.
func (w *WelcomeScreen) visibleIntro() int {
	if w.elapsed < introAt {
		return 0
	}
	n := int((w.elapsed-introAt)/tickInterval) + 1
	if w.elapsed >= readyAt {
		n = len(introLines)
	}
	return min(n, len(introLines))
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed >= bannerAt {
		sections = append(sections, RenderBanner(width), "")
	}

	body := lipgloss.NewStyle().Foreground(theme.Text)
	for _, l := range introLines[:w.visibleIntro()] {
		sections = append(sections, body.Render(l))
	}

	if w.elapsed >= readyAt {
		sections = append(sections, "", theme.Hint.Render("press any key to continue"))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
