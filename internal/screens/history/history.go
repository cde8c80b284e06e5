package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/abhisek/pmdrill/internal/screen"
	"github.com/abhisek/pmdrill/internal/store"
	"github.com/abhisek/pmdrill/internal/ui/components"
	"github.com/abhisek/pmdrill/internal/ui/layout"
	"github.com/abhisek/pmdrill/internal/ui/theme"
)

// RecentLimit is how many answers the screen loads.
const RecentLimit = 50

type historyLoadedMsg struct {
	Answers  []store.AnswerEvent
	Accuracy []store.ModeAccuracy
	Err      error
}

// HistoryScreen displays recent answers and per-mode accuracy from the
// answer log.
type HistoryScreen struct {
	eventRepo store.EventRepo
	answers   []store.AnswerEvent
	accuracy  []store.ModeAccuracy
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		answers, err := s.eventRepo.RecentAnswers(ctx, RecentLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Accuracy is a nice-to-have; show the answers even without it.
		accuracy, err := s.eventRepo.ModeAccuracy(ctx)
		if err != nil {
			return historyLoadedMsg{Answers: answers}
		}
		return historyLoadedMsg{Answers: answers, Accuracy: accuracy}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.answers = msg.Answers
			s.accuracy = msg.Accuracy
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.answers)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.answers) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No answers yet. Start a drill!")
	}

	var b strings.Builder
	b.WriteString("\n")

	barWidth := min(width-8, 70)
	for _, ma := range s.accuracy {
		label := fmt.Sprintf("%-34s %4d/%-4d", modeTitle(ma.Mode), ma.Correct, ma.Total)
		bar := components.NewProgressBar(label, ma.Accuracy(), true, barWidth)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
	}
	if len(s.accuracy) > 0 {
		b.WriteString("\n")
	}

	// Keep the selected row on screen.
	rows := max(height-len(s.accuracy)-4, 3)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.answers))

	for i := start; i < end; i++ {
		a := s.answers[i]
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-6s %-28s %s",
			prefix, a.Timestamp.Local().Format("Jan 02 15:04"), a.Mode, a.Kind, a.QuestionID)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)+"  "+mark))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    answered %q · correct %q", a.LearnerAnswer, a.CorrectAnswer)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func modeTitle(m string) string {
	if mode, err := quiz.ParseMode(m); err == nil {
		return mode.Title()
	}
	return m
}
