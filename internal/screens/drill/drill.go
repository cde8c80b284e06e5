package drill

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/abhisek/pmdrill/internal/router"
	"github.com/abhisek/pmdrill/internal/screen"
	"github.com/abhisek/pmdrill/internal/screens/summary"
	"github.com/abhisek/pmdrill/internal/session"
	"github.com/abhisek/pmdrill/internal/ui/components"
	"github.com/abhisek/pmdrill/internal/ui/layout"
	"github.com/abhisek/pmdrill/internal/ui/theme"
)

// questionReadyMsg is sent when the next question has been built.
type questionReadyMsg struct {
	Question *quiz.Question
	Err      error
}

// answerScoredMsg is sent once the session has scored and persisted an answer.
type answerScoredMsg struct {
	Outcome quiz.Outcome
	Err     error
}

// DrillScreen runs multiple-choice rounds in one mode.
type DrillScreen struct {
	sess *session.Session
	mode quiz.Mode

	question *quiz.Question
	choices  components.MultiChoice
	next     components.Button
	outcome  *quiz.Outcome
	errMsg   string
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)

// New creates a drill screen for mode.
func New(sess *session.Session, mode quiz.Mode) *DrillScreen {
	s := &DrillScreen{sess: sess, mode: mode}
	s.next = components.NewButton("Next question", false, s.nextQuestion, "n")
	return s
}

func (s *DrillScreen) Init() tea.Cmd {
	if err := s.sess.SetMode(s.mode); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return s.nextQuestion()
}

func (s *DrillScreen) Title() string {
	return s.mode.Title()
}

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	if s.outcome != nil {
		return []layout.KeyHint{
			{Key: "Enter/n", Description: "Next"},
			{Key: "q", Description: "Finish"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "1-4", Description: "Answer"},
		{Key: "Enter", Description: "Submit"},
		{Key: "q", Description: "Finish"},
	}
}

func (s *DrillScreen) nextQuestion() tea.Cmd {
	return func() tea.Msg {
		q, err := s.sess.NextRound()
		return questionReadyMsg{Question: q, Err: err}
	}
}

func (s *DrillScreen) answer(choice string) tea.Cmd {
	return func() tea.Msg {
		out, err := s.sess.Answer(context.Background(), choice)
		return answerScoredMsg{Outcome: out, Err: err}
	}
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionReadyMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.question = msg.Question
		s.choices = components.NewMultiChoice(msg.Question.Choices, msg.Question.CorrectIndex())
		s.outcome = nil
		s.next.Active = false
		return s, nil

	case answerScoredMsg:
		if errors.Is(msg.Err, session.ErrAlreadyAnswered) {
			return s, nil
		}
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		out := msg.Outcome
		s.outcome = &out
		s.next.Active = true
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "q" {
		return s, s.finish()
	}
	if s.question == nil {
		return s, nil
	}

	if s.choices.Submitted {
		var cmd tea.Cmd
		s.next, cmd = s.next.Update(msg)
		return s, cmd
	}

	s.choices, _ = s.choices.Update(msg)
	if choice, ok := s.choices.Chosen(); ok {
		return s, s.answer(choice)
	}
	return s, nil
}

// finish replaces the drill with the session summary, or just leaves when
// nothing has been answered yet.
func (s *DrillScreen) finish() tea.Cmd {
	sum := s.sess.BuildSummary()
	if sum.TotalQuestions == 0 {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary.New(sum)} }
}

func (s *DrillScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\n" + s.errMsg)
	}
	q := s.question
	if q == nil {
		return center.Foreground(theme.TextDim).Render("\n\n  Building question...")
	}

	textWidth := min(max(width-8, 20), 90)
	var b strings.Builder

	b.WriteString(theme.Chip.Render(q.Kind))
	b.WriteString("  ")
	b.WriteString(theme.Dimmed.Render(q.ID))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Bold(true).Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.choices.View())

	if s.outcome != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(textWidth).Render(feedback(q, *s.outcome)))
		b.WriteString("\n\n")
		b.WriteString(s.next.View())
	}

	card := theme.Card.Width(textWidth + 6).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// feedback renders "Correct." or "Not quite. <explanation>".
func feedback(q *quiz.Question, out quiz.Outcome) string {
	if out.Correct {
		return theme.Correct.Render("Correct.")
	}
	return theme.Incorrect.Render("Not quite.") + " " + theme.Body.Render(q.Explanation)
}
