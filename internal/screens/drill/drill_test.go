package drill

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/abhisek/pmdrill/internal/router"
	"github.com/abhisek/pmdrill/internal/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	ds, err := dataset.EmbeddedProvider{}.Load(context.Background())
	if err != nil {
		t.Fatalf("load embedded dataset: %v", err)
	}
	sess, err := session.New(context.Background(), ds, session.Options{
		Rand: rand.New(rand.NewPCG(5, 6)),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return sess
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// step sends msg to the screen and feeds the message its command produces
// back in, the way the runtime would.
func step(t *testing.T, s *DrillScreen, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := s.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	s.Update(out)
	return out
}

func startedScreen(t *testing.T, mode quiz.Mode) (*DrillScreen, *session.Session) {
	t.Helper()
	sess := newTestSession(t)
	s := New(sess, mode)
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("Init returned no command")
	}
	s.Update(cmd())
	if s.question == nil {
		t.Fatalf("no question after Init (err %q)", s.errMsg)
	}
	return s, sess
}

func TestDrill_InitBuildsQuestion(t *testing.T) {
	s, sess := startedScreen(t, quiz.ModeKnowledgeArea)
	if sess.Mode() != quiz.ModeKnowledgeArea {
		t.Errorf("session mode = %s, want ka", sess.Mode())
	}
	view := s.View(100, 30)
	if !strings.Contains(view, s.question.Kind) {
		t.Errorf("view missing kind chip %q", s.question.Kind)
	}
	if s.Title() != quiz.ModeKnowledgeArea.Title() {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestDrill_OneAnswerPerRound(t *testing.T) {
	s, sess := startedScreen(t, quiz.ModeGroup)

	msg := step(t, s, key('1'))
	if _, ok := msg.(answerScoredMsg); !ok {
		t.Fatalf("expected answerScoredMsg, got %T", msg)
	}
	if s.outcome == nil {
		t.Fatal("expected an outcome after answering")
	}
	if got := sess.Stats().Total; got != 1 {
		t.Fatalf("total = %d, want 1", got)
	}

	// Further digit keys are ignored until the next round.
	step(t, s, key('2'))
	step(t, s, key('3'))
	if got := sess.Stats().Total; got != 1 {
		t.Errorf("total after extra keys = %d, want 1", got)
	}
}

func TestDrill_FeedbackText(t *testing.T) {
	s, _ := startedScreen(t, quiz.ModeGroup)
	step(t, s, key('1'))

	view := s.View(100, 30)
	if s.outcome.Correct {
		if !strings.Contains(view, "Correct.") {
			t.Error("view missing correct feedback")
		}
	} else {
		if !strings.Contains(view, "Not quite.") {
			t.Error("view missing incorrect feedback")
		}
	}
	if !strings.Contains(view, "Next question") {
		t.Error("view missing next button")
	}
}

func TestDrill_WrongAnswerShowsExplanation(t *testing.T) {
	s, _ := startedScreen(t, quiz.ModeGroup)

	wrong := 0
	if s.question.CorrectIndex() == 0 {
		wrong = 1
	}
	step(t, s, key(rune('1'+wrong)))

	if s.outcome == nil || s.outcome.Correct {
		t.Fatal("expected an incorrect outcome")
	}
	view := s.View(120, 30)
	if !strings.Contains(view, "Not quite.") {
		t.Error("view missing incorrect feedback")
	}
}

func TestDrill_EnterAdvancesAfterAnswer(t *testing.T) {
	s, sess := startedScreen(t, quiz.ModeSequence)
	first := s.question

	// Enter before answering submits the highlighted choice.
	step(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.outcome == nil {
		t.Fatal("expected Enter to submit the highlighted choice")
	}

	msg := step(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := msg.(questionReadyMsg); !ok {
		t.Fatalf("expected questionReadyMsg, got %T", msg)
	}
	if s.outcome != nil {
		t.Error("outcome should clear on the next round")
	}
	if s.question == first {
		t.Error("expected a new question")
	}
	if sess.Phase() != session.PhaseQuestion {
		t.Errorf("phase = %v, want PhaseQuestion", sess.Phase())
	}
}

func TestDrill_FinishWithoutAnswersPops(t *testing.T) {
	s, _ := startedScreen(t, quiz.ModeGroup)
	_, cmd := s.Update(key('q'))
	if cmd == nil {
		t.Fatal("expected a command on q")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg when nothing was answered")
	}
}

func TestDrill_FinishShowsSummary(t *testing.T) {
	s, _ := startedScreen(t, quiz.ModeGroup)
	step(t, s, key('1'))

	_, cmd := s.Update(key('q'))
	if cmd == nil {
		t.Fatal("expected a command on q")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if msg.Screen.Title() != "Session Summary" {
		t.Errorf("replacement title = %q", msg.Screen.Title())
	}
}

func TestDrill_ITTOWithoutDataShowsSentinel(t *testing.T) {
	s, _ := startedScreen(t, quiz.ModeITTO)
	if s.question.ID != quiz.NoITTOQuestionID {
		t.Fatalf("question id = %q, want the no-data placeholder", s.question.ID)
	}
	if !strings.Contains(s.View(120, 30), "No ITTO data is loaded yet") {
		t.Error("view missing the import hint")
	}
}
