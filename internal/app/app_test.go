package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/abhisek/pmdrill/internal/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	ds, err := dataset.EmbeddedProvider{}.Load(context.Background())
	require.NoError(t, err)
	sess, err := session.New(context.Background(), ds, session.Options{})
	require.NoError(t, err)
	return sess
}

func TestNewAppModel_FirstRunShowsWelcome(t *testing.T) {
	m := newAppModel(Options{Session: newSession(t)})
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Welcome", m.router.Active().Title())
}

func TestNewAppModel_ReturningLearnerSkipsWelcome(t *testing.T) {
	sess := newSession(t)
	_, err := sess.NextRound()
	require.NoError(t, err)
	_, err = sess.Answer(context.Background(), "x")
	require.NoError(t, err)

	m := newAppModel(Options{Session: sess})
	assert.Equal(t, "Home", m.router.Active().Title())
}

func TestNewAppModel_StartMode(t *testing.T) {
	m := newAppModel(Options{Session: newSession(t), StartMode: quiz.ModeSequence})
	assert.Equal(t, 2, m.router.Depth())
	assert.Equal(t, quiz.ModeSequence.Title(), m.router.Active().Title())
	assert.NotNil(t, m.Init())
}

func TestEscPopsToHome(t *testing.T) {
	m := newAppModel(Options{Session: newSession(t), StartMode: quiz.ModeGroup})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Home", m.router.Active().Title())

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd, "Esc on the root screen does nothing")
}

func TestViewUsesAltScreen(t *testing.T) {
	m := newAppModel(Options{Session: newSession(t)})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.True(t, updated.(AppModel).View().AltScreen)
}

func TestFooterHints(t *testing.T) {
	m := newAppModel(Options{Session: newSession(t), StartMode: quiz.ModeGroup})
	hints := m.footerHints()
	require.NotEmpty(t, hints)
	assert.Equal(t, "Ctrl+C", hints[len(hints)-1].Key)

	var keys []string
	for _, h := range hints {
		keys = append(keys, h.Key)
	}
	assert.Contains(t, strings.Join(keys, " "), "1-4")
}
