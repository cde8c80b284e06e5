package itto

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/session"
)

func newScreen(t *testing.T) (*ITTOScreen, *session.Session) {
	t.Helper()
	ds, err := dataset.EmbeddedProvider{}.Load(context.Background())
	require.NoError(t, err)
	sess, err := session.New(context.Background(), ds, session.Options{})
	require.NoError(t, err)
	return New(sess), sess
}

var enter = tea.KeyPressMsg{Code: tea.KeyEnter}

// choose moves the menu cursor to item i and presses Enter.
func choose(s *ITTOScreen, i int) {
	s.menu.Selected = i
	s.Update(enter)
}

// confirm enters path at the prompt and runs the resulting action.
func confirm(t *testing.T, s *ITTOScreen, path string) {
	t.Helper()
	s.input.SetValue(path)
	_, cmd := s.Update(enter)
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "No imported ITTO data yet.", Status(0))
	assert.Equal(t, "Imported ITTO data for 3 process(es).", Status(3))
}

func TestImportFailure(t *testing.T) {
	assert.Equal(t, "ITTO import failed: invalid JSON.", ImportFailure(dataset.ErrInvalidOverlayJSON))
	assert.Equal(t, "ITTO import failed: expected { ittosByProcessId: { ... } }.", ImportFailure(dataset.ErrInvalidOverlayShape))
}

func TestImportFromFile(t *testing.T) {
	s, sess := newScreen(t)
	path := filepath.Join(t.TempDir(), "itto.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ittosByProcessId":{"4.1":{"inputs":["Agreements"],"toolsAndTechniques":[],"outputs":["Project charter"]}}}`), 0o644))

	choose(s, 0)
	require.True(t, s.HandlesEscape(), "import should open the path prompt")
	confirm(t, s, path)

	assert.False(t, s.HandlesEscape())
	assert.False(t, s.failed)
	assert.Equal(t, 1, sess.OverlayCount())
	assert.Contains(t, s.View(100, 30), "Imported ITTO data for 1 process(es).")
}

func TestImportInvalidJSONLeavesOverlay(t *testing.T) {
	s, sess := newScreen(t)
	_, err := sess.ImportOverlay(context.Background(), `{"ittosByProcessId":{"4.1":{}}}`)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	choose(s, 0)
	confirm(t, s, path)

	assert.True(t, s.failed)
	assert.Equal(t, "ITTO import failed: invalid JSON.", s.status)
	assert.Equal(t, 1, sess.OverlayCount())
}

func TestImportWrongShape(t *testing.T) {
	s, _ := newScreen(t)
	path := filepath.Join(t.TempDir(), "shape.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"processes":[]}`), 0o644))

	choose(s, 0)
	confirm(t, s, path)

	assert.True(t, s.failed)
	assert.Equal(t, "ITTO import failed: expected { ittosByProcessId: { ... } }.", s.status)
}

func TestExportAndTemplate(t *testing.T) {
	s, sess := newScreen(t)
	_, err := sess.ImportOverlay(context.Background(), `{"ittosByProcessId":{"4.1":{"inputs":["Agreements"]}}}`)
	require.NoError(t, err)
	dir := t.TempDir()

	exportPath := filepath.Join(dir, "out.json")
	choose(s, 1)
	assert.Equal(t, DefaultExportPath, s.input.Value())
	confirm(t, s, exportPath)
	require.False(t, s.failed, s.status)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var exported dataset.Overlay
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Contains(t, exported.ITTOsByProcessID, "4.1")

	templatePath := filepath.Join(dir, "template.json")
	choose(s, 2)
	confirm(t, s, templatePath)
	require.False(t, s.failed, s.status)

	data, err = os.ReadFile(templatePath)
	require.NoError(t, err)
	var tmpl dataset.Overlay
	require.NoError(t, json.Unmarshal(data, &tmpl))
	assert.Len(t, tmpl.ITTOsByProcessID, 49)
}

func TestClear(t *testing.T) {
	s, sess := newScreen(t)
	_, err := sess.ImportOverlay(context.Background(), `{"ittosByProcessId":{"4.1":{}}}`)
	require.NoError(t, err)

	s.menu.Selected = 3
	_, cmd := s.Update(enter)
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.Equal(t, 0, sess.OverlayCount())
	assert.Equal(t, "Cleared imported ITTO data.", s.status)
}

func TestEscapeCancelsPrompt(t *testing.T) {
	s, sess := newScreen(t)
	choose(s, 0)
	require.True(t, s.HandlesEscape())

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.False(t, s.HandlesEscape())
	assert.Equal(t, 0, sess.OverlayCount())
	assert.True(t, strings.Contains(s.View(100, 30), "Import from file"))
}

func TestEmptyPathIsRejected(t *testing.T) {
	s, _ := newScreen(t)
	choose(s, 0)
	s.input.SetValue("   ")
	_, cmd := s.Update(enter)
	assert.Nil(t, cmd)
	assert.True(t, s.HandlesEscape(), "prompt should stay open")
}
