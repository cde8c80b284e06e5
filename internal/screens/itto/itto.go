package itto

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/screen"
	"github.com/abhisek/pmdrill/internal/session"
	"github.com/abhisek/pmdrill/internal/ui/components"
	"github.com/abhisek/pmdrill/internal/ui/layout"
	"github.com/abhisek/pmdrill/internal/ui/theme"
)

// Default file names offered in the path prompt.
const (
	DefaultExportPath   = "itto.json"
	DefaultTemplatePath = "itto-template.json"
)

type action int

const (
	actionNone action = iota
	actionImport
	actionExport
	actionTemplate
)

// doneMsg carries the status line of a finished file action.
type doneMsg struct {
	Status string
	Err    bool
}

// ITTOScreen manages the user's imported ITTO data.
type ITTOScreen struct {
	sess    *session.Session
	menu    components.Menu
	input   components.TextInput
	editing action
	status  string
	failed  bool
}

var _ screen.Screen = (*ITTOScreen)(nil)
var _ screen.KeyHintProvider = (*ITTOScreen)(nil)
var _ screen.EscapeHandler = (*ITTOScreen)(nil)

// New creates the ITTO data screen.
func New(sess *session.Session) *ITTOScreen {
	s := &ITTOScreen{sess: sess}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Import from file", Hint: "replaces all imported data", Action: func() tea.Cmd {
			return s.prompt(actionImport, "")
		}},
		{Label: "Export to file", Action: func() tea.Cmd {
			return s.prompt(actionExport, DefaultExportPath)
		}},
		{Label: "Write template", Hint: "empty record for every process", Action: func() tea.Cmd {
			return s.prompt(actionTemplate, DefaultTemplatePath)
		}},
		{Label: "Clear imported data", Action: s.clear},
	})
	s.status = "Import a JSON file of the form { \"ittosByProcessId\": { ... } }."
	return s
}

// Status describes how much ITTO data the user has imported.
func Status(n int) string {
	if n == 0 {
		return "No imported ITTO data yet."
	}
	return fmt.Sprintf("Imported ITTO data for %d process(es).", n)
}

// ImportFailure renders an import error the way the status line shows it.
func ImportFailure(err error) string {
	switch {
	case errors.Is(err, dataset.ErrInvalidOverlayJSON):
		return "ITTO import failed: invalid JSON."
	case errors.Is(err, dataset.ErrInvalidOverlayShape):
		return "ITTO import failed: expected { ittosByProcessId: { ... } }."
	}
	return "ITTO import failed: " + err.Error()
}

func (s *ITTOScreen) Init() tea.Cmd {
	return nil
}

func (s *ITTOScreen) Title() string {
	return "ITTO Data"
}

// HandlesEscape reports whether Esc cancels a path prompt instead of
// leaving the screen.
func (s *ITTOScreen) HandlesEscape() bool {
	return s.editing != actionNone
}

func (s *ITTOScreen) KeyHints() []layout.KeyHint {
	if s.editing != actionNone {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ITTOScreen) prompt(a action, initial string) tea.Cmd {
	label := "File:"
	s.input = components.NewTextInput(label, "path/to/itto.json", 48)
	s.input.SetValue(initial)
	s.editing = a
	return s.input.Init()
}

func (s *ITTOScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		s.status = msg.Status
		s.failed = msg.Err
		return s, nil

	case tea.KeyMsg:
		if s.editing != actionNone {
			return s.updatePrompt(msg)
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ITTOScreen) updatePrompt(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = actionNone
		return s, nil
	case "enter":
		path := strings.TrimSpace(s.input.Value())
		if path == "" {
			s.input.Submit(false)
			return s, nil
		}
		a := s.editing
		s.editing = actionNone
		return s, s.run(a, path)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ITTOScreen) run(a action, path string) tea.Cmd {
	return func() tea.Msg {
		switch a {
		case actionImport:
			return s.importFile(path)
		case actionExport:
			text, err := s.sess.ExportOverlay()
			if err != nil {
				return doneMsg{Status: "ITTO export failed: " + err.Error(), Err: true}
			}
			if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
				return doneMsg{Status: "ITTO export failed: " + err.Error(), Err: true}
			}
			return doneMsg{Status: fmt.Sprintf("Exported imported ITTO data to %s.", path)}
		case actionTemplate:
			text, err := s.sess.Template()
			if err != nil {
				return doneMsg{Status: "Template failed: " + err.Error(), Err: true}
			}
			if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
				return doneMsg{Status: "Template failed: " + err.Error(), Err: true}
			}
			return doneMsg{Status: fmt.Sprintf("Wrote an empty ITTO template for every process to %s. Fill it in, then import it.", path)}
		}
		return nil
	}
}

func (s *ITTOScreen) importFile(path string) tea.Msg {
	data, err := os.ReadFile(path)
	if err != nil {
		return doneMsg{Status: ImportFailure(err), Err: true}
	}
	n, err := s.sess.ImportOverlay(context.Background(), string(data))
	if err != nil {
		return doneMsg{Status: ImportFailure(err), Err: true}
	}
	return doneMsg{Status: fmt.Sprintf("ITTO data imported for %d process(es). Choose the ITTO drill to practice.", n)}
}

func (s *ITTOScreen) clear() tea.Cmd {
	return func() tea.Msg {
		if err := s.sess.ClearOverlay(context.Background()); err != nil {
			return doneMsg{Status: "Could not clear ITTO data: " + err.Error(), Err: true}
		}
		return doneMsg{Status: "Cleared imported ITTO data."}
	}
}

func (s *ITTOScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(Status(s.sess.OverlayCount())))
	b.WriteString("\n\n")

	if s.editing != actionNone {
		b.WriteString(theme.Dimmed.Render(promptTitle(s.editing)))
		b.WriteString("\n")
		b.WriteString(s.input.View())
	} else {
		b.WriteString(s.menu.View())
	}
	b.WriteString("\n\n")

	statusStyle := theme.Hint
	if s.failed {
		statusStyle = lipgloss.NewStyle().Foreground(theme.Error)
	}
	b.WriteString(lipgloss.NewStyle().Width(min(max(width-12, 20), 80)).Render(statusStyle.Render(s.status)))

	card := theme.Card.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func promptTitle(a action) string {
	switch a {
	case actionImport:
		return "Import ITTO JSON from:"
	case actionExport:
		return "Export imported ITTO data to:"
	case actionTemplate:
		return "Write the empty template to:"
	}
	return ""
}
