package components

import (
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pmdrill/internal/ui/theme"
)

// Button fires OnPress when one of its keys is pressed while active.
type Button struct {
	Label   string
	Active  bool
	Keys    []string
	OnPress func() tea.Cmd
}

// NewButton creates a button pressed by Enter plus any extra keys.
func NewButton(label string, active bool, onPress func() tea.Cmd, keys ...string) Button {
	return Button{
		Label:   label,
		Active:  active,
		Keys:    append([]string{"enter"}, keys...),
		OnPress: onPress,
	}
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !b.Active || b.OnPress == nil {
		return b, nil
	}
	if slices.Contains(b.Keys, kmsg.String()) {
		return b, b.OnPress()
	}
	return b, nil
}

func (b Button) View() string {
	if !b.Active {
		return theme.ButtonInactive.Render(b.Label)
	}
	return theme.ButtonActive.Render("▸ " + b.Label)
}
