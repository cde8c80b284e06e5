package flow

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pmdrill/internal/dataset"
)

func embedded(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.EmbeddedProvider{}.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return ds
}

func TestFlow_ListsEveryGroup(t *testing.T) {
	s := New(embedded(t))
	all := strings.Join(s.lines(), "\n")
	for _, g := range dataset.GroupOrder {
		if !strings.Contains(all, g) {
			t.Errorf("study view missing group %q", g)
		}
	}
	if !strings.Contains(all, "Develop Project Charter") {
		t.Error("study view missing 4.1")
	}
}

func TestFlow_InitiatingFirst(t *testing.T) {
	s := New(embedded(t))
	if len(s.groups) == 0 || s.groups[0].Name != dataset.GroupInitiating {
		t.Fatalf("first group = %v", s.groups)
	}
}

func TestFlow_Scrolling(t *testing.T) {
	s := New(embedded(t))
	s.View(100, 12)
	if s.offset != 0 {
		t.Fatalf("initial offset = %d", s.offset)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.offset != 1 {
		t.Errorf("offset after down = %d, want 1", s.offset)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.offset != 0 {
		t.Errorf("offset should clamp at 0, got %d", s.offset)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnd})
	want := len(s.lines()) - s.height
	if s.offset != want {
		t.Errorf("offset after end = %d, want %d", s.offset, want)
	}

	view := s.View(100, 12)
	if strings.Contains(view, "more") {
		t.Error("no more-indicator expected at the bottom")
	}
}

func TestFlow_MoreIndicator(t *testing.T) {
	s := New(embedded(t))
	view := s.View(100, 12)
	if !strings.Contains(view, "more") {
		t.Error("expected a more-indicator when the list overflows")
	}
}
