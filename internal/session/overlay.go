package session

import (
	"context"
	"fmt"

	"github.com/abhisek/pmdrill/internal/dataset"
)

// ImportOverlay replaces the ITTO overlay wholesale with the parsed import
// text and persists it. On a parse error the overlay is left untouched.
// It returns the number of processes the new overlay covers.
func (s *Session) ImportOverlay(ctx context.Context, raw string) (int, error) {
	overlay, err := dataset.ParseOverlay(raw)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = overlay
	s.warnMalformed()
	if err := s.saveOverlay(ctx); err != nil {
		return overlay.Len(), err
	}
	return overlay.Len(), nil
}

// ClearOverlay drops every imported ITTO entry and persists the empty
// overlay.
func (s *Session) ClearOverlay(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = dataset.NewOverlay()
	return s.saveOverlay(ctx)
}

// ExportOverlay renders the current overlay as import text.
func (s *Session) ExportOverlay() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.Export()
}

// OverlayCount returns how many processes have imported ITTO data.
func (s *Session) OverlayCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.Len()
}

// Template renders an empty ITTO record for every base process as import
// text.
func (s *Session) Template() (string, error) {
	o, err := dataset.Template(s.base)
	if err != nil {
		return "", err
	}
	return o.Export()
}

func (s *Session) saveOverlay(ctx context.Context) error {
	if s.overlayRepo == nil {
		return nil
	}
	if err := s.overlayRepo.Save(ctx, s.overlay); err != nil {
		return fmt.Errorf("save overlay: %w", err)
	}
	return nil
}

// warnMalformed logs overlay entries that normalization has to repair.
// Callers hold s.mu.
func (s *Session) warnMalformed() {
	if bad := s.overlay.Malformed(); len(bad) > 0 {
		s.logger.Warn("ITTO entries normalized on merge", "count", len(bad), "process_ids", bad)
	}
}
