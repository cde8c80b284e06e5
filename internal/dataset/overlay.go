package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrInvalidOverlayJSON is returned when import text is not JSON.
	ErrInvalidOverlayJSON = errors.New("invalid JSON")

	// ErrInvalidOverlayShape is returned when import text is JSON but not
	// of the form { "ittosByProcessId": { ... } }.
	ErrInvalidOverlayShape = errors.New(`expected { "ittosByProcessId": { ... } }`)
)

// Overlay is user-supplied ITTO data layered over the base dataset.
type Overlay struct {
	ITTOsByProcessID map[string]json.RawMessage `json:"ittosByProcessId"`
}

// NewOverlay returns an empty overlay.
func NewOverlay() Overlay {
	return Overlay{ITTOsByProcessID: map[string]json.RawMessage{}}
}

// Len returns the number of processes the overlay has entries for.
func (o Overlay) Len() int {
	return len(o.ITTOsByProcessID)
}

// IDs returns the overlay's process IDs in process order.
func (o Overlay) IDs() []string {
	ids := slices.Collect(maps.Keys(o.ITTOsByProcessID))
	slices.SortFunc(ids, func(a, b string) int {
		if _, _, err := ParseProcessID(a); err != nil {
			return strings.Compare(a, b)
		}
		if _, _, err := ParseProcessID(b); err != nil {
			return strings.Compare(a, b)
		}
		return CompareProcessID(a, b)
	})
	return ids
}

// Malformed returns the IDs of entries that NormalizeITTO had to repair.
func (o Overlay) Malformed() []string {
	var bad []string
	for _, id := range o.IDs() {
		if _, ok := NormalizeITTO(o.ITTOsByProcessID[id]); !ok {
			bad = append(bad, id)
		}
	}
	return bad
}

// ParseOverlay decodes import text. Only the top-level shape is checked;
// individual entries are normalized when merged.
func ParseOverlay(raw string) (Overlay, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Overlay{}, fmt.Errorf("%w: %v", ErrInvalidOverlayJSON, err)
	}
	if err := validateDocument("overlay", overlaySchemaJSON, doc); err != nil {
		return Overlay{}, fmt.Errorf("%w: %v", ErrInvalidOverlayShape, err)
	}

	var o Overlay
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return Overlay{}, fmt.Errorf("%w: %v", ErrInvalidOverlayShape, err)
	}
	if o.ITTOsByProcessID == nil {
		o.ITTOsByProcessID = map[string]json.RawMessage{}
	}
	return o, nil
}

// Export renders the overlay as indented import text.
func (o Overlay) Export() (string, error) {
	if o.ITTOsByProcessID == nil {
		o = NewOverlay()
	}
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal overlay: %w", err)
	}
	return string(b), nil
}

// Template returns an overlay with an empty ITTO record for every process
// in ds, ready to be filled in and imported.
func Template(ds *Dataset) (Overlay, error) {
	empty, err := json.Marshal(EmptyITTO())
	if err != nil {
		return Overlay{}, fmt.Errorf("marshal empty itto: %w", err)
	}
	o := NewOverlay()
	for _, p := range ds.Processes {
		o.ITTOsByProcessID[p.ID] = empty
	}
	return o, nil
}
