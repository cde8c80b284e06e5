package dataset

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// NormalizeITTO decodes a raw ITTO entry into the canonical shape. Missing
// entries and null yield an empty record. Anything that is not an object of
// string lists is recovered as best it can be: bad lists become empty,
// empty strings and non-string items are dropped. ok is false when any part
// of the entry had to be discarded for being the wrong shape.
func NormalizeITTO(raw json.RawMessage) (itto ITTO, ok bool) {
	itto = EmptyITTO()
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return itto, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return itto, false
	}

	ok = true
	var good bool
	itto.Inputs, good = normalizeList(fields[string(CategoryInputs)])
	ok = ok && good
	itto.ToolsAndTechniques, good = normalizeList(fields[string(CategoryToolsAndTechniques)])
	ok = ok && good
	itto.Outputs, good = normalizeList(fields[string(CategoryOutputs)])
	ok = ok && good
	return itto, ok
}

func normalizeList(raw json.RawMessage) ([]string, bool) {
	out := []string{}
	if len(raw) == 0 {
		return out, true
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return out, false
	}

	ok := true
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		case nil:
		default:
			ok = false
		}
	}
	return out, ok
}

// Merge overlays the user's ITTO entries onto base, key by key with the
// overlay winning, and re-derives every process's ITTOs from the merged
// map. Neither input is modified.
func Merge(base *Dataset, overlay Overlay) *Dataset {
	merged := make(map[string]json.RawMessage, len(base.ITTOsByProcessID)+overlay.Len())
	maps.Copy(merged, base.ITTOsByProcessID)
	maps.Copy(merged, overlay.ITTOsByProcessID)

	processes := make([]Process, len(base.Processes))
	for i, p := range base.Processes {
		p.ITTOs, _ = NormalizeITTO(merged[p.ID])
		processes[i] = p
	}

	return &Dataset{
		ProcessGroups:    slices.Clone(base.ProcessGroups),
		KnowledgeAreas:   slices.Clone(base.KnowledgeAreas),
		Processes:        processes,
		ITTOsByProcessID: merged,
	}
}
