package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDataset() *Dataset {
	return &Dataset{
		ProcessGroups:  GroupOrder,
		KnowledgeAreas: []string{"Scope", "Risk"},
		Processes: []Process{
			{ID: "5.1", Name: "Plan Scope Management", ProcessGroup: GroupPlanning, KnowledgeArea: "Scope"},
			{ID: "11.2", Name: "Identify Risks", ProcessGroup: GroupPlanning, KnowledgeArea: "Risk"},
		},
		ITTOsByProcessID: map[string]json.RawMessage{
			"5.1": json.RawMessage(`{"inputs":["Project charter"],"toolsAndTechniques":["Meetings"],"outputs":["Scope management plan"]}`),
		},
	}
}

func TestNormalizeITTO(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   ITTO
		wantOK bool
	}{
		{"absent", "", EmptyITTO(), true},
		{"null", "null", EmptyITTO(), true},
		{
			"well formed",
			`{"inputs":["a","b"],"toolsAndTechniques":["c"],"outputs":[]}`,
			ITTO{Inputs: []string{"a", "b"}, ToolsAndTechniques: []string{"c"}, Outputs: []string{}},
			true,
		},
		{
			"falsy entries dropped",
			`{"inputs":["a","",null],"outputs":["b"]}`,
			ITTO{Inputs: []string{"a"}, ToolsAndTechniques: []string{}, Outputs: []string{"b"}},
			true,
		},
		{"not an object", `["a"]`, EmptyITTO(), false},
		{"string", `"inputs"`, EmptyITTO(), false},
		{
			"list of wrong type",
			`{"inputs":"a","outputs":["b"]}`,
			ITTO{Inputs: []string{}, ToolsAndTechniques: []string{}, Outputs: []string{"b"}},
			false,
		},
		{
			"non-string item",
			`{"inputs":["a", 3]}`,
			ITTO{Inputs: []string{"a"}, ToolsAndTechniques: []string{}, Outputs: []string{}},
			false,
		},
		{
			"duplicates kept",
			`{"outputs":["x","x"]}`,
			ITTO{Inputs: []string{}, ToolsAndTechniques: []string{}, Outputs: []string{"x", "x"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeITTO(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestMerge_EmptyOverlayIsIdentity(t *testing.T) {
	base := baseDataset()
	merged := Merge(base, NewOverlay())

	assert.Equal(t, base.ITTOsByProcessID, merged.ITTOsByProcessID)
	p, ok := merged.Process("5.1")
	require.True(t, ok)
	assert.Equal(t, []string{"Project charter"}, p.ITTOs.Inputs)

	p, ok = merged.Process("11.2")
	require.True(t, ok)
	assert.True(t, p.ITTOs.IsEmpty())
}

func TestMerge_OverlayWins(t *testing.T) {
	base := baseDataset()
	overlay := Overlay{ITTOsByProcessID: map[string]json.RawMessage{
		"5.1": json.RawMessage(`{"inputs":["Overlay input"]}`),
	}}

	merged := Merge(base, overlay)
	p, _ := merged.Process("5.1")
	assert.Equal(t, []string{"Overlay input"}, p.ITTOs.Inputs)
	assert.Empty(t, p.ITTOs.Outputs)
}

func TestMerge_LaterOverlayReplacesEarlier(t *testing.T) {
	a := Overlay{ITTOsByProcessID: map[string]json.RawMessage{
		"11.2": json.RawMessage(`{"outputs":["Risk register"]}`),
	}}
	b := Overlay{ITTOsByProcessID: map[string]json.RawMessage{
		"11.2": json.RawMessage(`{"inputs":["Risk management plan"]}`),
	}}

	once := Merge(baseDataset(), a)
	twice := Merge(once, b)

	want, _ := NormalizeITTO(b.ITTOsByProcessID["11.2"])
	p, _ := twice.Process("11.2")
	assert.Equal(t, want, p.ITTOs)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := baseDataset()
	overlay := Overlay{ITTOsByProcessID: map[string]json.RawMessage{
		"11.2": json.RawMessage(`{"inputs":["x"]}`),
	}}

	Merge(base, overlay)

	assert.Len(t, base.ITTOsByProcessID, 1)
	assert.NotContains(t, base.ITTOsByProcessID, "11.2")
	assert.True(t, base.Processes[1].ITTOs.IsEmpty())
	assert.Equal(t, 1, overlay.Len())
}

func TestMerge_MalformedEntryNormalized(t *testing.T) {
	overlay := Overlay{ITTOsByProcessID: map[string]json.RawMessage{
		"5.1": json.RawMessage(`42`),
	}}
	merged := Merge(baseDataset(), overlay)
	p, _ := merged.Process("5.1")
	assert.Equal(t, EmptyITTO(), p.ITTOs)
}

func TestWithITTOs(t *testing.T) {
	merged := Merge(baseDataset(), NewOverlay())
	got := merged.WithITTOs()
	require.Len(t, got, 1)
	assert.Equal(t, "5.1", got[0].ID)
}
