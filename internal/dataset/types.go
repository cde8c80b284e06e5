// Package dataset holds the process taxonomy the drills are built from:
// process records, ITTO associations, the user overlay, and the rules for
// loading, validating, ordering, and merging them.
package dataset

import "encoding/json"

// Canonical process group names.
const (
	GroupInitiating = "Initiating"
	GroupPlanning   = "Planning"
	GroupExecuting  = "Executing"
	GroupMonitoring = "Monitoring and Controlling"
	GroupClosing    = "Closing"
)

// Category names one of the three ITTO lists.
type Category string

const (
	CategoryInputs             Category = "inputs"
	CategoryToolsAndTechniques Category = "toolsAndTechniques"
	CategoryOutputs            Category = "outputs"
)

// Categories lists the ITTO categories in canonical order.
func Categories() []Category {
	return []Category{CategoryInputs, CategoryToolsAndTechniques, CategoryOutputs}
}

// Label returns the singular display name used in prompts.
func (c Category) Label() string {
	switch c {
	case CategoryInputs:
		return "Input"
	case CategoryToolsAndTechniques:
		return "Tool/Technique"
	case CategoryOutputs:
		return "Output"
	}
	return string(c)
}

// ITTO is the Input / Tool-and-Technique / Output record of a process.
// Entries are never empty strings; duplicates may occur.
type ITTO struct {
	Inputs             []string `json:"inputs"`
	ToolsAndTechniques []string `json:"toolsAndTechniques"`
	Outputs            []string `json:"outputs"`
}

// EmptyITTO returns a record with three empty (non-nil) lists.
func EmptyITTO() ITTO {
	return ITTO{Inputs: []string{}, ToolsAndTechniques: []string{}, Outputs: []string{}}
}

// Items returns the list for category c.
func (i ITTO) Items(c Category) []string {
	switch c {
	case CategoryInputs:
		return i.Inputs
	case CategoryToolsAndTechniques:
		return i.ToolsAndTechniques
	case CategoryOutputs:
		return i.Outputs
	}
	return nil
}

// IsEmpty reports whether all three lists are empty.
func (i ITTO) IsEmpty() bool {
	return len(i.Inputs) == 0 && len(i.ToolsAndTechniques) == 0 && len(i.Outputs) == 0
}

// Process is a single process record.
type Process struct {
	ID            string `json:"id" validate:"required,processid"`
	Name          string `json:"name" validate:"required"`
	ProcessGroup  string `json:"processGroup" validate:"required"`
	KnowledgeArea string `json:"knowledgeArea" validate:"required"`

	// ITTOs is derived from the dataset's ITTO map, never read from JSON.
	ITTOs ITTO `json:"-"`
}

// Label formats the process as "id — name".
func (p Process) Label() string {
	return p.ID + " — " + p.Name
}

// Dataset is an immutable snapshot of the taxonomy. Process IDs are unique.
type Dataset struct {
	ProcessGroups  []string  `json:"processGroups" validate:"len=5,dive,required"`
	KnowledgeAreas []string  `json:"knowledgeAreas" validate:"min=1,dive,required"`
	Processes      []Process `json:"processes" validate:"min=1,unique=ID,dive"`

	// ITTOsByProcessID holds raw ITTO entries keyed by process ID. Entries
	// stay raw so malformed ones can be normalized per entry.
	ITTOsByProcessID map[string]json.RawMessage `json:"ittosByProcessId,omitempty"`
}

// Process looks up a process by ID.
func (d *Dataset) Process(id string) (Process, bool) {
	for _, p := range d.Processes {
		if p.ID == id {
			return p, true
		}
	}
	return Process{}, false
}

// WithITTOs returns the processes that carry at least one ITTO item.
func (d *Dataset) WithITTOs() []Process {
	var out []Process
	for _, p := range d.Processes {
		if !p.ITTOs.IsEmpty() {
			out = append(out, p)
		}
	}
	return out
}
