package dataset

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// GroupOrder is the canonical process group sequence.
var GroupOrder = []string{GroupInitiating, GroupPlanning, GroupExecuting, GroupMonitoring, GroupClosing}

// unknownGroupRank sorts unrecognized groups after every canonical one.
const unknownGroupRank = 999

// ParseProcessID splits a dotted identifier such as "4.10" into its two
// numeric components.
func ParseProcessID(id string) (major, minor int, err error) {
	a, b, ok := strings.Cut(id, ".")
	if !ok || strings.Contains(b, ".") {
		return 0, 0, fmt.Errorf("process id %q: want two dotted components", id)
	}
	if major, err = strconv.Atoi(a); err != nil {
		return 0, 0, fmt.Errorf("process id %q: %w", id, err)
	}
	if minor, err = strconv.Atoi(b); err != nil {
		return 0, 0, fmt.Errorf("process id %q: %w", id, err)
	}
	return major, minor, nil
}

// CompareProcessID orders identifiers numerically by component, so
// "4.2" < "4.10" < "13.1". Identifiers must be well-formed; ordering of
// malformed ones is unspecified.
func CompareProcessID(a, b string) int {
	a1, a2, _ := ParseProcessID(a)
	b1, b2, _ := ParseProcessID(b)
	if a1 != b1 {
		return cmp.Compare(a1, b1)
	}
	return cmp.Compare(a2, b2)
}

// GroupRank returns the index of group in GroupOrder.
func GroupRank(group string) int {
	if i := slices.Index(GroupOrder, group); i >= 0 {
		return i
	}
	return unknownGroupRank
}

// ProcessRank is the composite sort key of a process.
type ProcessRank struct {
	Group int
	ID    string
}

// Rank returns the sort key of p.
func Rank(p Process) ProcessRank {
	return ProcessRank{Group: GroupRank(p.ProcessGroup), ID: p.ID}
}

// CompareProcessRank orders processes by group sequence, then by ID.
func CompareProcessRank(a, b Process) int {
	ra, rb := Rank(a), Rank(b)
	if ra.Group != rb.Group {
		return cmp.Compare(ra.Group, rb.Group)
	}
	return CompareProcessID(ra.ID, rb.ID)
}

// FlowGroup is one column of the study view.
type FlowGroup struct {
	Name      string
	Processes []Process
}

// Flow groups processes under each of the dataset's process groups, in
// dataset order, with processes sorted by ID.
func (d *Dataset) Flow() []FlowGroup {
	sorted := slices.Clone(d.Processes)
	slices.SortStableFunc(sorted, func(a, b Process) int {
		return CompareProcessID(a.ID, b.ID)
	})

	groups := make([]FlowGroup, 0, len(d.ProcessGroups))
	for _, name := range d.ProcessGroups {
		fg := FlowGroup{Name: name}
		for _, p := range sorted {
			if p.ProcessGroup == name {
				fg.Processes = append(fg.Processes, p)
			}
		}
		groups = append(groups, fg)
	}
	return groups
}
