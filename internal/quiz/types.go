package quiz

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownMode        = errors.New("unknown quiz mode")
	ErrNoProcesses        = errors.New("dataset has no processes")
	ErrNotEnoughProcesses = errors.New("sequence questions need at least two processes")
)

// Mode selects the shape of the questions a drill produces.
type Mode string

const (
	ModeGroup         Mode = "group" // process → process group
	ModeKnowledgeArea Mode = "ka"    // process → knowledge area
	ModeSequence      Mode = "seq"   // which of two processes comes earlier
	ModeITTO          Mode = "itto"  // pick the input/tool/output of a process
	ModeBoth          Mode = "both"  // process → group and knowledge area
)

// Modes lists every mode in menu order.
func Modes() []Mode {
	return []Mode{ModeGroup, ModeKnowledgeArea, ModeBoth, ModeSequence, ModeITTO}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !slices.Contains(Modes(), m) {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// Title returns the menu label for the mode.
func (m Mode) Title() string {
	switch m {
	case ModeGroup:
		return "Process → Process Group"
	case ModeKnowledgeArea:
		return "Process → Knowledge Area"
	case ModeSequence:
		return "Sequence: which comes earlier"
	case ModeITTO:
		return "ITTO drill"
	case ModeBoth:
		return "Process → Group + Knowledge Area"
	}
	return string(m)
}

// Question is a single multiple-choice round.
type Question struct {
	// Mode is the mode the question was built for.
	Mode Mode

	// Kind is a short label shown above the prompt.
	Kind string

	// ID identifies the subject: a process ID, "a|b" for a pair, or the
	// "ITTO" sentinel when no ITTO data is loaded.
	ID string

	Prompt string

	// Choices are distinct and contain CorrectAnswer exactly once.
	Choices []string

	CorrectAnswer string

	// Explanation is shown after an incorrect answer.
	Explanation string
}

// CorrectIndex returns the position of the correct answer in Choices.
func (q *Question) CorrectIndex() int {
	return slices.Index(q.Choices, q.CorrectAnswer)
}

// Stats is the learner's cumulative score.
type Stats struct {
	Streak  int `json:"streak"`
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns Correct/Total, or 0 before any answer.
func (s Stats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}
