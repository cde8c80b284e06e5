package quiz

import (
	"fmt"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/sampling"
)

// distractorCount is the number of wrong answers a four-choice question
// aims for. Short pools yield fewer.
const distractorCount = 3

// NoITTOQuestionID identifies the placeholder question served in ITTO mode
// when no process carries ITTO data.
const NoITTOQuestionID = "ITTO"

// Build constructs a question of the given mode from ds. The only side
// effect is consuming randomness from rng. Every call draws a fresh anchor
// process; repeats across rounds are not avoided.
func Build(ds *dataset.Dataset, mode Mode, rng sampling.Source) (*Question, error) {
	if len(ds.Processes) == 0 {
		return nil, ErrNoProcesses
	}

	anchor := sampling.Pick(rng, ds.Processes)

	switch mode {
	case ModeGroup:
		return buildGroup(ds, anchor, rng), nil
	case ModeKnowledgeArea:
		return buildKnowledgeArea(ds, anchor, rng), nil
	case ModeSequence:
		return buildSequence(ds, anchor, rng)
	case ModeITTO:
		return buildITTO(ds, rng), nil
	case ModeBoth:
		return buildBoth(ds, anchor, rng), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// withDistractors shuffles the correct answer in among up to three other
// values sampled from pool.
func withDistractors(rng sampling.Source, correct string, pool []string) []string {
	wrong := sampling.SampleDistinct(rng, pool, distractorCount, correct)
	return sampling.Shuffle(rng, append([]string{correct}, wrong...))
}

func buildGroup(ds *dataset.Dataset, p dataset.Process, rng sampling.Source) *Question {
	correct := p.ProcessGroup
	return &Question{
		Mode:          ModeGroup,
		Kind:          "Process → Process Group",
		ID:            p.ID,
		Prompt:        fmt.Sprintf("Which Process Group is: %s?", p.Label()),
		Choices:       withDistractors(rng, correct, ds.ProcessGroups),
		CorrectAnswer: correct,
		Explanation:   fmt.Sprintf("%s belongs to %s.", p.Name, correct),
	}
}

func buildKnowledgeArea(ds *dataset.Dataset, p dataset.Process, rng sampling.Source) *Question {
	correct := p.KnowledgeArea
	return &Question{
		Mode:          ModeKnowledgeArea,
		Kind:          "Process → Knowledge Area",
		ID:            p.ID,
		Prompt:        fmt.Sprintf("Which Knowledge Area is: %s?", p.Label()),
		Choices:       withDistractors(rng, correct, ds.KnowledgeAreas),
		CorrectAnswer: correct,
		Explanation:   fmt.Sprintf("%s belongs to %s.", p.Name, correct),
	}
}

func buildSequence(ds *dataset.Dataset, a dataset.Process, rng sampling.Source) (*Question, error) {
	others := make([]dataset.Process, 0, len(ds.Processes)-1)
	for _, p := range ds.Processes {
		if p.ID != a.ID {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		return nil, ErrNotEnoughProcesses
	}
	b := sampling.Pick(rng, others)

	first, second := a, b
	if dataset.CompareProcessRank(a, b) > 0 {
		first, second = b, a
	}

	return &Question{
		Mode:          ModeSequence,
		Kind:          "Sequence • earlier process",
		ID:            a.ID + "|" + b.ID,
		Prompt:        "Which process comes earlier in the PMBOK process group sequence (Initiating → Planning → Executing → Monitoring & Controlling → Closing)?",
		Choices:       sampling.Shuffle(rng, []string{a.Label(), b.Label()}),
		CorrectAnswer: first.Label(),
		Explanation: fmt.Sprintf("%s is in %s; %s is in %s.",
			first.ID, first.ProcessGroup, second.ID, second.ProcessGroup),
	}, nil
}

// groupAndArea formats the combined answer of ModeBoth.
func groupAndArea(p dataset.Process) string {
	return p.ProcessGroup + " • " + p.KnowledgeArea
}

func buildBoth(ds *dataset.Dataset, p dataset.Process, rng sampling.Source) *Question {
	correct := groupAndArea(p)
	var pool []string
	for _, other := range ds.Processes {
		if other.ID != p.ID {
			pool = append(pool, groupAndArea(other))
		}
	}
	return &Question{
		Mode:          ModeBoth,
		Kind:          "Process → Group + Knowledge Area",
		ID:            p.ID,
		Prompt:        fmt.Sprintf("Where does this process belong? %s", p.Label()),
		Choices:       withDistractors(rng, correct, pool),
		CorrectAnswer: correct,
		Explanation:   fmt.Sprintf("%s belongs to %s in %s.", p.Name, p.ProcessGroup, p.KnowledgeArea),
	}
}

// noITTOQuestion is served when no process has any ITTO data.
func noITTOQuestion() *Question {
	return &Question{
		Mode:          ModeITTO,
		Kind:          "ITTO drill",
		ID:            NoITTOQuestionID,
		Prompt:        "No ITTO data is loaded yet. Import your own ITTO JSON from the ITTO data screen (or `pmdrill itto import`), then try again.",
		Choices:       []string{"OK"},
		CorrectAnswer: "OK",
		Explanation:   "Imported ITTOs are stored locally in your pmdrill database.",
	}
}

func buildITTO(ds *dataset.Dataset, rng sampling.Source) *Question {
	candidates := ds.WithITTOs()
	if len(candidates) == 0 {
		return noITTOQuestion()
	}

	p := sampling.Pick(rng, candidates)
	var categories []dataset.Category
	for _, c := range dataset.Categories() {
		if len(p.ITTOs.Items(c)) > 0 {
			categories = append(categories, c)
		}
	}
	category := sampling.Pick(rng, categories)
	items := p.ITTOs.Items(category)
	correct := sampling.Pick(rng, items)

	// Other categories of the same process first, then the same category
	// of every other process.
	var pool []string
	for _, c := range dataset.Categories() {
		if c != category {
			pool = append(pool, p.ITTOs.Items(c)...)
		}
	}
	for _, other := range candidates {
		if other.ID != p.ID {
			pool = append(pool, other.ITTOs.Items(category)...)
		}
	}

	label := category.Label()
	return &Question{
		Mode:          ModeITTO,
		Kind:          "ITTO • pick the " + label,
		ID:            p.ID,
		Prompt:        fmt.Sprintf("For %s, which option is a(n) %s?", p.Label(), label),
		Choices:       withDistractors(rng, correct, pool),
		CorrectAnswer: correct,
		Explanation:   fmt.Sprintf("%s is listed under %ss for %s.", correct, label, p.ID),
	}
}
