package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/abhisek/pmdrill/internal/sampling"
	"github.com/abhisek/pmdrill/internal/store"
)

var (
	// ErrNoQuestion is returned when answering before a round was started.
	ErrNoQuestion = errors.New("no question in progress")

	// ErrAlreadyAnswered is returned for a second answer to the same round.
	ErrAlreadyAnswered = errors.New("question already answered")
)

// Phase is where the current round stands.
type Phase int

const (
	PhaseIdle     Phase = iota // No round started yet
	PhaseQuestion              // Waiting for an answer
	PhaseFeedback              // Answered; waiting for the next round
)

// ModeResult tracks per-mode performance within a single session.
type ModeResult struct {
	Mode      quiz.Mode
	Attempted int
	Correct   int
}

// Options wires a Session to its collaborators. Nil repos are allowed and
// make the session purely in-memory.
type Options struct {
	Stats   store.StatsRepo
	Overlay store.OverlayRepo
	Events  store.EventRepo

	// Rand drives question construction. Defaults to a time-seeded PCG.
	Rand sampling.Source

	// Mode is the initial mode. Defaults to quiz.ModeGroup.
	Mode quiz.Mode

	Logger *slog.Logger

	// Now is the clock used for session timing. Defaults to time.Now.
	Now func() time.Time
}

// Session owns every piece of mutable drill state: the current mode and
// question, the answered guard, the running stats, and the user's ITTO
// overlay. The merged dataset is never stored; Dataset derives it.
type Session struct {
	mu sync.Mutex

	id      string
	base    *dataset.Dataset
	overlay dataset.Overlay
	stats   quiz.Stats
	mode    quiz.Mode

	current *quiz.Question
	phase   Phase
	last    *quiz.Outcome

	perMode   map[quiz.Mode]*ModeResult
	startTime time.Time

	rng         sampling.Source
	statsRepo   store.StatsRepo
	overlayRepo store.OverlayRepo
	events      store.EventRepo
	logger      *slog.Logger
	now         func() time.Time
}
