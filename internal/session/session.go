package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/abhisek/pmdrill/internal/store"
)

// New creates a session over base, restoring stats and the ITTO overlay
// from the configured repos.
func New(ctx context.Context, base *dataset.Dataset, opts Options) (*Session, error) {
	if base == nil || len(base.Processes) == 0 {
		return nil, quiz.ErrNoProcesses
	}

	s := &Session{
		id:          uuid.New().String(),
		base:        base,
		overlay:     dataset.NewOverlay(),
		mode:        quiz.ModeGroup,
		perMode:     make(map[quiz.Mode]*ModeResult),
		rng:         opts.Rand,
		statsRepo:   opts.Stats,
		overlayRepo: opts.Overlay,
		events:      opts.Events,
		logger:      opts.Logger,
		now:         opts.Now,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Mode != "" {
		if _, err := quiz.ParseMode(string(opts.Mode)); err != nil {
			return nil, err
		}
		s.mode = opts.Mode
	}
	s.startTime = s.now()

	if s.statsRepo != nil {
		stats, err := s.statsRepo.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stats: %w", err)
		}
		s.stats = stats
	}
	if s.overlayRepo != nil {
		overlay, err := s.overlayRepo.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load overlay: %w", err)
		}
		s.overlay = overlay
		s.warnMalformed()
	}
	return s, nil
}

// ID returns the UUID recorded with every answer of this session.
func (s *Session) ID() string {
	return s.id
}

// Mode returns the current quiz mode.
func (s *Session) Mode() quiz.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the quiz mode. The current round, if any, is abandoned
// unscored; call NextRound to draw a question in the new mode.
func (s *Session) SetMode(m quiz.Mode) error {
	if _, err := quiz.ParseMode(string(m)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.current = nil
	s.last = nil
	s.phase = PhaseIdle
	return nil
}

// Dataset returns the base dataset with the overlay merged in. It is
// recomputed on every call.
func (s *Session) Dataset() *dataset.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dataset.Merge(s.base, s.overlay)
}

// NextRound builds a fresh question in the current mode and re-arms the
// answered guard.
func (s *Session) NextRound() (*quiz.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := quiz.Build(dataset.Merge(s.base, s.overlay), s.mode, s.rng)
	if err != nil {
		return nil, fmt.Errorf("build %s question: %w", s.mode, err)
	}
	s.current = q
	s.last = nil
	s.phase = PhaseQuestion
	return q, nil
}

// Current returns the question of the current round, or nil.
func (s *Session) Current() *quiz.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Phase reports where the current round stands.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastOutcome returns the outcome of the current round once answered.
func (s *Session) LastOutcome() (quiz.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return quiz.Outcome{}, false
	}
	return *s.last, true
}

// Answer scores choice against the current question. Only the first answer
// of a round counts; later ones return ErrAlreadyAnswered and leave the
// stats alone. Stats are persisted after every scored answer; a failed
// write is logged and does not undo the answer.
func (s *Session) Answer(ctx context.Context, choice string) (quiz.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.current == nil:
		return quiz.Outcome{}, ErrNoQuestion
	case s.phase == PhaseFeedback:
		return quiz.Outcome{}, ErrAlreadyAnswered
	}

	out := quiz.Evaluate(s.stats, s.current, choice)
	s.stats = out.Stats
	s.last = &out
	s.phase = PhaseFeedback

	mr := s.perMode[s.current.Mode]
	if mr == nil {
		mr = &ModeResult{Mode: s.current.Mode}
		s.perMode[s.current.Mode] = mr
	}
	mr.Attempted++
	if out.Correct {
		mr.Correct++
	}

	s.persistStats(ctx)
	s.recordAnswer(ctx, choice, out.Correct)
	return out, nil
}

// Stats returns the running score.
func (s *Session) Stats() quiz.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ResetStats zeroes the running score and persists it.
func (s *Session) ResetStats(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = quiz.Stats{}
	if s.statsRepo == nil {
		return nil
	}
	if err := s.statsRepo.Save(ctx, s.stats); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

func (s *Session) persistStats(ctx context.Context) {
	if s.statsRepo == nil {
		return
	}
	if err := s.statsRepo.Save(ctx, s.stats); err != nil {
		s.logger.Warn("could not persist stats", "error", err)
	}
}

func (s *Session) recordAnswer(ctx context.Context, choice string, correct bool) {
	if s.events == nil {
		return
	}
	err := s.events.AppendAnswer(ctx, store.AnswerEventData{
		SessionID:     s.id,
		Mode:          string(s.current.Mode),
		QuestionID:    s.current.ID,
		Kind:          s.current.Kind,
		CorrectAnswer: s.current.CorrectAnswer,
		LearnerAnswer: choice,
		Correct:       correct,
	})
	if err != nil {
		s.logger.Warn("could not record answer", "session_id", s.id, "question_id", s.current.ID, "error", err)
	}
}
