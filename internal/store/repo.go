package store

import (
	"context"
	"time"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/quiz"
)

// Keys of the two persisted JSON documents in the kv table.
const (
	StatsKey    = "pmp.practice.stats.v1"
	UserDataKey = "pmp.practice.userdata.v1"
)

// StatsRepo persists the learner's running score.
type StatsRepo interface {
	// Load returns the stored stats. Absent or corrupt data yields the
	// zero Stats.
	Load(ctx context.Context) (quiz.Stats, error)

	// Save replaces the stored stats.
	Save(ctx context.Context, stats quiz.Stats) error
}

// OverlayRepo persists the user's imported ITTO overlay.
type OverlayRepo interface {
	// Load returns the stored overlay. Absent or corrupt data yields an
	// empty overlay.
	Load(ctx context.Context) (dataset.Overlay, error)

	// Save replaces the stored overlay.
	Save(ctx context.Context, overlay dataset.Overlay) error
}

// AnswerEventData captures a single answered question.
type AnswerEventData struct {
	SessionID     string
	Mode          string
	QuestionID    string
	Kind          string
	CorrectAnswer string
	LearnerAnswer string
	Correct       bool
}

// AnswerEvent is a stored AnswerEventData with its ordering metadata.
type AnswerEvent struct {
	AnswerEventData
	Sequence  int64
	Timestamp time.Time
}

// ModeAccuracy summarizes the answer log for one mode.
type ModeAccuracy struct {
	Mode    string
	Correct int
	Total   int
}

// Accuracy returns Correct/Total, or 0 when nothing was answered.
func (m ModeAccuracy) Accuracy() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Correct) / float64(m.Total)
}

// EventRepo provides append and query access to the answer log.
type EventRepo interface {
	// AppendAnswer records an answered question.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// RecentAnswers returns up to limit answers, newest first. A limit of
	// zero returns every answer.
	RecentAnswers(ctx context.Context, limit int) ([]AnswerEvent, error)

	// ModeAccuracy returns per-mode totals ordered by mode name.
	ModeAccuracy(ctx context.Context) ([]ModeAccuracy, error)
}
