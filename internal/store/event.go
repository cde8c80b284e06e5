package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// sequenceCounter hands out the monotonic sequence number stored with every
// answer event. Timestamps can collide within a fast session, so ordering
// in history and across processes sharing the database file relies on the
// sequence instead.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO answer_events
			(sequence, session_id, mode, question_id, kind, correct_answer, learner_answer, correct, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.Mode, data.QuestionID, data.Kind,
		data.CorrectAnswer, data.LearnerAnswer, data.Correct, r.clock())
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentAnswers(ctx context.Context, limit int) ([]AnswerEvent, error) {
	query := `SELECT sequence, session_id, mode, question_id, kind, correct_answer, learner_answer, correct, created_at
		FROM answer_events ORDER BY sequence DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent answers: %w", err)
	}
	defer rows.Close()

	var events []AnswerEvent
	for rows.Next() {
		var e AnswerEvent
		if err := rows.Scan(&e.Sequence, &e.SessionID, &e.Mode, &e.QuestionID, &e.Kind,
			&e.CorrectAnswer, &e.LearnerAnswer, &e.Correct, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answer events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) ModeAccuracy(ctx context.Context) ([]ModeAccuracy, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT mode, COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0), COUNT(*)
		 FROM answer_events GROUP BY mode ORDER BY mode`)
	if err != nil {
		return nil, fmt.Errorf("query mode accuracy: %w", err)
	}
	defer rows.Close()

	var out []ModeAccuracy
	for rows.Next() {
		var m ModeAccuracy
		if err := rows.Scan(&m.Mode, &m.Correct, &m.Total); err != nil {
			return nil, fmt.Errorf("scan mode accuracy: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mode accuracy: %w", err)
	}
	return out, nil
}
