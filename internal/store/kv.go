package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/quiz"
)

// kv reads and writes whole JSON documents under fixed keys.
type kv struct {
	db *sql.DB
}

// get returns the stored value and whether the key exists.
func (k kv) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := k.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (k kv) put(ctx context.Context, key, value string) error {
	_, err := k.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

type statsRepo struct {
	kv     kv
	logger *slog.Logger
}

func (r *statsRepo) Load(ctx context.Context) (quiz.Stats, error) {
	raw, ok, err := r.kv.get(ctx, StatsKey)
	if err != nil || !ok {
		return quiz.Stats{}, err
	}

	var stats quiz.Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		r.logger.Warn("stored stats are corrupt, starting from zero", "key", StatsKey, "error", err)
		return quiz.Stats{}, nil
	}
	if !statsConsistent(stats) {
		r.logger.Warn("stored stats are inconsistent, starting from zero", "key", StatsKey,
			"streak", stats.Streak, "correct", stats.Correct, "total", stats.Total)
		return quiz.Stats{}, nil
	}
	return stats, nil
}

func (r *statsRepo) Save(ctx context.Context, stats quiz.Stats) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return r.kv.put(ctx, StatsKey, string(b))
}

func statsConsistent(s quiz.Stats) bool {
	return s.Streak >= 0 && s.Correct >= 0 &&
		s.Correct <= s.Total && s.Streak <= s.Total
}

type overlayRepo struct {
	kv     kv
	logger *slog.Logger
}

func (r *overlayRepo) Load(ctx context.Context) (dataset.Overlay, error) {
	raw, ok, err := r.kv.get(ctx, UserDataKey)
	if err != nil || !ok {
		return dataset.NewOverlay(), err
	}

	overlay, err := dataset.ParseOverlay(raw)
	if err != nil {
		r.logger.Warn("stored ITTO overlay is corrupt, starting empty", "key", UserDataKey, "error", err)
		return dataset.NewOverlay(), nil
	}
	return overlay, nil
}

func (r *overlayRepo) Save(ctx context.Context, overlay dataset.Overlay) error {
	if overlay.ITTOsByProcessID == nil {
		overlay = dataset.NewOverlay()
	}
	b, err := json.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("marshal overlay: %w", err)
	}
	return r.kv.put(ctx, UserDataKey, string(b))
}
