package store

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/quiz"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:"+name+"?mode=memory&cache=shared", opts...)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func putRaw(t *testing.T, s *Store, key, value string) {
	t.Helper()
	if err := (kv{db: s.DB()}).put(context.Background(), key, value); err != nil {
		t.Fatalf("put %s: %v", key, err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestOpenFile.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pmdrill.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"kv", "answer_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestStatsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.StatsRepo()
	ctx := context.Background()

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if got != (quiz.Stats{}) {
		t.Errorf("empty load = %+v, want zero", got)
	}

	want := quiz.Stats{Streak: 2, Correct: 7, Total: 9}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("load = %+v, want %+v", got, want)
	}

	var raw string
	if err := s.DB().QueryRow("SELECT value FROM kv WHERE key = ?", StatsKey).Scan(&raw); err != nil {
		t.Fatalf("raw: %v", err)
	}
	if raw != `{"streak":2,"correct":7,"total":9}` {
		t.Errorf("stored json = %s", raw)
	}
}

func TestStatsCorruptFallsBackToZero(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{streak:"},
		{"wrong type", `{"streak":"three"}`},
		{"array", `[1,2,3]`},
		{"correct above total", `{"streak":0,"correct":5,"total":2}`},
		{"negative", `{"streak":-1,"correct":0,"total":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			s := openTestStore(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
			putRaw(t, s, StatsKey, tt.raw)

			got, err := s.StatsRepo().Load(context.Background())
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got != (quiz.Stats{}) {
				t.Errorf("load = %+v, want zero", got)
			}
			if !strings.Contains(logs.String(), "level=WARN") {
				t.Errorf("expected a warning, got %q", logs.String())
			}
		})
	}
}

func TestOverlayRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.OverlayRepo()
	ctx := context.Background()

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if got.Len() != 0 || got.ITTOsByProcessID == nil {
		t.Errorf("empty load = %+v, want empty non-nil map", got)
	}

	o := dataset.NewOverlay()
	o.ITTOsByProcessID["4.1"] = json.RawMessage(`{"inputs":["Agreements"]}`)
	o.ITTOsByProcessID["5.1"] = json.RawMessage(`"not an object"`)
	if err := repo.Save(ctx, o); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("len = %d, want 2", got.Len())
	}
	itto, ok := dataset.NormalizeITTO(got.ITTOsByProcessID["4.1"])
	if !ok || len(itto.Inputs) != 1 || itto.Inputs[0] != "Agreements" {
		t.Errorf("4.1 = %+v (ok=%v)", itto, ok)
	}

	if err := repo.Save(ctx, dataset.Overlay{}); err != nil {
		t.Fatalf("save nil overlay: %v", err)
	}
	got, _ = repo.Load(ctx)
	if got.Len() != 0 {
		t.Errorf("cleared len = %d, want 0", got.Len())
	}
}

func TestOverlayCorruptFallsBackToEmpty(t *testing.T) {
	var logs bytes.Buffer
	s := openTestStore(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	putRaw(t, s, UserDataKey, `{"ittosByProcessId": [1, 2]}`)

	got, err := s.OverlayRepo().Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("len = %d, want 0", got.Len())
	}
	if !strings.Contains(logs.String(), UserDataKey) {
		t.Errorf("expected warning naming the key, got %q", logs.String())
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAnswerEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	repo := &eventRepo{db: s.DB(), seq: s.seq, now: func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}}

	answers := []AnswerEventData{
		{SessionID: "s1", Mode: "group", QuestionID: "4.1", CorrectAnswer: "Initiating", LearnerAnswer: "Initiating", Correct: true},
		{SessionID: "s1", Mode: "group", QuestionID: "5.2", CorrectAnswer: "Planning", LearnerAnswer: "Executing"},
		{SessionID: "s1", Mode: "seq", QuestionID: "4.1|5.2", CorrectAnswer: "4.1 — Develop Project Charter", LearnerAnswer: "4.1 — Develop Project Charter", Correct: true},
		{SessionID: "s2", Mode: "group", QuestionID: "13.1", CorrectAnswer: "Initiating", LearnerAnswer: "Initiating", Correct: true},
	}
	for i, a := range answers {
		if err := repo.AppendAnswer(ctx, a); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recent, err := repo.RecentAnswers(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent len = %d, want 2", len(recent))
	}
	if recent[0].QuestionID != "13.1" || recent[1].QuestionID != "4.1|5.2" {
		t.Errorf("recent order = %s, %s", recent[0].QuestionID, recent[1].QuestionID)
	}
	if recent[0].Sequence <= recent[1].Sequence {
		t.Errorf("sequences not descending: %d, %d", recent[0].Sequence, recent[1].Sequence)
	}
	if !recent[0].Timestamp.Equal(base.Add(4 * time.Second)) {
		t.Errorf("timestamp = %v", recent[0].Timestamp)
	}

	all, err := repo.RecentAnswers(ctx, 0)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("all len = %d, want 4", len(all))
	}

	acc, err := repo.ModeAccuracy(ctx)
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	want := []ModeAccuracy{{Mode: "group", Correct: 2, Total: 3}, {Mode: "seq", Correct: 1, Total: 1}}
	if len(acc) != len(want) {
		t.Fatalf("accuracy = %+v, want %+v", acc, want)
	}
	for i := range want {
		if acc[i] != want[i] {
			t.Errorf("accuracy[%d] = %+v, want %+v", i, acc[i], want[i])
		}
	}
	if got := acc[0].Accuracy(); got < 0.66 || got > 0.67 {
		t.Errorf("group accuracy = %v", got)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "x.db")
		t.Setenv("PMDRILL_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("PMDRILL_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if want := filepath.Join(dir, "pmdrill", "pmdrill.db"); got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})
}
