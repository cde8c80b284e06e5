package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/abhisek/pmdrill/internal/app"
	"github.com/abhisek/pmdrill/internal/config"
	"github.com/abhisek/pmdrill/internal/dataset"
	"github.com/abhisek/pmdrill/internal/logging"
	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/abhisek/pmdrill/internal/session"
	"github.com/abhisek/pmdrill/internal/store"
	"github.com/spf13/cobra"
)

// env is everything a command needs: the resolved config, the open store,
// a logger, and a session over the loaded dataset.
type env struct {
	cfg     config.Config
	store   *store.Store
	logger  *slog.Logger
	session *session.Session
	closers []func() error
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// openEnv wires config, logging, store, dataset and session. When tui is
// true logs go to a file beside the database instead of stderr.
func openEnv(cmd *cobra.Command, tui bool) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	e := &env{cfg: cfg}
	if tui {
		logger, f, err := logging.OpenFile(logging.LogPath(dbPath), cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		e.logger = logger
		e.closers = append(e.closers, f.Close)
	} else {
		logger, err := logging.New(os.Stderr, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		e.logger = logger
	}

	st, err := store.Open(dbPath, store.WithLogger(e.logger))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st.Close)

	base, err := dataset.ProviderFor(cfg.DataSource).Load(ctx)
	if err != nil {
		e.Close()
		var le *dataset.LoadError
		if errors.As(err, &le) {
			fmt.Fprintln(os.Stderr, "Could not load the process dataset; check --data / PMDRILL_DATA.")
		}
		return nil, err
	}
	e.logger.Debug("dataset loaded", "source", cfg.DataSource, "processes", len(base.Processes))

	opts := session.Options{
		Stats:   st.StatsRepo(),
		Overlay: st.OverlayRepo(),
		Events:  st.EventRepo(),
		Mode:    quiz.Mode(cfg.DefaultMode),
		Logger:  e.logger,
	}
	if cfg.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	sess, err := session.New(ctx, base, opts)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("start session: %w", err)
	}
	e.session = sess
	return e, nil
}

// runApp builds dependencies and launches the TUI, straight into a drill
// when mode is set.
func runApp(cmd *cobra.Command, mode quiz.Mode) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	e.logger.Info("session started", "session_id", e.session.ID(), "start_mode", string(mode))
	err = app.Run(app.Options{
		Session:   e.session,
		Events:    e.store.EventRepo(),
		StartMode: mode,
	})
	sum := e.session.BuildSummary()
	e.logger.Info("session ended", "session_id", sum.SessionID,
		"questions", sum.TotalQuestions, "correct", sum.TotalCorrect, "duration", sum.Duration)
	return err
}
