package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/roster/internal/config"
	"github.com/roach88/roster/internal/fetch"
	"github.com/roach88/roster/internal/logger"
	"github.com/roach88/roster/internal/repository"
	"github.com/roach88/roster/internal/store"
)

// session is what a command needs to talk to the database.
type session struct {
	store   *store.Store
	log     *zap.SugaredLogger
	members *repository.MemberRepository
	teams   *repository.TeamRepository
}

// newFormatter builds the formatter for one command run, with a fresh
// trace ID.
func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	gen := opts.TraceIDs
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   gen.Generate(),
	}
}

// openSession loads configuration, builds the logger and opens (and
// migrates) the store.
func openSession(cmd *cobra.Command, opts *RootOptions, out *OutputFormatter) (*session, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, &setupError{code: ErrCodeConfig, err: err}
	}
	if opts.Database != "" {
		cfg.Storage.Driver = "sqlite3"
		cfg.Storage.Path = opts.Database
	}

	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, &setupError{code: ErrCodeConfig, err: err}
	}
	log = log.With("trace_id", out.TraceID)

	out.VerboseLog("opening %s database", cfg.Storage.Driver)
	st, err := store.Open(cmd.Context(), cfg.Storage, log)
	if err != nil {
		_ = log.Sync()
		return nil, &setupError{code: ErrCodeStorage, err: err}
	}

	f := fetch.New(st, log)
	return &session{
		store:   st,
		log:     log,
		members: repository.NewMemberRepository(st, f),
		teams:   repository.NewTeamRepository(st, f),
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.log.Errorw("error closing database", "error", err)
	}
	_ = s.log.Sync()
}

// runWithSession opens a session, runs fn and reports its result through
// the formatter.
func runWithSession(cmd *cobra.Command, opts *RootOptions, fn func(s *session) (any, error)) error {
	out := newFormatter(cmd, opts)
	s, err := openSession(cmd, opts, out)
	if err != nil {
		return out.Fail(err)
	}
	defer s.Close()

	data, err := fn(s)
	if err != nil {
		return out.Fail(err)
	}
	return out.Success(data)
}
