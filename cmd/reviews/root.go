package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/moviereviews/internal/app"
	"github.com/heartmarshall/moviereviews/internal/config"
	"github.com/heartmarshall/moviereviews/internal/state"
)

// env is what commands need from the outside world.
type env struct {
	out io.Writer
	// loadConfig receives the --config value, empty when the flag is unset.
	loadConfig func(path string) (*config.Config, error)
	configPath *string
	// logger overrides the configured logger when set.
	logger *slog.Logger
}

func newRootCmd(e env) *cobra.Command {
	e.configPath = new(string)

	root := &cobra.Command{
		Use:   "reviews",
		Short: "Browse and write movie reviews",
		Long: `reviews talks to a movie reviews GraphQL API.

Without a subcommand it opens the interactive TUI. Configuration comes from
--config, CONFIG_PATH or ./config.yaml, then environment variables such as
API_ENDPOINT and AUTH_TOKEN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), e)
		},
	}
	root.SetOut(e.out)
	root.PersistentFlags().StringVarP(e.configPath, "config", "c", "", "path to config.yaml")

	root.AddCommand(
		newTUICmd(e),
		newListCmd(e),
		newMoviesCmd(e),
		newAddCmd(e),
		newDevAPICmd(e),
		newTokenCmd(e),
		newVersionCmd(e),
	)
	return root
}

// setup loads configuration and builds the logger. The returned close
// function releases the log file.
func (e env) setup(quiet bool) (*config.Config, *slog.Logger, func() error, error) {
	var path string
	if e.configPath != nil {
		path = *e.configPath
	}
	cfg, err := e.loadConfig(path)
	if err != nil {
		return nil, nil, nil, err
	}
	if e.logger != nil {
		return cfg, e.logger, func() error { return nil }, nil
	}
	// Logging to the terminal would corrupt the TUI.
	if quiet && cfg.Log.File == "" {
		return cfg, app.DiscardLogger(), func() error { return nil }, nil
	}
	logger, closeLog, err := app.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closeLog, nil
}

// withClient wires the client, runs fn with the store loop started and shuts
// it down afterwards.
func (e env) withClient(ctx context.Context, quiet bool, fn func(ctx context.Context, a *app.App) error) error {
	cfg, logger, closeLog, err := e.setup(quiet)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	stop := a.Start(ctx)
	runErr := fn(ctx, a)
	if err := stop(); err != nil && runErr == nil && ctx.Err() == nil {
		runErr = err
	}
	return runErr
}

// await dispatches a and waits for the first terminal action of one of the
// given kinds. Error actions are returned as errors.
func await(ctx context.Context, s *state.Store, a state.Action, done ...state.Kind) (state.Action, state.State, error) {
	got, st, err := s.DispatchAndWait(ctx, a, func(act state.Action) bool {
		return state.IsTerminal(act) && slices.Contains(done, act.Kind())
	})
	if err != nil {
		return nil, st, err
	}
	if err := actionError(got); err != nil {
		return got, st, err
	}
	return got, st, nil
}

// actionError turns an error action into an error. Any other action yields
// nil, whatever its payload.
func actionError(a state.Action) error {
	var msg, fallback string
	switch a := a.(type) {
	case state.ReviewsLoadError:
		msg, fallback = a.Message, state.MsgFetchReviewsFailed
	case state.MoviesLoadError:
		msg, fallback = a.Message, state.MsgFetchMoviesFailed
	case state.ReviewCreateError:
		msg, fallback = a.Message, state.MsgCreateReviewFailed
	default:
		return nil
	}
	if msg == "" {
		msg = fallback
	}
	return errors.New(msg)
}
