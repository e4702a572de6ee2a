package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/moviereviews/internal/app"
	"github.com/heartmarshall/moviereviews/internal/auth"
	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/internal/service/review"
	"github.com/heartmarshall/moviereviews/internal/state"
	"github.com/heartmarshall/moviereviews/internal/tui"
)

func newTUICmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive review browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), e)
		},
	}
}

func runTUI(ctx context.Context, e env) error {
	return e.withClient(ctx, true, func(ctx context.Context, a *app.App) error {
		return tui.Run(ctx, a.Store, a.Reviews)
	})
}

func newListCmd(e env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all reviews, highest rated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPrinter(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			return e.withClient(cmd.Context(), false, func(ctx context.Context, a *app.App) error {
				_, st, err := await(ctx, a.Store, state.FetchReviews{}, state.KindReviewsLoaded, state.KindReviewsLoadError)
				if err != nil {
					return err
				}
				return p.reviews(state.SortedReviews(st.Reviews))
			})
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func newMoviesCmd(e env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "Print the movies a review can be written for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPrinter(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			return e.withClient(cmd.Context(), false, func(ctx context.Context, a *app.App) error {
				_, st, err := await(ctx, a.Store, state.FetchMovies{}, state.KindMoviesLoaded, state.KindMoviesLoadError)
				if err != nil {
					return err
				}
				return p.movies(st.Movies)
			})
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func newAddCmd(e env) *cobra.Command {
	form := review.NewForm()
	var movie string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a new review",
		Example: `  reviews add --title "Still great" --rating 5 --movie Alien
  reviews add --title "Too long" --body "Third act drags" --rating 2 --movie 0b7f3c1e-5d7a-4f7e-9a51-6f1d7b2c0a02`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withClient(cmd.Context(), false, func(ctx context.Context, a *app.App) error {
				_, st, err := await(ctx, a.Store, state.FetchMovies{}, state.KindMoviesLoaded, state.KindMoviesLoadError)
				if err != nil {
					return err
				}
				m, err := findMovie(st, movie)
				if err != nil {
					return err
				}
				form.MovieID = m.ID

				id, err := submit(ctx, a.Store, a.Reviews, form.Input())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created review %s for %s\n", id, m.Label())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&form.Title, "title", "", "review title (required)")
	cmd.Flags().StringVar(&form.Body, "body", "", "review text")
	cmd.Flags().IntVar(&form.Rating, "rating", domain.DefaultRating, "rating from 1 to 5")
	cmd.Flags().StringVar(&movie, "movie", "", "movie ID or title (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("movie")
	return cmd
}

// submitter is the part of review.Service the add command drives.
type submitter interface {
	Submit(ctx context.Context, in review.SubmitInput) (domain.CreateReviewInput, error)
}

// submit runs the same path as the TUI dialog and waits for the outcome.
func submit(ctx context.Context, store *state.Store, svc submitter, in review.SubmitInput) (string, error) {
	result := make(chan state.Action, 1)
	unsubscribe := store.Subscribe(func(act state.Action, _ state.State) {
		switch act.(type) {
		case state.ReviewCreated, state.ReviewCreateError:
			select {
			case result <- act:
			default:
			}
		}
	})
	defer unsubscribe()

	if _, err := svc.Submit(ctx, in); err != nil {
		return "", err
	}

	select {
	case act := <-result:
		if created, ok := act.(state.ReviewCreated); ok {
			return created.ID, nil
		}
		return "", actionError(act)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// findMovie matches by ID first, then by title ignoring case.
func findMovie(st state.State, ref string) (domain.Movie, error) {
	ref = strings.TrimSpace(ref)
	if m, ok := state.MovieByID(st, ref); ok {
		return m, nil
	}
	var matches []domain.Movie
	for _, m := range st.Movies {
		if strings.EqualFold(m.Title, ref) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Movie{}, fmt.Errorf("movie %q: %w", ref, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return domain.Movie{}, fmt.Errorf("movie %q is ambiguous, use its ID", ref)
	}
}

func newDevAPICmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "devapi",
		Short: "Serve an in-memory reviews API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, closeLog, err := e.setup(false)
			if err != nil {
				return err
			}
			defer closeLog()
			return app.RunDevAPI(cmd.Context(), cfg, logger)
		},
	}
}

func newTokenCmd(e env) *cobra.Command {
	var (
		userID string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token signed with auth.jwt_secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, closeLog, err := e.setup(true)
			if err != nil {
				return err
			}
			defer closeLog()

			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not configured")
			}
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			if ttl <= 0 {
				ttl = cfg.Auth.AccessTokenTTL
			}

			token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, ttl).
				GenerateAccessToken(auth.Identity{UserID: id, Name: name})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", domain.PlaceholderReviewerID, "reviewer UUID")
	cmd.Flags().StringVar(&name, "name", "", "reviewer display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.access_token_ttl)")
	return cmd
}

func newVersionCmd(_ env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
		},
	}
}
