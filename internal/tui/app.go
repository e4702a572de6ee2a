// Package tui is the terminal view over the review state store.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/internal/service/review"
	"github.com/heartmarshall/moviereviews/internal/state"
)

type reviewService interface {
	Load(ctx context.Context)
	Refresh(ctx context.Context)
	OpenDialog(ctx context.Context)
	CloseDialog(ctx context.Context)
	Submit(ctx context.Context, in review.SubmitInput) (domain.CreateReviewInput, error)
}

type stateSource interface {
	State() state.State
	Subscribe(l state.Listener) (unsubscribe func())
}

// stateMsg carries a new snapshot from the store into the program.
type stateMsg state.State

// Model renders the review list and the submission dialog.
type Model struct {
	ctx     context.Context
	svc     reviewService
	updates <-chan state.State
	state   state.State

	spinner spinner.Model
	dialog  dialog
	keys    keyMap
	styles  styles
	width   int
}

// New creates a model showing initial and then every state read from updates.
func New(ctx context.Context, svc reviewService, initial state.State, updates <-chan state.State) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	st := defaultStyles()
	sp.Style = st.Stars

	return Model{
		ctx:     ctx,
		svc:     svc,
		updates: updates,
		state:   initial,
		spinner: sp,
		dialog:  newDialog(),
		keys:    defaultKeyMap(),
		styles:  st,
	}
}

// Run shows the TUI until the user quits or ctx is done.
func Run(ctx context.Context, store stateSource, svc reviewService) error {
	updates := make(chan state.State, 1)
	unsubscribe := store.Subscribe(func(_ state.Action, s state.State) {
		pushLatest(updates, s)
	})
	defer unsubscribe()

	p := tea.NewProgram(New(ctx, svc, store.State(), updates), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// pushLatest replaces any unread snapshot so the view never lags behind and
// the store loop never blocks on a slow terminal.
func pushLatest(ch chan state.State, s state.State) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func waitForState(updates <-chan state.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

func (m Model) Init() tea.Cmd {
	m.svc.Load(m.ctx)
	return tea.Batch(m.spinner.Tick, waitForState(m.updates))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		return m.applyState(state.State(msg)), waitForState(m.updates)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.state.IsDialogOpen {
			return m.updateDialog(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) applyState(next state.State) Model {
	wasOpen := m.state.IsDialogOpen
	m.state = next
	if wasOpen && !next.IsDialogOpen {
		m.dialog.reset()
	}
	if !wasOpen && next.IsDialogOpen {
		m.dialog.setFocus(fieldTitle)
	}
	m.dialog.syncMovies(next.Movies)
	return m
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		m.svc.OpenDialog(m.ctx)
	case key.Matches(msg, m.keys.Refresh):
		m.svc.Refresh(m.ctx)
	}
	return m, nil
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.svc.CloseDialog(m.ctx)
		m.dialog.reset()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if _, err := m.svc.Submit(m.ctx, m.dialog.form.Input()); err != nil {
			m.dialog.setError(err)
			return m, nil
		}
		m.dialog.err = ""
		return m, nil
	}
	cmd := m.dialog.update(msg, m.keys, m.state.Movies)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Movie Reviews") + "\n")

	if msg := m.state.ErrorMessage(); msg != "" {
		b.WriteString(m.styles.Error.Render(msg) + "\n\n")
	}

	switch {
	case state.ShowSpinner(m.state):
		b.WriteString(m.spinner.View() + " Loading reviews...\n")
	case state.ShowEmpty(m.state):
		b.WriteString(m.styles.Empty.Render("No reviews yet. Press a to add one.") + "\n")
	default:
		for _, r := range state.SortedReviews(m.state.Reviews) {
			b.WriteString(m.renderReview(r) + "\n")
		}
	}

	if m.state.IsDialogOpen {
		b.WriteString("\n" + m.dialog.view(m.styles, m.keys, m.state.Movies) + "\n")
	} else {
		b.WriteString("\n" + m.styles.Help.Render(helpLine(m.keys.Add, m.keys.Refresh, m.keys.Quit)))
	}
	return b.String()
}

func (m Model) renderReview(r domain.Review) string {
	rating := m.styles.Meta.Render("unrated")
	if r.Rating != nil {
		rating = m.styles.Stars.Render(stars(*r.Rating))
	}

	lines := []string{
		m.styles.Heading.Render(r.Title) + "  " + rating,
		m.styles.Meta.Render(r.MovieTitle() + " · by " + r.ReviewerName()),
	}
	if r.HasBody() {
		body := m.styles.Body
		if m.width > 4 {
			body = body.Width(m.width - 4)
		}
		lines = append(lines, body.Render(*r.Body))
	}
	return m.styles.Review.Render(strings.Join(lines, "\n"))
}
