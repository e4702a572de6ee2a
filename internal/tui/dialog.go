package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/heartmarshall/moviereviews/internal/domain"
	"github.com/heartmarshall/moviereviews/internal/service/review"
)

type field int

const (
	fieldTitle field = iota
	fieldBody
	fieldRating
	fieldMovie
	fieldCount
)

// dialog is the submission form. form is the source of truth; the text
// widgets are synced into it after every keystroke.
type dialog struct {
	form     review.Form
	title    textinput.Model
	body     textarea.Model
	movieIdx int
	focus    field
	err      string
}

func newDialog() dialog {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = ""

	ta := textarea.New()
	ta.Placeholder = "What did you think? (optional)"
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(4)

	return dialog{
		form:     review.NewForm(),
		title:    ti,
		body:     ta,
		movieIdx: -1,
	}
}

// reset puts the dialog back to an empty form with the default rating.
func (d *dialog) reset() {
	d.form.Reset()
	d.title.Reset()
	d.body.Reset()
	d.movieIdx = -1
	d.err = ""
	d.setFocus(fieldTitle)
}

func (d *dialog) setFocus(f field) tea.Cmd {
	d.focus = (f + fieldCount) % fieldCount
	d.title.Blur()
	d.body.Blur()
	switch d.focus {
	case fieldTitle:
		return d.title.Focus()
	case fieldBody:
		return d.body.Focus()
	}
	return nil
}

func (d *dialog) selectMovie(movies []domain.Movie, delta int) {
	if len(movies) == 0 {
		d.movieIdx = -1
		d.form.MovieID = ""
		return
	}
	if d.movieIdx < 0 {
		d.movieIdx = 0
		if delta < 0 {
			d.movieIdx = len(movies) - 1
		}
	} else {
		d.movieIdx = (d.movieIdx + delta + len(movies)) % len(movies)
	}
	d.form.MovieID = movies[d.movieIdx].ID
}

// syncMovies keeps the selection on the same movie when the list changes.
func (d *dialog) syncMovies(movies []domain.Movie) {
	d.movieIdx = -1
	for i, m := range movies {
		if m.ID == d.form.MovieID {
			d.movieIdx = i
			return
		}
	}
	d.form.MovieID = ""
}

func (d *dialog) update(msg tea.KeyMsg, keys keyMap, movies []domain.Movie) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Next):
		return d.setFocus(d.focus + 1)
	case key.Matches(msg, keys.Prev):
		return d.setFocus(d.focus - 1)
	}

	var cmd tea.Cmd
	switch d.focus {
	case fieldTitle:
		if msg.Type == tea.KeyEnter {
			return d.setFocus(fieldBody)
		}
		d.title, cmd = d.title.Update(msg)
		d.form.Title = d.title.Value()
	case fieldBody:
		d.body, cmd = d.body.Update(msg)
		d.form.Body = d.body.Value()
	case fieldRating:
		switch {
		case key.Matches(msg, keys.Left):
			d.form.SetRating(d.form.Rating - 1)
		case key.Matches(msg, keys.Right):
			d.form.SetRating(d.form.Rating + 1)
		case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '5':
			d.form.SetRating(int(msg.Runes[0] - '0'))
		}
	case fieldMovie:
		switch {
		case key.Matches(msg, keys.Left):
			d.selectMovie(movies, -1)
		case key.Matches(msg, keys.Right):
			d.selectMovie(movies, 1)
		}
	}
	return cmd
}

func (d *dialog) setError(err error) {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		d.err = err.Error()
		return
	}
	parts := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	d.err = strings.Join(parts, ", ")
}

func (d dialog) view(st styles, keys keyMap, movies []domain.Movie) string {
	label := func(f field, name string) string {
		if d.focus == f {
			return st.Focused.Render("> ") + st.Label.Render(name)
		}
		return "  " + st.Label.Render(name)
	}

	movie := "none (← → to choose)"
	if d.movieIdx >= 0 && d.movieIdx < len(movies) {
		movie = movies[d.movieIdx].Label()
	}
	if len(movies) == 0 {
		movie = "no movies loaded"
	}

	var b strings.Builder
	b.WriteString(st.Heading.Render("New review") + "\n\n")
	b.WriteString(label(fieldTitle, "Title") + d.title.View() + "\n")
	b.WriteString(label(fieldBody, "Body") + "\n" + d.body.View() + "\n")
	b.WriteString(label(fieldRating, "Rating") + st.Stars.Render(stars(d.form.Rating)) + fmt.Sprintf(" %d/5", d.form.Rating) + "\n")
	b.WriteString(label(fieldMovie, "Movie") + movie + "\n\n")

	submit := helpLine(keys.Submit)
	if !d.form.CanSubmit() {
		submit = st.Disabled.Render(submit)
	}
	b.WriteString(submit + "  " + st.Help.Render(helpLine(keys.Next, keys.Cancel)))
	if d.err != "" {
		b.WriteString("\n" + st.FormError.Render(d.err))
	}
	return st.Dialog.Render(b.String())
}

func stars(n int) string {
	n = max(0, min(domain.MaxRating, n))
	return strings.Repeat("★", n) + strings.Repeat("☆", domain.MaxRating-n)
}
