package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title     lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
	Empty     lipgloss.Style
	Review    lipgloss.Style
	Heading   lipgloss.Style
	Meta      lipgloss.Style
	Body      lipgloss.Style
	Stars     lipgloss.Style
	Dialog    lipgloss.Style
	Label     lipgloss.Style
	Focused   lipgloss.Style
	Disabled  lipgloss.Style
	FormError lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	muted := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	danger := lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F87"}

	return styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Help:      lipgloss.NewStyle().Foreground(muted),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(danger).Padding(0, 1),
		Empty:     lipgloss.NewStyle().Italic(true).Foreground(muted),
		Review:    lipgloss.NewStyle().PaddingLeft(1).MarginBottom(1).BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(accent),
		Heading:   lipgloss.NewStyle().Bold(true),
		Meta:      lipgloss.NewStyle().Foreground(muted),
		Body:      lipgloss.NewStyle(),
		Stars:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F5C518")),
		Dialog:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
		Label:     lipgloss.NewStyle().Foreground(muted).Width(8),
		Focused:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Disabled:  lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		FormError: lipgloss.NewStyle().Foreground(danger),
	}
}
