package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

// Styles groups the lipgloss styles used by the task list screen.
type Styles struct {
	Header    lipgloss.Style
	Stats     lipgloss.Style
	Selected  lipgloss.Style
	Done      lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	PrioLow   lipgloss.Style
	PrioMed   lipgloss.Style
	PrioHigh  lipgloss.Style
	InputHint lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Stats:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Done:      lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Help:      lipgloss.NewStyle().Faint(true),
		PrioLow:   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		PrioMed:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		PrioHigh:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		InputHint: lipgloss.NewStyle().Faint(true),
	}
}

func (s Styles) priority(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return s.PrioHigh
	case models.PriorityMedium:
		return s.PrioMed
	default:
		return s.PrioLow
	}
}
