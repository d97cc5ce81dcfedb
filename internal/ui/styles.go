package ui

import (
	"github.com/charmbracelet/lipgloss"

	"logview/internal/detail"
)

type Styles struct {
	Row      lipgloss.Style
	Selected lipgloss.Style
	Empty    lipgloss.Style
	Status   lipgloss.Style
	Detail   detail.Styles
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Row = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("252"))
		s.Empty = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
		s.Detail = detail.Styles{
			Key:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			Value: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		}
	} else {
		s.Row = lipgloss.NewStyle()
		s.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("0"))
		s.Empty = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("27"))
		s.Detail = detail.Styles{
			Key:   lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			Value: lipgloss.NewStyle().Foreground(lipgloss.Color("0")),
		}
	}
	return s
}
