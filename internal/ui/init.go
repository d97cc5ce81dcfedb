package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"logview/internal/config"
	"logview/internal/model"
)

// Used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

func initialModel(cfg *config.Config, store *model.Store) *Model {
	m := &Model{
		cfg:        cfg,
		store:      store,
		keymap:     DefaultKeyMap(),
		styles:     NewStyles(cfg.Theme != config.ThemeLight),
		help:       help.New(),
		mode:       modeList,
		termWidth:  defaultWidth,
		termHeight: defaultHeight,
	}
	return m
}

// Run blocks until the user quits or ctx is canceled. A canceled context is
// not an error.
func Run(ctx context.Context, cfg *config.Config, store *model.Store) error {
	m := initialModel(cfg, store)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// tick schedules a redraw when a refresh interval is configured. Without one
// the screen only changes after a key press.
func (m *Model) tick() tea.Cmd {
	d := m.cfg.RefreshInterval
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{} })
}
