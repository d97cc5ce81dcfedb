package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"logview/internal/detail"
	"logview/internal/util/logx"
	"logview/internal/viewport"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.help.Width = msg.Width
		h := m.bodyHeight()
		m.sel.Fit(m.store.Len(), h)
		if m.mode == modeDetail {
			m.scroll.Fit(m.doc.Len(), h)
		}
		return m, nil
	case tickMsg:
		return m, m.tick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			return m, tea.Quit
		}
		if m.mode == modeDetail {
			return m, m.updateDetail(msg)
		}
		return m, m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	n, h := m.store.Len(), m.bodyHeight()
	// Only repairs a selection left out of bounds by a resize or eviction.
	m.sel.Fit(n, h)
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.sel.MoveUp(n, h)
	case key.Matches(msg, m.keymap.Down):
		m.sel.MoveDown(n, h)
	case key.Matches(msg, m.keymap.PageUp):
		m.sel.PageUp(n, h)
	case key.Matches(msg, m.keymap.PageDown):
		m.sel.PageDown(n, h)
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keymap.Detail):
		m.openDetail()
	}
	return nil
}

func (m *Model) openDetail() {
	rec, err := m.store.At(m.sel.Index)
	if err != nil {
		// empty store: nothing to open
		if m.store.Len() > 0 {
			logx.Errorf("ui: open detail at %d: %v", m.sel.Index, err)
		}
		return
	}
	m.doc = detail.Format(rec, m.termWidth)
	m.scroll = viewport.Scroll{}
	m.mode = modeDetail
	logx.Debugf("ui: detail for row %d, %d lines at width %d", m.sel.Index, m.doc.Len(), m.doc.Width)
}

func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	n, h := m.doc.Len(), m.bodyHeight()
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.scroll.Up(n, h)
	case key.Matches(msg, m.keymap.Down):
		m.scroll.Down(n, h)
	case key.Matches(msg, m.keymap.PageUp):
		m.scroll.PageUp(n, h)
	case key.Matches(msg, m.keymap.PageDown):
		m.scroll.PageDown(n, h)
	case key.Matches(msg, m.keymap.Close):
		m.closeDetail()
	}
	return nil
}

// closeDetail returns to the list; the list selection was never touched.
func (m *Model) closeDetail() {
	m.doc = detail.Document{}
	m.scroll = viewport.Scroll{}
	m.mode = modeList
}
