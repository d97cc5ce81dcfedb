package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// bodyHeight is the number of rows available to the list or detail pane.
// The status bar takes the last row when there is room for it.
func (m *Model) bodyHeight() int {
	if m.termHeight <= 1 {
		return 1
	}
	return m.termHeight - 1
}

func (m *Model) showStatus() bool { return m.termHeight > 1 }

// View draws one frame. Every line is cut to the terminal width and no more
// rows than the terminal has are emitted, whatever the content size.
func (m *Model) View() string {
	if m.termWidth <= 0 || m.termHeight <= 0 {
		return ""
	}
	var body []string
	var status string
	if m.mode == modeDetail {
		body = m.renderDetail()
		status = m.detailStatus()
	} else {
		body = m.renderList()
		status = m.listStatus()
	}
	h := m.bodyHeight()
	if len(body) > h {
		body = body[:h]
	}
	for len(body) < h {
		body = append(body, "")
	}
	if m.showStatus() {
		body = append(body, truncate.String(status, uint(m.termWidth)))
	}
	return strings.Join(body, "\n")
}

func (m *Model) renderList() []string {
	h, w := m.bodyHeight(), m.termWidth
	rows, n := m.store.Window(m.sel.Offset, h)
	if n == 0 {
		return []string{m.styles.Empty.Render(truncate.String("waiting for records...", uint(w)))}
	}
	out := make([]string, 0, len(rows))
	for i, r := range rows {
		text := truncate.String(oneLine(r.Summary()), uint(w))
		if m.sel.Offset+i == m.sel.Index {
			pad := w - runewidth.StringWidth(text)
			if pad > 0 {
				text += strings.Repeat(" ", pad)
			}
			out = append(out, m.styles.Selected.Render(text))
			continue
		}
		out = append(out, m.styles.Row.Render(text))
	}
	return out
}

func (m *Model) renderDetail() []string {
	return m.doc.View(m.scroll.Offset, m.bodyHeight(), m.termWidth, m.styles.Detail)
}

func (m *Model) listStatus() string {
	n := m.store.Len()
	pos := 0
	if n > 0 {
		pos = min(m.sel.Index, n-1) + 1
	}
	source := "snapshot+tail"
	if m.cfg.TailOnly {
		source = "tail"
	}
	s := fmt.Sprintf(" %s [%s] %s/%s", filepath.Base(m.cfg.FilePath), source,
		humanize.Comma(int64(pos)), humanize.Comma(int64(n)))
	if _, dropped := m.store.Stats(); dropped > 0 {
		s += fmt.Sprintf(" dropped:%s", humanize.Comma(int64(dropped)))
	}
	return m.styles.Status.Render(s) + "  " + m.help.ShortHelpView(m.keymap.listHelp())
}

func (m *Model) detailStatus() string {
	n, h := m.doc.Len(), m.bodyHeight()
	first, last := 0, 0
	if n > 0 {
		first = m.scroll.Offset + 1
		last = min(n, m.scroll.Offset+h)
	}
	s := fmt.Sprintf(" record %s lines %d-%d/%d", humanize.Comma(int64(m.sel.Index+1)), first, last, n)
	return m.styles.Status.Render(s) + "  " + m.help.ShortHelpView(m.keymap.detailHelp())
}

// oneLine replaces control characters so a summary never spans rows or
// moves the cursor.
func oneLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
