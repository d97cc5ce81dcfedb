// Package detail turns one record into the wrapped, key/value styled lines
// shown in the drill-down pane.
package detail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"logview/internal/model"
)

const indent = "    "

// Break describes how a display line joins the one after it.
type Break int

const (
	// BreakNone marks the last line of a document.
	BreakNone Break = iota
	// BreakWrap was inserted by word wrapping.
	BreakWrap
	// BreakEscape replaced a \n escape inside a string value.
	BreakEscape
	// BreakStructural is a newline of the indented JSON itself.
	BreakStructural
)

type Line struct {
	Text  string
	Break Break
}

// Document is the immutable detail rendering of one record.
type Document struct {
	Lines []Line
	Width int
}

func (d Document) Len() int { return len(d.Lines) }

// Source rebuilds the indented JSON the lines were cut from.
func (d Document) Source() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(l.Text)
		switch l.Break {
		case BreakEscape:
			b.WriteString(`\n`)
		case BreakStructural:
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Format renders rec as indented JSON in file field order, turns \n escapes
// inside strings into line breaks and word-wraps every resulting line to
// width cells.
func Format(rec model.Record, width int) Document {
	if width < 1 {
		width = 1
	}
	doc := Document{Width: width}
	rows := strings.Split(encode(rec), "\n")
	for ri, row := range rows {
		segs := splitEscapes(row)
		for si, seg := range segs {
			end := BreakEscape
			if si == len(segs)-1 {
				end = BreakStructural
				if ri == len(rows)-1 {
					end = BreakNone
				}
			}
			pieces := wrap(seg, width)
			for pi, p := range pieces {
				br := BreakWrap
				if pi == len(pieces)-1 {
					br = end
				}
				doc.Lines = append(doc.Lines, Line{Text: p, Break: br})
			}
		}
	}
	return doc
}

// encode indents the record's raw line, which keeps field order and the
// exact text of every value. Records without a raw line are re-encoded.
func encode(rec model.Record) string {
	var buf bytes.Buffer
	if rec.Raw != "" {
		if err := json.Indent(&buf, []byte(strings.TrimSpace(rec.Raw)), "", indent); err == nil {
			return buf.String()
		}
		buf.Reset()
	}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(rec.Fields); err != nil {
		return fmt.Sprintf("%v", rec.Fields)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// splitEscapes cuts one line of JSON text at every \n escape that appears
// inside a string literal. An escaped backslash followed by n is not a
// newline escape.
func splitEscapes(row string) []string {
	var segs []string
	inString, escaped := false, false
	start := 0
	for i := 0; i < len(row); i++ {
		c := row[i]
		switch {
		case escaped:
			escaped = false
			if c == 'n' {
				segs = append(segs, row[start:i-1])
				start = i + 1
			}
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		}
	}
	return append(segs, row[start:])
}

// wrap breaks s into pieces no wider than width cells, not counting
// trailing spaces. Breaks go after a space when one is available, with the
// space kept on the upper piece so that concatenating the pieces yields s.
// Leading indentation is never a break point. Words wider than width are
// cut.
func wrap(s string, width int) []string {
	if runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	rs := []rune(s)
	lead := 0
	for lead < len(rs) && rs[lead] == ' ' {
		lead++
	}
	var out []string
	start := 0
	for start < len(rs) {
		w, brk, i := 0, -1, start
		for ; i < len(rs); i++ {
			rw := runewidth.RuneWidth(rs[i])
			if w+rw > width && i > start {
				break
			}
			w += rw
			if rs[i] == ' ' && i >= lead {
				brk = i + 1
			}
		}
		if i == len(rs) {
			out = append(out, string(rs[start:]))
			break
		}
		end := i
		switch {
		case rs[i] == ' ' && i >= lead:
			// overflow on a space: keep the run of spaces on this piece
			for end < len(rs) && rs[end] == ' ' {
				end++
			}
		case brk > start:
			end = brk
		}
		out = append(out, string(rs[start:end]))
		start = end
	}
	return out
}

// Key splits a line that starts, after indentation, with a complete JSON
// string followed by a colon. key includes the indentation and the colon.
func (l Line) Key() (key, value string, ok bool) {
	t := l.Text
	i := 0
	for i < len(t) && (t[i] == ' ' || t[i] == '\t') {
		i++
	}
	if i >= len(t) || t[i] != '"' {
		return "", "", false
	}
	for j := i + 1; j < len(t); j++ {
		switch t[j] {
		case '\\':
			j++
		case '"':
			if j+1 < len(t) && t[j+1] == ':' {
				return t[:j+2], t[j+2:], true
			}
			return "", "", false
		}
	}
	return "", "", false
}

// Styles used when rendering a line.
type Styles struct {
	Key   lipgloss.Style
	Value lipgloss.Style
}

// Render draws the line truncated to width cells, with the key and value
// portions in their own styles. Other lines are drawn unstyled.
func (l Line) Render(width int, st Styles) string {
	if width < 1 {
		return ""
	}
	key, value, ok := l.Key()
	if !ok {
		return truncate.String(l.Text, uint(width))
	}
	key = truncate.String(key, uint(width))
	kw := runewidth.StringWidth(key)
	out := st.Key.Render(key)
	if rest := width - kw; rest > 0 && value != "" {
		out += st.Value.Render(truncate.String(value, uint(rest)))
	}
	return out
}

// View returns up to height rendered lines starting at offset.
func (d Document) View(offset, height, width int, st Styles) []string {
	if offset < 0 {
		offset = 0
	}
	if height < 0 {
		height = 0
	}
	end := min(len(d.Lines), offset+height)
	if offset >= end {
		return nil
	}
	out := make([]string, 0, end-offset)
	for _, l := range d.Lines[offset:end] {
		out = append(out, l.Render(width, st))
	}
	return out
}
