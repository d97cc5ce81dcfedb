package ui

import (
	"github.com/charmbracelet/bubbles/help"

	"logview/internal/config"
	"logview/internal/detail"
	"logview/internal/model"
	"logview/internal/viewport"
)

type mode int

const (
	modeList mode = iota
	modeDetail
)

func (m mode) String() string {
	if m == modeDetail {
		return "detail"
	}
	return "list"
}

// Model is the interaction loop. It only reads the store; the ingest
// goroutine is the sole writer.
type Model struct {
	cfg   *config.Config
	store *model.Store

	keymap KeyMap
	styles Styles
	help   help.Model

	mode mode
	// list state
	sel viewport.Selection
	// detail state, rebuilt on every entry
	doc    detail.Document
	scroll viewport.Scroll

	termWidth  int
	termHeight int
}

type tickMsg struct{}
