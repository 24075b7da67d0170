// Package tui provides the live Bubble Tea monitor view.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bytewatt/loglingo/internal/classify"
	"github.com/bytewatt/loglingo/internal/cli"
	"github.com/bytewatt/loglingo/internal/pipeline"
	"github.com/bytewatt/loglingo/internal/translate"
)

// ChatMsg carries a classified line from the monitor into the UI.
type ChatMsg classify.Message

// TranslationMsg carries a translation result from the monitor into the UI.
type TranslationMsg translate.Result

// maxLines bounds the scrollback kept in the viewport.
const maxLines = 500

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.ColorAccent)
	watchMetaStyle  = lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
	watchBarStyle   = lipgloss.NewStyle().Foreground(cli.ColorTextDim)
)

// Watch is the root model of the live monitor view. Events arrive on sub,
// fed by the monitor's callbacks.
type Watch struct {
	monitor *pipeline.Monitor
	sub     chan tea.Msg

	viewport viewport.Model
	spinner  spinner.Model
	ready    bool
	lines    []string

	width  int
	height int
}

// NewWatch returns a watch model reading events from sub.
func NewWatch(m *pipeline.Monitor, sub chan tea.Msg) Watch {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.ColorAccent)

	return Watch{monitor: m, sub: sub, spinner: sp}
}

// Init starts the spinner and the event subscription.
func (w Watch) Init() tea.Cmd {
	return tea.Batch(w.spinner.Tick, w.waitEvent())
}

func (w Watch) waitEvent() tea.Cmd {
	return func() tea.Msg { return <-w.sub }
}

// Update handles window sizing, key toggles, and incoming monitor events.
func (w Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		vh := msg.Height - 4 // header + status bar
		if vh < 3 {
			vh = 3
		}
		if !w.ready {
			w.viewport = viewport.New(msg.Width, vh)
			w.ready = true
		} else {
			w.viewport.Width = msg.Width
			w.viewport.Height = vh
		}
		w.refresh()
		return w, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return w, tea.Quit
		case "a":
			opts := w.monitor.Options()
			w.monitor.SetOptions(opts.WithShowAll(!opts.ShowAll))
			return w, nil
		case "s":
			opts := w.monitor.Options()
			w.monitor.SetOptions(opts.WithKeepSystem(!opts.KeepSystem))
			return w, nil
		case "r":
			opts := w.monitor.Options()
			w.monitor.SetOptions(opts.WithKeepRewards(!opts.KeepRewards))
			return w, nil
		}
		var cmd tea.Cmd
		w.viewport, cmd = w.viewport.Update(msg)
		return w, cmd

	case ChatMsg:
		w.push(cli.RenderChatLine(string(msg.Channel), msg.Speaker, msg.Body))
		return w, w.waitEvent()

	case TranslationMsg:
		w.push(cli.RenderTranslation(translate.Result(msg)))
		return w, w.waitEvent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}

	var cmd tea.Cmd
	w.viewport, cmd = w.viewport.Update(msg)
	return w, cmd
}

func (w *Watch) push(line string) {
	w.lines = append(w.lines, line)
	if len(w.lines) > maxLines {
		w.lines = w.lines[len(w.lines)-maxLines:]
	}
	w.refresh()
}

func (w *Watch) refresh() {
	if !w.ready {
		return
	}
	atBottom := w.viewport.AtBottom()
	w.viewport.SetContent(strings.Join(w.lines, "\n"))
	if atBottom {
		w.viewport.GotoBottom()
	}
}

// View renders the header, scrollback, and status bar.
func (w Watch) View() string {
	if !w.ready {
		return w.spinner.View() + " starting..."
	}

	header := watchTitleStyle.Render("loglingo") + " " +
		watchMetaStyle.Render(w.monitor.LogPath())

	opts := w.monitor.Options()
	toggles := fmt.Sprintf("[a]ll:%s  [s]ystem:%s  [r]ewards:%s  [q]uit",
		onOff(opts.ShowAll), onOff(opts.KeepSystem), onOff(opts.KeepRewards))

	snap := w.monitor.Stats()
	stats := fmt.Sprintf("%s translated  %s cached  %s failed  avg %s",
		cli.FormatNumber(snap.Global.Success),
		cli.FormatNumber(snap.Global.CacheHit),
		cli.FormatNumber(snap.Global.Fail),
		cli.FormatLatency(snap.Global.AvgLatency))

	bar := watchBarStyle.Render(toggles + "   " + stats)

	var body string
	if len(w.lines) == 0 {
		body = w.spinner.View() + watchMetaStyle.Render(" waiting for chat...")
	} else {
		body = w.viewport.View()
	}

	return header + "\n\n" + body + "\n" + bar
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
