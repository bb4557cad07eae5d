// ============================================================================
// trump - expression language front-end
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model for the interactive parser REPL
// Author:      abyanmajid
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang"
	"github.com/abyanmajid/trump/foundation/utils/stringx"
	"github.com/abyanmajid/trump/internal/history"
	"github.com/abyanmajid/trump/internal/render"
)

// Number of stored sources preloaded into the input history
const historyPreload = 100

// Config holds REPL configuration
type Config struct {
	Engine  *lang.Engine
	History *history.Store // optional
	Format  render.Format  // tree or json
	Style   render.Style
	Logger  *mdwlog.Logger
}

type savedMsg struct {
	id  string
	err error
}

type historyLoadedMsg struct {
	sources []string
	err     error
}

// Model is the Bubbletea model for the REPL
type Model struct {
	// State
	width  int
	height int
	ready  bool
	format render.Format
	style  render.Style
	status string
	err    error

	// Components
	input    textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	// Session
	transcript []string
	entries    []string
	cursor     int
	draft      string

	engine *lang.Engine
	store  *history.Store
	logger *mdwlog.Logger
}

// New creates a REPL model
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = mdwlog.Discard()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = lang.NewEngine(lang.Options{Logger: logger})
	}
	format := cfg.Format
	if format != render.FormatJSON {
		format = render.FormatTree
	}

	input := textinput.New()
	input.Prompt = PromptStyle.Render("> ")
	input.Placeholder = "1 + 2 * 3"
	input.Focus()

	return Model{
		format: format,
		style:  cfg.Style,
		input:  input,
		help:   help.New(),
		keys:   defaultKeyMap(),
		engine: engine,
		store:  cfg.History,
		logger: logger.WithName("repl"),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.store != nil {
		cmds = append(cmds, m.loadHistory)
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 5 // input panel + help
		viewportHeight := max(msg.Height-headerHeight-footerHeight, 1)

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 8
		m.help.Width = msg.Width
		m.updateViewportContent()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.WarnWithErr("failed to record parse", msg.err)
		} else {
			m.status = "saved " + msg.id
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = append(msg.sources, m.entries...)
		m.cursor = len(m.entries)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Prev):
		if m.cursor > 0 {
			if m.cursor == len(m.entries) {
				m.draft = m.input.Value()
			}
			m.cursor--
			m.input.SetValue(m.entries[m.cursor])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if m.cursor < len(m.entries) {
			m.cursor++
			if m.cursor == len(m.entries) {
				m.input.SetValue(m.draft)
			} else {
				m.input.SetValue(m.entries[m.cursor])
			}
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleMode):
		if m.format == render.FormatTree {
			m.format = render.FormatJSON
		} else {
			m.format = render.FormatTree
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.transcript = nil
		m.status = ""
		m.err = nil
		m.updateViewportContent()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if stringx.IsBlank(m.input.Value()) {
		return m, nil
	}
	source := strings.TrimSpace(m.input.Value())

	m.entries = append(m.entries, source)
	m.cursor = len(m.entries)
	m.draft = ""
	m.input.Reset()

	result, err := m.engine.Parse(source)
	m.transcript = append(m.transcript, m.renderResult(source, result, err))
	m.updateViewportContent()
	m.viewport.GotoBottom()

	if err != nil || m.store == nil {
		return m, nil
	}
	return m, m.save(result)
}

func (m Model) renderResult(source string, result *lang.Result, err error) string {
	var b strings.Builder
	b.WriteString(m.apply(EchoStyle, "> "+source))
	b.WriteString("\n")

	if err != nil {
		b.WriteString(m.apply(ErrorStyle, err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	out, encErr := render.Program(result.Program, m.format, "  ", m.style)
	if encErr != nil {
		out = encErr.Error() + "\n"
	}
	b.WriteString(out)
	b.WriteString(render.Diagnostics(result.Diagnostics, m.style))

	b.WriteString(render.Summary(len(result.Program.Statements), len(result.Diagnostics), m.style))
	b.WriteString(m.apply(MutedStyle, fmt.Sprintf(" in %s", result.Duration.Round(time.Microsecond))))
	b.WriteString("\n")
	return b.String()
}

func (m Model) apply(style lipgloss.Style, text string) string {
	if !m.style.Color {
		return text
	}
	return style.Render(text)
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
}

func (m Model) save(result *lang.Result) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		entry, err := history.NewEntry(result)
		if err != nil {
			return savedMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Record(ctx, entry); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{id: entry.ID}
	}
}

func (m Model) loadHistory() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := m.store.List(ctx, history.Filter{Limit: historyPreload})
	if err != nil {
		return historyLoadedMsg{err: err}
	}
	// List is newest first; input history runs oldest to newest
	sources := make([]string, len(entries))
	for i, e := range entries {
		sources[len(entries)-1-i] = e.Source
	}
	return historyLoadedMsg{sources: sources}
}

// Transcript returns the rendered output blocks in order
func (m Model) Transcript() []string {
	return m.transcript
}

// Format returns the active output format
func (m Model) Format() render.Format {
	return m.format
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starting REPL..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(OutputPanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(InputPanelStyle.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	parts := []string{
		LogoStyle.Render(Logo),
		ModeStyle.Render("[" + string(m.format) + "]"),
	}
	if m.store != nil {
		parts = append(parts, MutedStyle.Render("history on"))
	}
	switch {
	case m.err != nil:
		parts = append(parts, ErrorStyle.Render(m.err.Error()))
	case m.status != "":
		parts = append(parts, MutedStyle.Render(m.status))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, "  "))
}

// Run starts the REPL and blocks until the user quits
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
