// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     playground
// Description: Main Bubbletea model for the terminal playground
// Author:      Mike Stoffels
// Created:     2026-09-26
// License:     MIT
// ============================================================================

package playground

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
	"github.com/msto63/vibescript/internal/catalog"
)

// FocusArea represents which area has focus
type FocusArea int

const (
	FocusEditor FocusArea = iota
	FocusInput
	FocusPicker
)

// Examples is the catalog surface the playground needs
type Examples interface {
	List() []catalog.Summary
	Get(name string) (*catalog.Example, error)
}

// Config holds playground configuration
type Config struct {
	Engine        *engine.Engine
	Examples      Examples // optional
	Code          string   // initial editor content
	RunTimeout    time.Duration
	MaxTranscript int
	Version       string
}

// Model is the main Bubbletea model of the playground
type Model struct {
	// State
	width   int
	height  int
	ready   bool
	running bool
	focus   FocusArea

	// Components
	editor   textarea.Model
	output   viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	examples []catalog.Summary

	// Run state
	transcript *Transcript
	source     string
	inputs     map[string]string
	emitted    string
	pending    string
	pickIndex  int
	lastStatus string

	config Config
}

// New creates a new playground model
func New(cfg Config) Model {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Second
	}

	ta := textarea.New()
	ta.Placeholder = "VibeScript hier eingeben... (Ctrl+R ausführen)"
	ta.Focus()
	ta.CharLimit = 64000
	ta.ShowLineNumbers = true
	ta.SetWidth(80)
	ta.SetHeight(12)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.SetValue(cfg.Code)

	ti := textinput.New()
	ti.CharLimit = 1024

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		editor:     ta,
		input:      ti,
		spinner:    sp,
		focus:      FocusEditor,
		transcript: NewTranscript(cfg.MaxTranscript),
		inputs:     make(map[string]string),
		config:     cfg,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadExamples)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		editorHeight := max(msg.Height/2-4, 5)
		outputHeight := max(msg.Height-editorHeight-10, 3)

		if !m.ready {
			m.output = viewport.New(msg.Width-4, outputHeight)
			m.ready = true
		} else {
			m.output.Width = msg.Width - 4
			m.output.Height = outputHeight
		}
		m.editor.SetWidth(msg.Width - 4)
		m.editor.SetHeight(editorHeight)
		m.input.Width = msg.Width - 20
		m.updateOutputContent()

	case spinner.TickMsg:
		if m.running {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case runFinishedMsg:
		m.running = false
		m.handleResult(msg.result)
		if m.pending != "" {
			m.focus = FocusInput
			m.editor.Blur()
			m.input.Reset()
			m.input.Prompt = m.pending + "? "
			cmds = append(cmds, m.input.Focus())
		}
		m.updateOutputContent()
		m.output.GotoBottom()

	case examplesLoadedMsg:
		m.examples = msg.examples
		if m.pickIndex >= len(m.examples) {
			m.pickIndex = 0
		}

	case exampleLoadedMsg:
		if msg.err != nil {
			m.transcript.Add(Entry{Kind: EntryError, Text: "Beispiel konnte nicht geladen werden: " + msg.err.Error()})
		} else {
			m.editor.SetValue(msg.example.Code)
			m.inputs = make(map[string]string, len(msg.example.Inputs))
			for k, v := range msg.example.Inputs {
				m.inputs[k] = v
			}
			m.transcript.Add(Entry{Kind: EntryInfo, Text: "Beispiel geladen: " + msg.example.Title})
		}
		m.updateOutputContent()
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.focus {
	case FocusPicker:
		return m.handlePickerKey(msg)
	case FocusInput:
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "ctrl+r":
		if m.running {
			return m, nil
		}
		return m.startRun(strings.TrimRight(m.editor.Value(), " \n"), true)

	case "ctrl+e":
		if len(m.examples) == 0 {
			m.transcript.Add(Entry{Kind: EntryInfo, Text: "Keine Beispiele verfügbar"})
			m.updateOutputContent()
			return m, nil
		}
		m.focus = FocusPicker
		m.editor.Blur()
		return m, nil

	case "ctrl+l":
		m.transcript.Clear()
		m.updateOutputContent()
		return m, nil

	case "ctrl+n":
		m.editor.Reset()
		m.inputs = make(map[string]string)
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.pickIndex > 0 {
			m.pickIndex--
		}
	case "down", "j":
		if m.pickIndex < len(m.examples)-1 {
			m.pickIndex++
		}
	case "enter", " ":
		m.focus = FocusEditor
		focus := m.editor.Focus()
		return m, tea.Batch(focus, m.loadExample(m.examples[m.pickIndex].Name))
	case "esc":
		m.focus = FocusEditor
		focus := m.editor.Focus()
		return m, focus
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.input.Value()
		m.inputs[m.pending] = value
		m.transcript.Add(Entry{Kind: EntryInput, Text: fmt.Sprintf("%s = %s", m.pending, value)})
		m.pending = ""
		m.input.Blur()
		m.focus = FocusEditor
		m.editor.Focus()
		return m.startRun(m.source, false)

	case "esc":
		m.transcript.Add(Entry{Kind: EntryInfo, Text: "Eingabe abgebrochen"})
		m.pending = ""
		m.input.Blur()
		m.focus = FocusEditor
		m.updateOutputContent()
		focus := m.editor.Focus()
		return m, focus
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startRun runs src; a fresh run forgets the output shown so far
func (m Model) startRun(src string, fresh bool) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(src) == "" {
		m.transcript.Add(Entry{Kind: EntryInfo, Text: "No code to execute!"})
		m.updateOutputContent()
		return m, nil
	}
	if fresh {
		m.emitted = ""
		m.transcript.Add(Entry{Kind: EntryInfo, Text: "▶ " + time.Now().Format("15:04:05")})
	}
	m.source = src
	m.running = true
	m.updateOutputContent()
	return m, tea.Batch(m.spinner.Tick, m.runProgram(src, copyInputs(m.inputs)))
}

// handleResult appends the new part of a result to the transcript
func (m *Model) handleResult(result *engine.Result) {
	output := result.Output
	if strings.HasPrefix(output, m.emitted) {
		output = output[len(m.emitted):]
	}
	if output != "" {
		m.transcript.Add(Entry{Kind: EntryOutput, Text: strings.TrimRight(output, "\n")})
	}
	m.emitted = result.Output
	m.lastStatus = result.Status.String()

	switch result.Status {
	case interpreter.StatusNeedsInput:
		m.pending = result.PendingInput
	case interpreter.StatusFailed:
		m.transcript.Add(Entry{Kind: EntryError, Text: result.ErrorText(), Duration: result.Duration})
	default:
		text := fmt.Sprintf("✓ fertig (%d Schritte)", result.Steps)
		if result.Output == "" {
			text = "Code executed successfully (no output)"
		}
		m.transcript.Add(Entry{Kind: EntryInfo, Text: text, Duration: result.Duration})
	}
}

func (m Model) runProgram(src string, inputs map[string]string) tea.Cmd {
	e := m.config.Engine
	timeout := m.config.RunTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return runFinishedMsg{result: e.Run(ctx, src, inputs)}
	}
}

func (m Model) loadExamples() tea.Msg {
	if m.config.Examples == nil {
		return examplesLoadedMsg{}
	}
	return examplesLoadedMsg{examples: m.config.Examples.List()}
}

func (m Model) loadExample(name string) tea.Cmd {
	examples := m.config.Examples
	return func() tea.Msg {
		example, err := examples.Get(name)
		return exampleLoadedMsg{example: example, err: err}
	}
}

func copyInputs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "Lade Playground..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.focus == FocusPicker {
		b.WriteString(m.renderPicker())
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderEditor())
		b.WriteString("\n")
		b.WriteString(m.renderOutput())
		b.WriteString("\n")
		if m.focus == FocusInput {
			b.WriteString(m.input.View())
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return b.String()
}

func (m Model) renderHeader() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		"   ",
		HeaderStyle.Render("Playground"),
	)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

func (m Model) renderEditor() string {
	style := PanelStyle
	if m.focus == FocusEditor {
		style = FocusedPanelStyle
	}
	return style.Width(m.width - 2).Render(m.editor.View())
}

func (m Model) renderOutput() string {
	style := PanelStyle
	if m.focus == FocusInput {
		style = FocusedPanelStyle
	}
	return style.Width(m.width - 2).Height(m.output.Height + 2).Render(m.output.View())
}

func (m Model) renderPicker() string {
	var content strings.Builder
	content.WriteString(HeaderStyle.Render("Beispiel auswählen"))
	content.WriteString("\n\n")

	for i, ex := range m.examples {
		line := ex.Title
		if ex.Description != "" {
			line += " - " + ex.Description
		}
		if i == m.pickIndex {
			content.WriteString(PickerSelectedStyle.Render("▸ " + line))
		} else {
			content.WriteString(PickerItemStyle.Render(line))
		}
		content.WriteString("\n")
	}

	return PickerStyle.Width(m.width - 4).Render(content.String())
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.running:
		left = m.spinner.View() + " läuft..."
	case m.pending != "":
		left = InputEchoStyle.Render("wartet auf Eingabe: " + m.pending)
	case m.lastStatus != "":
		left = "Status: " + m.lastStatus
	default:
		left = "bereit"
	}

	right := HelpDescStyle.Render(fmt.Sprintf("%d Beispiele", len(m.examples)))
	if m.config.Version != "" {
		right += HelpDescStyle.Render(" | v" + m.config.Version)
	}

	space := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-4, 1)
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", space) + right)
}

func (m Model) renderHelpBar() string {
	var items []string
	switch m.focus {
	case FocusPicker:
		items = []string{
			RenderKeyHint("↑/↓", "navigieren"),
			RenderKeyHint("Enter", "laden"),
			RenderKeyHint("Esc", "schließen"),
		}
	case FocusInput:
		items = []string{
			RenderKeyHint("Enter", "Wert senden"),
			RenderKeyHint("Esc", "abbrechen"),
		}
	default:
		items = []string{
			RenderKeyHint("Ctrl+R", "ausführen"),
			RenderKeyHint("Ctrl+E", "Beispiele"),
			RenderKeyHint("Ctrl+N", "neu"),
			RenderKeyHint("Ctrl+L", "Ausgabe leeren"),
			RenderKeyHint("Ctrl+C", "beenden"),
		}
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateOutputContent renders the transcript into the output viewport
func (m *Model) updateOutputContent() {
	if !m.ready {
		return
	}

	var content strings.Builder
	for _, e := range m.transcript.Entries() {
		switch e.Kind {
		case EntryOutput:
			content.WriteString(OutputStyle.Render(e.Text))
		case EntryInput:
			content.WriteString(InputEchoStyle.Render("› " + e.Text))
		case EntryError:
			content.WriteString(ErrorStyle.Render(e.Text))
		case EntryInfo:
			text := e.Text
			if e.Duration > 0 {
				text += fmt.Sprintf(" (%.1fms)", float64(e.Duration.Microseconds())/1000)
			}
			content.WriteString(InfoStyle.Render(text))
		}
		content.WriteString("\n")
	}
	m.output.SetContent(content.String())
}

// Run starts the playground TUI
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
