package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nepscript/nep/nep"
	"github.com/spf13/cobra"
)

const continuationPrompt = "...  "

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

// inputHistory is the list of submitted inputs with a browsing cursor.
// cursor == len(entries) means the user is not browsing.
type inputHistory struct {
	entries []string
	cursor  int
}

func (h *inputHistory) add(input string) {
	h.entries = append(h.entries, input)
	h.cursor = len(h.entries)
}

func (h *inputHistory) prev() (string, bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

func (h *inputHistory) next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return "", true
	}
	return h.entries[h.cursor], true
}

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Submit   key.Binding
	Complete key.Binding
	Vars     key.Binding
	Help     key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Vars, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Submit, k.Complete},
		{k.Vars, k.Help, k.Clear, k.Quit},
	}
}

var keys = keyMap{
	Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous input")),
	Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next input")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	Vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "bindings")),
	Help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
}

type replModel struct {
	session *nep.Session
	prompt  string

	textInput  textinput.Model
	transcript viewport.Model
	help       help.Model

	history []historyEntry
	inputs  inputHistory
	// pending holds the lines of a block whose braces are not closed yet.
	pending []string

	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

func newREPLCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(state.newEngine(), state.cfg.REPL.Prompt)
		},
	}
}

func newREPLModel(engine *nep.Engine, prompt string) replModel {
	ti := textinput.New()
	ti.Placeholder = "rakh x = 5;"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = theme.prompt
	ti.Prompt = prompt

	return replModel{
		session:    engine.NewSession(),
		prompt:     prompt,
		textInput:  ti,
		transcript: viewport.New(80, 20),
		help:       help.New(),
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.initialized = true
		m.textInput.Width = max(msg.Width-10, 10)
		m.help.Width = msg.Width
		m.transcript.Width = msg.Width
		m.transcript.Height = max(msg.Height-6, 3)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Clear):
			m.history = nil
			m.refreshTranscript()
			return m, nil
		case key.Matches(msg, keys.Vars):
			m.showVars = !m.showVars
			return m, nil
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, keys.Prev):
			if input, ok := m.inputs.prev(); ok {
				m.textInput.SetValue(input)
				m.textInput.CursorEnd()
			}
			return m, nil
		case key.Matches(msg, keys.Next):
			if input, ok := m.inputs.next(); ok {
				m.textInput.SetValue(input)
				m.textInput.CursorEnd()
			}
			return m, nil
		case key.Matches(msg, keys.Complete):
			return m.handleAutocomplete(), nil
		case key.Matches(msg, keys.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())
	m.textInput.SetValue("")
	if input == "" && len(m.pending) == 0 {
		return m, nil
	}
	if strings.HasPrefix(input, ":") && len(m.pending) == 0 {
		return m.handleCommand(input)
	}

	m.inputs.add(input)
	m.pending = append(m.pending, input)
	source := strings.Join(m.pending, "\n")
	if braceDepth(source) > 0 {
		m.textInput.Prompt = continuationPrompt
		return m, nil
	}

	m.pending = nil
	m.textInput.Prompt = m.prompt
	output, isErr := m.evaluate(source)
	m.record(historyEntry{input: source, output: output, isErr: isErr})
	return m, nil
}

func (m *replModel) record(entry historyEntry) {
	m.history = append(m.history, entry)
	m.refreshTranscript()
}

func (m replModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	name := strings.Fields(input)[0]
	switch name {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = nil
		m.refreshTranscript()
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.session.Reset()
		m.record(historyEntry{input: input, output: "Session reset"})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.record(historyEntry{input: input, output: "Unknown command: " + name, isErr: true})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	words := strings.Fields(input)
	if len(words) == 0 {
		return m
	}
	last := words[len(words)-1]

	candidates := append(nep.Keywords(), slices.Sorted(maps.Keys(m.session.Bindings()))...)
	var matches []string
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, last) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
	case 1:
		m.textInput.SetValue(strings.TrimSuffix(input, last) + matches[0])
		m.textInput.CursorEnd()
	default:
		m.record(historyEntry{output: "Completions: " + strings.Join(matches, ", ")})
	}
	return m
}

// evaluate runs source in the session. A single statement may be typed
// without its closing semicolon.
func (m replModel) evaluate(source string) (string, bool) {
	if !strings.HasSuffix(source, ";") && !strings.HasSuffix(source, "}") {
		source += ";"
	}

	result, err := m.session.Eval(context.Background(), source)
	if err != nil {
		return err.Error(), true
	}
	switch {
	case len(result.Outputs) > 0:
		return strings.Join(result.Outputs, "\n"), false
	case result.Value.Kind() == nep.KindNull:
		return "ok", false
	default:
		return result.Value.String(), false
	}
}

// braceDepth counts unclosed braces outside string literals.
func braceDepth(source string) int {
	depth := 0
	inString := false
	for _, r := range source {
		switch {
		case r == '"':
			inString = !inString
		case inString:
		case r == '{':
			depth++
		case r == '}':
			depth--
		}
	}
	return depth
}

func (m *replModel) refreshTranscript() {
	var b strings.Builder
	for _, entry := range m.history {
		for i, line := range strings.Split(entry.input, "\n") {
			if entry.input == "" {
				break
			}
			marker := "  › "
			if i > 0 {
				marker = "    "
			}
			b.WriteString(theme.muted.Render(marker) + line + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + theme.err.Render("✗ "+entry.output) + "\n\n")
		} else {
			b.WriteString("  " + theme.result.Render("→ "+entry.output) + "\n\n")
		}
	}
	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}
	if m.quitting {
		return theme.muted.Render("Pheri bhetaula!") + "\n"
	}

	var b strings.Builder
	b.WriteString(theme.header.Render("nep REPL") + " " + theme.muted.Render(version) + "\n")
	b.WriteString(m.transcript.View() + "\n")
	if m.showVars {
		b.WriteString(renderVarsPanel(m.session.Bindings()) + "\n")
	}
	b.WriteString(m.textInput.View() + "\n\n")

	m.help.ShowAll = m.showHelp
	b.WriteString(m.help.View(keys))
	return b.String()
}

func renderVarsPanel(bindings map[string]nep.Value) string {
	if len(bindings) == 0 {
		return theme.panel.Render(theme.muted.Render("No bindings yet"))
	}

	lines := []string{theme.panelTop.Render("Bindings")}
	for _, name := range slices.Sorted(maps.Keys(bindings)) {
		value := bindings[name]
		lines = append(lines, fmt.Sprintf("  %s = %s %s",
			theme.name.Render(name), value.String(), theme.muted.Render("("+value.Kind().String()+")")))
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}

func runREPL(engine *nep.Engine, prompt string) error {
	_, err := tea.NewProgram(newREPLModel(engine, prompt), tea.WithAltScreen()).Run()
	return err
}
