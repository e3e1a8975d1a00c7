package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-advisor/internal/command"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// title, blank line, input and help take the remaining rows
	chromeHeight = 5
)

// Model is the Bubble Tea model for the interactive prompt.
type Model struct {
	dispatcher *command.Dispatcher
	input      textinput.Model
	viewport   viewport.Model
	history    []string
	quitting   bool
}

// NewModel creates a prompt bound to dispatcher.
func NewModel(dispatcher *command.Dispatcher) Model {
	input := textinput.New()
	input.Prompt = UserPrompt
	input.Placeholder = "help"
	input.Focus()

	m := Model{
		dispatcher: dispatcher,
		input:      input,
		viewport:   viewport.New(defaultWidth, defaultHeight-chromeHeight),
	}
	m.appendBot("Please enter a command, or help for a list of commands (type 'exit' to exit)")

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true

			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			// scroll keys go to the history, everything else is typed
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)

			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = msg.Width - len(UserPrompt) - 1
		m.viewport.GotoBottom()

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.history = append(m.history, UserPrompt+line)

	lines, err := m.dispatcher.Execute(line)
	m.appendBot(lines...)

	if command.IsExit(err) {
		m.quitting = true

		return m, tea.Quit
	}

	if err != nil {
		for _, l := range command.ErrorLines(err) {
			m.history = append(m.history, ErrorStyle.Render(BotPrompt+l))
		}
	}

	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()

	return m, nil
}

func (m *Model) appendBot(lines ...string) {
	for _, l := range lines {
		m.history = append(m.history, PromptStyle.Render(BotPrompt)+l)
	}

	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

// History returns every line printed so far.
func (m Model) History() []string {
	return m.history
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return strings.Join(m.history, "\n") + "\n"
	}

	var s strings.Builder

	s.WriteString(TitleStyle.Render("advisorbot"))
	s.WriteString("\n\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Enter: run | Esc/Ctrl+C: quit"))

	return s.String()
}
