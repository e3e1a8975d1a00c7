package main

import "github.com/charmbracelet/lipgloss"

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// PromptStyle for the bot prompt prefix.
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// BotPrompt prefixes every line the bot prints.
const BotPrompt = "advisorbot> "

// UserPrompt prefixes the input line.
const UserPrompt = "user> "
