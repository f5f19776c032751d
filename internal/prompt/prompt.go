// Package prompt implements the numbered-choice prompts and progress
// spinner used by the interactive export flow.
package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the operator cancels a prompt with Ctrl+C or
// Esc.
var ErrAborted = errors.New("prompt aborted")

// Validator checks the raw answer against the option set and returns the
// validated value, or an error whose message is shown before re-asking.
type Validator func(answer string, options []string) (string, error)

// NumberValidator accepts an option index between 1 and len(options) and
// returns the option text.
func NumberValidator(answer string, options []string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(options) {
		return "", fmt.Errorf("enter a number between 1 and %d", len(options))
	}
	return options[n-1], nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// SetNoColor strips all prompt styling; used when --no-color is given or
// the terminal cannot render ANSI colors.
func SetNoColor(on bool) {
	if !on {
		return
	}
	titleStyle = lipgloss.NewStyle()
	numberStyle = lipgloss.NewStyle()
	errStyle = lipgloss.NewStyle()
}

type selectModel struct {
	title    string
	options  []string
	validate Validator
	input    textinput.Model
	errMsg   string
	result   string
	done     bool
	aborted  bool
}

func newSelectModel(title string, options []string, v Validator) selectModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 32
	ti.Width = 32
	ti.Focus()
	return selectModel{title: title, options: options, validate: v, input: ti}
}

func (m selectModel) Init() tea.Cmd { return textinput.Blink }

// Update re-asks on invalid input: the validator error is shown and the
// input cleared, with no retry bound.
func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			value, err := m.validate(m.input.Value(), m.options)
			if err != nil {
				m.errMsg = err.Error()
				m.input.SetValue("")
				return m, nil
			}
			m.result = value
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n")
	for i, opt := range m.options {
		sb.WriteString(fmt.Sprintf("  %s %s\n", numberStyle.Render(fmt.Sprintf("%d)", i+1)), opt))
	}
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	if m.errMsg != "" {
		sb.WriteString(errStyle.Render(m.errMsg))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Select shows a numbered prompt and blocks until the validator accepts an
// answer or the operator aborts.
func Select(title string, options []string, v Validator) (string, error) {
	if v == nil {
		v = NumberValidator
	}
	out, err := tea.NewProgram(newSelectModel(title, options, v)).Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	final := out.(selectModel)
	if final.aborted {
		return "", ErrAborted
	}
	return final.result, nil
}
