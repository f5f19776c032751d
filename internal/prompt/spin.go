package prompt

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type spinDoneMsg struct{ err error }

type spinModel struct {
	spinner spinner.Model
	title   string
	err     error
	fn      func() error
}

func newSpinModel(title string, fn func() error) spinModel {
	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return spinModel{spinner: sp, title: title, fn: fn}
}

func (m spinModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return spinDoneMsg{err: m.fn()} },
	)
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinDoneMsg:
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	// Keys are deliberately ignored: the external command keeps running
	// and there is no cancellation point mid-call.
	return m, nil
}

func (m spinModel) View() string {
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.title)
}

// Spin runs fn while showing a spinner, then returns fn's error.
func Spin(title string, fn func() error) error {
	out, err := tea.NewProgram(newSpinModel(title, fn)).Run()
	if err != nil {
		return fmt.Errorf("run spinner: %w", err)
	}
	return out.(spinModel).err
}
