package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if m.received {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case FrameMsg:
		m.frame = msg.Frame
		m.received = true
		return m, nil
	case actionDoneMsg:
		m.notice = ""
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		return m, nil
	case SourceDoneMsg:
		m.done = true
		m.sourceErr = msg.Err
		return m, nil
	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	case tea.QuitMsg:
		m.done = true
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.done = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Locked) && m.supports(actionToggleLocked):
		return m, m.dispatch(theme.Action{Name: actionToggleLocked})
	case key.Matches(msg, m.keys.Expand) && m.supports(actionExpand):
		m.prompting = true
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.done = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.prompting = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		target := strings.TrimSpace(m.input.Value())
		m.prompting = false
		m.input.Blur()
		if target == "" {
			return m, nil
		}
		return m, m.dispatch(theme.Action{Name: actionExpand, Target: target})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
