// Package tui renders theme frames in the terminal with Bubbletea.
package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

// FrameMsg delivers a newly published frame to the model.
type FrameMsg struct {
	Frame theme.Frame
}

// SourceDoneMsg reports that the snapshot source has ended.
type SourceDoneMsg struct {
	Err error
}

type actionDoneMsg struct {
	err error
}

// ActFunc routes a viewer action to the theme's session.
type ActFunc func(ctx context.Context, action theme.Action) error

// Options configures a HUD model.
type Options struct {
	Metadata theme.Metadata
	Act      ActFunc
}

// Model contains the Bubbletea state for the terminal HUD.
type Model struct {
	meta    theme.Metadata
	act     ActFunc
	frame   theme.Frame
	spinner spinner.Model
	keys    keyMap
	help    help.Model
	input   textinput.Model

	prompting bool
	received  bool
	done      bool
	sourceErr error
	notice    string
	width     int
}

// NewModel constructs a HUD model for one theme.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	in := textinput.New()
	in.Placeholder = "combo name"
	in.Prompt = "expand › "
	in.CharLimit = 64

	return Model{
		meta:    opts.Metadata,
		act:     opts.Act,
		frame:   theme.Frame{Theme: opts.Metadata.Name, Status: theme.StatusOffline, StatusText: "Offline"},
		spinner: s,
		keys:    newKeyMap(opts.Metadata.Actions, opts.Act != nil),
		help:    help.New(),
		input:   in,
		width:   80,
	}
}

// Init starts the spinner shown until the first frame arrives.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Frame returns the frame currently on screen.
func (m Model) Frame() theme.Frame {
	return m.frame
}

// IsFinished reports whether the source has ended or the viewer quit.
func (m Model) IsFinished() bool {
	return m.done
}

func (m Model) supports(action string) bool {
	return m.act != nil && slices.Contains(m.meta.Actions, action)
}

func (m Model) dispatch(action theme.Action) tea.Cmd {
	act := m.act
	return func() tea.Msg {
		return actionDoneMsg{err: act(context.Background(), action)}
	}
}
