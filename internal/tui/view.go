package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

// View renders the current state of the model.
func (m Model) View() string {
	var blocks []string

	blocks = append(blocks, titleStyle.Render(fmt.Sprintf("emuhud • %s", m.title())))
	blocks = append(blocks, fmt.Sprintf("%s %s", StatusIcon(m.frame.Status), m.frame.StatusText))
	if !m.received {
		blocks = append(blocks, fmt.Sprintf("%s waiting for the bridge…", m.spinner.View()))
	}

	for _, s := range m.frame.Sections {
		blocks = append(blocks, renderSection(s))
	}

	switch {
	case m.sourceErr != nil:
		blocks = append(blocks, noticeStyle.Render("source: "+m.sourceErr.Error()))
	case m.done && m.received:
		blocks = append(blocks, noticeStyle.Render("source ended"))
	}
	if m.notice != "" {
		blocks = append(blocks, noticeStyle.Render(m.notice))
	}

	if m.prompting {
		blocks = append(blocks, helpStyle.Render(m.input.View()), m.help.View(promptKeys{m.keys}))
	} else {
		blocks = append(blocks, helpStyle.Render(m.help.View(m.keys)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m Model) title() string {
	if strings.TrimSpace(m.meta.Game) != "" {
		return m.meta.Game
	}
	if m.frame.Theme != "" {
		return m.frame.Theme
	}
	return "HUD"
}

func renderSection(s theme.Section) string {
	header := sectionStyle.Render(s.Title)
	if s.Badge != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Bottom, header, " ", badgeStyle.Render(s.Badge))
	}
	lines := make([]string, 0, len(s.Lines)+1)
	lines = append(lines, header)
	for _, l := range s.Lines {
		lines = append(lines, " "+LineStyle(l).Render(l.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// LineStyle returns the style for a line. An explicit colour overrides the
// tone's colour.
func LineStyle(l theme.Line) lipgloss.Style {
	var style lipgloss.Style
	switch l.Tone {
	case theme.ToneAccent:
		style = accentStyle
	case theme.ToneGood:
		style = goodStyle
	case theme.ToneWarn:
		style = warnStyle
	case theme.ToneBad:
		style = badStyle
	case theme.ToneDim:
		style = dimStyle
	default:
		style = normalStyle
	}
	if l.Color != "" {
		style = style.Foreground(lipgloss.Color(l.Color))
	}
	return style
}

// StatusIcon returns the glyph representing a connection status.
func StatusIcon(status theme.Status) string {
	switch status {
	case theme.StatusConnected:
		return goodStyle.Render("●")
	case theme.StatusError:
		return badStyle.Render("✗")
	case theme.StatusClosed:
		return dimStyle.Render("■")
	default:
		return dimStyle.Render("○")
	}
}

// RenderText renders a frame without styling, for pipes and logs.
func RenderText(f theme.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", f.Theme, f.StatusText)
	for _, s := range f.Sections {
		b.WriteString("\n")
		b.WriteString(s.Title)
		if s.Badge != "" {
			fmt.Fprintf(&b, " (%s)", s.Badge)
		}
		b.WriteString("\n")
		for _, l := range s.Lines {
			fmt.Fprintf(&b, "  %s\n", l.Text)
		}
	}
	return b.String()
}
