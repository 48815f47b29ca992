// Package feed renders the rolling event log: every broadcast the session
// delivers, formatted one line per event.
package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/realtime"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/theme"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

const maxLines = 200

// Model holds the event log.
type Model struct {
	Width  int
	Height int
	lines  []string
}

// New creates an empty event log.
func New() Model {
	return Model{}
}

// Append formats one session event into the log. Status changes and errors
// are logged alongside wire events, in receipt order.
func (m *Model) Append(e realtime.Event) {
	line, ok := format(e)
	if !ok {
		return
	}
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}
}

func format(e realtime.Event) (string, bool) {
	switch ev := e.(type) {
	case realtime.StatusEvent:
		return theme.Dimmed.Render("· " + ev.State.String()), true
	case realtime.ErrorEvent:
		return theme.ErrText.Render("! " + ev.Err.Error()), true
	case realtime.MessageEvent:
		return formatMessage(ev.Message)
	default:
		return "", false
	}
}

func formatMessage(msg wire.Event) (string, bool) {
	switch ev := msg.(type) {
	case wire.MatchFound:
		return lipgloss.NewStyle().Foreground(theme.ColorMatch).
			Render(fmt.Sprintf("⚔ matched into %s as %s", ev.GameID, ev.Color)), true
	case wire.Move:
		line := fmt.Sprintf("♟ %s %s", ev.GameID, ev.SANMove)
		if ev.Status != "" && ev.Status != "active" {
			line += " (" + ev.Status + ")"
		}
		return lipgloss.NewStyle().Foreground(theme.ColorMove).Render(line), true
	case wire.Chat:
		return lipgloss.NewStyle().Foreground(theme.ColorChat).
			Render(fmt.Sprintf("✉ %s %s: %s", ev.GameID, ev.Message.SenderUserID, ev.Message.MessageText)), true
	case wire.GameFinished:
		line := fmt.Sprintf("∎ %s finished", ev.GameID)
		if ev.WinnerUserID != "" {
			line += ", winner " + ev.WinnerUserID
		}
		return lipgloss.NewStyle().Foreground(theme.ColorFinish).Render(line), true
	case wire.Unknown:
		return theme.Dimmed.Render(fmt.Sprintf("? %s event", ev.Type)), true
	default:
		return "", false
	}
}

// Len returns the number of log lines held.
func (m Model) Len() int { return len(m.lines) }

// View renders the newest lines that fit the panel height.
func (m Model) View() string {
	height := m.Height
	if height < 3 {
		height = 3
	}
	visible := m.lines
	if len(visible) > height {
		visible = visible[len(visible)-height:]
	}
	body := strings.Join(visible, "\n")
	if body == "" {
		body = theme.Dimmed.Render("waiting for events…")
	}
	return theme.Panel.Width(m.Width).Render(theme.Title.Render("Events") + "\n" + body)
}
