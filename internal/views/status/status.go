// Package status renders the top status bar of the chess console.
package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/realtime"
	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	State    realtime.State
	Mode     string
	Username string
	GameID   string
	Color    string
	Width    int
}

// New creates a status bar model.
func New(mode string) Model {
	return Model{Mode: mode}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	switch m.State {
	case realtime.StateOpen:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorConnected).Render("● connected")
	case realtime.StateConnecting:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorConnecting).Render("◐ connecting…")
	default:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDisconnected).Render("○ disconnected")
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr + sep + theme.Dimmed.Render("mode: "+m.Mode)

	if m.Username != "" {
		content += sep + m.Username
	}
	if m.GameID != "" {
		game := m.GameID
		if m.Color != "" {
			game = fmt.Sprintf("%s (%s)", m.GameID,
				lipgloss.NewStyle().Foreground(theme.SideColor(m.Color)).Render(m.Color))
		}
		content += sep + game
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
