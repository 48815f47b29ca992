// Package theme provides the Lip Gloss color palette and reusable styles
// for the chess console. It is a leaf package with no internal imports to
// avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Connection colors.
var (
	ColorConnected    = lipgloss.Color("#22c55e")
	ColorConnecting   = lipgloss.Color("#d97706")
	ColorDisconnected = lipgloss.Color("#dc2626")
)

// Piece-side colors.
var (
	ColorWhiteSide = lipgloss.Color("#f9fafb")
	ColorBlackSide = lipgloss.Color("#9ca3af")
)

// Event colors.
var (
	ColorMove   = lipgloss.Color("#3b82f6")
	ColorChat   = lipgloss.Color("#a855f7")
	ColorMatch  = lipgloss.Color("#22c55e")
	ColorFinish = lipgloss.Color("#f59e0b")
	ColorError  = lipgloss.Color("#dc2626")
)

// UI chrome colors.
var (
	ColorBorder = lipgloss.Color("#4b5563")
	ColorDimmed = lipgloss.Color("#6b7280")
	ColorBright = lipgloss.Color("#f9fafb")
)

// Shared styles.
var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(ColorBright)
	Dimmed  = lipgloss.NewStyle().Foreground(ColorDimmed)
	Panel   = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(0, 1)
	ErrText = lipgloss.NewStyle().Foreground(ColorError)
)

// SideColor returns the color for "white" or "black".
func SideColor(side string) lipgloss.Color {
	if side == "white" {
		return ColorWhiteSide
	}
	return ColorBlackSide
}
