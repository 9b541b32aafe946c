// Package theme provides the Lip Gloss color palette and reusable styles
// for the EventHub TUI. It is a leaf package with no internal imports to
// avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Role colors.
var (
	ColorAdmin  = lipgloss.Color("#a855f7")
	ColorNormal = lipgloss.Color("#3b82f6")
)

// Event timing colors.
var (
	ColorUpcoming = lipgloss.Color("#22c55e")
	ColorToday    = lipgloss.Color("#f59e0b")
	ColorPast     = lipgloss.Color("#6b7280")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#6366f1")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// RoleColor returns the color for a role name.
func RoleColor(role string) lipgloss.Color {
	if role == "admin" {
		return ColorAdmin
	}
	return ColorNormal
}

// RoleBadge returns a colored badge string for a role name.
func RoleBadge(role string) string {
	switch role {
	case "admin":
		return lipgloss.NewStyle().Foreground(ColorAdmin).Render("[A]")
	case "normal":
		return lipgloss.NewStyle().Foreground(ColorNormal).Render("[U]")
	default:
		return lipgloss.NewStyle().Foreground(ColorDimmed).Render("[?]")
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)
)
