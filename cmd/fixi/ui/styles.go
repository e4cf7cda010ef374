// Package ui is the interactive fixi console: one table page per admin
// resource, a tab bar, toasts and a record detail pane.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"coinfixi/internal/admin"
)

// Coinfixi palette.
var (
	BrandDark   = lipgloss.Color("#242834")
	BrandPurple = lipgloss.Color("#7D53FF")
	BrandNeon   = lipgloss.Color("#B6FF00")
	BrandLight  = lipgloss.Color("#F5F6FA")
	BrandMint   = lipgloss.Color("#16F98A")

	LightForeground = lipgloss.Color("#242834")
	LightMuted      = lipgloss.Color("#8a8fa3")
	LightBorder     = lipgloss.Color("#dce0e5")
	LightSelection  = lipgloss.Color("#e6ddff")

	DarkForeground = lipgloss.Color("#F5F6FA")
	DarkMuted      = lipgloss.Color("#6b7186")
	DarkBorder     = lipgloss.Color("#3a3f4f")
	DarkSelection  = lipgloss.Color("#3b2f6b")

	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#16F98A")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Selection  lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    BrandPurple,
		Accent:     BrandDark,
		Muted:      LightMuted,
		Border:     LightBorder,
		Selection:  LightSelection,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    BrandNeon,
		Accent:     BrandPurple,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Selection:  DarkSelection,
		IsDark:     true,
	}
}

// DetectTheme resolves a configured preference ("light", "dark", "auto").
// In auto mode COINFIXI_DARK_MODE=1 or a dark COLORFGBG background selects
// the dark theme.
func DetectTheme(pref string) Theme {
	switch strings.ToLower(pref) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	}

	if os.Getenv("COINFIXI_DARK_MODE") == "1" {
		return DarkTheme()
	}
	// COLORFGBG is "foreground;background"; ANSI 0-6 and 8 are dark.
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}
	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Prompt    lipgloss.Style
	Selected  lipgloss.Style
	Cursor    lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Spinner lipgloss.Style
	Divider lipgloss.Style
	Toast   lipgloss.Style
	Detail  lipgloss.Style
}

// NewStyles creates a Styles instance for theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(BrandDark).
			Foreground(BrandLight).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Content: lipgloss.NewStyle().
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Underline(true).
			Padding(0, 1),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(theme.Selection),

		Cursor: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Underline(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Primary),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Toast: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()),

		Detail: lipgloss.NewStyle().
			Padding(0, 1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Primary),
	}
}

// DefaultStyles returns styles for the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme("auto"))
}

// Tone returns the text style for a badge tone.
func (s Styles) Tone(t admin.Tone) lipgloss.Style {
	switch t {
	case admin.ToneSuccess:
		return s.Success
	case admin.ToneWarning:
		return s.Warning
	case admin.ToneError:
		return s.Error
	case admin.ToneInfo:
		return s.Info
	default:
		return s.Body
	}
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
