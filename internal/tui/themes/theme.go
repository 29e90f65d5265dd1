package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Faint         lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	TableHeader   lipgloss.Style
	FocusedPane   lipgloss.Style
	BlurredPane   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Confirmed     lipgloss.Style
	Unconfirmed   lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#6366f1"), // indigo
	lipgloss.Color("#a5b4fc"),
)

// Amber is a warmer alternative.
var Amber = newTheme(
	lipgloss.Color("#d97706"),
	lipgloss.Color("#fcd34d"),
)

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "amber":
		return Amber
	default:
		return Default
	}
}

func newTheme(primary, secondary lipgloss.Color) Theme {
	var (
		foreground = lipgloss.Color("#fafafa")
		muted      = lipgloss.Color("#737373")
		border     = lipgloss.Color("#404040")
		info       = lipgloss.Color("#3b82f6")
		success    = lipgloss.Color("#10b981")
		warning    = lipgloss.Color("#f59e0b")
		failure    = lipgloss.Color("#ef4444")
	)

	return Theme{
		Primary:    primary,
		Secondary:  secondary,
		Muted:      muted,
		Border:     border,
		Foreground: foreground,
		Info:       info,
		Error:      failure,
		Warning:    warning,
		Success:    success,

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(secondary),
		Normal: lipgloss.NewStyle().
			Foreground(foreground),
		Faint: lipgloss.NewStyle().
			Foreground(muted),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(foreground).
			Bold(true),
		TableHeader: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(border).
			BorderBottom(true).
			Bold(true).
			Padding(0, 1),

		// Panes
		FocusedPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		BlurredPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		// Status styles
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(failure).
			Bold(true),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Confirmed: lipgloss.NewStyle().
			Foreground(success),
		Unconfirmed: lipgloss.NewStyle().
			Foreground(warning),
	}
}
