package themes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Normal         lipgloss.Style
	Bold           lipgloss.Style
	Selected       lipgloss.Style
	Highlighted    lipgloss.Style
	Level1         lipgloss.Style
	Level2         lipgloss.Style
	Level3         lipgloss.Style
	AmountPositive lipgloss.Style
	AmountNegative lipgloss.Style
	TabActive      lipgloss.Style
	TabInactive    lipgloss.Style
	StatusError    lipgloss.Style
	StatusSuccess  lipgloss.Style
	StatusPending  lipgloss.Style
	Box            lipgloss.Style
	BorderedBox    lipgloss.Style
	Primary        lipgloss.Color
	Border         lipgloss.Color
	Foreground     lipgloss.Color
	Muted          lipgloss.Color
	Error          lipgloss.Color
	Success        lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#7c3aed"),
	Border:     lipgloss.Color("#404040"),
	Foreground: lipgloss.Color("#fafafa"),
	Muted:      lipgloss.Color("#737373"),
	Error:      lipgloss.Color("#ef4444"),
	Success:    lipgloss.Color("#10b981"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Highlighted: lipgloss.NewStyle().
		Background(lipgloss.Color("#404040")).
		Foreground(lipgloss.Color("#fafafa")),

	// Rollup rows get visually lighter as they nest deeper.
	Level1: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Level2: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#e5e5e5")),
	Level3: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),

	AmountPositive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),
	AmountNegative: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")),

	TabActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#7c3aed")).
		Padding(0, 2),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Padding(0, 2),

	// Status styles
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),

	// Component styles
	Box: lipgloss.NewStyle().
		Padding(1, 2),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(1, 2),
}

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = func() Theme {
	t := Default
	t.Primary = lipgloss.Color("#cba6f7")
	t.Border = lipgloss.Color("#45475a")
	t.Foreground = lipgloss.Color("#cdd6f4")
	t.Muted = lipgloss.Color("#6c7086")
	t.Error = lipgloss.Color("#f38ba8")
	t.Success = lipgloss.Color("#a6e3a1")

	t.Title = t.Title.Foreground(lipgloss.Color("#cdd6f4"))
	t.Subtitle = t.Subtitle.Foreground(lipgloss.Color("#a6adc8"))
	t.Normal = t.Normal.Foreground(lipgloss.Color("#cdd6f4"))
	t.Bold = t.Bold.Foreground(lipgloss.Color("#cdd6f4"))
	t.Selected = t.Selected.Background(lipgloss.Color("#cba6f7")).Foreground(lipgloss.Color("#1e1e2e"))
	t.Highlighted = t.Highlighted.Background(lipgloss.Color("#45475a")).Foreground(lipgloss.Color("#cdd6f4"))
	t.Level1 = t.Level1.Foreground(lipgloss.Color("#cdd6f4"))
	t.Level2 = t.Level2.Foreground(lipgloss.Color("#bac2de"))
	t.Level3 = t.Level3.Foreground(lipgloss.Color("#a6adc8"))
	t.AmountPositive = t.AmountPositive.Foreground(lipgloss.Color("#a6e3a1"))
	t.AmountNegative = t.AmountNegative.Foreground(lipgloss.Color("#f38ba8"))
	t.TabActive = t.TabActive.Background(lipgloss.Color("#cba6f7")).Foreground(lipgloss.Color("#1e1e2e"))
	t.TabInactive = t.TabInactive.Foreground(lipgloss.Color("#6c7086"))
	t.StatusError = t.StatusError.Foreground(lipgloss.Color("#f38ba8"))
	t.StatusSuccess = t.StatusSuccess.Foreground(lipgloss.Color("#a6e3a1"))
	t.StatusPending = t.StatusPending.Foreground(lipgloss.Color("#6c7086"))
	t.BorderedBox = t.BorderedBox.BorderForeground(lipgloss.Color("#45475a"))
	return t
}()

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// categoryColor pairs a category name with its accent color. Matching is
// ordered so overlapping names resolve the same way every time.
type categoryColor struct {
	name  string
	color lipgloss.Color
}

// CategoryColors maps donation categories to accent colors.
var CategoryColors = []categoryColor{
	{"POOJA", lipgloss.Color("#E8F5E9")},
	{"VIGRAHAM", lipgloss.Color("#FFF3E0")},
	{"ALAYA_UPKARA", lipgloss.Color("#F3E5F5")},
	{"POSHAKA_SEVA", lipgloss.Color("#E3F2FD")},
	{"BHOODANA", lipgloss.Color("#FCE4EC")},
	{"SEVA_AND_NAIVEDYA", lipgloss.Color("#E0F2F1")},
	{"EVENTS", lipgloss.Color("#FFF9C4")},
	{"PRIEST_SERVICES", lipgloss.Color("#F1F8E9")},
	{"GENERAL_DONATIONS", lipgloss.Color("#EEEEEE")},
	{"SPECIAL_PROGRAMS", lipgloss.Color("#E8EAF6")},
}

// CategoryColor returns the accent color for a rollup node ID. Node IDs
// embed the raw category name, so a substring match is enough.
func CategoryColor(id string) lipgloss.Color {
	upper := strings.ToUpper(id)
	for _, cc := range CategoryColors {
		if strings.Contains(upper, cc.name) {
			return cc.color
		}
	}
	return lipgloss.Color("#EEEEEE")
}
