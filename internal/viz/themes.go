package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Red    lipgloss.Color
	Blue   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Error  lipgloss.Color
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:   "classic",
		Red:    lipgloss.Color("#ff0000"),
		Blue:   lipgloss.Color("#0000ff"),
		Accent: lipgloss.Color("#00ffff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Error:  lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Red:    lipgloss.Color("#88ff88"), // Bright phosphor
		Blue:   lipgloss.Color("#00aa00"),
		Accent: lipgloss.Color("#00ff00"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Error:  lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Red:    lipgloss.Color("#ff7f50"), // Coral
		Blue:   lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Error:  lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Red:    lipgloss.Color("#ffffff"),
		Blue:   lipgloss.Color("#888888"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Error:  lipgloss.Color("#ff0000"),
	}

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// inks returns canvas styles indexed by playback.Color.
func (t Theme) inks() []lipgloss.Style {
	return []lipgloss.Style{
		lipgloss.NewStyle().Foreground(t.Red),
		lipgloss.NewStyle().Foreground(t.Blue),
	}
}
