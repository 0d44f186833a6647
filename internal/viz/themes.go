package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the terminal views.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Border  lipgloss.Color
	Label   lipgloss.Color
	Value   lipgloss.Color
	Muted   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeNebula = Theme{
		Name:    "nebula",
		Title:   lipgloss.Color("#c792ea"),
		Border:  lipgloss.Color("#444466"),
		Label:   lipgloss.Color("#888899"),
		Value:   lipgloss.Color("#00ccff"),
		Muted:   lipgloss.Color("#666688"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffaa00"),
		Warning: lipgloss.Color("#ff4444"),
	}

	ThemeSolar = Theme{
		Name:    "solar",
		Title:   lipgloss.Color("#ffd700"),
		Border:  lipgloss.Color("#8b6b3c"),
		Label:   lipgloss.Color("#c8a878"),
		Value:   lipgloss.Color("#fff5e0"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Running: lipgloss.Color("#5fd068"),
		Paused:  lipgloss.Color("#ffc048"),
		Warning: lipgloss.Color("#ff4757"),
	}

	ThemePhosphor = Theme{
		Name:    "phosphor",
		Title:   lipgloss.Color("#00ff00"),
		Border:  lipgloss.Color("#005500"),
		Label:   lipgloss.Color("#00aa00"),
		Value:   lipgloss.Color("#88ff88"),
		Muted:   lipgloss.Color("#005500"),
		Running: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Warning: lipgloss.Color("#ff0000"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Title:   lipgloss.Color("#ffffff"),
		Border:  lipgloss.Color("#888888"),
		Label:   lipgloss.Color("#aaaaaa"),
		Value:   lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Running: lipgloss.Color("#ffffff"),
		Paused:  lipgloss.Color("#aaaaaa"),
		Warning: lipgloss.Color("#ffffff"),
	}

	Themes = []Theme{ThemeNebula, ThemeSolar, ThemePhosphor, ThemeMono}
)

// GetTheme returns the named theme, or nebula when the name is unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNebula
}

// NextTheme returns the theme following name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
