package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the shared styles. Good, Fair and Poor color scores from
// high to low.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Good      lipgloss.Color
	Fair      lipgloss.Color
	Poor      lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Muted:     lipgloss.Color("#666688"),
		Good:      lipgloss.Color("#00ff88"),
		Fair:      lipgloss.Color("#ffcc00"),
		Poor:      lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Muted:     lipgloss.Color("#888888"),
		Good:      lipgloss.Color("#00ff00"),
		Fair:      lipgloss.Color("#ffaa00"),
		Poor:      lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Muted:     lipgloss.Color("#4488aa"),
		Good:      lipgloss.Color("#00ff88"),
		Fair:      lipgloss.Color("#ffd700"),
		Poor:      lipgloss.Color("#ff4444"),
	}

	// CurrentTheme is the theme the shared styles were last built from.
	CurrentTheme = ThemeCyberpunk

	themes = []Theme{ThemeCyberpunk, ThemeMinimal, ThemeOcean}
)

// SetTheme rebuilds the shared styles from the named theme. Unknown names
// select cyberpunk.
func SetTheme(name string) {
	CurrentTheme = ThemeCyberpunk
	for _, t := range themes {
		if t.Name == name {
			CurrentTheme = t
			break
		}
	}
	applyTheme(CurrentTheme)
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
