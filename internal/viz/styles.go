package viz

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	status  lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	muted   lipgloss.Style
	err     lipgloss.Style
	frame   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		status:  lipgloss.NewStyle().Foreground(t.Text),
		running: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		muted:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		err:     lipgloss.NewStyle().Foreground(t.Error),
		frame:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted),
	}
}

// ProgressBar renders the playback position as a bar of width cells.
func ProgressBar(index, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 1 {
		filled = index * width / (total - 1)
	}
	if filled > width {
		filled = width
	}
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}
