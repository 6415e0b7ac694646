package ui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var palettes = map[string]palette{
	"dark": {
		Text:    lipgloss.Color("#cdd6f4"),
		Muted:   lipgloss.Color("#a6adc8"),
		Accent:  lipgloss.Color("#94e2d5"),
		Border:  lipgloss.Color("#585b70"),
		Success: lipgloss.Color("#a6e3a1"),
		Warning: lipgloss.Color("#f9e2af"),
		Error:   lipgloss.Color("#f38ba8"),
	},
	"light": {
		Text:    lipgloss.Color("#4c4f69"),
		Muted:   lipgloss.Color("#6c6f85"),
		Accent:  lipgloss.Color("#179299"),
		Border:  lipgloss.Color("#9ca0b0"),
		Success: lipgloss.Color("#40a02b"),
		Warning: lipgloss.Color("#df8e1d"),
		Error:   lipgloss.Color("#d20f39"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["dark"]
}

type styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Input  lipgloss.Style
	Status lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
	Footer lipgloss.Style
	Panel  lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(p.Accent).MarginBottom(1),
		Label:  lipgloss.NewStyle().Foreground(p.Muted),
		Input:  lipgloss.NewStyle().Foreground(p.Text).Border(lipgloss.NormalBorder()).BorderForeground(p.Border).Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(p.Success),
		Warn:   lipgloss.NewStyle().Foreground(p.Warning),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(p.Error),
		Footer: lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1),
		Panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
	}
}
