package console

import "github.com/charmbracelet/lipgloss"

var (
	colorWhite = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim   = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorCyan  = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	submenuStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	itemStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorCyan)

	disabledStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	separatorStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
