package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
)

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#8B5CF6")).
	Foreground(lipgloss.Color("#14B8A6")).
	Bold(true).
	Padding(0, 2)

var bannerSubtitleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#94A3B8")).
	Italic(true)

// printBanner writes the run header for interactive commands.
func printBanner(subtitle string) {
	fmt.Println(bannerStyle.Render("MATHBANK"))
	if subtitle != "" {
		fmt.Println(bannerSubtitleStyle.Render(subtitle))
	}
	fmt.Println()
}
