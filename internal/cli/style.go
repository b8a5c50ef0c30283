package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

var hintColor = lipgloss.Color("244")

func stylize(text string, color lipgloss.Color) string {
	if os.Getenv("NO_COLOR") != "" {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
