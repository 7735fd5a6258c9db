package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	textRedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim))
	dueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// Generates pointer symbol when line in focus
func generateLinePointer(isPoint bool, length int) string {
	if isPoint {
		return ">" + strings.Repeat(" ", length-1)
	}
	return strings.Repeat(" ", length)
}

func (m model) dynamicColumnWidth() (int, int, int) {
	var leftWidth, middleWidth, rightWidth int
	switch m.columnFocus {
	case 0: // Plants column focused
		leftWidth = (m.width * 30) / 100
		middleWidth = (m.width * 40) / 100
		rightWidth = (m.width * 30) / 100
	case 1: // Tasks column focused
		leftWidth = (m.width * 20) / 100
		middleWidth = (m.width * 50) / 100
		rightWidth = (m.width * 30) / 100
	default: // Plant details focused
		leftWidth = (m.width * 20) / 100
		middleWidth = (m.width * 20) / 100
		rightWidth = (m.width * 60) / 100
	}
	return leftWidth, middleWidth, rightWidth
}
