// Package ui provides consistent styling for the liftoff CLI reports
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	ColorPrimary = lipgloss.Color("39")  // Bright blue
	ColorSuccess = lipgloss.Color("82")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red
	ColorInfo    = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
)

// Base styles - building blocks for other styles
var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	FieldKeyStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(12)

	BarStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// Icons and indicators
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconReport  = "»"
	IconBar     = "█"
)

// FormatReportHeader renders a section title followed by a separator
func FormatReportHeader(title string) string {
	coloredIcon := InfoStyle.Render(IconReport)
	header := HeaderStyle.Render(coloredIcon + " " + title)
	return header + "\n" + CreateSeparator(50, "─")
}

// FormatField renders an indented key/value line
func FormatField(key string, value interface{}) string {
	return "   " + FieldKeyStyle.Render(key) + TextStyle.Render(fmt.Sprint(value))
}

// FormatResult renders a success or failure line for one item
func FormatResult(success bool, item, message string) string {
	var coloredIcon string
	var style lipgloss.Style

	if success {
		coloredIcon = SuccessStyle.Render(IconSuccess)
		style = SuccessStyle
	} else {
		coloredIcon = ErrorStyle.Render(IconError)
		style = ErrorStyle
	}

	result := " " + coloredIcon + " " + item
	if message != "" {
		result += " - " + style.Render(message)
	}
	return result
}

// FormatWarning renders a warning line
func FormatWarning(message string) string {
	return " " + WarningStyle.Render(IconWarning+" "+message)
}

// FormatPriorityBar renders a priority as a bar of width cells, full at ceiling
func FormatPriorityBar(priority, ceiling, width int) string {
	if ceiling <= 0 || width <= 0 {
		return fmt.Sprintf("%3d", priority)
	}

	cells := priority * width / ceiling
	if cells > width {
		cells = width
	}
	if cells < 0 {
		cells = 0
	}
	bar := BarStyle.Render(strings.Repeat(IconBar, cells)) +
		SubtleStyle.Render(strings.Repeat("·", width-cells))
	return fmt.Sprintf("%s %3d", bar, priority)
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int, char string) string {
	if width <= 0 {
		width = 50
	}
	if char == "" {
		char = "─"
	}

	return lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Render(strings.Repeat(char, width))
}
