// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     playground
// Description: Styles for the terminal playground
// Author:      Mike Stoffels
// Created:     2026-09-26
// License:     MIT
// ============================================================================

package playground

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorAccent  = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorDimmed  = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel    = lipgloss.Color("#1E293B") // Slate 800
	ColorBgSelected = lipgloss.Color("#3B0764") // Purple 950

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Logo is shown in the title bar
const Logo = "✦ VibeScript"

var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	PickerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorAccent).
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(1, 2)

	PickerItemStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			PaddingLeft(2)

	PickerSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorBgSelected).
				Bold(true).
				PaddingLeft(1)
)

// Transcript styles
var (
	OutputStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	InputEchoStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// Status and help styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	HelpStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// RenderKeyHint renders a key hint for the help bar
func RenderKeyHint(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}
