// ============================================================================
// trump - expression language front-end
// ============================================================================
//
// Package:     render
// Description: Terminal rendering of trees, diagnostics and tokens
// Author:      abyanmajid
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorInfo    = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

// Style selects between colored and plain output
type Style struct {
	Color bool
}

// Plain renders without escape sequences
var Plain = Style{}

// Colored renders with lipgloss colors
var Colored = Style{Color: true}

func (s Style) apply(style lipgloss.Style, text string) string {
	if !s.Color {
		return text
	}
	return style.Render(text)
}

var (
	nodeStyle     = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	operatorStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	literalStyle  = lipgloss.NewStyle().Foreground(ColorInfo)
	errorStyle    = lipgloss.NewStyle().Foreground(ColorError)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	okStyle       = lipgloss.NewStyle().Foreground(ColorSuccess)
	headerStyle   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
)
