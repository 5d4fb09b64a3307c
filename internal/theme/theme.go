package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Tab               *lipgloss.Style
	ActiveTab         *lipgloss.Style
	TabClose          *lipgloss.Style
	Header            *lipgloss.Style
	Location          *lipgloss.Style
	Label             *lipgloss.Style
	Code              *lipgloss.Style
	Data              *lipgloss.Style
	Border            *lipgloss.Style
	Hex               *lipgloss.Style
	Text              *lipgloss.Style
	CursorLine        *lipgloss.Style
	Selected          *lipgloss.Style
	MinimapCursor     *lipgloss.Style
	MinimapEmpty      *lipgloss.Style
	Separator         *lipgloss.Style
	PanelTitle        *lipgloss.Style
	PanelBody         *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Footer            *lipgloss.Style
	FooterKey         *lipgloss.Style
	FooterDisabled    *lipgloss.Style
	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style
}

var defaultStyles = Styles{
	Tab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")),
	),
	ActiveTab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("24")).Bold(true),
	),
	TabClose: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("167")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Location: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	),
	Code: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	),
	Data: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
	),
	Border: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	Hex: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Text: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	CursorLine: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Selected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("58")),
	),
	MinimapCursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("196")),
	),
	MinimapEmpty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
	),
	Separator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	PanelTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	PanelBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FooterKey: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	FooterDisabled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
