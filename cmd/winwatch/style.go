package main

import "github.com/charmbracelet/lipgloss"

// Styles only apply to text output. lipgloss drops the escape codes when
// stdout has no color support.
var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	yesStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	noStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
