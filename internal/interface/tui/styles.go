// Package tui はスキャン中の端末表示を提供します
package tui

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

// Success は成功メッセージを整形します
func Success(msg string) string {
	return successStyle.Render(msg)
}

// Warning は警告メッセージを整形します
func Warning(msg string) string {
	return warnStyle.Render(msg)
}

// Error はエラーメッセージを整形します
func Error(msg string) string {
	return errorStyle.Render(msg)
}

// Muted は補足情報を整形します
func Muted(msg string) string {
	return mutedStyle.Render(msg)
}
