package terminal

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette of the terminal dashboard.
type Theme struct {
	NormalText         lipgloss.Color
	FaintText          lipgloss.Color
	HeaderForeground   lipgloss.Color
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	BorderColor        lipgloss.Color
	FocusBorderColor   lipgloss.Color
	ErrorText          lipgloss.Color

	// Tones map the row "tone" attribute to a foreground color.
	Tones map[string]lipgloss.Color
}

// DefaultTheme targets 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("245"),
	HeaderForeground:   lipgloss.Color("255"),
	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),
	BorderColor:        lipgloss.Color("240"),
	FocusBorderColor:   lipgloss.Color("75"),
	ErrorText:          lipgloss.Color("196"),
	Tones: map[string]lipgloss.Color{
		"info":    lipgloss.Color("75"),
		"success": lipgloss.Color("114"),
		"warning": lipgloss.Color("220"),
		"accent":  lipgloss.Color("141"),
		"danger":  lipgloss.Color("196"),
		"muted":   lipgloss.Color("245"),
	},
}

// ToneColor returns the color for a tone, falling back to NormalText.
func (theme Theme) ToneColor(tone string) lipgloss.Color {
	if color, ok := theme.Tones[tone]; ok {
		return color
	}
	return theme.NormalText
}

func (theme Theme) pane(focused bool) lipgloss.Style {
	border := theme.BorderColor
	if focused {
		border = theme.FocusBorderColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func (theme Theme) title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
}

func (theme Theme) faint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FaintText)
}

func (theme Theme) selected() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)
}

func (theme Theme) errorText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.ErrorText)
}
