// Package ui provides terminal output helpers for the mtmeta CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of a message.
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting.
type ErrorOptions struct {
	Level       ErrorLevel
	Context     string
	Problem     string
	Suggestions []string
	NoColor     bool
}

// FormatError creates a standardized error message with suggestions.
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor *color.Color
	var symbol string
	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.Bold, color.FgYellow)
		symbol = "⚠"
	case ErrorLevelInfo:
		headerColor = color.New(color.Bold, color.FgCyan)
		symbol = "ℹ"
	default:
		headerColor = color.New(color.Bold, color.FgRed)
		symbol = "✗"
	}
	if opts.NoColor {
		headerColor.DisableColor()
	}

	b.WriteString(headerColor.Sprintf("%s %s", symbol, opts.Context))
	b.WriteString("\n")
	if opts.Problem != "" {
		b.WriteString(fmt.Sprintf("   %s\n", opts.Problem))
	}
	for _, suggestion := range opts.Suggestions {
		b.WriteString(fmt.Sprintf("   → %s\n", suggestion))
	}
	return b.String()
}

// Success formats a success line.
func Success(message string, noColor bool) string {
	green := color.New(color.Bold, color.FgGreen)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}
