// Package render provides terminal output styling for the flowpipe CLI.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for CLI output.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Dim    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Header: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Dim:    lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Row is one benchmark result line.
type Row struct {
	Backend string
	Elapsed time.Duration
	Rate    float64 // MiB/s
}

// Table renders benchmark rows as a styled table.
func Table(total int64, rows []Row) string {
	s := NewStyles(DefaultTheme)

	var b strings.Builder
	b.WriteString(s.Title.Render("flowpipe bench") + " " +
		s.Dim.Render(fmt.Sprintf("(%d MiB per backend)", total>>20)) + "\n")
	b.WriteString(s.Header.Render(fmt.Sprintf("%-10s %12s %12s", "BACKEND", "ELAPSED", "MiB/s")) + "\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-10s %12s %12.1f\n",
			r.Backend, r.Elapsed.Round(time.Millisecond), r.Rate))
	}
	return b.String()
}
