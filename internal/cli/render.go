package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bytewatt/loglingo/internal/translate"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorPurple    = lipgloss.Color("#8B7EC8")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	errStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	translatedStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	channelStyles = map[string]lipgloss.Style{
		"public":  lipgloss.NewStyle().Foreground(ColorText),
		"team":    lipgloss.NewStyle().Foreground(ColorBlue),
		"private": lipgloss.NewStyle().Foreground(ColorPurple),
		"guild":   lipgloss.NewStyle().Foreground(ColorYellow),
		"system":  lipgloss.NewStyle().Foreground(ColorOrange),
	}
)

// ChannelStyle returns the display style for a chat channel.
func ChannelStyle(channel string) lipgloss.Style {
	if s, ok := channelStyles[channel]; ok {
		return s
	}
	return valueStyle
}

// RenderChatLine formats one classified chat line for the foreground monitor.
func RenderChatLine(channel, speaker, text string) string {
	var b strings.Builder
	b.WriteString(ChannelStyle(channel).Render(fmt.Sprintf("[%s]", channel)))
	b.WriteString(" ")
	if speaker != "" {
		b.WriteString(headerStyle.Render(speaker))
		b.WriteString(dimStyle.Render(": "))
	}
	b.WriteString(valueStyle.Render(text))
	return b.String()
}

// RenderTranslation formats a translation result under its source line.
func RenderTranslation(r translate.Result) string {
	if r.Err != nil {
		return fmt.Sprintf("  %s %s",
			errStyle.Render("✗"),
			mutedStyle.Render(r.Err.Error()))
	}
	suffix := ""
	if r.CacheHit {
		suffix = mutedStyle.Render(" (cached)")
	} else {
		suffix = mutedStyle.Render(" (" + FormatLatency(r.Duration) + ")")
	}
	return fmt.Sprintf("  %s %s%s",
		dimStyle.Render("→"),
		translatedStyle.Render(r.Translated),
		suffix)
}

// RenderStats renders the translation metrics as a bordered table, global
// row first, engines after.
func RenderStats(snap translate.Snapshot) string {
	rows := [][]string{statsRow("all", snap.Global)}
	for _, name := range sortedEngineNames(snap) {
		rows = append(rows, statsRow(name, snap.Engines[name]))
	}
	return RenderTable(Table{
		Title:   "Translations",
		Headers: []string{"Engine", "Total", "OK", "Fail", "Cached", "Hit rate", "Fail rate", "Avg"},
		Rows:    rows,
	})
}

func statsRow(name string, m translate.Metrics) []string {
	return []string{
		name,
		FormatNumber(m.Total),
		FormatNumber(m.Success),
		FormatNumber(m.Fail),
		FormatNumber(m.CacheHit),
		FormatPercent(m.HitRate),
		FormatPercent(m.FailRate),
		FormatLatency(m.AvgLatency),
	}
}

func sortedEngineNames(snap translate.Snapshot) []string {
	names := make([]string, 0, len(snap.Engines))
	for n := range snap.Engines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if len(h) > widths[i] {
				widths[i] = len(h)
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && len(cell) > widths[i] {
					widths[i] = len(cell)
				}
			}
		}
	}

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := fmt.Sprintf(" %-*s ", w, h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		// Header separator
		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	// Data rows
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			// Separator row
			b.WriteString(dimStyle.Render("├"))
			for i, w := range widths {
				b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
				if i < numCols-1 {
					b.WriteString(dimStyle.Render("┼"))
				}
			}
			b.WriteString(dimStyle.Render("┤"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", w, cell)
			} else {
				padded = fmt.Sprintf(" %*s ", w, cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	// Bottom border
	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}
