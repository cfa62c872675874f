package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"antibias-assessment/internal/model"
)

const textBarWidth = 30

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	filledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ProgressBar renders pct as a fixed-width bar of block characters.
func ProgressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := width * pct / 100
	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled))
}

// WriteText writes a terminal summary of the result.
func WriteText(w io.Writer, doc Document, result *model.Result) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(doc.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Completed " + doc.submittedAt(result)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Overall: %d out of %d (%d%%)\n", result.Total, result.MaxTotal, result.Percentage)
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d statements answered. Rating scale: %s",
		result.Answered, result.Questions, result.Scale.Legend())))
	b.WriteString("\n")
	if n := len(result.Invalid); n > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d answer(s) were not on the scale and were left out of the totals.", n)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Scores by category"))
	b.WriteString("\n")
	for _, c := range result.Categories {
		fmt.Fprintf(&b, "%-22s %s %3d%%  %d/%d\n", c.Category, ProgressBar(c.Percentage, textBarWidth), c.Percentage, c.Score, c.Max)
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Scores by category and type"))
	b.WriteString("\n")
	current := ""
	for _, g := range result.Groups {
		if g.Category != current {
			current = g.Category
			b.WriteString(current)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %-20s %s %3d%%  %d/%d\n", g.Subcategory, ProgressBar(g.Percentage, textBarWidth), g.Percentage, g.Score, g.Max)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
