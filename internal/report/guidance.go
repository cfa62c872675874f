package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"

	"antibias-assessment/internal/model"
)

// Guidance is the "how to interpret the results" section shown with every
// result.
type Guidance struct {
	Intro      []string
	Prompts    []string
	Closing    string
	Categories []model.Category
}

func NewGuidance(categories []model.Category) Guidance {
	return Guidance{
		Intro: []string{
			"The questions answered fall under the individual, company, and industry related actions and choices you make every day at work. " +
				"They address key areas from hiring through developing and retaining talent that we as company leaders make in relation to our peers, " +
				"team members, superiors, and creating a broader impact on the industry.",
			"Take a look at the scores below and see:",
		},
		Prompts: []string{
			"Where do you score highest?",
			"Which area has the highest potential to improve?",
			"Is there anything that surprised you?",
			"What are some of the actions that you can take to reduce bias and drive inclusion?",
		},
		Closing:    "Capture your reflection for a later conversation.",
		Categories: categories,
	}
}

// Markdown renders the guidance as CommonMark.
func (g Guidance) Markdown() string {
	var b strings.Builder
	b.WriteString("### How to interpret the results\n\n")
	for _, p := range g.Intro {
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	for _, p := range g.Prompts {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString("\n")
	b.WriteString(g.Closing)
	b.WriteString("\n")
	for _, c := range g.Categories {
		fmt.Fprintf(&b, "\n#### %s\n\n", c.Name)
		if c.Description != "" {
			b.WriteString(c.Description)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HTML converts the guidance markdown for embedding in a page.
func (g Guidance) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(g.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("render guidance html: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Terminal renders the guidance for a terminal of the given width. Styling
// is skipped when color is false.
func (g Guidance) Terminal(width int, color bool) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if color {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := r.Render(g.Markdown())
	if err != nil {
		return "", fmt.Errorf("render guidance: %w", err)
	}
	return out, nil
}
