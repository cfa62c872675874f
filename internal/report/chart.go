package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"antibias-assessment/internal/model"
)

// ErrNoScores is returned for share-of-total charts when nothing was scored.
var ErrNoScores = errors.New("no scores to chart")

type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartPie     ChartKind = "pie"
	ChartDonut   ChartKind = "donut"
	ChartStacked ChartKind = "stacked"
)

var ChartKinds = []ChartKind{ChartBar, ChartPie, ChartDonut, ChartStacked}

func ParseChartKind(s string) (ChartKind, error) {
	for _, k := range ChartKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

const (
	chartWidth  = 1024
	chartHeight = 512
)

var palette = []drawing.Color{
	drawing.ColorFromHex("2e86de"),
	drawing.ColorFromHex("10ac84"),
	drawing.ColorFromHex("f39c12"),
	drawing.ColorFromHex("8e44ad"),
	drawing.ColorFromHex("e74c3c"),
	drawing.ColorFromHex("16a085"),
	drawing.ColorFromHex("7f8c8d"),
}

func paletteColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

// RenderChart writes a PNG chart of the result.
func RenderChart(w io.Writer, kind ChartKind, result *model.Result) error {
	switch kind {
	case ChartBar:
		return renderBar(w, result)
	case ChartPie:
		return renderPie(w, result, false)
	case ChartDonut:
		return renderPie(w, result, true)
	case ChartStacked:
		return renderStacked(w, result)
	}
	return fmt.Errorf("unknown chart kind %q", kind)
}

// ChartPNG renders a chart into memory.
func ChartPNG(kind ChartKind, result *model.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, kind, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderBar draws one bar per category; height is the category percentage.
func renderBar(w io.Writer, result *model.Result) error {
	if len(result.Categories) == 0 {
		return ErrNoScores
	}
	bars := make([]chart.Value, 0, len(result.Categories))
	for i, c := range result.Categories {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d%%)", c.Category, c.Percentage),
			Value: float64(c.Percentage),
			Style: chart.Style{
				FillColor:   paletteColor(i),
				StrokeColor: paletteColor(i),
				StrokeWidth: 1,
			},
		})
	}

	barWidth := (chartWidth - 32) / (2*len(bars) + 1)
	if barWidth > 96 {
		barWidth = 96
	}
	bc := chart.BarChart{
		Title:      "Score by category (%)",
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barWidth * 2 / 3,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// renderPie draws each category's share of the grand total.
func renderPie(w io.Writer, result *model.Result, donut bool) error {
	var values []chart.Value
	for i, c := range result.Categories {
		if c.Score == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %d", c.Category, c.Score),
			Value: float64(c.Score),
			Style: chart.Style{FillColor: paletteColor(i)},
		})
	}
	if len(values) == 0 {
		return ErrNoScores
	}

	var err error
	if donut {
		dc := chart.DonutChart{
			Title:  "Share of total score",
			Width:  chartHeight,
			Height: chartHeight,
			Values: values,
		}
		err = dc.Render(chart.PNG, w)
	} else {
		pc := chart.PieChart{
			Title:  "Share of total score",
			Width:  chartHeight,
			Height: chartHeight,
			Values: values,
		}
		err = pc.Render(chart.PNG, w)
	}
	if err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// renderStacked draws one horizontal bar per category split by subcategory.
// Categories with no score are left out since they have no composition.
func renderStacked(w io.Writer, result *model.Result) error {
	subColors := make(map[string]drawing.Color)
	var bars []chart.StackedBar
	for _, c := range result.Categories {
		if c.Score == 0 {
			continue
		}
		bar := chart.StackedBar{Name: c.Category}
		for _, g := range result.Groups {
			if g.Category != c.Category || g.Score == 0 {
				continue
			}
			color, ok := subColors[g.Subcategory]
			if !ok {
				color = paletteColor(len(subColors))
				subColors[g.Subcategory] = color
			}
			bar.Values = append(bar.Values, chart.Value{
				Label: fmt.Sprintf("%s %d%%", g.Subcategory, g.Percentage),
				Value: float64(g.Score),
				Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
			})
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return ErrNoScores
	}

	sbc := chart.StackedBarChart{
		Title:        "Category composition by type",
		Background:   chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:        chartWidth,
		Height:       chartHeight,
		BarSpacing:   24,
		IsHorizontal: true,
		Bars:         bars,
	}
	if err := sbc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render stacked chart: %w", err)
	}
	return nil
}
