package report

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"antibias-assessment/internal/model"
)

const htmlReport = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 40px; color: #212529; max-width: 960px; }
h1 { margin-bottom: 4px; }
.muted { color: #6c757d; font-size: 14px; }
.score { font-size: 22px; font-weight: bold; margin: 16px 0 4px; }
.category { margin: 14px 0; }
.bar { background: #e9ecef; border-radius: 4px; height: 18px; width: 100%; }
.bar > span { display: block; height: 100%; border-radius: 4px; background: #2e86de; }
table { border-collapse: collapse; width: 100%; margin-top: 12px; }
th, td { border: 1px solid #ddd; padding: 6px 8px; }
th { background-color: #f2f2f2; }
td.num { text-align: right; }
.warn { color: #c0392b; }
img.chart { max-width: 100%; margin-top: 16px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="muted">Completed {{.Submitted}}</div>

<div class="score">Overall: {{.Result.Total}} out of {{.Result.MaxTotal}} ({{.Result.Percentage}}%)</div>
<div class="muted">{{.Result.Answered}} of {{.Result.Questions}} statements answered &middot; Rating scale: {{.Result.Scale.Legend}}</div>
{{if .Result.Invalid}}<p class="warn">{{len .Result.Invalid}} answer(s) were not on the scale and were left out of the totals.</p>{{end}}

<h2>Scores by category</h2>
{{range .Result.Categories}}
<div class="category">
<strong>{{.Category}}: {{.Score}} out of {{.Max}}</strong>
<div class="bar"><span style="width: {{.Percentage}}%"></span></div>
<div class="muted">{{.Percentage}}%</div>
</div>
{{end}}

<h2>Scores by category and type</h2>
<table>
<tr><th>Category</th><th>Type</th><th>Score</th><th>Percentage</th></tr>
{{range .Result.Groups}}
<tr><td>{{.Category}}</td><td>{{.Subcategory}}</td><td class="num">{{.Score}} / {{.Max}}</td><td class="num">{{.Percentage}}%</td></tr>
{{end}}
</table>

{{range .Charts}}<img class="chart" alt="{{.Alt}}" src="{{.Src}}">
{{end}}

<section>{{.Guidance}}</section>
</body>
</html>
`

var htmlReportTemplate = template.Must(template.New("report").Parse(htmlReport))

type chartImage struct {
	Alt string
	Src template.URL
}

// WriteHTML renders a self-contained HTML report with charts inlined as
// data URIs.
func WriteHTML(w io.Writer, doc Document, result *model.Result) error {
	guidance, err := doc.Guidance.HTML()
	if err != nil {
		return err
	}

	var charts []chartImage
	for _, kind := range []ChartKind{ChartBar, ChartStacked, ChartDonut} {
		png, err := ChartPNG(kind, result)
		if err != nil {
			continue
		}
		charts = append(charts, chartImage{
			Alt: string(kind) + " chart",
			Src: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
		})
	}

	data := struct {
		Title     string
		Submitted string
		Result    *model.Result
		Charts    []chartImage
		Guidance  template.HTML
	}{
		Title:     doc.Title,
		Submitted: doc.submittedAt(result),
		Result:    result,
		Charts:    charts,
		Guidance:  guidance,
	}
	if err := htmlReportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
