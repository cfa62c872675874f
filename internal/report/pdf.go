package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"antibias-assessment/internal/model"
)

// Document is everything a rendered report needs besides the result.
type Document struct {
	Title    string
	Author   string
	LogoPath string
	Guidance Guidance
	Location *time.Location
}

func (d Document) submittedAt(result *model.Result) string {
	t := result.SubmittedAt
	if t.IsZero() {
		t = time.Now()
	}
	if d.Location != nil {
		t = t.In(d.Location)
	}
	return t.Format("2 January 2006 15:04 MST")
}

const (
	pageMargin = 15.0
	barWidthMM = 180.0
	barHeight  = 5.0
)

// winAnsi converts text for the PDF core fonts, which expect Windows-1252.
func winAnsi(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, b)
		} else {
			out = append(out, '?')
		}
	}
	return string(out)
}

// WritePDF renders the result as an A4 PDF report.
func WritePDF(w io.Writer, doc Document, result *model.Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title, true)
	if doc.Author != "" {
		pdf.SetAuthor(doc.Author, true)
	}
	pdf.SetCreator("antibias-assessment", true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	if doc.LogoPath != "" {
		if _, err := os.Stat(doc.LogoPath); err == nil {
			opts := gofpdf.ImageOptions{ImageType: strings.TrimPrefix(strings.ToUpper(filepath.Ext(doc.LogoPath)), "."), ReadDpi: true}
			pdf.ImageOptions(doc.LogoPath, pageMargin, pdf.GetY(), 50, 0, true, opts, 0, "")
			pdf.Ln(4)
		}
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(33, 37, 41)
	pdf.MultiCell(0, 9, winAnsi(doc.Title), "", "L", false)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 6, winAnsi("Completed "+doc.submittedAt(result)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(33, 37, 41)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Overall: %d out of %d (%d%%)", result.Total, result.MaxTotal, result.Percentage), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d of %d statements answered. Rating scale: %s", result.Answered, result.Questions, winAnsi(result.Scale.Legend())), "", 1, "L", false, 0, "")
	if n := len(result.Invalid); n > 0 {
		pdf.SetTextColor(192, 57, 43)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d answer(s) were not on the scale and were left out of the totals.", n), "", 1, "L", false, 0, "")
		pdf.SetTextColor(33, 37, 41)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "Scores by category", "", 1, "L", false, 0, "")
	for i, c := range result.Categories {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 6, winAnsi(fmt.Sprintf("%s: %d out of %d", c.Category, c.Score, c.Max)), "", 1, "L", false, 0, "")
		drawBar(pdf, c.Percentage, paletteColor(i).R, paletteColor(i).G, paletteColor(i).B)
		pdf.Ln(2)
	}
	pdf.Ln(2)

	writeGroupTable(pdf, result)

	if png, err := ChartPNG(ChartBar, result); err == nil {
		pdf.AddPage()
		embedPNG(pdf, "bar", png, barWidthMM)
	}
	if png, err := ChartPNG(ChartStacked, result); err == nil {
		pdf.Ln(4)
		embedPNG(pdf, "stacked", png, barWidthMM)
	}

	writeGuidance(pdf, doc.Guidance)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

// drawBar draws a progress bar whose filled width is pct of the full width.
func drawBar(pdf *gofpdf.Fpdf, pct int, r, g, b uint8) {
	x, y := pdf.GetX(), pdf.GetY()
	pdf.SetFillColor(233, 236, 239)
	pdf.Rect(x, y, barWidthMM, barHeight, "F")
	if pct > 0 {
		if pct > 100 {
			pct = 100
		}
		pdf.SetFillColor(int(r), int(g), int(b))
		pdf.Rect(x, y, barWidthMM*float64(pct)/100, barHeight, "F")
	}
	pdf.SetXY(x, y+barHeight)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(barWidthMM, 4, fmt.Sprintf("%d%%", pct), "", 1, "R", false, 0, "")
}

func writeGroupTable(pdf *gofpdf.Fpdf, result *model.Result) {
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "Scores by category and type", "", 1, "L", false, 0, "")

	widths := []float64{60, 60, 30, 30}
	headers := []string{"Category", "Type", "Score", "Percentage"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(242, 242, 242)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, g := range result.Groups {
		pdf.CellFormat(widths[0], 7, winAnsi(g.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, winAnsi(g.Subcategory), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d / %d", g.Score, g.Max), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d%%", g.Percentage), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

func embedPNG(pdf *gofpdf.Fpdf, name string, png []byte, width float64) {
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, pageMargin, pdf.GetY(), width, 0, true, opts, 0, "")
}

func writeGuidance(pdf *gofpdf.Fpdf, g Guidance) {
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "How to interpret the results", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, p := range g.Intro {
		pdf.MultiCell(0, 5, winAnsi(p), "", "L", false)
		pdf.Ln(1)
	}
	for _, p := range g.Prompts {
		pdf.MultiCell(0, 5, winAnsi("- "+p), "", "L", false)
	}
	pdf.Ln(1)
	pdf.MultiCell(0, 5, winAnsi(g.Closing), "", "L", false)
	for _, c := range g.Categories {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, winAnsi(c.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, winAnsi(c.Description), "", "L", false)
	}
}
