package controller

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"antibias-assessment/internal/report"
	"antibias-assessment/internal/service"
	"antibias-assessment/utilities"
)

type ReportController struct {
	AssessmentService service.AssessmentService
	doc               report.Document
}

func NewReportController(assessmentService service.AssessmentService, doc report.Document) *ReportController {
	return &ReportController{AssessmentService: assessmentService, doc: doc}
}

// Download serves the last result as a PDF or standalone HTML attachment.
func (rc *ReportController) Download(c *gin.Context) {
	format := c.DefaultQuery("format", "pdf")
	var contentType string
	switch format {
	case "pdf":
		contentType = "application/pdf"
	case "html":
		contentType = "text/html; charset=utf-8"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be pdf or html"})
		return
	}

	result, found := lastResult(c, rc.AssessmentService)
	if !found {
		return
	}

	var buf bytes.Buffer
	var err error
	if format == "pdf" {
		err = report.WritePDF(&buf, rc.doc, result)
	} else {
		err = report.WriteHTML(&buf, rc.doc, result)
	}
	if err != nil {
		utilities.Error("render %s report: %v", format, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="assessment-report.`+format+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// Chart serves a PNG chart of the last result.
func (rc *ReportController) Chart(c *gin.Context) {
	kind, err := report.ParseChartKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	result, found := lastResult(c, rc.AssessmentService)
	if !found {
		return
	}

	png, err := report.ChartPNG(kind, result)
	switch {
	case errors.Is(err, report.ErrNoScores):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		utilities.Error("render %s chart: %v", kind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
