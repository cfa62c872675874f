package controller

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"antibias-assessment/internal/config"
	"antibias-assessment/internal/report"
	"antibias-assessment/internal/service"
	"antibias-assessment/pkg/middleware"
	"antibias-assessment/utilities"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// RouteOptions carries the settings the handlers need from configuration.
type RouteOptions struct {
	CookieName   string
	CookieMaxAge int
	AllowOrigins []string
	RateLimit    config.RateLimit
	Report       report.Document
}

// RegisterRoutes registers all route groups and their endpoints.
func RegisterRoutes(r *gin.Engine, assessmentService service.AssessmentService, tokens *utilities.SessionTokens, opts RouteOptions) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	if opts.Report.Title == "" {
		opts.Report.Title = assessmentService.Title()
	}
	if opts.Report.Guidance.Closing == "" {
		opts.Report.Guidance = report.NewGuidance(assessmentService.Questions().Categories())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessions := utilities.SessionMiddleware(assessmentService, tokens, opts.CookieName, opts.CookieMaxAge)

	// Questionnaire routes.
	assessmentCtrl := NewAssessmentController(assessmentService, tokens, opts)
	web := r.Group("/", sessions)
	{
		web.GET("/", assessmentCtrl.ShowForm)
		web.POST("/submit", assessmentCtrl.Submit)
		web.POST("/reset", assessmentCtrl.Reset)
	}

	// Report routes.
	reportCtrl := NewReportController(assessmentService, opts.Report)
	reportRoutes := r.Group("/report", sessions, middleware.RateLimit(opts.RateLimit.RPS, opts.RateLimit.Burst))
	{
		reportRoutes.GET("/download", reportCtrl.Download)
		reportRoutes.GET("/chart/:kind", reportCtrl.Chart)
	}

	// JSON API routes.
	apiCtrl := NewAPIController(assessmentService)
	apiRoutes := r.Group("/api", cors.New(corsConfig(opts.AllowOrigins)))
	{
		apiRoutes.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		apiRoutes.GET("/questions", sessions, apiCtrl.GetQuestions)
		apiRoutes.POST("/submit", sessions, apiCtrl.Submit)
		apiRoutes.GET("/result", sessions, apiCtrl.GetResult)
	}
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
