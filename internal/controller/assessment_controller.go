package controller

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"antibias-assessment/internal/model"
	"antibias-assessment/internal/report"
	"antibias-assessment/internal/repository"
	"antibias-assessment/internal/service"
	"antibias-assessment/utilities"
)

type AssessmentController struct {
	AssessmentService service.AssessmentService
	tokens            *utilities.SessionTokens
	cookieName        string
	cookieMaxAge      int
	guidance          template.HTML
}

func NewAssessmentController(assessmentService service.AssessmentService, tokens *utilities.SessionTokens, opts RouteOptions) *AssessmentController {
	guidance, err := opts.Report.Guidance.HTML()
	if err != nil {
		utilities.Error("render guidance: %v", err)
	}
	return &AssessmentController{
		AssessmentService: assessmentService,
		tokens:            tokens,
		cookieName:        opts.CookieName,
		cookieMaxAge:      opts.CookieMaxAge,
		guidance:          guidance,
	}
}

type optionView struct {
	Name    string
	Value   int
	Label   string
	Checked bool
}

type questionView struct {
	ID      int
	Number  int
	Text    string
	Options []optionView
	Error   string
}

type resultsView struct {
	Result   *model.Result
	Charts   []report.ChartKind
	Guidance template.HTML
}

type pageView struct {
	Title      string
	Intro      []string
	Legend     string
	Questions  []questionView
	ErrorCount int
	Results    *resultsView
}

// ShowForm renders the questionnaire in the session's order, along with the
// last result when there is one.
func (ac *AssessmentController) ShowForm(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	result, err := ac.AssessmentService.LastResult(session.ID)
	if err != nil && !errors.Is(err, service.ErrNoResult) && !errors.Is(err, repository.ErrSessionNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.HTML(http.StatusOK, "index.tmpl", ac.page(session, result))
}

// Submit scores the posted form. Invalid items are reported next to the
// question and left out of the totals.
func (ac *AssessmentController) Submit(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}
	result, err := ac.AssessmentService.Submit(session, formResponses(c.Request.PostForm))
	if err != nil {
		utilities.Error("submit session %s: %v", session.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to score assessment"})
		return
	}
	c.HTML(http.StatusOK, "index.tmpl", ac.page(session, result))
}

// Reset drops the stored result and starts over with a new order.
func (ac *AssessmentController) Reset(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	fresh, err := ac.AssessmentService.Reset(session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := utilities.IssueSessionCookie(c, ac.tokens, fresh, ac.cookieName, ac.cookieMaxAge); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (ac *AssessmentController) page(session *model.Session, result *model.Result) pageView {
	scale := ac.AssessmentService.Scale()
	view := pageView{
		Title:  ac.AssessmentService.Title(),
		Intro:  ac.AssessmentService.Questions().Intro(),
		Legend: scale.Legend(),
	}

	for i, q := range ac.AssessmentService.OrderedQuestions(session) {
		qv := questionView{ID: q.ID, Number: i + 1, Text: q.Text}
		selected := 0
		if result != nil {
			selected = result.ScoreFor(q.ID)
			if verr, ok := result.InvalidFor(q.ID); ok {
				qv.Error = verr.Message
			}
		}
		for v := 1; v <= scale.Max; v++ {
			qv.Options = append(qv.Options, optionView{
				Name:    fmt.Sprintf("q%d", q.ID),
				Value:   v,
				Label:   scale.Label(v),
				Checked: v == selected,
			})
		}
		view.Questions = append(view.Questions, qv)
	}

	if result != nil {
		view.ErrorCount = len(result.Invalid)
		view.Results = &resultsView{
			Result:   result,
			Charts:   chartsFor(result),
			Guidance: ac.guidance,
		}
	}
	return view
}

// chartsFor lists the charts that have something to draw.
func chartsFor(result *model.Result) []report.ChartKind {
	if result.Total == 0 {
		return []report.ChartKind{report.ChartBar}
	}
	return report.ChartKinds
}

// formResponses collects fields named q<id>. Other fields are ignored.
func formResponses(form url.Values) map[int]string {
	raw := make(map[int]string)
	for key, values := range form {
		if !strings.HasPrefix(key, "q") || len(values) == 0 {
			continue
		}
		id, err := strconv.Atoi(key[1:])
		if err != nil {
			continue
		}
		raw[id] = values[0]
	}
	return raw
}

func currentSession(c *gin.Context) (*model.Session, bool) {
	session, ok := utilities.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session missing"})
	}
	return session, ok
}

// lastResult writes a 404 when the session has nothing submitted yet.
func lastResult(c *gin.Context, assessmentService service.AssessmentService) (*model.Result, bool) {
	session, ok := currentSession(c)
	if !ok {
		return nil, false
	}
	result, err := assessmentService.LastResult(session.ID)
	switch {
	case err == nil:
		return result, true
	case errors.Is(err, service.ErrNoResult), errors.Is(err, repository.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No submitted assessment for this session"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
	return nil, false
}
