package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antibias-assessment/internal/config"
	"antibias-assessment/internal/model"
	"antibias-assessment/internal/repository"
	"antibias-assessment/internal/service"
	"antibias-assessment/utilities"
)

const testCookie = "assessment_session"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, limit config.RateLimit) *gin.Engine {
	t.Helper()
	sessions := repository.NewSessionRepository(0)
	t.Cleanup(sessions.Close)
	svc := service.NewAssessmentService(repository.DefaultQuestions(), sessions, service.AssessmentOptions{
		Scale:   model.FivePointScale,
		Shuffle: true,
	})
	r := gin.New()
	RegisterRoutes(r, svc, utilities.NewSessionTokens("test-secret", time.Hour), RouteOptions{
		CookieName:   testCookie,
		CookieMaxAge: 3600,
		RateLimit:    limit,
	})
	return r
}

// client replays the session cookie the way a browser would.
type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func newClient(t *testing.T, limit config.RateLimit) *client {
	return &client{t: t, router: newTestRouter(t, limit)}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == testCookie {
			cl.cookie = ck
		}
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) postJSON(path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req)
}

func noLimit() config.RateLimit { return config.RateLimit{} }

func TestHealthz(t *testing.T) {
	cl := newClient(t, noLimit())
	w := cl.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Nil(t, cl.cookie)
}

func TestFormKeepsOrderWithinSession(t *testing.T) {
	cl := newClient(t, noLimit())

	first := cl.get("/")
	require.Equal(t, http.StatusOK, first.Code)
	require.NotNil(t, cl.cookie)
	body := first.Body.String()
	assert.Contains(t, body, "Anti-Bias Self Assessment Tool")
	assert.Contains(t, body, "1 = Never | 2 = Rarely | 3 = Sometimes | 4 = Often | 5 = Consistently all the time")
	assert.Equal(t, 47, strings.Count(body, `<div class="question`))
	assert.NotContains(t, body, `id="results"`)

	second := cl.get("/")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Empty(t, second.Result().Cookies(), "valid cookie is not reissued")
	assert.Equal(t, body, second.Body.String())
}

func TestSubmitShowsInlineErrorsAndTotals(t *testing.T) {
	cl := newClient(t, noLimit())
	cl.get("/")

	w := cl.postForm("/submit", url.Values{"q1": {"5"}, "q2": {"abc"}, "other": {"x"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "selected value must be one of 1, 2, 3, 4, 5")
	assert.Contains(t, body, "1 answer(s) need attention")
	assert.Contains(t, body, "Overall: 5 out of 235 (2%)")
	assert.Contains(t, body, `name="q1" value="5" checked`)
	assert.Contains(t, body, `src="/report/chart/bar"`)
	assert.Contains(t, body, `src="/report/chart/pie"`)
	assert.Contains(t, body, "How to interpret the results")

	again := cl.get("/")
	assert.Contains(t, again.Body.String(), "Overall: 5 out of 235 (2%)")
}

func TestChartRoutes(t *testing.T) {
	cl := newClient(t, noLimit())
	cl.get("/")

	assert.Equal(t, http.StatusNotFound, cl.get("/report/chart/bar").Code)
	assert.Equal(t, http.StatusNotFound, cl.get("/report/chart/radar").Code)

	cl.postForm("/submit", url.Values{"q1": {"9"}})
	assert.Equal(t, http.StatusUnprocessableEntity, cl.get("/report/chart/pie").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, cl.get("/report/chart/stacked").Code)

	bar := cl.get("/report/chart/bar")
	require.Equal(t, http.StatusOK, bar.Code)
	assert.Equal(t, "image/png", bar.Header().Get("Content-Type"))

	cl.postForm("/submit", url.Values{"q1": {"4"}, "q10": {"3"}})
	donut := cl.get("/report/chart/donut")
	require.Equal(t, http.StatusOK, donut.Code)
	assert.True(t, bytes.HasPrefix(donut.Body.Bytes(), []byte("\x89PNG")))
}

func TestDownloadReport(t *testing.T) {
	cl := newClient(t, noLimit())
	cl.get("/")

	assert.Equal(t, http.StatusBadRequest, cl.get("/report/download?format=doc").Code)
	assert.Equal(t, http.StatusNotFound, cl.get("/report/download?format=pdf").Code)

	cl.postForm("/submit", url.Values{"q1": {"5"}, "q2": {"3"}})

	pdf := cl.get("/report/download")
	require.Equal(t, http.StatusOK, pdf.Code)
	assert.Equal(t, "application/pdf", pdf.Header().Get("Content-Type"))
	assert.Contains(t, pdf.Header().Get("Content-Disposition"), "assessment-report.pdf")
	assert.True(t, bytes.HasPrefix(pdf.Body.Bytes(), []byte("%PDF-")))

	html := cl.get("/report/download?format=html")
	require.Equal(t, http.StatusOK, html.Code)
	assert.Contains(t, html.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, html.Body.String(), "Overall: 8 out of 235 (3%)")
}

func TestReportRoutesAreRateLimited(t *testing.T) {
	cl := newClient(t, config.RateLimit{RPS: 0.001, Burst: 1})
	cl.get("/")

	assert.Equal(t, http.StatusNotFound, cl.get("/report/chart/bar").Code)
	assert.Equal(t, http.StatusTooManyRequests, cl.get("/report/chart/bar").Code)
	assert.Equal(t, http.StatusOK, cl.get("/").Code)
}

func TestResetStartsOver(t *testing.T) {
	cl := newClient(t, noLimit())
	cl.get("/")
	before := cl.cookie.Value
	cl.postForm("/submit", url.Values{"q1": {"5"}})

	w := cl.postForm("/reset", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotEqual(t, before, cl.cookie.Value)

	assert.Equal(t, http.StatusNotFound, cl.get("/api/result").Code)
}

func TestAPIQuestions(t *testing.T) {
	cl := newClient(t, noLimit())
	w := cl.get("/api/questions")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Title      string           `json:"title"`
		Scale      model.Scale      `json:"scale"`
		Categories []model.Category `json:"categories"`
		Questions  []model.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Anti-Bias Self Assessment Tool", body.Title)
	assert.Equal(t, 5, body.Scale.Max)
	assert.Len(t, body.Categories, 6)
	assert.Len(t, body.Questions, 47)

	again := cl.get("/api/questions")
	assert.JSONEq(t, w.Body.String(), again.Body.String())
}

func TestAPISubmitAndResult(t *testing.T) {
	cl := newClient(t, noLimit())
	cl.get("/api/questions")

	assert.Equal(t, http.StatusNotFound, cl.get("/api/result").Code)
	assert.Equal(t, http.StatusBadRequest, cl.postJSON("/api/submit", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, cl.postJSON("/api/submit", `{"responses":{"x":1}}`).Code)

	w := cl.postJSON("/api/submit", `{"responses":{"1":5,"2":9,"3":"4","4":2.5}}`)
	require.Equal(t, http.StatusOK, w.Code)
	var result model.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 9, result.Total)
	assert.Equal(t, 2, result.Answered)
	require.Len(t, result.Invalid, 2)
	assert.Equal(t, 2, result.Invalid[0].QuestionID)
	assert.Equal(t, "2.5", result.Invalid[1].Value)

	got := cl.get("/api/result")
	require.Equal(t, http.StatusOK, got.Code)
	raw, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.JSONEq(t, w.Body.String(), string(raw))
}

func TestAPIPreflight(t *testing.T) {
	cl := newClient(t, noLimit())
	req := httptest.NewRequest(http.MethodOptions, "/api/submit", nil)
	req.Header.Set("Origin", "http://frontend.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := cl.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestFormResponses(t *testing.T) {
	raw := formResponses(url.Values{"q3": {"4"}, "q": {"1"}, "qx": {"2"}, "name": {"5"}, "q12": {" 2 "}})
	assert.Equal(t, map[int]string{3: "4", 12: " 2 "}, raw)
}
