package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"antibias-assessment/internal/service"
	"antibias-assessment/utilities"
)

type APIController struct {
	AssessmentService service.AssessmentService
}

func NewAPIController(assessmentService service.AssessmentService) *APIController {
	return &APIController{AssessmentService: assessmentService}
}

func (api *APIController) GetQuestions(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":      api.AssessmentService.Title(),
		"scale":      api.AssessmentService.Scale(),
		"categories": api.AssessmentService.Questions().Categories(),
		"questions":  api.AssessmentService.OrderedQuestions(session),
	})
}

// Submit accepts {"responses": {"<id>": <score>}}. Off-scale values come back
// in the result's invalid list rather than failing the request.
func (api *APIController) Submit(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	var req struct {
		Responses map[string]interface{} `json:"responses" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: responses are required"})
		return
	}

	raw := make(map[int]string, len(req.Responses))
	for key, value := range req.Responses {
		id, err := strconv.Atoi(key)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid question id %q", key)})
			return
		}
		raw[id] = jsonValue(value)
	}

	result, err := api.AssessmentService.Submit(session, raw)
	if err != nil {
		utilities.Error("submit session %s: %v", session.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to score assessment"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (api *APIController) GetResult(c *gin.Context) {
	result, ok := lastResult(c, api.AssessmentService)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func jsonValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
