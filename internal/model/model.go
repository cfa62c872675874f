package model

import (
	"fmt"
	"time"
)

type Question struct {
	ID          int    `json:"id" yaml:"id"`
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory" yaml:"subcategory"`
	Text        string `json:"text" yaml:"text"`
}

// Category describes one top-level grouping in canonical order.
type Category struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Subcategories []string `json:"subcategories"`
	QuestionCount int      `json:"question_count"`
}

// Scale is the rating scale a user answers with. Valid scores are 1..Max.
type Scale struct {
	Max    int      `json:"max"`
	Labels []string `json:"labels"`
}

var (
	FivePointScale = Scale{
		Max:    5,
		Labels: []string{"Never", "Rarely", "Sometimes", "Often", "Consistently all the time"},
	}
	ThreePointScale = Scale{
		Max:    3,
		Labels: []string{"Rarely", "Sometimes", "Consistently"},
	}
)

// ScaleFor returns the predefined scale with the given maximum.
func ScaleFor(max int) (Scale, error) {
	switch max {
	case 5:
		return FivePointScale, nil
	case 3:
		return ThreePointScale, nil
	}
	return Scale{}, fmt.Errorf("unsupported scale: %d (want 3 or 5)", max)
}

func (s Scale) Valid(score int) bool {
	return score >= 1 && score <= s.Max
}

// Label returns the label for a score, or "" when out of range.
func (s Scale) Label(score int) string {
	if !s.Valid(score) || score > len(s.Labels) {
		return ""
	}
	return s.Labels[score-1]
}

// Legend renders the scale as "1 = Never | 2 = Rarely | ...".
func (s Scale) Legend() string {
	out := ""
	for i := 1; i <= s.Max; i++ {
		if i > 1 {
			out += " | "
		}
		out += fmt.Sprintf("%d = %s", i, s.Label(i))
	}
	return out
}

type Response struct {
	QuestionID int `json:"question_id" yaml:"question_id"`
	Score      int `json:"score" yaml:"score"`
}

// ValidationError marks one submitted item that was skipped from totals.
type ValidationError struct {
	QuestionID int    `json:"question_id"`
	Value      string `json:"value"`
	Message    string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("question %d: %s", e.QuestionID, e.Message)
}

// CategoryTotal is a derived sum for a category, or for a (category,
// subcategory) pair when Subcategory is set.
type CategoryTotal struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Score       int    `json:"score"`
	Count       int    `json:"count"`
	Answered    int    `json:"answered"`
	Max         int    `json:"max"`
	Percentage  int    `json:"percentage"`
}

type Result struct {
	SessionID   string            `json:"session_id"`
	Scale       Scale             `json:"scale"`
	Total       int               `json:"total"`
	MaxTotal    int               `json:"max_total"`
	Percentage  int               `json:"percentage"`
	Answered    int               `json:"answered"`
	Questions   int               `json:"questions"`
	Categories  []CategoryTotal   `json:"categories"`
	Groups      []CategoryTotal   `json:"groups"`
	Responses   []Response        `json:"responses"`
	Invalid     []ValidationError `json:"invalid,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// InvalidFor returns the validation error for a question, if any.
func (r *Result) InvalidFor(questionID int) (ValidationError, bool) {
	for _, e := range r.Invalid {
		if e.QuestionID == questionID {
			return e, true
		}
	}
	return ValidationError{}, false
}

// ScoreFor returns the accepted score for a question, or 0.
func (r *Result) ScoreFor(questionID int) int {
	for _, resp := range r.Responses {
		if resp.QuestionID == questionID {
			return resp.Score
		}
	}
	return 0
}

type Session struct {
	ID         string    `json:"id"`
	Seed       uint64    `json:"seed"`
	CreatedAt  time.Time `json:"created_at"`
	LastResult *Result   `json:"last_result,omitempty"`
}
