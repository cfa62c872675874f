package service

import (
	"sort"
	"strconv"
	"strings"

	"antibias-assessment/internal/model"
	"antibias-assessment/internal/repository"
)

// Percentage returns score as a truncated integer percentage of max.
func Percentage(score, max int) int {
	if max <= 0 || score <= 0 {
		return 0
	}
	return score * 100 / max
}

// ValidateResponses turns raw submitted values keyed by question id into
// responses. Empty values are unanswered. Values that are not an integer on
// the scale, or that reference an unknown question, are reported and skipped.
func ValidateResponses(questions repository.QuestionRepository, scale model.Scale, raw map[int]string) ([]model.Response, []model.ValidationError) {
	var responses []model.Response
	var invalid []model.ValidationError

	ids := make([]int, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		value := strings.TrimSpace(raw[id])
		if value == "" {
			continue
		}
		if _, err := questions.GetQuestionByID(id); err != nil {
			invalid = append(invalid, model.ValidationError{QuestionID: id, Value: value, Message: "unknown question"})
			continue
		}
		score, err := strconv.Atoi(value)
		if err != nil || !scale.Valid(score) {
			invalid = append(invalid, model.ValidationError{
				QuestionID: id,
				Value:      value,
				Message:    "selected value must be one of " + allowedValues(scale),
			})
			continue
		}
		responses = append(responses, model.Response{QuestionID: id, Score: score})
	}
	return responses, invalid
}

func allowedValues(scale model.Scale) string {
	vals := make([]string, scale.Max)
	for i := range vals {
		vals[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(vals, ", ")
}

// Aggregate sums responses per category and per (category, subcategory).
// Responses for unknown questions or off-scale scores are ignored; when a
// question appears twice the later response wins.
func Aggregate(questions repository.QuestionRepository, scale model.Scale, responses []model.Response) *model.Result {
	scores := make(map[int]int, len(responses))
	for _, r := range responses {
		if _, err := questions.GetQuestionByID(r.QuestionID); err != nil || !scale.Valid(r.Score) {
			continue
		}
		scores[r.QuestionID] = r.Score
	}

	type groupKey struct{ category, subcategory string }
	catTotals := make(map[string]*model.CategoryTotal)
	groupTotals := make(map[groupKey]*model.CategoryTotal)

	result := &model.Result{Scale: scale}
	for _, q := range questions.GetAllQuestions() {
		ct, ok := catTotals[q.Category]
		if !ok {
			ct = &model.CategoryTotal{Category: q.Category}
			catTotals[q.Category] = ct
		}
		key := groupKey{q.Category, q.Subcategory}
		gt, ok := groupTotals[key]
		if !ok {
			gt = &model.CategoryTotal{Category: q.Category, Subcategory: q.Subcategory}
			groupTotals[key] = gt
		}

		ct.Count++
		gt.Count++
		result.Questions++
		if score, answered := scores[q.ID]; answered {
			ct.Score += score
			ct.Answered++
			gt.Score += score
			gt.Answered++
			result.Total += score
			result.Answered++
		}
	}

	for _, c := range questions.Categories() {
		ct := catTotals[c.Name]
		finish(ct, scale)
		result.Categories = append(result.Categories, *ct)

		groups := make([]model.CategoryTotal, 0, len(c.Subcategories))
		for _, sub := range c.Subcategories {
			gt := groupTotals[groupKey{c.Name, sub}]
			finish(gt, scale)
			groups = append(groups, *gt)
		}
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Percentage > groups[j].Percentage
		})
		result.Groups = append(result.Groups, groups...)
	}

	result.MaxTotal = result.Questions * scale.Max
	result.Percentage = Percentage(result.Total, result.MaxTotal)

	ids := make([]int, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		result.Responses = append(result.Responses, model.Response{QuestionID: id, Score: scores[id]})
	}
	return result
}

func finish(t *model.CategoryTotal, scale model.Scale) {
	t.Max = t.Count * scale.Max
	t.Percentage = Percentage(t.Score, t.Max)
}

// Score validates raw values and aggregates the accepted ones.
func Score(questions repository.QuestionRepository, scale model.Scale, raw map[int]string) *model.Result {
	responses, invalid := ValidateResponses(questions, scale, raw)
	result := Aggregate(questions, scale, responses)
	result.Invalid = invalid
	return result
}
