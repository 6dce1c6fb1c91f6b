// internal/screening/scorer.go
package screening

import (
	"math"
	"strings"

	"recruit-screening/internal/models"
)

// QuestionScore is the contribution of one question to the aggregate.
type QuestionScore struct {
	QuestionID  string              `json:"questionId"`
	Type        models.QuestionType `json:"type"`
	Weight      int                 `json:"weight"`
	Correctness float64             `json:"correctness"`
	Weighted    float64             `json:"weighted"`
	Answered    bool                `json:"answered"`
}

// ScoreResult is the outcome of scoring one application.
// Total is nil when nothing could be scored, which is distinct from 0.
type ScoreResult struct {
	Total     *float64        `json:"total"`
	Breakdown []QuestionScore `json:"breakdown"`
	Pending   []string        `json:"pending,omitempty"`
}

// Scored reports whether the application received an aggregate score.
func (r ScoreResult) Scored() bool {
	return r.Total != nil
}

// Score computes the weighted aggregate on a 0-10 scale.
//
// Questions that cannot be graded (open-ended without an operator score,
// auto-gradable without a reference, weight outside 1-10) are listed in
// Pending and excluded from both sides of the ratio.
func Score(questions []models.ScreeningQuestion, answers []models.Answer) ScoreResult {
	result := ScoreResult{Breakdown: make([]QuestionScore, 0, len(questions))}
	if len(questions) == 0 {
		return result
	}

	byQuestion := indexAnswers(answers)

	var weighted, weights float64
	for _, q := range questions {
		answer, answered := byQuestion[q.ID]

		correctness, gradable := grade(q, answer, answered)
		if !gradable || !q.ValidWeight() {
			result.Pending = append(result.Pending, q.ID)
			continue
		}

		w := float64(q.Weight)
		weighted += w * correctness
		weights += w

		result.Breakdown = append(result.Breakdown, QuestionScore{
			QuestionID:  q.ID,
			Type:        q.Type,
			Weight:      q.Weight,
			Correctness: correctness,
			Weighted:    w * correctness,
			Answered:    answered && !answer.Value.IsEmpty(),
		})
	}

	if weights == 0 {
		return result
	}

	total := RoundOneDecimal(weighted / weights * 10)
	result.Total = &total
	return result
}

// grade returns correctness in [0,1] and whether the question could be graded at all.
func grade(q models.ScreeningQuestion, answer models.Answer, answered bool) (float64, bool) {
	if !q.Type.IsAutoGradable() {
		if answered && answer.Score != nil {
			return normalizeOperatorScore(*answer.Score), true
		}
		if q.Score != nil {
			return normalizeOperatorScore(*q.Score), true
		}
		return 0, false
	}

	if !q.HasReference() {
		return 0, false
	}
	if !answered || answer.Value.IsEmpty() {
		return 0, true
	}
	if Matches(q, answer.Value) {
		return 1, true
	}
	return 0, true
}

// Matches compares an answer with the question's reference answer.
// It is only meaningful for auto-gradable question types.
func Matches(q models.ScreeningQuestion, value *models.AnswerValue) bool {
	if q.CorrectAnswer == nil || value == nil {
		return false
	}

	switch q.Type {
	case models.QuestionTypeBoolean:
		want, ok := q.CorrectAnswer.BoolValue()
		if !ok {
			return false
		}
		got, ok := value.BoolValue()
		return ok && got == want

	case models.QuestionTypeYesNo:
		want, ok := q.CorrectAnswer.YesNoValue()
		if !ok {
			return false
		}
		got, ok := value.YesNoValue()
		return ok && strings.EqualFold(got, want)

	case models.QuestionTypeMultipleChoice:
		correct := make(map[string]struct{})
		for _, opt := range q.CorrectAnswer.Options() {
			correct[normalizeOption(opt)] = struct{}{}
		}
		for _, opt := range value.Options() {
			if _, ok := correct[normalizeOption(opt)]; ok {
				return true
			}
		}
	}
	return false
}

func indexAnswers(answers []models.Answer) map[string]models.Answer {
	byQuestion := make(map[string]models.Answer, len(answers))
	for _, a := range answers {
		// first answer wins
		if _, seen := byQuestion[a.QuestionID]; !seen {
			byQuestion[a.QuestionID] = a
		}
	}
	return byQuestion
}

func normalizeOperatorScore(score float64) float64 {
	return math.Max(0, math.Min(1, score/100))
}

func normalizeOption(opt string) string {
	return strings.ToLower(strings.TrimSpace(opt))
}

// RoundOneDecimal rounds half away from zero.
func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
