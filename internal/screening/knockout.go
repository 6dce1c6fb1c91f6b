// internal/screening/knockout.go
package screening

import "recruit-screening/internal/models"

// KnockoutResult is advisory. It never changes an application's status.
type KnockoutResult struct {
	Eliminate    bool     `json:"eliminate"`
	Failed       []string `json:"failed,omitempty"`
	ManualReview []string `json:"manualReview,omitempty"`
}

// EvaluateKnockout checks every knockout question. A mismatch on any
// auto-gradable one, including a missing answer, eliminates the applicant.
// Open-ended knockout questions and those without a stored reference are
// left for manual review.
func EvaluateKnockout(questions []models.ScreeningQuestion, answers []models.Answer) KnockoutResult {
	var result KnockoutResult
	byQuestion := indexAnswers(answers)

	for _, q := range questions {
		if !q.IsKnockout {
			continue
		}
		if !q.Type.IsAutoGradable() || !q.HasReference() {
			result.ManualReview = append(result.ManualReview, q.ID)
			continue
		}

		answer, answered := byQuestion[q.ID]
		if !answered || answer.Value.IsEmpty() || !Matches(q, answer.Value) {
			result.Failed = append(result.Failed, q.ID)
			result.Eliminate = true
		}
	}

	return result
}
