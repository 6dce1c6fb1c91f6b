// internal/workers/screening/score-application/models.go
package scoreapplication

import (
	"recruit-screening/internal/models"
	"recruit-screening/internal/screening"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
	JobID         string `json:"jobId"`
	// Questions are loaded for JobID when omitted.
	Questions []models.ScreeningQuestion `json:"questions,omitempty"`
	Answers   []models.Answer            `json:"answers"`
}

type Output struct {
	ApplicationID   string                    `json:"applicationId"`
	ScreeningScore  *float64                  `json:"screeningScore"`
	Scored          bool                      `json:"scored"`
	Breakdown       []screening.QuestionScore `json:"breakdown"`
	Pending         []string                  `json:"pendingQuestions"`
	Eliminate       bool                      `json:"eliminate"`
	FailedKnockouts []string                  `json:"failedKnockouts"`
	ManualReview    []string                  `json:"manualReview"`
	EvaluationNotes string                    `json:"evaluationNotes,omitempty"`
	EvaluationID    string                    `json:"evaluationId,omitempty"`
}
