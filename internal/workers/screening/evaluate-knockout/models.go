// internal/workers/screening/evaluate-knockout/models.go
package evaluateknockout

import "recruit-screening/internal/models"

type Input struct {
	ApplicationID string                     `json:"applicationId"`
	JobID         string                     `json:"jobId"`
	Questions     []models.ScreeningQuestion `json:"questions,omitempty"`
	Answers       []models.Answer            `json:"answers"`
}

type Output struct {
	ApplicationID   string   `json:"applicationId,omitempty"`
	Eliminate       bool     `json:"eliminate"`
	FailedKnockouts []string `json:"failedKnockouts"`
	ManualReview    []string `json:"manualReview"`
	KnockoutCount   int      `json:"knockoutCount"`
}
