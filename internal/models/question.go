// internal/models/question.go
package models

import (
	"fmt"
	"strings"
)

// QuestionType is the kind of a pre-screening question.
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multiple-choice"
	QuestionTypeYesNo          QuestionType = "yes-no"
	QuestionTypeBoolean        QuestionType = "boolean"
	QuestionTypeEssay          QuestionType = "essay"
)

const (
	MinQuestionWeight = 1
	MaxQuestionWeight = 10
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeMultipleChoice, QuestionTypeYesNo, QuestionTypeBoolean, QuestionTypeEssay:
		return true
	}
	return false
}

// IsAutoGradable is true for types whose answers can be compared against a stored reference.
func (t QuestionType) IsAutoGradable() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeYesNo, QuestionTypeBoolean:
		return true
	}
	return false
}

// ScreeningQuestion belongs to exactly one job posting. It is identified by
// ID; JobPostID only references the owner.
type ScreeningQuestion struct {
	ID            string          `json:"id,omitempty" yaml:"id"`
	JobPostID     string          `json:"jobPostId" yaml:"jobPostId"`
	Question      string          `json:"question" yaml:"question"`
	Type          QuestionType    `json:"type" yaml:"type"`
	Options       []string        `json:"options,omitempty" yaml:"options,omitempty"`
	IsKnockout    bool            `json:"isKnockout" yaml:"isKnockout"`
	Weight        int             `json:"weight" yaml:"weight"`
	CorrectAnswer *ExpectedAnswer `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`
	Score         *float64        `json:"score,omitempty" yaml:"score,omitempty"`
}

// HasReference reports whether an auto-gradable question carries a usable correct answer.
func (q ScreeningQuestion) HasReference() bool {
	if q.CorrectAnswer == nil {
		return false
	}
	switch q.Type {
	case QuestionTypeBoolean:
		_, ok := q.CorrectAnswer.BoolValue()
		return ok
	case QuestionTypeYesNo:
		_, ok := q.CorrectAnswer.YesNoValue()
		return ok
	case QuestionTypeMultipleChoice:
		return len(q.CorrectAnswer.Options()) > 0
	}
	return false
}

// ValidWeight reports whether the weight is within the allowed range.
func (q ScreeningQuestion) ValidWeight() bool {
	return q.Weight >= MinQuestionWeight && q.Weight <= MaxQuestionWeight
}

// Validate checks the structural invariants of a question.
func (q ScreeningQuestion) Validate() error {
	var problems []string

	if strings.TrimSpace(q.Question) == "" {
		problems = append(problems, "question text is required")
	}
	if strings.TrimSpace(q.JobPostID) == "" {
		problems = append(problems, "jobPostId is required")
	}
	if !q.Type.Valid() {
		problems = append(problems, fmt.Sprintf("unknown type %q", q.Type))
	}
	if !q.ValidWeight() {
		problems = append(problems, fmt.Sprintf("weight must be between %d and %d", MinQuestionWeight, MaxQuestionWeight))
	}

	if q.Type == QuestionTypeMultipleChoice {
		if len(q.Options) == 0 {
			problems = append(problems, "options are required for multiple-choice questions")
		}
		if q.CorrectAnswer != nil {
			for _, opt := range q.CorrectAnswer.Options() {
				if !containsFold(q.Options, opt) {
					problems = append(problems, fmt.Sprintf("correct option %q is not one of the options", opt))
				}
			}
		}
	} else if len(q.Options) > 0 && q.Type.Valid() {
		problems = append(problems, "options are only allowed for multiple-choice questions")
	}

	if q.Score != nil && (*q.Score < 0 || *q.Score > 100) {
		problems = append(problems, "score must be between 0 and 100")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}
