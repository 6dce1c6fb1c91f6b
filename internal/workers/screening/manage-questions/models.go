// internal/workers/screening/manage-questions/models.go
package managequestions

import "recruit-screening/internal/models"

// Action selects the operation performed on the question set.
type Action string

const (
	ActionList    Action = "list"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionReplace Action = "replace"
	ActionDelete  Action = "delete"
)

type Input struct {
	Action     Action                    `json:"action"`
	JobPostID  string                    `json:"jobPostId"`
	QuestionID string                    `json:"questionId,omitempty"`
	Question   *models.ScreeningQuestion `json:"question,omitempty"`
}

type Output struct {
	Action    Action                     `json:"action"`
	Question  *models.ScreeningQuestion  `json:"question,omitempty"`
	Questions []models.ScreeningQuestion `json:"questions,omitempty"`
	Deleted   bool                       `json:"deleted,omitempty"`
	Notice    string                     `json:"notice"`
}
