// internal/screening/questions.go
package screening

import (
	"fmt"
	"strings"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/models"
)

// ValidateQuestions checks the fields scoring depends on for questions
// supplied with a job: a known type, a weight of 1-10 and an operator
// default score of 0-100. Question text and job reference are not required.
func ValidateQuestions(questions []models.ScreeningQuestion) error {
	var problems []string
	for i, q := range questions {
		id := q.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i)
		}
		if !q.Type.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown type %q", id, q.Type))
		}
		if !q.ValidWeight() {
			problems = append(problems, fmt.Sprintf("%s: weight %d is not between %d and %d",
				id, q.Weight, models.MinQuestionWeight, models.MaxQuestionWeight))
		}
		if q.Score != nil && (*q.Score < 0 || *q.Score > 100) {
			problems = append(problems, fmt.Sprintf("%s: score must be between 0 and 100", id))
		}
	}
	if len(problems) > 0 {
		return errors.NewQuestionValidationError(strings.Join(problems, "; "))
	}
	return nil
}
