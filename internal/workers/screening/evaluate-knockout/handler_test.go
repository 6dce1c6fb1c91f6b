package evaluateknockout

import (
	"context"
	"testing"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/datasource"
	"recruit-screening/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knockoutQuestions() []models.ScreeningQuestion {
	return []models.ScreeningQuestion{
		{ID: "auth", Type: models.QuestionTypeBoolean, Weight: 5, IsKnockout: true, CorrectAnswer: models.BoolAnswer(true)},
		{ID: "shift", Type: models.QuestionTypeYesNo, Weight: 2, IsKnockout: true, CorrectAnswer: &models.ExpectedAnswer{Choice: "yes"}},
		{ID: "lang", Type: models.QuestionTypeMultipleChoice, Weight: 3, IsKnockout: true, Options: []string{"Go", "Java"}, CorrectAnswer: models.OptionsAnswer("Go")},
		{ID: "essay", Type: models.QuestionTypeEssay, Weight: 1, IsKnockout: true},
		{ID: "extra", Type: models.QuestionTypeBoolean, Weight: 1, CorrectAnswer: models.BoolAnswer(true)},
	}
}

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(&Config{}, nil, logger.NewTestLogger(t))

	tests := []struct {
		name          string
		questions     []models.ScreeningQuestion
		answers       []models.Answer
		wantEliminate bool
		wantFailed    []string
		wantReview    []string
		wantCount     int
	}{
		{
			name:       "no knockout questions",
			questions:  []models.ScreeningQuestion{knockoutQuestions()[4]},
			answers:    []models.Answer{{QuestionID: "extra", Value: models.BoolAnswer(false)}},
			wantFailed: []string{},
			wantReview: []string{},
		},
		{
			name:      "all knockouts passed",
			questions: knockoutQuestions(),
			answers: []models.Answer{
				{QuestionID: "auth", Value: models.BoolAnswer(true)},
				{QuestionID: "shift", Value: &models.AnswerValue{Choice: "YES"}},
				{QuestionID: "lang", Value: models.OptionsAnswer("Java", "go")},
				{QuestionID: "extra", Value: models.BoolAnswer(false)},
			},
			wantFailed: []string{},
			wantReview: []string{"essay"},
			wantCount:  4,
		},
		{
			name:      "wrong and missing answers eliminate",
			questions: knockoutQuestions(),
			answers: []models.Answer{
				{QuestionID: "auth", Value: models.BoolAnswer(false)},
				{QuestionID: "shift", Value: models.BoolAnswer(true)},
			},
			wantEliminate: true,
			wantFailed:    []string{"auth", "lang"},
			wantReview:    []string{"essay"},
			wantCount:     4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), &Input{
				ApplicationID: "app-1",
				Questions:     tt.questions,
				Answers:       tt.answers,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantEliminate, output.Eliminate)
			assert.Equal(t, tt.wantFailed, output.FailedKnockouts)
			assert.Equal(t, tt.wantReview, output.ManualReview)
			assert.Equal(t, tt.wantCount, output.KnockoutCount)
		})
	}
}

func TestHandler_Execute_LoadsQuestions(t *testing.T) {
	src, err := datasource.ParseFixture("inline", []byte(`
questions:
  - id: auth
    jobPostId: job-9
    question: Authorized to work?
    type: yes-no
    weight: 3
    isKnockout: true
    correctAnswer: "yes"
`))
	require.NoError(t, err)

	h := NewHandler(&Config{}, src, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{
		JobID:   "job-9",
		Answers: []models.Answer{{QuestionID: "auth", Value: &models.AnswerValue{Choice: "no"}}},
	})
	require.NoError(t, err)

	assert.True(t, output.Eliminate)
	assert.Equal(t, []string{"auth"}, output.FailedKnockouts)
}

func TestHandler_Execute_RequiresQuestionsOrJob(t *testing.T) {
	h := NewHandler(&Config{}, nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	assert.ErrorIs(t, err, errors.ErrValidationFailed)
}

func TestHandler_Execute_RejectsInvalidSuppliedQuestions(t *testing.T) {
	h := NewHandler(&Config{}, nil, logger.NewTestLogger(t))

	bad := knockoutQuestions()
	bad[0].Weight = 0

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		Questions:     bad,
		Answers:       []models.Answer{{QuestionID: "auth", Value: models.BoolAnswer(true)}},
	})

	assert.ErrorIs(t, err, errors.ErrQuestionValidation)
	assert.Contains(t, errors.AsStandard(err).Details, "auth: weight 0")
}
