package screening

import (
	"testing"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func boolQuestion(id string, weight int, correct bool, knockout bool) models.ScreeningQuestion {
	return models.ScreeningQuestion{
		ID:            id,
		JobPostID:     "job-1",
		Question:      "Question " + id,
		Type:          models.QuestionTypeBoolean,
		Weight:        weight,
		IsKnockout:    knockout,
		CorrectAnswer: models.BoolAnswer(correct),
	}
}

func choiceQuestion(id string, weight int, options []string, correct ...string) models.ScreeningQuestion {
	return models.ScreeningQuestion{
		ID:            id,
		JobPostID:     "job-1",
		Question:      "Question " + id,
		Type:          models.QuestionTypeMultipleChoice,
		Options:       options,
		Weight:        weight,
		CorrectAnswer: models.OptionsAnswer(correct...),
	}
}

func yesNoQuestion(id string, weight int, correct string) models.ScreeningQuestion {
	return models.ScreeningQuestion{
		ID:            id,
		JobPostID:     "job-1",
		Question:      "Question " + id,
		Type:          models.QuestionTypeYesNo,
		Weight:        weight,
		CorrectAnswer: &models.ExpectedAnswer{Choice: correct},
	}
}

func textQuestion(id string, weight int) models.ScreeningQuestion {
	return models.ScreeningQuestion{
		ID:        id,
		JobPostID: "job-1",
		Question:  "Question " + id,
		Type:      models.QuestionTypeEssay,
		Weight:    weight,
	}
}

func answer(id string, v *models.AnswerValue) models.Answer {
	return models.Answer{QuestionID: id, Value: v}
}

// ==========================
// Score
// ==========================

func TestScore_NoQuestionsIsNotScored(t *testing.T) {
	result := Score(nil, []models.Answer{answer("q1", models.BoolAnswer(true))})

	assert.Nil(t, result.Total)
	assert.False(t, result.Scored())
	assert.Empty(t, result.Breakdown)
}

func TestScore_FailedBooleanScoresZero(t *testing.T) {
	questions := []models.ScreeningQuestion{boolQuestion("q1", 2, true, true)}
	answers := []models.Answer{answer("q1", models.BoolAnswer(false))}

	result := Score(questions, answers)

	require.NotNil(t, result.Total)
	assert.Equal(t, 0.0, *result.Total)
	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, 0.0, result.Breakdown[0].Correctness)
	assert.True(t, result.Breakdown[0].Answered)
}

func TestScore_WeightedAggregate(t *testing.T) {
	questions := []models.ScreeningQuestion{
		boolQuestion("q1", 2, true, false),
		choiceQuestion("q2", 3, []string{"Go", "Rust", "Java"}, "Go", "Rust"),
		yesNoQuestion("q3", 5, "yes"),
	}
	answers := []models.Answer{
		answer("q1", models.BoolAnswer(true)),
		answer("q2", models.OptionsAnswer(" go ")),
		answer("q3", models.BoolAnswer(false)),
	}

	result := Score(questions, answers)

	require.NotNil(t, result.Total)
	assert.Equal(t, 5.0, *result.Total)
	require.Len(t, result.Breakdown, 3)
	assert.Equal(t, 2.0, result.Breakdown[0].Weighted)
	assert.Equal(t, 3.0, result.Breakdown[1].Weighted)
	assert.Equal(t, 0.0, result.Breakdown[2].Weighted)
}

func TestScore_YesNoCaseInsensitive(t *testing.T) {
	questions := []models.ScreeningQuestion{yesNoQuestion("q1", 1, "YES")}
	answers := []models.Answer{answer("q1", &models.AnswerValue{Choice: "Yes"})}

	result := Score(questions, answers)

	require.NotNil(t, result.Total)
	assert.Equal(t, 10.0, *result.Total)
}

func TestScore_MultipleChoiceNoIntersection(t *testing.T) {
	questions := []models.ScreeningQuestion{choiceQuestion("q1", 4, []string{"a", "b", "c"}, "a")}
	answers := []models.Answer{answer("q1", models.OptionsAnswer("b", "c"))}

	result := Score(questions, answers)

	require.NotNil(t, result.Total)
	assert.Equal(t, 0.0, *result.Total)
}

func TestScore_OperatorScoreForOpenEnded(t *testing.T) {
	questions := []models.ScreeningQuestion{
		textQuestion("essay", 5),
		boolQuestion("q2", 5, true, false),
	}
	answers := []models.Answer{
		{QuestionID: "essay", Value: &models.AnswerValue{Text: "My answer"}, Score: floatPtr(80)},
		answer("q2", models.BoolAnswer(true)),
	}

	result := Score(questions, answers)

	require.NotNil(t, result.Total)
	assert.Equal(t, 9.0, *result.Total)
	assert.Empty(t, result.Pending)
}

func TestScore_OperatorScoreIsClamped(t *testing.T) {
	questions := []models.ScreeningQuestion{textQuestion("essay", 3)}
	answers := []models.Answer{{QuestionID: "essay", Score: floatPtr(150)}}

	result := Score(questions, answers)

	require.NotNil(t, result.Total)
	assert.Equal(t, 10.0, *result.Total)
}

func TestScore_QuestionDefaultScoreFallback(t *testing.T) {
	q := textQuestion("essay", 2)
	q.Score = floatPtr(50)

	result := Score([]models.ScreeningQuestion{q}, nil)

	require.NotNil(t, result.Total)
	assert.Equal(t, 5.0, *result.Total)
}

func TestScore_UngradedQuestionsArePending(t *testing.T) {
	questions := []models.ScreeningQuestion{
		textQuestion("essay", 10),
		boolQuestion("q2", 2, true, false),
	}
	answers := []models.Answer{
		answer("essay", &models.AnswerValue{Text: "long text"}),
		answer("q2", models.BoolAnswer(true)),
	}

	result := Score(questions, answers)

	require.NotNil(t, result.Total)
	assert.Equal(t, 10.0, *result.Total)
	assert.Equal(t, []string{"essay"}, result.Pending)
}

func TestScore_AllPendingIsNotScored(t *testing.T) {
	noReference := boolQuestion("q2", 4, true, false)
	noReference.CorrectAnswer = nil

	result := Score([]models.ScreeningQuestion{textQuestion("essay", 3), noReference}, nil)

	assert.Nil(t, result.Total)
	assert.Equal(t, []string{"essay", "q2"}, result.Pending)
}

func TestScore_OutOfRangeWeightsArePending(t *testing.T) {
	questions := []models.ScreeningQuestion{
		boolQuestion("negative", -5, true, false),
		boolQuestion("zero", 0, true, false),
		boolQuestion("heavy", 11, true, false),
		boolQuestion("max", 10, true, false),
	}
	answers := []models.Answer{
		answer("negative", models.BoolAnswer(true)),
		answer("zero", models.BoolAnswer(true)),
		answer("heavy", models.BoolAnswer(true)),
		answer("max", models.BoolAnswer(false)),
	}

	result := Score(questions, answers)

	require.NotNil(t, result.Total)
	assert.Equal(t, 0.0, *result.Total)
	assert.Equal(t, []string{"negative", "zero", "heavy"}, result.Pending)
	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, "max", result.Breakdown[0].QuestionID)
}

func TestValidateQuestions(t *testing.T) {
	assert.NoError(t, ValidateQuestions(nil))
	assert.NoError(t, ValidateQuestions([]models.ScreeningQuestion{
		boolQuestion("q1", 1, true, true),
		textQuestion("essay", 10),
	}))

	bad := textQuestion("essay", 3)
	bad.Score = floatPtr(120)
	err := ValidateQuestions([]models.ScreeningQuestion{
		boolQuestion("q1", -5, true, false),
		{Type: "slider", Weight: 2},
		bad,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrQuestionValidation)
	details := errors.AsStandard(err).Details
	assert.Contains(t, details, "q1: weight -5 is not between 1 and 10")
	assert.Contains(t, details, `#1: unknown type "slider"`)
	assert.Contains(t, details, "essay: score must be between 0 and 100")
}

func TestScore_UnansweredAutoGradableCountsAsZero(t *testing.T) {
	questions := []models.ScreeningQuestion{
		boolQuestion("q1", 1, true, false),
		boolQuestion("q2", 1, true, false),
	}
	answers := []models.Answer{answer("q1", models.BoolAnswer(true))}

	result := Score(questions, answers)

	require.NotNil(t, result.Total)
	assert.Equal(t, 5.0, *result.Total)
	assert.False(t, result.Breakdown[1].Answered)
}

func TestScore_RoundsToOneDecimal(t *testing.T) {
	tests := []struct {
		name    string
		answers []models.Answer
		want    float64
	}{
		{
			name:    "one third",
			answers: []models.Answer{answer("q1", models.BoolAnswer(true)), answer("q2", models.BoolAnswer(false))},
			want:    3.3,
		},
		{
			name:    "two thirds",
			answers: []models.Answer{answer("q1", models.BoolAnswer(false)), answer("q2", models.BoolAnswer(true))},
			want:    6.7,
		},
	}

	questions := []models.ScreeningQuestion{
		boolQuestion("q1", 1, true, false),
		boolQuestion("q2", 2, true, false),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(questions, tt.answers)
			require.NotNil(t, result.Total)
			assert.Equal(t, tt.want, *result.Total)
		})
	}
}

func TestRoundOneDecimal_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 2.5, RoundOneDecimal(2.45000001))
	assert.Equal(t, 0.5, RoundOneDecimal(0.45000001))
	assert.Equal(t, -0.5, RoundOneDecimal(-0.45000001))
	assert.Equal(t, 7.0, RoundOneDecimal(7))
}

func TestMatches_BooleanAcceptsYesNoStrings(t *testing.T) {
	q := boolQuestion("q1", 1, true, false)

	assert.True(t, Matches(q, &models.AnswerValue{Choice: "yes"}))
	assert.True(t, Matches(q, &models.AnswerValue{Text: "TRUE"}))
	assert.False(t, Matches(q, &models.AnswerValue{Text: "maybe"}))
	assert.False(t, Matches(q, nil))
}
