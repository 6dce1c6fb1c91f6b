package screening

import (
	"testing"

	"recruit-screening/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateKnockout_NoKnockoutQuestions(t *testing.T) {
	questions := []models.ScreeningQuestion{
		boolQuestion("q1", 5, true, false),
		choiceQuestion("q2", 5, []string{"a", "b"}, "a"),
	}
	answers := []models.Answer{
		answer("q1", models.BoolAnswer(false)),
		answer("q2", models.OptionsAnswer("b")),
	}

	result := EvaluateKnockout(questions, answers)

	assert.False(t, result.Eliminate)
	assert.Empty(t, result.Failed)
	assert.Empty(t, result.ManualReview)
}

func TestEvaluateKnockout_FailedBooleanEliminates(t *testing.T) {
	questions := []models.ScreeningQuestion{boolQuestion("q1", 2, true, true)}
	answers := []models.Answer{answer("q1", models.BoolAnswer(false))}

	knockout := EvaluateKnockout(questions, answers)
	score := Score(questions, answers)

	assert.True(t, knockout.Eliminate)
	assert.Equal(t, []string{"q1"}, knockout.Failed)
	require.NotNil(t, score.Total)
	assert.Equal(t, 0.0, *score.Total)
}

func TestEvaluateKnockout_EliminatesRegardlessOfScore(t *testing.T) {
	gate := choiceQuestion("gate", 1, []string{"Full-time", "Part-time"}, "Full-time")
	gate.IsKnockout = true
	questions := []models.ScreeningQuestion{
		gate,
		boolQuestion("q2", 10, true, false),
		boolQuestion("q3", 10, true, false),
	}
	answers := []models.Answer{
		answer("gate", models.OptionsAnswer("Part-time")),
		answer("q2", models.BoolAnswer(true)),
		answer("q3", models.BoolAnswer(true)),
	}

	knockout := EvaluateKnockout(questions, answers)
	score := Score(questions, answers)

	assert.True(t, knockout.Eliminate)
	require.NotNil(t, score.Total)
	assert.Greater(t, *score.Total, 9.0)
}

func TestEvaluateKnockout_MissingAnswerFails(t *testing.T) {
	questions := []models.ScreeningQuestion{
		boolQuestion("q1", 1, true, true),
		boolQuestion("q2", 1, false, true),
	}
	answers := []models.Answer{answer("q2", models.BoolAnswer(false))}

	result := EvaluateKnockout(questions, answers)

	assert.True(t, result.Eliminate)
	assert.Equal(t, []string{"q1"}, result.Failed)
}

func TestEvaluateKnockout_OpenEndedGoesToManualReview(t *testing.T) {
	essay := textQuestion("essay", 3)
	essay.IsKnockout = true
	noReference := boolQuestion("q2", 1, true, true)
	noReference.CorrectAnswer = nil

	result := EvaluateKnockout([]models.ScreeningQuestion{essay, noReference}, nil)

	assert.False(t, result.Eliminate)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []string{"essay", "q2"}, result.ManualReview)
}

func TestEvaluateKnockout_AllPassing(t *testing.T) {
	yn := yesNoQuestion("q1", 1, "yes")
	yn.IsKnockout = true
	questions := []models.ScreeningQuestion{yn, boolQuestion("q2", 1, true, true)}
	answers := []models.Answer{
		answer("q1", &models.AnswerValue{Choice: "YES"}),
		answer("q2", models.BoolAnswer(true)),
	}

	result := EvaluateKnockout(questions, answers)

	assert.False(t, result.Eliminate)
	assert.Empty(t, result.Failed)
}
