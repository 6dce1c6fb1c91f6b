package screening

import (
	"testing"
	"time"

	"recruit-screening/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil, 5)

	assert.Equal(t, 0, stats.Total)
	assert.Len(t, stats.ByStatus, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		assert.Equal(t, 0, stats.ByStatus[s])
	}
	assert.Empty(t, stats.Daily)
	assert.Empty(t, stats.TopSkills)
	assert.Nil(t, stats.AverageScore)
}

func TestComputeStatistics(t *testing.T) {
	apps := []models.Application{
		{
			ID:             "a1",
			Status:         models.StatusPending,
			ScreeningScore: floatPtr(7),
			AppliedAt:      models.At(time.Date(2024, 2, 1, 23, 30, 0, 0, time.UTC)),
			Candidate:      models.CandidateProfile{Skills: []string{"Go", "go", "SQL"}},
		},
		{
			ID:             "a2",
			Status:         models.StatusShortlisted,
			ScreeningScore: floatPtr(8.5),
			AppliedAt:      models.At(time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)),
			Candidate:      models.CandidateProfile{Skills: []string{"GO", "React"}},
		},
		{
			ID:        "a3",
			Status:    models.StatusPending,
			AppliedAt: models.At(time.Date(2024, 2, 1, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))),
			Candidate: models.CandidateProfile{Skills: []string{"React", "Docker"}},
		},
		{
			ID:     "a4",
			Status: models.StatusHired,
		},
	}

	stats := ComputeStatistics(apps, 2)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[models.StatusPending])
	assert.Equal(t, 1, stats.ByStatus[models.StatusShortlisted])
	assert.Equal(t, 1, stats.ByStatus[models.StatusHired])
	assert.Equal(t, 0, stats.ByStatus[models.StatusRejected])

	assert.Equal(t, []models.DailyCount{
		{Date: "2024-01-31", Count: 2},
		{Date: "2024-02-01", Count: 1},
	}, stats.Daily)

	assert.Equal(t, []models.SkillCount{
		{Skill: "Go", Count: 2},
		{Skill: "React", Count: 2},
	}, stats.TopSkills)

	require.NotNil(t, stats.AverageScore)
	assert.Equal(t, 7.8, *stats.AverageScore)
	assert.Equal(t, 2, stats.ScoredCount)
}

func TestComputeStatistics_TopSkillsTieBreakAlphabetical(t *testing.T) {
	apps := []models.Application{
		{Candidate: models.CandidateProfile{Skills: []string{"zig", "ada", "Kotlin"}}},
	}

	stats := ComputeStatistics(apps, 10)

	require.Len(t, stats.TopSkills, 3)
	assert.Equal(t, "ada", stats.TopSkills[0].Skill)
	assert.Equal(t, "Kotlin", stats.TopSkills[1].Skill)
	assert.Equal(t, "zig", stats.TopSkills[2].Skill)
}
