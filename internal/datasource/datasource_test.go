package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"recruit-screening/internal/common/config"
	apperrors "recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/models"
	"recruit-screening/internal/recruitapi"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

type fakeAPI struct {
	questionCalls int32
	questions     []models.ScreeningQuestion
	questionsErr  error
	apps          []models.Application
	appsErr       error
	queries       []recruitapi.Query
}

func (f *fakeAPI) ListQuestions(_ context.Context, jobPostID string) ([]models.ScreeningQuestion, error) {
	atomic.AddInt32(&f.questionCalls, 1)
	if f.questionsErr != nil {
		return nil, f.questionsErr
	}
	return f.questions, nil
}

func (f *fakeAPI) ListApplications(ctx context.Context, q recruitapi.Query) (*models.ApplicationPage, error) {
	f.queries = append(f.queries, q)
	if f.appsErr != nil {
		return nil, f.appsErr
	}
	return (&Fixture{data: FixtureData{Applications: f.apps}}).Applications(ctx, q)
}

func sampleQuestions() []models.ScreeningQuestion {
	return []models.ScreeningQuestion{{
		ID:            "q1",
		JobPostID:     "job-1",
		Question:      "Do you have a driving licence?",
		Type:          models.QuestionTypeBoolean,
		Weight:        3,
		IsKnockout:    true,
		CorrectAnswer: models.BoolAnswer(true),
	}}
}

const fixtureYAML = `
questions:
  - id: q1
    jobPostId: job-1
    question: Are you willing to relocate?
    type: yes-no
    weight: 4
    isKnockout: true
    correctAnswer: "yes"
  - id: q2
    jobPostId: job-1
    question: Preferred stack
    type: multiple-choice
    options: [Go, Java, Rust]
    weight: 2
    correctAnswer: [Go]
  - id: q9
    jobPostId: job-2
    question: Essay
    type: essay
    weight: 1
applications:
  - id: a1
    jobId: job-1
    status: pending
    appliedAt: 2024-01-10
    screeningScore: 7
    answers:
      - questionId: q1
        value: "yes"
      - questionId: q2
        value: [Go, Rust]
    candidate:
      location: Berlin
      skills: [Go, SQL]
  - id: a2
    jobId: job-1
    status: reviewed
    appliedAt: 2024-02-01T10:00:00Z
    answers:
      - questionId: q1
        value: false
  - id: a3
    jobId: job-2
    status: pending
  - id: a4
    jobId: job-1
    status: hired
`

func loadTestFixture(t *testing.T) *Fixture {
	t.Helper()
	f, err := ParseFixture("inline", []byte(fixtureYAML))
	require.NoError(t, err)
	return f
}

// ==========================
// Fixture
// ==========================

func TestFixture_Questions(t *testing.T) {
	f := loadTestFixture(t)

	questions, err := f.Questions(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, questions, 2)

	yn, ok := questions[0].CorrectAnswer.YesNoValue()
	assert.True(t, ok)
	assert.Equal(t, "yes", yn)
	assert.Equal(t, []string{"Go"}, questions[1].CorrectAnswer.Options())

	none, err := f.Questions(context.Background(), "job-404")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFixture_ApplicationsDecodeAnswers(t *testing.T) {
	f := loadTestFixture(t)

	page, err := f.Applications(context.Background(), recruitapi.NewQuery().Where("jobId", recruitapi.OpEq, "job-1"))
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)

	a1 := page.Items[0]
	assert.Equal(t, "2024-01-10", a1.AppliedAt.Format("2006-01-02"))
	assert.Equal(t, 7.0, *a1.ScreeningScore)
	assert.Equal(t, []string{"Go", "Rust"}, a1.Answers[1].Value.Options())
	assert.Equal(t, "Berlin", a1.Candidate.Location)

	b, ok := page.Items[1].Answers[0].Value.BoolValue()
	assert.True(t, ok)
	assert.False(t, b)
}

func TestFixture_ApplicationsQuery(t *testing.T) {
	f := loadTestFixture(t)

	tests := []struct {
		name      string
		query     recruitapi.Query
		wantTotal int
		wantIDs   []string
	}{
		{name: "all", query: recruitapi.NewQuery(), wantTotal: 4, wantIDs: []string{"a1", "a2", "a3", "a4"}},
		{name: "status eq", query: recruitapi.NewQuery().Where("status", recruitapi.OpEq, "pending"), wantTotal: 2, wantIDs: []string{"a1", "a3"}},
		{name: "status in", query: recruitapi.NewQuery().In("status", "reviewed", "hired"), wantTotal: 2, wantIDs: []string{"a2", "a4"}},
		{name: "take", query: recruitapi.NewQuery().WithTake(2), wantTotal: 4, wantIDs: []string{"a1", "a2"}},
		{name: "skip and take", query: recruitapi.NewQuery().WithSkip(1).WithTake(2), wantTotal: 4, wantIDs: []string{"a2", "a3"}},
		{name: "skip past end", query: recruitapi.NewQuery().WithSkip(10), wantTotal: 4, wantIDs: []string{}},
		{name: "unknown field ignored", query: recruitapi.NewQuery().Where("resumeUrl", recruitapi.OpEq, "x"), wantTotal: 4, wantIDs: []string{"a1", "a2", "a3", "a4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.Applications(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)

			ids := []string{}
			for _, a := range page.Items {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFixture_UpdateStatus(t *testing.T) {
	f := loadTestFixture(t)
	ctx := context.Background()

	require.NoError(t, f.UpdateStatus(ctx, "a1", models.StatusShortlisted))

	page, err := f.Applications(ctx, recruitapi.NewQuery().Where("status", recruitapi.OpEq, "shortlisted"))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a1", page.Items[0].ID)

	err = f.UpdateStatus(ctx, "missing", models.StatusRejected)
	assert.ErrorIs(t, err, apperrors.ErrAPIRequestFailed)

	err = f.UpdateStatus(ctx, "a1", models.ApplicationStatus("archived"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestLoadFixture_Errors(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, apperrors.ErrCodeFixtureLoadFailed, apperrors.AsStandard(err).Code)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions: [unterminated"), 0o600))
	_, err = LoadFixture(path)
	assert.Equal(t, apperrors.ErrCodeFixtureLoadFailed, apperrors.AsStandard(err).Code)
}

// ==========================
// Live
// ==========================

func TestLive_QuestionsAreCached(t *testing.T) {
	rdb, mr := setupRedis(t)
	api := &fakeAPI{questions: sampleQuestions()}
	live := NewLive(api, rdb, 10*time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	first, err := live.Questions(ctx, "job-1")
	require.NoError(t, err)
	second, err := live.Questions(ctx, "job-1")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, second[0].IsKnockout)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.questionCalls))
	assert.True(t, mr.Exists("screening:questions:job-1"))
	assert.Equal(t, 10*time.Minute, mr.TTL("screening:questions:job-1"))

	live.Invalidate(ctx, "job-1")
	assert.False(t, mr.Exists("screening:questions:job-1"))

	_, err = live.Questions(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&api.questionCalls))
}

func TestLive_CorruptCacheEntryIsRefreshed(t *testing.T) {
	rdb, mr := setupRedis(t)
	require.NoError(t, mr.Set("screening:questions:job-1", "not-json"))

	api := &fakeAPI{questions: sampleQuestions()}
	live := NewLive(api, rdb, time.Minute, logger.NewTestLogger(t))

	questions, err := live.Questions(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Len(t, questions, 1)

	cached, err := mr.Get("screening:questions:job-1")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(cached)))
}

func TestLive_CacheFailureFallsBackToAPI(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	api := &fakeAPI{questions: sampleQuestions()}
	live := NewLive(api, rdb, 5*time.Minute, logger.NewTestLogger(t))

	data, _ := json.Marshal(sampleQuestions())
	redisMock.ExpectGet("screening:questions:job-1").SetErr(errors.New("connection refused"))
	redisMock.ExpectSet("screening:questions:job-1", data, 5*time.Minute).SetErr(errors.New("connection refused"))

	questions, err := live.Questions(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, sampleQuestions(), questions)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestLive_NoCache(t *testing.T) {
	api := &fakeAPI{questions: sampleQuestions()}
	live := NewLive(api, nil, time.Minute, logger.NewTestLogger(t))

	_, err := live.Questions(context.Background(), "job-1")
	require.NoError(t, err)
	_, err = live.Questions(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&api.questionCalls))
	assert.NotPanics(t, func() { live.Invalidate(context.Background(), "job-1") })
}

func TestLive_APIErrorPropagates(t *testing.T) {
	api := &fakeAPI{questionsErr: apperrors.NewAuthenticationMissingError("no token")}
	live := NewLive(api, nil, 0, logger.NewTestLogger(t))

	_, err := live.Questions(context.Background(), "job-1")
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationMissing)
}

// ==========================
// New / LoadJob
// ==========================

func TestNew_SelectsByMode(t *testing.T) {
	log := logger.NewTestLogger(t)

	src, err := New(config.DataSourceConfig{Mode: config.DataSourceLive, QuestionCacheTTL: 60}, &fakeAPI{}, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &Live{}, src)

	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o600))
	src, err = New(config.DataSourceConfig{Mode: config.DataSourceFixture, FixturePath: path}, nil, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &Fixture{}, src)

	_, err = New(config.DataSourceConfig{Mode: config.DataSourceLive}, nil, nil, log)
	assert.Error(t, err)

	_, err = New(config.DataSourceConfig{Mode: "mock"}, nil, nil, log)
	assert.Error(t, err)
}

func TestLoadJob(t *testing.T) {
	f := loadTestFixture(t)

	data, err := LoadJob(context.Background(), f, "job-1", 2)
	require.NoError(t, err)

	assert.Equal(t, "job-1", data.JobID)
	assert.Len(t, data.Questions, 2)
	assert.Len(t, data.Applications, 3)
}

func TestLoadJob_PagesThroughAPI(t *testing.T) {
	apps := make([]models.Application, 0, 5)
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
		apps = append(apps, models.Application{ID: id, JobID: "job-1", Status: models.StatusPending})
	}
	api := &fakeAPI{questions: sampleQuestions(), apps: apps}
	live := NewLive(api, nil, 0, logger.NewTestLogger(t))

	data, err := LoadJob(context.Background(), live, "job-1", 2)
	require.NoError(t, err)

	assert.Len(t, data.Applications, 5)
	require.Len(t, api.queries, 3)
	assert.Equal(t, "t=2;sk=4;w=jobId:eq:job-1", api.queries[2].Encode())
}

func TestLoadJob_FirstErrorWins(t *testing.T) {
	api := &fakeAPI{
		questions: sampleQuestions(),
		appsErr:   apperrors.NewAPIRequestFailedError("GET", "/applications", 503, "unavailable"),
	}
	live := NewLive(api, nil, 0, logger.NewTestLogger(t))

	_, err := LoadJob(context.Background(), live, "job-1", 10)
	assert.ErrorIs(t, err, apperrors.ErrAPIRequestFailed)
}
