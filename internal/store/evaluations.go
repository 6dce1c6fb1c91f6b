// internal/store/evaluations.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/screening"

	"github.com/google/uuid"
)

// Evaluation is a point-in-time snapshot of scoring and knockout results for one application.
type Evaluation struct {
	ID            string                    `json:"id"`
	ApplicationID string                    `json:"applicationId"`
	JobID         string                    `json:"jobId"`
	Total         *float64                  `json:"total"`
	Breakdown     []screening.QuestionScore `json:"breakdown"`
	Pending       []string                  `json:"pending"`
	Eliminated    bool                      `json:"eliminated"`
	Failed        []string                  `json:"failedKnockouts"`
	ManualReview  []string                  `json:"manualReview"`
	EvaluatedAt   time.Time                 `json:"evaluatedAt"`
}

// NewEvaluation combines a score and a knockout decision.
func NewEvaluation(applicationID, jobID string, score screening.ScoreResult, knockout screening.KnockoutResult) Evaluation {
	return Evaluation{
		ApplicationID: applicationID,
		JobID:         jobID,
		Total:         score.Total,
		Breakdown:     score.Breakdown,
		Pending:       score.Pending,
		Eliminated:    knockout.Eliminate,
		Failed:        knockout.Failed,
		ManualReview:  knockout.ManualReview,
	}
}

// EvaluationStore persists evaluation snapshots in PostgreSQL.
type EvaluationStore struct {
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
}

func NewEvaluationStore(db *sql.DB, log logger.Logger) *EvaluationStore {
	return &EvaluationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "evaluation-store"}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Save inserts e and returns it with ID and EvaluatedAt set. The audit row is best effort.
func (s *EvaluationStore) Save(ctx context.Context, e Evaluation) (*Evaluation, error) {
	e.ID = uuid.New().String()
	if e.EvaluatedAt.IsZero() {
		e.EvaluatedAt = s.now()
	}

	breakdown, err := marshalList(e.Breakdown)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	pending, _ := marshalList(e.Pending)
	failed, _ := marshalList(e.Failed)
	manual, _ := marshalList(e.ManualReview)

	var total sql.NullFloat64
	if e.Total != nil {
		total = sql.NullFloat64{Float64: *e.Total, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO screening_evaluations (
			id, application_id, job_id, total_score, breakdown, pending,
			eliminated, failed_knockouts, manual_review, evaluated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.ApplicationID, e.JobID, total, breakdown, pending,
		e.Eliminated, failed, manual, e.EvaluatedAt,
	)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	details, err := json.Marshal(map[string]interface{}{
		"evaluationId": e.ID,
		"jobId":        e.JobID,
		"total":        e.Total,
		"eliminated":   e.Eliminated,
	})
	if err != nil {
		details = []byte("{}")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"SCREENING_EVALUATED", "application", e.ApplicationID, details, e.EvaluatedAt,
	)
	if err != nil {
		s.logger.Warn("audit log insert failed", map[string]interface{}{
			"applicationId": e.ApplicationID,
			"error":         err,
		})
	}

	return &e, nil
}

// Latest returns the newest snapshot for an application, or nil when there is none.
func (s *EvaluationStore) Latest(ctx context.Context, applicationID string) (*Evaluation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, application_id, job_id, total_score, breakdown, pending,
		       eliminated, failed_knockouts, manual_review, evaluated_at
		FROM screening_evaluations
		WHERE application_id = $1
		ORDER BY evaluated_at DESC
		LIMIT 1`, applicationID)

	var (
		e                                  Evaluation
		total                              sql.NullFloat64
		breakdown, pending, failed, manual []byte
	)
	err := row.Scan(&e.ID, &e.ApplicationID, &e.JobID, &total, &breakdown, &pending,
		&e.Eliminated, &failed, &manual, &e.EvaluatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("latest_evaluation", err)
	}

	if total.Valid {
		v := total.Float64
		e.Total = &v
	}
	if err := json.Unmarshal(breakdown, &e.Breakdown); err != nil {
		return nil, errors.NewQueryExecutionFailedError("latest_evaluation", err)
	}
	unmarshalListOrEmpty(pending, &e.Pending)
	unmarshalListOrEmpty(failed, &e.Failed)
	unmarshalListOrEmpty(manual, &e.ManualReview)

	return &e, nil
}

func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func unmarshalListOrEmpty(data []byte, out *[]string) {
	if err := json.Unmarshal(data, out); err != nil || *out == nil {
		*out = []string{}
	}
}
