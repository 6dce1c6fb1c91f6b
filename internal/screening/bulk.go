// internal/screening/bulk.go
package screening

import (
	"context"
	"fmt"
	"strings"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/models"

	"golang.org/x/time/rate"
)

// StatusUpdater moves one application to a new status.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) error
}

// BulkFailure records why one application could not be updated.
type BulkFailure struct {
	ApplicationID string `json:"applicationId"`
	Code          string `json:"code"`
	Message       string `json:"message"`
}

// BulkResult is the outcome of one bulk action. Notice is the user-visible summary.
type BulkResult struct {
	Target    models.ApplicationStatus `json:"target"`
	Succeeded []string                 `json:"succeeded"`
	Failed    []BulkFailure            `json:"failed"`
	Notice    string                   `json:"notice"`
}

// Requested is the number of distinct applications the action covered.
func (r *BulkResult) Requested() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Dispatcher applies one status transition to a selection of applications,
// sequentially and without retries.
type Dispatcher struct {
	updater StatusUpdater
	limiter *rate.Limiter
	logger  logger.Logger
}

// NewDispatcher paces calls at ratePerSecond when it is positive.
func NewDispatcher(updater StatusUpdater, ratePerSecond float64, log logger.Logger) *Dispatcher {
	d := &Dispatcher{
		updater: updater,
		logger:  log,
	}
	if ratePerSecond > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return d
}

// Dispatch updates every id in order and keeps going past individual failures.
// Validation happens before any call to the updater.
func (d *Dispatcher) Dispatch(ctx context.Context, ids []string, target models.ApplicationStatus) (*BulkResult, error) {
	selection := dedupe(ids)
	if len(selection) == 0 {
		return nil, errors.NewNoApplicationsSelectedError()
	}
	if !target.Valid() {
		return nil, errors.NewInvalidStatusError(string(target))
	}

	result := &BulkResult{
		Target:    target,
		Succeeded: make([]string, 0, len(selection)),
		Failed:    []BulkFailure{},
	}

	for i, id := range selection {
		if err := d.wait(ctx); err != nil {
			for _, rest := range selection[i:] {
				result.Failed = append(result.Failed, failure(rest, err))
			}
			break
		}

		if err := d.updater.UpdateStatus(ctx, id, target); err != nil {
			d.logger.Warn("status update failed", map[string]interface{}{
				"applicationId": id,
				"status":        target,
				"error":         err,
			})
			result.Failed = append(result.Failed, failure(id, err))
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	result.Notice = bulkNotice(result)

	d.logger.Info("bulk status update finished", map[string]interface{}{
		"status":    target,
		"requested": len(selection),
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	})

	return result, nil
}

func (d *Dispatcher) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.limiter == nil {
		return nil
	}
	return d.limiter.Wait(ctx)
}

func failure(id string, err error) BulkFailure {
	stdErr := errors.AsStandard(err)
	return BulkFailure{
		ApplicationID: id,
		Code:          string(stdErr.Code),
		Message:       err.Error(),
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func bulkNotice(r *BulkResult) string {
	switch {
	case len(r.Failed) == 0:
		return fmt.Sprintf("%d application(s) marked as %s", len(r.Succeeded), r.Target)
	case len(r.Succeeded) == 0:
		return fmt.Sprintf("Failed to update %d application(s)", len(r.Failed))
	default:
		return fmt.Sprintf("%d application(s) marked as %s, %d failed", len(r.Succeeded), r.Target, len(r.Failed))
	}
}
