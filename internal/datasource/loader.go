// internal/datasource/loader.go
package datasource

import (
	"context"

	"recruit-screening/internal/models"
	"recruit-screening/internal/recruitapi"

	"golang.org/x/sync/errgroup"
)

const defaultPageSize = 100

// JobData is everything needed to evaluate or report on one job.
type JobData struct {
	JobID        string
	Questions    []models.ScreeningQuestion
	Applications []models.Application
}

// LoadJob fetches a job's questions and all its applications concurrently.
// The first failure cancels the other fetch.
func LoadJob(ctx context.Context, src Source, jobID string, pageSize int) (*JobData, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	data := &JobData{JobID: jobID}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		questions, err := src.Questions(gctx, jobID)
		if err != nil {
			return err
		}
		data.Questions = questions
		return nil
	})

	g.Go(func() error {
		apps, err := AllApplications(gctx, src, recruitapi.NewQuery().Where("jobId", recruitapi.OpEq, jobID), pageSize)
		if err != nil {
			return err
		}
		data.Applications = apps
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// AllApplications pages through q until the reported total is reached or a page comes back short.
func AllApplications(ctx context.Context, src Source, q recruitapi.Query, pageSize int) ([]models.Application, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	all := []models.Application{}
	for skip := 0; ; skip += pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := src.Applications(ctx, q.WithTake(pageSize).WithSkip(skip))
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < pageSize || len(all) >= page.Total {
			return all, nil
		}
	}
}
