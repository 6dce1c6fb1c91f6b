// internal/recruitapi/applications.go
package recruitapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/models"
)

const applicationsPath = "/applications"

// ListApplications returns one page of applications. A malformed body yields an empty page.
func (c *Client) ListApplications(ctx context.Context, q Query) (*models.ApplicationPage, error) {
	var page models.ApplicationPage
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     applicationsPath,
		endpoint: applicationsPath,
		query:    q.Values(),
	}, &page)
	if err != nil {
		if isMalformed(err) {
			c.degrade(applicationsPath, err)
			return &models.ApplicationPage{Items: []models.Application{}}, nil
		}
		return nil, err
	}
	if page.Items == nil {
		page.Items = []models.Application{}
	}
	return &page, nil
}

// UpdateStatus moves one application to status.
func (c *Client) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) error {
	if !status.Valid() {
		return errors.NewInvalidStatusError(string(status))
	}
	return c.patchApplication(ctx, applicationID, map[string]interface{}{"status": status})
}

// ScreeningUpdate writes an evaluation back onto an application.
type ScreeningUpdate struct {
	ScreeningScore  *float64 `json:"screeningScore"`
	EvaluationNotes string   `json:"evaluationNotes,omitempty"`
}

func (c *Client) UpdateScreening(ctx context.Context, applicationID string, update ScreeningUpdate) error {
	return c.patchApplication(ctx, applicationID, update)
}

func (c *Client) patchApplication(ctx context.Context, applicationID string, body interface{}) error {
	if strings.TrimSpace(applicationID) == "" {
		return errors.NewValidationError("application id is required", "")
	}
	return c.do(ctx, request{
		method:   http.MethodPatch,
		path:     applicationsPath + "/" + url.PathEscape(applicationID),
		endpoint: applicationsPath + "/{id}",
		body:     body,
	}, nil)
}
