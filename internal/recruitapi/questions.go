// internal/recruitapi/questions.go
package recruitapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/validation"
	"recruit-screening/internal/models"
)

const questionsPath = "/pre-screening-questions"

// questionList accepts both a bare array and an {items: [...]} envelope.
type questionList []models.ScreeningQuestion

func (l *questionList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var envelope struct {
			Items []models.ScreeningQuestion `json:"items"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return err
		}
		*l = envelope.Items
		return nil
	}
	var items []models.ScreeningQuestion
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// ListQuestions returns a job posting's questions. A malformed body yields an empty list.
func (c *Client) ListQuestions(ctx context.Context, jobPostID string) ([]models.ScreeningQuestion, error) {
	if strings.TrimSpace(jobPostID) == "" {
		return nil, errors.NewValidationError("jobPostId is required", "")
	}

	var list questionList
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     questionsPath,
		endpoint: questionsPath,
		query:    url.Values{"jobPostId": []string{jobPostID}},
	}, &list)
	if err != nil {
		if isMalformed(err) {
			c.degrade(questionsPath, err)
			return []models.ScreeningQuestion{}, nil
		}
		return nil, err
	}
	if list == nil {
		return []models.ScreeningQuestion{}, nil
	}
	return list, nil
}

// CreateQuestion validates q before sending it.
func (c *Client) CreateQuestion(ctx context.Context, q models.ScreeningQuestion) (*models.ScreeningQuestion, error) {
	if err := validation.ValidateQuestion(q); err != nil {
		return nil, err
	}
	return c.writeQuestion(ctx, http.MethodPost, questionsPath, questionsPath, q)
}

// UpdateQuestion sends a partial update (PATCH).
func (c *Client) UpdateQuestion(ctx context.Context, q models.ScreeningQuestion) (*models.ScreeningQuestion, error) {
	return c.modifyQuestion(ctx, http.MethodPatch, q)
}

// ReplaceQuestion sends a full replacement (PUT).
func (c *Client) ReplaceQuestion(ctx context.Context, q models.ScreeningQuestion) (*models.ScreeningQuestion, error) {
	return c.modifyQuestion(ctx, http.MethodPut, q)
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewValidationError("question id is required", "")
	}
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     questionsPath + "/" + url.PathEscape(id),
		endpoint: questionsPath + "/{id}",
	}, nil)
}

func (c *Client) modifyQuestion(ctx context.Context, method string, q models.ScreeningQuestion) (*models.ScreeningQuestion, error) {
	if strings.TrimSpace(q.ID) == "" {
		return nil, errors.NewQuestionValidationError("question id is required")
	}
	if err := validation.ValidateQuestion(q); err != nil {
		return nil, err
	}
	return c.writeQuestion(ctx, method, questionsPath+"/"+url.PathEscape(q.ID), questionsPath+"/{id}", q)
}

// writeQuestion falls back to the submitted question when the API echoes nothing usable.
func (c *Client) writeQuestion(ctx context.Context, method, path, endpoint string, q models.ScreeningQuestion) (*models.ScreeningQuestion, error) {
	var saved models.ScreeningQuestion
	err := c.do(ctx, request{method: method, path: path, endpoint: endpoint, body: q}, &saved)
	if err != nil {
		if isMalformed(err) {
			c.logger.Debug("question write returned no body", map[string]interface{}{"path": path})
			return &q, nil
		}
		return nil, err
	}
	if saved.ID == "" && saved.Question == "" {
		return &q, nil
	}
	return &saved, nil
}
