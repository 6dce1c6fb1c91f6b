// internal/datasource/fixture.go
package datasource

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/models"
	"recruit-screening/internal/recruitapi"

	"gopkg.in/yaml.v3"
)

// FixtureData is the on-disk layout of a fixture file.
type FixtureData struct {
	Questions    []models.ScreeningQuestion `yaml:"questions"`
	Applications []models.Application       `yaml:"applications"`
}

// Fixture serves canned data for demos, local runs and end-to-end tests.
// Status updates are applied in memory only.
type Fixture struct {
	mu   sync.RWMutex
	data FixtureData
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewFixtureLoadFailedError(path, err)
	}
	return ParseFixture(path, raw)
}

// ParseFixture decodes fixture YAML; path is only used in errors.
func ParseFixture(path string, raw []byte) (*Fixture, error) {
	var data FixtureData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.NewFixtureLoadFailedError(path, err)
	}
	return &Fixture{data: data}, nil
}

func (f *Fixture) Questions(_ context.Context, jobPostID string) ([]models.ScreeningQuestion, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := []models.ScreeningQuestion{}
	for _, q := range f.data.Questions {
		if q.JobPostID == jobPostID {
			out = append(out, q)
		}
	}
	return out, nil
}

// Applications honours take/skip and the jobId and status where clauses.
func (f *Fixture) Applications(_ context.Context, q recruitapi.Query) (*models.ApplicationPage, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	matched := []models.Application{}
	for _, app := range f.data.Applications {
		if fixtureMatches(app, q.Filters) {
			matched = append(matched, app)
		}
	}

	page := &models.ApplicationPage{Total: len(matched)}

	start := q.Skip
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Take > 0 && start+q.Take < end {
		end = start + q.Take
	}
	page.Items = append([]models.Application{}, matched[start:end]...)
	return page, nil
}

// UpdateStatus mirrors PATCH /applications/{id}; unknown ids fail with 404.
func (f *Fixture) UpdateStatus(_ context.Context, applicationID string, status models.ApplicationStatus) error {
	if !status.Valid() {
		return errors.NewInvalidStatusError(string(status))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.data.Applications {
		if f.data.Applications[i].ID == applicationID {
			f.data.Applications[i].Status = status
			return nil
		}
	}
	return errors.NewAPIRequestFailedError(http.MethodPatch, "/applications/"+applicationID, http.StatusNotFound, "application not found")
}

func fixtureMatches(app models.Application, filters []recruitapi.Where) bool {
	for _, w := range filters {
		var field string
		switch w.Field {
		case "jobId":
			field = app.JobID
		case "status":
			field = string(app.Status)
		case "applicantId":
			field = app.ApplicantID
		default:
			continue
		}

		switch w.Op {
		case recruitapi.OpEq:
			if field != w.Value {
				return false
			}
		case recruitapi.OpNe:
			if field == w.Value {
				return false
			}
		case recruitapi.OpIn:
			found := false
			for _, v := range strings.Split(w.Value, ",") {
				if strings.TrimSpace(v) == field {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
