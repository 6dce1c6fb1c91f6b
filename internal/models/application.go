// internal/models/application.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ApplicationStatus is free-form: any status may move to any other through an explicit action.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusHired       ApplicationStatus = "hired"
)

// AllStatuses lists every status in display order.
var AllStatuses = []ApplicationStatus{
	StatusPending,
	StatusReviewed,
	StatusShortlisted,
	StatusRejected,
	StatusHired,
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus normalizes case and whitespace.
func ParseStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown application status %q", raw)
	}
	return s, nil
}

// Timestamp accepts RFC3339 timestamps and bare YYYY-MM-DD dates.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseTimestamp parses any of the accepted layouts.
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Timestamp{Time: t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// At is a convenience for tests and fixtures.
func At(t time.Time) *Timestamp {
	return &Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		return nil
	}
	parsed, err := ParseTimestamp(node.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnixOrZero returns seconds since epoch, 0 for a nil timestamp.
func (t *Timestamp) UnixOrZero() int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.Unix()
}

// CandidateProfile carries the applicant attributes the dashboard filters on.
// Every field is optional.
type CandidateProfile struct {
	Location          string   `json:"location,omitempty" yaml:"location,omitempty"`
	ExperienceLevel   string   `json:"experienceLevel,omitempty" yaml:"experienceLevel,omitempty"`
	EducationLevel    string   `json:"educationLevel,omitempty" yaml:"educationLevel,omitempty"`
	Industry          string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	Skills            []string `json:"skills,omitempty" yaml:"skills,omitempty"`
	SalaryExpectation *int     `json:"salaryExpectation,omitempty" yaml:"salaryExpectation,omitempty"`
	YearsOfExperience *int     `json:"yearsOfExperience,omitempty" yaml:"yearsOfExperience,omitempty"`
}

// JobPost is the subset of a job posting included with applications (i=JobPost).
type JobPost struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Industry string `json:"industry,omitempty" yaml:"industry,omitempty"`
}

// Application is a candidate's submission for a job. Applications are never hard-deleted.
type Application struct {
	ID              string            `json:"id" yaml:"id"`
	ApplicantID     string            `json:"applicantId" yaml:"applicantId"`
	JobID           string            `json:"jobId" yaml:"jobId"`
	Status          ApplicationStatus `json:"status" yaml:"status"`
	CoverLetter     string            `json:"coverLetter,omitempty" yaml:"coverLetter,omitempty"`
	ResumeURL       string            `json:"resumeUrl,omitempty" yaml:"resumeUrl,omitempty"`
	ScreeningScore  *float64          `json:"screeningScore,omitempty" yaml:"screeningScore,omitempty"`
	EvaluationNotes string            `json:"evaluationNotes,omitempty" yaml:"evaluationNotes,omitempty"`
	AppliedAt       *Timestamp        `json:"appliedAt,omitempty" yaml:"appliedAt,omitempty"`
	UpdatedAt       *Timestamp        `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Answers         []Answer          `json:"answers,omitempty" yaml:"answers,omitempty"`
	Candidate       CandidateProfile  `json:"candidate" yaml:"candidate"`
	JobPost         *JobPost          `json:"jobPost,omitempty" yaml:"jobPost,omitempty"`
}

// ApplicationPage is the list endpoint envelope.
type ApplicationPage struct {
	Total int           `json:"total"`
	Items []Application `json:"items"`
}
