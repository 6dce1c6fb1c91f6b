// internal/screening/filter.go
package screening

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// SortKey selects the ordering of a filtered result.
type SortKey string

const (
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortScore  SortKey = "score"
)

// SortDirection overrides a key's default direction. Empty means default.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Criteria are combined with logical AND. Zero values disable a filter.
type Criteria struct {
	Status          string   `json:"status,omitempty"`
	MinScore        *float64 `json:"minScore,omitempty"`
	MaxScore        *float64 `json:"maxScore,omitempty"`
	SearchQuery     string   `json:"searchQuery,omitempty"`
	Location        string   `json:"location,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	EducationLevel  string   `json:"educationLevel,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	MinSalary       *int     `json:"minSalary,omitempty"`
	MaxSalary       *int     `json:"maxSalary,omitempty"`
	MinYears        *int     `json:"minYears,omitempty"`
	MaxYears        *int     `json:"maxYears,omitempty"`
	JobID           string   `json:"jobId,omitempty"`
}

// FilterAndSort returns a new slice with the matching applications in the
// requested order. The input is never modified.
func FilterAndSort(apps []models.Application, c Criteria, key SortKey, dir SortDirection) []models.Application {
	query := strings.ToLower(strings.TrimSpace(c.SearchQuery))

	out := make([]models.Application, 0, len(apps))
	for i := range apps {
		if c.matches(&apps[i], query) {
			out = append(out, apps[i])
		}
	}

	sortApplications(out, key, dir)
	return out
}

func (c Criteria) matches(app *models.Application, query string) bool {
	if status := strings.TrimSpace(c.Status); status != "" && !strings.EqualFold(status, StatusAll) {
		if !strings.EqualFold(string(app.Status), status) {
			return false
		}
	}

	if c.JobID != "" && app.JobID != c.JobID {
		return false
	}

	if c.MinScore != nil || c.MaxScore != nil {
		if app.ScreeningScore == nil {
			return false
		}
		score := *app.ScreeningScore
		if c.MinScore != nil && score < *c.MinScore {
			return false
		}
		if c.MaxScore != nil && score > *c.MaxScore {
			return false
		}
	}

	if query != "" && !coverLetterContains(app.CoverLetter, query) {
		return false
	}

	profile := app.Candidate
	if !equalFoldIfSet(c.Location, profile.Location) ||
		!equalFoldIfSet(c.ExperienceLevel, profile.ExperienceLevel) ||
		!equalFoldIfSet(c.EducationLevel, profile.EducationLevel) ||
		!equalFoldIfSet(c.Industry, profile.Industry) {
		return false
	}

	if len(c.Skills) > 0 && !hasAllSkills(profile.Skills, c.Skills) {
		return false
	}

	if !withinBounds(profile.SalaryExpectation, c.MinSalary, c.MaxSalary) {
		return false
	}
	return withinBounds(profile.YearsOfExperience, c.MinYears, c.MaxYears)
}

func equalFoldIfSet(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return strings.EqualFold(want, strings.TrimSpace(got))
}

func hasAllSkills(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, s := range want {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}

// withinBounds fails an active bound when the value is unknown.
func withinBounds(v, lo, hi *int) bool {
	if lo == nil && hi == nil {
		return true
	}
	if v == nil {
		return false
	}
	if lo != nil && *v < *lo {
		return false
	}
	return hi == nil || *v <= *hi
}

// coverLetterContains matches query against the raw letter and its
// flattened text. A plain-text letter with a stray '<' parses as a tag and
// loses everything after it, so the raw form must match on its own.
func coverLetterContains(letter, query string) bool {
	if strings.Contains(strings.ToLower(letter), query) {
		return true
	}
	return strings.Contains(strings.ToLower(PlainText(letter)), query)
}

// PlainText flattens an HTML cover letter to its text content.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

func sortApplications(apps []models.Application, key SortKey, dir SortDirection) {
	var less func(a, b *models.Application) bool
	descending := false

	switch key {
	case SortNewest:
		less = byAppliedAt
		descending = true
	case SortOldest:
		less = byAppliedAt
	case SortScore:
		less = byScore
		descending = true
	default:
		return
	}

	switch dir {
	case SortAsc:
		descending = false
	case SortDesc:
		descending = true
	}

	sort.SliceStable(apps, func(i, j int) bool {
		if descending {
			return less(&apps[j], &apps[i])
		}
		return less(&apps[i], &apps[j])
	})
}

func byAppliedAt(a, b *models.Application) bool {
	return a.AppliedAt.UnixOrZero() < b.AppliedAt.UnixOrZero()
}

func byScore(a, b *models.Application) bool {
	return scoreOrZero(a.ScreeningScore) < scoreOrZero(b.ScreeningScore)
}

func scoreOrZero(s *float64) float64 {
	if s == nil {
		return 0
	}
	return *s
}

// ParseSortKey accepts the dashboard's sortBy value. Empty defaults to newest.
func ParseSortKey(raw string) (SortKey, SortDirection, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return SortNewest, "", nil
	}

	name, direction, hasDir := strings.Cut(raw, ":")
	key := SortKey(name)
	switch key {
	case SortNewest, SortOldest, SortScore:
	default:
		return "", "", errors.NewInvalidFilterFormatError(fmt.Sprintf("sortBy: unknown sort key %q", name))
	}

	if !hasDir {
		return key, "", nil
	}
	switch d := SortDirection(direction); d {
	case SortAsc, SortDesc:
		return key, d, nil
	}
	return "", "", errors.NewInvalidFilterFormatError(fmt.Sprintf("sortBy: unknown sort direction %q", direction))
}

// ParseCriteria builds Criteria from loosely typed process variables.
// Numbers may arrive as JSON numbers or strings.
func ParseCriteria(vars map[string]interface{}) (Criteria, error) {
	var c Criteria
	var err error

	c.Status = stringVar(vars, "status")
	c.SearchQuery = stringVar(vars, "searchQuery")
	c.Location = stringVar(vars, "location")
	c.ExperienceLevel = stringVar(vars, "experienceLevel")
	c.EducationLevel = stringVar(vars, "educationLevel")
	c.Industry = stringVar(vars, "industry")
	c.JobID = stringVar(vars, "jobId")

	if c.Status != "" && !strings.EqualFold(c.Status, StatusAll) {
		if _, perr := models.ParseStatus(c.Status); perr != nil {
			return Criteria{}, errors.NewInvalidFilterFormatError("status: "+perr.Error())
		}
	}

	if c.Skills, err = stringListVar(vars, "skills"); err != nil {
		return Criteria{}, err
	}
	if c.MinScore, err = floatVar(vars, "minScore"); err != nil {
		return Criteria{}, err
	}
	if c.MaxScore, err = floatVar(vars, "maxScore"); err != nil {
		return Criteria{}, err
	}
	if c.MinSalary, err = intVar(vars, "minSalary"); err != nil {
		return Criteria{}, err
	}
	if c.MaxSalary, err = intVar(vars, "maxSalary"); err != nil {
		return Criteria{}, err
	}
	if c.MinYears, err = intVar(vars, "minYears"); err != nil {
		return Criteria{}, err
	}
	if c.MaxYears, err = intVar(vars, "maxYears"); err != nil {
		return Criteria{}, err
	}

	return c, nil
}

func stringVar(vars map[string]interface{}, name string) string {
	switch v := vars[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	}
	return ""
}

func stringListVar(vars map[string]interface{}, name string) ([]string, error) {
	switch v := vars[name].(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.NewInvalidFilterFormatError(fmt.Sprintf("%s: expected a list of strings, got %T", name, item))
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.NewInvalidFilterFormatError(fmt.Sprintf("%s: expected a list of strings, got %T", name, vars[name]))
}

func floatVar(vars map[string]interface{}, name string) (*float64, error) {
	var f float64
	switch v := vars[name].(type) {
	case nil:
		return nil, nil
	case float64:
		f = v
	case int:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, errors.NewInvalidFilterFormatError(name+": "+err.Error())
		}
		f = parsed
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errors.NewInvalidFilterFormatError(fmt.Sprintf("%s: %q is not a number", name, v))
		}
		f = parsed
	default:
		return nil, errors.NewInvalidFilterFormatError(fmt.Sprintf("%s: unsupported type %T", name, v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.NewInvalidFilterFormatError(fmt.Sprintf("%s: %v is not a finite number", name, f))
	}
	return &f, nil
}

func intVar(vars map[string]interface{}, name string) (*int, error) {
	f, err := floatVar(vars, name)
	if err != nil || f == nil {
		return nil, err
	}
	if *f != float64(int(*f)) {
		return nil, errors.NewInvalidFilterFormatError(fmt.Sprintf("%s: %v is not a whole number", name, *f))
	}
	n := int(*f)
	return &n, nil
}
