// internal/models/statistics.go
package models

// DailyCount is the number of applications received on one UTC day.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// SkillCount is how many applications list a skill.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// JobStatistics is derived on demand from a job's applications and never persisted by the engine.
type JobStatistics struct {
	JobID          string                    `json:"jobId,omitempty"`
	Total          int                       `json:"total"`
	ByStatus       map[ApplicationStatus]int `json:"byStatus"`
	Daily          []DailyCount              `json:"daily"`
	TopSkills      []SkillCount              `json:"topSkills"`
	AverageScore   *float64                  `json:"averageScore"`
	ScoredCount    int                       `json:"scoredCount"`
	KnockoutFailed int                       `json:"knockoutFailed,omitempty"`
}
