// internal/screening/statistics.go
package screening

import (
	"sort"
	"strings"

	"recruit-screening/internal/models"
)

const dayLayout = "2006-01-02"

// ComputeStatistics summarizes a job's applications. topN <= 0 returns no skills.
func ComputeStatistics(apps []models.Application, topN int) models.JobStatistics {
	stats := models.JobStatistics{
		Total:     len(apps),
		ByStatus:  make(map[models.ApplicationStatus]int, len(models.AllStatuses)),
		Daily:     []models.DailyCount{},
		TopSkills: []models.SkillCount{},
	}
	for _, s := range models.AllStatuses {
		stats.ByStatus[s] = 0
	}

	daily := make(map[string]int)
	skills := make(map[string]int)
	// display form is the first spelling seen
	display := make(map[string]string)
	var scoreSum float64

	for i := range apps {
		app := &apps[i]
		if app.Status.Valid() {
			stats.ByStatus[app.Status]++
		}

		if app.AppliedAt != nil && !app.AppliedAt.IsZero() {
			daily[app.AppliedAt.UTC().Format(dayLayout)]++
		}

		if app.ScreeningScore != nil {
			scoreSum += *app.ScreeningScore
			stats.ScoredCount++
		}

		seen := make(map[string]struct{}, len(app.Candidate.Skills))
		for _, skill := range app.Candidate.Skills {
			trimmed := strings.TrimSpace(skill)
			key := strings.ToLower(trimmed)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			skills[key]++
			if _, ok := display[key]; !ok {
				display[key] = trimmed
			}
		}
	}

	for day, count := range daily {
		stats.Daily = append(stats.Daily, models.DailyCount{Date: day, Count: count})
	}
	sort.Slice(stats.Daily, func(i, j int) bool {
		return stats.Daily[i].Date < stats.Daily[j].Date
	})

	if topN > 0 {
		keys := make([]string, 0, len(skills))
		for k := range skills {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if skills[keys[i]] != skills[keys[j]] {
				return skills[keys[i]] > skills[keys[j]]
			}
			return keys[i] < keys[j]
		})
		if len(keys) > topN {
			keys = keys[:topN]
		}
		for _, k := range keys {
			stats.TopSkills = append(stats.TopSkills, models.SkillCount{Skill: display[k], Count: skills[k]})
		}
	}

	if stats.ScoredCount > 0 {
		avg := RoundOneDecimal(scoreSum / float64(stats.ScoredCount))
		stats.AverageScore = &avg
	}

	return stats
}
