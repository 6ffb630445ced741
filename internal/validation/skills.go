package validation

import (
	"fmt"

	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// WorkerSkills returns the union of all worker skill tokens.
func WorkerSkills(workers []models.Row) map[string]struct{} {
	skills := make(map[string]struct{})
	for _, row := range workers {
		for _, s := range models.SplitList(row.Text(models.FieldSkills)) {
			skills[s] = struct{}{}
		}
	}
	return skills
}

// CheckSkillCoverage reports, per task, each required skill token that no
// worker has. Findings are keyed by the task's own TaskID; a token repeated
// within one task, or missing from two tasks, yields one finding each time.
func CheckSkillCoverage(tasks, workers []models.Row) []models.ValidationError {
	available := WorkerSkills(workers)

	var errs []models.ValidationError
	for _, row := range tasks {
		taskID := row.Text(models.FieldTaskID)
		for _, skill := range models.SplitList(row.Text(models.FieldRequiredSkills)) {
			if _, ok := available[skill]; ok {
				continue
			}
			errs = append(errs, models.ValidationError{
				Table:   models.TableTasks,
				Row:     models.KeyID(taskID),
				Field:   models.FieldRequiredSkills,
				Message: fmt.Sprintf("required skill %q is not covered by any worker", skill),
				Kind:    models.KindCoverage,
			})
		}
	}
	return errs
}
