package ingest

import (
	"strings"

	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// extraAliases maps loose header spellings to canonical field names, per table.
// Keys are in folded form (see foldHeader).
var extraAliases = map[models.Table]map[string]string{
	models.TableClients: {
		"id":             models.FieldClientID,
		"client":         models.FieldClientID,
		"name":           models.FieldClientName,
		"priority":       models.FieldPriorityLevel,
		"requestedtasks": models.FieldRequestedTaskIDs,
		"tasks":          models.FieldRequestedTaskIDs,
		"group":          models.FieldGroupTag,
		"attributes":     models.FieldAttributesJSON,
	},
	models.TableWorkers: {
		"id":            models.FieldWorkerID,
		"worker":        models.FieldWorkerID,
		"name":          models.FieldWorkerName,
		"skill":         models.FieldSkills,
		"slots":         models.FieldAvailableSlots,
		"availability":  models.FieldAvailableSlots,
		"maxload":       models.FieldMaxLoadPerPhase,
		"group":         models.FieldWorkerGroup,
		"qualification": models.FieldQualificationLevel,
	},
	models.TableTasks: {
		"id":            models.FieldTaskID,
		"task":          models.FieldTaskID,
		"name":          models.FieldTaskName,
		"skills":        models.FieldRequiredSkills,
		"phases":        models.FieldPreferredPhases,
		"maxconcurrent": models.FieldMaxConcurrent,
	},
}

// NormalizeHeader maps a header cell to the canonical field name of table t.
// Matching ignores case, spaces, underscores and hyphens. Unknown headers are
// returned trimmed but otherwise unchanged.
func NormalizeHeader(t models.Table, header string) string {
	header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	key := foldHeader(header)

	for _, field := range t.Fields() {
		if foldHeader(field) == key {
			return field
		}
	}
	if field, ok := extraAliases[t][key]; ok {
		return field
	}
	return header
}

func foldHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '_', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
