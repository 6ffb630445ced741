// Package validation checks uploaded client, worker and task tables.
package validation

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// numberRule describes a table's designated numeric field and its domain.
type numberRule struct {
	field    string
	inDomain func(float64) bool
	// domain is the human description used in messages, e.g. "between 1 and 5".
	domain string
}

// structuredRule describes a table's optional structured-text field.
type structuredRule struct {
	field        string
	requireArray bool
}

// rowCheck runs after the uniform checks, with their parse results.
type rowCheck func(key models.RowKey, num models.Number, st models.Structured) []models.ValidationError

// tableRules is the per-table parameterisation of the uniform scan.
type tableRules struct {
	table      models.Table
	idField    string
	number     numberRule
	structured structuredRule
	extra      rowCheck
}

var clientRules = tableRules{
	table:   models.TableClients,
	idField: models.FieldClientID,
	number: numberRule{
		field:    models.FieldPriorityLevel,
		inDomain: func(v float64) bool { return v >= 1 && v <= 5 },
		domain:   "between 1 and 5",
	},
	structured: structuredRule{field: models.FieldAttributesJSON},
}

var workerRules = tableRules{
	table:   models.TableWorkers,
	idField: models.FieldWorkerID,
	number: numberRule{
		field:    models.FieldMaxLoadPerPhase,
		inDomain: func(v float64) bool { return v > 0 },
		domain:   "greater than 0",
	},
	structured: structuredRule{field: models.FieldAvailableSlots, requireArray: true},
	extra:      checkOverload,
}

var taskRules = tableRules{
	table:   models.TableTasks,
	idField: models.FieldTaskID,
	number: numberRule{
		field:    models.FieldDuration,
		inDomain: func(v float64) bool { return v > 0 },
		domain:   "greater than 0",
	},
	structured: structuredRule{field: models.FieldPreferredPhases, requireArray: true},
}

// ValidateClients checks the clients table in isolation.
func ValidateClients(rows []models.Row) []models.ValidationError {
	return validateTable(clientRules, rows)
}

// ValidateWorkers checks the workers table in isolation, including the
// per-worker overload check.
func ValidateWorkers(rows []models.Row) []models.ValidationError {
	return validateTable(workerRules, rows)
}

// ValidateTasks checks the tasks table in isolation.
func ValidateTasks(rows []models.Row) []models.ValidationError {
	return validateTable(taskRules, rows)
}

// ValidateTable dispatches to the validator for t.
func ValidateTable(t models.Table, rows []models.Row) []models.ValidationError {
	switch t {
	case models.TableClients:
		return ValidateClients(rows)
	case models.TableWorkers:
		return ValidateWorkers(rows)
	case models.TableTasks:
		return ValidateTasks(rows)
	default:
		return nil
	}
}

// validateTable is the uniform scan shared by all three tables. Every check
// runs for every row; a row without an identifier is keyed by its index in
// all of its findings.
func validateTable(rules tableRules, rows []models.Row) []models.ValidationError {
	var errs []models.ValidationError
	seen := make(map[string]struct{}, len(rows))

	emit := func(key models.RowKey, field string, kind models.Kind, msg string) {
		errs = append(errs, models.ValidationError{
			Table:   rules.table,
			Row:     key,
			Field:   field,
			Message: msg,
			Kind:    kind,
		})
	}

	for _, row := range rows {
		id := row.Text(rules.idField)
		key := models.KeyFor(id, row.Index)

		// Identity
		if strings.TrimSpace(id) == "" {
			emit(key, rules.idField, models.KindRequired, fmt.Sprintf("%s is required", rules.idField))
		} else if _, dup := seen[id]; dup {
			emit(key, rules.idField, models.KindDuplicate, fmt.Sprintf("duplicate %s %q", rules.idField, id))
		} else {
			seen[id] = struct{}{}
		}

		// Range / type
		num := models.ParseNumber(row.Values[rules.number.field])
		if !num.OK {
			emit(key, rules.number.field, models.KindDomain,
				fmt.Sprintf("%s must be a number %s: %s", rules.number.field, rules.number.domain, num.Reason))
		} else if !rules.number.inDomain(num.Value) {
			emit(key, rules.number.field, models.KindDomain,
				fmt.Sprintf("%s must be a number %s, got %s", rules.number.field, rules.number.domain, num))
		}

		// Structure
		st := models.ParseStructured(row.Values[rules.structured.field])
		switch {
		case st.Shape == models.ShapeInvalid:
			emit(key, rules.structured.field, models.KindFormat,
				fmt.Sprintf("%s %s", rules.structured.field, st.Reason))
		case st.Shape == models.ShapeValue && rules.structured.requireArray:
			emit(key, rules.structured.field, models.KindFormat,
				fmt.Sprintf("%s must be a JSON array: value %s", rules.structured.field, st.Reason))
		}

		if rules.extra != nil {
			errs = append(errs, rules.extra(key, num, st)...)
		}
	}

	return errs
}

// checkOverload flags a worker whose MaxLoadPerPhase exceeds the number of
// phases listed in its own AvailableSlots. It needs both values parsed.
func checkOverload(key models.RowKey, load models.Number, slots models.Structured) []models.ValidationError {
	if !load.OK || !slots.IsArray() {
		return nil
	}
	if load.Value <= float64(len(slots.Elements)) {
		return nil
	}
	return []models.ValidationError{{
		Table: models.TableWorkers,
		Row:   key,
		Field: models.FieldMaxLoadPerPhase,
		Message: fmt.Sprintf("%s (%s) exceeds the number of available slots (%d)",
			models.FieldMaxLoadPerPhase, load, len(slots.Elements)),
		Kind: models.KindOverload,
	}}
}
