package models

import "strings"

// Table names one of the three uploaded record sets.
type Table string

const (
	// TableClients holds client records keyed by ClientID.
	TableClients Table = "clients"
	// TableWorkers holds worker records keyed by WorkerID.
	TableWorkers Table = "workers"
	// TableTasks holds task records keyed by TaskID.
	TableTasks Table = "tasks"
)

// Tables returns all tables in scan order.
func Tables() []Table {
	return []Table{TableClients, TableWorkers, TableTasks}
}

// Valid returns true if the table is a known value.
func (t Table) Valid() bool {
	switch t {
	case TableClients, TableWorkers, TableTasks:
		return true
	default:
		return false
	}
}

// IDField returns the natural identifier field of the table.
func (t Table) IDField() string {
	switch t {
	case TableClients:
		return FieldClientID
	case TableWorkers:
		return FieldWorkerID
	case TableTasks:
		return FieldTaskID
	default:
		return ""
	}
}

// Fields returns the canonical column order for the table.
func (t Table) Fields() []string {
	switch t {
	case TableClients:
		return []string{FieldClientID, FieldClientName, FieldPriorityLevel, FieldRequestedTaskIDs, FieldGroupTag, FieldAttributesJSON}
	case TableWorkers:
		return []string{FieldWorkerID, FieldWorkerName, FieldSkills, FieldAvailableSlots, FieldMaxLoadPerPhase, FieldWorkerGroup, FieldQualificationLevel}
	case TableTasks:
		return []string{FieldTaskID, FieldTaskName, FieldCategory, FieldDuration, FieldRequiredSkills, FieldPreferredPhases, FieldMaxConcurrent}
	default:
		return nil
	}
}

// ParseTable resolves a table name, accepting singular forms and any case.
func ParseTable(s string) (Table, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clients", "client":
		return TableClients, true
	case "workers", "worker":
		return TableWorkers, true
	case "tasks", "task":
		return TableTasks, true
	default:
		return "", false
	}
}

// Client fields.
const (
	FieldClientID         = "ClientID"
	FieldClientName       = "ClientName"
	FieldPriorityLevel    = "PriorityLevel"
	FieldRequestedTaskIDs = "RequestedTaskIDs"
	FieldGroupTag         = "GroupTag"
	FieldAttributesJSON   = "AttributesJSON"
)

// Worker fields.
const (
	FieldWorkerID           = "WorkerID"
	FieldWorkerName         = "WorkerName"
	FieldSkills             = "Skills"
	FieldAvailableSlots     = "AvailableSlots"
	FieldMaxLoadPerPhase    = "MaxLoadPerPhase"
	FieldWorkerGroup        = "WorkerGroup"
	FieldQualificationLevel = "QualificationLevel"
)

// Task fields.
const (
	FieldTaskID          = "TaskID"
	FieldTaskName        = "TaskName"
	FieldCategory        = "Category"
	FieldDuration        = "Duration"
	FieldRequiredSkills  = "RequiredSkills"
	FieldPreferredPhases = "PreferredPhases"
	FieldMaxConcurrent   = "MaxConcurrent"
)
