package validation

import (
	"fmt"
	"strconv"

	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// PhaseBalance is the aggregate demand and supply of one phase.
type PhaseBalance struct {
	// Phase is the phase label as written in the structured-text cells.
	Phase string `json:"phase" yaml:"phase"`
	// Demand is the summed Duration of tasks preferring the phase.
	Demand float64 `json:"demand" yaml:"demand"`
	// Supply is the number of workers available in the phase.
	Supply int `json:"supply" yaml:"supply"`
}

// Saturated reports whether demand exceeds supply.
func (b PhaseBalance) Saturated() bool {
	return b.Demand > float64(b.Supply)
}

// PhaseLoad aggregates per-phase demand and supply. Phases appear in the
// order they are first seen, demand side first.
//
// Tasks whose PreferredPhases is not an array or whose Duration did not parse
// contribute nothing, and neither do workers whose AvailableSlots is not an
// array. Those rows are already flagged by the per-table validators.
func PhaseLoad(tasks, workers []models.Row) []PhaseBalance {
	var order []string
	balances := make(map[string]*PhaseBalance)
	get := func(phase string) *PhaseBalance {
		b, ok := balances[phase]
		if !ok {
			b = &PhaseBalance{Phase: phase}
			balances[phase] = b
			order = append(order, phase)
		}
		return b
	}

	for _, row := range tasks {
		task := models.ParseTask(row)
		if !task.PreferredPhases.IsArray() || !task.Duration.OK {
			continue
		}
		for _, phase := range task.PreferredPhases.Elements {
			get(phase).Demand += task.Duration.Value
		}
	}

	for _, row := range workers {
		worker := models.ParseWorker(row)
		if !worker.AvailableSlots.IsArray() {
			continue
		}
		for _, phase := range worker.AvailableSlots.Elements {
			get(phase).Supply++
		}
	}

	out := make([]PhaseBalance, 0, len(order))
	for _, phase := range order {
		out = append(out, *balances[phase])
	}
	return out
}

// CheckPhaseSaturation reports every phase whose task demand exceeds worker
// supply. It only certifies aggregate capacity; it says nothing about whether
// a concrete assignment exists.
func CheckPhaseSaturation(tasks, workers []models.Row) []models.ValidationError {
	var errs []models.ValidationError
	for _, b := range PhaseLoad(tasks, workers) {
		if !b.Saturated() {
			continue
		}
		errs = append(errs, models.ValidationError{
			Table: models.TableTasks,
			Row:   models.AggregateRow,
			Field: models.FieldPreferredPhases,
			Message: fmt.Sprintf("phase %s is oversaturated: task demand %s exceeds worker supply %d",
				b.Phase, strconv.FormatFloat(b.Demand, 'f', -1, 64), b.Supply),
			Kind: models.KindSaturation,
		})
	}
	return errs
}
