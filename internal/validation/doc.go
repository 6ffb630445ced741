// Package validation certifies that an uploaded client, worker and task data
// set is internally consistent.
//
// # Overview
//
// The engine runs three kinds of checks:
//
//  1. Per-table checks (ValidateClients, ValidateWorkers, ValidateTasks):
//     identity, uniqueness, numeric domain, structured-text shape and the
//     worker overload check.
//  2. Phase saturation (CheckPhaseSaturation): per-phase task demand against
//     worker supply.
//  3. Skill coverage (CheckSkillCoverage): every required skill must be held
//     by some worker.
//
// Every check is a pure function of its input rows. Findings are values of
// type models.ValidationError; bad input never produces a Go error or a panic.
//
// # Usage
//
//	report := validation.Run(validation.Dataset{
//		Clients: clients,
//		Workers: workers,
//		Tasks:   tasks,
//	})
//	if !report.Valid() {
//		for _, e := range report.All() {
//			fmt.Println(e)
//		}
//	}
//
// Callers that edit rows re-run the affected checks in full and replace the
// previous findings; nothing here is incremental.
package validation
