// Package tui provides the terminal report viewer for rosterlint.
//
// The viewer shows the current findings of a workbook in tabs (one per
// table, one for cross-table checks and one for the phase balance), filters
// them with a search field and re-reads the input files on request.
package tui
