package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/export"
)

var (
	exportInputs inputFlags
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export [files...] --out DIR",
	Short: "Write the validated tables as CSV",
	Long: `Validate the input tables and, only if no finding is reported, write
clients.csv, workers.csv and tasks.csv plus a report file into DIR.

Export is refused while any finding remains.

Examples:
  rosterlint export clients.json workers.json tasks.json --out clean/`,
	RunE: runExport,
}

func init() {
	exportInputs.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Directory to write into (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Report file format: text, json or yaml (default from output.format)")
	exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(&exportInputs, args)
	if err != nil {
		return err
	}
	defer s.Close()

	format, err := reportFormat(s.cfg, exportFormat)
	if err != nil {
		return err
	}

	report := s.wb.Report()
	if err := export.Gate(report); err != nil {
		if werr := export.WriteReport(os.Stderr, report, export.FormatText); werr != nil {
			return errors.Join(err, werr)
		}
		printStatus("✗", "Export refused: fix the findings above first", color.FgRed)
		return fmt.Errorf("%w: %v", errValidationFailed, err)
	}

	paths, err := export.WriteDataset(exportOut, s.wb.Dataset())
	for _, p := range paths {
		printStatus("✓", "Wrote "+p, color.FgGreen)
	}
	if err != nil {
		return err
	}

	ext := string(format)
	if format == export.FormatText {
		ext = "txt"
	}
	reportPath := filepath.Join(exportOut, "report."+ext)
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := export.WriteReport(f, report, format); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	printStatus("✓", "Wrote "+reportPath, color.FgGreen)
	s.logger.Log("[export] wrote %d tables to %s", len(paths), exportOut)
	return nil
}
