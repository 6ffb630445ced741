package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/config"
	"github.com/ShayCichocki/rosterlint/internal/logging"
)

// errValidationFailed is returned after the report has been printed, so
// Execute exits 1 without printing it again.
var errValidationFailed = errors.New("validation failed")

var (
	noColor  bool
	debugLog string
)

var rootCmd = &cobra.Command{
	Use:   "rosterlint",
	Short: "Validate client, worker and task tables before allocation planning",
	Long: `rosterlint certifies that three related tables (clients, workers and
tasks) are internally consistent before they are handed to resource-allocation
planning.

It checks every row (identifiers, numeric ranges, JSON fields), uniqueness
within each table, per-worker overload, phase saturation across workers and
tasks, and skill coverage. It reports; it never changes your data.

Input files are CSV or JSON and are matched to tables by name
(clients*.csv, workers*.json, tasks*.csv) unless given with
--clients/--workers/--tasks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if noColor || !cfg.Output.Color {
			color.NoColor = true
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&debugLog, "debug-log", "", "Write a debug log to this file")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var loadedConfig *config.Config

// loadConfig loads the layered configuration once per process.
func loadConfig() (*config.Config, error) {
	if loadedConfig != nil {
		return loadedConfig, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	loadedConfig = cfg
	return cfg, nil
}

// openLogger returns the debug logger; --debug-log overrides log.path.
func openLogger(cfg *config.Config) *logging.Logger {
	path := cfg.Log.Path
	if debugLog != "" {
		path = debugLog
	}
	logger, err := logging.New(path)
	if err != nil {
		warnf("debug log disabled: %v", err)
		return logging.Nop()
	}
	return logger
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	fprintStatus(os.Stdout, symbol, message, colorAttr)
}

// fprintStatus is printStatus writing to w.
func fprintStatus(w io.Writer, symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(w, "%s %s\n", c.Sprint(symbol), message)
}

// warnf prints a warning to stderr so machine-readable stdout stays clean.
func warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("⚠"), fmt.Sprintf(format, args...))
}
