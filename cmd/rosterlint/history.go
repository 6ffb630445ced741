package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/history"
)

var (
	historyLimit int
	historyPurge time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded validation runs",
	Long: `List recent validation runs, or show one run in detail.

A run id may be abbreviated to any unique prefix.

Examples:
  rosterlint history              # 20 most recent runs
  rosterlint history 3f2a         # findings and phase balance of one run
  rosterlint history --purge 720h # delete runs older than 30 days`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
	historyCmd.Flags().DurationVar(&historyPurge, "purge", 0, "Delete runs older than this duration")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	if historyPurge > 0 {
		n, err := db.PurgeOldRuns(ctx, historyPurge)
		if err != nil {
			return fmt.Errorf("purge runs: %w", err)
		}
		printStatus("✓", fmt.Sprintf("Deleted %d run(s) older than %s", n, historyPurge), color.FgGreen)
		if len(args) == 0 {
			return nil
		}
	}

	if len(args) == 1 {
		run, err := db.GetRun(ctx, args[0])
		if errors.Is(err, history.ErrAmbiguousID) {
			return fmt.Errorf("run id %q matches more than one run; use more characters", args[0])
		}
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("run %q not found", args[0])
		}
		errs, err := db.RunErrors(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("get run errors: %w", err)
		}
		displayRun(run)
		if len(errs) > 0 {
			fmt.Println("\nFindings:")
			for _, e := range errs {
				fmt.Printf("  %-10s %s\n", "["+string(e.Kind)+"]", e)
			}
		}
		return nil
	}

	runs, err := db.ListRuns(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded. Run 'rosterlint validate <files>' to record one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tCLIENTS\tWORKERS\tTASKS\tRESULT")
	for _, r := range runs {
		result := color.GreenString("valid")
		if !r.Valid() {
			result = color.RedString(r.Summary)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Duration.Round(time.Microsecond),
			r.Clients, r.Workers, r.Tasks,
			result)
	}
	return w.Flush()
}

// displayRun prints a run's header and phase balance.
func displayRun(r *history.Run) {
	fmt.Printf("Run:      %s\n", color.CyanString(r.ID))
	fmt.Printf("Started:  %s\n", r.StartedAt.Local().Format(time.RFC1123))
	fmt.Printf("Duration: %s\n", r.Duration)
	fmt.Printf("Sources:  %s\n", strings.Join(r.Sources, ", "))
	fmt.Printf("Rows:     %d clients, %d workers, %d tasks\n", r.Clients, r.Workers, r.Tasks)
	if r.Valid() {
		printStatus("✓", r.Summary, color.FgGreen)
	} else {
		printStatus("✗", r.Summary, color.FgRed)
	}

	if len(r.Phases) == 0 {
		return
	}
	fmt.Println("\nPhase balance:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  PHASE\tDEMAND\tSUPPLY\t")
	for _, p := range r.Phases {
		mark := ""
		if p.Saturated() {
			mark = color.RedString("over")
		}
		fmt.Fprintf(w, "  %s\t%g\t%d\t%s\n", p.Phase, p.Demand, p.Supply, mark)
	}
	w.Flush()
}
