package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/assist"
	"github.com/ShayCichocki/rosterlint/internal/config"
	"github.com/ShayCichocki/rosterlint/internal/export"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

var (
	askInputs inputFlags
	askFilter string
	askModel  string
)

var askCmd = &cobra.Command{
	Use:   `ask "<question>" [files...]`,
	Short: "Select rows with a plain-language question",
	Long: `Translate a question into a row filter with Claude, apply it to one
table and print the matching rows as CSV.

The filter is printed to stderr so it can be reused with --filter, which
skips the model entirely. With --filter every argument is an input file.

Examples:
  rosterlint ask "tasks that need ml and run longer than 2 phases" data/*.csv
  rosterlint ask --filter '{"table":"workers","conditions":[{"field":"Skills","op":"includes","value":"sql"}]}' workers.csv`,
	RunE: runAsk,
}

func init() {
	askInputs.register(askCmd)
	askCmd.Flags().StringVar(&askFilter, "filter", "", "Filter as JSON instead of a question")
	askCmd.Flags().StringVar(&askModel, "model", "", "Claude model (default from anthropic.model)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	var question string
	files := args
	if askFilter == "" {
		if len(args) == 0 {
			return fmt.Errorf("a question or --filter is required")
		}
		question, files = args[0], args[1:]
	}

	s, err := openSession(&askInputs, files)
	if err != nil {
		return err
	}
	defer s.Close()

	var filter *assist.Filter
	if askFilter != "" {
		filter, err = assist.ParseFilter(askFilter)
	} else {
		filter, err = translate(cmd, s.cfg, question)
	}
	if err != nil {
		return err
	}
	s.logger.Log("[ask] filter: %s", filter)

	rows := s.wb.Rows(filter.Table)
	matched := filter.Apply(rows)

	fmt.Fprintf(os.Stderr, "%s %s\n", color.CyanString("filter:"), filter)
	if b, err := filterJSON(filter); err == nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.CyanString("--filter"), b)
	}

	if err := export.WriteCSV(cmd.OutOrStdout(), matched); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	flagged := 0
	for _, r := range matched {
		if hasFindings(s.wb.Errors(filter.Table), r, filter.Table) {
			flagged++
		}
	}
	summary := fmt.Sprintf("%d of %d %s match", len(matched), len(rows), filter.Table)
	if flagged > 0 {
		summary += fmt.Sprintf(" (%d with findings)", flagged)
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", color.GreenString("✓"), summary)
	return nil
}

func translate(cmd *cobra.Command, cfg *config.Config, question string) (*assist.Filter, error) {
	clientCfg := assist.ClientConfig{
		Model:         cfg.Anthropic.Model,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	}
	if askModel != "" {
		clientCfg.Model = askModel
	}
	if config.NeedsAPIKey(cfg) {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w (set ANTHROPIC_API_KEY, run 'rosterlint config anthropic.api_key <key>', or use --filter)", err)
		}
		clientCfg.APIKey = key
	}

	client, err := assist.NewClaudeClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	return assist.NewTranslator(client).Translate(cmd.Context(), question)
}

// hasFindings reports whether any per-row finding points at r.
func hasFindings(errs []models.ValidationError, r models.Row, t models.Table) bool {
	key := models.KeyFor(r.Text(t.IDField()), r.Index)
	for _, e := range errs {
		if e.Row == key {
			return true
		}
	}
	return false
}

// filterJSON renders f in the form --filter accepts.
func filterJSON(f *assist.Filter) (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
