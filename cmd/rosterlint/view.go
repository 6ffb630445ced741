package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/rosterlint/internal/tui"
)

var viewInputs inputFlags

var viewCmd = &cobra.Command{
	Use:   "view [files...]",
	Short: "Browse the validation report in the terminal",
	Long: `Open an interactive report viewer.

Keys:
  tab, 1-5   switch between clients, workers, tasks, cross-checks and phases
  j, k       scroll
  /          search findings
  r          re-read the input files
  q          quit`,
	RunE: runView,
}

func init() {
	viewInputs.register(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	s, err := openSession(&viewInputs, args)
	if err != nil {
		return err
	}
	defer s.Close()

	p := tea.NewProgram(tui.NewViewer(s.wb, s.reload), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
