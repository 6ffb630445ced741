package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/internal/workbook"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// ReloadFunc re-reads the input files into the workbook.
type ReloadFunc func() error

type workbookEventMsg struct {
	event workbook.Event
	ok    bool
}

type reloadedMsg struct {
	err error
}

// Viewer is the report browser.
type Viewer struct {
	wb     *workbook.Workbook
	reload ReloadFunc

	tabs      TabBar
	search    *SearchField
	searching bool
	query     string

	offset int
	width  int
	height int
	status string

	titleStyle  lipgloss.Style
	okStyle     lipgloss.Style
	errStyle    lipgloss.Style
	kindStyle   lipgloss.Style
	overStyle   lipgloss.Style
	dimStyle    lipgloss.Style
	footerStyle lipgloss.Style
}

// NewViewer creates a viewer over wb. reload may be nil, disabling "r".
func NewViewer(wb *workbook.Workbook, reload ReloadFunc) *Viewer {
	return &Viewer{
		wb:     wb,
		reload: reload,
		tabs:   NewTabBar(),
		search: NewSearchField(),
		width:  100,
		height: 30,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),
		okStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),
		errStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		kindStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Width(12),
		overStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		footerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Init starts listening for workbook events.
func (v *Viewer) Init() tea.Cmd {
	return v.waitForEvent()
}

func (v *Viewer) waitForEvent() tea.Cmd {
	events := v.wb.Events()
	return func() tea.Msg {
		ev, ok := <-events
		return workbookEventMsg{event: ev, ok: ok}
	}
}

// Update handles input and workbook events.
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.search.SetWidth(msg.Width)
		return v, nil

	case workbookEventMsg:
		if !msg.ok {
			return v, nil
		}
		if msg.event.Type == workbook.EventRevalidated {
			v.status = fmt.Sprintf("revalidated: %d errors", msg.event.Errors)
			v.clampOffset()
		}
		return v, v.waitForEvent()

	case reloadedMsg:
		if msg.err != nil {
			v.status = "reload failed: " + msg.err.Error()
		} else {
			v.status = "reloaded"
		}
		return v, nil

	case SearchSubmittedMsg:
		v.searching = false
		v.search.Blur()
		v.query = strings.TrimSpace(msg.Query)
		v.offset = 0
		return v, nil

	case SearchCanceledMsg:
		v.searching = false
		v.search.Blur()
		v.query = ""
		v.offset = 0
		return v, nil

	case tea.KeyMsg:
		if v.searching {
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			return v, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return v, tea.Quit
		case "/":
			v.searching = true
			v.search.SetValue(v.query)
			return v, v.search.Focus()
		case "esc":
			v.query = ""
			v.offset = 0
			return v, nil
		case "r":
			if v.reload == nil {
				v.status = "no input files to reload"
				return v, nil
			}
			v.status = "reloading..."
			reload := v.reload
			return v, func() tea.Msg { return reloadedMsg{err: reload()} }
		case "j", "down":
			v.offset++
			v.clampOffset()
			return v, nil
		case "k", "up":
			if v.offset > 0 {
				v.offset--
			}
			return v, nil
		}

		prev := v.tabs.Active()
		v.tabs, _ = v.tabs.Update(msg)
		if v.tabs.Active() != prev {
			v.offset = 0
		}
	}
	return v, nil
}

// Lines returns the body lines of the active tab after search filtering.
func (v *Viewer) Lines() []string {
	report := v.wb.Report()

	if v.tabs.Active() == TabIndexPhases {
		return v.phaseLines(report.Phases)
	}

	var errs []models.ValidationError
	switch v.tabs.Active() {
	case TabIndexClients:
		errs = report.Clients
	case TabIndexWorkers:
		errs = report.Workers
	case TabIndexTasks:
		errs = report.Tasks
	case TabIndexCross:
		errs = append(append(errs, report.Saturation...), report.Coverage...)
	}

	needle := strings.ToLower(v.query)
	var lines []string
	for _, e := range errs {
		text := e.String()
		if needle != "" && !strings.Contains(strings.ToLower(text+" "+string(e.Kind)), needle) {
			continue
		}
		lines = append(lines, v.kindStyle.Render(string(e.Kind))+text)
	}
	if len(lines) == 0 {
		if needle != "" {
			return []string{v.dimStyle.Render("no findings match " + strconv.Quote(v.query))}
		}
		return []string{v.okStyle.Render("✓ no findings")}
	}
	return lines
}

func (v *Viewer) phaseLines(phases []validation.PhaseBalance) []string {
	if len(phases) == 0 {
		return []string{v.dimStyle.Render("no phases referenced")}
	}

	lines := []string{v.dimStyle.Render(fmt.Sprintf("%-12s %10s %10s", "PHASE", "DEMAND", "SUPPLY"))}
	needle := strings.ToLower(v.query)
	for _, p := range phases {
		if needle != "" && !strings.Contains(strings.ToLower(p.Phase), needle) {
			continue
		}
		line := fmt.Sprintf("%-12s %10s %10d", p.Phase, strconv.FormatFloat(p.Demand, 'f', -1, 64), p.Supply)
		if p.Saturated() {
			line = v.overStyle.Render(line + "  over")
		}
		lines = append(lines, line)
	}
	return lines
}

func (v *Viewer) bodyHeight() int {
	// header, tab bar (2 lines), search or spacer, footer
	h := v.height - 6
	if h < 3 {
		h = 3
	}
	return h
}

func (v *Viewer) clampOffset() {
	limit := len(v.Lines()) - v.bodyHeight()
	if limit < 0 {
		limit = 0
	}
	if v.offset > limit {
		v.offset = limit
	}
}

// View renders the viewer.
func (v *Viewer) View() string {
	report := v.wb.Report()
	v.tabs.SetCounts([]int{
		len(report.Clients),
		len(report.Workers),
		len(report.Tasks),
		len(report.Saturation) + len(report.Coverage),
	})

	var b strings.Builder

	summary := v.okStyle.Render("✓ " + report.Summary())
	if !report.Valid() {
		summary = v.errStyle.Render("✗ " + report.Summary())
	}
	b.WriteString(v.titleStyle.Render("rosterlint") + "  " + summary + "\n")
	b.WriteString(v.tabs.View() + "\n")

	lines := v.Lines()
	end := v.offset + v.bodyHeight()
	if end > len(lines) {
		end = len(lines)
	}
	start := v.offset
	if start > end {
		start = end
	}
	for _, line := range lines[start:end] {
		b.WriteString(line + "\n")
	}

	switch {
	case v.searching:
		b.WriteString(v.search.View() + "\n")
	case v.query != "":
		b.WriteString(v.dimStyle.Render("filter: "+v.query+" (esc to clear)") + "\n")
	}

	help := "tab/1-5 switch · j/k scroll · / search · r reload · q quit"
	if v.status != "" {
		help = v.status + " · " + help
	}
	b.WriteString(v.footerStyle.Render(help))
	return b.String()
}
