package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab index constants.
const (
	TabIndexClients = iota
	TabIndexWorkers
	TabIndexTasks
	TabIndexCross
	TabIndexPhases
)

var defaultTabs = []string{"Clients", "Workers", "Tasks", "Cross-checks", "Phases"}

// TabBar is a navigation component for switching between views.
type TabBar struct {
	tabs   []string
	counts []int
	active int

	activeStyle   lipgloss.Style
	inactiveStyle lipgloss.Style
	barStyle      lipgloss.Style
}

// NewTabBar creates a new TabBar with the default tabs.
func NewTabBar() TabBar {
	return TabBar{
		tabs:   defaultTabs,
		counts: make([]int, len(defaultTabs)),
		active: TabIndexClients,

		activeStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 2),

		inactiveStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 2),

		barStyle: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238")),
	}
}

// Update handles keyboard input for tab navigation.
func (t TabBar) Update(msg tea.Msg) (TabBar, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "right", "l":
			t.active = (t.active + 1) % len(t.tabs)
		case "shift+tab", "left", "h":
			t.active = (t.active - 1 + len(t.tabs)) % len(t.tabs)
		case "1", "2", "3", "4", "5":
			t.SetActive(int(msg.String()[0] - '1'))
		}
	}
	return t, nil
}

// SetCounts sets the badge shown next to each tab label.
func (t *TabBar) SetCounts(counts []int) {
	copy(t.counts, counts)
}

// View renders the tab bar.
func (t TabBar) View() string {
	rendered := make([]string, 0, len(t.tabs))
	for i, tab := range t.tabs {
		label := tab
		if i < TabIndexPhases && t.counts[i] > 0 {
			label = tab + " (" + strconv.Itoa(t.counts[i]) + ")"
		}
		if i == t.active {
			rendered = append(rendered, t.activeStyle.Render(label))
		} else {
			rendered = append(rendered, t.inactiveStyle.Render(label))
		}
	}
	return t.barStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

// SetActive sets the active tab, clamped to the valid range.
func (t *TabBar) SetActive(index int) {
	if index < 0 {
		t.active = 0
	} else if index >= len(t.tabs) {
		t.active = len(t.tabs) - 1
	} else {
		t.active = index
	}
}

// Active returns the currently active tab index.
func (t TabBar) Active() int {
	return t.active
}

// Tabs returns the list of tab labels.
func (t TabBar) Tabs() []string {
	return t.tabs
}
