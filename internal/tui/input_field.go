package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchSubmittedMsg is sent when the user confirms a search.
type SearchSubmittedMsg struct {
	Query string
}

// SearchCanceledMsg is sent when the user leaves the search field with esc.
type SearchCanceledMsg struct{}

// SearchField is the "/" search input.
type SearchField struct {
	input textinput.Model
	width int
}

// NewSearchField creates a new SearchField.
func NewSearchField() *SearchField {
	ti := textinput.New()
	ti.Placeholder = "filter findings..."
	ti.CharLimit = 200
	ti.Width = 60

	return &SearchField{
		input: ti,
		width: 80,
	}
}

// SetWidth sets the width of the search field.
func (f *SearchField) SetWidth(width int) {
	f.width = width
	f.input.Width = width - 4
}

// Value returns the current text.
func (f *SearchField) Value() string {
	return f.input.Value()
}

// SetValue replaces the current text.
func (f *SearchField) SetValue(s string) {
	f.input.SetValue(s)
}

// Update handles messages for the search field.
func (f *SearchField) Update(msg tea.Msg) (*SearchField, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			query := f.input.Value()
			return f, func() tea.Msg { return SearchSubmittedMsg{Query: query} }
		case "esc":
			f.input.Reset()
			return f, func() tea.Msg { return SearchCanceledMsg{} }
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View renders the search field.
func (f *SearchField) View() string {
	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	return promptStyle.Render("/ ") + f.input.View()
}

// Focus sets focus on the search field.
func (f *SearchField) Focus() tea.Cmd {
	return f.input.Focus()
}

// Blur removes focus from the search field.
func (f *SearchField) Blur() {
	f.input.Blur()
}
