package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/plotcraft/pkg/schema"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	detailPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// SchemaBrowserModel - Interactive catalogue browser
// =============================================================================

// SchemaBrowserModel is the bubbletea model for browsing validators.
// Typing "/" starts a filter on the attribute path.
type SchemaBrowserModel struct {
	All       []*schema.Validator
	Visible   []*schema.Validator
	Cursor    int
	Offset    int
	Height    int
	Filter    string
	filtering bool
}

// NewSchemaBrowserModel creates a browser over the given validators.
func NewSchemaBrowserModel(validators []*schema.Validator) SchemaBrowserModel {
	return SchemaBrowserModel{
		All:     validators,
		Visible: validators,
		Height:  15,
	}
}

func (m SchemaBrowserModel) Init() tea.Cmd {
	return nil
}

func (m SchemaBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.filtering = true
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		}
	case tea.WindowSizeMsg:
		// Leave room for the header and the detail pane.
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SchemaBrowserModel) updateFilter(msg tea.KeyMsg) SchemaBrowserModel {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filtering = false
		return m
	case tea.KeyBackspace:
		if m.Filter != "" {
			m.Filter = m.Filter[:len(m.Filter)-1]
		}
	case tea.KeyRunes:
		m.Filter += string(msg.Runes)
	default:
		return m
	}
	m.applyFilter()
	return m
}

func (m *SchemaBrowserModel) applyFilter() {
	m.Cursor, m.Offset = 0, 0
	if m.Filter == "" {
		m.Visible = m.All
		return
	}
	m.Visible = nil
	for _, v := range m.All {
		if strings.Contains(v.Path(), m.Filter) {
			m.Visible = append(m.Visible, v)
		}
	}
}

func (m *SchemaBrowserModel) move(delta int) {
	if len(m.Visible) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Visible)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Current returns the validator under the cursor, or nil when the filter
// matches nothing.
func (m SchemaBrowserModel) Current() *schema.Validator {
	if m.Cursor < len(m.Visible) {
		return m.Visible[m.Cursor]
	}
	return nil
}

func (m SchemaBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Attribute Catalogue"))
	b.WriteString("\n")
	if m.filtering {
		b.WriteString("/" + m.Filter + "█")
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / filter  q quit"))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		v := m.Visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, v.Path(), string(v.Rule.Kind()), v.Role})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Attribute", "Kind", "Role").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 2 || col == 3 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if v := m.Current(); v != nil {
		b.WriteString(detailPaneStyle.Render(validatorDetail(v)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Visible)), len(m.Visible))))

	return b.String()
}

func validatorDetail(v *schema.Validator) string {
	lines := []string{
		detailKeyStyle.Render("path") + StyleHighlight.Render(v.Path()),
		detailKeyStyle.Render("kind") + string(v.Rule.Kind()),
		detailKeyStyle.Render("accepts") + v.Describe(),
		detailKeyStyle.Render("edit type") + v.EditType,
	}
	if v.Role != "" {
		lines = append(lines, detailKeyStyle.Render("role")+v.Role)
	}
	return strings.Join(lines, "\n")
}
