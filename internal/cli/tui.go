package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listCursorStyle = lipgloss.NewStyle().Bold(true)
)

const (
	minListHeight     = 5
	defaultListHeight = 15
	listChrome        = 8 // title, hint, borders and detail line
)

// =============================================================================
// Step Table
// =============================================================================

// stepsTable renders rows [offset, offset+height) of steps as a bordered
// table. cursor marks the selected row; pass -1 for none.
func stepsTable(steps []waterfall.Step, offset, height, cursor int) string {
	end := min(offset+height, len(steps))
	if offset > end {
		offset = end
	}

	rows := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		s := steps[i]
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		rows = append(rows, []string{
			mark + strconv.Itoa(i+1),
			s.Category,
			signed(s.Value),
			layout.FormatValue(s.Start),
			layout.FormatValue(s.End),
			s.Kind.String(),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Category", "Value", "Start", "End", "Kind").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}
			idx := offset + row
			if idx >= len(steps) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 2 || col == 5 {
				base = kindStyle(steps[idx].Kind).Padding(0, 1)
			}
			if idx == cursor {
				return base.Inherit(listCursorStyle)
			}
			return base
		}).
		Render()
}

// signed formats a contribution with an explicit sign.
func signed(v float64) string {
	if v > 0 {
		return "+" + layout.FormatValue(v)
	}
	return layout.FormatValue(v)
}

// =============================================================================
// StepListModel - Interactive step browser
// =============================================================================

// StepListModel is the bubbletea model for browsing computed steps.
type StepListModel struct {
	Title  string
	Steps  []waterfall.Step
	Cursor int
	Offset int
	Height int
}

// NewStepListModel creates a browser over steps.
func NewStepListModel(title string, steps []waterfall.Step) StepListModel {
	return StepListModel{
		Title:  title,
		Steps:  steps,
		Height: defaultListHeight,
	}
}

func (m StepListModel) Init() tea.Cmd {
	return nil
}

func (m StepListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Steps))
		case "end", "G":
			m.move(len(m.Steps))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-listChrome, minListHeight)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, and scrolls it into view.
func (m *StepListModel) move(delta int) {
	if len(m.Steps) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Steps)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m StepListModel) View() string {
	var b strings.Builder

	title := m.Title
	if title == "" {
		title = "Steps"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	b.WriteString(stepsTable(m.Steps, m.Offset, m.Height, m.Cursor))
	b.WriteString("\n\n")

	if m.Cursor < len(m.Steps) {
		b.WriteString(describeStep(m.Steps[m.Cursor]))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Steps))))

	return b.String()
}

// describeStep summarizes the running-total movement of one step.
func describeStep(s waterfall.Step) string {
	from, to := layout.FormatValue(s.Start), layout.FormatValue(s.End)
	if s.IsTotal() {
		return "  " + kindStyle(s.Kind).Render(fmt.Sprintf("%s: %s", s.Category, to))
	}
	return "  " + StyleValue.Render(s.Category) + " " +
		StyleDim.Render(from+" "+iconArrow+" "+to) + " " +
		kindStyle(s.Kind).Render("("+signed(s.Value)+")")
}
