package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qoqn/comze/pkg/updater"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// UpdateListModel - Interactive update selection
// =============================================================================

// UpdateListModel is the bubbletea model for picking which updates to apply.
// Every update starts checked; space toggles, enter confirms, q cancels.
type UpdateListModel struct {
	Updates   []updater.Row
	Checked   []bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewUpdateListModel creates an update checklist with everything selected.
func NewUpdateListModel(updates []updater.Row) UpdateListModel {
	checked := make([]bool, len(updates))
	for i := range checked {
		checked[i] = true
	}
	return UpdateListModel{
		Updates: updates,
		Checked: checked,
		Height:  15,
	}
}

func (m UpdateListModel) Init() tea.Cmd {
	return nil
}

func (m UpdateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Updates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			all := m.allChecked()
			for i := range m.Checked {
				m.Checked[i] = !all
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m UpdateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Updates"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ apply  q cancel"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Updates) {
		end = len(m.Updates)
	}

	for i := m.Offset; i < end; i++ {
		row := m.Updates[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}

		change := fmt.Sprintf("%s %s %s", row.Current, iconArrow, row.NewConstraint)
		severity := severityStyle(row.Severity).Render(string(row.Severity))
		line := fmt.Sprintf("%s%s %-32s %-24s %s", cursor, check, row.Package, change, severity)

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if m.Checked[i] {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d selected]", m.countChecked(), len(m.Updates))))

	return b.String()
}

func (m UpdateListModel) allChecked() bool {
	for _, c := range m.Checked {
		if !c {
			return false
		}
	}
	return true
}

func (m UpdateListModel) countChecked() int {
	n := 0
	for _, c := range m.Checked {
		if c {
			n++
		}
	}
	return n
}

// selectUpdates runs the checklist and returns the rows the user kept.
// A cancelled checklist returns no rows.
func selectUpdates(updates []updater.Row) ([]updater.Row, error) {
	p := tea.NewProgram(NewUpdateListModel(updates))
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm, ok := finalModel.(UpdateListModel)
	if !ok || !fm.Confirmed {
		return nil, nil
	}

	var out []updater.Row
	for i, row := range fm.Updates {
		if fm.Checked[i] {
			out = append(out, row)
		}
	}
	return out, nil
}
