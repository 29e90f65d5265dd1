package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/muster/internal/export"
	"github.com/Veraticus/muster/internal/model"
)

// recordColumns sizes the records table for the given inner width. Name and
// site share whatever the fixed-width columns leave over.
func recordColumns(width int) []table.Column {
	fixed := []table.Column{
		{Title: "✓", Width: 2},
		{Title: "Date", Width: 10},
		{Title: "Salary", Width: 9},
		{Title: "Day", Width: 4},
		{Title: "OT h", Width: 5},
		{Title: "OT Amt", Width: 9},
		{Title: "Total", Width: 10},
	}
	used := 0
	for _, c := range fixed {
		used += c.Width + 2
	}
	flex := max((width-used-4)/2, 8)

	return []table.Column{
		fixed[0],
		fixed[1],
		{Title: "Name", Width: flex},
		{Title: "Site", Width: flex},
		fixed[2],
		fixed[3],
		fixed[4],
		fixed[5],
		fixed[6],
	}
}

func recordRows(records []model.AttendanceRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		status := "?"
		if r.IsConfirmed {
			status = "✓"
		}
		rows = append(rows, table.Row{
			status,
			r.Date,
			r.LabourName,
			r.SiteName,
			export.Money(r.BaseSalary),
			export.Number(r.Day),
			export.Number(r.OTHours),
			export.Money(r.OTAmount),
			export.Money(r.TotalPayable),
		})
	}
	return rows
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.pane(PaneInput, "Input", m.renderInput()),
		m.pane(PaneRecords, m.recordsTitle(), m.renderRecords()),
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.pane(PaneClarifications, fmt.Sprintf("Questions (%d)", len(m.pending)), m.renderClarifications()),
			m.pane(PaneRules, fmt.Sprintf("Knowledge base (%d)", len(m.rules)), m.renderRules()),
		),
	}
	if m.promptKind != promptNone {
		sections = append(sections, m.prompt.View())
	}
	sections = append(sections, m.renderStatus(), m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Muster")
	confirmed := 0
	for _, r := range m.records {
		if r.IsConfirmed {
			confirmed++
		}
	}
	summary := m.theme.Faint.Render(fmt.Sprintf("  %d records, %d confirmed, scope: %s",
		len(m.records), confirmed, m.session.Scope()))
	return title + summary
}

func (m Model) pane(p Pane, title, body string) string {
	style := m.theme.BlurredPane
	heading := m.theme.Subtitle.Render(title)
	if m.focus == p {
		style = m.theme.FocusedPane
		heading = m.theme.Title.Render(title)
	}

	width := m.width - 2
	if p == PaneClarifications || p == PaneRules {
		width = m.width/2 - 2
	}
	return style.Width(max(width, 10)).Render(heading + "\n" + body)
}

func (m Model) renderInput() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if len(m.imageNames) == 0 {
		b.WriteString(m.theme.Faint.Render("No images attached (ctrl+o to add)"))
	} else {
		b.WriteString(m.theme.Normal.Render("Images: " + strings.Join(m.imageNames, ", ")))
	}
	return b.String()
}

func (m Model) recordsTitle() string {
	title := fmt.Sprintf("Records (%d)", len(m.records))
	if m.focus == PaneRecords {
		title += "  editing: " + editableFields[m.fieldIndex].name
	}
	return title
}

func (m Model) renderRecords() string {
	if len(m.records) == 0 {
		return m.theme.Faint.Render("No records yet")
	}
	return m.table.View()
}

func (m Model) renderClarifications() string {
	if len(m.pending) == 0 {
		return m.theme.Faint.Render("Nothing to clarify")
	}
	lines := make([]string, 0, len(m.pending))
	for i, c := range m.pending {
		line := "? " + c.Content
		if i == m.clarifyCursor && m.focus == PaneClarifications {
			lines = append(lines, m.theme.Selected.Render(line))
			continue
		}
		lines = append(lines, m.theme.Unconfirmed.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRules() string {
	if len(m.rules) == 0 {
		return m.theme.Faint.Render("No rules learned yet")
	}
	lines := make([]string, 0, len(m.rules))
	for i, r := range m.rules {
		line := fmt.Sprintf("%s → %s", truncate(r.Pattern, 40), r.Explanation)
		if i == m.ruleCursor && m.focus == PaneRules {
			lines = append(lines, m.theme.Selected.Render(line))
			continue
		}
		lines = append(lines, m.theme.Normal.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	prefix := ""
	if m.busy || m.exporting {
		prefix = m.spinner.View() + " "
	}
	switch m.status.level {
	case statusError:
		return prefix + m.theme.StatusError.Render(m.status.text)
	case statusSuccess:
		return prefix + m.theme.StatusSuccess.Render(m.status.text)
	default:
		return prefix + m.theme.StatusInfo.Render(m.status.text)
	}
}
