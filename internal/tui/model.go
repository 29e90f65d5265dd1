package tui

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/muster/internal/common"
	"github.com/Veraticus/muster/internal/config"
	"github.com/Veraticus/muster/internal/engine"
	"github.com/Veraticus/muster/internal/export"
	"github.com/Veraticus/muster/internal/model"
	"github.com/Veraticus/muster/internal/tui/themes"
)

// Pane identifies the focused area of the screen.
type Pane int

const (
	PaneInput Pane = iota
	PaneRecords
	PaneClarifications
	PaneRules
	paneCount
)

// promptKind says what the single-line prompt is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptImage
	promptAnswer
	promptEdit
)

const (
	exportKindCSV    = "CSV"
	exportKindSheets = "Sheets"
)

// Model holds the main TUI state.
type Model struct {
	ctx           context.Context
	theme         themes.Theme
	session       *engine.Session
	exporter      Exporter
	config        Config
	keymap        KeyMap
	status        statusMsg
	promptTarget  string
	images        []model.Image
	imageNames    []string
	records       []model.AttendanceRecord
	pending       []model.ClarificationRequest
	rules         []model.LearningRule
	help          help.Model
	input         textarea.Model
	prompt        textinput.Model
	table         table.Model
	spinner       spinner.Model
	width         int
	height        int
	clarifyCursor int
	ruleCursor    int
	fieldIndex    int
	focus         Pane
	promptKind    promptKind
	busy          bool
	exporting     bool
	quitting      bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	input := textarea.New()
	input.Placeholder = "Paste an attendance message here..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Focus()

	prompt := textinput.New()
	prompt.CharLimit = 500

	t := table.New(
		table.WithColumns(recordColumns(cfg.Width)),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.TableHeader
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(cfg.Theme.StatusInfo),
	)

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		ctx:      ctx,
		theme:    cfg.Theme,
		session:  cfg.Session,
		exporter: cfg.Exporter,
		config:   cfg,
		keymap:   DefaultKeyMap(),
		input:    input,
		prompt:   prompt,
		table:    t,
		spinner:  s,
		help:     h,
		width:    cfg.Width,
		height:   cfg.Height,
		focus:    PaneInput,
		status:   statusMsg{text: "Paste a message or add an image, then press ctrl+s", level: statusInfo},
	}
	m.resize()
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.busy && !m.exporting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case processDoneMsg:
		return m.handleProcessDone(msg)

	case exportDoneMsg:
		m.handleExportDone(msg)
		return m, nil

	case statusMsg:
		m.status = msg
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

// handleKey routes a key press: prompt first, then global bindings, then
// the focused pane.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.promptKind != promptNone {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Process):
		return m.startProcess()
	case key.Matches(msg, m.keymap.NextPane):
		cmd := m.setFocus((m.focus + 1) % paneCount)
		return m, cmd
	case key.Matches(msg, m.keymap.PrevPane):
		cmd := m.setFocus((m.focus + paneCount - 1) % paneCount)
		return m, cmd
	case key.Matches(msg, m.keymap.AddImage):
		cmd := m.openPrompt(promptImage, "", "Image path: ", "")
		return m, cmd
	case key.Matches(msg, m.keymap.RemoveImage):
		m.removeLastImage()
		return m, nil
	case key.Matches(msg, m.keymap.Paste):
		m.pasteClipboard()
		return m, nil
	case key.Matches(msg, m.keymap.ExportCSV):
		return m.startExport(exportKindCSV)
	case key.Matches(msg, m.keymap.ExportSheets):
		return m.startExport(exportKindSheets)
	}

	if m.focus == PaneInput {
		if key.Matches(msg, m.keymap.Cancel) {
			cmd := m.setFocus(PaneRecords)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	}

	switch m.focus {
	case PaneRecords:
		return m.handleRecordsKey(msg)
	case PaneClarifications:
		return m.handleClarificationsKey(msg)
	case PaneRules:
		m.handleRulesKey(msg)
	}
	return m, nil
}

func (m Model) handleRecordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Delete):
		record, ok := m.selectedRecord()
		if !ok {
			return m, nil
		}
		if m.session.DeleteRecord(record.ID) {
			m.refresh()
			m.setStatus(statusSuccess, "Deleted %s at %s on %s", record.LabourName, record.SiteName, record.Date)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Left):
		m.fieldIndex = (m.fieldIndex + len(editableFields) - 1) % len(editableFields)
		return m, nil

	case key.Matches(msg, m.keymap.Right):
		m.fieldIndex = (m.fieldIndex + 1) % len(editableFields)
		return m, nil

	case key.Matches(msg, m.keymap.Edit):
		record, ok := m.selectedRecord()
		if !ok {
			return m, nil
		}
		field := editableFields[m.fieldIndex]
		cmd := m.openPrompt(promptEdit, record.ID, field.name+": ", field.get(record))
		return m, cmd

	case key.Matches(msg, m.keymap.Copy):
		m.copyCSV()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleClarificationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.clarifyCursor > 0 {
			m.clarifyCursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.clarifyCursor < len(m.pending)-1 {
			m.clarifyCursor++
		}
	case key.Matches(msg, m.keymap.Answer):
		if len(m.pending) == 0 {
			return m, nil
		}
		request := m.pending[m.clarifyCursor]
		cmd := m.openPrompt(promptAnswer, request.ID, "Answer: ", "")
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleRulesKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.ruleCursor > 0 {
			m.ruleCursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.ruleCursor < len(m.rules)-1 {
			m.ruleCursor++
		}
	case key.Matches(msg, m.keymap.Delete):
		if len(m.rules) == 0 {
			return
		}
		rule := m.rules[m.ruleCursor]
		if m.session.RemoveRule(rule.ID) {
			m.refresh()
			m.setStatus(statusSuccess, "Forgot rule %q", truncate(rule.Pattern, 40))
		}
	}
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		cmd := m.closePrompt()
		return m, cmd
	case key.Matches(msg, m.keymap.Submit):
		return m.submitPrompt()
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.prompt.Value())

	switch m.promptKind {
	case promptImage:
		if value == "" {
			cmd := m.closePrompt()
			return m, cmd
		}
		path := config.ExpandPath(value)
		img, err := m.config.LoadImage(path)
		if err != nil {
			m.setStatus(statusError, "Could not add image: %v", err)
			return m, nil
		}
		m.images = append(m.images, img)
		m.imageNames = append(m.imageNames, filepath.Base(path))
		m.setStatus(statusSuccess, "Attached %s", filepath.Base(path))

	case promptAnswer:
		if value == "" {
			m.setStatus(statusError, "Type an answer or press esc")
			return m, nil
		}
		if m.session.Resolve(m.promptTarget, value) {
			m.refresh()
			m.setStatus(statusSuccess, "Saved answer to the knowledge base")
		}

	case promptEdit:
		record, ok := m.session.Record(m.promptTarget)
		if !ok {
			m.setStatus(statusError, "Record no longer exists")
			cmd := m.closePrompt()
			return m, cmd
		}
		updated, err := applyFieldEdit(record, m.fieldIndex, value)
		if err != nil {
			m.setStatus(statusError, "%s", capitalize(err.Error()))
			return m, nil
		}
		if m.session.UpdateRecord(updated) {
			m.refresh()
			m.setStatus(statusSuccess, "Updated %s", strings.ToLower(editableFields[m.fieldIndex].name))
		}
	}

	cmd := m.closePrompt()
	return m, cmd
}

// startProcess sends the input to the session. Ignored while an extraction
// is already running.
func (m Model) startProcess() (tea.Model, tea.Cmd) {
	if m.busy || m.session.Busy() {
		return m, nil
	}

	in := engine.Input{
		Text:   m.input.Value(),
		Images: append([]model.Image(nil), m.images...),
	}
	session := m.session
	ctx := m.ctx

	m.busy = true
	m.setStatus(statusInfo, "Extracting records...")
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		outcome, err := session.Process(ctx, in)
		return processDoneMsg{outcome: outcome, err: err}
	})
}

func (m Model) handleProcessDone(msg processDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.setStatus(statusError, "%s", common.UserMessage(msg.err))
		return m, nil
	}

	m.input.Reset()
	m.images = nil
	m.imageNames = nil
	m.refresh()

	o := msg.outcome
	m.setStatus(statusSuccess, "Extracted %d: %d added, %d updated, %d unchanged",
		o.Extracted, o.Added, o.Updated, o.Unchanged)

	if n := len(o.Clarifications); n > 0 {
		m.setStatus(statusInfo, "Extracted %d with %d question(s) to answer", o.Extracted, n)
		m.clarifyCursor = len(m.pending) - n
		cmd := m.setFocus(PaneClarifications)
		return m, cmd
	}
	return m, nil
}

func (m Model) startExport(kind string) (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	if kind == exportKindSheets && m.exporter == nil {
		m.setStatus(statusError, "Google Sheets export is not configured")
		return m, nil
	}

	records := m.session.Records()
	if len(records) == 0 {
		m.setStatus(statusError, "No records to export")
		return m, nil
	}

	m.exporting = true
	m.setStatus(statusInfo, "Exporting to %s...", kind)

	dir, now := m.config.ExportDir, m.config.Now()
	exporter, ctx := m.exporter, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		var (
			location string
			err      error
		)
		if kind == exportKindCSV {
			location, err = export.WriteFile(dir, records, now)
		} else {
			location, err = exporter.Export(ctx, records)
		}
		return exportDoneMsg{kind: kind, location: location, err: err}
	})
}

func (m *Model) handleExportDone(msg exportDoneMsg) {
	m.exporting = false
	if msg.err != nil {
		m.setStatus(statusError, "%s export failed: %s", msg.kind, common.UserMessage(msg.err))
		return
	}
	m.setStatus(statusSuccess, "Exported to %s", msg.location)
}

func (m *Model) copyCSV() {
	records := m.session.Records()
	if len(records) == 0 {
		m.setStatus(statusError, "No records to copy")
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		m.setStatus(statusError, "Could not render CSV: %v", err)
		return
	}
	if err := m.config.WriteClipboard(buf.String()); err != nil {
		m.setStatus(statusError, "Clipboard unavailable: %v", err)
		return
	}
	m.setStatus(statusSuccess, "Copied %d records as CSV", len(records))
}

func (m *Model) pasteClipboard() {
	text, err := m.config.ReadClipboard()
	if err != nil {
		m.setStatus(statusError, "Clipboard unavailable: %v", err)
		return
	}
	if text == "" {
		return
	}
	m.input.InsertString(text)
	if m.focus != PaneInput {
		m.setFocus(PaneInput)
	}
}

func (m *Model) removeLastImage() {
	if len(m.images) == 0 {
		return
	}
	last := len(m.images) - 1
	name := m.imageNames[last]
	m.images = m.images[:last]
	m.imageNames = m.imageNames[:last]
	m.setStatus(statusInfo, "Removed %s", name)
}

func (m *Model) openPrompt(kind promptKind, target, label, value string) tea.Cmd {
	m.promptKind = kind
	m.promptTarget = target
	m.prompt.Prompt = label
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.input.Blur()
	return m.prompt.Focus()
}

func (m *Model) closePrompt() tea.Cmd {
	m.promptKind = promptNone
	m.promptTarget = ""
	m.prompt.Reset()
	m.prompt.Blur()
	if m.focus == PaneInput {
		return m.input.Focus()
	}
	return nil
}

func (m *Model) setFocus(p Pane) tea.Cmd {
	m.focus = p
	m.table.Blur()
	m.input.Blur()
	switch p {
	case PaneInput:
		return m.input.Focus()
	case PaneRecords:
		m.table.Focus()
	}
	return nil
}

// refresh reloads the session state into the view.
func (m *Model) refresh() {
	m.records = m.session.Records()
	m.pending = m.session.Pending()
	m.rules = m.session.Rules()

	m.table.SetRows(recordRows(m.records))
	// The table clamps its cursor to -1 while empty.
	switch cursor := m.table.Cursor(); {
	case cursor < 0:
		m.table.SetCursor(0)
	case cursor >= len(m.records):
		m.table.SetCursor(max(len(m.records)-1, 0))
	}
	m.clarifyCursor = clamp(m.clarifyCursor, len(m.pending))
	m.ruleCursor = clamp(m.ruleCursor, len(m.rules))
}

func (m Model) selectedRecord() (model.AttendanceRecord, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.records) {
		return model.AttendanceRecord{}, false
	}
	return m.records[cursor], true
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.promptKind != promptNone:
		m.prompt, cmd = m.prompt.Update(msg)
	case m.focus == PaneInput:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(level statusLevel, format string, args ...any) {
	m.status = statusMsg{text: fmt.Sprintf(format, args...), level: level}
}

func (m *Model) resize() {
	inner := max(m.width-4, 20)
	m.input.SetWidth(inner)
	m.input.SetHeight(max(m.height/5, 3))
	m.prompt.Width = max(inner-20, 10)
	m.table.SetColumns(recordColumns(inner))
	m.table.SetHeight(max(m.height/3, 4))
	m.help.Width = m.width
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
