package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-care-keeper/models"
)

const statusMessageTTL = 3 * time.Second

type statusModel struct {
	ctx        context.Context
	status     QueueStatus
	records    VitalRecorder
	foreground ForegroundHook
	buildInfo  models.AppBuildInfo
	copyText   func(string) error
	now        func() time.Time

	current  models.QueueStatus
	spinner  spinner.Model
	busy     bool
	message  string
	errMsg   string
	updates  bool
	lastRecp string

	confirmClear  bool
	vitalForm     *formVitalModel
	showBuildInfo bool

	quitByUser bool
}

func newStatusModel(
	ctx context.Context,
	status QueueStatus,
	records VitalRecorder,
	foreground ForegroundHook,
	buildInfo models.AppBuildInfo,
	copyText func(string) error,
) statusModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return statusModel{
		ctx:        ctx,
		status:     status,
		records:    records,
		foreground: foreground,
		buildInfo:  buildInfo,
		copyText:   copyText,
		now:        time.Now,
		spinner:    s,
		updates:    true,
	}
}

func (m statusModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoadStatus(), m.cmdWaitUpdate(), m.spinner.Tick)
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.current = msg.status
		return m, nil
	case statusUpdateMsg:
		if !msg.ok {
			m.updates = false
			return m, nil
		}
		m.current = msg.status
		return m, m.cmdWaitUpdate()
	case processDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		cmd := m.flash("Очередь обработана")
		return m, tea.Batch(cmd, m.cmdLoadStatus())
	case clearDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		cmd := m.flash("Очередь очищена")
		return m, tea.Batch(cmd, m.cmdLoadStatus())
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		cmd := m.flash("Ошибки скопированы в буфер обмена")
		return m, cmd
	case vitalSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		cmd := m.flash(outcomeMessage(msg.result))
		return m, tea.Batch(cmd, m.cmdLoadStatus())
	case foregroundDoneMsg:
		if msg.err != nil {
			m.errMsg = humanizeServerUnavailableError(msg.err)
		}
		return m, nil
	case clearStatusMsg:
		m.message = ""
		return m, nil
	case tea.FocusMsg:
		return m, m.cmdForeground()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.vitalForm != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m statusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitByUser = true
		return m, tea.Quit
	}

	if m.errMsg != "" {
		if key.Matches(msg, keys.enter, keys.esc) {
			m.errMsg = ""
		}
		return m, nil
	}

	if m.showBuildInfo {
		if key.Matches(msg, keys.esc, keys.buildInfo) {
			m.showBuildInfo = false
		}
		return m, nil
	}

	if m.confirmClear {
		switch {
		case key.Matches(msg, keys.yes):
			m.confirmClear = false
			m.busy = true
			return m, m.cmdClear()
		case key.Matches(msg, keys.no):
			m.confirmClear = false
		}
		return m, nil
	}

	if m.vitalForm != nil {
		switch {
		case key.Matches(msg, keys.esc):
			m.vitalForm = nil
			return m, nil
		case key.Matches(msg, keys.tab):
			m.vitalForm.move(1)
			return m, nil
		case key.Matches(msg, keys.backtab):
			m.vitalForm.move(-1)
			return m, nil
		case key.Matches(msg, keys.enter):
			vital := m.vitalForm.toVital(m.now())
			m.lastRecp = vital.RecipientID
			m.vitalForm = nil
			m.busy = true
			return m, m.cmdRecordVital(vital)
		}
		return m.updateForm(msg)
	}

	switch {
	case key.Matches(msg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	case key.Matches(msg, keys.process):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.cmdProcess()
	case key.Matches(msg, keys.clear):
		m.confirmClear = true
	case key.Matches(msg, keys.copy):
		return m, m.cmdCopyFailed()
	case key.Matches(msg, keys.newVital):
		form := newFormVitalModel(m.lastRecp)
		m.vitalForm = &form
	case key.Matches(msg, keys.buildInfo):
		m.showBuildInfo = true
	}
	return m, nil
}

func (m statusModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	form := m.vitalForm
	form.inputs[form.focus], cmd = form.inputs[form.focus].Update(msg)
	return m, cmd
}

func (m statusModel) View() string {
	if m.showBuildInfo {
		return renderBuildInfoWindow(m.buildInfo)
	}
	if m.errMsg != "" {
		return renderPage("ОЧЕРЕДЬ", errorOverlayModel{message: m.errMsg}.View(), "")
	}
	if m.confirmClear {
		return renderPage("ОЧЕРЕДЬ", confirmModel{
			message: fmt.Sprintf("Удалить %d неотправленных операций?", m.current.Depth),
		}.View(), "")
	}
	if m.vitalForm != nil {
		return renderPage("ОЧЕРЕДЬ", m.vitalForm.View(), "tab: следующее поле  enter: сохранить  esc: отмена")
	}

	return renderPage("ОЧЕРЕДЬ", m.renderStatus(),
		"p: отправить сейчас  c: очистить  y: копировать ошибки  n: измерение  v: о программе")
}

func (m statusModel) renderStatus() string {
	var b strings.Builder

	network := "нет сети"
	if m.current.Online {
		network = "в сети"
	}
	fmt.Fprintf(&b, "Соединение: %s\n", network)
	fmt.Fprintf(&b, "В очереди:  %d\n", m.current.Depth)
	fmt.Fprintf(&b, "Ошибки:     %d\n", m.current.Failed)
	if m.current.Processing || m.busy {
		fmt.Fprintf(&b, "\n%s отправка...\n", m.spinner.View())
	}
	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(m.message)
	}
	return b.String()
}

func outcomeMessage(result models.ExecutionResult) string {
	switch result.Outcome {
	case models.ExecutionOutcomeDone:
		return "Измерение сохранено"
	case models.ExecutionOutcomeQueued:
		return "Нет сети: измерение в очереди"
	case models.ExecutionOutcomeFailedQueued:
		return "Сервер недоступен: измерение в очереди (" + humanizeServerUnavailableError(result.RemoteErr) + ")"
	default:
		return result.Outcome.String()
	}
}

func (m *statusModel) flash(text string) tea.Cmd {
	m.message = text
	return tea.Tick(statusMessageTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m statusModel) cmdLoadStatus() tea.Cmd {
	return func() tea.Msg {
		st, err := m.status.Status(m.ctx)
		return statusLoadedMsg{status: st, err: err}
	}
}

func (m statusModel) cmdWaitUpdate() tea.Cmd {
	if !m.updates {
		return nil
	}
	updates := m.status.Updates()
	return func() tea.Msg {
		st, ok := <-updates
		return statusUpdateMsg{status: st, ok: ok}
	}
}

func (m statusModel) cmdProcess() tea.Cmd {
	return func() tea.Msg {
		return processDoneMsg{err: m.status.ProcessNow(m.ctx)}
	}
}

func (m statusModel) cmdClear() tea.Cmd {
	return func() tea.Msg {
		return clearDoneMsg{err: m.status.Clear(m.ctx)}
	}
}

func (m statusModel) cmdCopyFailed() tea.Cmd {
	return func() tea.Msg {
		data, err := m.status.ExportFailed(m.ctx)
		if err != nil {
			return copiedMsg{err: err}
		}
		if err = m.copyText(string(data)); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func (m statusModel) cmdRecordVital(vital models.VitalSign) tea.Cmd {
	return func() tea.Msg {
		result, err := m.records.RecordVital(m.ctx, vital)
		return vitalSavedMsg{result: result, err: err}
	}
}

func (m statusModel) cmdForeground() tea.Cmd {
	if m.foreground == nil {
		return nil
	}
	return func() tea.Msg {
		return foregroundDoneMsg{err: m.foreground.OnForeground(m.ctx)}
	}
}
