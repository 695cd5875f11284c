package board

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/engitrack/engitrack/internal/config"
	"github.com/engitrack/engitrack/internal/export"
	"github.com/engitrack/engitrack/internal/log"
	"github.com/engitrack/engitrack/internal/mode"
	"github.com/engitrack/engitrack/internal/pubsub"
	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/stats"
	"github.com/engitrack/engitrack/internal/ui/modal"
	"github.com/engitrack/engitrack/internal/ui/recordform"
	"github.com/engitrack/engitrack/internal/ui/table"
	"github.com/engitrack/engitrack/internal/ui/toaster"
)

const extractTimeout = 60 * time.Second

// Update handles messages for the board mode.
func (m Model) Update(msg tea.Msg) (mode.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case pubsub.Event[record.Record]:
		m.refresh()
		cmds := []tea.Cmd{m.listener.Listen()}
		if msg.Type == pubsub.ChangedEvent {
			m.toast = m.toast.Show("数据已从磁盘刷新", toaster.StyleInfo)
			cmds = append(cmds, toaster.ScheduleDismiss(toastDuration))
		}
		return m, tea.Batch(cmds...)

	case mode.StoreChangedMsg:
		return m, m.reloadCmd()

	case reloadDoneMsg:
		if msg.err != nil {
			m.toast = m.toast.Show("刷新失败: "+msg.err.Error(), toaster.StyleError)
			return m, toaster.ScheduleDismiss(toastDuration)
		}
		return m, nil

	case toaster.DismissMsg:
		m.toast = m.toast.Hide()
		return m, nil

	case modal.SubmitMsg:
		return m.handleSubmit(msg)

	case modal.CancelMsg:
		m.view = ViewBoard
		return m, nil

	case extractResultMsg:
		return m.handleExtractResult(msg)

	case exportDoneMsg:
		if msg.err != nil {
			m.toast = m.toast.Show("导出失败: "+msg.err.Error(), toaster.StyleError)
		} else {
			m.toast = m.toast.Show("已导出 "+msg.path, toaster.StyleSuccess)
		}
		return m, toaster.ScheduleDismiss(toastDuration)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m.forwardToOverlay(msg)
}

// handleKeyMsg routes keys to the active overlay or to the board itself.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (mode.Controller, tea.Cmd) {
	switch m.view {
	case ViewRecordForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case ViewAddColumn:
		var cmd tea.Cmd
		m.colModal, cmd = m.colModal.Update(msg)
		return m, cmd
	case ViewDeleteRecord, ViewDeleteColumn:
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	case ViewExtract:
		var cmd tea.Cmd
		m.extractModal, cmd = m.extractModal.Update(msg)
		return m, cmd
	case ViewStatsFields:
		var cmd tea.Cmd
		m.statsModal, cmd = m.statsModal.Update(msg)
		return m, cmd
	case ViewExtractWait:
		if msg.String() == "esc" {
			m.view = ViewBoard
		}
		return m, nil
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.view = ViewBoard
		}
		return m, nil
	}

	return m.handleBoardKey(msg)
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (mode.Controller, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
			m.table = m.table.EnsureVisible(m.selectedRow)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.records)-1 {
			m.selectedRow++
			m.table = m.table.EnsureVisible(m.selectedRow)
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.selectedCol > 0 {
			m.selectedCol--
			m.table = m.table.EnsureColVisible(m.selectedCol)
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.selectedCol < len(m.columns)-1 {
			m.selectedCol++
			m.table = m.table.EnsureColVisible(m.selectedCol)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.form = recordform.NewCreate(m.columns)
		m.form.SetSize(m.width, m.height)
		m.view = ViewRecordForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Enter):
		return m.openEditForm()

	case key.Matches(msg, m.keys.Delete):
		return m.openDeleteRecordConfirm()

	case key.Matches(msg, m.keys.Extract):
		return m.openExtractModal()

	case key.Matches(msg, m.keys.AddColumn):
		return m.openAddColumnModal()

	case key.Matches(msg, m.keys.DeleteColumn):
		return m.openDeleteColumnConfirm()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadCmd()

	case key.Matches(msg, m.keys.ToggleStats):
		m.showStats = !m.showStats
		m.table = m.table.SetSize(m.width, m.tableHeight())
		return m, nil

	case key.Matches(msg, m.keys.StatsFields):
		return m.openStatsFieldsModal()

	case key.Matches(msg, m.keys.Logout):
		m.services.Tracker.Logout()
		return m, mode.Switch(mode.ModeLogin)

	case key.Matches(msg, m.keys.Help):
		m.helpView = m.renderHelp()
		m.view = ViewHelp
		return m, nil
	}

	return m, nil
}

// handleMouseMsg handles mouse input for row clicks and scrolling.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (mode.Controller, tea.Cmd) {
	if m.view != ViewBoard {
		return m.forwardToOverlay(msg)
	}

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
		for i, rec := range m.records {
			if z := zone.Get(table.ZonePrefix + rec.ID); z != nil && z.InBounds(msg) {
				if i == m.selectedRow {
					return m.openEditForm()
				}
				m.selectedRow = i
				m.table = m.table.EnsureVisible(i)
				return m, nil
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// forwardToOverlay passes non-key messages (blink ticks, etc.) to whichever
// overlay is active.
func (m Model) forwardToOverlay(msg tea.Msg) (mode.Controller, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewRecordForm:
		m.form, cmd = m.form.Update(msg)
	case ViewAddColumn:
		m.colModal, cmd = m.colModal.Update(msg)
	case ViewDeleteRecord, ViewDeleteColumn:
		m.confirm, cmd = m.confirm.Update(msg)
	case ViewExtract:
		m.extractModal, cmd = m.extractModal.Update(msg)
	case ViewStatsFields:
		m.statsModal, cmd = m.statsModal.Update(msg)
	}
	return m, cmd
}

func (m Model) openEditForm() (mode.Controller, tea.Cmd) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.records) {
		return m, nil
	}
	m.form = recordform.NewEdit(m.columns, m.records[m.selectedRow])
	m.form.SetSize(m.width, m.height)
	m.view = ViewRecordForm
	return m, m.form.Init()
}

func (m Model) openDeleteRecordConfirm() (mode.Controller, tea.Cmd) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.records) {
		return m, nil
	}
	rec := m.records[m.selectedRow]
	name := table.CellText(rec.Field("projectName"))
	if name == "" {
		name = rec.ID
	}

	m.pendingRecordID = rec.ID
	m.confirm = modal.New(modal.Config{
		Title:          "删除记录",
		Message:        "确定要删除「" + name + "」吗？此操作不可撤销。",
		ConfirmVariant: modal.ButtonDanger,
	})
	m.confirm.SetSize(m.width, m.height)
	m.view = ViewDeleteRecord
	return m, nil
}

func (m Model) openDeleteColumnConfirm() (mode.Controller, tea.Cmd) {
	col, ok := m.table.ColumnAt(m.selectedCol)
	if !ok {
		return m, nil
	}
	if col.Required {
		m.toast = m.toast.Show("必填列不能删除", toaster.StyleWarn)
		return m, toaster.ScheduleDismiss(toastDuration)
	}

	m.pendingColumnKey = col.Key
	m.confirm = modal.New(modal.Config{
		Title:          "删除列",
		Message:        "确定要删除列「" + col.Label + "」吗？记录中的数据将不再显示。",
		ConfirmVariant: modal.ButtonDanger,
	})
	m.confirm.SetSize(m.width, m.height)
	m.view = ViewDeleteColumn
	return m, nil
}

func (m Model) openAddColumnModal() (mode.Controller, tea.Cmd) {
	m.colModal = modal.New(modal.Config{
		Title: "新增列",
		Inputs: []modal.InputConfig{{
			Key:         "label",
			Label:       "列名称",
			Placeholder: "例如：钻孔深度(m)",
			Required:    true,
			MaxLength:   50,
		}},
	})
	m.colModal.SetSize(m.width, m.height)
	m.view = ViewAddColumn
	return m, m.colModal.Init()
}

func (m Model) openExtractModal() (mode.Controller, tea.Cmd) {
	if m.services.Extractor == nil {
		m.toast = m.toast.Show("未配置 Gemini API 密钥", toaster.StyleWarn)
		return m, toaster.ScheduleDismiss(toastDuration)
	}

	m.extractModal = modal.New(modal.Config{
		Title:   "AI 提取",
		Message: "粘贴项目描述，自动填充表单字段。",
		Inputs: []modal.InputConfig{{
			Key:         "text",
			Label:       "描述文本",
			Placeholder: "兰新铁路某隧道物探，大纲量12.5km…",
			Required:    true,
		}},
		MinWidth: 56,
	})
	m.extractModal.SetSize(m.width, m.height)
	m.view = ViewExtract
	return m, m.extractModal.Init()
}

func (m Model) openStatsFieldsModal() (mode.Controller, tea.Cmd) {
	m.statsModal = modal.New(modal.Config{
		Title:   "统计字段",
		Message: "输入列标识（key），例如 method、outlineQty。",
		Inputs: []modal.InputConfig{
			{
				Key:      "category",
				Label:    "分组字段",
				Value:    m.services.Config.Stats.CategoryField,
				Required: true,
			},
			{
				Key:      "sum",
				Label:    "合计字段",
				Value:    m.services.Config.Stats.SumField,
				Required: true,
			},
		},
	})
	m.statsModal.SetSize(m.width, m.height)
	m.view = ViewStatsFields
	return m, m.statsModal.Init()
}

// handleSubmit dispatches a modal submit based on the active overlay.
func (m Model) handleSubmit(msg modal.SubmitMsg) (mode.Controller, tea.Cmd) {
	switch m.view {
	case ViewRecordForm:
		fields := m.form.ParseValues(msg.Values)
		if m.form.IsEdit() {
			if _, ok := m.services.Tracker.UpdateRecord(m.form.RecordID(), fields); !ok {
				m.view = ViewBoard
				m.toast = m.toast.Show("记录不存在，可能已被删除", toaster.StyleError)
				return m, toaster.ScheduleDismiss(toastDuration)
			}
			m.toast = m.toast.Show("记录已更新", toaster.StyleSuccess)
		} else {
			m.services.Tracker.CreateRecord(fields)
			m.selectedRow = 0
			m.toast = m.toast.Show("记录已创建", toaster.StyleSuccess)
		}
		m.view = ViewBoard
		m.refresh()
		return m, toaster.ScheduleDismiss(toastDuration)

	case ViewAddColumn:
		if _, ok := m.services.Tracker.AddColumn(msg.Values["label"]); !ok {
			m.toast = m.toast.Show("列名称不能为空", toaster.StyleError)
		} else {
			m.toast = m.toast.Show("已新增列", toaster.StyleSuccess)
		}
		m.view = ViewBoard
		m.refresh()
		return m, toaster.ScheduleDismiss(toastDuration)

	case ViewDeleteRecord:
		if m.services.Tracker.DeleteRecord(m.pendingRecordID) {
			m.toast = m.toast.Show("记录已删除", toaster.StyleSuccess)
		} else {
			m.toast = m.toast.Show("记录不存在", toaster.StyleError)
		}
		m.pendingRecordID = ""
		m.view = ViewBoard
		m.refresh()
		return m, toaster.ScheduleDismiss(toastDuration)

	case ViewDeleteColumn:
		if m.services.Tracker.RemoveColumn(m.pendingColumnKey) {
			m.toast = m.toast.Show("列已删除", toaster.StyleSuccess)
		} else {
			m.toast = m.toast.Show("该列不能删除", toaster.StyleError)
		}
		m.pendingColumnKey = ""
		m.view = ViewBoard
		m.refresh()
		return m, toaster.ScheduleDismiss(toastDuration)

	case ViewExtract:
		text := msg.Values["text"]
		m.view = ViewExtractWait
		return m, m.extractCmd(text)

	case ViewStatsFields:
		m.services.Config.Stats.CategoryField = strings.TrimSpace(msg.Values["category"])
		m.services.Config.Stats.SumField = strings.TrimSpace(msg.Values["sum"])
		m.view = ViewBoard

		if m.services.ConfigPath != "" {
			if err := config.SaveStats(m.services.ConfigPath, m.services.Config.Stats); err != nil {
				log.ErrorErr(log.CatConfig, "saving stats fields failed", err)
				m.toast = m.toast.Show("统计字段已更新（保存失败）", toaster.StyleWarn)
				return m, toaster.ScheduleDismiss(toastDuration)
			}
		}
		m.toast = m.toast.Show("统计字段已更新", toaster.StyleSuccess)
		return m, toaster.ScheduleDismiss(toastDuration)
	}

	return m, nil
}

func (m Model) handleExtractResult(msg extractResultMsg) (mode.Controller, tea.Cmd) {
	if m.view != ViewExtractWait {
		// User backed out while the request was in flight
		return m, nil
	}

	if msg.err != nil {
		log.ErrorErr(log.CatExtract, "extraction failed", msg.err)
		m.view = ViewBoard
		m.toast = m.toast.Show("提取失败: "+msg.err.Error(), toaster.StyleError)
		return m, toaster.ScheduleDismiss(toastDuration)
	}

	m.form = recordform.NewCreateWithFields(m.columns, msg.fields)
	m.form.SetSize(m.width, m.height)
	m.view = ViewRecordForm
	return m, m.form.Init()
}

func (m Model) extractCmd(text string) tea.Cmd {
	extractor := m.services.Extractor
	columns := m.columns
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
		defer cancel()

		fields, err := extractor.Extract(ctx, text, columns)
		return extractResultMsg{fields: fields, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	dir := m.services.Config.ExportDir
	records := m.records
	columns := m.columns
	return func() tea.Msg {
		path, err := export.WriteFile(dir, records, columns, time.Now())
		return exportDoneMsg{path: path, err: err}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	tracker := m.services.Tracker
	return func() tea.Msg {
		return reloadDoneMsg{err: tracker.Reload()}
	}
}

// statsSummary computes the dashboard summary from the configured fields.
func (m Model) statsSummary() stats.Summary {
	return m.services.Tracker.Stats(stats.Options{
		CategoryField: m.services.Config.Stats.CategoryField,
		SumField:      m.services.Config.Stats.SumField,
	})
}
