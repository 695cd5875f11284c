package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"github.com/engitrack/engitrack/internal/log"
	"github.com/engitrack/engitrack/internal/stats"
	"github.com/engitrack/engitrack/internal/ui/markdown"
	"github.com/engitrack/engitrack/internal/ui/overlay"
	"github.com/engitrack/engitrack/internal/ui/styles"
)

const statsPanelHeight = 6

const helpText = `# 快捷键

## 导航
- **j/↓ k/↑** 选择记录
- **h/← l/→** 选择列

## 记录
- **enter** 编辑选中记录（或点击两次）
- **n** 新增记录
- **d** 删除选中记录
- **x** AI 提取：粘贴描述文本自动填充

## 表格
- **a** 新增列
- **ctrl+d** 删除选中列
- **e** 导出 CSV
- **s** 显示/隐藏统计面板
- **S** 设置统计字段
- **r** 重新加载数据

## 其他
- **ctrl+o** 退出登录
- **?** 关闭帮助
- **q** 退出程序
`

// View renders the board: title bar, optional stats panel, record table,
// footer, and any active overlay.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderTitleBar())
	if m.showStats {
		sections = append(sections, m.renderStatsPanel())
	}
	sections = append(sections, m.table.View(m.selectedRow, m.selectedCol, m.view == ViewBoard))
	sections = append(sections, m.renderFooter())

	boardView := lipgloss.JoinVertical(lipgloss.Left, sections...)
	boardView = m.toast.Overlay(boardView, m.width, m.height)

	switch m.view {
	case ViewHelp:
		return zone.Scan(m.renderHelpOverlay(boardView))
	case ViewRecordForm:
		return zone.Scan(m.form.Overlay(boardView))
	case ViewAddColumn:
		return zone.Scan(m.colModal.Overlay(boardView))
	case ViewDeleteRecord, ViewDeleteColumn:
		return zone.Scan(m.confirm.Overlay(boardView))
	case ViewExtract:
		return zone.Scan(m.extractModal.Overlay(boardView))
	case ViewStatsFields:
		return zone.Scan(m.statsModal.Overlay(boardView))
	case ViewExtractWait:
		return zone.Scan(m.renderExtractWait(boardView))
	}

	return zone.Scan(boardView)
}

// tableHeight returns the height left for the table after the title bar,
// footer, and optional stats panel.
func (m Model) tableHeight() int {
	h := m.height - 2 // title bar and footer
	if m.showStats {
		h -= statsPanelHeight
	}
	return max(h, 3)
}

func (m Model) renderTitleBar() string {
	title := styles.TitleStyle.Render("工程物探项目跟踪")
	session := m.services.Tracker.Session()
	right := styles.SubtitleStyle.Render(
		fmt.Sprintf("%s · %d 条记录", session.Username, len(m.records)))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + right
}

func (m Model) renderStatsPanel() string {
	summary := m.statsSummary()

	total := fmt.Sprintf("项目总数 %s    %s合计 %s",
		styles.StatValueStyle.Render(fmt.Sprintf("%d", summary.TotalProjects)),
		m.columnLabel(m.services.Config.Stats.SumField),
		styles.StatValueStyle.Render(trimFloat(summary.Total)))

	lines := []string{total, ""}
	lines = append(lines, bucketLine("按"+m.columnLabel(m.services.Config.Stats.CategoryField), summary.Categories))
	lines = append(lines, bucketLine("按录入人", summary.Creators))

	inner := m.width - 4
	for i := range lines {
		lines[i] = truncate.StringWithTail(lines[i], uint(max(inner, 0)), "…")
	}

	return styles.PanelStyle.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

// columnLabel resolves a field key to its display label, falling back to the
// key itself for removed columns.
func (m Model) columnLabel(key string) string {
	for _, col := range m.columns {
		if col.Key == key {
			return col.Label
		}
	}
	return key
}

func bucketLine(label string, buckets []stats.Bucket) string {
	parts := make([]string, 0, len(buckets))
	for _, b := range buckets {
		parts = append(parts, fmt.Sprintf("%s %s", b.Name,
			styles.StatValueStyle.Render(fmt.Sprintf("%d", b.Count))))
	}
	if len(parts) == 0 {
		return styles.SubtitleStyle.Render(label + ": 暂无数据")
	}
	return styles.SubtitleStyle.Render(label+": ") + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	help := "n 新增 · enter 编辑 · d 删除 · x AI提取 · a 加列 · e 导出 · s 统计 · ? 帮助 · q 退出"
	return styles.HelpStyle.Render(
		truncate.StringWithTail(help, uint(max(m.width, 0)), "…"))
}

// renderHelp renders the help markdown, falling back to the raw text when
// glamour fails.
func (m Model) renderHelp() string {
	width := min(m.width-8, 60)
	renderer, err := markdown.New(width, m.services.Config.UI.MarkdownStyle)
	if err == nil {
		rendered, rerr := renderer.Render(helpText)
		if rerr == nil {
			return rendered
		}
		err = rerr
	}
	log.ErrorErr(log.CatUI, "help render failed", err)
	return helpText
}

func (m Model) renderHelpOverlay(bg string) string {
	help := m.helpView
	if help == "" {
		help = m.renderHelp()
	}

	panel := styles.FocusedPanelStyle.Render(help)
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, panel, bg)
}

func (m Model) renderExtractWait(bg string) string {
	panel := styles.FocusedPanelStyle.Render(
		"正在提取字段…\n\n" + styles.SubtitleStyle.Render("esc 取消"))
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, panel, bg)
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
