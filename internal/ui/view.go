package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nixtop/internal/nixps"
	"github.com/five82/nixtop/internal/state"
	"github.com/five82/nixtop/internal/tree"
)

const (
	pidWidth     = 8
	versionWidth = 14
	timeWidth    = 8
	minPaneWidth = 24
)

// panes holds the outer dimensions of the table and tree boxes.
type panes struct {
	tableW, tableH int
	treeW, treeH   int
}

// renderMain renders header, body and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the status line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := styles.FaintText.Render(" · ")

	parts := []string{styles.Logo.Render("nixtop")}
	if m.source != "" {
		parts = append(parts, styles.MutedText.Render(m.source))
	}

	visible := len(m.state.Visible())
	total := len(m.state.Builds)
	count := fmt.Sprintf("%d builds", total)
	if m.state.Filter != "" {
		count = fmt.Sprintf("%d/%d builds", visible, total)
	}
	parts = append(parts, styles.Text.Render(count))

	interval := styles.FaintText.Render("- ") +
		styles.AccentText.Render(strconv.FormatInt(m.state.Interval.Milliseconds(), 10)+"ms") +
		styles.FaintText.Render(" +")
	parts = append(parts, interval)

	if m.state.HasData() {
		parts = append(parts, styles.SuccessText.Render("updated "+m.state.LastUpdated.Format("15:04:05")))
	}

	switch {
	case m.state.IsOffline():
		parts = append(parts, styles.DangerText.Render("offline: "+errorText(m.state.LastError)))
	case m.state.LastError != nil:
		parts = append(parts, styles.WarningText.Render("error: "+errorText(m.state.LastError)))
	}

	line := strings.Join(parts, sep)
	return styles.Header.Width(m.width).Render(truncateLine(line, m.width-2))
}

// renderBody lays out the table and tree panes.
func (m Model) renderBody() string {
	sizes := m.paneSizes()

	tablePane := m.renderTitledBox(m.tableTitle(),
		m.renderTable(sizes.tableW-2, sizes.tableH-2),
		sizes.tableW, sizes.tableH, true)
	treePane := m.renderTitledBox(m.treeTitle(),
		m.renderTree(),
		sizes.treeW, sizes.treeH, false)

	if m.state.Layout == state.LayoutVertical {
		return lipgloss.JoinVertical(lipgloss.Left, tablePane, treePane)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, treePane)
}

// renderFooter renders the filter prompt and key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var lines []string
	switch {
	case m.filtering:
		lines = append(lines, m.filter.View())
	case m.state.Filter != "":
		lines = append(lines, styles.MutedText.Render("filter: ")+styles.AccentText.Render(m.state.Filter))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m Model) bodyHeight() int {
	h := m.height - 1 - lipgloss.Height(m.renderFooter())
	return max(h, 6)
}

func (m Model) paneSizes() panes {
	body := m.bodyHeight()
	width := max(m.width, 2*minPaneWidth)

	if m.state.Layout == state.LayoutVertical {
		tableH := body / 2
		return panes{
			tableW: width, tableH: tableH,
			treeW: width, treeH: body - tableH,
		}
	}

	tableW := max(width*45/100, minPaneWidth)
	return panes{
		tableW: tableW, tableH: body,
		treeW: width - tableW, treeH: body,
	}
}

// resize recomputes the tree viewport after a size, layout or footer change.
func (m *Model) resize() {
	m.help.Width = m.width
	sizes := m.paneSizes()
	m.tree.Width = max(sizes.treeW-2, 0)
	m.tree.Height = max(sizes.treeH-2, 0)
	m.syncTree()
}

// syncTree loads the selected build into the tree viewport. Scrolling is
// reset only when the selected build changes.
func (m *Model) syncTree() {
	b, ok := m.state.Selected()
	if !ok {
		m.treeFor = ""
		m.tree.SetContent("")
		m.tree.GotoTop()
		return
	}
	m.tree.SetContent(m.treeContent(b, m.tree.Width))
	if b.Derivation != m.treeFor {
		m.treeFor = b.Derivation
		m.tree.GotoTop()
	}
}

func (m Model) tableTitle() string {
	if m.state.Filter != "" {
		return fmt.Sprintf("Builds (%d/%d)", len(m.state.Visible()), len(m.state.Builds))
	}
	return fmt.Sprintf("Builds (%d)", len(m.state.Builds))
}

func (m Model) treeTitle() string {
	if b, ok := m.state.Selected(); ok {
		return b.Name()
	}
	return "Processes"
}

// renderTable renders the build rows that fit into height, keeping the
// selected row in view.
func (m Model) renderTable(width, height int) string {
	styles := m.theme.Styles()

	visible := m.state.Visible()
	if len(visible) == 0 {
		return styles.MutedText.Render(m.emptyTableText())
	}

	pkgWidth := max(width-pidWidth-versionWidth-timeWidth-3, 8)
	header := styles.ColumnHeader.Render(
		fitCellRight("PID", pidWidth) + " " +
			fitCell("Package", pkgWidth) + " " +
			fitCell("Version", versionWidth) + " " +
			fitCellRight("Time", timeWidth))

	rows := max(height-1, 1)
	selected, hasSelection := m.state.SelectedIndex()
	start := 0
	if hasSelection && selected >= rows {
		start = selected - rows + 1
	}
	end := min(start+rows, len(visible))

	now := m.now()
	lines := []string{header}
	for i := start; i < end; i++ {
		b := visible[i]
		row := fitCellRight(strconv.Itoa(b.NixPID), pidWidth) + " " +
			fitCell(b.PName(), pkgWidth) + " " +
			fitCell(b.Version(), versionWidth) + " " +
			fitCellRight(humanizeDuration(b.Elapsed(now)), timeWidth)
		if hasSelection && i == selected {
			lines = append(lines, styles.Selected.Width(width).Render(row))
			continue
		}
		lines = append(lines, styles.Text.Render(row))
	}
	return strings.Join(lines, "\n")
}

func (m Model) emptyTableText() string {
	switch {
	case len(m.state.Builds) > 0:
		return "No builds match the filter"
	case !m.state.HasData() && m.state.LastError == nil:
		return "Waiting for " + m.sourceName() + "..."
	case !m.state.HasData():
		return "No data from " + m.sourceName()
	default:
		return "No active builds"
	}
}

func (m Model) sourceName() string {
	if m.source == "" {
		return "nix ps"
	}
	return m.source
}

// renderTree renders the tree viewport or a placeholder.
func (m Model) renderTree() string {
	if _, ok := m.state.Selected(); !ok {
		return m.theme.Styles().MutedText.Render("Select a build")
	}
	return m.tree.View()
}

// treeContent is the text loaded into the tree viewport for b.
func (m Model) treeContent(b nixps.Build, width int) string {
	styles := m.theme.Styles()

	cpu := humanizeDuration(b.CPUTime())
	if cpu == "" {
		cpu = "<1s"
	}
	meta := []string{
		fmt.Sprintf("pid %d", b.MainPID),
		fmt.Sprintf("nix %d", b.NixPID),
		"cpu " + cpu,
	}
	if elapsed := humanizeDuration(b.Elapsed(m.now())); elapsed != "" {
		meta = append(meta, "running "+elapsed)
	}

	lines := []string{
		styles.AccentText.Render(truncateLine(b.Derivation, width)),
		styles.MutedText.Render(truncateLine(strings.Join(meta, " · "), width)),
		"",
	}

	rendered := tree.Render(b.Processes, b.MainPID)
	if len(rendered) == 0 {
		lines = append(lines, styles.FaintText.Render("no processes"))
	}
	for _, line := range rendered {
		lines = append(lines, truncateLine(line, width))
	}
	return strings.Join(lines, "\n")
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncateLine(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := borderStyle.Render("┌"+strings.Repeat("─", leftPad)) +
		titleStyle.Render(" "+title+" ") +
		borderStyle.Render(strings.Repeat("─", rightPad)+"┐")
	bottomBorder := borderStyle.Render("└" + strings.Repeat("─", innerWidth) + "┘")

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth)
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight+2)
	lines = append(lines, topBorder)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines, borderStyle.Render("│")+contentStyle.Render(line)+borderStyle.Render("│"))
	}
	lines = append(lines, bottomBorder)
	return strings.Join(lines, "\n")
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return strings.Join(strings.Fields(err.Error()), " ")
}
