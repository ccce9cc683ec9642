// Package columns renders the board as one column per stage: a header with
// the item count, the cards in working-copy order, and the drop indicator
// while a drag is in flight.
package columns

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/standup/pkg/board"
	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/stage"
	"tableflip.dev/standup/pkg/tui/theme"
)

// Column pairs a stage with the cards currently inside it.
type Column struct {
	Meta  stage.Meta
	Items []*item.Item
}

// Cursor addresses one card on the board by column and row.
type Cursor struct {
	Stage int
	Item  int
}

const (
	minColumnWidth = 12
	columnGutter   = 2
)

// Model holds the board view state.
type Model struct {
	theme theme.BoardTheme

	width  int
	height int

	cols   []Column
	cursor Cursor

	draggedID string
	indicator *board.Indicator

	colWidth int
	scroll   []int
}

// New returns an empty board view.
func New(th theme.BoardTheme) *Model {
	return &Model{theme: th}
}

// SetSize updates the space available to the whole board.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetColumns replaces the rendered stages and cards.
func (m *Model) SetColumns(cols []Column) {
	m.cols = cols
	if len(m.scroll) != len(cols) {
		m.scroll = make([]int, len(cols))
	}
}

// SetCursor moves the highlighted card.
func (m *Model) SetCursor(c Cursor) { m.cursor = c }

// SetDrag records the in-flight drag: the grabbed card renders as a ghost and
// the indicator renders as an insertion line. Both may be empty when no drag
// is active.
func (m *Model) SetDrag(draggedID string, ind *board.Indicator) {
	m.draggedID = draggedID
	m.indicator = ind
}

// View renders the columns side by side.
func (m *Model) View() string {
	if len(m.cols) == 0 {
		return m.theme.Empty.Render("no stages configured")
	}
	m.layout()
	rendered := make([]string, 0, len(m.cols)*2-1)
	for i := range m.cols {
		if i > 0 {
			rendered = append(rendered, strings.Repeat(" ", columnGutter))
		}
		rendered = append(rendered, m.renderColumn(i))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) layout() {
	n := len(m.cols)
	w := (m.width - columnGutter*(n-1)) / n
	if w < minColumnWidth {
		w = minColumnWidth
	}
	m.colWidth = w
}

func (m *Model) renderColumn(i int) string {
	col := m.cols[i]
	accent := m.theme.StageAccent(i)

	count := fmt.Sprintf("(%d)", len(col.Items))
	countStyle := m.theme.Count
	if col.Meta.Limit > 0 {
		count = fmt.Sprintf("(%d/%d)", len(col.Items), col.Meta.Limit)
		if len(col.Items) > col.Meta.Limit {
			countStyle = m.theme.OverLimit
		}
	}
	nameWidth := m.colWidth - lipgloss.Width(count) - 1
	if nameWidth < 1 {
		nameWidth = 1
	}
	name := truncate.String(col.Meta.Name, uint(nameWidth))
	header := m.theme.Header.Foreground(accent).Render(name) + " " + countStyle.Render(count)
	rule := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("─", m.colWidth))

	lines, focus := m.contentLines(i)
	rows := m.height - 2
	if rows < 1 {
		rows = 1
	}
	m.ensureVisible(i, focus, rows, len(lines))
	start := m.scroll[i]
	if start > len(lines) {
		start = len(lines)
	}
	end := start + rows
	if end > len(lines) {
		end = len(lines)
	}

	column := append([]string{header, rule}, lines[start:end]...)
	return lipgloss.NewStyle().Width(m.colWidth).Render(strings.Join(column, "\n"))
}

// contentLines renders the card rows for one column and reports which row, if
// any, must stay visible when the column scrolls.
func (m *Model) contentLines(i int) ([]string, int) {
	col := m.cols[i]

	indBefore, indAfter := -1, -1
	indEnd := false
	if m.indicator != nil {
		switch m.indicator.Kind {
		case board.TargetStage:
			indEnd = m.indicator.TargetID == col.Meta.Name
		case board.TargetItem:
			for idx, it := range col.Items {
				if it.ID != m.indicator.TargetID {
					continue
				}
				if m.indicator.Placement == board.PlaceBefore {
					indBefore = idx
				} else {
					indAfter = idx
				}
				break
			}
		}
	}

	focus := -1
	var lines []string
	for idx, it := range col.Items {
		if idx == indBefore {
			lines = append(lines, m.indicatorLine())
		}
		onCursor := i == m.cursor.Stage && idx == m.cursor.Item
		lines = append(lines, m.renderCard(it, onCursor))
		if onCursor {
			focus = len(lines) - 1
		}
		if idx == indAfter {
			lines = append(lines, m.indicatorLine())
		}
	}
	if indEnd {
		lines = append(lines, m.indicatorLine())
		focus = len(lines) - 1
	}
	if len(lines) == 0 {
		lines = append(lines, m.theme.Empty.Render("<empty>"))
	}
	return lines, focus
}

func (m *Model) renderCard(it *item.Item, onCursor bool) string {
	marker := "  "
	if onCursor {
		marker = "→ "
	}
	style := m.theme.Card
	switch {
	case it.ID == m.draggedID:
		style = m.theme.Ghost
	case onCursor:
		style = m.theme.Cursor
	}

	age := it.Age()
	textWidth := m.colWidth - lipgloss.Width(marker)
	if age != "" {
		textWidth -= lipgloss.Width(age) + 1
	}
	if textWidth < 1 {
		textWidth = 1
	}
	body := truncate.String(it.String(), uint(textWidth))
	if pad := textWidth - lipgloss.Width(body); pad > 0 {
		body += strings.Repeat(" ", pad)
	}
	line := marker + style.Render(body)
	if age != "" {
		line += " " + m.theme.Count.Render(age)
	}
	return line
}

func (m *Model) indicatorLine() string {
	return m.theme.Indicator.Render(strings.Repeat("╌", m.colWidth))
}

// ensureVisible clamps the column scroll and, when a row must stay on screen,
// shifts the window to include it.
func (m *Model) ensureVisible(i, line, rows, total int) {
	if len(m.scroll) != len(m.cols) {
		m.scroll = make([]int, len(m.cols))
	}
	maxStart := total - rows
	if maxStart < 0 {
		maxStart = 0
	}
	s := m.scroll[i]
	if s > maxStart {
		s = maxStart
	}
	if s < 0 {
		s = 0
	}
	if line >= 0 {
		if line < s {
			s = line
		}
		if line >= s+rows {
			s = line - rows + 1
		}
	}
	m.scroll[i] = s
}
