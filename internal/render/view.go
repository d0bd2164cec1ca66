package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/jarv/ytgoat/internal/columns"
	"github.com/jarv/ytgoat/internal/themes"
)

const maxCellWidth = 48

type Styles struct {
	Header      lipgloss.Style
	Cell        lipgloss.Style
	Selected    lipgloss.Style
	Cursor      lipgloss.Style
	Border      lipgloss.Style
	Muted       lipgloss.Style
	CardBorder  lipgloss.Color
	CardCursor  lipgloss.Color
	CardsPerRow int
}

func NewStyles(theme *themes.Theme, highlightStyle string, cardsPerRow int) Styles {
	if cardsPerRow < 1 {
		cardsPerRow = 1
	}

	s := Styles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.TitleColor)).Padding(0, 1),
		Cell:        lipgloss.NewStyle().Padding(0, 1),
		Selected:    lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color(theme.SelectedItemColor)),
		Border:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.BorderColor)),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(theme.MutedColor)),
		CardBorder:  lipgloss.Color(theme.BorderColor),
		CardCursor:  lipgloss.Color(theme.TitleColor),
		CardsPerRow: cardsPerRow,
	}

	switch highlightStyle {
	case "underline", "prefix-underline":
		s.Cursor = lipgloss.NewStyle().Padding(0, 1).Underline(true)
	case "prefix":
		s.Cursor = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	default:
		s.Cursor = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color(theme.TitleColor)).Foreground(lipgloss.Color(theme.TitleColorFg))
	}
	return s
}

// Window selects the units that fit on screen
type Window struct {
	Cursor int
	Offset int
	Limit  int // units to render, 0 means all
	Width  int
}

func (w Window) bounds(n int) (int, int) {
	start := w.Offset
	if start < 0 || start >= n {
		start = 0
	}
	end := n
	if w.Limit > 0 && start+w.Limit < n {
		end = start + w.Limit
	}
	return start, end
}

// Render draws the frame with hidden cells left out
func (f *Frame) Render(s Styles, w Window) string {
	if f.Empty() {
		return s.Muted.Render(PlaceholderText)
	}
	if f.mode == ModeGrid {
		return f.renderGrid(s, w)
	}
	return f.renderTable(s, w)
}

func (f *Frame) renderTable(s Styles, w Window) string {
	start, end := w.bounds(len(f.units))
	visible := f.units[start:end]

	rows := make([][]string, len(visible))
	for i, u := range visible {
		cells := visibleCells(u)
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = truncate(c.Text, maxCellWidth)
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers(f.VisibleHeaders()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			if row < 0 || row >= len(visible) {
				return s.Cell
			}
			unitIndex := start + row
			switch {
			case unitIndex == w.Cursor && visible[row].Selected:
				return s.Cursor.Inherit(s.Selected)
			case unitIndex == w.Cursor:
				return s.Cursor
			case visible[row].Selected:
				return s.Selected
			default:
				return s.Cell
			}
		})

	if w.Width > 0 {
		t = t.Width(w.Width)
	}

	return t.Render()
}

func (f *Frame) renderGrid(s Styles, w Window) string {
	start, end := w.bounds(len(f.units))

	perRow := s.CardsPerRow
	if perRow < 1 {
		perRow = 1
	}
	cardWidth := 40
	if w.Width > 0 {
		cardWidth = w.Width/perRow - 2
		if cardWidth < 16 {
			cardWidth = 16
		}
	}

	var rows []string
	var current []string
	for i := start; i < end; i++ {
		current = append(current, f.renderCard(s, f.units[i], i == w.Cursor, cardWidth))
		if len(current) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (f *Frame) renderCard(s Styles, u Unit, cursor bool, width int) string {
	var b strings.Builder
	textWidth := width - 2

	var title string
	var lines []string
	for _, c := range visibleCells(u) {
		switch c.Column {
		case columns.Title:
			title = c.Text
		case columns.Index:
			lines = append(lines, "#"+c.Text)
		case columns.Views:
			lines = append(lines, c.Text+" views")
		case columns.Description:
			lines = append(lines, s.Muted.Render(truncate(c.Text, textWidth*3)))
		default:
			if c.Text == "" {
				continue
			}
			lines = append(lines, s.Muted.Render(c.Column+": ")+truncate(c.Text, textWidth))
		}
	}

	titleStyle := lipgloss.NewStyle().Bold(true)
	if u.Selected {
		titleStyle = titleStyle.Foreground(s.Selected.GetForeground())
		title = "✓ " + title
	}
	if title != "" {
		b.WriteString(titleStyle.Render(truncate(title, textWidth)))
		if len(lines) > 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString(strings.Join(lines, "\n"))

	border := lipgloss.RoundedBorder()
	borderColor := s.CardBorder
	if cursor {
		border = lipgloss.ThickBorder()
		borderColor = s.CardCursor
	}

	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(borderColor).
		Width(width).
		Padding(0, 1).
		Render(b.String())
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
