package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Column describes one table column.
type Column struct {
	Header string
	Align  Alignment
	Style  lipgloss.Style
}

// Table renders rows under a header line with muted rule borders and no
// vertical lines. A width of zero lets the table size itself.
func Table(columns []Column, rows [][]string, width int) string {
	if len(rows) == 0 {
		return ""
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		BorderStyle(Muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if col < len(columns) {
				style = columns[col].Style
				if columns[col].Align == AlignRight {
					style = style.Align(lipgloss.Right)
				}
			}
			if row == table.HeaderRow {
				style = style.Inherit(Bold)
			}
			if col < len(columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(rows...)

	if width > 0 {
		tbl = tbl.Width(width)
	}
	return tbl.Render()
}
