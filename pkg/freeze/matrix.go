package freeze

import (
	"strconv"
	"strings"

	"tablefreeze/pkg/html"
)

// Cell is one rendered table cell and the logical-grid rectangle it
// occupies. Row/Col are the origin; the cell covers
// [Row, Row+RowSpan) × [Col, Col+ColSpan).
type Cell struct {
	Node    *html.Node
	Row     int
	Col     int
	RowSpan int
	ColSpan int
	Header  bool
}

// Matrix is the dense logical grid of a table with all spans resolved.
// Grid positions occupied by a spanning cell all reference the same
// *Cell; positions left uncovered by ragged markup are nil.
type Matrix struct {
	Table      *html.Node
	Grid       [][]*Cell
	Cells      []*Cell // document order
	Rows       int
	Cols       int
	HeaderRows int // leading header rows, always 0..HeaderRows-1
}

// BuildMatrix resolves a table's rowspan/colspan declarations into a
// logical grid. Rows are processed top to bottom; each cell is placed at
// the first free column past any position claimed by a rowspan from an
// earlier row, then stamped over its full rectangle. Overlapping explicit
// spans resolve as first cell wins: a later cell never overwrites a
// claimed position.
func BuildMatrix(table *html.Node) *Matrix {
	m := &Matrix{Table: table}

	rows, headerRows := collectRows(table)
	m.HeaderRows = headerRows

	grid := make([][]*Cell, 0, len(rows))
	ensureRow := func(r int) {
		for len(grid) <= r {
			grid = append(grid, make([]*Cell, 0))
		}
	}

	for rowIdx, rowNode := range rows {
		ensureRow(rowIdx)
		colIdx := 0
		for _, cellNode := range rowNode.ElementChildren() {
			if cellNode.TagName != "td" && cellNode.TagName != "th" {
				continue
			}

			// Skip columns occupied by rowspans from previous rows
			for colIdx < len(grid[rowIdx]) && grid[rowIdx][colIdx] != nil {
				colIdx++
			}

			cell := &Cell{
				Node:    cellNode,
				Row:     rowIdx,
				Col:     colIdx,
				RowSpan: spanAttr(cellNode, "rowspan"),
				ColSpan: spanAttr(cellNode, "colspan"),
				Header:  rowIdx < headerRows,
			}
			m.Cells = append(m.Cells, cell)

			for r := 0; r < cell.RowSpan; r++ {
				ensureRow(rowIdx + r)
				for c := 0; c < cell.ColSpan; c++ {
					for len(grid[rowIdx+r]) <= colIdx+c {
						grid[rowIdx+r] = append(grid[rowIdx+r], nil)
					}
					if grid[rowIdx+r][colIdx+c] == nil {
						grid[rowIdx+r][colIdx+c] = cell
					}
				}
			}

			colIdx += cell.ColSpan
		}
	}

	// Normalize to a dense R×C grid
	m.Rows = len(grid)
	for _, row := range grid {
		if len(row) > m.Cols {
			m.Cols = len(row)
		}
	}
	for i, row := range grid {
		for len(row) < m.Cols {
			row = append(row, nil)
		}
		grid[i] = row
	}
	m.Grid = grid

	return m
}

// collectRows flattens the table's row structure (row groups and bare
// rows) into document order and determines how many leading rows are
// header rows. Rows inside <thead> are headers; when a table has no
// <thead>, a leading run of all-<th> rows is treated the same way.
func collectRows(table *html.Node) (rows []*html.Node, headerRows int) {
	var inHead []bool
	for _, child := range table.ElementChildren() {
		switch child.TagName {
		case "thead", "tbody", "tfoot":
			for _, tr := range child.ElementChildren() {
				if tr.TagName == "tr" {
					rows = append(rows, tr)
					inHead = append(inHead, child.TagName == "thead")
				}
			}
		case "tr":
			rows = append(rows, child)
			inHead = append(inHead, false)
		}
	}

	hasHead := false
	for _, h := range inHead {
		if h {
			hasHead = true
			break
		}
	}

	if hasHead {
		for i, h := range inHead {
			if !h {
				return rows, i
			}
		}
		return rows, len(rows)
	}

	// No <thead>: a leading run of all-<th> rows acts as the header.
	for _, row := range rows {
		if !allHeaderCells(row) {
			break
		}
		headerRows++
	}
	return rows, headerRows
}

func allHeaderCells(row *html.Node) bool {
	cells := 0
	for _, c := range row.ElementChildren() {
		switch c.TagName {
		case "th":
			cells++
		case "td":
			return false
		}
	}
	return cells > 0
}

// spanAttr parses a rowspan/colspan attribute. Missing, non-numeric and
// non-positive values all clamp to 1.
func spanAttr(node *html.Node, name string) int {
	raw, ok := node.GetAttribute(name)
	if !ok {
		return 1
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// OwnerAt returns the cell covering logical position (row, col), or nil.
func (m *Matrix) OwnerAt(row, col int) *Cell {
	if row < 0 || row >= m.Rows || col < 0 || col >= m.Cols {
		return nil
	}
	return m.Grid[row][col]
}

// ColumnCell returns a representative cell for measuring the width of a
// logical column: the first single-column cell originating there, or
// failing that any cell covering the column.
func (m *Matrix) ColumnCell(col int) *Cell {
	for _, c := range m.Cells {
		if c.Col == col && c.ColSpan == 1 {
			return c
		}
	}
	for row := 0; row < m.Rows; row++ {
		if c := m.Grid[row][col]; c != nil {
			return c
		}
	}
	return nil
}

// RowCell returns a representative cell for measuring the height of a
// logical row: the first single-row cell originating there, or failing
// that any cell covering the row.
func (m *Matrix) RowCell(row int) *Cell {
	for _, c := range m.Cells {
		if c.Row == row && c.RowSpan == 1 {
			return c
		}
	}
	if row >= 0 && row < m.Rows {
		for col := 0; col < m.Cols; col++ {
			if c := m.Grid[row][col]; c != nil {
				return c
			}
		}
	}
	return nil
}
