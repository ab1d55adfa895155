package freeze

import (
	"strconv"
	"strings"

	"tablefreeze/pkg/html"
)

// Attributes carrying the requested freeze counts on a managed table.
const (
	AttrFreezeRows = "data-freeze-rows"
	AttrFreezeCols = "data-freeze-cols"
)

// Zone is the resolved frozen region of a table: which cells freeze on
// each axis and where the visual boundary of each axis lies.
//
// A cell freezes when its origin is inside the zone; its span then leaks
// freeze status to the cell's full extent, which is why the boundary
// index can exceed the nominal freeze limit.
type Zone struct {
	// RowLimit is the number of leading logical rows frozen: all header
	// rows plus the requested body row count. ColLimit is the number of
	// leading logical columns frozen.
	RowLimit int
	ColLimit int

	// RowBoundary/ColBoundary are the highest logical indices covered by
	// any frozen cell's extent, or -1 when the axis is disabled. The
	// "last frozen" divider is drawn on cells reaching these indices.
	RowBoundary int
	ColBoundary int

	byRow map[*Cell]bool
	byCol map[*Cell]bool
}

// ResolveZone computes the frozen zone of a matrix. rowFreeze counts body
// rows frozen beyond the always-frozen header rows; colFreeze counts
// leading columns. Negative counts clamp to 0; a zero limit disables the
// axis entirely.
func ResolveZone(m *Matrix, rowFreeze, colFreeze int) *Zone {
	if rowFreeze < 0 {
		rowFreeze = 0
	}
	if colFreeze < 0 {
		colFreeze = 0
	}

	z := &Zone{
		byRow: make(map[*Cell]bool),
		byCol: make(map[*Cell]bool),
	}

	z.RowLimit = m.HeaderRows + rowFreeze
	if z.RowLimit > m.Rows {
		z.RowLimit = m.Rows
	}
	z.ColLimit = colFreeze
	if z.ColLimit > m.Cols {
		z.ColLimit = m.Cols
	}

	z.RowBoundary = z.RowLimit - 1
	z.ColBoundary = z.ColLimit - 1

	for _, c := range m.Cells {
		if z.RowLimit > 0 && c.Row < z.RowLimit {
			z.byRow[c] = true
			if end := c.Row + c.RowSpan - 1; end > z.RowBoundary {
				z.RowBoundary = end
			}
		}
		if z.ColLimit > 0 && c.Col < z.ColLimit {
			z.byCol[c] = true
			if end := c.Col + c.ColSpan - 1; end > z.ColBoundary {
				z.ColBoundary = end
			}
		}
	}

	return z
}

// FrozenByRow reports whether the cell belongs to the frozen leading rows.
func (z *Zone) FrozenByRow(c *Cell) bool { return z.byRow[c] }

// FrozenByCol reports whether the cell belongs to the frozen leading
// columns.
func (z *Zone) FrozenByCol(c *Cell) bool { return z.byCol[c] }

// IsCorner reports whether the cell is frozen on both axes.
func (z *Zone) IsCorner(c *Cell) bool { return z.byRow[c] && z.byCol[c] }

// Frozen reports whether the cell is frozen on either axis.
func (z *Zone) Frozen(c *Cell) bool { return z.byRow[c] || z.byCol[c] }

// FrozenRowCount returns the number of cells frozen by row.
func (z *Zone) FrozenRowCount() int { return len(z.byRow) }

// FrozenColCount returns the number of cells frozen by column.
func (z *Zone) FrozenColCount() int { return len(z.byCol) }

// FreezeRows reads the requested frozen body-row count from the table's
// attributes. Missing, non-numeric and negative values all mean 0.
func FreezeRows(table *html.Node) int {
	return countAttr(table, AttrFreezeRows)
}

// FreezeCols reads the requested frozen-column count from the table's
// attributes. Missing, non-numeric and negative values all mean 0.
func FreezeCols(table *html.Node) int {
	return countAttr(table, AttrFreezeCols)
}

func countAttr(table *html.Node, name string) int {
	raw, ok := table.GetAttribute(name)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
