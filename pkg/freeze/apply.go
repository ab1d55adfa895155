package freeze

import (
	"tablefreeze/pkg/css"
	"tablefreeze/pkg/html"
)

// Marker classes stamped onto frozen cells. Corner cells carry only the
// corner class, never the individual row and column markers.
const (
	ClassFrozenRow    = "tf-frozen-row"
	ClassFrozenCol    = "tf-frozen-col"
	ClassFrozenCorner = "tf-frozen-corner"
	ClassBoundaryRow  = "tf-boundary-row"
	ClassBoundaryCol  = "tf-boundary-col"
)

var markerClasses = []string{
	ClassFrozenRow,
	ClassFrozenCol,
	ClassFrozenCorner,
	ClassBoundaryRow,
	ClassBoundaryCol,
}

// Clear strips every freeze marker class and sticky positioning property
// from the table's cells. Running Clear on an untouched table is a no-op.
func Clear(m *Matrix) {
	for _, c := range m.Cells {
		clearCell(c.Node)
	}
}

func clearCell(n *html.Node) {
	for _, cls := range markerClasses {
		n.RemoveClass(cls)
	}
	css.RemoveProperty(n, "position")
	css.RemoveProperty(n, "left")
	css.RemoveProperty(n, "top")
	css.RemoveProperty(n, "z-index")
}

// Apply clears the table and stamps the current zone and offsets onto it.
// Because every managed property is cleared first, applying the same
// inputs twice produces byte-identical attributes.
//
// tops overrides the zone's static top offsets when non-nil, which is how
// scroll-rebased sticky tops reach the DOM.
func Apply(m *Matrix, z *Zone, o *Offsets, tops []float64) {
	Clear(m)

	if tops == nil {
		tops = o.Tops
	}

	for _, c := range m.Cells {
		row := z.FrozenByRow(c)
		col := z.FrozenByCol(c)
		if !row && !col {
			continue
		}

		switch {
		case row && col:
			c.Node.AddClass(ClassFrozenCorner)
		case row:
			c.Node.AddClass(ClassFrozenRow)
		default:
			c.Node.AddClass(ClassFrozenCol)
		}

		css.SetProperty(c.Node, "position", "sticky")
		if col && c.Col < len(o.Lefts) {
			css.SetProperty(c.Node, "left", css.Px(o.Lefts[c.Col]))
		}
		if row && c.Row < len(tops) {
			css.SetProperty(c.Node, "top", css.Px(tops[c.Row]))
		}
		switch {
		case row && col:
			css.SetProperty(c.Node, "z-index", "3")
		case row:
			css.SetProperty(c.Node, "z-index", "2")
		default:
			css.SetProperty(c.Node, "z-index", "1")
		}

		if row && c.Row+c.RowSpan-1 == z.RowBoundary {
			c.Node.AddClass(ClassBoundaryRow)
		}
		if col && c.Col+c.ColSpan-1 == z.ColBoundary {
			c.Node.AddClass(ClassBoundaryCol)
		}
	}
}
