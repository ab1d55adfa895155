package freeze

import (
	"testing"

	"tablefreeze/pkg/css"
)

func applyFixture(t *testing.T) (*Matrix, *Zone, *Offsets) {
	t.Helper()
	table := parseTable(t, measuredTable)
	m := BuildMatrix(table)
	z := ResolveZone(m, 1, 2)
	o := ComputeOffsets(m, z, StyleMeasurer{})
	return m, z, o
}

func TestApplyMarkerClasses(t *testing.T) {
	m, z, o := applyFixture(t)
	Apply(m, z, o, nil)

	for _, c := range m.Cells {
		row := c.Row < 2
		col := c.Col < 2
		switch {
		case row && col:
			if !c.Node.HasClass(ClassFrozenCorner) {
				t.Errorf("cell (%d,%d) missing corner class", c.Row, c.Col)
			}
			if c.Node.HasClass(ClassFrozenRow) || c.Node.HasClass(ClassFrozenCol) {
				t.Errorf("corner cell (%d,%d) carries an individual marker", c.Row, c.Col)
			}
		case row:
			if !c.Node.HasClass(ClassFrozenRow) {
				t.Errorf("cell (%d,%d) missing row marker", c.Row, c.Col)
			}
		case col:
			if !c.Node.HasClass(ClassFrozenCol) {
				t.Errorf("cell (%d,%d) missing col marker", c.Row, c.Col)
			}
		default:
			for _, cls := range markerClasses {
				if c.Node.HasClass(cls) {
					t.Errorf("unfrozen cell (%d,%d) carries %s", c.Row, c.Col, cls)
				}
			}
		}
	}
}

func TestApplyStickyProperties(t *testing.T) {
	m, z, o := applyFixture(t)
	Apply(m, z, o, nil)

	corner := m.OwnerAt(0, 1)
	if v, _ := css.GetProperty(corner.Node, "position"); v != "sticky" {
		t.Errorf("position=%q, want sticky", v)
	}
	if v, _ := css.GetProperty(corner.Node, "left"); v != "50px" {
		t.Errorf("left=%q, want 50px", v)
	}
	if v, _ := css.GetProperty(corner.Node, "top"); v != "0px" {
		t.Errorf("top=%q, want 0px", v)
	}

	bodyRow := m.OwnerAt(1, 2) // frozen by row only
	if v, _ := css.GetProperty(bodyRow.Node, "top"); v != "30px" {
		t.Errorf("top=%q, want 30px", v)
	}
	if _, ok := css.GetProperty(bodyRow.Node, "left"); ok {
		t.Errorf("row-only cell should carry no left offset")
	}

	colOnly := m.OwnerAt(2, 0)
	if v, _ := css.GetProperty(colOnly.Node, "left"); v != "0px" {
		t.Errorf("left=%q, want 0px", v)
	}
	if _, ok := css.GetProperty(colOnly.Node, "top"); ok {
		t.Errorf("col-only cell should carry no top offset")
	}
}

func TestApplyBoundaryMarkers(t *testing.T) {
	m, z, o := applyFixture(t)
	Apply(m, z, o, nil)

	// Frozen rows 0-1 and columns 0-1: the boundary falls on cells
	// reaching logical row 1 and column 1.
	for _, c := range m.Cells {
		wantRowBoundary := c.Row < 2 && c.Row+c.RowSpan-1 == 1
		wantColBoundary := c.Col < 2 && c.Col+c.ColSpan-1 == 1
		if c.Node.HasClass(ClassBoundaryRow) != wantRowBoundary {
			t.Errorf("cell (%d,%d): boundary-row=%v, want %v",
				c.Row, c.Col, c.Node.HasClass(ClassBoundaryRow), wantRowBoundary)
		}
		if c.Node.HasClass(ClassBoundaryCol) != wantColBoundary {
			t.Errorf("cell (%d,%d): boundary-col=%v, want %v",
				c.Row, c.Col, c.Node.HasClass(ClassBoundaryCol), wantColBoundary)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	m, z, o := applyFixture(t)

	Apply(m, z, o, nil)
	first := snapshotAttrs(m)

	Apply(m, z, o, nil)
	second := snapshotAttrs(m)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("cell %d attributes drifted:\n  first:  %s\n  second: %s", i, first[i], second[i])
		}
	}
}

func snapshotAttrs(m *Matrix) []string {
	out := make([]string, len(m.Cells))
	for i, c := range m.Cells {
		cls, _ := c.Node.GetAttribute("class")
		style, _ := c.Node.GetAttribute("style")
		out[i] = "class=" + cls + " style=" + style
	}
	return out
}

func TestApplyPreservesUserStyleAndClass(t *testing.T) {
	table := parseTable(t, `<table data-freeze-cols="1">
		<tr><td class="total" style="color: red; width: 50px">a</td><td>b</td></tr>
	</table>`)
	m := BuildMatrix(table)
	z := ResolveZone(m, 0, 1)
	o := ComputeOffsets(m, z, StyleMeasurer{})

	Apply(m, z, o, nil)
	Clear(m)

	cell := m.OwnerAt(0, 0).Node
	if !cell.HasClass("total") {
		t.Errorf("user class lost")
	}
	if v, _ := css.GetProperty(cell, "color"); v != "red" {
		t.Errorf("user declaration lost, color=%q", v)
	}
	if _, ok := css.GetProperty(cell, "position"); ok {
		t.Errorf("managed property survived Clear")
	}
	for _, cls := range markerClasses {
		if cell.HasClass(cls) {
			t.Errorf("marker %s survived Clear", cls)
		}
	}
}

func TestApplyTopsOverride(t *testing.T) {
	m, z, o := applyFixture(t)

	Apply(m, z, o, []float64{50, 80})

	if v, _ := css.GetProperty(m.OwnerAt(0, 2).Node, "top"); v != "50px" {
		t.Errorf("top=%q, want 50px", v)
	}
	if v, _ := css.GetProperty(m.OwnerAt(1, 2).Node, "top"); v != "80px" {
		t.Errorf("top=%q, want 80px", v)
	}
	// Lefts are unaffected by the override.
	if v, _ := css.GetProperty(m.OwnerAt(0, 0).Node, "left"); v != "0px" {
		t.Errorf("left=%q, want 0px", v)
	}
}

func TestClearOnUntouchedTableIsNoop(t *testing.T) {
	table := parseTable(t, `<table><tr><td style="width: 10px">a</td></tr></table>`)
	m := BuildMatrix(table)

	before, _ := m.Cells[0].Node.GetAttribute("style")
	Clear(m)
	after, _ := m.Cells[0].Node.GetAttribute("style")

	if before != after {
		t.Errorf("Clear changed an untouched cell: %q -> %q", before, after)
	}
}
