package freeze

import "testing"

func TestResolveZoneNoSpans(t *testing.T) {
	table := parseTable(t, `<table>
		<thead><tr><th>h1</th><th>h2</th><th>h3</th></tr></thead>
		<tbody>
			<tr><td>a</td><td>b</td><td>c</td></tr>
			<tr><td>d</td><td>e</td><td>f</td></tr>
		</tbody>
	</table>`)

	m := BuildMatrix(table)
	z := ResolveZone(m, 1, 2)

	// Header row plus one body row frozen, two columns frozen.
	if z.RowLimit != 2 || z.ColLimit != 2 {
		t.Fatalf("limits %d/%d, want 2/2", z.RowLimit, z.ColLimit)
	}
	for _, c := range m.Cells {
		wantRow := c.Row < 2
		wantCol := c.Col < 2
		if z.FrozenByRow(c) != wantRow {
			t.Errorf("cell (%d,%d): FrozenByRow=%v, want %v", c.Row, c.Col, z.FrozenByRow(c), wantRow)
		}
		if z.FrozenByCol(c) != wantCol {
			t.Errorf("cell (%d,%d): FrozenByCol=%v, want %v", c.Row, c.Col, z.FrozenByCol(c), wantCol)
		}
		if z.IsCorner(c) != (wantRow && wantCol) {
			t.Errorf("cell (%d,%d): corner=%v", c.Row, c.Col, z.IsCorner(c))
		}
	}
	if z.RowBoundary != 1 || z.ColBoundary != 1 {
		t.Errorf("boundaries %d/%d, want 1/1", z.RowBoundary, z.ColBoundary)
	}
}

func TestResolveZoneDisabledAxes(t *testing.T) {
	table := parseTable(t, `<table>
		<tr><td>a</td><td>b</td></tr>
	</table>`)

	m := BuildMatrix(table)
	z := ResolveZone(m, 0, 0)

	if z.RowLimit != 0 || z.ColLimit != 0 {
		t.Fatalf("limits %d/%d, want 0/0", z.RowLimit, z.ColLimit)
	}
	if z.RowBoundary != -1 || z.ColBoundary != -1 {
		t.Errorf("disabled axes should report boundary -1, got %d/%d", z.RowBoundary, z.ColBoundary)
	}
	if z.FrozenRowCount() != 0 || z.FrozenColCount() != 0 {
		t.Errorf("nothing should freeze")
	}
}

func TestResolveZoneNegativeClampsToZero(t *testing.T) {
	table := parseTable(t, `<table>
		<thead><tr><th>h</th></tr></thead>
		<tbody><tr><td>a</td></tr></tbody>
	</table>`)

	m := BuildMatrix(table)
	z := ResolveZone(m, -5, -1)

	// Header rows always freeze once row freezing is in effect.
	if z.RowLimit != 1 {
		t.Errorf("RowLimit=%d, want 1", z.RowLimit)
	}
	if z.ColLimit != 0 {
		t.Errorf("ColLimit=%d, want 0", z.ColLimit)
	}
}

func TestColspanStraddleExtendsBoundary(t *testing.T) {
	// A colspan-3 cell originating in the last frozen column drags the
	// column boundary two slots past the freeze limit.
	table := parseTable(t, `<table>
		<tr><td>a</td><td colspan="3">wide</td><td>e</td></tr>
		<tr><td>f</td><td>g</td><td>h</td><td>i</td><td>j</td></tr>
	</table>`)

	m := BuildMatrix(table)
	z := ResolveZone(m, 0, 2)

	wide := m.OwnerAt(0, 1)
	if !z.FrozenByCol(wide) {
		t.Fatalf("cell originating inside the zone must freeze")
	}
	if z.ColBoundary != 3 {
		t.Errorf("ColBoundary=%d, want 3", z.ColBoundary)
	}
	// The cell next to it originates outside the zone and stays free.
	if e := m.OwnerAt(0, 4); z.FrozenByCol(e) {
		t.Errorf("cell at column 4 must not freeze")
	}
}

func TestRowspanExtendsRowBoundary(t *testing.T) {
	table := parseTable(t, `<table>
		<thead><tr><th>h1</th><th>h2</th></tr></thead>
		<tbody>
			<tr><td rowspan="3">tall</td><td>b</td></tr>
			<tr><td>c</td></tr>
			<tr><td>d</td></tr>
		</tbody>
	</table>`)

	m := BuildMatrix(table)
	z := ResolveZone(m, 1, 0)

	// Frozen rows are the header and the first body row; the rowspan-3
	// cell pushes the row boundary down to logical row 3.
	if z.RowLimit != 2 {
		t.Fatalf("RowLimit=%d, want 2", z.RowLimit)
	}
	if z.RowBoundary != 3 {
		t.Errorf("RowBoundary=%d, want 3", z.RowBoundary)
	}
	tall := m.OwnerAt(1, 0)
	if !z.FrozenByRow(tall) {
		t.Errorf("spanning cell originating in the zone must freeze")
	}
	// Rows 2 and 3 originate outside the zone.
	if c := m.OwnerAt(2, 1); z.FrozenByRow(c) {
		t.Errorf("row 2 cell must not freeze")
	}
}

func TestRowLimitCapsAtTableSize(t *testing.T) {
	table := parseTable(t, `<table>
		<tr><td>a</td></tr>
		<tr><td>b</td></tr>
	</table>`)

	m := BuildMatrix(table)
	z := ResolveZone(m, 99, 99)

	if z.RowLimit != 2 || z.ColLimit != 1 {
		t.Errorf("limits %d/%d, want 2/1", z.RowLimit, z.ColLimit)
	}
}

func TestFreezeAttrParsing(t *testing.T) {
	cases := []struct {
		rows, cols string
		wantR      int
		wantC      int
	}{
		{"2", "1", 2, 1},
		{"", "", 0, 0},
		{"  3 ", "0", 3, 0},
		{"-1", "junk", 0, 0},
	}
	for _, tc := range cases {
		table := parseTable(t, `<table><tr><td>a</td></tr></table>`)
		if tc.rows != "" {
			table.SetAttribute(AttrFreezeRows, tc.rows)
		}
		if tc.cols != "" {
			table.SetAttribute(AttrFreezeCols, tc.cols)
		}
		if got := FreezeRows(table); got != tc.wantR {
			t.Errorf("FreezeRows(%q)=%d, want %d", tc.rows, got, tc.wantR)
		}
		if got := FreezeCols(table); got != tc.wantC {
			t.Errorf("FreezeCols(%q)=%d, want %d", tc.cols, got, tc.wantC)
		}
	}
}
