package freeze

import "testing"

// Fixture mirroring a 4x4 table with explicit cell geometry: column
// widths 50/80/60/60 and row heights 30/40/40/40.
const measuredTable = `<table>
	<thead><tr>
		<th style="width: 50px; height: 30px">A</th>
		<th style="width: 80px; height: 30px">B</th>
		<th style="width: 60px; height: 30px">C</th>
		<th style="width: 60px; height: 30px">D</th>
	</tr></thead>
	<tbody>
		<tr>
			<td style="width: 50px; height: 40px">a1</td>
			<td style="width: 80px; height: 40px">b1</td>
			<td style="width: 60px; height: 40px">c1</td>
			<td style="width: 60px; height: 40px">d1</td>
		</tr>
		<tr>
			<td style="width: 50px; height: 40px">a2</td>
			<td style="width: 80px; height: 40px">b2</td>
			<td style="width: 60px; height: 40px">c2</td>
			<td style="width: 60px; height: 40px">d2</td>
		</tr>
		<tr>
			<td style="width: 50px; height: 40px">a3</td>
			<td style="width: 80px; height: 40px">b3</td>
			<td style="width: 60px; height: 40px">c3</td>
			<td style="width: 60px; height: 40px">d3</td>
		</tr>
	</tbody>
</table>`

func TestComputeOffsetsPrefixSums(t *testing.T) {
	table := parseTable(t, measuredTable)
	m := BuildMatrix(table)
	z := ResolveZone(m, 1, 2)

	o := ComputeOffsets(m, z, StyleMeasurer{})

	wantLefts := []float64{0, 50}
	wantTops := []float64{0, 30}
	if len(o.Lefts) != len(wantLefts) {
		t.Fatalf("got %d lefts, want %d", len(o.Lefts), len(wantLefts))
	}
	for i, want := range wantLefts {
		if o.Lefts[i] != want {
			t.Errorf("Lefts[%d]=%v, want %v", i, o.Lefts[i], want)
		}
	}
	for i, want := range wantTops {
		if o.Tops[i] != want {
			t.Errorf("Tops[%d]=%v, want %v", i, o.Tops[i], want)
		}
	}
}

func TestComputeOffsetsThreeColumns(t *testing.T) {
	table := parseTable(t, measuredTable)
	m := BuildMatrix(table)
	z := ResolveZone(m, 0, 3)

	o := ComputeOffsets(m, z, StyleMeasurer{})

	wantLefts := []float64{0, 50, 130}
	for i, want := range wantLefts {
		if o.Lefts[i] != want {
			t.Errorf("Lefts[%d]=%v, want %v", i, o.Lefts[i], want)
		}
	}
	if o.Tops != nil {
		t.Errorf("row axis disabled, Tops should be nil")
	}
}

func TestComputeOffsetsUnmeasurableContributesZero(t *testing.T) {
	table := parseTable(t, `<table>
		<tr><td>a</td><td style="width: 40px">b</td><td>c</td></tr>
	</table>`)
	m := BuildMatrix(table)
	z := ResolveZone(m, 0, 3)

	o := ComputeOffsets(m, z, StyleMeasurer{})

	// Column 0 has no width: slot 1 stays at 0, slot 2 picks up only
	// column 1's measured width.
	want := []float64{0, 0, 40}
	for i, w := range want {
		if o.Lefts[i] != w {
			t.Errorf("Lefts[%d]=%v, want %v", i, o.Lefts[i], w)
		}
	}
}

func TestStickyTopsBeforeActivation(t *testing.T) {
	o := &Offsets{Tops: []float64{0, 30}}

	// Table top still below the activation line: static tops unchanged.
	tops := StickyTops(o, 100, 0)
	if tops[0] != 0 || tops[1] != 30 {
		t.Errorf("got %v, want [0 30]", tops)
	}
}

func TestStickyTopsAfterActivation(t *testing.T) {
	o := &Offsets{Tops: []float64{0, 30}}

	// Table top 50px above the activation line: every frozen row is
	// pushed down by the overshoot.
	tops := StickyTops(o, -50, 0)
	if tops[0] != 50 || tops[1] != 80 {
		t.Errorf("got %v, want [50 80]", tops)
	}
}

func TestStickyTopsWithActivationOffset(t *testing.T) {
	o := &Offsets{Tops: []float64{0, 30}}

	tops := StickyTops(o, 10, 40)
	if tops[0] != 30 || tops[1] != 60 {
		t.Errorf("got %v, want [30 60]", tops)
	}
}
