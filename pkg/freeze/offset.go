package freeze

// Offsets holds the cumulative sticky offsets for a table's frozen rows
// and columns. Lefts[i] is the left offset, in pixels, of a frozen cell
// originating in logical column i; Tops[i] is the top offset of a frozen
// cell originating in logical row i.
type Offsets struct {
	Lefts []float64
	Tops  []float64
}

// ComputeOffsets measures each frozen row and column of the zone and
// builds the cumulative prefix offsets. The offset of slot 0 is always 0;
// slot i is the sum of the measured sizes of slots 0..i-1.
//
// Measurement failure on a slot contributes 0 to the prefix sum: a table
// whose cells cannot be measured degrades to zero offsets rather than
// aborting. Rows and columns are measured through a representative cell,
// a cell spanning a single slot on that axis when one exists.
func ComputeOffsets(m *Matrix, z *Zone, meas Measurer) *Offsets {
	o := &Offsets{}

	if z.ColLimit > 0 {
		o.Lefts = make([]float64, z.ColLimit)
		var left float64
		for col := 0; col < z.ColLimit; col++ {
			o.Lefts[col] = left
			if c := m.ColumnCell(col); c != nil {
				if w, ok := meas.Width(c.Node); ok {
					left += w
				}
			}
		}
	}

	if z.RowLimit > 0 {
		o.Tops = make([]float64, z.RowLimit)
		var top float64
		for row := 0; row < z.RowLimit; row++ {
			o.Tops[row] = top
			if c := m.RowCell(row); c != nil {
				if h, ok := meas.Height(c.Node); ok {
					top += h
				}
			}
		}
	}

	return o
}

// StickyTops rebases the frozen-row top offsets against a viewport
// activation line. When the table's top edge has scrolled above the
// activation offset, every frozen row is pushed down by the overshoot so
// the rows pin to the activation line instead of the table edge.
//
// tableTop is the table's current top position in the same coordinate
// space as activation. The static prefix offsets are preserved so stacked
// frozen rows keep their relative order.
func StickyTops(o *Offsets, tableTop, activation float64) []float64 {
	base := activation - tableTop
	if base < 0 {
		base = 0
	}
	tops := make([]float64, len(o.Tops))
	for i, t := range o.Tops {
		tops[i] = base + t
	}
	return tops
}
