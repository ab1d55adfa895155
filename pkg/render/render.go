// Package render draws a frozen table's resolved layout to an image:
// the logical grid with spans, freeze-zone tinting, and the boundary
// dividers. It exists for visual inspection and golden-file style
// debugging of layout output.
package render

import (
	"image"
	"io"
	"strings"

	"github.com/fogleman/gg"

	"tablefreeze/pkg/freeze"
	"tablefreeze/pkg/html"
)

// Fallback cell size when the measurer cannot answer.
const (
	defaultCellWidth  = 80.0
	defaultCellHeight = 24.0
)

type Renderer struct {
	context *gg.Context

	colWidths  []float64
	rowHeights []float64
}

// Snapshot renders the matrix with its freeze zone. Cell geometry comes
// from the measurer; unmeasurable rows and columns fall back to a
// default size so a snapshot is always produced.
func Snapshot(m *freeze.Matrix, z *freeze.Zone, meas freeze.Measurer) *Renderer {
	r := &Renderer{
		colWidths:  make([]float64, m.Cols),
		rowHeights: make([]float64, m.Rows),
	}

	for col := 0; col < m.Cols; col++ {
		r.colWidths[col] = defaultCellWidth
		if c := m.ColumnCell(col); c != nil {
			if w, ok := meas.Width(c.Node); ok && w > 0 {
				r.colWidths[col] = w
			}
		}
	}
	for row := 0; row < m.Rows; row++ {
		r.rowHeights[row] = defaultCellHeight
		if c := m.RowCell(row); c != nil {
			if h, ok := meas.Height(c.Node); ok && h > 0 {
				r.rowHeights[row] = h
			}
		}
	}

	width := int(sum(r.colWidths)) + 1
	height := int(sum(r.rowHeights)) + 1
	r.context = gg.NewContext(width, height)

	r.context.SetRGB(1, 1, 1)
	r.context.Clear()

	for _, c := range m.Cells {
		r.drawCell(c, z)
	}
	r.drawBoundaries(m, z)

	return r
}

// Image returns the rendered snapshot.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

// WritePNG encodes the snapshot to the writer.
func (r *Renderer) WritePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}

// SavePNG writes the snapshot to a file.
func (r *Renderer) SavePNG(path string) error {
	return r.context.SavePNG(path)
}

// Size returns the pixel dimensions of the snapshot.
func (r *Renderer) Size() (int, int) {
	return r.context.Width(), r.context.Height()
}

func (r *Renderer) drawCell(c *freeze.Cell, z *freeze.Zone) {
	x := sum(r.colWidths[:c.Col])
	y := sum(r.rowHeights[:c.Row])
	w := sum(r.colWidths[c.Col:min(c.Col+c.ColSpan, len(r.colWidths))])
	h := sum(r.rowHeights[c.Row:min(c.Row+c.RowSpan, len(r.rowHeights))])

	// Zone tinting: corner strongest, then the single-axis zones.
	switch {
	case z.IsCorner(c):
		r.context.SetRGB(0.78, 0.84, 0.94)
	case z.FrozenByRow(c):
		r.context.SetRGB(0.87, 0.91, 0.97)
	case z.FrozenByCol(c):
		r.context.SetRGB(0.90, 0.94, 0.90)
	case c.Header:
		r.context.SetRGB(0.95, 0.95, 0.95)
	default:
		r.context.SetRGB(1, 1, 1)
	}
	r.context.DrawRectangle(x, y, w, h)
	r.context.Fill()

	r.context.SetRGB(0.6, 0.6, 0.6)
	r.context.SetLineWidth(1)
	r.context.DrawRectangle(x+0.5, y+0.5, w, h)
	r.context.Stroke()

	label := cellLabel(c)
	if label != "" {
		r.context.SetRGB(0.1, 0.1, 0.1)
		r.context.DrawStringAnchored(label, x+w/2, y+h/2, 0.5, 0.5)
	}
}

// drawBoundaries strokes the last-frozen dividers across the full table.
func (r *Renderer) drawBoundaries(m *freeze.Matrix, z *freeze.Zone) {
	r.context.SetRGB(0.15, 0.3, 0.6)
	r.context.SetLineWidth(2)

	if z.RowBoundary >= 0 && z.RowBoundary < m.Rows {
		y := sum(r.rowHeights[:z.RowBoundary+1])
		r.context.DrawLine(0, y, sum(r.colWidths), y)
		r.context.Stroke()
	}
	if z.ColBoundary >= 0 && z.ColBoundary < m.Cols {
		x := sum(r.colWidths[:z.ColBoundary+1])
		r.context.DrawLine(x, 0, x, sum(r.rowHeights))
		r.context.Stroke()
	}
}

func cellLabel(c *freeze.Cell) string {
	var sb strings.Builder
	collectText(c.Node, &sb)
	label := strings.TrimSpace(sb.String())
	if len(label) > 12 {
		label = label[:12]
	}
	return label
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Text)
		return
	}
	for _, child := range n.Children {
		collectText(child, sb)
	}
}

func sum(vs []float64) float64 {
	var t float64
	for _, v := range vs {
		t += v
	}
	return t
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
