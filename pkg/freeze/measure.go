package freeze

import (
	"tablefreeze/pkg/css"
	"tablefreeze/pkg/html"
)

// StyleMeasurer reads cell geometry from inline style declarations. It
// serves hosts without a real layout pass: documents that carry explicit
// width/height styles, fixtures, and the snapshot renderer.
type StyleMeasurer struct{}

func (StyleMeasurer) Width(n *html.Node) (float64, bool) {
	return css.GetLength(n, "width")
}

func (StyleMeasurer) Height(n *html.Node) (float64, bool) {
	return css.GetLength(n, "height")
}

func (StyleMeasurer) Top(n *html.Node) (float64, bool) {
	return css.GetLength(n, "top")
}
