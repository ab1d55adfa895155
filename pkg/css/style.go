package css

import (
	"fmt"
	"strconv"
	"strings"

	"tablefreeze/pkg/html"
)

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// Px formats a pixel length the way it is written into inline styles.
// Whole values serialize without a fraction ("50px", not "50.000000px").
func Px(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10) + "px"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Declarations is an ordered set of inline style declarations. Order is
// preserved on serialization so repeated set/remove round-trips are
// byte-stable.
type Declarations struct {
	props  []string
	values map[string]string
}

// ParseInline parses the value of a style attribute into declarations.
// Malformed fragments (missing colon, empty property) are skipped.
func ParseInline(style string) *Declarations {
	d := &Declarations{values: make(map[string]string)}
	for _, part := range strings.Split(style, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.Index(part, ":")
		if colon <= 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(part[:colon]))
		val := strings.TrimSpace(part[colon+1:])
		if prop == "" {
			continue
		}
		d.Set(prop, val)
	}
	return d
}

// Get returns the value for a property.
func (d *Declarations) Get(prop string) (string, bool) {
	v, ok := d.values[prop]
	return v, ok
}

// Set adds or replaces a declaration, keeping the original position for
// replaced properties.
func (d *Declarations) Set(prop, val string) {
	if _, exists := d.values[prop]; !exists {
		d.props = append(d.props, prop)
	}
	d.values[prop] = val
}

// Remove deletes a declaration if present.
func (d *Declarations) Remove(prop string) {
	if _, exists := d.values[prop]; !exists {
		return
	}
	delete(d.values, prop)
	for i, p := range d.props {
		if p == prop {
			d.props = append(d.props[:i], d.props[i+1:]...)
			break
		}
	}
}

// Len returns the number of declarations.
func (d *Declarations) Len() int {
	return len(d.props)
}

// Props returns the property names in declaration order.
func (d *Declarations) Props() []string {
	out := make([]string, len(d.props))
	copy(out, d.props)
	return out
}

// String serializes the declarations back to a style attribute value.
func (d *Declarations) String() string {
	var sb strings.Builder
	for i, p := range d.props {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %s", p, d.values[p])
	}
	return sb.String()
}

// Inline style helpers on DOM nodes. These edit one property at a time so
// user-authored declarations in the same attribute survive.

// GetProperty reads one property from the node's inline style.
func GetProperty(n *html.Node, prop string) (string, bool) {
	style, ok := n.GetAttribute("style")
	if !ok {
		return "", false
	}
	return ParseInline(style).Get(prop)
}

// SetProperty writes one property into the node's inline style.
func SetProperty(n *html.Node, prop, val string) {
	style, _ := n.GetAttribute("style")
	d := ParseInline(style)
	d.Set(prop, val)
	n.SetAttribute("style", d.String())
}

// RemoveProperty deletes one property from the node's inline style. The
// style attribute itself is dropped when no declarations remain.
func RemoveProperty(n *html.Node, prop string) {
	style, ok := n.GetAttribute("style")
	if !ok {
		return
	}
	d := ParseInline(style)
	d.Remove(prop)
	if d.Len() == 0 {
		n.RemoveAttribute("style")
		return
	}
	n.SetAttribute("style", d.String())
}

// GetLength reads one property from the node's inline style as a pixel
// length.
func GetLength(n *html.Node, prop string) (float64, bool) {
	v, ok := GetProperty(n, prop)
	if !ok {
		return 0, false
	}
	return ParseLength(v)
}
