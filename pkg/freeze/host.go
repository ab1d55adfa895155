package freeze

import (
	"fmt"
	"log"

	"tablefreeze/pkg/html"
)

// The controller never talks to a real browser. Everything it needs from
// its runtime arrives through the capability contracts below, so a host
// can be a browser binding, a headless layout engine, or a test double.

// FrameScheduler defers a function to the next paint-aligned frame. The
// returned cancel func revokes the task if it has not run yet; canceling
// an already-run task is a no-op.
type FrameScheduler interface {
	Request(fn func()) (cancel func())
}

// BoxObserver reports box-size changes of observed elements, batched and
// asynchronous (ResizeObserver semantics).
type BoxObserver interface {
	Observe(n *html.Node)
	Unobserve(n *html.Node)
	Disconnect()
}

// IntersectionEntry is one observation delivered by an
// IntersectionObserver.
type IntersectionEntry struct {
	Target       *html.Node
	Intersecting bool
}

// IntersectionObserver reports viewport-intersection transitions of
// observed elements.
type IntersectionObserver interface {
	Observe(n *html.Node)
	Unobserve(n *html.Node)
	Disconnect()
}

// MutationObserver watches a subtree for added/removed descendants. The
// callback granularity is coarse: "something under root changed".
type MutationObserver interface {
	Disconnect()
}

// ScrollSource exposes the scrolling viewport: a change listener and the
// current vertical offset.
type ScrollSource interface {
	AddListener(fn func()) (remove func())
	Offset() float64
}

// Measurer answers geometry queries for rendered elements. The ok result
// is false for elements the host cannot measure (detached, display:none);
// callers degrade to zero rather than fail.
type Measurer interface {
	Width(n *html.Node) (float64, bool)
	Height(n *html.Node) (float64, bool)
	// Top is the position of the element's top edge relative to the
	// viewport top (negative once scrolled past).
	Top(n *html.Node) (float64, bool)
}

// Host bundles the capabilities a controller runs against. The observer
// fields are factories because each controller owns its observer
// instances and their callbacks.
//
// NewIntersectionObserver may be nil: the controller then falls back to a
// permanent scroll listener and derives sticky-zone membership from
// measured geometry on each scroll frame.
type Host struct {
	Frames                  FrameScheduler
	NewBoxObserver          func(onChange func()) BoxObserver
	NewIntersectionObserver func(onEntries func([]IntersectionEntry), topMargin float64) IntersectionObserver
	NewMutationObserver     func(root *html.Node, onMutation func()) MutationObserver
	Scroll                  ScrollSource
	Measure                 Measurer
	Log                     *log.Logger
}

func (h *Host) validate() error {
	if h.Frames == nil {
		return fmt.Errorf("host: FrameScheduler is required")
	}
	if h.NewBoxObserver == nil {
		return fmt.Errorf("host: BoxObserver factory is required")
	}
	if h.NewMutationObserver == nil {
		return fmt.Errorf("host: MutationObserver factory is required")
	}
	if h.Scroll == nil {
		return fmt.Errorf("host: ScrollSource is required")
	}
	if h.Measure == nil {
		return fmt.Errorf("host: Measurer is required")
	}
	return nil
}

func (h *Host) logf(format string, args ...any) {
	if h.Log != nil {
		h.Log.Printf(format, args...)
	}
}
