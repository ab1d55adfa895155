// Package hosttest provides in-memory doubles for every freeze.Host
// capability. Tests drive them directly: queue frames and flush them,
// push intersection entries, fire mutations, move the scroll offset, and
// assign geometry per node.
package hosttest

import (
	"log"

	"tablefreeze/pkg/freeze"
	"tablefreeze/pkg/html"
)

// Frames is a FrameScheduler whose frames run only when the test flushes
// them, mirroring requestAnimationFrame batching.
type Frames struct {
	next  int
	queue map[int]func()
	order []int
}

func NewFrames() *Frames {
	return &Frames{queue: make(map[int]func())}
}

func (f *Frames) Request(fn func()) (cancel func()) {
	id := f.next
	f.next++
	f.queue[id] = fn
	f.order = append(f.order, id)
	return func() { delete(f.queue, id) }
}

// Pending returns the number of queued, uncanceled frames.
func (f *Frames) Pending() int { return len(f.queue) }

// Flush runs one frame batch: every task queued before the call, in
// request order. Tasks scheduled by the batch wait for the next Flush.
func (f *Frames) Flush() {
	batch := f.order
	f.order = nil
	for _, id := range batch {
		fn, ok := f.queue[id]
		if !ok {
			continue
		}
		delete(f.queue, id)
		fn()
	}
}

// FlushAll flushes until no frames remain.
func (f *Frames) FlushAll() {
	for len(f.queue) > 0 {
		f.Flush()
	}
}

// BoxWatcher is one BoxObserver instance handed to the controller. The
// parent Env fires its callback when a test resizes an observed node.
type BoxWatcher struct {
	onChange func()
	observed map[*html.Node]bool
	closed   bool
}

func (w *BoxWatcher) Observe(n *html.Node)   { w.observed[n] = true }
func (w *BoxWatcher) Unobserve(n *html.Node) { delete(w.observed, n) }
func (w *BoxWatcher) Disconnect() {
	w.closed = true
	w.observed = make(map[*html.Node]bool)
}

// Intersections is the IntersectionObserver double. Tests deliver entries
// through the parent Env.
type Intersections struct {
	onEntries func([]freeze.IntersectionEntry)
	TopMargin float64
	observed  map[*html.Node]bool
	closed    bool
}

func (o *Intersections) Observe(n *html.Node)   { o.observed[n] = true }
func (o *Intersections) Unobserve(n *html.Node) { delete(o.observed, n) }
func (o *Intersections) Disconnect() {
	o.closed = true
	o.observed = make(map[*html.Node]bool)
}

// Observing reports whether the observer currently watches n.
func (o *Intersections) Observing(n *html.Node) bool { return o.observed[n] }

// Mutations is the MutationObserver double.
type Mutations struct {
	Root       *html.Node
	onMutation func()
	closed     bool
}

func (m *Mutations) Disconnect() { m.closed = true }

// Scroller is the ScrollSource double. SetOffset moves the viewport and
// notifies listeners synchronously, the way a scroll event would.
type Scroller struct {
	offset    float64
	nextID    int
	listeners map[int]func()
}

func NewScroller() *Scroller {
	return &Scroller{listeners: make(map[int]func())}
}

func (s *Scroller) AddListener(fn func()) (remove func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Scroller) Offset() float64 { return s.offset }

// ListenerCount reports how many listeners are attached, which is how
// tests assert scroll-listener gating.
func (s *Scroller) ListenerCount() int { return len(s.listeners) }

// SetOffset updates the offset and fires every listener.
func (s *Scroller) SetOffset(v float64) {
	s.offset = v
	for _, fn := range s.listeners {
		fn()
	}
}

// Geometry is a Measurer backed by per-node assignments. Unassigned nodes
// report not-ok, which exercises the degrade-to-zero paths.
type Geometry struct {
	widths  map[*html.Node]float64
	heights map[*html.Node]float64
	tops    map[*html.Node]float64
}

func NewGeometry() *Geometry {
	return &Geometry{
		widths:  make(map[*html.Node]float64),
		heights: make(map[*html.Node]float64),
		tops:    make(map[*html.Node]float64),
	}
}

func (g *Geometry) SetWidth(n *html.Node, v float64)  { g.widths[n] = v }
func (g *Geometry) SetHeight(n *html.Node, v float64) { g.heights[n] = v }
func (g *Geometry) SetTop(n *html.Node, v float64)    { g.tops[n] = v }

func (g *Geometry) Width(n *html.Node) (float64, bool) {
	v, ok := g.widths[n]
	return v, ok
}

func (g *Geometry) Height(n *html.Node) (float64, bool) {
	v, ok := g.heights[n]
	return v, ok
}

func (g *Geometry) Top(n *html.Node) (float64, bool) {
	v, ok := g.tops[n]
	return v, ok
}

// Env bundles one double of each capability and records every observer
// the controller creates.
type Env struct {
	Frames *Frames
	Scroll *Scroller
	Geo    *Geometry
	Log    *log.Logger

	Boxes []*BoxWatcher
	Inter *Intersections
	Mut   *Mutations
}

func NewEnv() *Env {
	return &Env{
		Frames: NewFrames(),
		Scroll: NewScroller(),
		Geo:    NewGeometry(),
	}
}

// Host assembles a freeze.Host with full capabilities.
func (e *Env) Host() freeze.Host {
	h := e.HostWithoutIntersection()
	h.NewIntersectionObserver = func(onEntries func([]freeze.IntersectionEntry), topMargin float64) freeze.IntersectionObserver {
		e.Inter = &Intersections{
			onEntries: onEntries,
			TopMargin: topMargin,
			observed:  make(map[*html.Node]bool),
		}
		return e.Inter
	}
	return h
}

// HostWithoutIntersection assembles a freeze.Host whose intersection
// factory is nil, for exercising the scroll-only fallback.
func (e *Env) HostWithoutIntersection() freeze.Host {
	return freeze.Host{
		Frames: e.Frames,
		NewBoxObserver: func(onChange func()) freeze.BoxObserver {
			w := &BoxWatcher{
				onChange: onChange,
				observed: make(map[*html.Node]bool),
			}
			e.Boxes = append(e.Boxes, w)
			return w
		},
		NewMutationObserver: func(root *html.Node, onMutation func()) freeze.MutationObserver {
			e.Mut = &Mutations{Root: root, onMutation: onMutation}
			return e.Mut
		},
		Scroll:  e.Scroll,
		Measure: e.Geo,
		Log:     e.Log,
	}
}

// Resize fires the change callback of every live observer watching n.
func (e *Env) Resize(n *html.Node) {
	for _, w := range e.Boxes {
		if !w.closed && w.observed[n] {
			w.onChange()
		}
	}
}

// Intersect delivers entries to the controller's intersection observer.
func (e *Env) Intersect(entries ...freeze.IntersectionEntry) {
	if e.Inter != nil && !e.Inter.closed {
		e.Inter.onEntries(entries)
	}
}

// Mutate fires the mutation callback.
func (e *Env) Mutate() {
	if e.Mut != nil && !e.Mut.closed {
		e.Mut.onMutation()
	}
}
