package freeze

import (
	"fmt"

	"tablefreeze/pkg/css"
	"tablefreeze/pkg/html"
)

// Options tune a Controller.
type Options struct {
	// StickyOffsetSelector names the element whose rendered height sets
	// the activation line for frozen rows, typically a fixed page header.
	// Empty, or a selector matching nothing, pins frozen rows at the
	// viewport top.
	StickyOffsetSelector string
}

// Per-table observation state. A table starts Unobserved, becomes
// Observed once its intersection observer is attached, and enters
// InStickyZone while its top edge sits above the activation line.
type tableState int

const (
	stateUnobserved tableState = iota
	stateObserved
	stateInStickyZone
)

// managed is the controller's record of one frozen table.
type managed struct {
	table   *html.Node
	matrix  *Matrix
	zone    *Zone
	offsets *Offsets
	state   tableState
	boxObs  BoxObserver
}

// Controller coordinates freeze layout for every annotated table under a
// root element. It reacts to size changes, subtree mutations, viewport
// intersection and scrolling, coalescing each trigger class onto frame
// boundaries so handler storms collapse into single recomputes.
//
// A Controller is single-threaded: the host must deliver every callback
// on the same goroutine that calls the exported methods. That is the
// browser event-loop model the design assumes, so there are no locks.
type Controller struct {
	host Host
	opts Options
	root *html.Node

	initialized bool
	destroyed   bool
	activation  float64

	tables map[*html.Node]*managed
	order  []*html.Node

	intersect IntersectionObserver
	mutation  MutationObserver

	resizeSlot *frameSlot
	mutateSlot *frameSlot
	scrollSlot *frameSlot

	resizeDirty map[*html.Node]bool

	removeScroll func()
}

// New builds a Controller against the given host. The host is validated
// up front so a misassembled binding fails loudly instead of panicking
// mid-notification.
func New(host Host, opts Options) (*Controller, error) {
	if err := host.validate(); err != nil {
		return nil, fmt.Errorf("freeze: %w", err)
	}
	return &Controller{
		host:        host,
		opts:        opts,
		tables:      make(map[*html.Node]*managed),
		resizeDirty: make(map[*html.Node]bool),
		resizeSlot:  newFrameSlot(host.Frames),
		mutateSlot:  newFrameSlot(host.Frames),
		scrollSlot:  newFrameSlot(host.Frames),
	}, nil
}

// Initialize discovers every annotated table under root, computes and
// applies its freeze layout, and attaches the observers that keep the
// layout current. It returns false without side effects when the
// controller is already initialized or has been destroyed; destruction
// is terminal.
func (c *Controller) Initialize(root *html.Node) bool {
	if c.initialized || c.destroyed || root == nil {
		return false
	}
	c.initialized = true
	c.root = root
	c.refreshActivation()

	if c.host.NewIntersectionObserver != nil {
		c.intersect = c.host.NewIntersectionObserver(c.onIntersection, c.activation)
	}
	c.mutation = c.host.NewMutationObserver(root, c.onMutation)

	c.discover()
	for _, t := range c.order {
		c.recomputeTable(c.tables[t])
	}
	c.updateScrollListener()
	return true
}

// Destroy tears the controller down: observers disconnected, pending
// frames canceled, every marker and sticky property stripped from every
// managed table. The controller cannot be initialized again.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	c.resizeSlot.Stop()
	c.mutateSlot.Stop()
	c.scrollSlot.Stop()

	if c.intersect != nil {
		c.intersect.Disconnect()
		c.intersect = nil
	}
	if c.mutation != nil {
		c.mutation.Disconnect()
		c.mutation = nil
	}
	if c.removeScroll != nil {
		c.removeScroll()
		c.removeScroll = nil
	}

	for _, t := range c.order {
		m := c.tables[t]
		m.boxObs.Disconnect()
		if m.matrix != nil {
			Clear(m.matrix)
		}
	}
	c.tables = make(map[*html.Node]*managed)
	c.order = nil
}

// Destroyed reports whether Destroy has run.
func (c *Controller) Destroyed() bool { return c.destroyed }

// Tables returns the managed tables in document order.
func (c *Controller) Tables() []*html.Node {
	out := make([]*html.Node, len(c.order))
	copy(out, c.order)
	return out
}

// Recompute rebuilds and reapplies the freeze layout of one managed
// table, synchronously. It returns false for tables the controller does
// not manage or after Destroy.
func (c *Controller) Recompute(table *html.Node) bool {
	if c.destroyed {
		return false
	}
	m, ok := c.tables[table]
	if !ok {
		return false
	}
	c.recomputeTable(m)
	c.updateScrollListener()
	return true
}

// RecomputeAll rebuilds every managed table, synchronously.
func (c *Controller) RecomputeAll() {
	if c.destroyed {
		return
	}
	c.refreshActivation()
	for _, t := range c.order {
		c.recomputeTable(c.tables[t])
	}
	c.updateScrollListener()
}

// IsManagedTable reports whether an element is an annotated table the
// controller would manage: a <table> requesting at least one frozen row
// or column.
func IsManagedTable(n *html.Node) bool {
	if n == nil || n.TagName != "table" {
		return false
	}
	return FreezeRows(n) > 0 || FreezeCols(n) > 0
}

// discover walks the root subtree and registers every annotated table
// not yet managed, dropping tables that have left the document.
func (c *Controller) discover() {
	seen := make(map[*html.Node]bool)
	var order []*html.Node
	html.Walk(c.root, func(n *html.Node) bool {
		if IsManagedTable(n) {
			seen[n] = true
			order = append(order, n)
		}
		return true
	})

	for t, m := range c.tables {
		if !seen[t] {
			m.boxObs.Disconnect()
			if c.intersect != nil {
				c.intersect.Unobserve(t)
			}
			if m.matrix != nil {
				Clear(m.matrix)
			}
			delete(c.tables, t)
		}
	}

	for _, t := range order {
		if _, ok := c.tables[t]; ok {
			continue
		}
		m := &managed{table: t}
		m.boxObs = c.host.NewBoxObserver(func() { c.onResize(m.table) })
		m.boxObs.Observe(t)
		// Without intersection capability the state still starts at
		// Observed; membership is then derived from geometry on every
		// scroll frame instead.
		m.state = stateObserved
		if c.intersect != nil {
			c.intersect.Observe(t)
		}
		c.tables[t] = m
	}
	c.order = order
}

// recomputeTable runs the full pipeline for one table: matrix, zone,
// offsets, apply. A panic while processing one table is contained so the
// controller's other tables stay live.
func (c *Controller) recomputeTable(m *managed) {
	defer func() {
		if r := recover(); r != nil {
			c.host.logf("freeze: recompute panic on table: %v", r)
		}
	}()

	m.matrix = BuildMatrix(m.table)
	m.zone = ResolveZone(m.matrix, FreezeRows(m.table), FreezeCols(m.table))
	m.offsets = ComputeOffsets(m.matrix, m.zone, c.host.Measure)

	var tops []float64
	if m.state == stateInStickyZone {
		tops = c.stickyTops(m)
	}
	Apply(m.matrix, m.zone, m.offsets, tops)
}

// refreshActivation re-measures the sticky-offset element. The element's
// height can change with the layout, so this runs before every full
// recompute pass, not just at Initialize.
func (c *Controller) refreshActivation() {
	c.activation = 0
	if c.opts.StickyOffsetSelector == "" || c.root == nil {
		return
	}
	sel := css.ParseSelector(c.opts.StickyOffsetSelector)
	el := css.QueryFirst(c.root, sel)
	if el == nil {
		return
	}
	if h, ok := c.host.Measure.Height(el); ok {
		c.activation = h
	}
}

// stickyTops rebases the table's frozen-row tops against the activation
// line using the table's current viewport position.
func (c *Controller) stickyTops(m *managed) []float64 {
	top, ok := c.host.Measure.Top(m.table)
	if !ok {
		return nil
	}
	return StickyTops(m.offsets, top, c.activation)
}

// onResize marks one table dirty and coalesces the recompute onto the
// next frame. No layout work happens inside the notification itself.
func (c *Controller) onResize(table *html.Node) {
	if c.destroyed {
		return
	}
	c.resizeDirty[table] = true
	c.resizeSlot.Schedule(func() {
		dirty := c.resizeDirty
		c.resizeDirty = make(map[*html.Node]bool)
		for _, t := range c.order {
			if !dirty[t] {
				continue
			}
			if m, ok := c.tables[t]; ok {
				c.recomputeTable(m)
			}
		}
		c.updateScrollListener()
	})
}

// onMutation coalesces subtree changes onto the next frame and then
// rediscovers tables, since rows, cells and whole tables may have been
// added or removed.
func (c *Controller) onMutation() {
	if c.destroyed {
		return
	}
	c.mutateSlot.Schedule(func() {
		c.refreshActivation()
		c.discover()
		for _, t := range c.order {
			c.recomputeTable(c.tables[t])
		}
		c.updateScrollListener()
	})
}

// onIntersection updates sticky-zone membership from observer entries and
// schedules recomputes for the tables whose state flipped.
func (c *Controller) onIntersection(entries []IntersectionEntry) {
	if c.destroyed {
		return
	}
	changed := false
	for _, e := range entries {
		m, ok := c.tables[e.Target]
		if !ok {
			continue
		}
		next := stateObserved
		if e.Intersecting {
			next = stateInStickyZone
		}
		if m.state != next {
			m.state = next
			c.resizeDirty[e.Target] = true
			changed = true
		}
	}
	if !changed {
		return
	}
	c.updateScrollListener()
	c.resizeSlot.Schedule(func() {
		dirty := c.resizeDirty
		c.resizeDirty = make(map[*html.Node]bool)
		for _, t := range c.order {
			if !dirty[t] {
				continue
			}
			if m, ok := c.tables[t]; ok {
				c.recomputeTable(m)
			}
		}
		c.updateScrollListener()
	})
}

// onScroll refreshes the sticky tops of every table in the sticky zone on
// the next frame. Only top offsets move with scroll, so the matrix and
// static offsets are reused as-is.
func (c *Controller) onScroll() {
	if c.destroyed {
		return
	}
	c.scrollSlot.Schedule(func() {
		for _, t := range c.order {
			m := c.tables[t]
			if c.intersect == nil {
				c.deriveStickyState(m)
			}
			if m.state != stateInStickyZone || m.matrix == nil {
				continue
			}
			c.reapplyTops(m)
		}
	})
}

// deriveStickyState is the fallback membership test when the host has no
// intersection capability: in the zone iff the table top has crossed the
// activation line.
func (c *Controller) deriveStickyState(m *managed) {
	top, ok := c.host.Measure.Top(m.table)
	if !ok {
		return
	}
	prev := m.state
	if top < c.activation {
		m.state = stateInStickyZone
	} else {
		m.state = stateObserved
	}
	if prev == stateInStickyZone && m.state == stateObserved {
		// Leaving the zone: restore the static tops.
		Apply(m.matrix, m.zone, m.offsets, nil)
	}
}

func (c *Controller) reapplyTops(m *managed) {
	defer func() {
		if r := recover(); r != nil {
			c.host.logf("freeze: scroll reapply panic on table: %v", r)
		}
	}()
	Apply(m.matrix, m.zone, m.offsets, c.stickyTops(m))
}

// updateScrollListener attaches the scroll listener while it is needed
// and detaches it while it is not. With intersection support the listener
// runs only while at least one table is in the sticky zone; without it
// the listener is permanent, because scrolling is then the only signal
// for zone membership.
func (c *Controller) updateScrollListener() {
	want := false
	if c.intersect == nil {
		want = c.initialized && !c.destroyed && len(c.order) > 0
	} else {
		for _, t := range c.order {
			if c.tables[t].state == stateInStickyZone {
				want = true
				break
			}
		}
	}

	if want && c.removeScroll == nil {
		c.removeScroll = c.host.Scroll.AddListener(c.onScroll)
	} else if !want && c.removeScroll != nil {
		c.removeScroll()
		c.removeScroll = nil
	}
}
