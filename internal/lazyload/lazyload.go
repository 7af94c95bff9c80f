// Package lazyload tracks which images are within a margin of the visible viewport.
//
// The Tracker is driven by an Observer (the platform visibility primitive) and applies
// reported changes on the next Scheduler tick, at most one pending transition per id.
// A Tracker is owned by a single UI loop and is not safe for concurrent use.
package lazyload

// Element is a row span inside a scrollable viewport.
type Element struct {
	Top    int
	Height int
}

// Entry reports the intersection state of one observed element.
type Entry struct {
	ID           string
	Intersecting bool
}

// Observer is the visibility primitive: it reports intersection changes for observed ids.
type Observer interface {
	Observe(id string, el Element)
	Unobserve(id string)
	Disconnect()
}

// ObserverFactory builds an Observer that delivers entry batches to report.
type ObserverFactory func(report func([]Entry)) Observer

// Scheduler defers work to the next stable render tick.
type Scheduler interface {
	NextTick(fn func())
}

type Tracker struct {
	observer Observer
	sched    Scheduler

	visible map[string]bool
	refs    map[string]Element
	// pending holds the most recent reported state for ids awaiting their tick.
	pending map[string]bool

	onApply func(id string, visible bool)
	closed  bool
}

func New(factory ObserverFactory, sched Scheduler) *Tracker {
	t := &Tracker{
		sched:   sched,
		visible: map[string]bool{},
		refs:    map[string]Element{},
		pending: map[string]bool{},
	}
	t.observer = factory(t.handle)
	return t
}

// OnApply registers fn to run each time a pending transition is applied.
func (t *Tracker) OnApply(fn func(id string, visible bool)) {
	t.onApply = fn
}

// ObserveImage starts observing el for id. Observing an id twice is a no-op.
func (t *Tracker) ObserveImage(el Element, id string) {
	if t.closed || id == "" {
		return
	}
	if _, ok := t.refs[id]; ok {
		return
	}
	t.refs[id] = el
	t.observer.Observe(id, el)
}

// UnobserveImage stops observing id and clears its visibility.
func (t *Tracker) UnobserveImage(id string) {
	if t.closed {
		return
	}
	if _, ok := t.refs[id]; !ok {
		return
	}
	t.observer.Unobserve(id)
	delete(t.refs, id)
	delete(t.visible, id)
}

func (t *Tracker) IsImageVisible(id string) bool {
	return t.visible[id]
}

func (t *Tracker) IsObserved(id string) bool {
	_, ok := t.refs[id]
	return ok
}

// Observed returns the number of tracked observations.
func (t *Tracker) Observed() int { return len(t.refs) }

// ClearVisible empties the visible set, keeping observations.
func (t *Tracker) ClearVisible() {
	clear(t.visible)
}

// Cleanup disconnects the observer and drops all bookkeeping. It is safe to call twice.
func (t *Tracker) Cleanup() {
	if t.closed {
		return
	}
	t.closed = true
	t.observer.Disconnect()
	clear(t.visible)
	clear(t.refs)
	clear(t.pending)
}

func (t *Tracker) handle(entries []Entry) {
	if t.closed {
		return
	}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, ok := t.pending[e.ID]; ok {
			t.pending[e.ID] = e.Intersecting
			continue
		}
		t.pending[e.ID] = e.Intersecting
		id := e.ID
		t.sched.NextTick(func() { t.apply(id) })
	}
}

func (t *Tracker) apply(id string) {
	if t.closed {
		return
	}
	state, ok := t.pending[id]
	if !ok {
		return
	}
	delete(t.pending, id)
	if _, observed := t.refs[id]; !observed {
		return
	}
	if state {
		t.visible[id] = true
	} else {
		delete(t.visible, id)
	}
	if t.onApply != nil {
		t.onApply(id, state)
	}
}
