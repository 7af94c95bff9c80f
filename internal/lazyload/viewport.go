package lazyload

import "sort"

// DefaultRootMargin is how many rows outside the viewport still count as visible.
const DefaultRootMargin = 2

// ViewportObserver is the terminal visibility primitive. Observed elements are row spans in
// a scrollable area; SetViewport reports the elements whose intersection state changed.
type ViewportObserver struct {
	margin int

	report   func([]Entry)
	elements map[string]Element
	state    map[string]bool

	top          int
	height       int
	hasViewport  bool
	disconnected bool
}

func NewViewportObserver(rootMargin int) *ViewportObserver {
	if rootMargin < 0 {
		rootMargin = 0
	}
	return &ViewportObserver{
		margin:   rootMargin,
		elements: map[string]Element{},
		state:    map[string]bool{},
	}
}

// Bind attaches the report callback; it satisfies ObserverFactory.
func (v *ViewportObserver) Bind(report func([]Entry)) Observer {
	v.report = report
	return v
}

// Observe registers an element and reports its initial state once a viewport is known.
func (v *ViewportObserver) Observe(id string, el Element) {
	if v.disconnected {
		return
	}
	v.elements[id] = el
	if !v.hasViewport {
		return
	}
	in := v.intersects(el)
	v.state[id] = in
	v.emit([]Entry{{ID: id, Intersecting: in}})
}

func (v *ViewportObserver) Unobserve(id string) {
	delete(v.elements, id)
	delete(v.state, id)
}

func (v *ViewportObserver) Disconnect() {
	v.disconnected = true
	clear(v.elements)
	clear(v.state)
	v.report = nil
}

// Move updates an element's position after a layout change.
func (v *ViewportObserver) Move(id string, el Element) {
	if _, ok := v.elements[id]; !ok || v.disconnected {
		return
	}
	v.elements[id] = el
	v.recompute()
}

// SetViewport records the visible window (first row and height) and reports changes.
func (v *ViewportObserver) SetViewport(top, height int) {
	if v.disconnected {
		return
	}
	if v.hasViewport && v.top == top && v.height == height {
		return
	}
	v.top = top
	v.height = height
	v.hasViewport = true
	v.recompute()
}

func (v *ViewportObserver) recompute() {
	if !v.hasViewport {
		return
	}
	var changed []Entry
	for id, el := range v.elements {
		in := v.intersects(el)
		prev, seen := v.state[id]
		if seen && prev == in {
			continue
		}
		v.state[id] = in
		changed = append(changed, Entry{ID: id, Intersecting: in})
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].ID < changed[j].ID })
	v.emit(changed)
}

// intersects treats any overlapping row (with the root margin applied) as visible.
func (v *ViewportObserver) intersects(el Element) bool {
	h := el.Height
	if h < 1 {
		h = 1
	}
	lo := v.top - v.margin
	hi := v.top + v.height + v.margin
	return el.Top < hi && el.Top+h > lo
}

func (v *ViewportObserver) emit(entries []Entry) {
	if len(entries) == 0 || v.report == nil {
		return
	}
	v.report(entries)
}
