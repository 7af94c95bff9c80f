package lazyload

import "testing"

type fakeObserver struct {
	report      func([]Entry)
	observed    map[string]int
	unobserved  []string
	disconnects int
}

func (f *fakeObserver) bind(report func([]Entry)) Observer {
	f.report = report
	f.observed = map[string]int{}
	return f
}

func (f *fakeObserver) Observe(id string, _ Element) { f.observed[id]++ }
func (f *fakeObserver) Unobserve(id string) { f.unobserved = append(f.unobserved, id) }
func (f *fakeObserver) Disconnect() { f.disconnects++ }

type manualScheduler struct{ queue []func() }

func (m *manualScheduler) NextTick(fn func()) { m.queue = append(m.queue, fn) }

func (m *manualScheduler) flush() {
	q := m.queue
	m.queue = nil
	for _, fn := range q {
		fn()
	}
}

func newTracker() (*Tracker, *fakeObserver, *manualScheduler) {
	obs := &fakeObserver{}
	sched := &manualScheduler{}
	return New(obs.bind, sched), obs, sched
}

func TestObserveImage_Idempotent(t *testing.T) {
	t.Parallel()

	tr, obs, _ := newTracker()
	tr.ObserveImage(Element{Top: 0, Height: 1}, "img-1")
	tr.ObserveImage(Element{Top: 5, Height: 1}, "img-1")

	if obs.observed["img-1"] != 1 {
		t.Fatalf("observer saw %d observe calls; want 1", obs.observed["img-1"])
	}
	if tr.Observed() != 1 {
		t.Fatalf("tracked = %d; want 1", tr.Observed())
	}
}

func TestHandle_CoalescesToLatestState(t *testing.T) {
	t.Parallel()

	tr, obs, sched := newTracker()
	tr.ObserveImage(Element{}, "img-1")
	var applied []bool
	tr.OnApply(func(id string, v bool) { applied = append(applied, v) })

	obs.report([]Entry{{ID: "img-1", Intersecting: true}})
	obs.report([]Entry{{ID: "img-1", Intersecting: false}})
	obs.report([]Entry{{ID: "img-1", Intersecting: true}})

	if len(sched.queue) != 1 {
		t.Fatalf("scheduled %d ticks; want 1", len(sched.queue))
	}
	if tr.IsImageVisible("img-1") {
		t.Fatalf("visibility must not change before the tick")
	}
	sched.flush()

	if len(applied) != 1 || !applied[0] {
		t.Fatalf("applied = %v; want [true]", applied)
	}
	if !tr.IsImageVisible("img-1") {
		t.Fatalf("expected img-1 visible")
	}

	obs.report([]Entry{{ID: "img-1", Intersecting: false}})
	obs.report([]Entry{{ID: "img-1", Intersecting: true}})
	obs.report([]Entry{{ID: "img-1", Intersecting: false}})
	sched.flush()
	if len(applied) != 2 || applied[1] {
		t.Fatalf("applied = %v; want [true false]", applied)
	}
	if tr.IsImageVisible("img-1") {
		t.Fatalf("expected img-1 hidden")
	}
}

func TestHandle_IndependentIDs(t *testing.T) {
	t.Parallel()

	tr, obs, sched := newTracker()
	tr.ObserveImage(Element{}, "a")
	tr.ObserveImage(Element{}, "b")
	obs.report([]Entry{{ID: "a", Intersecting: true}, {ID: "b", Intersecting: true}, {ID: "", Intersecting: true}})
	if len(sched.queue) != 2 {
		t.Fatalf("scheduled %d ticks; want 2", len(sched.queue))
	}
	sched.flush()
	if !tr.IsImageVisible("a") || !tr.IsImageVisible("b") {
		t.Fatalf("expected a and b visible")
	}
}

func TestUnobserveImage_ClearsVisibilityAndDropsPending(t *testing.T) {
	t.Parallel()

	tr, obs, sched := newTracker()
	tr.ObserveImage(Element{}, "img-1")
	obs.report([]Entry{{ID: "img-1", Intersecting: true}})
	sched.flush()

	tr.UnobserveImage("img-1")
	if tr.IsImageVisible("img-1") || tr.IsObserved("img-1") {
		t.Fatalf("expected img-1 forgotten")
	}
	if len(obs.unobserved) != 1 {
		t.Fatalf("observer unobserve calls = %v", obs.unobserved)
	}

	// A late report for an unobserved id never makes it visible.
	obs.report([]Entry{{ID: "img-1", Intersecting: true}})
	sched.flush()
	if tr.IsImageVisible("img-1") {
		t.Fatalf("unobserved id must stay hidden")
	}

	tr.UnobserveImage("img-1")
	if len(obs.unobserved) != 1 {
		t.Fatalf("second unobserve should be a no-op")
	}
}

func TestClearVisible_KeepsObservations(t *testing.T) {
	t.Parallel()

	tr, obs, sched := newTracker()
	tr.ObserveImage(Element{}, "img-1")
	obs.report([]Entry{{ID: "img-1", Intersecting: true}})
	sched.flush()

	tr.ClearVisible()
	if tr.IsImageVisible("img-1") {
		t.Fatalf("expected visible set cleared")
	}
	if !tr.IsObserved("img-1") {
		t.Fatalf("expected observation kept")
	}
}

func TestCleanup_DisconnectsOnce(t *testing.T) {
	t.Parallel()

	tr, obs, sched := newTracker()
	tr.ObserveImage(Element{}, "img-1")
	obs.report([]Entry{{ID: "img-1", Intersecting: true}})

	tr.Cleanup()
	tr.Cleanup()
	if obs.disconnects != 1 {
		t.Fatalf("disconnects = %d; want 1", obs.disconnects)
	}

	sched.flush()
	if tr.IsImageVisible("img-1") || tr.Observed() != 0 {
		t.Fatalf("expected empty tracker after cleanup")
	}
	tr.ObserveImage(Element{}, "img-2")
	if tr.Observed() != 0 {
		t.Fatalf("observe after cleanup should be ignored")
	}
}
