package lazyload

import "testing"

func TestViewportObserver_ReportsOnlyChanges(t *testing.T) {
	t.Parallel()

	v := NewViewportObserver(DefaultRootMargin)
	var got [][]Entry
	v.Bind(func(e []Entry) { got = append(got, e) })

	v.Observe("near", Element{Top: 1, Height: 1})
	v.Observe("far", Element{Top: 30, Height: 1})
	if len(got) != 0 {
		t.Fatalf("expected no reports before viewport is known; got %v", got)
	}

	v.SetViewport(0, 10)
	if len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("expected one batch with both elements; got %v", got)
	}
	if got[0][0] != (Entry{ID: "far", Intersecting: false}) || got[0][1] != (Entry{ID: "near", Intersecting: true}) {
		t.Fatalf("unexpected initial batch %v", got[0])
	}

	v.SetViewport(0, 10)
	v.SetViewport(1, 10)
	if len(got) != 1 {
		t.Fatalf("expected no report for unchanged states; got %v", got)
	}

	v.SetViewport(25, 10)
	last := got[len(got)-1]
	if len(last) != 2 {
		t.Fatalf("expected both to flip; got %v", last)
	}
}

func TestViewportObserver_RootMargin(t *testing.T) {
	t.Parallel()

	v := NewViewportObserver(2)
	states := map[string]bool{}
	v.Bind(func(es []Entry) {
		for _, e := range es {
			states[e.ID] = e.Intersecting
		}
	})
	v.SetViewport(10, 5)
	v.Observe("above-in-margin", Element{Top: 8, Height: 1})
	v.Observe("above-out", Element{Top: 7, Height: 1})
	v.Observe("below-in-margin", Element{Top: 16, Height: 1})
	v.Observe("below-out", Element{Top: 17, Height: 1})

	want := map[string]bool{"above-in-margin": true, "above-out": false, "below-in-margin": true, "below-out": false}
	for id, w := range want {
		if states[id] != w {
			t.Fatalf("%s intersecting = %v; want %v", id, states[id], w)
		}
	}
}

func TestViewportObserver_DrivesTracker(t *testing.T) {
	t.Parallel()

	v := NewViewportObserver(0)
	sched := &TeaScheduler{}
	tr := New(v.Bind, sched)
	v.SetViewport(0, 4)

	tr.ObserveImage(Element{Top: 0, Height: 2}, "img-1")
	tr.ObserveImage(Element{Top: 10, Height: 2}, "img-2")
	if sched.Cmd() == nil {
		t.Fatalf("expected a tick command")
	}
	if sched.Cmd() != nil {
		t.Fatalf("expected a single tick in flight")
	}
	sched.Drain()

	if !tr.IsImageVisible("img-1") || tr.IsImageVisible("img-2") {
		t.Fatalf("unexpected visibility after first tick")
	}

	v.SetViewport(9, 4)
	v.SetViewport(0, 4)
	v.SetViewport(9, 4)
	sched.Drain()
	if tr.IsImageVisible("img-1") || !tr.IsImageVisible("img-2") {
		t.Fatalf("expected the latest viewport to win")
	}

	tr.Cleanup()
	if !v.disconnected {
		t.Fatalf("expected observer disconnected")
	}
}

func TestViewportObserver_Move(t *testing.T) {
	t.Parallel()

	v := NewViewportObserver(0)
	var last Entry
	v.Bind(func(es []Entry) { last = es[len(es)-1] })
	v.SetViewport(0, 3)
	v.Observe("img-1", Element{Top: 1, Height: 1})
	v.Move("img-1", Element{Top: 20, Height: 1})
	if last != (Entry{ID: "img-1", Intersecting: false}) {
		t.Fatalf("last = %+v", last)
	}
}
