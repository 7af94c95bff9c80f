package tabs

import (
	"math/rand"
	"reflect"
	"testing"

	"labelmark-cli/internal/model"
)

type recordingNav struct {
	paths []string
}

func (n *recordingNav) Push(path string) error {
	n.paths = append(n.paths, path)
	return nil
}

func tab(name string) model.TabItem {
	return model.TabItem{Name: name, Title: name, Path: "/" + name, Closable: true}
}

func names(s *Store) []string {
	var out []string
	for _, t := range s.Tabs() {
		out = append(out, t.Name)
	}
	return out
}

func newSeeded(t *testing.T, active string, extra ...string) (*Store, *recordingNav) {
	t.Helper()
	nav := &recordingNav{}
	s := NewStore(nav)
	for _, n := range extra {
		s.AddTab(tab(n))
	}
	s.active = active
	return s, nav
}

func TestNewStore_DashboardPinnedAndActive(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	if got := names(s); !reflect.DeepEqual(got, []string{"dashboard"}) {
		t.Fatalf("tabs = %v", got)
	}
	if s.ActiveTab() != "dashboard" {
		t.Fatalf("active = %q", s.ActiveTab())
	}
	if !s.Tabs()[0].Pinned() {
		t.Fatalf("expected dashboard to be pinned")
	}
}

func TestAddTab_TwiceKeepsSingleEntry(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	s.AddTab(model.TabItem{Name: "gallery", Title: "Gallery", Path: "/gallery", Closable: true})
	s.AddTab(model.TabItem{Name: "gallery", Title: "Gallery", Path: "/gallery", Closable: true})
	if got := names(s); !reflect.DeepEqual(got, []string{"dashboard", "gallery"}) {
		t.Fatalf("tabs = %v", got)
	}
	if s.ActiveTab() != "gallery" {
		t.Fatalf("active = %q; want gallery", s.ActiveTab())
	}
}

func TestAddTab_ExistingReselects(t *testing.T) {
	t.Parallel()

	s, _ := newSeeded(t, "b", "a", "b")
	s.AddTab(tab("a"))
	if s.ActiveTab() != "a" {
		t.Fatalf("active = %q; want a", s.ActiveTab())
	}
	if got := names(s); !reflect.DeepEqual(got, []string{"dashboard", "a", "b"}) {
		t.Fatalf("tabs = %v", got)
	}
}

func TestRemoveTab_ActiveFallsBackToPrevious(t *testing.T) {
	t.Parallel()

	s, nav := newSeeded(t, "B", "A", "B")
	s.RemoveTab("B")
	if got := names(s); !reflect.DeepEqual(got, []string{"dashboard", "A"}) {
		t.Fatalf("tabs = %v", got)
	}
	if s.ActiveTab() != "A" {
		t.Fatalf("active = %q; want A", s.ActiveTab())
	}
	if !reflect.DeepEqual(nav.paths, []string{"/A"}) {
		t.Fatalf("navigations = %v; want [/A]", nav.paths)
	}
}

func TestRemoveTab_FirstActiveFallsBackToIndexZero(t *testing.T) {
	t.Parallel()

	nav := &recordingNav{}
	s := NewStore(nav)
	s.tabs = []model.TabItem{tab("A"), tab("B")}
	s.active = "A"
	s.RemoveTab("A")
	if s.ActiveTab() != "B" {
		t.Fatalf("active = %q; want B", s.ActiveTab())
	}
}

func TestRemoveTab_InactiveKeepsActive(t *testing.T) {
	t.Parallel()

	s, nav := newSeeded(t, "B", "A", "B")
	s.RemoveTab("A")
	if s.ActiveTab() != "B" {
		t.Fatalf("active = %q; want B", s.ActiveTab())
	}
	if len(nav.paths) != 0 {
		t.Fatalf("expected no navigation; got %v", nav.paths)
	}
}

func TestRemoveTab_LastTabLeavesNoActive(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	s.RemoveTab("dashboard")
	if s.Len() != 0 {
		t.Fatalf("expected empty list; got %v", names(s))
	}
	if s.ActiveTab() != "" {
		t.Fatalf("active = %q; want empty", s.ActiveTab())
	}
}

func TestRemoveTab_UnknownIsNoop(t *testing.T) {
	t.Parallel()

	s, nav := newSeeded(t, "A", "A")
	before := s.Snapshot()
	s.RemoveTab("nope")
	s.RemoveLeftTabs("nope")
	s.RemoveRightTabs("nope")
	s.RemoveOtherTabs("nope")
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("state changed: %+v -> %+v", before, s.Snapshot())
	}
	if len(nav.paths) != 0 {
		t.Fatalf("expected no navigation; got %v", nav.paths)
	}
}

func TestRemoveAllTabs_KeepsPinned(t *testing.T) {
	t.Parallel()

	s, nav := newSeeded(t, "B", "A", "B")
	s.RemoveAllTabs()
	if got := names(s); !reflect.DeepEqual(got, []string{"dashboard"}) {
		t.Fatalf("tabs = %v", got)
	}
	if s.ActiveTab() != "dashboard" {
		t.Fatalf("active = %q", s.ActiveTab())
	}
	if !reflect.DeepEqual(nav.paths, []string{"/dashboard"}) {
		t.Fatalf("navigations = %v", nav.paths)
	}
}

func TestRemoveOtherTabs(t *testing.T) {
	t.Parallel()

	s, nav := newSeeded(t, "C", "A", "B", "C")
	s.RemoveOtherTabs("B")
	if got := names(s); !reflect.DeepEqual(got, []string{"dashboard", "B"}) {
		t.Fatalf("tabs = %v", got)
	}
	if s.ActiveTab() != "B" {
		t.Fatalf("active = %q; want B", s.ActiveTab())
	}
	if !reflect.DeepEqual(nav.paths, []string{"/B"}) {
		t.Fatalf("navigations = %v", nav.paths)
	}
}

func TestRemoveLeftAndRightTabs_InclusiveBoundary(t *testing.T) {
	t.Parallel()

	s, _ := newSeeded(t, "B", "A", "B", "C")
	s.RemoveLeftTabs("B")
	if got := names(s); !reflect.DeepEqual(got, []string{"dashboard", "B", "C"}) {
		t.Fatalf("after left: tabs = %v", got)
	}
	if s.ActiveTab() != "B" {
		t.Fatalf("after left: active = %q", s.ActiveTab())
	}

	s.RemoveRightTabs("B")
	if got := names(s); !reflect.DeepEqual(got, []string{"dashboard", "B"}) {
		t.Fatalf("after right: tabs = %v", got)
	}
}

func TestRemoveRightTabs_ActiveRemovedFallsBackToName(t *testing.T) {
	t.Parallel()

	s, nav := newSeeded(t, "C", "A", "B", "C")
	s.RemoveRightTabs("A")
	if s.ActiveTab() != "A" {
		t.Fatalf("active = %q; want A", s.ActiveTab())
	}
	if !reflect.DeepEqual(nav.paths, []string{"/A"}) {
		t.Fatalf("navigations = %v", nav.paths)
	}
}

func TestBulkClose_PinnedInMiddleSurvives(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	s.AddTab(tab("A"))
	s.AddTab(model.TabItem{Name: "pin", Title: "Pin", Path: "/pin", Closable: false})
	s.AddTab(tab("B"))
	s.AddTab(tab("C"))

	s.RemoveLeftTabs("C")
	if got := names(s); !reflect.DeepEqual(got, []string{"dashboard", "pin", "C"}) {
		t.Fatalf("tabs = %v", got)
	}
}

func TestNextPrevWrap(t *testing.T) {
	t.Parallel()

	s, nav := newSeeded(t, "dashboard", "A", "B")
	s.Prev()
	if s.ActiveTab() != "B" {
		t.Fatalf("prev from first: active = %q", s.ActiveTab())
	}
	s.Next()
	if s.ActiveTab() != "dashboard" {
		t.Fatalf("next from last: active = %q", s.ActiveTab())
	}
	if !reflect.DeepEqual(nav.paths, []string{"/B", "/dashboard"}) {
		t.Fatalf("navigations = %v", nav.paths)
	}
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	t.Parallel()

	pool := []string{"a", "b", "c", "d", "e", "dashboard"}
	r := rand.New(rand.NewSource(42))
	s := NewStore(nil)
	for step := 0; step < 5000; step++ {
		name := pool[r.Intn(len(pool))]
		pinnedBefore := map[string]bool{}
		for _, t := range s.Tabs() {
			if t.Pinned() {
				pinnedBefore[t.Name] = true
			}
		}
		bulk := false
		switch r.Intn(7) {
		case 0, 1:
			it := tab(name)
			if name == "dashboard" {
				it = DashboardTab
			}
			s.AddTab(it)
		case 2:
			s.RemoveTab(name)
		case 3:
			s.RemoveOtherTabs(name)
			bulk = true
		case 4:
			s.RemoveLeftTabs(name)
			bulk = true
		case 5:
			s.RemoveRightTabs(name)
			bulk = true
		case 6:
			s.RemoveAllTabs()
			bulk = true
		}

		seen := map[string]bool{}
		for _, it := range s.Tabs() {
			if seen[it.Name] {
				t.Fatalf("step %d: duplicate tab %q in %v", step, it.Name, names(s))
			}
			seen[it.Name] = true
		}
		if s.Len() == 0 {
			if s.ActiveTab() != "" {
				t.Fatalf("step %d: empty list but active %q", step, s.ActiveTab())
			}
		} else if !seen[s.ActiveTab()] {
			t.Fatalf("step %d: active %q not in %v", step, s.ActiveTab(), names(s))
		}
		if bulk {
			for n := range pinnedBefore {
				if !seen[n] {
					t.Fatalf("step %d: bulk close removed pinned tab %q", step, n)
				}
			}
		}
	}
}
