// Package tabs tracks the ordered set of open navigation tabs and the active one.
//
// Every mutation keeps two invariants: names are unique within the list, and the active
// key either names an entry in the list or is empty (only when the list is empty).
package tabs

import (
	"slices"
	"strings"

	"labelmark-cli/internal/model"
)

// DashboardTab is the default, pinned tab.
var DashboardTab = model.TabItem{
	Name:     "dashboard",
	Title:    "Dashboard",
	Path:     "/dashboard",
	Closable: false,
}

// Navigator moves the UI to a route path. The router implements it.
type Navigator interface {
	Push(path string) error
}

// Store is the tab-bar state machine.
type Store struct {
	tabs   []model.TabItem
	active string
	nav    Navigator
}

// NewStore returns a store holding only the pinned dashboard tab, which is active.
// nav may be nil (no navigation side effects).
func NewStore(nav Navigator) *Store {
	return &Store{
		tabs:   []model.TabItem{DashboardTab},
		active: DashboardTab.Name,
		nav:    nav,
	}
}

func (s *Store) Tabs() []model.TabItem {
	return slices.Clone(s.tabs)
}

func (s *Store) ActiveTab() string { return s.active }

func (s *Store) Len() int { return len(s.tabs) }

// Active returns the active tab entry, if any.
func (s *Store) Active() (model.TabItem, bool) {
	if i := s.indexOf(s.active); i >= 0 {
		return s.tabs[i], true
	}
	return model.TabItem{}, false
}

func (s *Store) indexOf(name string) int {
	return slices.IndexFunc(s.tabs, func(t model.TabItem) bool { return t.Name == name })
}

func (s *Store) navigate(path string) {
	if s.nav == nil || strings.TrimSpace(path) == "" {
		return
	}
	_ = s.nav.Push(path)
}

// ensureActiveTabExists points the active key at fallback when it no longer names an entry,
// navigating to fallback's path when fallback is a real entry.
func (s *Store) ensureActiveTabExists(fallback string) {
	if s.indexOf(s.active) >= 0 {
		return
	}
	s.active = fallback
	if fallback == "" {
		return
	}
	if i := s.indexOf(fallback); i >= 0 {
		s.navigate(s.tabs[i].Path)
	}
}

// AddTab appends tab unless its name is already open, then makes it active.
func (s *Store) AddTab(tab model.TabItem) {
	if s.indexOf(tab.Name) < 0 {
		s.tabs = append(s.tabs, tab)
	}
	s.active = tab.Name
}

// RemoveTab closes the named tab. When it was active, the tab before it (or the first one)
// becomes active.
func (s *Store) RemoveTab(name string) {
	index := s.indexOf(name)
	if index < 0 {
		return
	}
	s.tabs = slices.Delete(s.tabs, index, index+1)
	fallback := ""
	if len(s.tabs) > 0 {
		fallback = s.tabs[max(0, index-1)].Name
	}
	s.ensureActiveTabExists(fallback)
}

func (s *Store) keep(pred func(i int, t model.TabItem) bool) {
	out := make([]model.TabItem, 0, len(s.tabs))
	for i, t := range s.tabs {
		if pred(i, t) || t.Pinned() {
			out = append(out, t)
		}
	}
	s.tabs = out
}

// RemoveOtherTabs keeps only the named tab and pinned tabs.
func (s *Store) RemoveOtherTabs(name string) {
	if s.indexOf(name) < 0 {
		return
	}
	s.keep(func(_ int, t model.TabItem) bool { return t.Name == name })
	s.ensureActiveTabExists(name)
}

// RemoveLeftTabs closes every closable tab before the named one.
func (s *Store) RemoveLeftTabs(name string) {
	index := s.indexOf(name)
	if index < 0 {
		return
	}
	s.keep(func(i int, _ model.TabItem) bool { return i >= index })
	s.ensureActiveTabExists(name)
}

// RemoveRightTabs closes every closable tab after the named one.
func (s *Store) RemoveRightTabs(name string) {
	index := s.indexOf(name)
	if index < 0 {
		return
	}
	s.keep(func(i int, _ model.TabItem) bool { return i <= index })
	s.ensureActiveTabExists(name)
}

// RemoveAllTabs closes every closable tab.
func (s *Store) RemoveAllTabs() {
	s.keep(func(int, model.TabItem) bool { return false })
	fallback := ""
	if len(s.tabs) > 0 {
		fallback = s.tabs[0].Name
	}
	s.ensureActiveTabExists(fallback)
}

// Activate makes an open tab active and navigates to it. Unknown names are ignored.
func (s *Store) Activate(name string) {
	i := s.indexOf(name)
	if i < 0 {
		return
	}
	s.active = name
	s.navigate(s.tabs[i].Path)
}

// Next activates the tab after the active one, wrapping around.
func (s *Store) Next() { s.step(1) }

// Prev activates the tab before the active one, wrapping around.
func (s *Store) Prev() { s.step(-1) }

func (s *Store) step(delta int) {
	if len(s.tabs) == 0 {
		return
	}
	i := s.indexOf(s.active)
	if i < 0 {
		i = 0
	} else {
		i = (i + delta + len(s.tabs)) % len(s.tabs)
	}
	s.Activate(s.tabs[i].Name)
}
