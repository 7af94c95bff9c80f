package tabs

import (
	"strings"

	"labelmark-cli/internal/menu"
	"labelmark-cli/internal/model"
)

// Snapshot is the persisted form of the tab bar.
type Snapshot struct {
	Tabs   []model.TabItem `json:"tabs"`
	Active string          `json:"active"`
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{Tabs: s.Tabs(), Active: s.active}
}

// Restore replaces the open tabs with snap. Duplicate names are dropped (first wins), the
// dashboard tab is re-pinned at the front when missing, and the active key is repaired
// without navigating.
func (s *Store) Restore(snap Snapshot) {
	seen := map[string]bool{}
	out := make([]model.TabItem, 0, len(snap.Tabs)+1)
	for _, t := range snap.Tabs {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" || seen[t.Name] {
			continue
		}
		if t.Name == DashboardTab.Name {
			t = DashboardTab
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	if !seen[DashboardTab.Name] {
		out = append([]model.TabItem{DashboardTab}, out...)
	}
	s.tabs = out
	s.active = snap.Active
	if s.indexOf(s.active) < 0 {
		s.active = s.tabs[0].Name
	}
}

// TabNameForPath derives a tab name from a route path ("/gallery" => "gallery").
func TabNameForPath(path string) string {
	name := strings.ReplaceAll(path, "/", "-")
	if len(name) > 0 {
		name = name[1:]
	}
	if name == "" {
		return DashboardTab.Name
	}
	return name
}

// AddTabFromMenu opens (or re-selects) the tab for the menu entry with the given path.
// It reports whether a menu entry matched.
func (s *Store) AddTabFromMenu(items []model.MenuItem, path string) bool {
	item, ok := menu.FindByPath(items, path)
	if !ok {
		return false
	}
	closable := true
	if item.Closable != nil {
		closable = *item.Closable
	}
	p := item.Path
	if p == "" {
		p = "/"
	}
	s.AddTab(model.TabItem{
		Name:     TabNameForPath(item.Path),
		Title:    item.Title,
		Path:     p,
		Closable: closable,
	})
	return true
}
