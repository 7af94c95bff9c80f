// Package menu holds the static navigation tree shown in the sidebar.
package menu

import "labelmark-cli/internal/model"

// Default returns a fresh copy of the application menu.
func Default() []model.MenuItem {
	return []model.MenuItem{
		{ID: "1", Title: "Dashboard", Icon: "House", Path: "/dashboard"},
		{ID: "2", Title: "Projects", Icon: "Folder", Path: "/projects"},
		{ID: "3", Title: "Gallery", Icon: "Picture", Path: "/gallery"},
		{ID: "4", Title: "Tree", Icon: "Operation", Path: "/tree"},
		{ID: "5", Title: "Tags", Icon: "CollectionTag", Path: "/tags"},
	}
}

// Visible flattens items depth-first, skipping hidden entries and their children.
func Visible(items []model.MenuItem) []model.MenuItem {
	var out []model.MenuItem
	for _, it := range items {
		if it.Hidden {
			continue
		}
		out = append(out, it)
		out = append(out, Visible(it.Children)...)
	}
	return out
}

// FindByPath returns the first entry (depth-first) routed to path.
func FindByPath(items []model.MenuItem, path string) (model.MenuItem, bool) {
	for _, it := range items {
		if it.Path != "" && it.Path == path {
			return it, true
		}
		if found, ok := FindByPath(it.Children, path); ok {
			return found, true
		}
	}
	return model.MenuItem{}, false
}

// Glyph maps a menu icon name to a terminal glyph. ascii selects the fallback set.
func Glyph(icon string, ascii bool) string {
	if ascii {
		switch icon {
		case "House":
			return "~"
		case "Folder":
			return "#"
		case "Picture":
			return "*"
		case "Operation":
			return "+"
		case "CollectionTag":
			return "@"
		default:
			return "-"
		}
	}
	switch icon {
	case "House":
		return "⌂"
	case "Folder":
		return "▤"
	case "Picture":
		return "▣"
	case "Operation":
		return "⎇"
	case "CollectionTag":
		return "◈"
	default:
		return "•"
	}
}
