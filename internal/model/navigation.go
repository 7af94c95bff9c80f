package model

// MenuItem is a node of the static navigation tree shown in the sidebar.
type MenuItem struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Icon     string     `json:"icon,omitempty"`
	Path     string     `json:"path,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
	Closable *bool      `json:"closable,omitempty"`
	Hidden   bool       `json:"hidden,omitempty"`
}

// TabItem is an open tab in the tab bar. Name is the identity key.
type TabItem struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Path     string `json:"path"`
	Closable bool   `json:"closable"`
}

// Pinned reports whether the tab survives bulk-close operations.
func (t TabItem) Pinned() bool { return !t.Closable }
