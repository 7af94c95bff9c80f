package tui

import (
	"fmt"
	"strings"

	"labelmark-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type treeKeys struct {
	Up       key.Binding
	Down     key.Binding
	Pane     key.Binding
	Toggle   key.Binding
	Raise    key.Binding
	Lower    key.Binding
	Build    key.Binding
	Expand   key.Binding
	Collapse key.Binding
}

func defaultTreeKeys() treeKeys {
	return treeKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Pane:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Raise:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K/J", "reorder")),
		Lower:    key.NewBinding(key.WithKeys("J", "shift+down")),
		Build:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "build")),
		Expand:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e/c", "expand/collapse all")),
		Collapse: key.NewBinding(key.WithKeys("c")),
	}
}

// treeRow is one visible line of the flattened tree.
type treeRow struct {
	node  *model.TreeNode
	path  string
	depth int
}

type treeScreen struct {
	s    *session
	keyb treeKeys

	width  int
	height int

	projectID  int
	categories []string
	// order lists the chosen categories, outermost level first.
	order     []string
	catCursor int

	nodes    []model.TreeNode
	built    bool
	building bool
	expanded map[string]bool
	rows     []treeRow
	cursor   int
	scroll   int

	focusTree bool
}

func newTreeScreen(s *session) *treeScreen {
	return &treeScreen{s: s, keyb: defaultTreeKeys(), expanded: map[string]bool{}}
}

func (t *treeScreen) enter() tea.Cmd {
	pid, ok := t.s.currentProjectID()
	if !ok {
		t.reset(0)
		return nil
	}
	if pid != t.projectID {
		t.reset(pid)
	}
	return t.s.loadCategories(pid)
}

func (t *treeScreen) reset(projectID int) {
	t.projectID = projectID
	t.categories = nil
	t.order = nil
	t.catCursor = 0
	t.nodes = nil
	t.built = false
	t.rows = nil
	t.cursor, t.scroll = 0, 0
	t.focusTree = false
	clear(t.expanded)
}

func (t *treeScreen) resize(width, height int) {
	t.width, t.height = width, height
}

func (t *treeScreen) capturing() bool { return false }

func (t *treeScreen) keys() []key.Binding {
	if t.focusTree {
		return []key.Binding{t.keyb.Pane, t.keyb.Toggle, t.keyb.Expand}
	}
	return []key.Binding{t.keyb.Pane, t.keyb.Toggle, t.keyb.Raise, t.keyb.Build}
}

func (t *treeScreen) orderIndex(cat string) int {
	for i, c := range t.order {
		if c == cat {
			return i
		}
	}
	return -1
}

func (t *treeScreen) toggleCategory() {
	if t.catCursor >= len(t.categories) {
		return
	}
	cat := t.categories[t.catCursor]
	if i := t.orderIndex(cat); i >= 0 {
		t.order = append(t.order[:i], t.order[i+1:]...)
		return
	}
	t.order = append(t.order, cat)
}

// moveCategory shifts the category under the cursor within the build order.
func (t *treeScreen) moveCategory(delta int) {
	if t.catCursor >= len(t.categories) {
		return
	}
	i := t.orderIndex(t.categories[t.catCursor])
	j := i + delta
	if i < 0 || j < 0 || j >= len(t.order) {
		return
	}
	t.order[i], t.order[j] = t.order[j], t.order[i]
}

func (t *treeScreen) build() tea.Cmd {
	if t.projectID == 0 {
		return nil
	}
	if len(t.order) == 0 {
		return notice("Choose at least one category (space) before building")
	}
	t.building = true
	t.s.app.SetLoading(true)
	return t.s.buildTree(t.projectID, append([]string(nil), t.order...))
}

// flatten rebuilds the visible rows from the expansion state.
func (t *treeScreen) flatten() {
	t.rows = t.rows[:0]
	var walk func(nodes []model.TreeNode, prefix string, depth int)
	walk = func(nodes []model.TreeNode, prefix string, depth int) {
		for i := range nodes {
			n := &nodes[i]
			p := prefix + "/" + n.Name
			t.rows = append(t.rows, treeRow{node: n, path: p, depth: depth})
			if len(n.Children) > 0 && t.expanded[p] {
				walk(n.Children, p, depth+1)
			}
		}
	}
	walk(t.nodes, "", 0)
	if t.cursor >= len(t.rows) {
		t.cursor = max(len(t.rows)-1, 0)
	}
}

func (t *treeScreen) setAll(open bool) {
	var walk func(nodes []model.TreeNode, prefix string)
	walk = func(nodes []model.TreeNode, prefix string) {
		for i := range nodes {
			p := prefix + "/" + nodes[i].Name
			if len(nodes[i].Children) > 0 {
				if open {
					t.expanded[p] = true
				} else {
					delete(t.expanded, p)
				}
				walk(nodes[i].Children, p)
			}
		}
	}
	walk(t.nodes, "")
	t.flatten()
}

func (t *treeScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		if msg.projectID != t.projectID {
			return nil
		}
		if msg.err != nil {
			return t.s.failed(msg.err)
		}
		t.categories = msg.categories
		// Drop chosen categories that no longer exist.
		kept := t.order[:0]
		for _, c := range t.order {
			for _, have := range t.categories {
				if c == have {
					kept = append(kept, c)
					break
				}
			}
		}
		t.order = kept
		if t.catCursor >= len(t.categories) {
			t.catCursor = max(len(t.categories)-1, 0)
		}
		return nil

	case treeBuiltMsg:
		if msg.projectID != t.projectID {
			return nil
		}
		t.building = false
		t.s.app.SetLoading(false)
		if msg.err != nil {
			return t.s.failed(msg.err)
		}
		t.nodes = msg.nodes
		t.built = true
		clear(t.expanded)
		for _, n := range t.nodes {
			t.expanded["/"+n.Name] = true
		}
		t.cursor, t.scroll = 0, 0
		t.flatten()
		t.focusTree = len(t.rows) > 0
		return nil

	case projectsLoadedMsg, projectDeletedMsg:
		if pid, _ := t.s.currentProjectID(); pid != t.projectID {
			t.reset(pid)
		}
		return nil

	case tea.KeyMsg:
		if key.Matches(msg, t.keyb.Pane) {
			t.focusTree = !t.focusTree && len(t.rows) > 0
			return nil
		}
		if key.Matches(msg, t.keyb.Build) {
			return t.build()
		}
		if t.focusTree {
			t.updateTreeKey(msg)
			return nil
		}
		switch {
		case key.Matches(msg, t.keyb.Up):
			t.catCursor = max(t.catCursor-1, 0)
		case key.Matches(msg, t.keyb.Down):
			t.catCursor = min(t.catCursor+1, max(len(t.categories)-1, 0))
		case key.Matches(msg, t.keyb.Toggle):
			t.toggleCategory()
		case key.Matches(msg, t.keyb.Raise):
			t.moveCategory(-1)
		case key.Matches(msg, t.keyb.Lower):
			t.moveCategory(1)
		}
	}
	return nil
}

func (t *treeScreen) updateTreeKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, t.keyb.Up):
		t.cursor = max(t.cursor-1, 0)
	case key.Matches(msg, t.keyb.Down):
		t.cursor = min(t.cursor+1, max(len(t.rows)-1, 0))
	case key.Matches(msg, t.keyb.Toggle):
		if t.cursor < len(t.rows) && len(t.rows[t.cursor].node.Children) > 0 {
			p := t.rows[t.cursor].path
			if t.expanded[p] {
				delete(t.expanded, p)
			} else {
				t.expanded[p] = true
			}
			t.flatten()
		}
	case key.Matches(msg, t.keyb.Expand):
		t.setAll(true)
	case key.Matches(msg, t.keyb.Collapse):
		t.setAll(false)
	}
	if t.cursor < t.scroll {
		t.scroll = t.cursor
	}
	if h := t.treeHeight(); t.cursor >= t.scroll+h {
		t.scroll = t.cursor - h + 1
	}
}

func (t *treeScreen) categoryWidth() int {
	return min(max(t.width/3, 20), 32)
}

func (t *treeScreen) treeHeight() int {
	return max(t.height-2, 1)
}

func (t *treeScreen) view() string {
	if t.projectID == 0 {
		return styleTitle().Render("Tree") + "\n\n" +
			styleMuted().Render("No current project. Open Projects (2) and press enter to pick one.")
	}
	cw := t.categoryWidth()
	left := normalizePane(t.renderCategories(cw), cw, t.height)
	right := normalizePane(t.renderTree(), max(t.width-cw-2, 1), t.height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (t *treeScreen) renderCategories(width int) string {
	title := styleTitle().Render("Categories")
	if !t.focusTree {
		title = styleTitle().Underline(true).Render("Categories")
	}
	lines := []string{title, ""}
	if len(t.categories) == 0 {
		lines = append(lines, styleMuted().Render("no tag categories"))
	}
	for i, c := range t.categories {
		mark := glyphUncheck() + "  "
		if n := t.orderIndex(c); n >= 0 {
			mark = fmt.Sprintf("%s %d", glyphCheck(), n+1)
		}
		ln := fitWidth(mark+" "+c, width)
		if i == t.catCursor && !t.focusTree {
			ln = styleSelected().Render(ln)
		}
		lines = append(lines, ln)
	}
	return strings.Join(lines, "\n")
}

func (t *treeScreen) renderTree() string {
	title := styleTitle().Render("Tree")
	if t.focusTree {
		title = styleTitle().Underline(true).Render("Tree")
	}
	if len(t.order) > 0 {
		title += styleMuted().Render("  " + strings.Join(t.order, " > "))
	}
	lines := []string{title, ""}
	switch {
	case t.building:
		lines = append(lines, styleMuted().Render("building"+glyphEllipsis()))
		return strings.Join(lines, "\n")
	case !t.built:
		lines = append(lines, styleMuted().Render("Choose categories with space, order them with K/J, then press b."))
		return strings.Join(lines, "\n")
	case len(t.rows) == 0:
		lines = append(lines, styleMuted().Render("No images match the chosen categories."))
		return strings.Join(lines, "\n")
	}
	end := min(t.scroll+t.treeHeight(), len(t.rows))
	for i := t.scroll; i < end; i++ {
		ln := renderTreeRow(t.rows[i], t.expanded[t.rows[i].path])
		if i == t.cursor && t.focusTree {
			ln = styleSelected().Render(ln)
		}
		lines = append(lines, ln)
	}
	return strings.Join(lines, "\n")
}

func renderTreeRow(r treeRow, open bool) string {
	indent := strings.Repeat("  ", r.depth)
	n := r.node
	if n.Type == model.TreeNodeImage {
		name := n.Name
		if fn, ok := n.ImageData["filename"].(string); ok && fn != "" {
			name = fn
		}
		return indent + "  " + glyphBullet() + " " + name
	}
	twisty := " "
	if len(n.Children) > 0 {
		twisty = glyphTwistyCollapsed()
		if open {
			twisty = glyphTwistyExpanded()
		}
	}
	label := n.Name
	if n.Category != nil && *n.Category != "" {
		label += styleMuted().Render(" · " + *n.Category)
	}
	return fmt.Sprintf("%s%s %s %s", indent, twisty, label, styleMuted().Render(fmt.Sprintf("(%d)", n.Count())))
}
