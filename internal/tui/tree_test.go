package tui

import (
	"strings"
	"testing"

	"labelmark-cli/internal/model"
)

func ptr[T any](v T) *T { return &v }

func sampleTree() []model.TreeNode {
	return []model.TreeNode{
		{Name: "red", Category: ptr("color"), Type: model.TreeNodeTag, Children: []model.TreeNode{
			{Name: "large", Category: ptr("size"), Type: model.TreeNodeTag, Children: []model.TreeNode{
				{Name: "img-1", Type: model.TreeNodeImage, ImageData: map[string]any{"filename": "heron.jpg"}},
				{Name: "img-2", Type: model.TreeNodeImage},
			}},
		}},
		{Name: "blue", Category: ptr("color"), Type: model.TreeNodeTag, Children: []model.TreeNode{
			{Name: "img-3", Type: model.TreeNodeImage},
		}},
	}
}

func newTreeFixture(t *testing.T) *treeScreen {
	t.Helper()
	s, _ := newTestSession(t, nil)
	if err := s.app.SetCurrentProject(model.Project{ID: 1, Name: "Birds"}); err != nil {
		t.Fatal(err)
	}
	tr := newTreeScreen(s)
	_ = tr.enter()
	tr.resize(100, 30)
	return tr
}

func TestTree_CategoryOrder(t *testing.T) {
	tr := newTreeFixture(t)
	tr.update(categoriesLoadedMsg{projectID: 1, categories: []string{"color", "size", "shape"}})

	tr.update(keyPress(" "))
	tr.update(keyPress("j"))
	tr.update(keyPress("j"))
	tr.update(keyPress(" "))
	if got := strings.Join(tr.order, ","); got != "color,shape" {
		t.Fatalf("order = %s", got)
	}

	tr.update(keyPress("K"))
	if got := strings.Join(tr.order, ","); got != "shape,color" {
		t.Fatalf("order after raise = %s", got)
	}

	// Deselecting removes the category from the order.
	tr.update(keyPress(" "))
	if got := strings.Join(tr.order, ","); got != "color" {
		t.Fatalf("order after toggle = %s", got)
	}

	if cmd := tr.update(keyPress("b")); cmd == nil || !tr.building {
		t.Fatalf("build should start")
	}
}

func TestTree_BuildRequiresCategories(t *testing.T) {
	tr := newTreeFixture(t)
	tr.update(categoriesLoadedMsg{projectID: 1, categories: []string{"color"}})
	msgs := run(tr.update(keyPress("b")))
	if tr.building || len(msgs) != 1 {
		t.Fatalf("building=%v msgs=%v", tr.building, msgs)
	}
	if n, ok := msgs[0].(noticeMsg); !ok || n.isErr {
		t.Fatalf("expected an informational notice, got %#v", msgs[0])
	}
}

func TestTree_ExpandCollapse(t *testing.T) {
	tr := newTreeFixture(t)
	tr.order = []string{"color", "size"}
	tr.update(treeBuiltMsg{projectID: 1, nodes: sampleTree()})

	// Top-level nodes open after a build.
	if len(tr.rows) != 4 || !tr.focusTree {
		t.Fatalf("rows = %d focusTree=%v", len(tr.rows), tr.focusTree)
	}

	tr.update(keyPress("j"))
	tr.update(keyPress("enter"))
	if len(tr.rows) != 6 {
		t.Fatalf("rows after expanding large = %d", len(tr.rows))
	}
	view := tr.view()
	for _, want := range []string{"heron.jpg", "img-2", "red", "(2)", glyphTwistyExpanded()} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	tr.update(keyPress("c"))
	if len(tr.rows) != 2 {
		t.Fatalf("rows after collapse all = %d", len(tr.rows))
	}
	tr.update(keyPress("e"))
	if len(tr.rows) != 6 {
		t.Fatalf("rows after expand all = %d", len(tr.rows))
	}
}

func TestTree_ProjectSwitchResets(t *testing.T) {
	tr := newTreeFixture(t)
	tr.update(treeBuiltMsg{projectID: 1, nodes: sampleTree()})
	_ = tr.s.app.SetCurrentProject(model.Project{ID: 2, Name: "Cats"})
	tr.update(projectsLoadedMsg{})
	if tr.projectID != 2 || tr.built || len(tr.rows) != 0 {
		t.Fatalf("tree not reset: project=%d built=%v rows=%d", tr.projectID, tr.built, len(tr.rows))
	}
	// Results for the previous project are dropped.
	tr.update(treeBuiltMsg{projectID: 1, nodes: sampleTree()})
	if tr.built {
		t.Fatalf("stale tree applied")
	}
}

func TestTreeNodeCount(t *testing.T) {
	nodes := sampleTree()
	if got := nodes[0].Count(); got != 2 {
		t.Fatalf("red count = %d", got)
	}
	if got := nodes[1].Count(); got != 1 {
		t.Fatalf("blue count = %d", got)
	}
}
