package menu

import (
	"testing"

	"labelmark-cli/internal/model"
)

func TestDefaultMenuPaths(t *testing.T) {
	t.Parallel()

	want := []string{"/dashboard", "/projects", "/gallery", "/tree", "/tags"}
	got := Default()
	if len(got) != len(want) {
		t.Fatalf("len = %d; want %d", len(got), len(want))
	}
	for i, p := range want {
		if got[i].Path != p {
			t.Fatalf("item %d path = %q; want %q", i, got[i].Path, p)
		}
	}

	// Default must hand out independent copies.
	got[0].Title = "changed"
	if Default()[0].Title == "changed" {
		t.Fatalf("Default() shares backing storage")
	}
}

func TestVisibleSkipsHiddenSubtrees(t *testing.T) {
	t.Parallel()

	items := []model.MenuItem{
		{ID: "a", Path: "/a"},
		{ID: "b", Hidden: true, Children: []model.MenuItem{{ID: "b1", Path: "/b1"}}},
		{ID: "c", Children: []model.MenuItem{{ID: "c1", Path: "/c1"}, {ID: "c2", Hidden: true}}},
	}
	var ids []string
	for _, it := range Visible(items) {
		ids = append(ids, it.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "c" || ids[2] != "c1" {
		t.Fatalf("visible ids = %v", ids)
	}
}

func TestFindByPath(t *testing.T) {
	t.Parallel()

	items := []model.MenuItem{{ID: "p", Children: []model.MenuItem{{ID: "x", Path: "/x"}}}}
	if it, ok := FindByPath(items, "/x"); !ok || it.ID != "x" {
		t.Fatalf("FindByPath(/x) = %+v, %v", it, ok)
	}
	if _, ok := FindByPath(items, ""); ok {
		t.Fatalf("empty path must not match entries without a path")
	}
}
