package model

import (
	"encoding/json"
	"testing"
)

func TestParseProjectStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ProjectStatus
		wantErr bool
	}{
		{in: "active", want: ProjectStatusActive},
		{in: " Paused ", want: ProjectStatusPaused},
		{in: "COMPLETED", want: ProjectStatusCompleted},
		{in: "archived", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseProjectStatus(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseProjectStatus(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseProjectStatus(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseProjectStatus(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestProjectDecodesSnakeAndCamelKeys(t *testing.T) {
	t.Parallel()

	var snake Project
	if err := json.Unmarshal([]byte(`{"id":3,"name":"Birds","image_count":12,"created_at":"2025-01-02T03:04:05Z"}`), &snake); err != nil {
		t.Fatalf("unmarshal snake: %v", err)
	}
	if snake.ImageCount != 12 || snake.CreatedAt == nil || snake.CreatedAt.Year() != 2025 {
		t.Fatalf("unexpected snake decode: %+v", snake)
	}

	var camel Project
	if err := json.Unmarshal([]byte(`{"id":4,"name":"Cats","imageCount":7,"status":"paused"}`), &camel); err != nil {
		t.Fatalf("unmarshal camel: %v", err)
	}
	if camel.ImageCount != 7 || camel.Status != ProjectStatusPaused {
		t.Fatalf("unexpected camel decode: %+v", camel)
	}
	if camel.DisplayStatus() != ProjectStatusPaused {
		t.Fatalf("expected paused display status")
	}
	if (Project{}).DisplayStatus() != ProjectStatusActive {
		t.Fatalf("expected empty status to display as active")
	}
}

func TestTagDecodesImageCount(t *testing.T) {
	t.Parallel()

	var tg Tag
	if err := json.Unmarshal([]byte(`{"id":1,"name":"owl","category":"species","image_count":5}`), &tg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tg.ImageCount == nil || *tg.ImageCount != 5 {
		t.Fatalf("expected image count 5; got %+v", tg.ImageCount)
	}
	if tg.CategoryName() != "species" {
		t.Fatalf("expected category species; got %q", tg.CategoryName())
	}
}

func TestTreeNodeCount(t *testing.T) {
	t.Parallel()

	n := TreeNode{
		Name: "species",
		Type: TreeNodeTag,
		Children: []TreeNode{
			{Name: "a.jpg", Type: TreeNodeImage},
			{Name: "owl", Type: TreeNodeTag, Children: []TreeNode{
				{Name: "b.jpg", Type: TreeNodeImage},
				{Name: "c.jpg", Type: TreeNodeImage},
			}},
		},
	}
	if got := n.Count(); got != 3 {
		t.Fatalf("Count() = %d; want 3", got)
	}
}

func TestImageHelpers(t *testing.T) {
	t.Parallel()

	img := Image{ID: 9, Tags: []Tag{{ID: 2}, {ID: 5}}}
	if img.Key() != "img-9" {
		t.Fatalf("Key() = %q", img.Key())
	}
	if img.DisplayName() != "image 9" {
		t.Fatalf("DisplayName() = %q", img.DisplayName())
	}
	ids := img.TagIDs()
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 5 {
		t.Fatalf("TagIDs() = %v", ids)
	}
}
