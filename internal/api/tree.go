package api

import (
	"context"
	"net/http"

	"labelmark-cli/internal/model"
)

type Tree struct{ c *Client }

// Build groups a project's images under the selected tags, nesting categories in tagOrder.
func (t Tree) Build(ctx context.Context, projectID int, in model.TreeBuildRequest) ([]model.TreeNode, error) {
	if in.SelectedTags == nil {
		in.SelectedTags = []int{}
	}
	if in.TagOrder == nil {
		in.TagOrder = []string{}
	}
	var out []model.TreeNode
	if _, err := t.c.do(ctx, request{method: http.MethodPost, path: "/tree/build/" + pathID(projectID), json: in}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.TreeNode{}
	}
	return out, nil
}

// Categories lists the tag categories present on a project's images.
func (t Tree) Categories(ctx context.Context, projectID int) ([]string, error) {
	var out []string
	if _, err := t.c.do(ctx, request{method: http.MethodGet, path: "/tree/categories/" + pathID(projectID)}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (t Tree) Stats(ctx context.Context, projectID int) (model.TreeStats, error) {
	var out model.TreeStats
	_, err := t.c.do(ctx, request{method: http.MethodGet, path: "/tree/stats/" + pathID(projectID)}, &out)
	return out, err
}
