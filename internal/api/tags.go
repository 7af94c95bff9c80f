package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"labelmark-cli/internal/model"
)

type Tags struct{ c *Client }

// List returns tags matching the non-empty search fields.
func (t Tags) List(ctx context.Context, search model.TagSearch) ([]model.Tag, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			q.Set(k, v)
		}
	}
	set("name", search.Name)
	set("color", search.Color)
	set("category", search.Category)
	set("tagType", search.TagType)
	if search.ProjectID > 0 {
		q.Set("projectId", strconv.Itoa(search.ProjectID))
	}
	return t.list(ctx, request{method: http.MethodGet, path: "/tags/", query: q})
}

func (t Tags) Get(ctx context.Context, id int) (model.Tag, error) {
	var out model.Tag
	_, err := t.c.do(ctx, request{method: http.MethodGet, path: "/tags/" + pathID(id)}, &out)
	return out, err
}

func (t Tags) Create(ctx context.Context, in model.TagCreate) (model.Tag, error) {
	var out model.Tag
	_, err := t.c.do(ctx, request{method: http.MethodPost, path: "/tags/", json: in}, &out)
	return out, err
}

func (t Tags) Update(ctx context.Context, id int, in model.TagUpdate) (model.Tag, error) {
	var out model.Tag
	_, err := t.c.do(ctx, request{method: http.MethodPut, path: "/tags/" + pathID(id), json: in}, &out)
	return out, err
}

func (t Tags) Delete(ctx context.Context, id int) error {
	_, err := t.c.do(ctx, request{method: http.MethodDelete, path: "/tags/" + pathID(id)}, nil)
	return err
}

// Categories lists the distinct tag categories.
func (t Tags) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := t.c.do(ctx, request{method: http.MethodGet, path: "/tags/categories/"}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (t Tags) ByCategory(ctx context.Context, category string) ([]model.Tag, error) {
	return t.list(ctx, request{method: http.MethodGet, path: "/tags/category/" + url.PathEscape(category)})
}

// ForProject lists the tags used by a project's images, with per-project counts.
func (t Tags) ForProject(ctx context.Context, projectID int) ([]model.Tag, error) {
	return t.list(ctx, request{method: http.MethodGet, path: "/tags/project/" + pathID(projectID)})
}

func (t Tags) list(ctx context.Context, r request) ([]model.Tag, error) {
	var out []model.Tag
	if _, err := t.c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Tag{}
	}
	return out, nil
}
