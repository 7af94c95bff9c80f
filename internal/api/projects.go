package api

import (
	"context"
	"net/http"

	"labelmark-cli/internal/model"
)

type Projects struct{ c *Client }

func (p Projects) List(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	if _, err := p.c.do(ctx, request{method: http.MethodGet, path: "/projects/"}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Project{}
	}
	return out, nil
}

func (p Projects) Get(ctx context.Context, id int) (model.Project, error) {
	var out model.Project
	_, err := p.c.do(ctx, request{method: http.MethodGet, path: "/projects/" + pathID(id)}, &out)
	return out, err
}

func (p Projects) Create(ctx context.Context, in model.ProjectCreate) (model.Project, error) {
	var out model.Project
	_, err := p.c.do(ctx, request{method: http.MethodPost, path: "/projects/", json: in}, &out)
	return out, err
}

func (p Projects) Update(ctx context.Context, id int, in model.ProjectUpdate) (model.Project, error) {
	var out model.Project
	_, err := p.c.do(ctx, request{method: http.MethodPut, path: "/projects/" + pathID(id), json: in}, &out)
	return out, err
}

func (p Projects) Delete(ctx context.Context, id int) error {
	_, err := p.c.do(ctx, request{method: http.MethodDelete, path: "/projects/" + pathID(id)}, nil)
	return err
}
