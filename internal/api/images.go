package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"labelmark-cli/internal/model"
)

type Images struct{ c *Client }

// Upload sends one file as multipart form data ("file" plus a JSON "tag_ids" field).
func (i Images) Upload(ctx context.Context, projectID int, filename string, r io.Reader, tagIDs []int) (model.Image, error) {
	if tagIDs == nil {
		tagIDs = []int{}
	}
	ids, err := json.Marshal(tagIDs)
	if err != nil {
		return model.Image{}, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return model.Image{}, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return model.Image{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.WriteField("tag_ids", string(ids)); err != nil {
		return model.Image{}, err
	}
	if err := mw.Close(); err != nil {
		return model.Image{}, err
	}

	var out model.Image
	_, err = i.c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/images/upload/" + pathID(projectID),
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}, &out)
	return out, err
}

// ListByProject returns one page of a project's images and the project's total image count.
func (i Images) ListByProject(ctx context.Context, projectID int, params model.ImageListParams) (model.ImagePage, error) {
	q := url.Values{}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	var items []model.Image
	res, err := i.c.do(ctx, request{method: http.MethodGet, path: "/images/project/" + pathID(projectID), query: q}, &items)
	if err != nil {
		return model.ImagePage{}, err
	}
	if items == nil {
		items = []model.Image{}
	}
	page := model.ImagePage{Images: items, Total: len(items)}
	if res.total != nil {
		page.Total = *res.total
	}
	return page, nil
}

func (i Images) Get(ctx context.Context, id int) (model.Image, error) {
	var out model.Image
	_, err := i.c.do(ctx, request{method: http.MethodGet, path: "/images/" + pathID(id)}, &out)
	return out, err
}

// UpdateTags replaces the image's tag set.
func (i Images) UpdateTags(ctx context.Context, id int, tagIDs []int) error {
	if tagIDs == nil {
		tagIDs = []int{}
	}
	_, err := i.c.do(ctx, request{method: http.MethodPut, path: "/images/" + pathID(id) + "/tags", json: tagIDs}, nil)
	return err
}

func (i Images) Delete(ctx context.Context, id int) error {
	_, err := i.c.do(ctx, request{method: http.MethodDelete, path: "/images/" + pathID(id)}, nil)
	return err
}

// URL resolves the storage URL of an image (or its thumbnail).
func (i Images) URL(ctx context.Context, id int, thumbnail bool) (string, error) {
	q := url.Values{"thumbnail": {strconv.FormatBool(thumbnail)}}
	var out model.ImageURL
	if _, err := i.c.do(ctx, request{method: http.MethodGet, path: "/images/" + pathID(id) + "/url", query: q}, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// Fetch downloads an absolute or server-relative URL (as returned by URL) into w.
func (i Images) Fetch(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, err
	}
	if !u.IsAbs() {
		base, err := url.Parse(i.c.baseURL)
		if err != nil {
			return 0, err
		}
		u = base.ResolveReference(u)
	}
	return i.c.stream(ctx, request{method: http.MethodGet, absolute: u.String()}, w)
}
