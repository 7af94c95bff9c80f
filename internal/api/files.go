package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"labelmark-cli/internal/model"
)

type Files struct{ c *Client }

// URL resolves a storage path to a fetchable URL. The backend answers with either a bare
// string or {"url": ...}.
func (f Files) URL(ctx context.Context, path string) (string, error) {
	res, err := f.c.do(ctx, request{method: http.MethodGet, path: "/files/url/" + escapePath(path)}, nil)
	if err != nil {
		return "", err
	}
	raw := bytes.TrimSpace(res.data)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var u model.ImageURL
	if err := json.Unmarshal(raw, &u); err == nil && u.URL != "" {
		return u.URL, nil
	}
	return string(raw), nil
}

func (f Files) Info(ctx context.Context, path string) (model.FileInfo, error) {
	var out model.FileInfo
	_, err := f.c.do(ctx, request{method: http.MethodPost, path: "/files/info/" + escapePath(path)}, &out)
	return out, err
}

// Download streams a locally stored file into w.
func (f Files) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	return f.c.stream(ctx, request{method: http.MethodGet, path: "/files/" + escapePath(path)}, w)
}
