package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"testing"

	"labelmark-cli/internal/model"
)

func TestProjects_CRUD(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	var gotBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotBody = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/projects/":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Birds","status":"active","image_count":3}]`))
		case r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"id":2,"name":"Cats","status":"paused","imageCount":0}`))
		case r.Method == http.MethodPut:
			_, _ = w.Write([]byte(`{"id":2,"name":"Cats","status":"completed"}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	list, err := c.Projects.List(ctx)
	if err != nil || len(list) != 1 || list[0].ImageCount != 3 {
		t.Fatalf("List = %+v, %v", list, err)
	}

	p, err := c.Projects.Create(ctx, model.ProjectCreate{Name: "Cats", Status: model.ProjectStatusPaused})
	if err != nil || p.ID != 2 {
		t.Fatalf("Create = %+v, %v", p, err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/v1/projects/" || gotBody["name"] != "Cats" {
		t.Fatalf("Create sent %s %s %v", gotMethod, gotPath, gotBody)
	}

	status := model.ProjectStatusCompleted
	p, err = c.Projects.Update(ctx, 2, model.ProjectUpdate{Status: &status})
	if err != nil || p.Status != model.ProjectStatusCompleted {
		t.Fatalf("Update = %+v, %v", p, err)
	}
	if gotPath != "/api/v1/projects/2" {
		t.Fatalf("Update path = %s", gotPath)
	}
	if _, ok := gotBody["name"]; ok {
		t.Fatalf("partial update must omit unset fields; sent %v", gotBody)
	}

	if err := c.Projects.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/v1/projects/2" {
		t.Fatalf("Delete sent %s %s", gotMethod, gotPath)
	}
}

func TestTags_ListSendsOnlySetFilters(t *testing.T) {
	t.Parallel()

	var query map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[{"id":1,"name":"red","color":"#f00","category":"color"}]`))
	})
	tags, err := c.Tags.List(context.Background(), model.TagSearch{Name: " red ", ProjectID: 4})
	if err != nil || len(tags) != 1 {
		t.Fatalf("List = %+v, %v", tags, err)
	}
	want := map[string][]string{"name": {"red"}, "projectId": {"4"}}
	if !reflect.DeepEqual(query, want) {
		t.Fatalf("query = %v; want %v", query, want)
	}
}

func TestTags_ExtraEndpoints(t *testing.T) {
	t.Parallel()

	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		switch r.URL.Path {
		case "/api/v1/tags/categories/":
			_, _ = w.Write([]byte(`["color","size"]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})
	ctx := context.Background()

	cats, err := c.Tags.Categories(ctx)
	if err != nil || !reflect.DeepEqual(cats, []string{"color", "size"}) {
		t.Fatalf("Categories = %v, %v", cats, err)
	}
	if tags, err := c.Tags.ByCategory(ctx, "big cats"); err != nil || tags == nil {
		t.Fatalf("ByCategory = %v, %v", tags, err)
	}
	if _, err := c.Tags.ForProject(ctx, 7); err != nil {
		t.Fatalf("ForProject: %v", err)
	}
	want := []string{"/api/v1/tags/categories/", "/api/v1/tags/category/big%20cats", "/api/v1/tags/project/7"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v; want %v", paths, want)
	}
}

func TestImages_ListByProjectUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	var query map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","total":42,"data":[{"id":5,"projectId":1,"url":"/files/a.jpg","tags":[{"id":1,"name":"red","color":"#f00"}]}]}`))
	})
	page, err := c.Images.ListByProject(context.Background(), 1, model.ImageListParams{Skip: 20, Limit: 20})
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if page.Total != 42 || len(page.Images) != 1 || page.Images[0].Tags[0].Name != "red" {
		t.Fatalf("page = %+v", page)
	}
	want := map[string][]string{"skip": {"20"}, "limit": {"20"}}
	if !reflect.DeepEqual(query, want) {
		t.Fatalf("query = %v", query)
	}
}

func TestImages_Upload(t *testing.T) {
	t.Parallel()

	var filename, content, tagIDs, path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err == nil {
			filename = hdr.Filename
			b, _ := io.ReadAll(f)
			content = string(b)
			_ = f.Close()
		}
		tagIDs = r.FormValue("tag_ids")
		_, _ = w.Write([]byte(`{"code":200,"message":"uploaded","data":{"id":11,"projectId":3,"url":"/x","tags":[]}}`))
	})
	img, err := c.Images.Upload(context.Background(), 3, "/tmp/photos/cat.png", bytes.NewBufferString("PNGDATA"), []int{1, 2})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if img.ID != 11 || path != "/api/v1/images/upload/3" {
		t.Fatalf("img=%+v path=%s", img, path)
	}
	if filename != "cat.png" || content != "PNGDATA" || tagIDs != "[1,2]" {
		t.Fatalf("multipart: filename=%q content=%q tag_ids=%q", filename, content, tagIDs)
	}
}

func TestImages_TagsURLDelete(t *testing.T) {
	t.Parallel()

	var lastBody, lastQuery, lastPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		lastBody, lastQuery, lastPath = string(b), r.URL.RawQuery, r.URL.Path
		if r.URL.Path == "/api/v1/images/5/url" {
			_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"url":"http://cdn/t.jpg"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":null}`))
	})
	ctx := context.Background()

	if err := c.Images.UpdateTags(ctx, 5, nil); err != nil {
		t.Fatalf("UpdateTags: %v", err)
	}
	if lastPath != "/api/v1/images/5/tags" || lastBody != "[]" {
		t.Fatalf("UpdateTags sent %s %q", lastPath, lastBody)
	}

	u, err := c.Images.URL(ctx, 5, true)
	if err != nil || u != "http://cdn/t.jpg" || lastQuery != "thumbnail=true" {
		t.Fatalf("URL = %q, %v (query %q)", u, err, lastQuery)
	}

	if err := c.Images.Delete(ctx, 5); err != nil || lastPath != "/api/v1/images/5" {
		t.Fatalf("Delete: %v path=%s", err, lastPath)
	}
}

func TestImages_FetchResolvesRelativeURL(t *testing.T) {
	t.Parallel()

	var path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte("bytes"))
	})
	var buf bytes.Buffer
	n, err := c.Images.Fetch(context.Background(), "/uploads/thumbs/a.jpg", &buf)
	if err != nil || n != 5 || buf.String() != "bytes" {
		t.Fatalf("Fetch = %d, %v, %q", n, err, buf.String())
	}
	if path != "/uploads/thumbs/a.jpg" {
		t.Fatalf("path = %s", path)
	}
}

func TestTree_BuildCategoriesStats(t *testing.T) {
	t.Parallel()

	var buildBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/tree/build/1":
			_ = json.NewDecoder(r.Body).Decode(&buildBody)
			_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":[{"name":"red","category":"color","type":"tag","children":[{"name":"img-1","type":"image","children":[],"image_data":{"filename":"a.jpg"}}]}]}`))
		case "/api/v1/tree/categories/1":
			_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":["color"]}`))
		case "/api/v1/tree/stats/1":
			_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"project_id":1,"total_images":4,"total_categories":1,"categories":["color"],"category_stats":{"color":4}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	nodes, err := c.Tree.Build(ctx, 1, model.TreeBuildRequest{TagOrder: []string{"color"}})
	if err != nil || len(nodes) != 1 || nodes[0].Count() != 1 {
		t.Fatalf("Build = %+v, %v", nodes, err)
	}
	if sel, ok := buildBody["selected_tags"].([]any); !ok || len(sel) != 0 {
		t.Fatalf("selected_tags must be sent as []; body=%v", buildBody)
	}
	if order, ok := buildBody["tag_order"].([]any); !ok || len(order) != 1 || order[0] != "color" {
		t.Fatalf("tag_order not sent; body=%v", buildBody)
	}
	if _, ok := buildBody["tagOrder"]; ok {
		t.Fatalf("camelCase key sent; body=%v", buildBody)
	}
	if leaf := nodes[0].Children[0]; leaf.ImageData["filename"] != "a.jpg" {
		t.Fatalf("image_data not decoded: %+v", leaf)
	}

	cats, err := c.Tree.Categories(ctx, 1)
	if err != nil || !reflect.DeepEqual(cats, []string{"color"}) {
		t.Fatalf("Categories = %v, %v", cats, err)
	}

	stats, err := c.Tree.Stats(ctx, 1)
	if err != nil || stats.TotalImages != 4 || stats.CategoryStats["color"] != 4 {
		t.Fatalf("Stats = %+v, %v", stats, err)
	}
}

func TestFiles_URLInfoDownload(t *testing.T) {
	t.Parallel()

	var method, escaped string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, escaped = r.Method, r.URL.EscapedPath()
		switch {
		case r.URL.Path == "/api/v1/files/url/p/a b.jpg":
			_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"url":"http://cdn/p/a b.jpg"}}`))
		case r.URL.Path == "/api/v1/files/info/p/a.jpg":
			_, _ = w.Write([]byte(`{"url":"http://cdn/p/a.jpg","fileType":"image","filePath":"p/a.jpg","fileSize":12}`))
		case r.URL.Path == "/api/v1/files/p/a.jpg":
			_, _ = w.Write([]byte("JPEG"))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"File not found"}`))
		}
	})
	ctx := context.Background()

	u, err := c.Files.URL(ctx, "p/a b.jpg")
	if err != nil || u != "http://cdn/p/a b.jpg" {
		t.Fatalf("URL = %q, %v", u, err)
	}
	if escaped != "/api/v1/files/url/p/a%20b.jpg" {
		t.Fatalf("escaped path = %s", escaped)
	}

	info, err := c.Files.Info(ctx, "p/a.jpg")
	if err != nil || method != http.MethodPost || info.FileSize == nil || *info.FileSize != 12 {
		t.Fatalf("Info = %+v, %v (method %s)", info, err, method)
	}

	var buf bytes.Buffer
	if _, err := c.Files.Download(ctx, "/p/a.jpg", &buf); err != nil || buf.String() != "JPEG" {
		t.Fatalf("Download = %q, %v", buf.String(), err)
	}
	_, err = c.Files.Download(ctx, "missing.jpg", &buf)
	if !IsNotFound(err) {
		t.Fatalf("expected not found; got %v", err)
	}
}
