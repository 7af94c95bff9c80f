package appstate

import (
	"context"
	"errors"
	"testing"

	"labelmark-cli/internal/model"
	"labelmark-cli/internal/store"
)

type fakeFullscreen struct {
	calls []bool
	err   error
}

func (f *fakeFullscreen) SetFullscreen(on bool) error {
	f.calls = append(f.calls, on)
	return f.err
}

type fakeLister struct {
	projects []model.Project
	err      error
	sawBusy  bool
	app      *AppStore
}

func (f *fakeLister) List(context.Context) ([]model.Project, error) {
	f.sawBusy = f.app.Loading()
	return f.projects, f.err
}

func newStorage() Storage {
	return StorageFromKV(context.Background(), store.NewMemoryKV(), nil)
}

func TestSetCurrentProject_PersistsAndRestores(t *testing.T) {
	t.Parallel()

	storage := newStorage()
	a := NewAppStore(storage, nil)
	if err := a.SetCurrentProject(model.Project{ID: 3, Name: "Birds", Status: model.ProjectStatusActive, ImageCount: 9}); err != nil {
		t.Fatalf("SetCurrentProject: %v", err)
	}

	raw, ok := storage.GetItem(store.KeyCurrentProject)
	if !ok || raw == "" {
		t.Fatalf("expected persisted current project")
	}

	b := NewAppStore(storage, nil)
	if _, ok := b.CurrentProject(); ok {
		t.Fatalf("expected no current project before init")
	}
	b.InitCurrentProject()
	p, ok := b.CurrentProject()
	if !ok || p.ID != 3 || p.Name != "Birds" || p.ImageCount != 9 {
		t.Fatalf("restored = %+v ok=%v", p, ok)
	}
}

func TestInitCurrentProject_IgnoresCorruptData(t *testing.T) {
	t.Parallel()

	storage := newStorage()
	_ = storage.SetItem(store.KeyCurrentProject, "{oops")
	a := NewAppStore(storage, nil)
	a.InitCurrentProject()
	if _, ok := a.CurrentProject(); ok {
		t.Fatalf("corrupt data must leave the selection empty")
	}
}

func TestLoadProjects_ResyncsAndClears(t *testing.T) {
	t.Parallel()

	storage := newStorage()
	a := NewAppStore(storage, nil)
	_ = a.SetCurrentProject(model.Project{ID: 1, Name: "old name"})

	l := &fakeLister{app: a, projects: []model.Project{{ID: 1, Name: "new name"}, {ID: 2, Name: "two"}}}
	if err := a.LoadProjects(context.Background(), l); err != nil {
		t.Fatalf("LoadProjects: %v", err)
	}
	if !l.sawBusy || a.Loading() {
		t.Fatalf("loading flag should be set during the call only")
	}
	if p, _ := a.CurrentProject(); p.Name != "new name" {
		t.Fatalf("current project not re-synced: %+v", p)
	}
	if len(a.Projects()) != 2 {
		t.Fatalf("projects = %+v", a.Projects())
	}

	l.projects = []model.Project{{ID: 2, Name: "two"}}
	if err := a.LoadProjects(context.Background(), l); err != nil {
		t.Fatalf("LoadProjects: %v", err)
	}
	if _, ok := a.CurrentProject(); ok {
		t.Fatalf("deleted current project should be cleared")
	}
	if _, ok := storage.GetItem(store.KeyCurrentProject); ok {
		t.Fatalf("cleared project should be removed from storage")
	}
}

func TestLoadProjects_ErrorKeepsList(t *testing.T) {
	t.Parallel()

	a := NewAppStore(newStorage(), nil)
	a.SetProjects([]model.Project{{ID: 1}})
	boom := errors.New("boom")
	err := a.LoadProjects(context.Background(), &fakeLister{app: a, err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom; got %v", err)
	}
	if len(a.Projects()) != 1 || a.Loading() {
		t.Fatalf("state changed on failure: projects=%v loading=%v", a.Projects(), a.Loading())
	}
}

func TestToggles(t *testing.T) {
	t.Parallel()

	fs := &fakeFullscreen{}
	a := NewAppStore(nil, fs)

	a.ToggleCollapsed()
	if !a.Collapsed() {
		t.Fatalf("expected collapsed")
	}
	a.ToggleCollapsed()
	if a.Collapsed() {
		t.Fatalf("expected expanded")
	}

	if err := a.ToggleFullscreen(); err != nil || !a.Fullscreen() {
		t.Fatalf("ToggleFullscreen on: %v", err)
	}
	if err := a.ToggleFullscreen(); err != nil || a.Fullscreen() {
		t.Fatalf("ToggleFullscreen off: %v", err)
	}
	if len(fs.calls) != 2 || !fs.calls[0] || fs.calls[1] {
		t.Fatalf("fullscreen calls = %v", fs.calls)
	}

	fs.err = errors.New("no tty")
	if err := a.ToggleFullscreen(); err == nil || a.Fullscreen() {
		t.Fatalf("failed toggle must leave the flag unchanged")
	}

	if len(a.Menus()) != 5 {
		t.Fatalf("expected the default menu; got %d items", len(a.Menus()))
	}
}

func TestUserStore_Logout(t *testing.T) {
	t.Parallel()

	u := NewUserStore()
	if got := u.User(); got.Username != "Admin" || got.Email != "admin@example.com" || got.Role != "Administrator" {
		t.Fatalf("unexpected default user %+v", got)
	}
	u.Logout()
	if u.LoggedIn() || !u.User().IsZero() {
		t.Fatalf("expected cleared profile")
	}
}
