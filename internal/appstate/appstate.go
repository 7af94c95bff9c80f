// Package appstate holds the session-wide client state: the current project, the project
// list, and the layout flags (loading, sidebar collapse, fullscreen).
package appstate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"labelmark-cli/internal/menu"
	"labelmark-cli/internal/model"
	"labelmark-cli/internal/store"
)

// Storage is the persistent key/value capability (a browser's localStorage analog).
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Fullscreen switches the host display in and out of fullscreen.
type Fullscreen interface {
	SetFullscreen(on bool) error
}

// ProjectLister is satisfied by api.Projects.
type ProjectLister interface {
	List(ctx context.Context) ([]model.Project, error)
}

type kvStorage struct {
	ctx context.Context
	kv  store.KV
	log *slog.Logger
}

// StorageFromKV adapts a store.KV. Read errors are logged and reported as missing keys.
func StorageFromKV(ctx context.Context, kv store.KV, log *slog.Logger) Storage {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return kvStorage{ctx: ctx, kv: kv, log: log}
}

func (s kvStorage) GetItem(key string) (string, bool) {
	v, ok, err := s.kv.Get(s.ctx, key)
	if err != nil {
		s.log.Warn("storage read failed", "key", key, "err", err)
		return "", false
	}
	return v, ok
}

func (s kvStorage) SetItem(key, value string) error { return s.kv.Set(s.ctx, key, value) }

func (s kvStorage) RemoveItem(key string) error { return s.kv.Delete(s.ctx, key) }

type AppStore struct {
	storage    Storage
	fullscreen Fullscreen

	currentProject *model.Project
	projects       []model.Project
	loading        bool
	collapsed      bool
	isFullscreen   bool
	menus          []model.MenuItem
}

func NewAppStore(storage Storage, fs Fullscreen) *AppStore {
	return &AppStore{
		storage:    storage,
		fullscreen: fs,
		menus:      menu.Default(),
	}
}

func (a *AppStore) CurrentProject() (model.Project, bool) {
	if a.currentProject == nil {
		return model.Project{}, false
	}
	return *a.currentProject, true
}

// SetCurrentProject selects p and persists it under store.KeyCurrentProject.
func (a *AppStore) SetCurrentProject(p model.Project) error {
	a.currentProject = &p
	if a.storage == nil {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return a.storage.SetItem(store.KeyCurrentProject, string(b))
}

func (a *AppStore) ClearCurrentProject() error {
	a.currentProject = nil
	if a.storage == nil {
		return nil
	}
	return a.storage.RemoveItem(store.KeyCurrentProject)
}

// InitCurrentProject restores the persisted current project. Missing or unreadable
// data leaves the selection empty.
func (a *AppStore) InitCurrentProject() {
	if a.storage == nil {
		return
	}
	raw, ok := a.storage.GetItem(store.KeyCurrentProject)
	if !ok || raw == "" {
		return
	}
	var p model.Project
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID == 0 {
		return
	}
	a.currentProject = &p
}

func (a *AppStore) Projects() []model.Project {
	out := make([]model.Project, len(a.projects))
	copy(out, a.projects)
	return out
}

func (a *AppStore) SetProjects(ps []model.Project) {
	a.projects = append([]model.Project(nil), ps...)
}

// LoadProjects refreshes the project list and re-syncs the current project by id.
// A current project that no longer exists is cleared.
func (a *AppStore) LoadProjects(ctx context.Context, api ProjectLister) error {
	if api == nil {
		return errors.New("no project source")
	}
	a.SetLoading(true)
	defer a.SetLoading(false)

	ps, err := api.List(ctx)
	if err != nil {
		return err
	}
	return a.SyncProjects(ps)
}

// SyncProjects replaces the project list and re-syncs the current project by id.
func (a *AppStore) SyncProjects(ps []model.Project) error {
	a.SetProjects(ps)

	cur, ok := a.CurrentProject()
	if !ok {
		return nil
	}
	for _, p := range ps {
		if p.ID == cur.ID {
			return a.SetCurrentProject(p)
		}
	}
	return a.ClearCurrentProject()
}

func (a *AppStore) Loading() bool { return a.loading }

func (a *AppStore) SetLoading(v bool) { a.loading = v }

func (a *AppStore) Collapsed() bool { return a.collapsed }

func (a *AppStore) SetCollapsed(v bool) { a.collapsed = v }

func (a *AppStore) ToggleCollapsed() { a.collapsed = !a.collapsed }

func (a *AppStore) Fullscreen() bool { return a.isFullscreen }

// ToggleFullscreen asks the display to switch modes; the flag only flips on success.
func (a *AppStore) ToggleFullscreen() error {
	next := !a.isFullscreen
	if a.fullscreen != nil {
		if err := a.fullscreen.SetFullscreen(next); err != nil {
			return err
		}
	}
	a.isFullscreen = next
	return nil
}

func (a *AppStore) Menus() []model.MenuItem { return a.menus }

// UserStore holds the signed-in user's profile. There is no authentication; the profile
// is a fixed placeholder until Logout clears it.
type UserStore struct {
	info model.UserInfo
}

func DefaultUser() model.UserInfo {
	return model.UserInfo{
		Username: "Admin",
		Avatar:   "https://cube.elemecdn.com/0/88/03b0d39583f48206768a7534e55bcpng.png",
		Email:    "admin@example.com",
		Role:     "Administrator",
	}
}

func NewUserStore() *UserStore {
	return &UserStore{info: DefaultUser()}
}

func (u *UserStore) User() model.UserInfo { return u.info }

func (u *UserStore) LoggedIn() bool { return !u.info.IsZero() }

func (u *UserStore) Logout() { u.info = model.UserInfo{} }
