package tui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"

	"labelmark-cli/internal/api"
	"labelmark-cli/internal/appstate"
	"labelmark-cli/internal/model"
	"labelmark-cli/internal/store"
	"labelmark-cli/internal/thumb"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// session is shared by the shell and every view. Commands built here run off the
// program loop, so they only read from it and report back through messages.
type session struct {
	ctx      context.Context
	api      *api.Client
	app      *appstate.AppStore
	user     *appstate.UserStore
	settings store.Settings
	log      *slog.Logger

	// apiNotifies is set when the client's notifier already surfaces API failures.
	apiNotifies bool

	// copy writes to the system clipboard; tests replace it.
	copy func(string) error
}

type noticeMsg struct {
	text  string
	isErr bool
}

type noticeExpiredMsg struct{ seq int }

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type projectSavedMsg struct {
	project model.Project
	created bool
	err     error
}

type projectDeletedMsg struct {
	id  int
	err error
}

type imagesLoadedMsg struct {
	projectID int
	pageIndex int
	page      model.ImagePage
	err       error
}

type imageUploadedMsg struct {
	image model.Image
	path  string
	err   error
}

type imageTagsSavedMsg struct {
	image model.Image
	err   error
}

type imageDeletedMsg struct {
	id  int
	err error
}

type thumbLoadedMsg struct {
	key      string
	rendered string
	err      error
}

type tagsLoadedMsg struct {
	tags []model.Tag
	err  error
}

type tagSavedMsg struct {
	tag     model.Tag
	created bool
	err     error
}

type tagDeletedMsg struct {
	id  int
	err error
}

type categoriesLoadedMsg struct {
	projectID  int
	categories []string
	err        error
}

type treeBuiltMsg struct {
	projectID int
	nodes     []model.TreeNode
	err       error
}

type statsLoadedMsg struct {
	projectID int
	stats     model.TreeStats
	err       error
}

type clipboardDoneMsg struct {
	url string
	err error
}

func notice(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

// failed turns err into a footer notice unless the API notifier already reported it.
func (s *session) failed(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	var apiErr *api.Error
	if s.apiNotifies && errors.As(err, &apiErr) {
		return nil
	}
	return func() tea.Msg { return noticeMsg{text: err.Error(), isErr: true} }
}

func (s *session) currentProjectID() (int, bool) {
	p, ok := s.app.CurrentProject()
	return p.ID, ok
}

func (s *session) loadProjects() tea.Cmd {
	return func() tea.Msg {
		ps, err := s.api.Projects.List(s.ctx)
		return projectsLoadedMsg{projects: ps, err: err}
	}
}

func (s *session) createProject(in model.ProjectCreate) tea.Cmd {
	return func() tea.Msg {
		p, err := s.api.Projects.Create(s.ctx, in)
		return projectSavedMsg{project: p, created: true, err: err}
	}
}

func (s *session) updateProject(id int, in model.ProjectUpdate) tea.Cmd {
	return func() tea.Msg {
		p, err := s.api.Projects.Update(s.ctx, id, in)
		return projectSavedMsg{project: p, err: err}
	}
}

func (s *session) deleteProject(id int) tea.Cmd {
	return func() tea.Msg {
		return projectDeletedMsg{id: id, err: s.api.Projects.Delete(s.ctx, id)}
	}
}

func (s *session) loadImages(projectID, pageIndex int) tea.Cmd {
	limit := s.settings.PageSize
	return func() tea.Msg {
		page, err := s.api.Images.ListByProject(s.ctx, projectID, model.ImageListParams{Skip: pageIndex * limit, Limit: limit})
		return imagesLoadedMsg{projectID: projectID, pageIndex: pageIndex, page: page, err: err}
	}
}

func (s *session) uploadImage(projectID int, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return imageUploadedMsg{path: path, err: err}
		}
		defer f.Close()
		img, err := s.api.Images.Upload(s.ctx, projectID, path, f, nil)
		return imageUploadedMsg{image: img, path: path, err: err}
	}
}

// saveImageTags replaces the tag set, then refetches the image so the grid shows the
// server's view of it.
func (s *session) saveImageTags(id int, tagIDs []int) tea.Cmd {
	return func() tea.Msg {
		if err := s.api.Images.UpdateTags(s.ctx, id, tagIDs); err != nil {
			return imageTagsSavedMsg{err: err}
		}
		img, err := s.api.Images.Get(s.ctx, id)
		return imageTagsSavedMsg{image: img, err: err}
	}
}

func (s *session) deleteImage(id int) tea.Cmd {
	return func() tea.Msg {
		return imageDeletedMsg{id: id, err: s.api.Images.Delete(s.ctx, id)}
	}
}

func (s *session) copyImageURL(id int) tea.Cmd {
	return func() tea.Msg {
		u, err := s.api.Images.URL(s.ctx, id, false)
		if err != nil {
			return clipboardDoneMsg{err: err}
		}
		write := s.copy
		if write == nil {
			write = clipboard.WriteAll
		}
		return clipboardDoneMsg{url: u, err: write(u)}
	}
}

// loadThumb resolves the thumbnail URL, downloads it and renders it into cols x rows
// cells. Failures stay out of the footer; the card shows a placeholder instead.
func (s *session) loadThumb(key string, id, cols, rows int) tea.Cmd {
	return func() tea.Msg {
		ctx := api.Quiet(s.ctx)
		u, err := s.api.Images.URL(ctx, id, true)
		if err != nil {
			return thumbLoadedMsg{key: key, err: err}
		}
		var buf bytes.Buffer
		if _, err := s.api.Images.Fetch(ctx, u, &buf); err != nil {
			return thumbLoadedMsg{key: key, err: err}
		}
		out, err := thumb.Render(&buf, cols, rows)
		return thumbLoadedMsg{key: key, rendered: out, err: err}
	}
}

func (s *session) loadTags() tea.Cmd {
	return func() tea.Msg {
		tags, err := s.api.Tags.List(s.ctx, model.TagSearch{})
		return tagsLoadedMsg{tags: tags, err: err}
	}
}

func (s *session) createTag(in model.TagCreate) tea.Cmd {
	return func() tea.Msg {
		t, err := s.api.Tags.Create(s.ctx, in)
		return tagSavedMsg{tag: t, created: true, err: err}
	}
}

func (s *session) updateTag(id int, in model.TagUpdate) tea.Cmd {
	return func() tea.Msg {
		t, err := s.api.Tags.Update(s.ctx, id, in)
		return tagSavedMsg{tag: t, err: err}
	}
}

func (s *session) deleteTag(id int) tea.Cmd {
	return func() tea.Msg {
		return tagDeletedMsg{id: id, err: s.api.Tags.Delete(s.ctx, id)}
	}
}

func (s *session) loadCategories(projectID int) tea.Cmd {
	return func() tea.Msg {
		cats, err := s.api.Tree.Categories(s.ctx, projectID)
		return categoriesLoadedMsg{projectID: projectID, categories: cats, err: err}
	}
}

func (s *session) buildTree(projectID int, order []string) tea.Cmd {
	return func() tea.Msg {
		nodes, err := s.api.Tree.Build(s.ctx, projectID, model.TreeBuildRequest{TagOrder: order})
		return treeBuiltMsg{projectID: projectID, nodes: nodes, err: err}
	}
}

func (s *session) loadStats(projectID int) tea.Cmd {
	return func() tea.Msg {
		st, err := s.api.Tree.Stats(s.ctx, projectID)
		return statsLoadedMsg{projectID: projectID, stats: st, err: err}
	}
}
