package tui

import (
	"fmt"

	"labelmark-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type projectItem struct {
	project model.Project
	current bool
}

func (i projectItem) Title() string {
	if i.current {
		return i.project.Name + " " + glyphBullet()
	}
	return i.project.Name
}

func (i projectItem) Description() string {
	return fmt.Sprintf("%s %s %d images", i.project.DisplayStatus(), glyphBullet(), i.project.ImageCount)
}

func (i projectItem) FilterValue() string { return i.project.Name }

type projectsKeys struct {
	Use    key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

type projectsScreen struct {
	s    *session
	list list.Model
	desc viewport.Model
	keyb projectsKeys

	width  int
	height int

	form    *formModal
	confirm *confirmModal
}

func newProjectsScreen(s *session) *projectsScreen {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Projects"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.Styles.Title = styleTitle()
	return &projectsScreen{
		s:    s,
		list: l,
		desc: viewport.New(0, 0),
		keyb: projectsKeys{
			Use:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "use project")),
			New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
			Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
			Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		},
	}
}

func (p *projectsScreen) enter() tea.Cmd {
	p.s.app.SetLoading(true)
	return p.s.loadProjects()
}

func (p *projectsScreen) resize(width, height int) {
	p.width, p.height = width, height
	lw := width / 2
	p.list.SetSize(lw, height)
	p.desc.Width = width - lw - 2
	p.desc.Height = height
	p.refreshDescription()
}

func (p *projectsScreen) capturing() bool {
	return p.form != nil || p.confirm != nil || p.list.SettingFilter()
}

func (p *projectsScreen) keys() []key.Binding {
	return []key.Binding{p.keyb.Use, p.keyb.New, p.keyb.Edit, p.keyb.Delete}
}

func (p *projectsScreen) selected() (model.Project, bool) {
	it, ok := p.list.SelectedItem().(projectItem)
	return it.project, ok
}

func (p *projectsScreen) setItems() {
	cur, hasCur := p.s.app.CurrentProject()
	ps := p.s.app.Projects()
	items := make([]list.Item, 0, len(ps))
	for _, pr := range ps {
		items = append(items, projectItem{project: pr, current: hasCur && cur.ID == pr.ID})
	}
	p.list.SetItems(items)
	p.refreshDescription()
}

func (p *projectsScreen) refreshDescription() {
	pr, ok := p.selected()
	if !ok {
		p.desc.SetContent(styleMuted().Render("No projects yet. Press n to create one."))
		return
	}
	body := renderMarkdown(pr.DescriptionText(), max(p.desc.Width-2, 10))
	if body == "" {
		body = styleMuted().Render("No description.")
	}
	head := lipgloss.NewStyle().Bold(true).Render(pr.Name) + "  " + styleStatus(string(pr.DisplayStatus())).Render(string(pr.DisplayStatus()))
	p.desc.SetContent(head + "\n\n" + body)
	p.desc.GotoTop()
}

func (p *projectsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		p.setItems()
		return nil
	case projectSavedMsg:
		if msg.err != nil {
			return p.s.failed(msg.err)
		}
		verb := "Updated"
		if msg.created {
			verb = "Created"
		}
		if cur, ok := p.s.app.CurrentProject(); ok && cur.ID == msg.project.ID {
			_ = p.s.app.SetCurrentProject(msg.project)
		}
		return tea.Batch(notice(verb+" project "+msg.project.Name), p.s.loadProjects())
	case projectDeletedMsg:
		if msg.err != nil {
			return p.s.failed(msg.err)
		}
		return tea.Batch(notice("Deleted project"), p.s.loadProjects())
	}

	if p.confirm != nil {
		if k, ok := msg.(tea.KeyMsg); ok {
			done, cmd := p.confirm.update(k)
			if done {
				p.confirm = nil
			}
			return cmd
		}
		return nil
	}
	if p.form != nil {
		done, cmd := p.form.update(msg)
		if done {
			p.form = nil
		}
		return cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok && !p.list.SettingFilter() {
		switch {
		case key.Matches(k, p.keyb.Use):
			if pr, ok := p.selected(); ok {
				if err := p.s.app.SetCurrentProject(pr); err != nil {
					return p.s.failed(err)
				}
				p.setItems()
				return notice("Current project: " + pr.Name)
			}
			return nil
		case key.Matches(k, p.keyb.New):
			p.form = p.projectForm(nil)
			return nil
		case key.Matches(k, p.keyb.Edit):
			if pr, ok := p.selected(); ok {
				p.form = p.projectForm(&pr)
			}
			return nil
		case key.Matches(k, p.keyb.Delete):
			if pr, ok := p.selected(); ok {
				id := pr.ID
				p.confirm = newConfirmModal("Delete project",
					fmt.Sprintf("Delete %q and all of its images?", pr.Name), "Delete",
					func() tea.Cmd { return p.s.deleteProject(id) })
			}
			return nil
		}
	}

	before := p.list.Index()
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	if p.list.Index() != before {
		p.refreshDescription()
	}
	return cmd
}

// projectForm edits existing when non-nil, otherwise creates a project.
func (p *projectsScreen) projectForm(existing *model.Project) *formModal {
	var statuses []string
	for _, st := range model.ProjectStatuses() {
		statuses = append(statuses, string(st))
	}
	name, desc, status, title := "", "", string(model.ProjectStatusActive), "New project"
	if existing != nil {
		name, desc, status = existing.Name, existing.DescriptionText(), string(existing.DisplayStatus())
		title = "Edit project"
	}
	fields := []formField{
		textField("Name", name, "required"),
		areaField("Description (markdown)", desc, "optional"),
		choiceField("Status", statuses, status),
	}
	return newFormModal(title, fields, func(v []string) (tea.Cmd, string) {
		if v[0] == "" {
			return nil, "name is required"
		}
		st, err := model.ParseProjectStatus(v[2])
		if err != nil {
			return nil, err.Error()
		}
		d := v[1]
		if existing == nil {
			return p.s.createProject(model.ProjectCreate{Name: v[0], Description: &d, Status: st}), ""
		}
		return p.s.updateProject(existing.ID, model.ProjectUpdate{Name: &v[0], Description: &d, Status: &st}), ""
	})
}

func (p *projectsScreen) view() string {
	switch {
	case p.confirm != nil:
		return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, p.confirm.view(p.width))
	case p.form != nil:
		return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, p.form.view(p.width))
	}
	lw := p.width / 2
	return lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(p.list.View(), lw, p.height),
		"  ",
		p.desc.View(),
	)
}
