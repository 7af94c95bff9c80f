package tui

import (
	"fmt"
	"regexp"
	"strings"

	"labelmark-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type tagsKeys struct {
	Search key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

type tagsScreen struct {
	s    *session
	keyb tagsKeys

	width  int
	height int

	all       []model.Tag
	shown     []model.Tag
	table     table.Model
	search    textinput.Model
	searching bool

	form    *formModal
	confirm *confirmModal
}

func newTagsScreen(s *session) *tagsScreen {
	t := table.New(
		table.WithColumns(tagColumns(60)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	st := table.DefaultStyles()
	st.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorCardBorder).
		Padding(0, 1)
	st.Cell = lipgloss.NewStyle().Padding(0, 1)
	st.Selected = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)
	t.SetStyles(st)

	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "search name or category"

	return &tagsScreen{
		s:      s,
		table:  t,
		search: in,
		keyb: tagsKeys{
			Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
			New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
			Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
			Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		},
	}
}

func tagColumns(width int) []table.Column {
	name := max(width-8-12-18-10-10, 12)
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: name},
		{Title: "Color", Width: 10},
		{Title: "Category", Width: 16},
		{Title: "Images", Width: 8},
	}
}

func (t *tagsScreen) enter() tea.Cmd {
	return t.s.loadTags()
}

func (t *tagsScreen) resize(width, height int) {
	t.width, t.height = width, height
	t.table.SetColumns(tagColumns(width))
	// title, search line, blank line
	t.table.SetHeight(max(height-3, 3))
}

func (t *tagsScreen) capturing() bool {
	return t.searching || t.form != nil || t.confirm != nil
}

func (t *tagsScreen) keys() []key.Binding {
	return []key.Binding{t.keyb.Search, t.keyb.New, t.keyb.Edit, t.keyb.Delete}
}

// filter applies the search box to the loaded tags.
func (t *tagsScreen) filter() {
	q := strings.TrimSpace(t.search.Value())
	if q == "" {
		t.shown = t.all
	} else {
		t.shown = t.shown[:0:0]
		for _, m := range fuzzy.FindFrom(q, tagSource(t.all)) {
			t.shown = append(t.shown, t.all[m.Index])
		}
	}

	rows := make([]table.Row, len(t.shown))
	for i, tg := range t.shown {
		count := ""
		if tg.ImageCount != nil {
			count = fmt.Sprint(*tg.ImageCount)
		}
		color := tg.Color
		if color != "" {
			color = tagStyle(tg.Color).Render(glyphBullet()) + " " + color
		}
		rows[i] = table.Row{fmt.Sprint(tg.ID), tg.Name, color, tg.CategoryName(), count}
	}
	t.table.SetRows(rows)
	if t.table.Cursor() >= len(rows) {
		t.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (t *tagsScreen) selected() (model.Tag, bool) {
	i := t.table.Cursor()
	if i < 0 || i >= len(t.shown) {
		return model.Tag{}, false
	}
	return t.shown[i], true
}

func (t *tagsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tagsLoadedMsg:
		if msg.err != nil {
			return t.s.failed(msg.err)
		}
		t.all = msg.tags
		t.filter()
		return nil
	case tagSavedMsg:
		if msg.err != nil {
			return t.s.failed(msg.err)
		}
		verb := "Updated"
		if msg.created {
			verb = "Created"
		}
		return tea.Batch(notice(verb+" tag "+msg.tag.Name), t.s.loadTags())
	case tagDeletedMsg:
		if msg.err != nil {
			return t.s.failed(msg.err)
		}
		return tea.Batch(notice(fmt.Sprintf("Deleted tag %d", msg.id)), t.s.loadTags())
	}

	switch {
	case t.confirm != nil:
		if k, ok := msg.(tea.KeyMsg); ok {
			done, cmd := t.confirm.update(k)
			if done {
				t.confirm = nil
			}
			return cmd
		}
		return nil
	case t.form != nil:
		done, cmd := t.form.update(msg)
		if done {
			t.form = nil
		}
		return cmd
	case t.searching:
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				t.searching = false
				t.search.Blur()
				return nil
			case "esc":
				t.searching = false
				t.search.Blur()
				t.search.SetValue("")
				t.filter()
				return nil
			}
		}
		var cmd tea.Cmd
		t.search, cmd = t.search.Update(msg)
		t.filter()
		return cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, t.keyb.Search):
			t.searching = true
			return t.search.Focus()
		case key.Matches(k, t.keyb.New):
			t.form = t.tagForm(nil)
			return nil
		case key.Matches(k, t.keyb.Edit):
			if tg, ok := t.selected(); ok {
				t.form = t.tagForm(&tg)
			}
			return nil
		case key.Matches(k, t.keyb.Delete):
			if tg, ok := t.selected(); ok {
				id := tg.ID
				t.confirm = newConfirmModal("Delete tag",
					fmt.Sprintf("Delete %q? It is removed from every image.", tg.Name), "Delete",
					func() tea.Cmd { return t.s.deleteTag(id) })
			}
			return nil
		}
	}

	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return cmd
}

// tagForm edits existing when non-nil, otherwise creates a tag.
func (t *tagsScreen) tagForm(existing *model.Tag) *formModal {
	name, color, category, title := "", "", "", "New tag"
	if existing != nil {
		name, color, category = existing.Name, existing.Color, existing.CategoryName()
		title = "Edit tag"
	}
	fields := []formField{
		textField("Name", name, "required"),
		textField("Color", color, "#rrggbb"),
		textField("Category", category, "optional, e.g. color or size"),
	}
	return newFormModal(title, fields, func(v []string) (tea.Cmd, string) {
		if v[0] == "" {
			return nil, "name is required"
		}
		if v[1] != "" && !hexColor.MatchString(v[1]) {
			return nil, "color must look like #rgb or #rrggbb"
		}
		color, category := optional(v[1]), optional(v[2])
		if existing == nil {
			return t.s.createTag(model.TagCreate{Name: v[0], Color: color, Category: category}), ""
		}
		// Clearing a field sends an empty string so the backend drops it.
		return t.s.updateTag(existing.ID, model.TagUpdate{Name: &v[0], Color: &v[1], Category: &v[2]}), ""
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (t *tagsScreen) view() string {
	switch {
	case t.confirm != nil:
		return lipgloss.Place(t.width, t.height, lipgloss.Center, lipgloss.Center, t.confirm.view(t.width))
	case t.form != nil:
		return lipgloss.Place(t.width, t.height, lipgloss.Center, lipgloss.Center, t.form.view(t.width))
	}

	head := styleTitle().Render("Tags") + styleMuted().Render(fmt.Sprintf("  %d of %d", len(t.shown), len(t.all)))
	search := styleMuted().Render("press / to search")
	if t.searching || t.search.Value() != "" {
		search = t.search.View()
	}
	body := t.table.View()
	if len(t.all) == 0 {
		body = styleMuted().Render("No tags yet. Press n to create one.")
	}
	return head + "\n" + fitWidth(search, t.width) + "\n\n" + body
}
