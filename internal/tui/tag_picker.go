package tui

import (
	"sort"
	"strings"

	"labelmark-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// tagSource adapts a tag slice to fuzzy.Source. Categories are searchable too.
type tagSource []model.Tag

func (s tagSource) String(i int) string {
	if c := s[i].CategoryName(); c != "" {
		return s[i].Name + " " + c
	}
	return s[i].Name
}

func (s tagSource) Len() int { return len(s) }

// tagPicker selects a set of tags with fuzzy filtering.
type tagPicker struct {
	title    string
	input    textinput.Model
	tags     []model.Tag
	selected map[int]bool
	matches  []int
	cursor   int
	onSave   func(ids []int) tea.Cmd
}

func newTagPicker(title string, tags []model.Tag, selected []int, onSave func([]int) tea.Cmd) *tagPicker {
	in := textinput.New()
	in.Prompt = "filter: "
	in.Placeholder = "type to search tags"
	in.Focus()

	sel := map[int]bool{}
	for _, id := range selected {
		sel[id] = true
	}
	p := &tagPicker{title: title, input: in, tags: tags, selected: sel, onSave: onSave}
	p.refilter()
	return p
}

// refilter recomputes matches. An empty query lists every tag by name.
func (p *tagPicker) refilter() {
	q := strings.TrimSpace(p.input.Value())
	p.matches = p.matches[:0]
	if q == "" {
		for i := range p.tags {
			p.matches = append(p.matches, i)
		}
		sort.SliceStable(p.matches, func(a, b int) bool {
			return strings.ToLower(p.tags[p.matches[a]].Name) < strings.ToLower(p.tags[p.matches[b]].Name)
		})
	} else {
		for _, m := range fuzzy.FindFrom(q, tagSource(p.tags)) {
			p.matches = append(p.matches, m.Index)
		}
	}
	if p.cursor >= len(p.matches) {
		p.cursor = max(len(p.matches)-1, 0)
	}
}

func (p *tagPicker) selectedIDs() []int {
	ids := make([]int, 0, len(p.selected))
	for _, t := range p.tags {
		if p.selected[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (p *tagPicker) toggle() {
	if len(p.matches) == 0 {
		return
	}
	id := p.tags[p.matches[p.cursor]].ID
	p.selected[id] = !p.selected[id]
	if !p.selected[id] {
		delete(p.selected, id)
	}
}

// update handles one message and reports whether the picker is finished.
func (p *tagPicker) update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "ctrl+g":
			return true, nil
		case "enter":
			return true, p.onSave(p.selectedIDs())
		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			return false, nil
		case "down", "ctrl+n":
			if p.cursor < len(p.matches)-1 {
				p.cursor++
			}
			return false, nil
		case "tab", "ctrl+space":
			p.toggle()
			return false, nil
		}
	}
	before := p.input.Value()
	var c tea.Cmd
	p.input, c = p.input.Update(msg)
	if p.input.Value() != before {
		p.refilter()
	}
	return false, c
}

func (p *tagPicker) view(width, height int) string {
	bodyW := modalBodyWidth(width)
	lines := []string{renderInputLine(bodyW, p.input.View()), ""}

	listH := max(height-12, 3)
	start := 0
	if p.cursor >= listH {
		start = p.cursor - listH + 1
	}
	for i := start; i < len(p.matches) && i < start+listH; i++ {
		t := p.tags[p.matches[i]]
		box := glyphUncheck()
		if p.selected[t.ID] {
			box = glyphCheck()
		}
		label := box + " " + tagStyle(t.Color).Render(t.Name)
		if c := t.CategoryName(); c != "" {
			label += styleMuted().Render("  " + c)
		}
		if i == p.cursor {
			label = styleSelected().Render(">") + " " + label
		} else {
			label = "  " + label
		}
		lines = append(lines, label)
	}
	if len(p.matches) == 0 {
		lines = append(lines, styleMuted().Render("no matching tags"))
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render("↑/↓: move   tab: toggle   enter: save   esc: cancel"))
	return renderModalBox(width, p.title, strings.Join(lines, "\n"))
}
