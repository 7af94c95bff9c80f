package tui

import (
	"reflect"
	"testing"

	"labelmark-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func pickerTags() []model.Tag {
	return []model.Tag{
		{ID: 1, Name: "red", Color: "#ff0000", Category: ptr("color")},
		{ID: 2, Name: "green", Color: "#00ff00", Category: ptr("color")},
		{ID: 3, Name: "large", Category: ptr("size")},
		{ID: 4, Name: "Blue"},
	}
}

func TestTagPicker_ListsAlphabeticallyWithoutQuery(t *testing.T) {
	p := newTagPicker("Tags", pickerTags(), nil, func([]int) tea.Cmd { return nil })
	var names []string
	for _, i := range p.matches {
		names = append(names, p.tags[i].Name)
	}
	if want := []string{"Blue", "green", "large", "red"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
}

func TestTagPicker_FuzzyFilterAndToggle(t *testing.T) {
	var saved []int
	p := newTagPicker("Tags", pickerTags(), []int{1}, func(ids []int) tea.Cmd {
		saved = ids
		return nil
	})

	typeText(func(m tea.Msg) { p.update(m) }, "siz")
	if len(p.matches) != 1 || p.tags[p.matches[0]].ID != 3 {
		t.Fatalf("category search matched %v", p.matches)
	}
	p.update(keyPress("tab"))

	// Clearing the query keeps the selection.
	for range 3 {
		p.update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	if len(p.matches) != 4 {
		t.Fatalf("matches after clear = %d", len(p.matches))
	}

	done, _ := p.update(keyPress("enter"))
	if !done {
		t.Fatalf("enter should finish the picker")
	}
	if want := []int{1, 3}; !reflect.DeepEqual(saved, want) {
		t.Fatalf("saved = %v, want %v", saved, want)
	}
}

func TestTagPicker_ToggleOffAndCancel(t *testing.T) {
	called := false
	p := newTagPicker("Tags", pickerTags(), []int{4}, func([]int) tea.Cmd { called = true; return nil })

	// "Blue" sorts first and is already selected.
	p.update(keyPress("tab"))
	if len(p.selectedIDs()) != 0 {
		t.Fatalf("selected = %v", p.selectedIDs())
	}
	done, _ := p.update(keyPress("esc"))
	if !done || called {
		t.Fatalf("esc should cancel without saving")
	}
}

func TestTagPicker_NoMatches(t *testing.T) {
	p := newTagPicker("Tags", pickerTags(), nil, func([]int) tea.Cmd { return nil })
	typeText(func(m tea.Msg) { p.update(m) }, "zzz")
	if len(p.matches) != 0 {
		t.Fatalf("matches = %v", p.matches)
	}
	p.update(keyPress("tab"))
	if len(p.selectedIDs()) != 0 {
		t.Fatalf("toggle with no matches selected something")
	}
}
