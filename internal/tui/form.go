package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formField is a text input, a multi-line area when multiline is set, or a closed
// choice when options is set.
type formField struct {
	label     string
	input     textinput.Model
	area      textarea.Model
	multiline bool
	options   []string
	choice    int
}

func textField(label, value, placeholder string) formField {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 512
	in.SetValue(value)
	return formField{label: label, input: in}
}

func areaField(label, value, placeholder string) formField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetValue(value)
	return formField{label: label, input: textinput.New(), area: ta, multiline: true}
}

func choiceField(label string, options []string, selected string) formField {
	f := formField{label: label, input: textinput.New(), options: options}
	for i, o := range options {
		if o == selected {
			f.choice = i
		}
	}
	return f
}

func (f formField) value() string {
	switch {
	case f.options != nil:
		return f.options[f.choice]
	case f.multiline:
		return strings.TrimSpace(f.area.Value())
	}
	return strings.TrimSpace(f.input.Value())
}

// formModal is a small modal editor. onSubmit returns an error message to keep the
// modal open, or the command to run.
type formModal struct {
	title    string
	fields   []formField
	focus    int
	errText  string
	onSubmit func(values []string) (tea.Cmd, string)
}

func newFormModal(title string, fields []formField, onSubmit func([]string) (tea.Cmd, string)) *formModal {
	f := &formModal{title: title, fields: fields, onSubmit: onSubmit}
	f.focusField(0)
	return f
}

func (f *formModal) focusField(i int) {
	f.focus = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		fld := &f.fields[j]
		switch {
		case j == f.focus && fld.multiline:
			fld.area.Focus()
		case j == f.focus:
			fld.input.Focus()
		case fld.multiline:
			fld.area.Blur()
		default:
			fld.input.Blur()
		}
	}
}

func (f *formModal) values() []string {
	out := make([]string, len(f.fields))
	for i, fld := range f.fields {
		out[i] = fld.value()
	}
	return out
}

// update handles one message and reports whether the modal is finished.
func (f *formModal) update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	cur := &f.fields[f.focus]
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, cur.forward(msg)
	}

	switch k.String() {
	case "esc", "ctrl+g":
		return true, nil
	case "tab":
		f.focusField(f.focus + 1)
		return false, nil
	case "shift+tab":
		f.focusField(f.focus - 1)
		return false, nil
	case "ctrl+s":
		return f.submit()
	}
	if cur.multiline {
		// Arrows and enter edit the text.
		return false, cur.forward(msg)
	}
	switch k.String() {
	case "down":
		f.focusField(f.focus + 1)
		return false, nil
	case "up":
		f.focusField(f.focus - 1)
		return false, nil
	case "enter":
		if f.focus == len(f.fields)-1 {
			return f.submit()
		}
		f.focusField(f.focus + 1)
		return false, nil
	}
	if cur.options != nil {
		switch k.String() {
		case "left", "h":
			cur.choice = (cur.choice - 1 + len(cur.options)) % len(cur.options)
		case "right", "l", " ":
			cur.choice = (cur.choice + 1) % len(cur.options)
		}
		return false, nil
	}
	return false, cur.forward(msg)
}

func (f *formField) forward(msg tea.Msg) tea.Cmd {
	var c tea.Cmd
	if f.multiline {
		f.area, c = f.area.Update(msg)
	} else {
		f.input, c = f.input.Update(msg)
	}
	return c
}

func (f *formModal) submit() (bool, tea.Cmd) {
	cmd, errText := f.onSubmit(f.values())
	if errText != "" {
		f.errText = errText
		return false, nil
	}
	return true, cmd
}

func (f *formModal) view(width int) string {
	bodyW := modalBodyWidth(width)
	var lines []string
	for i, fld := range f.fields {
		label := fld.label
		if i == f.focus {
			label = styleTitle().Render(label)
		} else {
			label = styleMuted().Render(label)
		}
		lines = append(lines, label)
		switch {
		case fld.multiline:
			f.fields[i].area.SetWidth(bodyW)
			lines = append(lines, f.fields[i].area.View())
		case fld.options != nil:
			var opts []string
			for j, o := range fld.options {
				if j == fld.choice {
					opts = append(opts, styleSelected().Render(" "+o+" "))
				} else {
					opts = append(opts, " "+o+" ")
				}
			}
			lines = append(lines, strings.Join(opts, " "))
		default:
			lines = append(lines, renderInputLine(bodyW, fld.input.View()))
		}
		lines = append(lines, "")
	}
	if f.errText != "" {
		lines = append(lines, styleError().Render(f.errText), "")
	}
	lines = append(lines, styleMuted().Width(bodyW).Render("tab: next field   ←/→: change choice   ctrl+s: save   esc: cancel"))
	return renderModalBox(width, f.title, strings.Join(lines, "\n"))
}
