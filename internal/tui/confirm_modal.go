package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// confirmModal asks a yes/no question before a destructive action. onConfirm builds the
// command to run when the user accepts.
type confirmModal struct {
	title     string
	body      string
	label     string
	focus     confirmModalFocus
	onConfirm func() tea.Cmd
}

func newConfirmModal(title, body, label string, onConfirm func() tea.Cmd) *confirmModal {
	return &confirmModal{title: title, body: body, label: label, focus: confirmFocusCancel, onConfirm: onConfirm}
}

// update handles a key and reports whether the modal is finished.
func (c *confirmModal) update(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if c.focus == confirmFocusConfirm {
			c.focus = confirmFocusCancel
		} else {
			c.focus = confirmFocusConfirm
		}
	case "y":
		return true, c.onConfirm()
	case "n", "esc", "ctrl+g":
		return true, nil
	case "enter":
		if c.focus == confirmFocusConfirm {
			return true, c.onConfirm()
		}
		return true, nil
	}
	return false, nil
}

func (c *confirmModal) view(width int) string {
	return renderConfirmModal(width, c.title, c.body, c.label, "Cancel", c.focus)
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   y/n   esc: cancel")

	content := strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW).Render(body),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}
