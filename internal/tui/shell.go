package tui

import (
	"fmt"
	"strings"

	"labelmark-cli/internal/menu"
	"labelmark-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) renderHeader() string {
	title := styleTitle().Render("labelmark")

	project := styleMuted().Render("no project selected")
	if p, ok := m.s.app.CurrentProject(); ok {
		project = lipgloss.NewStyle().Bold(true).Render(p.Name) + " " + styleStatus(string(p.DisplayStatus())).Render(string(p.DisplayStatus()))
	}

	user := styleMuted().Render("signed out")
	if m.s.user.LoggedIn() {
		u := m.s.user.User()
		user = u.Username + styleMuted().Render(" ("+u.Role+")")
	}

	left := title + "  " + project
	gap := m.width - xansi.StringWidth(left) - xansi.StringWidth(user)
	if gap < 1 {
		return fitWidth(left, m.width)
	}
	return left + strings.Repeat(" ", gap) + user
}

// renderSidebar lists the visible menu entries; the collapsed form shows glyphs only.
func (m appModel) renderSidebar() string {
	items := menu.Visible(m.s.app.Menus())
	current := m.router.Current().Path
	collapsed := m.s.app.Collapsed()

	var lines []string
	if !collapsed {
		lines = append(lines, styleMuted().Render("MENU"))
	} else {
		lines = append(lines, "")
	}
	for i, it := range items {
		label := fmt.Sprintf(" %s %d %s", glyphMenu(it.Icon), i+1, it.Title)
		if collapsed {
			label = " " + glyphMenu(it.Icon)
		}
		if it.Path == current {
			label = styleSelected().Render(fitWidth(label, m.sidebarW()))
		}
		lines = append(lines, label)
	}
	return strings.Join(lines, "\n")
}

// renderTabBar draws the open tabs on one line of at most width columns. Pinned tabs
// carry no close marker. When the bar overflows, tabs are dropped from the left until
// the active tab fits, then the remainder is truncated.
func renderTabBar(ts []model.TabItem, active string, width int) string {
	if width <= 0 || len(ts) == 0 {
		return ""
	}
	base := lipgloss.NewStyle().Padding(0, 1).Foreground(colorChromeFg)
	sel := base.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	cells := make([]string, len(ts))
	activeIdx := 0
	for i, t := range ts {
		marker := glyphClose()
		if t.Pinned() {
			marker = glyphPin()
		}
		st := base
		if t.Name == active {
			st = sel
			activeIdx = i
		}
		cells[i] = st.Render(t.Title + " " + marker)
	}

	start := 0
	lead := ""
	for start < activeIdx && xansi.StringWidth(lead+strings.Join(cells[start:activeIdx+1], "")) > width {
		start++
		lead = styleMuted().Render(glyphEllipsis())
	}
	bar := lead + strings.Join(cells[start:], "")
	if xansi.StringWidth(bar) > width {
		bar = xansi.Truncate(bar, width, glyphEllipsis())
	}
	return bar
}

func (m appModel) renderFooter() string {
	status := ""
	if m.s.app.Loading() {
		status = m.spinner.View() + " "
	}
	switch {
	case m.notice != "" && m.noticeErr:
		status += styleError().Render("error: " + m.notice)
	case m.notice != "":
		status += m.notice
	}
	return fitWidth(status, m.width) + "\n" + m.help.View(m.helpKeys())
}
