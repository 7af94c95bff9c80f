package tui

import (
	"fmt"
	"sort"
	"strings"

	"labelmark-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dashboardScreen struct {
	s      *session
	width  int
	height int

	stats    *model.TreeStats
	statsFor int
	statsErr error
}

func newDashboardScreen(s *session) *dashboardScreen {
	return &dashboardScreen{s: s}
}

func (d *dashboardScreen) enter() tea.Cmd {
	d.s.app.SetLoading(true)
	cmds := []tea.Cmd{d.s.loadProjects()}
	if pid, ok := d.s.currentProjectID(); ok {
		cmds = append(cmds, d.s.loadStats(pid))
	}
	return tea.Batch(cmds...)
}

func (d *dashboardScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.err != nil {
			d.stats, d.statsErr = nil, msg.err
			return d.s.failed(msg.err)
		}
		st := msg.stats
		d.stats, d.statsFor, d.statsErr = &st, msg.projectID, nil
	case projectsLoadedMsg:
		// The current project may have changed underneath the cached stats.
		if pid, ok := d.s.currentProjectID(); ok && (d.stats == nil || d.statsFor != pid) {
			return d.s.loadStats(pid)
		}
	}
	return nil
}

func (d *dashboardScreen) resize(width, height int) {
	d.width, d.height = width, height
}

func (d *dashboardScreen) capturing() bool { return false }

func (d *dashboardScreen) keys() []key.Binding { return nil }

func (d *dashboardScreen) view() string {
	projects := d.s.app.Projects()

	byStatus := map[model.ProjectStatus]int{}
	images := 0
	for _, p := range projects {
		byStatus[p.DisplayStatus()]++
		images += p.ImageCount
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Padding(0, 2).
		Width(20)
	cards := []string{
		card.Render(styleMuted().Render("Projects") + "\n" + lipgloss.NewStyle().Bold(true).Render(fmt.Sprint(len(projects)))),
		card.Render(styleMuted().Render("Images") + "\n" + lipgloss.NewStyle().Bold(true).Render(fmt.Sprint(images))),
	}
	for _, st := range model.ProjectStatuses() {
		cards = append(cards, card.Render(styleMuted().Render(string(st))+"\n"+styleStatus(string(st)).Render(fmt.Sprint(byStatus[st]))))
	}

	var b strings.Builder
	b.WriteString(styleTitle().Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(wrapCards(cards, d.width))
	b.WriteString("\n\n")

	p, ok := d.s.app.CurrentProject()
	if !ok {
		b.WriteString(styleMuted().Render("No current project. Open Projects (2) and press enter to pick one."))
		return b.String()
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Current project: " + p.Name))
	b.WriteString("  " + styleStatus(string(p.DisplayStatus())).Render(string(p.DisplayStatus())))
	b.WriteString("\n")
	if desc := p.DescriptionText(); desc != "" {
		b.WriteString(styleMuted().Render(firstLine(desc)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case d.statsErr != nil:
		b.WriteString(styleError().Render("tag statistics unavailable"))
	case d.stats == nil || d.statsFor != p.ID:
		b.WriteString(styleMuted().Render("loading tag statistics" + glyphEllipsis()))
	default:
		b.WriteString(renderTreeStats(*d.stats))
	}
	return b.String()
}

func renderTreeStats(st model.TreeStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d images, %d tag categories\n", st.TotalImages, st.TotalCategories)
	cats := make([]string, 0, len(st.CategoryStats))
	for c := range st.CategoryStats {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(&b, "  %s %-16s %d\n", glyphBullet(), c, st.CategoryStats[c])
	}
	return strings.TrimRight(b.String(), "\n")
}

// wrapCards lays cards out left to right, wrapping to a new row at width.
func wrapCards(cards []string, width int) string {
	var rows []string
	var row []string
	rowW := 0
	for _, c := range cards {
		w := lipgloss.Width(c)
		if len(row) > 0 && rowW+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowW = nil, 0
		}
		row = append(row, c)
		rowW += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
