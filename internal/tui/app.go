package tui

import (
	"strings"
	"time"

	"labelmark-cli/internal/lazyload"
	"labelmark-cli/internal/menu"
	"labelmark-cli/internal/router"
	"labelmark-cli/internal/store"
	"labelmark-cli/internal/tabs"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth          = 18
	sidebarCollapsedWidth = 4
	noticeTTL             = 4 * time.Second
)

// screen is one routed view rendered in the shell body.
type screen interface {
	// enter runs when the route switches to the screen.
	enter() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view() string
	resize(width, height int)
	// capturing reports whether the screen owns the keyboard (modal, text input).
	capturing() bool
	keys() []key.Binding
}

// leaver screens are told when the route switches away from them.
type leaver interface{ leave() }

// relayouter screens recompute layout-dependent state after a resize.
type relayouter interface{ relayout() tea.Cmd }

type closer interface{ close() }

// altScreen implements appstate.Fullscreen on top of the program's alternate screen.
type altScreen struct{ pending tea.Cmd }

func (a *altScreen) SetFullscreen(on bool) error {
	if on {
		a.pending = tea.EnterAltScreen
	} else {
		a.pending = tea.ExitAltScreen
	}
	return nil
}

func (a *altScreen) take() tea.Cmd {
	c := a.pending
	a.pending = nil
	return c
}

type appModel struct {
	s      *session
	kv     store.KV
	router *router.Router
	tabs   *tabs.Store
	fs     *altScreen

	screens map[router.View]screen
	current router.View

	keys    shellKeys
	help    help.Model
	spinner spinner.Model

	width  int
	height int

	notice    string
	noticeErr bool
	noticeSeq int
}

func newAppModel(s *session, kv store.KV, fs *altScreen) appModel {
	r := router.New(router.Routes())
	m := appModel{
		s:       s,
		kv:      kv,
		router:  r,
		tabs:    tabs.NewStore(r),
		fs:      fs,
		keys:    defaultShellKeys(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.spinner.Style = lipgloss.NewStyle().Foreground(colorAccent)
	m.screens = map[router.View]screen{
		router.ViewDashboard: newDashboardScreen(s),
		router.ViewProjects:  newProjectsScreen(s),
		router.ViewGallery:   newGalleryScreen(s),
		router.ViewTree:      newTreeScreen(s),
		router.ViewTags:      newTagsScreen(s),
	}

	st := store.LoadTUIState(s.ctx, kv)
	s.app.SetCollapsed(st.SidebarCollapsed)
	if len(st.Tabs) > 0 {
		m.tabs.Restore(tabs.Snapshot{Tabs: st.Tabs, Active: st.ActiveTab})
	}
	m.tabs.Activate(m.tabs.ActiveTab())
	if m.router.Current().Name == "" {
		_ = m.router.Push("/")
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.fs != nil {
		if err := m.s.app.ToggleFullscreen(); err == nil {
			cmds = append(cmds, m.fs.take())
		}
	}
	cmds = append(cmds, m.syncRoute())
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, m.resizeScreens()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeMsg:
		m.noticeSeq++
		m.notice = msg.text
		m.noticeErr = msg.isErr
		seq := m.noticeSeq
		return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
		return m, nil

	case projectsLoadedMsg, projectSavedMsg, projectDeletedMsg:
		// Project changes affect the header and every project-scoped screen.
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if owner := m.ownerOf(msg); owner != nil {
		return m, owner.update(msg)
	}
	if tagsLoaded, ok := msg.(tagsLoadedMsg); ok {
		return m, tea.Batch(m.screens[router.ViewGallery].update(tagsLoaded), m.screens[router.ViewTags].update(tagsLoaded))
	}
	if sc := m.active(); sc != nil {
		return m, sc.update(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	sc := m.active()
	if sc != nil && sc.capturing() {
		return m, sc.update(msg)
	}

	active := m.tabs.ActiveTab()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, m.resizeScreens()
	case key.Matches(msg, m.keys.NextTab):
		m.tabs.Next()
	case key.Matches(msg, m.keys.PrevTab):
		m.tabs.Prev()
	case key.Matches(msg, m.keys.CloseTab):
		m.closeTab(active)
	case key.Matches(msg, m.keys.CloseOthers):
		m.tabs.RemoveOtherTabs(active)
	case key.Matches(msg, m.keys.CloseLeft):
		m.tabs.RemoveLeftTabs(active)
	case key.Matches(msg, m.keys.CloseRight):
		m.tabs.RemoveRightTabs(active)
	case key.Matches(msg, m.keys.CloseAll):
		m.tabs.RemoveAllTabs()
	case key.Matches(msg, m.keys.Sidebar):
		m.s.app.ToggleCollapsed()
		return m, m.resizeScreens()
	case key.Matches(msg, m.keys.Fullscreen):
		if err := m.s.app.ToggleFullscreen(); err != nil {
			return m, m.s.failed(err)
		}
		if m.fs != nil {
			return m, m.fs.take()
		}
		return m, nil
	case key.Matches(msg, m.keys.Open):
		m.openMenuEntry(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Logout):
		if !m.s.user.LoggedIn() {
			return m, nil
		}
		m.s.user.Logout()
		return m, notice("Signed out")
	case key.Matches(msg, m.keys.Refresh):
		if sc != nil {
			return m, sc.enter()
		}
		return m, nil
	default:
		if sc != nil {
			return m, sc.update(msg)
		}
		return m, nil
	}
	return m, m.syncRoute()
}

// closeTab closes the named tab unless it is pinned.
func (m *appModel) closeTab(name string) {
	t, ok := m.tabs.Active()
	if !ok || t.Name != name || t.Pinned() {
		return
	}
	m.tabs.RemoveTab(name)
}

// openMenuEntry opens (or re-selects) the tab of the i-th visible menu entry.
func (m *appModel) openMenuEntry(i int) {
	items := menu.Visible(m.s.app.Menus())
	if i < 0 || i >= len(items) {
		return
	}
	if m.tabs.AddTabFromMenu(m.s.app.Menus(), items[i].Path) {
		m.tabs.Activate(m.tabs.ActiveTab())
	}
}

// syncRoute enters the screen for the router's current view when it changed.
func (m *appModel) syncRoute() tea.Cmd {
	v := m.router.Current().Name
	if v == m.current {
		return nil
	}
	if l, ok := m.active().(leaver); ok {
		l.leave()
	}
	m.current = v
	if sc := m.active(); sc != nil {
		return sc.enter()
	}
	return nil
}

func (m appModel) active() screen {
	return m.screens[m.current]
}

// ownerOf returns the screen that issued msg's command, so results land there even
// after the user switched tabs.
func (m appModel) ownerOf(msg tea.Msg) screen {
	switch msg.(type) {
	case lazyload.TickMsg, thumbLoadedMsg, imagesLoadedMsg, imageUploadedMsg,
		imageTagsSavedMsg, imageDeletedMsg, clipboardDoneMsg:
		return m.screens[router.ViewGallery]
	case tagSavedMsg, tagDeletedMsg:
		return m.screens[router.ViewTags]
	case categoriesLoadedMsg, treeBuiltMsg:
		return m.screens[router.ViewTree]
	case statsLoadedMsg:
		return m.screens[router.ViewDashboard]
	}
	return nil
}

// shutdown releases screen resources once the program has exited.
func (m appModel) shutdown() {
	for _, sc := range m.screens {
		if c, ok := sc.(closer); ok {
			c.close()
		}
	}
}

// broadcast applies project changes to the store, then lets every screen react.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		m.s.app.SetLoading(false)
		if msg.err != nil {
			cmds = append(cmds, m.s.failed(msg.err))
		} else if err := m.s.app.SyncProjects(msg.projects); err != nil {
			cmds = append(cmds, m.s.failed(err))
		}
	case projectDeletedMsg:
		if msg.err == nil {
			if cur, ok := m.s.app.CurrentProject(); ok && cur.ID == msg.id {
				_ = m.s.app.ClearCurrentProject()
			}
		}
	}
	for _, v := range []router.View{router.ViewDashboard, router.ViewProjects, router.ViewGallery, router.ViewTree, router.ViewTags} {
		if sc := m.screens[v]; sc != nil {
			cmds = append(cmds, sc.update(msg))
		}
	}
	return tea.Batch(cmds...)
}

func (m *appModel) bodySize() (int, int) {
	sw := sidebarWidth
	if m.s.app.Collapsed() {
		sw = sidebarCollapsedWidth
	}
	helpH := lipgloss.Height(m.help.View(m.helpKeys()))
	// header + tab bar + notice line + help
	return max(m.width-sw-1, 10), max(m.height-3-helpH, 3)
}

func (m *appModel) resizeScreens() tea.Cmd {
	w, h := m.bodySize()
	for _, sc := range m.screens {
		sc.resize(w, h)
	}
	if r, ok := m.active().(relayouter); ok {
		return r.relayout()
	}
	return nil
}

func (m appModel) helpKeys() helpKeys {
	var vk []key.Binding
	if sc := m.active(); sc != nil {
		vk = sc.keys()
	}
	return helpKeys{shell: m.keys, view: vk}
}

// persist saves the tab bar and sidebar flag for the next launch.
func (m appModel) persist() error {
	snap := m.tabs.Snapshot()
	return store.SaveTUIState(m.s.ctx, m.kv, &store.TUIState{
		Tabs:             snap.Tabs,
		ActiveTab:        snap.Active,
		SidebarCollapsed: m.s.app.Collapsed(),
	})
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}
	bodyW, bodyH := m.bodySize()

	body := ""
	if sc := m.active(); sc != nil {
		body = sc.view()
	}
	main := lipgloss.JoinVertical(lipgloss.Left,
		renderTabBar(m.tabs.Tabs(), m.tabs.ActiveTab(), bodyW),
		normalizePane(body, bodyW, bodyH),
	)
	side := normalizePane(m.renderSidebar(), m.sidebarW(), bodyH+1)
	sep := normalizePane(strings.Repeat("│\n", bodyH+1), 1, bodyH+1)
	if asciiGlyphs() {
		sep = normalizePane(strings.Repeat("|\n", bodyH+1), 1, bodyH+1)
	}

	return strings.Join([]string{
		m.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, side, styleMuted().Render(sep), main),
		m.renderFooter(),
	}, "\n")
}

func (m appModel) sidebarW() int {
	if m.s.app.Collapsed() {
		return sidebarCollapsedWidth
	}
	return sidebarWidth
}
