package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"labelmark-cli/internal/lazyload"
	"labelmark-cli/internal/model"
	"labelmark-cli/internal/thumb"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	thumbCols = 16
	thumbRows = 6
	cardWidth = thumbCols + 4
	// galleryChrome is the title line, a blank line and the pager line.
	galleryChrome = 3
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

type galleryKeys struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Upload   key.Binding
	Tags     key.Binding
	Delete   key.Binding
	Copy     key.Binding
}

func defaultGalleryKeys() galleryKeys {
	return galleryKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Left:     key.NewBinding(key.WithKeys("left", "h")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		NextPage: key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n/p", "page")),
		PrevPage: key.NewBinding(key.WithKeys("p", "pgup")),
		Upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Tags:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tags")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy url")),
	}
}

// galleryScreen pages through the current project's images. Thumbnails are fetched
// only for cards inside the viewport (plus the root margin).
type galleryScreen struct {
	s    *session
	keyb galleryKeys

	width  int
	height int

	projectID int
	images    []model.Image
	total     int
	pager     paginator.Model
	loading   bool
	shown     bool
	cursor    int
	scroll    int

	observer *lazyload.ViewportObserver
	tracker  *lazyload.Tracker
	sched    *lazyload.TeaScheduler
	thumbs   *thumb.Cache
	wanted   []string

	tags    []model.Tag
	picker  *tagPicker
	files   *filepicker.Model
	confirm *confirmModal
}

func newGalleryScreen(s *session) *galleryScreen {
	g := &galleryScreen{
		s:        s,
		keyb:     defaultGalleryKeys(),
		observer: lazyload.NewViewportObserver(s.settings.RootMargin),
		sched:    &lazyload.TeaScheduler{},
		thumbs:   thumb.NewCache(),
	}
	g.tracker = lazyload.New(g.observer.Bind, g.sched)
	g.tracker.OnApply(func(id string, visible bool) {
		if visible {
			g.wanted = append(g.wanted, id)
		}
	})

	g.pager = paginator.New()
	g.pager.Type = paginator.Arabic
	g.pager.PerPage = max(s.settings.PageSize, 1)
	g.pager.SetTotalPages(0)
	return g
}

func (g *galleryScreen) enter() tea.Cmd {
	g.shown = true
	pid, ok := g.s.currentProjectID()
	if !ok {
		g.reset(0)
		return nil
	}
	if pid != g.projectID {
		g.reset(pid)
	}
	cmds := []tea.Cmd{g.load(g.pager.Page)}
	if g.tags == nil {
		cmds = append(cmds, g.s.loadTags())
	}
	return tea.Batch(cmds...)
}

// leave stops observing so thumbnails are not fetched while the gallery is hidden.
func (g *galleryScreen) leave() {
	g.shown = false
	for _, img := range g.images {
		g.tracker.UnobserveImage(img.Key())
	}
}

// close releases the tracker when the program exits.
func (g *galleryScreen) close() {
	g.tracker.Cleanup()
}

func (g *galleryScreen) reset(projectID int) {
	for _, img := range g.images {
		g.tracker.UnobserveImage(img.Key())
	}
	g.projectID = projectID
	g.images = nil
	g.total = 0
	g.cursor = 0
	g.scroll = 0
	g.pager.Page = 0
	g.pager.SetTotalPages(0)
}

func (g *galleryScreen) load(pageIndex int) tea.Cmd {
	if g.projectID == 0 {
		return nil
	}
	g.loading = true
	return g.s.loadImages(g.projectID, pageIndex)
}

func (g *galleryScreen) resize(width, height int) {
	g.width, g.height = width, height
}

// relayout runs after a resize so newly exposed cards report their visibility.
func (g *galleryScreen) relayout() tea.Cmd {
	return g.layout()
}

func (g *galleryScreen) capturing() bool {
	return g.picker != nil || g.files != nil || g.confirm != nil
}

func (g *galleryScreen) keys() []key.Binding {
	return []key.Binding{g.keyb.NextPage, g.keyb.Upload, g.keyb.Tags, g.keyb.Delete, g.keyb.Copy}
}

func (g *galleryScreen) columns() int {
	return max(g.width/cardWidth, 1)
}

func (g *galleryScreen) cardHeight() int {
	// thumbnail, name, tags
	if g.s.settings.Thumbnails {
		return thumbRows + 2
	}
	return 2
}

func (g *galleryScreen) gridHeight() int {
	return max(g.height-galleryChrome, 1)
}

func (g *galleryScreen) visibleRows() int {
	return max(g.gridHeight()/g.cardHeight(), 1)
}

func (g *galleryScreen) element(i int) lazyload.Element {
	h := g.cardHeight()
	return lazyload.Element{Top: (i / g.columns()) * h, Height: h}
}

// layout re-observes the current page and moves the viewport. The returned command
// delivers the tick that applies visibility changes.
func (g *galleryScreen) layout() tea.Cmd {
	if !g.shown || g.width == 0 || g.height == 0 {
		return nil
	}
	row := g.cursor / g.columns()
	if row < g.scroll {
		g.scroll = row
	}
	if vr := g.visibleRows(); row >= g.scroll+vr {
		g.scroll = row - vr + 1
	}
	for i, img := range g.images {
		if g.tracker.IsObserved(img.Key()) {
			g.observer.Move(img.Key(), g.element(i))
		} else {
			g.tracker.ObserveImage(g.element(i), img.Key())
		}
	}
	g.observer.SetViewport(g.scroll*g.cardHeight(), g.gridHeight())
	return g.sched.Cmd()
}

func (g *galleryScreen) setPage(page model.ImagePage, pageIndex int) {
	keep := map[string]bool{}
	for _, img := range page.Images {
		keep[img.Key()] = true
	}
	for _, img := range g.images {
		if !keep[img.Key()] {
			g.tracker.UnobserveImage(img.Key())
		}
	}
	g.images = page.Images
	g.total = page.Total
	g.pager.SetTotalPages(page.Total)
	g.pager.Page = pageIndex
	if g.cursor >= len(g.images) {
		g.cursor = max(len(g.images)-1, 0)
	}
}

// fetchVisible starts thumbnail downloads for cards that became visible.
func (g *galleryScreen) fetchVisible() tea.Cmd {
	wanted := g.wanted
	g.wanted = nil
	if !g.s.settings.Thumbnails {
		return nil
	}
	var cmds []tea.Cmd
	for _, id := range wanted {
		img, ok := g.imageByKey(id)
		if !ok || !g.tracker.IsImageVisible(id) || !g.thumbs.Begin(id) {
			continue
		}
		cmds = append(cmds, g.s.loadThumb(id, img.ID, thumbCols, thumbRows))
	}
	return tea.Batch(cmds...)
}

func (g *galleryScreen) imageByKey(key string) (model.Image, bool) {
	for _, img := range g.images {
		if img.Key() == key {
			return img, true
		}
	}
	return model.Image{}, false
}

func (g *galleryScreen) selected() (model.Image, bool) {
	if g.cursor < 0 || g.cursor >= len(g.images) {
		return model.Image{}, false
	}
	return g.images[g.cursor], true
}

func (g *galleryScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case lazyload.TickMsg:
		g.sched.Drain()
		return tea.Batch(g.fetchVisible(), g.sched.Cmd())

	case thumbLoadedMsg:
		g.thumbs.Finish(msg.key, msg.rendered, msg.err)
		if msg.err != nil {
			g.s.log.Debug("thumbnail failed", "image", msg.key, "err", msg.err, "cached", g.thumbs.Len())
		}
		return nil

	case imagesLoadedMsg:
		if msg.projectID != g.projectID {
			return nil
		}
		g.loading = false
		if msg.err != nil {
			return g.s.failed(msg.err)
		}
		// A delete can empty the last page; step back to the one before it.
		if len(msg.page.Images) == 0 && msg.pageIndex > 0 && msg.page.Total > 0 {
			return g.load(msg.pageIndex - 1)
		}
		g.setPage(msg.page, msg.pageIndex)
		return g.layout()

	case tagsLoadedMsg:
		// The tags screen reports load failures.
		if msg.err == nil {
			g.tags = msg.tags
		}
		return nil

	case imageUploadedMsg:
		if msg.err != nil {
			return g.s.failed(msg.err)
		}
		return tea.Batch(notice("Uploaded "+filepath.Base(msg.path)), g.load(g.pager.Page))

	case imageTagsSavedMsg:
		if msg.err != nil {
			return g.s.failed(msg.err)
		}
		for i := range g.images {
			if g.images[i].ID == msg.image.ID {
				g.images[i] = msg.image
			}
		}
		return notice("Saved tags for " + msg.image.DisplayName())

	case imageDeletedMsg:
		if msg.err != nil {
			return g.s.failed(msg.err)
		}
		return tea.Batch(notice(fmt.Sprintf("Deleted image %d", msg.id)), g.load(g.pager.Page))

	case clipboardDoneMsg:
		if msg.err != nil {
			return g.s.failed(msg.err)
		}
		return notice("Copied " + msg.url)

	case projectsLoadedMsg, projectDeletedMsg:
		if pid, _ := g.s.currentProjectID(); pid != g.projectID {
			g.reset(pid)
			if g.shown {
				return g.load(0)
			}
		}
		return nil
	}

	switch {
	case g.confirm != nil:
		if k, ok := msg.(tea.KeyMsg); ok {
			done, cmd := g.confirm.update(k)
			if done {
				g.confirm = nil
			}
			return cmd
		}
		return nil
	case g.picker != nil:
		done, cmd := g.picker.update(msg)
		if done {
			g.picker = nil
		}
		return cmd
	case g.files != nil:
		return g.updateFiles(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	cols := g.columns()
	switch {
	case key.Matches(k, g.keyb.Left):
		g.cursor = max(g.cursor-1, 0)
	case key.Matches(k, g.keyb.Right):
		g.cursor = min(g.cursor+1, max(len(g.images)-1, 0))
	case key.Matches(k, g.keyb.Up):
		if g.cursor-cols >= 0 {
			g.cursor -= cols
		}
	case key.Matches(k, g.keyb.Down):
		if g.cursor+cols < len(g.images) {
			g.cursor += cols
		}
	case key.Matches(k, g.keyb.NextPage):
		if !g.loading && !g.pager.OnLastPage() {
			g.cursor, g.scroll = 0, 0
			return g.load(g.pager.Page + 1)
		}
		return nil
	case key.Matches(k, g.keyb.PrevPage):
		if !g.loading && g.pager.Page > 0 {
			g.cursor, g.scroll = 0, 0
			return g.load(g.pager.Page - 1)
		}
		return nil
	case key.Matches(k, g.keyb.Upload):
		if g.projectID == 0 {
			return notice("Select a project first")
		}
		return g.openFiles()
	case key.Matches(k, g.keyb.Tags):
		img, ok := g.selected()
		if !ok {
			return nil
		}
		id := img.ID
		g.picker = newTagPicker("Tags for "+img.DisplayName(), g.tags, img.TagIDs(), func(ids []int) tea.Cmd {
			return g.s.saveImageTags(id, ids)
		})
		return nil
	case key.Matches(k, g.keyb.Delete):
		img, ok := g.selected()
		if !ok {
			return nil
		}
		id := img.ID
		g.confirm = newConfirmModal("Delete image", fmt.Sprintf("Delete %s?", img.DisplayName()), "Delete",
			func() tea.Cmd { return g.s.deleteImage(id) })
		return nil
	case key.Matches(k, g.keyb.Copy):
		if img, ok := g.selected(); ok {
			return g.s.copyImageURL(img.ID)
		}
		return nil
	default:
		return nil
	}
	return g.layout()
}

func (g *galleryScreen) openFiles() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = imageExtensions
	fp.ShowHidden = false
	fp.AutoHeight = false
	fp.Height = max(g.height-4, 3)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.DisabledFile = styleMuted()
	fp.Styles.DisabledSelected = styleMuted()
	// esc closes the picker instead of walking up a directory.
	fp.KeyMap.Back = key.NewBinding(key.WithKeys("h", "backspace", "left"))
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	g.files = &fp
	return fp.Init()
}

func (g *galleryScreen) updateFiles(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "esc" || k.String() == "ctrl+g") {
		g.files = nil
		return nil
	}
	fp, cmd := g.files.Update(msg)
	g.files = &fp
	if ok, path := fp.DidSelectFile(msg); ok {
		g.files = nil
		return tea.Batch(cmd, g.s.uploadImage(g.projectID, path))
	}
	if ok, path := fp.DidSelectDisabledFile(msg); ok {
		return tea.Batch(cmd, g.s.failed(fmt.Errorf("%s is not an image", filepath.Base(path))))
	}
	return cmd
}

func (g *galleryScreen) view() string {
	switch {
	case g.confirm != nil:
		return lipgloss.Place(g.width, g.height, lipgloss.Center, lipgloss.Center, g.confirm.view(g.width))
	case g.picker != nil:
		return lipgloss.Place(g.width, g.height, lipgloss.Center, lipgloss.Center, g.picker.view(g.width, g.height))
	case g.files != nil:
		head := styleTitle().Render("Upload image") + styleMuted().Render("  "+g.files.CurrentDirectory)
		return head + "\n\n" + g.files.View()
	}

	p, ok := g.s.app.CurrentProject()
	if !ok {
		return styleTitle().Render("Gallery") + "\n\n" +
			styleMuted().Render("No current project. Open Projects (2) and press enter to pick one.")
	}
	head := styleTitle().Render("Gallery") + "  " + p.Name +
		styleMuted().Render(fmt.Sprintf("  %d images", g.total))
	if g.loading {
		head += styleMuted().Render("  loading" + glyphEllipsis())
	}
	if len(g.images) == 0 {
		body := "No images in this project. Press u to upload one."
		if g.loading {
			body = ""
		}
		return head + "\n\n" + styleMuted().Render(body)
	}

	return head + "\n\n" +
		normalizePane(g.renderGrid(), g.width, g.gridHeight()) + "\n" +
		g.pager.View() + styleMuted().Render(fmt.Sprintf("  (%d per page)", g.pager.PerPage))
}

func (g *galleryScreen) renderGrid() string {
	cols := g.columns()
	first := g.scroll * cols
	last := min(first+g.visibleRows()*cols, len(g.images))

	var rows []string
	for start := first; start < last; start += cols {
		var cards []string
		for i := start; i < min(start+cols, last); i++ {
			cards = append(cards, g.renderCard(g.images[i], i == g.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

func (g *galleryScreen) renderCard(img model.Image, focused bool) string {
	w := cardWidth - 2
	var lines []string
	if g.s.settings.Thumbnails {
		lines = append(lines, g.thumbnail(img.Key()))
	}

	name := fitWidth(img.DisplayName(), w)
	if focused {
		name = styleSelected().Render(name)
	}
	var tagNames []string
	for _, t := range img.Tags {
		tagNames = append(tagNames, tagStyle(t.Color).Render(t.Name))
	}
	tagLine := styleMuted().Render("untagged")
	if len(tagNames) > 0 {
		tagLine = strings.Join(tagNames, " ")
	}
	lines = append(lines, name, fitWidth(tagLine, w))

	return lipgloss.NewStyle().Width(cardWidth).Padding(0, 1).Render(strings.Join(lines, "\n"))
}

func (g *galleryScreen) thumbnail(key string) string {
	if out, ok := g.thumbs.Get(key); ok {
		return normalizePane(out, thumbCols, thumbRows)
	}
	label := ""
	switch {
	case g.thumbs.Err(key) != nil:
		label = "no preview"
	case g.tracker.IsImageVisible(key):
		label = "loading" + glyphEllipsis()
	}
	box := lipgloss.NewStyle().
		Width(thumbCols).
		Height(thumbRows).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(colorMuted).
		Background(colorControlBg)
	return box.Render(label)
}
