package tui

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"labelmark-cli/internal/api"
	"labelmark-cli/internal/model"
	"labelmark-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeServer records the paths it was asked for and answers with canned handlers.
type fakeServer struct {
	mu    sync.Mutex
	paths []string
	mux   *http.ServeMux
}

func newFakeServer() *fakeServer {
	return &fakeServer{mux: http.NewServeMux()}
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.Method+" "+r.URL.RequestURI())
	f.mu.Unlock()
	f.mux.ServeHTTP(w, r)
}

func (f *fakeServer) count(req string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.paths {
		if p == req {
			n++
		}
	}
	return n
}

func testSettings() store.Settings {
	return store.Settings{
		APIURL:     "http://unused",
		PageSize:   12,
		Thumbnails: true,
		RootMargin: 0,
		Glyphs:     "unicode",
	}
}

// newTestSession wires a session to an httptest backend and an in-memory KV.
func newTestSession(t *testing.T, srv *fakeServer) (*session, store.KV) {
	t.Helper()
	if srv == nil {
		srv = newFakeServer()
	}
	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)

	kv := store.NewMemoryKV()
	s := newSession(context.Background(), Deps{
		API:      api.New(hs.URL + "/api/v1/"),
		KV:       kv,
		Settings: testSettings(),
	}, nil)
	return s, kv
}

// run executes cmd and every command it batches, returning the produced messages.
// Only use it on commands known not to sleep.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(update func(tea.Msg), text string) {
	for _, r := range text {
		update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(60 * x), G: uint8(60 * y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func images(n int) []model.Image {
	out := make([]model.Image, n)
	for i := range out {
		out[i] = model.Image{ID: i + 1, ProjectID: 7, Filename: "img.png"}
	}
	return out
}
