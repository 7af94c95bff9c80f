// Package thumb renders image thumbnails as terminal half-block cells.
package thumb

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

const halfBlock = "▀"

// Render decodes r and draws it into at most cols x rows cells, two pixels per cell
// (upper pixel as foreground, lower as background). Aspect ratio is preserved.
func Render(r io.Reader, cols, rows int) (string, error) {
	if cols <= 0 || rows <= 0 {
		return "", fmt.Errorf("thumbnail size %dx%d", cols, rows)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	m := resize.Thumbnail(uint(cols), uint(rows*2), img, resize.Lanczos3)
	return renderCells(m), nil
}

func renderCells(m image.Image) string {
	b := m.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			st := lipgloss.NewStyle().Foreground(hex(m.At(x, y)))
			if y+1 < b.Max.Y {
				st = st.Background(hex(m.At(x, y+1)))
			}
			sb.WriteString(st.Render(halfBlock))
		}
	}
	return sb.String()
}

func hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}

// Cache memoises rendered thumbnails per image key for the session.
type Cache struct {
	mu       sync.Mutex
	rendered map[string]string
	failed   map[string]error
	inflight map[string]bool
}

func NewCache() *Cache {
	return &Cache{
		rendered: map[string]string{},
		failed:   map[string]error{},
		inflight: map[string]bool{},
	}
}

func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.rendered[key]
	return s, ok
}

// Begin reserves key for fetching. It reports false when key is rendered, failed, or
// already being fetched.
func (c *Cache) Begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rendered[key]; ok {
		return false
	}
	if _, ok := c.failed[key]; ok {
		return false
	}
	if c.inflight[key] {
		return false
	}
	c.inflight[key] = true
	return true
}

// Finish records the result of a fetch started with Begin.
func (c *Cache) Finish(key, rendered string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
	if err != nil {
		c.failed[key] = err
		return
	}
	c.rendered[key] = rendered
}

func (c *Cache) Err(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed[key]
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rendered)
}
