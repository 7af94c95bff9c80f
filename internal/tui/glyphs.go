package tui

import (
	"strings"
	"sync"

	"labelmark-cli/internal/menu"
)

// Terminals can't change the user's font, so the UI picks between a Unicode and an
// ASCII glyph set for its affordances.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference reads the tui.glyphs setting. Unknown values are ignored.
func applyGlyphPreference(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func asciiGlyphs() bool { return glyphs() == glyphSetASCII }

func glyphMenu(icon string) string { return menu.Glyph(icon, asciiGlyphs()) }

func glyphClose() string {
	if asciiGlyphs() {
		return "x"
	}
	return "×"
}

func glyphPin() string {
	if asciiGlyphs() {
		return "^"
	}
	return "⌃"
}

func glyphTwistyCollapsed() string {
	if asciiGlyphs() {
		return ">"
	}
	return "▸"
}

func glyphTwistyExpanded() string {
	if asciiGlyphs() {
		return "v"
	}
	return "▾"
}

func glyphBullet() string {
	if asciiGlyphs() {
		return "*"
	}
	return "•"
}

func glyphCheck() string {
	if asciiGlyphs() {
		return "[x]"
	}
	return "☑"
}

func glyphUncheck() string {
	if asciiGlyphs() {
		return "[ ]"
	}
	return "☐"
}

func glyphHRule() string {
	if asciiGlyphs() {
		return "-"
	}
	return "─"
}

func glyphEllipsis() string {
	if asciiGlyphs() {
		return "~"
	}
	return "…"
}
