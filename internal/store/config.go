package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL     = "http://localhost:8000/api/v1"
	DefaultTimeout    = 30 * time.Second
	DefaultPageSize   = 20
	DefaultRootMargin = 2
)

// Config is the user's global config file (~/.labelmark/config.yaml).
// Zero values mean "use the default"; see Resolve.
type Config struct {
	APIURL  string        `yaml:"apiUrl,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// PageSize is the gallery page size (skip/limit paging).
	PageSize int `yaml:"pageSize,omitempty"`

	// Thumbnails toggles half-block thumbnail previews in the TUI.
	Thumbnails *bool `yaml:"thumbnails,omitempty"`

	// RootMargin is how many rows outside the viewport still count as visible.
	RootMargin *int `yaml:"rootMargin,omitempty"`

	TUI *TUIConfig `yaml:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `yaml:"glyphs,omitempty"`
}

// Settings is a Config with every default applied.
type Settings struct {
	APIURL     string
	Timeout    time.Duration
	PageSize   int
	Thumbnails bool
	RootMargin int
	Glyphs     string
}

func (c *Config) Resolve() Settings {
	s := Settings{
		APIURL:     DefaultAPIURL,
		Timeout:    DefaultTimeout,
		PageSize:   DefaultPageSize,
		Thumbnails: true,
		RootMargin: DefaultRootMargin,
		Glyphs:     "unicode",
	}
	if c == nil {
		return s
	}
	if v := strings.TrimSpace(c.APIURL); v != "" {
		s.APIURL = strings.TrimRight(v, "/")
	}
	if c.Timeout > 0 {
		s.Timeout = c.Timeout
	}
	if c.PageSize > 0 {
		s.PageSize = c.PageSize
	}
	if c.Thumbnails != nil {
		s.Thumbnails = *c.Thumbnails
	}
	if c.RootMargin != nil && *c.RootMargin >= 0 {
		s.RootMargin = *c.RootMargin
	}
	if c.TUI != nil && strings.TrimSpace(c.TUI.Glyphs) != "" {
		s.Glyphs = strings.ToLower(strings.TrimSpace(c.TUI.Glyphs))
	}
	return s
}

// ConfigKeys lists the keys accepted by Get and Set.
func ConfigKeys() []string {
	keys := []string{"apiUrl", "timeout", "pageSize", "thumbnails", "rootMargin", "tui.glyphs"}
	sort.Strings(keys)
	return keys
}

// Get returns the configured value for key ("" when unset).
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "apiUrl":
		return c.APIURL, nil
	case "timeout":
		if c.Timeout == 0 {
			return "", nil
		}
		return c.Timeout.String(), nil
	case "pageSize":
		if c.PageSize == 0 {
			return "", nil
		}
		return strconv.Itoa(c.PageSize), nil
	case "thumbnails":
		if c.Thumbnails == nil {
			return "", nil
		}
		return strconv.FormatBool(*c.Thumbnails), nil
	case "rootMargin":
		if c.RootMargin == nil {
			return "", nil
		}
		return strconv.Itoa(*c.RootMargin), nil
	case "tui.glyphs":
		if c.TUI == nil {
			return "", nil
		}
		return c.TUI.Glyphs, nil
	}
	return "", fmt.Errorf("unknown config key %q (expected one of: %s)", key, strings.Join(ConfigKeys(), ", "))
}

// Set parses and stores value under key. An empty value clears the key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "apiUrl":
		c.APIURL = value
	case "timeout":
		if value == "" {
			c.Timeout = 0
			return nil
		}
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout %q (expected a positive duration like 30s)", value)
		}
		c.Timeout = d
	case "pageSize":
		if value == "" {
			c.PageSize = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid pageSize %q (expected a positive integer)", value)
		}
		c.PageSize = n
	case "thumbnails":
		if value == "" {
			c.Thumbnails = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid thumbnails %q (expected true or false)", value)
		}
		c.Thumbnails = &b
	case "rootMargin":
		if value == "" {
			c.RootMargin = nil
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid rootMargin %q (expected a non-negative integer)", value)
		}
		c.RootMargin = &n
	case "tui.glyphs":
		v := strings.ToLower(value)
		if v != "" && v != "unicode" && v != "ascii" {
			return fmt.Errorf("invalid tui.glyphs %q (expected unicode or ascii)", value)
		}
		if v == "" {
			c.TUI = nil
			return nil
		}
		if c.TUI == nil {
			c.TUI = &TUIConfig{}
		}
		c.TUI.Glyphs = v
	default:
		return fmt.Errorf("unknown config key %q (expected one of: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return nil
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.labelmark).
	if v := strings.TrimSpace(os.Getenv("LABELMARK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".labelmark"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Keep the previous config around; a failed backup never blocks the save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.yaml.bak.*.tmp", path+".bak", prev, 0o644)
	}

	// Unique temp names so a CLI and a TUI saving at once never clobber each other.
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}
