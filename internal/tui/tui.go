// Package tui is the interactive terminal client: a layout shell (header, sidebar,
// tab bar, footer) hosting the dashboard, projects, gallery, tree and tags views.
package tui

import (
	"context"
	"log/slog"

	"labelmark-cli/internal/api"
	"labelmark-cli/internal/appstate"
	"labelmark-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Deps are the collaborators the TUI needs from the command layer.
type Deps struct {
	API      *api.Client
	KV       store.KV
	Settings store.Settings
	Log      *slog.Logger
}

func newSession(ctx context.Context, d Deps, fs appstate.Fullscreen) *session {
	log := d.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	app := appstate.NewAppStore(appstate.StorageFromKV(ctx, d.KV, log), fs)
	app.InitCurrentProject()
	return &session{
		ctx:         ctx,
		api:         d.API,
		app:         app,
		user:        appstate.NewUserStore(),
		settings:    d.Settings,
		log:         log,
		apiNotifies: true,
	}
}

// Run starts the program and blocks until the user quits. The tab bar and sidebar
// state are saved on the way out.
func Run(ctx context.Context, d Deps) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(d.Settings.Glyphs)

	fs := &altScreen{}
	s := newSession(ctx, d, fs)
	m := newAppModel(s, d.KV, fs)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	// API failures surface in the footer instead of on stderr under the UI.
	d.API.SetNotifier(api.NotifierFunc(func(msg string) {
		p.Send(noticeMsg{text: msg, isErr: true})
	}))

	final, err := p.Run()
	if fm, ok := final.(appModel); ok {
		fm.shutdown()
		if perr := fm.persist(); perr != nil {
			s.log.Warn("save tui state", "err", perr)
		}
	}
	return err
}
