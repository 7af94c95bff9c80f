package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"labelmark-cli/internal/api"
	"labelmark-cli/internal/appstate"
	"labelmark-cli/internal/format"
	"labelmark-cli/internal/store"
	"labelmark-cli/internal/tui"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type App struct {
	APIURL     string
	Timeout    string
	Format     string
	PrettyJSON bool
	LogFile    string
	Debug      bool

	settings store.Settings
	log      *slog.Logger
	logFile  io.Closer
	client   *api.Client
	kv       *store.SQLiteKV
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "labelmark",
		Short:         "labelmark image catalogue CLI + TUI",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  labelmark

  # Scriptable commands
  labelmark projects list
  labelmark projects use 3
  labelmark images upload ./photos/*.jpg --tags 1,4

  # Direct image lookup (shortcut for: labelmark images show 12)
  labelmark img-12
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.close()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Backend base URL (env LABELMARK_API_URL; default "+store.DefaultAPIURL+")")
	cmd.PersistentFlags().StringVar(&app.Timeout, "timeout", "", "Per-request timeout (env LABELMARK_TIMEOUT; default 30s)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|yaml|text) (env LABELMARK_FORMAT)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write logs to this file (env LABELMARK_LOG)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newImagesCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newFilesCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init resolves settings with precedence flag > env (.env included) > config file > defaults.
func (app *App) init(cmd *cobra.Command) error {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.settings = cfg.Resolve()

	if v := pick(app.APIURL, "LABELMARK_API_URL"); v != "" {
		app.settings.APIURL = strings.TrimRight(v, "/")
	}
	if v := pick(app.Timeout, "LABELMARK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return writeErr(cmd, fmt.Errorf("invalid timeout %q (expected a duration like 30s)", v))
		}
		app.settings.Timeout = d
	}
	app.Format = pick(app.Format, "LABELMARK_FORMAT")
	if app.Format == "" {
		app.Format = "json"
	}
	app.LogFile = pick(app.LogFile, "LABELMARK_LOG")

	level := slog.LevelInfo
	if app.Debug {
		level = slog.LevelDebug
	}
	if app.LogFile != "" {
		f, err := os.OpenFile(app.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return writeErr(cmd, fmt.Errorf("open log file: %w", err))
		}
		app.logFile = f
		app.log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	} else {
		app.log = slog.New(slog.DiscardHandler)
	}
	app.log.Debug("starting", "command", cmd.CommandPath(), "api_url", app.settings.APIURL)
	return nil
}

func (app *App) close() {
	if app.kv != nil {
		_ = app.kv.Close()
		app.kv = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// apiClient returns the backend client. Failures are reported on stderr by its notifier.
func (app *App) apiClient(cmd *cobra.Command) *api.Client {
	if app.client == nil {
		errOut := cmd.ErrOrStderr()
		app.client = api.New(app.settings.APIURL,
			api.WithTimeout(app.settings.Timeout),
			api.WithLogger(app.log),
			api.WithNotifier(api.NotifierFunc(func(msg string) {
				fmt.Fprintln(errOut, "error:", msg)
			})),
		)
	}
	return app.client
}

func (app *App) stateKV(ctx context.Context) (*store.SQLiteKV, error) {
	if app.kv != nil {
		return app.kv, nil
	}
	path, err := store.StatePath()
	if err != nil {
		return nil, err
	}
	kv, err := store.OpenKV(ctx, path)
	if err != nil {
		return nil, err
	}
	app.kv = kv
	return kv, nil
}

func (app *App) appStore(ctx context.Context) (*appstate.AppStore, error) {
	kv, err := app.stateKV(ctx)
	if err != nil {
		return nil, err
	}
	a := appstate.NewAppStore(appstate.StorageFromKV(ctx, kv, app.log), nil)
	a.InitCurrentProject()
	return a, nil
}

// projectID returns the explicit id, or the persisted current project.
func (app *App) projectID(ctx context.Context, explicit int) (int, error) {
	if explicit > 0 {
		return explicit, nil
	}
	a, err := app.appStore(ctx)
	if err != nil {
		return 0, err
	}
	if p, ok := a.CurrentProject(); ok {
		return p.ID, nil
	}
	return 0, errors.New("no current project; run `labelmark projects use <id>` (or pass --project)")
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	kv, err := app.stateKV(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(ctx, tui.Deps{
		API:      app.apiClient(cmd),
		KV:       kv,
		Settings: app.settings,
		Log:      app.log,
	})
}

func pick(flagValue, envKey string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(envKey))
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// writeErr prints err unless the API notifier already reported it.
func writeErr(cmd *cobra.Command, err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "error:", err.Error())
	return err
}

func parseID(kind, s string) (int, error) {
	s = strings.TrimSpace(s)
	if kind == "image" {
		s = strings.TrimPrefix(s, "img-")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s id: %q", kind, s)
	}
	return n, nil
}

// parseIDList parses "1,2, 3" into ids. An empty string yields an empty list.
func parseIDList(s string) ([]int, error) {
	out := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid tag id: %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func optString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := strings.TrimSpace(value)
	return &v
}
