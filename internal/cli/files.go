package cli

import (
	"os"
	"path"

	"github.com/spf13/cobra"
)

func newFilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Stored file commands",
	}
	cmd.AddCommand(newFilesURLCmd(app))
	cmd.AddCommand(newFilesInfoCmd(app))
	cmd.AddCommand(newFilesDownloadCmd(app))
	return cmd
}

func newFilesURLCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "url <file-path>",
		Short: "Resolve the access URL of a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.apiClient(cmd).Files.URL(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"url": u}})
		},
	}
}

func newFilesInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file-path>",
		Short: "Show metadata of a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.apiClient(cmd).Files.Info(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": info})
		},
	}
}

func newFilesDownloadCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <file-path>",
		Short: "Download a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := output
			if dst == "" {
				dst = path.Base(args[0])
			}
			f, err := os.Create(dst)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := app.apiClient(cmd).Files.Download(cmd.Context(), args[0], f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(dst)
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": dst, "bytes": n}})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default: the file's base name)")
	return cmd
}
