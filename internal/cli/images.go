package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"labelmark-cli/internal/model"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func newImagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "images",
		Aliases: []string{"image", "img"},
		Short:   "Image commands",
	}
	cmd.AddCommand(newImagesListCmd(app))
	cmd.AddCommand(newImagesShowCmd(app))
	cmd.AddCommand(newImagesUploadCmd(app))
	cmd.AddCommand(newImagesTagCmd(app))
	cmd.AddCommand(newImagesDeleteCmd(app))
	cmd.AddCommand(newImagesURLCmd(app))
	cmd.AddCommand(newImagesDownloadCmd(app))
	return cmd
}

func newImagesListCmd(app *App) *cobra.Command {
	var project, skip, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List images of a project (defaults to the current project)",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := app.projectID(cmd.Context(), project)
			if err != nil {
				return writeErr(cmd, err)
			}
			if skip < 0 {
				return writeErr(cmd, fmt.Errorf("invalid --skip: %d", skip))
			}
			if !cmd.Flags().Changed("limit") {
				limit = app.settings.PageSize
			}
			if limit <= 0 {
				return writeErr(cmd, fmt.Errorf("invalid --limit: %d", limit))
			}
			page, err := app.apiClient(cmd).Images.ListByProject(cmd.Context(), pid, model.ImageListParams{Skip: skip, Limit: limit})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": page.Images,
				"meta": map[string]any{"projectId": pid, "skip": skip, "limit": limit, "total": page.Total},
			})
		},
	}

	cmd.Flags().IntVar(&project, "project", 0, "Project id (default: current project)")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of images to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default: pageSize from config)")
	return cmd
}

func newImagesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <image-id>",
		Short: "Show an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			img, err := app.apiClient(cmd).Images.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": img})
		},
	}
}

func newImagesUploadCmd(app *App) *cobra.Command {
	var project int
	var tags string

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload image files to a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := app.projectID(cmd.Context(), project)
			if err != nil {
				return writeErr(cmd, err)
			}
			tagIDs, err := parseIDList(tags)
			if err != nil {
				return writeErr(cmd, err)
			}

			c := app.apiClient(cmd)
			out := make([]model.Image, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return writeErr(cmd, err)
				}
				img, err := c.Images.Upload(cmd.Context(), pid, filepath.Base(path), f, tagIDs)
				_ = f.Close()
				if err != nil {
					return writeErr(cmd, err)
				}
				app.log.Info("uploaded image", "project_id", pid, "image_id", img.ID, "file", path)
				out = append(out, img)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().IntVar(&project, "project", 0, "Project id (default: current project)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tag ids to attach")
	return cmd
}

func newImagesTagCmd(app *App) *cobra.Command {
	var tags string

	cmd := &cobra.Command{
		Use:   "tag <image-id>",
		Short: "Replace the tags of an image",
		Long: strings.TrimSpace(`
Replace the full tag set of an image. Pass --tags "" to remove every tag.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			tagIDs, err := parseIDList(tags)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := app.apiClient(cmd)
			if err := c.Images.UpdateTags(cmd.Context(), id, tagIDs); err != nil {
				return writeErr(cmd, err)
			}
			img, err := c.Images.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": img})
		},
	}

	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tag ids")
	_ = cmd.MarkFlagRequired("tags")
	return cmd
}

func newImagesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <image-id>",
		Short: "Delete an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.apiClient(cmd).Images.Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
		},
	}
}

func newImagesURLCmd(app *App) *cobra.Command {
	var thumbnail, copyURL bool

	cmd := &cobra.Command{
		Use:   "url <image-id>",
		Short: "Print the access URL of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			u, err := app.apiClient(cmd).Images.URL(cmd.Context(), id, thumbnail)
			if err != nil {
				return writeErr(cmd, err)
			}
			if copyURL {
				if err := clipboard.WriteAll(u); err != nil {
					return writeErr(cmd, fmt.Errorf("copy to clipboard: %w", err))
				}
			}
			return writeOut(cmd, app, map[string]any{"data": model.ImageURL{URL: u}})
		},
	}

	cmd.Flags().BoolVar(&thumbnail, "thumbnail", false, "Return the thumbnail URL")
	cmd.Flags().BoolVar(&copyURL, "copy", false, "Also copy the URL to the clipboard")
	return cmd
}

func newImagesDownloadCmd(app *App) *cobra.Command {
	var output string
	var thumbnail bool

	cmd := &cobra.Command{
		Use:   "download <image-id>",
		Short: "Download an image (or its thumbnail)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("image", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c := app.apiClient(cmd)
			if output == "" {
				img, err := c.Images.Get(cmd.Context(), id)
				if err != nil {
					return writeErr(cmd, err)
				}
				output = img.DisplayName()
				if thumbnail {
					output = "thumb_" + output
				}
			}
			u, err := c.Images.URL(cmd.Context(), id, thumbnail)
			if err != nil {
				return writeErr(cmd, err)
			}

			f, err := os.Create(output)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := c.Images.Fetch(cmd.Context(), u, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(output)
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "path": output, "bytes": n}})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default: the image filename)")
	cmd.Flags().BoolVar(&thumbnail, "thumbnail", false, "Download the thumbnail instead")
	return cmd
}
