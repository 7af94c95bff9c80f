package cli

import (
	"strings"

	"labelmark-cli/internal/model"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Tag commands",
	}
	cmd.AddCommand(newTagsListCmd(app))
	cmd.AddCommand(newTagsShowCmd(app))
	cmd.AddCommand(newTagsCreateCmd(app))
	cmd.AddCommand(newTagsUpdateCmd(app))
	cmd.AddCommand(newTagsDeleteCmd(app))
	cmd.AddCommand(newTagsCategoriesCmd(app))
	return cmd
}

func newTagsListCmd(app *App) *cobra.Command {
	var search model.TagSearch
	var inCategory string
	var forProject int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Long: strings.TrimSpace(`
List tags, optionally filtered.

--in-category and --for-project use the dedicated endpoints (exact category match, and
tags used by a project's images with per-project counts). The remaining filters are
passed to the search endpoint.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.apiClient(cmd)
			var (
				tags []model.Tag
				err  error
			)
			switch {
			case cmd.Flags().Changed("in-category"):
				tags, err = c.Tags.ByCategory(cmd.Context(), inCategory)
			case cmd.Flags().Changed("for-project"):
				tags, err = c.Tags.ForProject(cmd.Context(), forProject)
			default:
				tags, err = c.Tags.List(cmd.Context(), search)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tags})
		},
	}

	cmd.Flags().StringVar(&search.Name, "name", "", "Filter by name")
	cmd.Flags().StringVar(&search.Color, "color", "", "Filter by color")
	cmd.Flags().StringVar(&search.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&search.TagType, "type", "", "Filter by tag type")
	cmd.Flags().IntVar(&search.ProjectID, "project", 0, "Filter by project id")
	cmd.Flags().StringVar(&inCategory, "in-category", "", "List tags of exactly this category")
	cmd.Flags().IntVar(&forProject, "for-project", 0, "List tags used in this project")
	cmd.MarkFlagsMutuallyExclusive("in-category", "for-project")
	return cmd
}

func newTagsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tag-id>",
		Short: "Show a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("tag", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := app.apiClient(cmd).Tags.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTagsCreateCmd(app *App) *cobra.Command {
	var name, color, category string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.TagCreate{
				Name:     strings.TrimSpace(name),
				Color:    optString(cmd, "color", color),
				Category: optString(cmd, "category", category),
			}
			t, err := app.apiClient(cmd).Tags.Create(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tag name")
	cmd.Flags().StringVar(&color, "color", "", "Tag color (any CSS color, e.g. #409eff)")
	cmd.Flags().StringVar(&category, "category", "", "Tag category")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTagsUpdateCmd(app *App) *cobra.Command {
	var name, color, category string

	cmd := &cobra.Command{
		Use:   "update <tag-id>",
		Short: "Update a tag (only the flags you pass are sent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("tag", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			in := model.TagUpdate{
				Name:     optString(cmd, "name", name),
				Color:    optString(cmd, "color", color),
				Category: optString(cmd, "category", category),
			}
			t, err := app.apiClient(cmd).Tags.Update(cmd.Context(), id, in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tag name")
	cmd.Flags().StringVar(&color, "color", "", "Tag color")
	cmd.Flags().StringVar(&category, "category", "", "Tag category")
	return cmd
}

func newTagsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tag-id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("tag", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.apiClient(cmd).Tags.Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
		},
	}
}

func newTagsCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List tag categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := app.apiClient(cmd).Tags.Categories(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cats})
		},
	}
}
