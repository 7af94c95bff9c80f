package cli

import (
	"strings"

	"labelmark-cli/internal/model"

	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Tag-hierarchy tree commands",
	}
	cmd.AddCommand(newTreeBuildCmd(app))
	cmd.AddCommand(newTreeCategoriesCmd(app))
	cmd.AddCommand(newTreeStatsCmd(app))
	return cmd
}

func newTreeBuildCmd(app *App) *cobra.Command {
	var project int
	var tags, order string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the tag tree of a project",
		Long: strings.TrimSpace(`
Build the tag tree of a project. --tags limits the tree to images carrying those tags;
--order lists tag categories, outermost level first.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := app.projectID(cmd.Context(), project)
			if err != nil {
				return writeErr(cmd, err)
			}
			selected, err := parseIDList(tags)
			if err != nil {
				return writeErr(cmd, err)
			}
			req := model.TreeBuildRequest{SelectedTags: selected, TagOrder: splitList(order)}
			nodes, err := app.apiClient(cmd).Tree.Build(cmd.Context(), pid, req)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": nodes})
		},
	}

	cmd.Flags().IntVar(&project, "project", 0, "Project id (default: current project)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tag ids to select")
	cmd.Flags().StringVar(&order, "order", "", "Comma-separated category order")
	return cmd
}

func newTreeCategoriesCmd(app *App) *cobra.Command {
	var project int

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the tag categories used in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := app.projectID(cmd.Context(), project)
			if err != nil {
				return writeErr(cmd, err)
			}
			cats, err := app.apiClient(cmd).Tree.Categories(cmd.Context(), pid)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cats})
		},
	}

	cmd.Flags().IntVar(&project, "project", 0, "Project id (default: current project)")
	return cmd
}

func newTreeStatsCmd(app *App) *cobra.Command {
	var project int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show tag statistics of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := app.projectID(cmd.Context(), project)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := app.apiClient(cmd).Tree.Stats(cmd.Context(), pid)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}

	cmd.Flags().IntVar(&project, "project", 0, "Project id (default: current project)")
	return cmd
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
