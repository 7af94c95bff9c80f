package cli

import (
	"strings"

	"labelmark-cli/internal/model"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsUpdateCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	cmd.AddCommand(newProjectsUseCmd(app))
	cmd.AddCommand(newProjectsCurrentCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  "List projects. The saved current project is re-synced with the list (renamed or cleared).",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.appStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := a.LoadProjects(cmd.Context(), app.apiClient(cmd).Projects); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": a.Projects()})
		},
	}
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := app.apiClient(cmd).Projects.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var name, description, status string
	var use bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.ProjectCreate{
				Name:        strings.TrimSpace(name),
				Description: optString(cmd, "description", description),
			}
			if cmd.Flags().Changed("status") {
				st, err := model.ParseProjectStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				in.Status = st
			}
			p, err := app.apiClient(cmd).Projects.Create(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			if use {
				a, err := app.appStore(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := a.SetCurrentProject(p); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description (markdown)")
	cmd.Flags().StringVar(&status, "status", "", "Status (active|completed|paused)")
	cmd.Flags().BoolVar(&use, "use", false, "Make the new project current")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsUpdateCmd(app *App) *cobra.Command {
	var name, description, status string

	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project (only the flags you pass are sent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			in := model.ProjectUpdate{
				Name:        optString(cmd, "name", name),
				Description: optString(cmd, "description", description),
			}
			if cmd.Flags().Changed("status") {
				st, err := model.ParseProjectStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				in.Status = &st
			}
			p, err := app.apiClient(cmd).Projects.Update(cmd.Context(), id, in)
			if err != nil {
				return writeErr(cmd, err)
			}

			// Keep the persisted current project in sync.
			a, err := app.appStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if cur, ok := a.CurrentProject(); ok && cur.ID == p.ID {
				_ = a.SetCurrentProject(p)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description (markdown)")
	cmd.Flags().StringVar(&status, "status", "", "Status (active|completed|paused)")
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.apiClient(cmd).Projects.Delete(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			a, err := app.appStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if cur, ok := a.CurrentProject(); ok && cur.ID == id {
				_ = a.ClearCurrentProject()
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
		},
	}
}

func newProjectsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <project-id>",
		Short: "Set the current project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := app.apiClient(cmd).Projects.Get(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := app.appStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := a.SetCurrentProject(p); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}

func newProjectsCurrentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.appStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := a.CurrentProject()
			if !ok {
				return writeErr(cmd, errNotFound("current project", "(none)"))
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}
