package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/spf13/cobra"
)

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		newProjectNewCmd(a),
		newProjectListCmd(a),
		newProjectShowCmd(a),
		newProjectRmCmd(a),
	)
	return cmd
}

func newProjectNewCmd(a *app) *cobra.Command {
	var (
		description string
		crochet     bool
	)
	cmd := &cobra.Command{
		Use:     "new [name]",
		Short:   "Create a project with its first part and counters",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := project.Project{Description: description}
			if len(args) == 1 {
				p.Name = args[0]
			}
			if crochet {
				p.Type = project.CraftCrochet
			}
			res := a.tracker.AddFreshProject(cmd.Context(), p)
			if err := resultErr(res); err != nil {
				return err
			}
			created := a.tracker.GetProject(cmd.Context(), res.Entity)
			if err := resultErr(created); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Created project %q (#%d)", created.Entity.Name, created.Entity.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "project description")
	cmd.Flags().BoolVar(&crochet, "crochet", false, "crochet project (default knitting)")
	return cmd
}

func newProjectListCmd(a *app) *cobra.Command {
	var (
		query string
		limit int
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List or search projects",
		Args:    cobra.NoArgs,
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.tracker.SearchProjects(cmd.Context(), query, limit)
			if err := resultErr(res); err != nil {
				return err
			}
			printProjects(cmd.OutOrStdout(), res.Entity)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "only projects matching these words")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of search results")
	return cmd
}

func newProjectShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show <project-id>",
		Short:   "Show a project's parts and the counters of its current part",
		Args:    cobra.ExactArgs(1),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			proj := a.tracker.GetProject(ctx, id)
			if err := resultErr(proj); err != nil {
				return err
			}
			parts := a.tracker.GetProjectParts(ctx, id)
			if err := resultErr(parts); err != nil {
				return err
			}
			printProjects(out, []project.Project{proj.Entity})
			fmt.Fprintln(out)
			printParts(out, parts.Entity)

			current, ok := part.Current(parts.Entity)
			if !ok {
				return nil
			}
			counters := a.tracker.GetPartCounters(ctx, current.ID)
			if err := resultErr(counters); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", strings.ToUpper(current.Name))
			printCounters(out, counters.Entity)
			return nil
		},
	}
}

func newProjectRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a project with all its parts and counters",
		Args:    cobra.ExactArgs(1),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			res := a.tracker.DeleteFullProject(cmd.Context(), id)
			if err := resultErr(res); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Deleted project #%d (%d rows)", id, res.Entity)
			return nil
		},
	}
}
