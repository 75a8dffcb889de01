package main

import (
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/spf13/cobra"
)

func newPartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "part",
		Short: "Manage the parts of a project",
	}

	var (
		description string
		current     bool
	)
	add := &cobra.Command{
		Use:     "add <project-id> <name>",
		Short:   "Add a part with its Global and Stitch counters",
		Args:    cobra.ExactArgs(2),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			res := a.tracker.AddPart(cmd.Context(), part.Part{
				Name:            args[1],
				Description:     description,
				OwningProjectID: projectID,
				IsCurrent:       current,
			})
			if err := resultErr(res); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Added part %q (#%d)", args[1], res.Entity)
			return nil
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "part description")
	add.Flags().BoolVar(&current, "current", false, "make it the current part")

	list := &cobra.Command{
		Use:     "list <project-id>",
		Aliases: []string{"ls"},
		Short:   "List a project's parts; * marks the current one",
		Args:    cobra.ExactArgs(1),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			res := a.tracker.GetProjectParts(cmd.Context(), projectID)
			if err := resultErr(res); err != nil {
				return err
			}
			printParts(cmd.OutOrStdout(), res.Entity)
			return nil
		},
	}

	use := &cobra.Command{
		Use:     "use <part-id>",
		Short:   "Make a part the current part of its project",
		Args:    cobra.ExactArgs(1),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "part")
			if err != nil {
				return err
			}
			if err := resultErr(a.tracker.SetCurrentPart(cmd.Context(), id)); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Part #%d is now current", id)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <part-id>",
		Short:   "Delete a part and its counters",
		Args:    cobra.ExactArgs(1),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "part")
			if err != nil {
				return err
			}
			if err := resultErr(a.tracker.DeletePart(cmd.Context(), id)); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Deleted part #%d", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, use, rm)
	return cmd
}
