package main

import (
	"context"
	"fmt"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/session"
	"github.com/spf13/cobra"
)

type stepFunc func(*session.Session, context.Context, int64) ([]counter.Counter, error)

func newCounterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "counter",
		Aliases: []string{"c"},
		Short:   "Manage and step counters",
	}
	cmd.AddCommand(
		newCounterAddCmd(a),
		newCounterListCmd(a),
		newCounterStepCmd(a, "inc", "Increment a counter; the Global counter also steps linked counters", (*session.Session).Increment),
		newCounterStepCmd(a, "dec", "Decrement a counter; the Global counter also steps linked counters", (*session.Session).Decrement),
		newCounterStepCmd(a, "link", "Toggle whether a normal counter follows the Global counter", (*session.Session).ToggleLink),
		newCounterRmCmd(a),
	)
	return cmd
}

func newCounterAddCmd(a *app) *cobra.Command {
	var c counter.Counter
	cmd := &cobra.Command{
		Use:     "add <part-id> <name>",
		Short:   "Add a normal counter to a part",
		Args:    cobra.ExactArgs(2),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			partID, err := parseID(args[0], "part")
			if err != nil {
				return err
			}
			c.OwningPartID = partID
			c.Name = args[1]
			res := a.tracker.AddCounter(cmd.Context(), c)
			if err := resultErr(res); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Added counter %q (#%d)", c.Name, res.Entity)
			return nil
		},
	}
	cmd.Flags().Int64Var(&c.IncrementBy, "by", 1, "step size")
	cmd.Flags().Int64Var(&c.Value, "value", 0, "starting value")
	cmd.Flags().BoolVar(&c.IsGloballyLinked, "linked", false, "step with the Global counter")
	cmd.Flags().Int64Var(&c.ResetRow, "reset-row", 0, "return to 0 on reaching this value (0 disables)")
	cmd.Flags().Int64Var(&c.MaxResets, "max-resets", 0, "stop resetting after this many resets (0 is unlimited)")
	return cmd
}

func newCounterListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list <part-id>",
		Aliases: []string{"ls"},
		Short:   "List the counters of a part",
		Args:    cobra.ExactArgs(1),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			partID, err := parseID(args[0], "part")
			if err != nil {
				return err
			}
			res := a.tracker.GetPartCounters(cmd.Context(), partID)
			if err := resultErr(res); err != nil {
				return err
			}
			printCounters(cmd.OutOrStdout(), res.Entity)
			return nil
		},
	}
}

// newCounterStepCmd runs a step through a session on the counter's part,
// making that part current, so linked counters cascade exactly as they do
// for MCP clients.
func newCounterStepCmd(a *app, use, short string, step stepFunc) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <counter-id>",
		Short:   short,
		Args:    cobra.ExactArgs(1),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "counter")
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			c := a.tracker.GetCounter(ctx, id)
			if err := resultErr(c); err != nil {
				return err
			}
			p := a.tracker.GetPart(ctx, c.Entity.OwningPartID)
			if err := resultErr(p); err != nil {
				return err
			}

			sessions := session.NewManager(a.tracker, a.logger)
			sess, err := sessions.Open(ctx, p.Entity.OwningProjectID)
			if err != nil {
				return err
			}
			defer sessions.Close(sess.ID())

			if sess.Snapshot().ActivePart.ID != p.Entity.ID {
				if err := sess.SelectPart(ctx, p.Entity.ID); err != nil {
					return err
				}
			}

			changed, err := step(sess, ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			width := 0
			for _, ch := range changed {
				width = max(width, len(ch.Name))
			}
			for _, ch := range changed {
				fmt.Fprintln(out, counterLine(ch, width))
			}
			return nil
		},
	}
}

func newCounterRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <counter-id>",
		Short:   "Delete a normal counter",
		Args:    cobra.ExactArgs(1),
		PreRunE: openCLI(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "counter")
			if err != nil {
				return err
			}
			if err := resultErr(a.tracker.DeleteCounter(cmd.Context(), id)); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Deleted counter #%d", id)
			return nil
		},
	}
}
