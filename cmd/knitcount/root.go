package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rpggio/knitcount/internal/config"
	"github.com/spf13/cobra"
)

// run executes the command line in args and releases everything the
// command opened, whether or not it failed.
func run(args []string, out io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetOut(out)
	root.SetArgs(args)
	return root.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	var (
		dbPath  string
		noColor bool
	)

	root := &cobra.Command{
		Use:           "knitcount",
		Short:         "Row and stitch counters for knitting and crochet projects",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DB.Path = dbPath
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides KNITCOUNT_DB_PATH)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newServeCmd(a),
		newProjectCmd(a),
		newPartCmd(a),
		newCounterCmd(a),
	)
	return root
}

// openCLI is the PreRunE of one-shot commands. Logs go to stderr so they
// never mix with command output.
func openCLI(a *app) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return a.open(os.Stderr)
	}
}
