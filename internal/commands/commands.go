package commands

import (
	"os"

	"github.com/spf13/cobra"

	"calboard/internal/printer"
)

func New() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "calboard",
		Short: "A month calendar of tasks, planned by dragging across days.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			printer.DisableColorUnlessTerminal(os.Stdout)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&ro.ConfigPath, "config", "", "Path to config.toml (default $CALBOARD_CONFIG or ~/.config/calboard/config.toml).")
	cmd.PersistentFlags().BoolVarP(&ro.Verbose, "verbose", "v", false, "Log to stderr instead of the log file.")

	AddCommands(cmd, ro)
	return cmd
}

func AddCommands(topLevel *cobra.Command, ro *RootOptions) {
	addAdd(topLevel, ro)
	addList(topLevel, ro)
	addMonth(topLevel, ro)
	addEdit(topLevel, ro)
	addRemove(topLevel, ro)
	addMove(topLevel, ro)
	addUI(topLevel, ro)
	addVersion(topLevel, ro)
}
