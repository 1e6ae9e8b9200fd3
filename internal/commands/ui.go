package commands

import (
	"github.com/spf13/cobra"

	"calboard/internal/ui"
)

func addUI(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive month grid.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(ro.interactive())
			if err != nil {
				return err
			}
			defer s.Close()
			return ui.Run(s.engine, s.cfg, s.logger)
		},
	}

	topLevel.AddCommand(cmd)
}
