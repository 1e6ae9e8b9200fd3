package commands

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"

	"calboard/internal/config"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func addVersion(topLevel *cobra.Command, ro *RootOptions) {
	shortened := false
	output := "json"
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Get calboard version and where it keeps tasks.",
		Example: `
calboard version
calboard version --short
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, goversion.FuncWithOutput(shortened, version, commit, date, output))
			if shortened {
				return nil
			}

			path := ro.configPath()
			cfg, err := config.LoadOrCreate(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			tbl := uitable.New()
			tbl.Separator = " : "
			tbl.AddRow("config", path)
			tbl.AddRow("backend", cfg.Backend)
			tbl.AddRow("storage", cfg.StoragePath())
			tbl.AddRow("slot key", cfg.SlotKey)
			tbl.AddRow("log file", cfg.LogFile)
			fmt.Fprintln(out)
			fmt.Fprintln(out, tbl)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	topLevel.AddCommand(cmd)
}
