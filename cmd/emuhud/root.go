package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/emuhud/internal/config"
)

type rootFlags struct {
	envFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "emuhud",
		Short:         "emuhud renders live HUD overlays from emulator memory snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "Dotenv file to read before the environment")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newWatchCmd(flags))
	cmd.AddCommand(newDecodeCmd(flags))
	cmd.AddCommand(newCombosCmd(flags))
	cmd.AddCommand(newThemesCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
