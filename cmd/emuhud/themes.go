package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

type themesOptions struct {
	jsonOutput bool
}

func newThemesCmd() *cobra.Command {
	opts := &themesOptions{}

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List registered themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemes(cmd, opts, theme.Default())
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runThemes(cmd *cobra.Command, opts *themesOptions, reg *theme.Registry) error {
	metas := reg.List()

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(metas)
	}

	if len(metas) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No themes registered.")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tGAME\tVERSION\tSETTINGS\tACTIONS")
	for _, m := range metas {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			m.Name,
			m.Game,
			m.Version,
			valueOrFallback(strings.Join(m.Settings, ","), "-"),
			valueOrFallback(strings.Join(m.Actions, ","), "-"),
		)
	}
	return writer.Flush()
}

func valueOrFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
