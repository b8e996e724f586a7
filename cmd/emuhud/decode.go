package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	"github.com/alexisbeaulieu97/emuhud/internal/tui"
	"github.com/alexisbeaulieu97/emuhud/pkg/diff"
)

type decodeOptions struct {
	pretty bool
	final   bool
	diff    bool
	changed bool
}

func newDecodeCmd(flags *rootFlags) *cobra.Command {
	opts := &decodeOptions{}

	cmd := &cobra.Command{
		Use:   "decode <theme> [file|-]",
		Short: "Decode snapshots and print the resulting frames as JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 2 {
				path = args[1]
			}
			return runDecode(cmd, flags, opts, args[0], path)
		},
	}

	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	cmd.Flags().BoolVar(&opts.final, "final", false, "Print only the frame left after the last snapshot")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Print a text diff between consecutive frames instead of JSON")
	cmd.Flags().BoolVar(&opts.changed, "changed", false, "With --diff, print only the added and removed lines")

	return cmd
}

func runDecode(cmd *cobra.Command, flags *rootFlags, opts *decodeOptions, name, path string) error {
	app, err := loadAppContext(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	t, err := app.newTheme(name)
	if err != nil {
		return newCommandError("decode", "creating theme "+name, err, "Run 'emuhud themes' to list available themes.")
	}

	src, err := openSource(path, cmd.InOrStdin())
	if err != nil {
		return newCommandError("decode", "opening snapshot source", err, "Pass a readable file or '-' for stdin.")
	}
	defer src.Close()

	frames, err := decodeFrames(cmd, app, t, src)
	if err != nil {
		return newCommandError("decode", "reading snapshots", err, "Each line must be a base64 snapshot envelope.")
	}
	if opts.final && len(frames) > 0 {
		frames = frames[len(frames)-1:]
	}

	if opts.diff || opts.changed {
		return writeFrameDiffs(cmd.OutOrStdout(), frames, opts.changed)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	for _, f := range frames {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}

// writeFrameDiffs prints how each frame's text rendering differs from the
// one before it. Unchanged frames print nothing.
func writeFrameDiffs(out io.Writer, frames []theme.Frame, changedOnly bool) error {
	prev := ""
	for i, f := range frames {
		next := tui.RenderText(f)
		var text string
		if changedOnly {
			if lines := diff.Changed(prev, next); len(lines) > 0 {
				text = fmt.Sprintf("frame %d:\n%s\n", i+1, strings.Join(lines, "\n"))
			}
		} else {
			text = diff.Unified(prev, next, fmt.Sprintf("frame %d", i), fmt.Sprintf("frame %d", i+1))
		}
		if text != "" {
			if _, err := fmt.Fprint(out, text); err != nil {
				return err
			}
		}
		prev = next
	}
	return nil
}

// decodeFrames applies every snapshot to t and collects one frame per line.
// A rejected snapshot still yields the error frame the theme produced.
func decodeFrames(cmd *cobra.Command, app *AppContext, t theme.Theme, src io.Reader) ([]theme.Frame, error) {
	var frames []theme.Frame
	initial := true
	line := 0
	err := scanSnapshots(src, func(data string, closed bool) error {
		line++
		if closed {
			t.Close(cmd.Context())
			initial = true
		} else {
			if err := theme.Tick(cmd.Context(), t, data, initial); err != nil {
				app.Logger.WithFields(map[string]any{"line": line}).Warn(err.Error())
			}
			initial = false
		}
		frames = append(frames, t.Frame())
		return nil
	})
	return frames, err
}
