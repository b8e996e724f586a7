package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/emuhud/internal/session"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	"github.com/alexisbeaulieu97/emuhud/internal/tui"
)

type watchOptions struct {
	plain bool
}

func newWatchCmd(flags *rootFlags) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <theme> [file|-]",
		Short: "Render a theme in the terminal from a stream of snapshots",
		Long: "Reads one base64 snapshot per line from a file or stdin and renders the theme.\n" +
			"A line reading 'closed' replays the game-closed event.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 2 {
				path = args[1]
			}
			return runWatch(cmd, flags, opts, args[0], path)
		},
	}

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print the final frame as text instead of starting the HUD")

	return cmd
}

func runWatch(cmd *cobra.Command, flags *rootFlags, opts *watchOptions, name, path string) error {
	app, err := loadAppContext(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	hub := session.NewBroadcaster(app.Logger)
	sess, err := app.newSession(name, hub)
	if err != nil {
		return newCommandError("watch", "creating theme "+name, err, "Run 'emuhud themes' to list available themes.")
	}

	src, err := openSource(path, cmd.InOrStdin())
	if err != nil {
		return newCommandError("watch", "opening snapshot source", err, "Pass a readable file or '-' for stdin.")
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.plain || !isTerminal(cmd.OutOrStdout()) {
		return watchPlain(ctx, cmd.OutOrStdout(), sess, src)
	}

	meta, _ := app.Registry.Metadata(name)
	return watchInteractive(ctx, cmd.OutOrStdout(), hub, sess, meta, src, path == "-")
}

// watchPlain feeds the whole source and prints the frame left at the end.
func watchPlain(ctx context.Context, out io.Writer, sess *session.Session, src io.Reader) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return sess.Run(gctx) })

	done := make(chan error, 1)
	go func() {
		if err := feed(gctx, sess, src); err != nil {
			done <- err
			return
		}
		done <- sess.Sync(gctx)
	}()

	var feedErr error
	select {
	case feedErr = <-done:
	case <-ctx.Done():
		feedErr = ctx.Err()
	}
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	if feedErr != nil {
		return newCommandError("watch", "reading snapshots", feedErr, "Each line must be a base64 snapshot envelope.")
	}

	_, err := fmt.Fprint(out, tui.RenderText(sess.Frame()))
	return err
}

func watchInteractive(ctx context.Context, out io.Writer, hub *session.Broadcaster, sess *session.Session, meta theme.Metadata, src io.Reader, fromStdin bool) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(tui.Options{Metadata: meta, Act: sess.Act})
	progOpts := []tea.ProgramOption{tea.WithContext(runCtx), tea.WithOutput(out), tea.WithAltScreen()}
	if fromStdin {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, progOpts...)

	sub := hub.Subscribe(sess.Theme(), func(_ context.Context, f theme.Frame) error {
		p.Send(tui.FrameMsg{Frame: f})
		return nil
	})
	defer sub.Unsubscribe()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return sess.Run(gctx) })

	// The reader may block on stdin after the HUD exits, so it is not
	// part of the group.
	go func() {
		p.Send(tui.SourceDoneMsg{Err: feed(gctx, sess, src)})
	}()

	_, runErr := p.Run()
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
