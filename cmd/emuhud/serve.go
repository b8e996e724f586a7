package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/emuhud/internal/relay"
	"github.com/alexisbeaulieu97/emuhud/internal/server"
	"github.com/alexisbeaulieu97/emuhud/internal/session"
)

const redisDialTimeout = 5 * time.Second

type serveOptions struct {
	addr string
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket HUD server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides EMUHUD_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, flags *rootFlags, opts *serveOptions) error {
	app, err := loadAppContext(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if opts.addr != "" {
		app.Config.Addr = opts.addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := session.NewBroadcaster(app.Logger)
	var pub session.Publisher = hub
	var store server.FrameStore
	if app.Config.RedisURL != "" {
		client, err := relay.Dial(ctx, app.Config.RedisURL, redisDialTimeout)
		if err != nil {
			app.Logger.Error(err, "redis unavailable, frames stay local")
		} else {
			defer client.Close()
			redisPub := relay.NewRedisPublisher(client, relay.RedisOptions{TTL: app.Config.RedisTTL})
			pub = session.Multi(hub, redisPub)
			store = redisPub
			app.Logger.Info("mirroring frames to redis")
		}
	}

	sessions := make([]*session.Session, 0, len(app.Config.Themes))
	for _, name := range app.Config.Themes {
		sess, err := app.newSession(name, pub)
		if err != nil {
			return newCommandError("serve", "creating theme "+name, err, "Check EMUHUD_THEMES against 'emuhud themes'.")
		}
		sessions = append(sessions, sess)
	}

	srv, err := server.New(server.Options{
		Addr:        app.Config.Addr,
		Sessions:    sessions,
		Broadcaster: hub,
		Registry:    app.Registry,
		Store:       store,
		Logger:      app.Logger,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
