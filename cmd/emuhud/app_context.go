package main

import (
	"io"

	"github.com/alexisbeaulieu97/emuhud/internal/codex"
	"github.com/alexisbeaulieu97/emuhud/internal/config"
	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/session"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

// AppContext bundles long-lived services created at startup.
type AppContext struct {
	Config   *config.AppConfig
	Logger   *logger.Logger
	Codex    *codex.Codex
	Registry *theme.Registry
}

func loadAppContext(flags *rootFlags, logOut io.Writer) (*AppContext, error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return nil, err
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, HumanReadable: !cfg.LogJSON, Writer: logOut})
	if err != nil {
		return nil, err
	}

	cx := codex.PSIV()
	if cfg.CodexPath != "" {
		cx, err = config.ParseCodex(cfg.CodexPath)
		if err != nil {
			return nil, err
		}
		log.WithFields(map[string]any{"path": cfg.CodexPath, "combos": len(cx.Combos())}).Info("loaded codex")
	}

	return &AppContext{Config: cfg, Logger: log, Codex: cx, Registry: theme.Default()}, nil
}

func (a *AppContext) newTheme(name string) (theme.Theme, error) {
	return a.Registry.New(name, theme.Options{Codex: a.Codex, Logger: a.Logger})
}

func (a *AppContext) newSession(name string, pub session.Publisher) (*session.Session, error) {
	t, err := a.newTheme(name)
	if err != nil {
		return nil, err
	}
	return session.New(t, session.Options{QueueSize: a.Config.QueueSize, Publisher: pub, Logger: a.Logger}), nil
}
