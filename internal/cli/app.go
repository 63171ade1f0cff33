package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/config"
	"github.com/niamhfoley-dev/assignment-4/internal/auth"
	"github.com/niamhfoley-dev/assignment-4/internal/database"
	"github.com/niamhfoley-dev/assignment-4/internal/engine"
	"github.com/niamhfoley-dev/assignment-4/internal/session"
)

// app is every long-lived component a command may need.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	store     *database.Store
	cooldowns session.Store
	engine    *engine.Engine
	auth      *auth.Service
}

func openApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	store, err := database.Open(ctx, database.Options{
		Driver:    cfg.Database.Driver,
		DSN:       cfg.Database.DSN,
		TxTimeout: cfg.Database.TxTimeout,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	cooldowns, err := openCooldowns(cfg, store, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		store:     store,
		cooldowns: cooldowns,
		engine: engine.New(engine.Options{
			Store:     store,
			Cooldowns: cooldowns,
			Rules:     cfg.Rules,
			FailOpen:  cfg.Session.FailOpen,
			Logger:    log,
		}),
		auth: auth.NewService(store, auth.Options{Expiration: cfg.Session.Expiration, Logger: log}),
	}, nil
}

func openCooldowns(cfg *config.Config, store *database.Store, log *logrus.Logger) (session.Store, error) {
	switch cfg.Session.Backend {
	case "sql":
		return session.NewSQLStore(store), nil
	case "badger":
		return session.OpenBadger(cfg.Session.BadgerPath, log)
	}
	return nil, fmt.Errorf("cli: unknown session backend %q", cfg.Session.Backend)
}

func (a *app) janitor() *auth.Janitor {
	return auth.NewJanitor(a.auth, a.cooldowns, a.cfg.Rules.CommentCooldown)
}

func (a *app) Close() error {
	return errors.Join(a.cooldowns.Close(), a.store.Close())
}
