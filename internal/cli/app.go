// Package cli wires the sync engine into the rapport command-line client.
package cli

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/rapport-app/rapport/internal/config"
	"github.com/rapport-app/rapport/internal/connectivity"
	"github.com/rapport-app/rapport/internal/logging"
	"github.com/rapport-app/rapport/internal/models"
	"github.com/rapport-app/rapport/internal/profile"
	"github.com/rapport-app/rapport/internal/remote"
	"github.com/rapport-app/rapport/internal/repository"
	"github.com/rapport-app/rapport/internal/store"
	"github.com/rapport-app/rapport/internal/syncer"
	"github.com/rapport-app/rapport/internal/syncqueue"
)

// App holds the engine singletons: one DB handle, one queue, one repository
// per entity type. Everything is constructed once at startup and passed
// down; nothing lives in package-level state.
type App struct {
	Config  *config.Config
	Log     logging.Logger
	Monitor *connectivity.Monitor

	Queue        *syncqueue.Queue
	Contacts     *repository.Repository[models.Contact, *models.Contact]
	Keystones    *repository.Repository[models.Keystone, *models.Keystone]
	Interactions *repository.Repository[models.Interaction, *models.Interaction]
	Profile      *profile.Store
	Runner       *syncer.Runner

	db *sql.DB
}

// NewApp opens the local mirror and wires repositories for every entity
// type against the configured remote.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	client := remote.NewClient(cfg.APIBaseURL, cfg.APIToken)
	monitor := connectivity.NewMonitor(connectivity.Func(client.Healthy), cfg.OnlineCheckInterval)
	queue := syncqueue.New(db)

	contacts := repository.New(models.StoreContacts,
		remote.NewEntityService[models.Contact](client, models.StoreContacts),
		store.New[models.Contact](db, models.StoreContacts),
		queue, monitor, log)
	keystones := repository.New(models.StoreKeystones,
		remote.NewEntityService[models.Keystone](client, models.StoreKeystones),
		store.New[models.Keystone](db, models.StoreKeystones),
		queue, monitor, log)
	interactions := repository.New(models.StoreInteractions,
		remote.NewEntityService[models.Interaction](client, models.StoreInteractions),
		store.New[models.Interaction](db, models.StoreInteractions),
		queue, monitor, log)

	return &App{
		Config:       cfg,
		Log:          log,
		Monitor:      monitor,
		Queue:        queue,
		Contacts:     contacts,
		Keystones:    keystones,
		Interactions: interactions,
		Profile:      profile.New(db),
		Runner:       syncer.New(queue, log, contacts, keystones, interactions),
		db:           db,
	}, nil
}

// Reset clears every local collection and the queue. Used on logout.
func (a *App) Reset(ctx context.Context) error {
	for _, name := range []string{models.StoreContacts, models.StoreKeystones, models.StoreInteractions} {
		if _, err := a.db.ExecContext(ctx, "DELETE FROM "+name); err != nil {
			return err
		}
	}
	if err := a.Queue.Clear(ctx); err != nil {
		return err
	}
	return a.Profile.Clear(ctx)
}

func (a *App) Close() error {
	return a.db.Close()
}
