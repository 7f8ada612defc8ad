package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/arcflow/core/internal/collaborators/broadcast"
	"github.com/arcflow/core/internal/collaborators/filedownload"
	"github.com/arcflow/core/internal/collaborators/playlistsql"
	"github.com/arcflow/core/internal/config"
	"github.com/arcflow/core/internal/core"
)

// commandContext carries the state every subcommand needs but none of
// them should rebuild: the resolved config, the wired Store, and the
// optional broadcast publisher. Config resolution is memoized with
// sync.Once so PersistentPreRunE can call ensureConfig freely without
// reloading per subcommand.
type commandContext struct {
	configFlag *string

	once    sync.Once
	onceErr error
	cfg     *config.Config

	storeMu  sync.Once
	store    *core.Store
	storeErr error
	closers  []func()
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.once.Do(func() {
		cfg, _, _, err := config.Load(*c.configFlag)
		c.cfg, c.onceErr = cfg, err
	})
	return c.cfg, c.onceErr
}

// ensureStore wires a core.Store against the configured storage driver and
// broadcast publisher, memoized across subcommand invocations within a
// single process run.
func (c *commandContext) ensureStore(ctx context.Context) (*core.Store, error) {
	c.storeMu.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}

		playlists, err := c.openPlaylistService(ctx, cfg)
		if err != nil {
			c.storeErr = err
			return
		}

		exportDir := cfg.Export.Dir
		if exportDir == "" {
			exportDir = "."
		}
		downloader, err := filedownload.NewWriter(exportDir)
		if err != nil {
			c.storeErr = err
			return
		}

		collab := core.Collaborators{
			Playlists: playlists,
			Player:    core.LogPlayer{},
			Download:  downloader,
		}

		store := core.NewStore(core.NewState(), collab, core.RunEffects)

		if cfg.Broadcast.Enabled && cfg.Broadcast.URL != "" {
			pub, err := broadcast.New(cfg.Broadcast.URL, cfg.Broadcast.Channel)
			if err != nil {
				c.storeErr = fmt.Errorf("connect broadcast: %w", err)
				return
			}
			store.OnStateChanged(pub.Listener())
			c.closers = append(c.closers, func() { pub.Close() })
		}

		c.store = store
	})
	return c.store, c.storeErr
}

func (c *commandContext) openPlaylistService(ctx context.Context, cfg *config.Config) (core.PlaylistService, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return core.NewMemoryService(), nil
	case "sqlite":
		dsn := cfg.Storage.DSN
		if dsn == "" {
			dsn = "arcflow.db"
		}
		return playlistsql.OpenSQLite(dsn)
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := playlistsql.AutoMigrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		return playlistsql.NewPostgres(pool), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// close releases anything ensureStore opened. Registered as the root
// command's PersistentPostRunE.
func (c *commandContext) close() {
	for _, closer := range c.closers {
		closer()
	}
	c.closers = nil
}

// withStoreRunning wires a Store, starts its worker loop bound to a
// cancellable context, and runs fn with the live store. The loop is
// stopped and drained before withStoreRunning returns.
func (c *commandContext) withStoreRunning(parent context.Context, fn func(ctx context.Context, store *core.Store) error) error {
	store, err := c.ensureStore(parent)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	runDone := make(chan struct{})
	go func() {
		store.Run(ctx)
		close(runDone)
	}()

	err = fn(ctx, store)

	cancel()
	select {
	case <-runDone:
	case <-time.After(5 * time.Second):
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
