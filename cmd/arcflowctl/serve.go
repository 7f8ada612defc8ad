package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcflow/core/internal/collaborators/debughttp"
	"github.com/arcflow/core/internal/core"
)

const httpShutdownGrace = 5 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the queue store, and the read-only debug HTTP server when enabled, until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ctx.withStoreRunning(runCtx, func(storeCtx context.Context, store *core.Store) error {
				store.Dispatch(core.NewInitializeAction())

				if !cfg.Debug.Enabled {
					fmt.Fprintln(cmd.OutOrStdout(), "debug HTTP surface disabled; running store only")
					<-storeCtx.Done()
					return nil
				}

				srv := &http.Server{
					Addr:    cfg.Debug.Bind,
					Handler: debughttp.New(store).Router(),
				}
				go func() {
					<-storeCtx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownGrace)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()

				fmt.Fprintf(cmd.OutOrStdout(), "debug HTTP surface listening on %s\n", cfg.Debug.Bind)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return fmt.Errorf("debug http server: %w", err)
				}
				return nil
			})
		},
	}
}
