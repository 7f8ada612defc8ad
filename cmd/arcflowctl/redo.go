package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcflow/core/internal/core"
)

func newRedoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone queue action",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStoreRunning(cmd.Context(), func(runCtx context.Context, store *core.Store) error {
				if err := waitFor(runCtx, store, func(s core.State) bool {
					return s.Playlists.Kind != core.PlaylistsLoading
				}, func() { store.Dispatch(core.NewInitializeAction()) }); err != nil {
					return err
				}

				before := len(store.State().Queue.Future)
				waitCtx, cancel := context.WithTimeout(runCtx, 2*time.Second)
				defer cancel()
				if err := waitFor(waitCtx, store, func(s core.State) bool {
					return len(s.Queue.Future) != before
				}, func() { store.Dispatch(core.NewRedoRequestedAction()) }); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to redo")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderQueueTable(store.State()))
				return nil
			})
		},
	}
}
