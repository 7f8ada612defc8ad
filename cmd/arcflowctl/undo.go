package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcflow/core/internal/core"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last undoable queue action",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStoreRunning(cmd.Context(), func(runCtx context.Context, store *core.Store) error {
				if err := waitFor(runCtx, store, func(s core.State) bool {
					return s.Playlists.Kind != core.PlaylistsLoading
				}, func() { store.Dispatch(core.NewInitializeAction()) }); err != nil {
					return err
				}

				before := len(store.State().Queue.Past)
				waitCtx, cancel := context.WithTimeout(runCtx, 2*time.Second)
				defer cancel()
				if err := waitFor(waitCtx, store, func(s core.State) bool {
					return len(s.Queue.Past) != before
				}, func() { store.Dispatch(core.NewUndoRequestedAction()) }); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to undo")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderQueueTable(store.State()))
				return nil
			})
		},
	}
}
