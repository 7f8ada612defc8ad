package main

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/arcflow/core/internal/core"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the playlist catalog to a timestamped JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStoreRunning(cmd.Context(), func(runCtx context.Context, store *core.Store) error {
				bar := progressbar.NewOptions(-1,
					progressbar.OptionSetDescription("exporting"),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSpinnerType(11),
				)
				defer bar.Finish()

				done := func(s core.State) bool {
					return s.ImportExport.Kind == core.IEExportSucceeded || s.ImportExport.Kind == core.IEExportFailed
				}
				if err := waitFor(runCtx, store, func(s core.State) bool {
					return s.Playlists.Kind != core.PlaylistsLoading
				}, func() { store.Dispatch(core.NewInitializeAction()) }); err != nil {
					return err
				}
				_ = bar.Add(1)

				if err := waitFor(runCtx, store, done, func() {
					store.Dispatch(core.NewExportRequestedAction())
				}); err != nil {
					return err
				}

				ie := store.State().ImportExport
				if ie.Kind == core.IEExportFailed {
					return fmt.Errorf("export failed: %s", ie.ExportErr.Error())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported catalog at %s\n", ie.ExportedAtUTC.Format("2006-01-02T15:04:05Z07:00"))
				return nil
			})
		},
	}
	return cmd
}
