package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/arcflow/core/internal/core"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a playlist catalog from a JSON export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			return ctx.withStoreRunning(cmd.Context(), func(runCtx context.Context, store *core.Store) error {
				bar := progressbar.NewOptions(-1,
					progressbar.OptionSetDescription("importing"),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSpinnerType(11),
				)
				defer bar.Finish()

				if err := waitFor(runCtx, store, func(s core.State) bool {
					return s.Playlists.Kind != core.PlaylistsLoading
				}, func() { store.Dispatch(core.NewInitializeAction()) }); err != nil {
					return err
				}
				_ = bar.Add(1)

				done := func(s core.State) bool {
					return s.ImportExport.Kind == core.IEImportSucceeded || s.ImportExport.Kind == core.IEImportFailed
				}
				if err := waitFor(runCtx, store, done, func() {
					store.Dispatch(core.NewImportRequestedAction(string(data)))
				}); err != nil {
					return err
				}

				ie := store.State().ImportExport
				if ie.Kind == core.IEImportFailed {
					return fmt.Errorf("import failed: %s", ie.ImportErr.Error())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d playlists, %d videos\n", ie.PlaylistCount, ie.VideoCount)
				return nil
			})
		},
	}
	return cmd
}
