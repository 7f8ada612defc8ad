package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arcflow/core/internal/core"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var showQueue bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display playlists or the current queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStoreRunning(cmd.Context(), func(runCtx context.Context, store *core.Store) error {
				if err := waitFor(runCtx, store, func(s core.State) bool {
					return s.Playlists.Kind != core.PlaylistsLoading
				}, func() { store.Dispatch(core.NewInitializeAction()) }); err != nil {
					return err
				}

				state := store.State()
				if showQueue {
					fmt.Fprintln(cmd.OutOrStdout(), renderQueueTable(state))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPlaylistsTable(state))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showQueue, "queue", false, "Show the current playback queue instead of the playlist catalog")
	return cmd
}

func renderPlaylistsTable(state core.State) string {
	if state.Playlists.Kind != core.PlaylistsLoaded {
		return "no playlists loaded"
	}
	headers := []string{"Name", "Videos", "Selected", "Updated"}
	rows := make([][]string, 0, len(state.Playlists.Playlists))
	for _, p := range state.Playlists.Playlists {
		selected := ""
		if p.ID == state.Queue.SelectedPlaylistID {
			selected = "*"
		}
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%d", len(p.Videos)),
			selected,
			humanize.Time(p.UpdatedAt),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft})
}

func renderQueueTable(state core.State) string {
	q := state.Queue
	headers := []string{"#", "Title", "Duration", "Current"}
	rows := make([][]string, 0, len(q.Videos))
	for i, v := range q.Videos {
		current := ""
		if q.CurrentIndex != nil && *q.CurrentIndex == i {
			current = "->"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			v.Title,
			formatDuration(v.Duration),
			current,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignLeft})
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// waitFor dispatches trigger (if non-nil) then polls store until pred holds
// or ctx is cancelled. arcflowctl is a one-shot CLI, not a daemon, so
// polling the store's own snapshot is preferable to wiring a one-off
// listener that would need explicit Off bookkeeping.
func waitFor(ctx context.Context, store *core.Store, pred func(core.State) bool, trigger func()) error {
	if trigger != nil {
		trigger()
	}
	if pred(store.State()) {
		return nil
	}
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if pred(store.State()) {
				return nil
			}
		}
	}
}
