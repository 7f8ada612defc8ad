package core

import (
	"sort"
	"time"
)

// dispatchHandler routes action to its per-action handler (spec §4.3
// "Per-action handlers"). The returned bool reports whether the handler
// replaced Queue.Videos with a different sequence, which governs both
// the Undoable-change check and whether repairPlaybackStructures runs.
func dispatchHandler(state State, action Action) (State, bool) {
	switch action.Kind {
	case ActionInitialize:
		return handleInitialize(state), false
	case ActionSelectPlaylist:
		return handleSelectPlaylist(state, action)
	case ActionPlaylistsLoaded:
		return handlePlaylistsLoaded(state, action), false
	case ActionPlaylistLoaded:
		return handlePlaylistLoaded(state, action), true
	case ActionSelectVideo:
		return handleSelectVideo(state, action)
	case ActionSortChanged:
		return handleSortChanged(state, action)
	case ActionPlayerStateChanged:
		return handlePlayerStateChanged(state, action), false
	case ActionVideoEnded:
		return state, false
	case ActionShuffleSet:
		return handleShuffleSet(state, action), false
	case ActionRepeatSet:
		state.Queue.RepeatMode = action.RepeatMode
		return state, false
	case ActionNextRequested:
		return handleNextRequested(state), false
	case ActionPrevRequested:
		return handlePrevRequested(state), false
	case ActionPlaybackAdvanced:
		return handlePlaybackAdvanced(state, action), false
	case ActionPlaybackStopped:
		return handlePlaybackStopped(state), false
	case ActionOperationFailed:
		return handleOperationFailed(state, action), false
	case ActionShowNotification:
		return appendNotification(state, action.Notification)
	case ActionDismissNotification:
		return handleDismissNotification(state, action), false
	case ActionExportRequested:
		state.ImportExport = ImportExportState{Kind: IEExportInProgress}
		return state, false
	case ActionExportPrepared:
		state.ImportExport = ImportExportState{Kind: IEExportInProgress}
		return state, false
	case ActionExportSucceeded:
		state.ImportExport = ImportExportState{Kind: IEExportSucceeded, ExportedAtUTC: action.ExportedAtUTC}
		return state, false
	case ActionExportFailed:
		state.ImportExport = ImportExportState{Kind: IEExportFailed, ExportErr: action.ExportErr}
		return state, false
	case ActionImportRequested:
		state.ImportExport = ImportExportState{Kind: IEImportParsing}
		return state, false
	case ActionImportParsed:
		state.ImportExport = ImportExportState{Kind: IEImportParsed, Envelope: action.Envelope}
		return state, false
	case ActionImportValidated:
		state.ImportExport = ImportExportState{Kind: IEImportValidated, Envelope: action.Envelope}
		return state, false
	case ActionImportApplied:
		return handleImportApplied(state, action)
	case ActionImportSucceeded:
		state.ImportExport = ImportExportState{
			Kind:          IEImportSucceeded,
			PlaylistCount: action.PlaylistCount,
			VideoCount:    action.VideoCount,
		}
		return state, false
	case ActionImportFailed:
		state.ImportExport = ImportExportState{Kind: IEImportFailed, ImportErr: action.ImportErr}
		return state, false
	case ActionPersistRequested:
		return state, false
	case ActionPersistSucceeded:
		state.Persistence = PersistenceState{
			IsDirty:               false,
			LastPersistAttemptUTC: time.Now().UTC(),
			LastPersistError:      "",
		}
		return state, false
	case ActionPersistFailed:
		state.Persistence.IsDirty = true
		state.Persistence.LastPersistAttemptUTC = time.Now().UTC()
		state.Persistence.LastPersistError = action.PersistMessage
		return state, false
	case ActionCreatePlaylist:
		return state, false
	case ActionAddVideo:
		return state, false
	default:
		panic("core: unreachable action kind in reducer")
	}
}

func handleInitialize(state State) State {
	state.Playlists = PlaylistsState{Kind: PlaylistsLoading}
	return state
}

func handleSelectPlaylist(state State, action Action) (State, bool) {
	if state.Queue.SelectedPlaylistID == action.PlaylistID {
		return state, false
	}
	state.Queue.SelectedPlaylistID = action.PlaylistID
	state.Queue.Videos = nil
	state.Queue.CurrentIndex = nil
	state.Queue.CurrentItemID = nil
	state.Queue.ShuffleOrder = nil
	state.Queue.PlaybackHistory = nil
	state.Player = PlayerState{Kind: PlayerEmpty}
	return state, true
}

func handlePlaylistsLoaded(state State, action Action) State {
	if len(action.Playlists) == 0 {
		state.Playlists = PlaylistsState{Kind: PlaylistsEmpty}
	} else {
		state.Playlists = PlaylistsState{Kind: PlaylistsLoaded, Playlists: action.Playlists}
	}
	return state
}

func handlePlaylistLoaded(state State, action Action) State {
	videos := cloneVideos(action.Playlist.Videos)
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].Position < videos[j].Position })

	state.Queue.SelectedPlaylistID = action.Playlist.ID
	state.Queue.Videos = videos
	state.Queue.CurrentIndex = nil
	state.Queue.CurrentItemID = nil
	state.Queue.ShuffleOrder = nil
	state.Queue.PlaybackHistory = nil
	return state
}

func handleSelectVideo(state State, action Action) (State, bool) {
	videos := state.Queue.Videos
	if action.Index < 0 || action.Index >= len(videos) {
		return state, false
	}
	target := videos[action.Index]
	if state.Queue.CurrentItemID != nil && *state.Queue.CurrentItemID == target.ID {
		return state, false
	}

	if state.Queue.ShuffleEnabled && state.Queue.CurrentItemID != nil {
		state.Queue.PlaybackHistory = pushHistory(state.Queue.PlaybackHistory, *state.Queue.CurrentItemID, playbackHistoryCap)
	}

	idx := action.Index
	id := target.ID
	state.Queue.CurrentIndex = &idx
	state.Queue.CurrentItemID = &id
	state.Player = PlayerState{Kind: PlayerLoading, VideoID: id, YoutubeID: target.YoutubeID, Autoplay: action.Autoplay}
	return state, false
}

// mapSortedIndex implements the SortChanged current-index remapping
// rule from spec §4.3.
func mapSortedIndex(current, oldIdx, newIdx int) int {
	switch {
	case current == oldIdx:
		return newIdx
	case oldIdx < current && current <= newIdx:
		return current - 1
	case newIdx <= current && current < oldIdx:
		return current + 1
	default:
		return current
	}
}

func handleSortChanged(state State, action Action) (State, bool) {
	videos := state.Queue.Videos
	oldIdx, newIdx := action.OldIndex, action.NewIndex
	if oldIdx < 0 || oldIdx >= len(videos) || newIdx < 0 || newIdx >= len(videos) || oldIdx == newIdx {
		return state, false
	}

	moved := make([]VideoItem, len(videos))
	copy(moved, videos)
	item := moved[oldIdx]
	moved = append(moved[:oldIdx], moved[oldIdx+1:]...)
	moved = append(moved[:newIdx], append([]VideoItem{item}, moved[newIdx:]...)...)

	for i := range moved {
		moved[i].Position = i
	}

	if state.Queue.CurrentIndex != nil {
		mapped := mapSortedIndex(*state.Queue.CurrentIndex, oldIdx, newIdx)
		state.Queue.CurrentIndex = &mapped
	}

	state.Queue.Videos = moved
	return state, true
}

// mapYoutubeStateCode implements the raw-code mapping from spec §4.3,
// keeping both the code-0 (ENDED) and code-5 (CUED) open question
// decisions from spec §9: both map to Paused.
func mapYoutubeStateCode(code int) (PlayerKind, bool) {
	switch code {
	case 3:
		return PlayerBuffering, true
	case 1:
		return PlayerPlaying, true
	case 2, 5, 0:
		return PlayerPaused, true
	default:
		return PlayerEmpty, false
	}
}

func handlePlayerStateChanged(state State, action Action) State {
	kind, ok := mapYoutubeStateCode(action.YoutubeStateCode)
	if !ok {
		return state
	}

	accepted := state.Player.Kind == PlayerLoading || state.Player.VideoID == action.VideoID
	if !accepted {
		return state
	}

	state.Player = PlayerState{Kind: kind, VideoID: action.VideoID}
	return state
}

func handleShuffleSet(state State, action Action) State {
	if action.ShuffleEnabled {
		seed := time.Now().UnixNano()
		if action.ShuffleSeed != nil {
			seed = *action.ShuffleSeed
		}
		state.Queue.ShuffleEnabled = true
		state.Queue.ShuffleSeed = seed
		state.Queue.ShuffleOrder = generateShuffleOrder(state.Queue.Videos, state.Queue.CurrentItemID, seed)
		state.Queue.PlaybackHistory = nil
	} else {
		state.Queue.ShuffleEnabled = false
		state.Queue.ShuffleOrder = nil
		state.Queue.PlaybackHistory = nil
	}
	return state
}

func applyAdvanceTo(state State, queue QueueState, videoID VideoID) State {
	idx := indexOfVideo(queue.Videos, videoID)
	state.Queue = queue
	if idx < 0 {
		return state
	}
	i := idx
	state.Queue.CurrentIndex = &i
	state.Queue.CurrentItemID = &videoID
	state.Player = PlayerState{Kind: PlayerLoading, VideoID: videoID, YoutubeID: queue.Videos[idx].YoutubeID, Autoplay: true}
	return state
}

func applyStop(state State, queue QueueState) State {
	state.Queue = queue
	if queue.CurrentItemID != nil {
		idx := indexOfVideo(queue.Videos, *queue.CurrentItemID)
		if idx >= 0 {
			state.Player = PlayerState{Kind: PlayerPaused, VideoID: *queue.CurrentItemID}
			return state
		}
	}
	state.Player = PlayerState{Kind: PlayerEmpty}
	return state
}

func handleNextRequested(state State) State {
	decision, queue := computeNext(state.Queue)
	switch decision.Kind {
	case DecisionAdvanceTo:
		return applyAdvanceTo(state, queue, decision.VideoID)
	case DecisionStop:
		return applyStop(state, queue)
	default:
		state.Queue = queue
		return state
	}
}

func handlePrevRequested(state State) State {
	decision, queue := computePrev(state.Queue)
	switch decision.Kind {
	case DecisionAdvanceTo:
		return applyAdvanceTo(state, queue, decision.VideoID)
	case DecisionStop:
		return applyStop(state, queue)
	default:
		state.Queue = queue
		return state
	}
}

func handlePlaybackAdvanced(state State, action Action) State {
	return applyAdvanceTo(state, state.Queue, action.VideoID)
}

func handlePlaybackStopped(state State) State {
	return applyStop(state, state.Queue)
}

func handleOperationFailed(state State, action Action) State {
	err := action.OperationErr
	if err == nil {
		return state
	}
	n := Notification{
		Severity:      err.Category.Severity(),
		Message:       err.Message,
		CorrelationID: err.Context.CorrelationID,
		Timestamp:     time.Now().UTC(),
		Dismissible:   true,
	}
	st, _ := appendNotification(state, n)
	return st
}

func appendNotification(state State, n Notification) (State, bool) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	if n.CorrelationID == "" {
		n.CorrelationID = NewCorrelationID()
	}
	state.Notifications = append(append([]Notification{}, state.Notifications...), n)
	return state, false
}

func handleDismissNotification(state State, action Action) State {
	out := make([]Notification, 0, len(state.Notifications))
	for _, n := range state.Notifications {
		if n.CorrelationID != action.CorrelationID {
			out = append(out, n)
		}
	}
	state.Notifications = out
	return state
}

func handleImportApplied(state State, action Action) (State, bool) {
	state.Playlists = PlaylistsState{Kind: PlaylistsLoaded, Playlists: action.Playlists}
	if len(action.Playlists) == 0 {
		state.Playlists = PlaylistsState{Kind: PlaylistsEmpty}
	}

	selected := PlaylistID("")
	if action.SelectedPlaylistID != nil {
		selected = *action.SelectedPlaylistID
	}

	state.Queue = QueueState{
		SelectedPlaylistID: selected,
		RepeatMode:         state.Queue.RepeatMode,
	}
	state.Player = PlayerState{Kind: PlayerEmpty}
	state.Persistence.IsDirty = true
	state.ImportExport = ImportExportState{Kind: IEImportApplied}
	return state, true
}
