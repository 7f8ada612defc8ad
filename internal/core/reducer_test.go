package core

import "testing"

func loadedState(videos []VideoItem) State {
	state := NewState()
	state.Queue.SelectedPlaylistID = "pl-1"
	state.Queue.Videos = videos
	return state
}

func TestReduceSelectVideoPushesUndoEntry(t *testing.T) {
	state := loadedState(mkVideos("a", "b", "c"))

	state = reduce(state, NewSelectVideoAction(0, false))
	if len(state.Queue.Past) != 1 {
		t.Fatalf("first selection should push an undo entry capturing the unselected state, Past = %v", state.Queue.Past)
	}

	state = reduce(state, NewSelectVideoAction(1, false))
	if len(state.Queue.Past) != 2 {
		t.Fatalf("len(Past) = %d, want 2", len(state.Queue.Past))
	}
	if state.Queue.CurrentIndex == nil || *state.Queue.CurrentIndex != 1 {
		t.Fatalf("CurrentIndex = %v, want 1", state.Queue.CurrentIndex)
	}
}

func TestReduceUndoRestoresPreviousSelection(t *testing.T) {
	state := loadedState(mkVideos("a", "b", "c"))
	state = reduce(state, NewSelectVideoAction(0, false))
	state = reduce(state, NewSelectVideoAction(2, false))

	state = reduce(state, NewUndoRequestedAction())

	if state.Queue.CurrentIndex == nil || *state.Queue.CurrentIndex != 0 {
		t.Fatalf("after undo CurrentIndex = %v, want 0", state.Queue.CurrentIndex)
	}
	if len(state.Queue.Future) != 1 {
		t.Fatalf("len(Future) = %d, want 1", len(state.Queue.Future))
	}
}

func TestReduceRedoReappliesUndoneChange(t *testing.T) {
	state := loadedState(mkVideos("a", "b", "c"))
	state = reduce(state, NewSelectVideoAction(0, false))
	state = reduce(state, NewSelectVideoAction(2, false))
	state = reduce(state, NewUndoRequestedAction())

	state = reduce(state, NewRedoRequestedAction())

	if state.Queue.CurrentIndex == nil || *state.Queue.CurrentIndex != 2 {
		t.Fatalf("after redo CurrentIndex = %v, want 2", state.Queue.CurrentIndex)
	}
	if len(state.Queue.Future) != 0 {
		t.Fatalf("len(Future) = %d, want 0", len(state.Queue.Future))
	}
}

func TestReduceUndoOnEmptyStackIsNoOp(t *testing.T) {
	state := loadedState(mkVideos("a", "b"))
	before := state
	state = reduce(state, NewUndoRequestedAction())
	if len(state.Queue.Past) != len(before.Queue.Past) {
		t.Fatalf("undo with empty Past mutated state")
	}
}

func TestReduceNewActionAfterUndoClearsFuture(t *testing.T) {
	state := loadedState(mkVideos("a", "b", "c"))
	state = reduce(state, NewSelectVideoAction(0, false))
	state = reduce(state, NewSelectVideoAction(2, false))
	state = reduce(state, NewUndoRequestedAction())
	if len(state.Queue.Future) == 0 {
		t.Fatalf("expected non-empty Future after undo")
	}

	state = reduce(state, NewSelectVideoAction(1, false))
	if len(state.Queue.Future) != 0 {
		t.Fatalf("Future not cleared after a fresh undoable action, len = %d", len(state.Queue.Future))
	}
}

func TestReduceBoundaryActionResetsHistory(t *testing.T) {
	state := loadedState(mkVideos("a", "b", "c"))
	state = reduce(state, NewSelectVideoAction(0, false))
	state = reduce(state, NewSelectVideoAction(2, false))
	if len(state.Queue.Past) == 0 {
		t.Fatalf("expected non-empty Past before boundary action")
	}

	state = reduce(state, NewSelectPlaylistAction("pl-2"))

	if len(state.Queue.Past) != 0 || len(state.Queue.Future) != 0 {
		t.Fatalf("boundary action should clear Past/Future, got Past=%v Future=%v", state.Queue.Past, state.Queue.Future)
	}
}

func TestReducePlaybackTransientDoesNotTouchHistory(t *testing.T) {
	state := loadedState(mkVideos("a", "b", "c"))
	state = reduce(state, NewSelectVideoAction(0, false))
	state = reduce(state, NewSelectVideoAction(2, false))
	pastBefore := len(state.Queue.Past)

	state = reduce(state, NewShuffleSetAction(true, nil))

	if len(state.Queue.Past) != pastBefore {
		t.Fatalf("playback-transient action changed Past length: %d vs %d", len(state.Queue.Past), pastBefore)
	}
}

func TestReduceSortChangedRemapsCurrentIndex(t *testing.T) {
	state := loadedState(mkVideos("a", "b", "c"))
	state = reduce(state, NewSelectVideoAction(1, false))

	state = reduce(state, NewSortChangedAction(0, 2))

	if state.Queue.CurrentIndex == nil {
		t.Fatalf("CurrentIndex is nil after sort")
	}
	if *state.Queue.CurrentIndex != 0 {
		t.Fatalf("CurrentIndex after moving item 0 past current = %d, want 0", *state.Queue.CurrentIndex)
	}
	if state.Queue.CurrentItemID == nil || *state.Queue.CurrentItemID != "b" {
		t.Fatalf("CurrentItemID changed identity across a sort, got %v", state.Queue.CurrentItemID)
	}
}

func TestReduceValidateQueueClearsStaleCurrentIndex(t *testing.T) {
	state := loadedState(mkVideos("a", "b", "c"))
	state = reduce(state, NewSelectVideoAction(2, false))

	state = reduce(state, NewPlaylistLoadedAction(Playlist{ID: "pl-1", Videos: mkVideos("x", "y")}))

	if state.Queue.CurrentIndex != nil {
		t.Fatalf("CurrentIndex survived a PlaylistLoaded that dropped the selected video: %v", state.Queue.CurrentIndex)
	}
	if state.Queue.CurrentItemID != nil {
		t.Fatalf("CurrentItemID survived a PlaylistLoaded that dropped the selected video: %v", state.Queue.CurrentItemID)
	}
}

func TestReduceImportAppliedResetsQueueAndMarksDirty(t *testing.T) {
	state := loadedState(mkVideos("a", "b"))
	state = reduce(state, NewSelectVideoAction(0, false))

	imported := []Playlist{{ID: "pl-imported", Name: "Imported", Videos: mkVideos("z")}}
	selected := PlaylistID("pl-imported")

	state = reduce(state, NewImportAppliedAction(imported, &selected))

	if state.Queue.SelectedPlaylistID != "pl-imported" {
		t.Fatalf("SelectedPlaylistID = %v, want pl-imported", state.Queue.SelectedPlaylistID)
	}
	if len(state.Queue.Videos) != 0 {
		t.Fatalf("Queue.Videos should start empty after ImportApplied, got %v", state.Queue.Videos)
	}
	if !state.Persistence.IsDirty {
		t.Fatalf("Persistence.IsDirty should be true after ImportApplied")
	}
	if state.Playlists.Kind != PlaylistsLoaded || len(state.Playlists.Playlists) != 1 {
		t.Fatalf("Playlists state not updated from ImportApplied: %+v", state.Playlists)
	}
}

func TestReduceNextRequestedAdvancesToNextVideoAndLoadsPlayer(t *testing.T) {
	state := loadedState(mkVideos("a", "b", "c"))
	state = reduce(state, NewSelectVideoAction(0, false))
	state = reduce(state, NewPlayerStateChangedAction(1, "a"))

	state = reduce(state, NewNextRequestedAction())

	if state.Queue.CurrentItemID == nil || *state.Queue.CurrentItemID != "b" {
		t.Fatalf("CurrentItemID after NextRequested = %v, want b", state.Queue.CurrentItemID)
	}
	if state.Player.Kind != PlayerLoading || state.Player.VideoID != "b" {
		t.Fatalf("Player after NextRequested = %+v, want Loading(b)", state.Player)
	}
}

func TestReduceDismissNotificationRemovesOnlyMatchingEntry(t *testing.T) {
	state := NewState()
	state, _ = appendNotification(state, Notification{CorrelationID: "1", Message: "one"})
	state, _ = appendNotification(state, Notification{CorrelationID: "2", Message: "two"})

	state = reduce(state, NewDismissNotificationAction("1"))

	if len(state.Notifications) != 1 || state.Notifications[0].CorrelationID != "2" {
		t.Fatalf("Notifications = %+v, want only correlation 2", state.Notifications)
	}
}
