package core

// QueueSnapshot is an immutable capture of queue state sufficient to
// restore it, including per-item positions (spec §3, §9 "Mutation of
// VideoItem.position"). It owns its captured Videos sequence.
type QueueSnapshot struct {
	SelectedPlaylistID PlaylistID
	Videos             []VideoItem
	CurrentIndex       *int
	CurrentItemID      *VideoID
	RepeatMode         RepeatMode
	ShuffleEnabled     bool
	ShuffleOrder       []VideoID
	ShuffleSeed        int64
	PlaybackHistory    []VideoID
}

// captureQueueSnapshot captures the queue fields QueueSnapshot owns,
// without copying Past/Future (the undo/redo stacks never recurse into
// themselves).
func captureQueueSnapshot(q QueueState) QueueSnapshot {
	var currentIndex *int
	if q.CurrentIndex != nil {
		idx := *q.CurrentIndex
		currentIndex = &idx
	}
	var currentItemID *VideoID
	if q.CurrentItemID != nil {
		id := *q.CurrentItemID
		currentItemID = &id
	}
	return QueueSnapshot{
		SelectedPlaylistID: q.SelectedPlaylistID,
		Videos:             cloneVideos(q.Videos),
		CurrentIndex:       currentIndex,
		CurrentItemID:       currentItemID,
		RepeatMode:         q.RepeatMode,
		ShuffleEnabled:     q.ShuffleEnabled,
		ShuffleOrder:       append([]VideoID{}, q.ShuffleOrder...),
		ShuffleSeed:        q.ShuffleSeed,
		PlaybackHistory:    append([]VideoID{}, q.PlaybackHistory...),
	}
}

// restoreQueueFromSnapshot rebuilds a QueueState from s, keeping the
// Past/Future stacks the caller supplies separately (they are not part
// of the snapshot).
func restoreQueueFromSnapshot(s QueueSnapshot, past, future []QueueSnapshot) QueueState {
	var currentIndex *int
	if s.CurrentIndex != nil {
		idx := *s.CurrentIndex
		currentIndex = &idx
	}
	var currentItemID *VideoID
	if s.CurrentItemID != nil {
		id := *s.CurrentItemID
		currentItemID = &id
	}
	return QueueState{
		SelectedPlaylistID: s.SelectedPlaylistID,
		Videos:             cloneVideos(s.Videos),
		CurrentIndex:       currentIndex,
		CurrentItemID:      currentItemID,
		RepeatMode:         s.RepeatMode,
		ShuffleEnabled:     s.ShuffleEnabled,
		ShuffleOrder:       append([]VideoID{}, s.ShuffleOrder...),
		ShuffleSeed:        s.ShuffleSeed,
		PlaybackHistory:    append([]VideoID{}, s.PlaybackHistory...),
		Past:               past,
		Future:             future,
	}
}

// pushSnapshot appends s to stack, dropping the oldest entry once cap is
// exceeded.
func pushSnapshot(stack []QueueSnapshot, s QueueSnapshot, cap int) []QueueSnapshot {
	out := append(append([]QueueSnapshot{}, stack...), s)
	if len(out) > cap {
		out = out[len(out)-cap:]
	}
	return out
}

// popSnapshot returns stack with its last entry removed, and that entry.
// Called only by a caller that already checked len(stack) > 0.
func popSnapshot(stack []QueueSnapshot) ([]QueueSnapshot, QueueSnapshot) {
	last := stack[len(stack)-1]
	return stack[:len(stack)-1], last
}
