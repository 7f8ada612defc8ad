package core

import "testing"

func TestCaptureAndRestoreQueueSnapshotRoundTrips(t *testing.T) {
	idx := 1
	id := VideoID("b")
	seed := int64(5)
	original := QueueState{
		SelectedPlaylistID: "pl-1",
		Videos:             mkVideos("a", "b", "c"),
		CurrentIndex:       &idx,
		CurrentItemID:      &id,
		RepeatMode:         RepeatAll,
		ShuffleEnabled:     true,
		ShuffleOrder:       []VideoID{"b", "a", "c"},
		ShuffleSeed:        seed,
		PlaybackHistory:    []VideoID{"a"},
	}

	snap := captureQueueSnapshot(original)
	restored := restoreQueueFromSnapshot(snap, nil, nil)

	if restored.SelectedPlaylistID != original.SelectedPlaylistID {
		t.Errorf("SelectedPlaylistID = %v, want %v", restored.SelectedPlaylistID, original.SelectedPlaylistID)
	}
	if len(restored.Videos) != len(original.Videos) {
		t.Fatalf("Videos length = %d, want %d", len(restored.Videos), len(original.Videos))
	}
	if *restored.CurrentIndex != *original.CurrentIndex {
		t.Errorf("CurrentIndex = %d, want %d", *restored.CurrentIndex, *original.CurrentIndex)
	}
	if *restored.CurrentItemID != *original.CurrentItemID {
		t.Errorf("CurrentItemID = %v, want %v", *restored.CurrentItemID, *original.CurrentItemID)
	}
	if restored.ShuffleEnabled != original.ShuffleEnabled {
		t.Errorf("ShuffleEnabled = %v, want %v", restored.ShuffleEnabled, original.ShuffleEnabled)
	}
}

func TestCaptureQueueSnapshotDoesNotAliasVideos(t *testing.T) {
	original := QueueState{Videos: mkVideos("a", "b")}
	snap := captureQueueSnapshot(original)

	snap.Videos[0].Title = "mutated"
	if original.Videos[0].Title == "mutated" {
		t.Fatalf("mutating snapshot videos leaked into original queue")
	}
}

func TestPushSnapshotEnforcesCap(t *testing.T) {
	var stack []QueueSnapshot
	for i := 0; i < 5; i++ {
		stack = pushSnapshot(stack, QueueSnapshot{SelectedPlaylistID: PlaylistID(string(rune('a' + i)))}, 3)
	}
	if len(stack) != 3 {
		t.Fatalf("len(stack) = %d, want 3", len(stack))
	}
	if stack[len(stack)-1].SelectedPlaylistID != "e" {
		t.Fatalf("most recent entry = %v, want e", stack[len(stack)-1].SelectedPlaylistID)
	}
}

func TestPopSnapshotReturnsLastEntry(t *testing.T) {
	stack := []QueueSnapshot{
		{SelectedPlaylistID: "a"},
		{SelectedPlaylistID: "b"},
	}
	rest, popped := popSnapshot(stack)
	if popped.SelectedPlaylistID != "b" {
		t.Fatalf("popped = %v, want b", popped.SelectedPlaylistID)
	}
	if len(rest) != 1 || rest[0].SelectedPlaylistID != "a" {
		t.Fatalf("rest = %v, want [a]", rest)
	}
}
