package core

import (
	"context"
	"testing"
)

func TestEffectAddVideoExtractsYouTubeIDFromURL(t *testing.T) {
	playlist := Playlist{ID: "pl-1", Name: "Mix"}
	collab := Collaborators{
		Playlists: NewMemoryService(playlist),
		Player:    LogPlayer{},
		Download:  noopDownload{},
	}

	var dispatched []Action
	dispatch := func(a Action) { dispatched = append(dispatched, a) }

	action := NewAddVideoAction(playlist.ID, VideoItem{Title: "Song"}, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err := RunEffects(context.Background(), action, func() State { return NewState() }, dispatch, collab); err != nil {
		t.Fatalf("RunEffects: %v", err)
	}

	stored, err := collab.Playlists.GetByID(context.Background(), playlist.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Videos) != 1 {
		t.Fatalf("len(Videos) = %d, want 1", len(stored.Videos))
	}
	if stored.Videos[0].YoutubeID != "dQw4w9WgXcQ" {
		t.Fatalf("YoutubeID = %q, want %q", stored.Videos[0].YoutubeID, "dQw4w9WgXcQ")
	}

	for _, a := range dispatched {
		if a.Kind == ActionOperationFailed {
			t.Fatalf("unexpected OperationFailed: %+v", a.OperationErr)
		}
	}
}

func TestEffectAddVideoRejectsURLWithNoExtractableID(t *testing.T) {
	playlist := Playlist{ID: "pl-1", Name: "Mix"}
	collab := Collaborators{
		Playlists: NewMemoryService(playlist),
		Player:    LogPlayer{},
		Download:  noopDownload{},
	}

	var dispatched []Action
	dispatch := func(a Action) { dispatched = append(dispatched, a) }

	action := NewAddVideoAction(playlist.ID, VideoItem{Title: "Song"}, "https://example.com/not-a-video")
	if err := RunEffects(context.Background(), action, func() State { return NewState() }, dispatch, collab); err != nil {
		t.Fatalf("RunEffects: %v", err)
	}

	if len(dispatched) != 1 || dispatched[0].Kind != ActionOperationFailed {
		t.Fatalf("dispatched = %+v, want a single OperationFailed action", dispatched)
	}
	if dispatched[0].OperationErr.Category != CategoryValidation {
		t.Fatalf("Category = %v, want CategoryValidation", dispatched[0].OperationErr.Category)
	}

	stored, err := collab.Playlists.GetByID(context.Background(), playlist.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(stored.Videos) != 0 {
		t.Fatalf("len(Videos) = %d, want 0 (no video should have been added)", len(stored.Videos))
	}
}
