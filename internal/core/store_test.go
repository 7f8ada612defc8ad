package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

type noopDownload struct{}

func (noopDownload) Save(ctx context.Context, fileName, textContent string) error { return nil }

func newTestStore(seed ...Playlist) *Store {
	collab := Collaborators{
		Playlists: NewMemoryService(seed...),
		Player:    LogPlayer{},
		Download:  noopDownload{},
	}
	return NewStore(NewState(), collab, RunEffects)
}

func waitForCondition(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestStoreInitializeLoadsPlaylistsAndSelectsFirst(t *testing.T) {
	playlist := Playlist{ID: "pl-1", Name: "Only playlist", Videos: mkVideos("a", "b")}
	store := newTestStore(playlist)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx)

	store.Dispatch(NewInitializeAction())

	waitForCondition(t, time.Second, func() bool {
		return store.State().Queue.SelectedPlaylistID == "pl-1"
	})

	waitForCondition(t, time.Second, func() bool {
		return len(store.State().Queue.Videos) == 2
	})

	state := store.State()
	if state.Playlists.Kind != PlaylistsLoaded {
		t.Fatalf("Playlists.Kind = %v, want PlaylistsLoaded", state.Playlists.Kind)
	}
}

func TestStoreDispatchAfterDisposeIsDropped(t *testing.T) {
	store := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	go store.Run(ctx)

	store.Dispose()
	cancel()
	<-store.Done()

	store.Dispatch(NewShuffleSetAction(true, nil))

	time.Sleep(10 * time.Millisecond)
	if store.State().Queue.ShuffleEnabled {
		t.Fatalf("dispatch after dispose should be dropped, but state changed")
	}
}

func TestStoreNotifiesListenersInFIFOOrder(t *testing.T) {
	store := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx)

	var mu sync.Mutex
	var seen []RepeatMode

	handle := store.OnStateChanged(func(s State) {
		mu.Lock()
		seen = append(seen, s.Queue.RepeatMode)
		mu.Unlock()
	})
	defer store.Off(handle)

	store.Dispatch(NewRepeatSetAction(RepeatAll))
	store.Dispatch(NewRepeatSetAction(RepeatOne))
	store.Dispatch(NewRepeatSetAction(RepeatOff))

	waitForCondition(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 3
	})

	mu.Lock()
	defer mu.Unlock()
	want := []RepeatMode{RepeatAll, RepeatOne, RepeatOff}
	for i, w := range want {
		if seen[i] != w {
			t.Fatalf("notification order = %v, want %v", seen, want)
		}
	}
}

func TestStoreNotifiesMultipleListenersInRegistrationOrder(t *testing.T) {
	store := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx)

	var mu sync.Mutex
	var order []string

	handleA := store.OnStateChanged(func(s State) {
		mu.Lock()
		order = append(order, "a")
		mu.Unlock()
	})
	defer store.Off(handleA)

	handleB := store.OnStateChanged(func(s State) {
		mu.Lock()
		order = append(order, "b")
		mu.Unlock()
	})
	defer store.Off(handleB)

	handleC := store.OnStateChanged(func(s State) {
		mu.Lock()
		order = append(order, "c")
		mu.Unlock()
	})
	defer store.Off(handleC)

	store.Dispatch(NewRepeatSetAction(RepeatAll))

	waitForCondition(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) >= 3
	})

	mu.Lock()
	defer mu.Unlock()
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("listener invocation order = %v, want %v", order, want)
		}
	}
}

func TestStoreUndoRestoresPriorSelection(t *testing.T) {
	playlist := Playlist{ID: "pl-1", Videos: mkVideos("a", "b", "c")}
	store := newTestStore(playlist)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx)

	store.Dispatch(NewPlaylistLoadedAction(playlist))
	store.Dispatch(NewSelectVideoAction(0, false))
	store.Dispatch(NewSelectVideoAction(2, false))

	waitForCondition(t, time.Second, func() bool {
		idx := store.State().Queue.CurrentIndex
		return idx != nil && *idx == 2
	})

	store.Dispatch(NewUndoRequestedAction())

	waitForCondition(t, time.Second, func() bool {
		idx := store.State().Queue.CurrentIndex
		return idx != nil && *idx == 0
	})
}

func TestStoreOnVideoEndedDispatchesNextRequested(t *testing.T) {
	playlist := Playlist{ID: "pl-1", Videos: mkVideos("a", "b")}
	store := newTestStore(playlist)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx)

	store.Dispatch(NewPlaylistLoadedAction(playlist))
	store.Dispatch(NewSelectVideoAction(0, false))

	waitForCondition(t, time.Second, func() bool {
		id := store.State().Queue.CurrentItemID
		return id != nil && *id == "a"
	})

	store.OnVideoEnded()

	waitForCondition(t, time.Second, func() bool {
		id := store.State().Queue.CurrentItemID
		return id != nil && *id == "b"
	})
}
