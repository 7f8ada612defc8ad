package core

// reduce is the pure (State, Action) -> State transition at the heart of
// the store. It never performs I/O, and panics only on an action kind
// outside the closed ActionKind union, which a correctly constructed
// Action can never produce.
func reduce(state State, action Action) State {
	if action.Kind == ActionUndoRequested {
		return applyUndo(state)
	}
	if action.Kind == ActionRedoRequested {
		return applyRedo(state)
	}

	oldQueue := state.Queue
	pre := captureQueueSnapshot(oldQueue)

	next, videosChanged := dispatchHandler(state, action)

	class := classifyAction(action.Kind)
	switch class {
	case ClassPlaybackTransient:
		next.Queue.Past = oldQueue.Past
		next.Queue.Future = oldQueue.Future
	case ClassBoundary:
		next.Queue.Past = nil
		next.Queue.Future = nil
	case ClassUndoable:
		if queueDataChanged(pre, oldQueue, next.Queue, videosChanged) {
			next.Queue.Past = pushSnapshot(oldQueue.Past, pre, undoHistoryCap)
			next.Queue.Future = nil
		} else {
			next.Queue.Past = oldQueue.Past
			next.Queue.Future = oldQueue.Future
		}
	case ClassNeutral:
		next.Queue.Past = oldQueue.Past
		next.Queue.Future = oldQueue.Future
	}

	if videosChanged {
		next.Queue = repairPlaybackStructures(next.Queue)
	}

	next.Queue = validateQueue(next.Queue)

	return next
}

// queueDataChanged reports whether the queue's undo-relevant fields
// (selectedPlaylistId, currentIndex, or the videos slice itself) differ
// between the pre-action snapshot and the post-handler queue.
func queueDataChanged(pre QueueSnapshot, oldQueue, newQueue QueueState, videosChanged bool) bool {
	if videosChanged {
		return true
	}
	if pre.SelectedPlaylistID != newQueue.SelectedPlaylistID {
		return true
	}
	return !intPtrEqual(oldQueue.CurrentIndex, newQueue.CurrentIndex)
}

func intPtrEqual(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// applyUndo implements spec §4.3 step 1.
func applyUndo(state State) State {
	if len(state.Queue.Past) == 0 {
		return state
	}
	past, s := popSnapshot(state.Queue.Past)
	current := captureQueueSnapshot(state.Queue)
	future := pushSnapshot(state.Queue.Future, current, undoHistoryCap)
	state.Queue = restoreQueueFromSnapshot(s, past, future)
	state.Queue = validateQueue(state.Queue)
	return state
}

// applyRedo implements spec §4.3 step 2, symmetric on future.
func applyRedo(state State) State {
	if len(state.Queue.Future) == 0 {
		return state
	}
	future, s := popSnapshot(state.Queue.Future)
	current := captureQueueSnapshot(state.Queue)
	past := pushSnapshot(state.Queue.Past, current, undoHistoryCap)
	state.Queue = restoreQueueFromSnapshot(s, past, future)
	state.Queue = validateQueue(state.Queue)
	return state
}

// validateQueue implements spec §4.3 step 5.
func validateQueue(q QueueState) QueueState {
	if q.CurrentIndex != nil {
		if *q.CurrentIndex < 0 || *q.CurrentIndex >= len(q.Videos) {
			q.CurrentIndex = nil
		}
	}
	if q.CurrentItemID != nil && !containsVideoID(q.Videos, *q.CurrentItemID) {
		q.CurrentItemID = nil
	}
	return q
}
