package core

import "math/rand"

// PlaybackDecisionKind is the closed union tag for the result of
// computeNext/computePrev.
type PlaybackDecisionKind int

const (
	DecisionAdvanceTo PlaybackDecisionKind = iota
	DecisionStop
	DecisionNoOp
)

// PlaybackDecision is Stop | NoOp | AdvanceTo(videoID).
type PlaybackDecision struct {
	Kind    PlaybackDecisionKind
	VideoID VideoID // valid when Kind == DecisionAdvanceTo
}

// generateShuffleOrder produces a Fisher-Yates permutation of videos'
// identities, deterministic on (identities, currentItemID, seed). If
// currentItemID is present in the permutation at index > 0, it is moved
// to index 0.
func generateShuffleOrder(videos []VideoItem, currentItemID *VideoID, seed int64) []VideoID {
	ids := videoIDs(videos)
	if len(ids) == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}

	if currentItemID != nil {
		idx := -1
		for i, id := range ids {
			if id == *currentItemID {
				idx = i
				break
			}
		}
		if idx > 0 {
			ids = append(ids[:idx], ids[idx+1:]...)
			ids = append([]VideoID{*currentItemID}, ids...)
		}
	}

	return ids
}

// pushHistory appends id to history, dropping the oldest entry once cap
// is exceeded.
func pushHistory(history []VideoID, id VideoID, cap int) []VideoID {
	out := append(append([]VideoID{}, history...), id)
	if len(out) > cap {
		out = out[len(out)-cap:]
	}
	return out
}

// popHistory returns the history with its last entry removed, and that
// entry. Called on an empty history only by a caller that already
// checked len(history) > 0.
func popHistory(history []VideoID) ([]VideoID, VideoID) {
	last := history[len(history)-1]
	return history[:len(history)-1], last
}

// computeNext implements spec §4.1's computeNext(queue).
func computeNext(queue QueueState) (PlaybackDecision, QueueState) {
	if len(queue.Videos) == 0 || queue.CurrentItemID == nil {
		return PlaybackDecision{Kind: DecisionStop}, queue
	}

	current := *queue.CurrentItemID

	if queue.RepeatMode == RepeatOne {
		return PlaybackDecision{Kind: DecisionAdvanceTo, VideoID: current}, queue
	}

	var order []VideoID
	if queue.ShuffleEnabled && len(queue.ShuffleOrder) > 0 {
		order = queue.ShuffleOrder
	} else {
		order = videoIDs(queue.Videos)
	}

	idx := -1
	for i, id := range order {
		if id == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return PlaybackDecision{Kind: DecisionStop}, queue
	}

	var candidate VideoID
	found := false
	if idx+1 < len(order) {
		candidate = order[idx+1]
		found = true
	} else if queue.RepeatMode == RepeatAll && len(order) > 0 {
		candidate = order[0]
		found = true
	}

	if !found {
		return PlaybackDecision{Kind: DecisionStop}, queue
	}

	queue.PlaybackHistory = pushHistory(queue.PlaybackHistory, current, playbackHistoryCap)
	return PlaybackDecision{Kind: DecisionAdvanceTo, VideoID: candidate}, queue
}

// computePrev implements spec §4.1's computePrev(queue).
func computePrev(queue QueueState) (PlaybackDecision, QueueState) {
	if len(queue.Videos) == 0 || queue.CurrentItemID == nil {
		return PlaybackDecision{Kind: DecisionNoOp}, queue
	}

	if queue.ShuffleEnabled {
		if len(queue.PlaybackHistory) == 0 {
			return PlaybackDecision{Kind: DecisionNoOp}, queue
		}
		rest, p := popHistory(queue.PlaybackHistory)
		queue.PlaybackHistory = rest
		return PlaybackDecision{Kind: DecisionAdvanceTo, VideoID: p}, queue
	}

	idx := indexOfVideo(queue.Videos, *queue.CurrentItemID)
	if idx <= 0 {
		return PlaybackDecision{Kind: DecisionNoOp}, queue
	}
	return PlaybackDecision{Kind: DecisionAdvanceTo, VideoID: queue.Videos[idx-1].ID}, queue
}

// repairPlaybackStructures implements spec §4.1's repairPlaybackStructures.
// It is idempotent: calling it twice in a row yields the same result as
// calling it once.
func repairPlaybackStructures(queue QueueState) QueueState {
	videoSet := make(map[VideoID]bool, len(queue.Videos))
	for _, v := range queue.Videos {
		videoSet[v.ID] = true
	}

	filterKnown := func(ids []VideoID) []VideoID {
		if len(ids) == 0 {
			return ids
		}
		out := make([]VideoID, 0, len(ids))
		for _, id := range ids {
			if videoSet[id] {
				out = append(out, id)
			}
		}
		return out
	}

	queue.ShuffleOrder = filterKnown(queue.ShuffleOrder)
	queue.PlaybackHistory = filterKnown(queue.PlaybackHistory)

	if queue.ShuffleEnabled && len(queue.ShuffleOrder) > 0 {
		present := make(map[VideoID]bool, len(queue.ShuffleOrder))
		for _, id := range queue.ShuffleOrder {
			present[id] = true
		}
		for _, v := range queue.Videos {
			if !present[v.ID] {
				queue.ShuffleOrder = append(queue.ShuffleOrder, v.ID)
				present[v.ID] = true
			}
		}
	}

	if len(queue.PlaybackHistory) > playbackHistoryCap {
		queue.PlaybackHistory = queue.PlaybackHistory[len(queue.PlaybackHistory)-playbackHistoryCap:]
	}

	if queue.CurrentItemID != nil && !videoSet[*queue.CurrentItemID] {
		queue.CurrentItemID = nil
		queue.CurrentIndex = nil
	}

	if queue.CurrentItemID != nil {
		idx := indexOfVideo(queue.Videos, *queue.CurrentItemID)
		if idx < 0 {
			queue.CurrentItemID = nil
			queue.CurrentIndex = nil
		} else {
			queue.CurrentIndex = &idx
		}
	}

	return queue
}
