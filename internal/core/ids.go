package core

import "github.com/google/uuid"

// PlaylistID identifies a Playlist. It survives reorderings and renames.
type PlaylistID string

// VideoID identifies a VideoItem. It is the stable identity navigation
// and history operate on; positions may change underneath it.
type VideoID string

// CorrelationID ties a Notification or OperationError back to the action
// that produced it.
type CorrelationID string

// NewPlaylistID generates a fresh, universally unique playlist identity.
func NewPlaylistID() PlaylistID {
	return PlaylistID(uuid.NewString())
}

// NewVideoID generates a fresh, universally unique video identity.
func NewVideoID() VideoID {
	return VideoID(uuid.NewString())
}

// NewCorrelationID generates a fresh correlation identity for an action
// or notification.
func NewCorrelationID() CorrelationID {
	return CorrelationID(uuid.NewString())
}
