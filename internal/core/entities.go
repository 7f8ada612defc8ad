package core

import "time"

// Playlist owns its sequence of videos. The back-reference from VideoItem
// to Playlist is a lookup relation, never ownership: Playlist is always
// the one holding the authoritative Videos slice.
type Playlist struct {
	ID          PlaylistID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Videos      []VideoItem

	// IsPublic and EditMode are carried through for interoperability with
	// the playlist-service collaborator; the core neither reads nor
	// enforces them.
	IsPublic bool
	EditMode string // "everyone" | "invited"
}

// VideoItem is a single queue entry. PlaylistID is data, not ownership:
// the owning Playlist is authoritative for order via Position.
type VideoItem struct {
	ID           VideoID
	YoutubeID    string
	Title        string
	ThumbnailURL string
	Duration     time.Duration
	AddedAt      time.Time
	Position     int
	PlaylistID   PlaylistID

	// VoteCount is carried through from the playlist-service collaborator
	// for round-tripping; the reducer never reads or mutates it.
	VoteCount int
}

// cloneVideos returns a shallow copy of a video slice so callers can
// mutate the copy without aliasing the original sequence. VideoItem
// itself is a value type, so a slice copy is a deep-enough copy.
func cloneVideos(videos []VideoItem) []VideoItem {
	if videos == nil {
		return nil
	}
	out := make([]VideoItem, len(videos))
	copy(out, videos)
	return out
}

// videoIDs extracts the ordered identity sequence of a video list.
func videoIDs(videos []VideoItem) []VideoID {
	ids := make([]VideoID, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	return ids
}

// indexOfVideo returns the index of id within videos, or -1.
func indexOfVideo(videos []VideoItem, id VideoID) int {
	for i, v := range videos {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// containsVideoID reports whether id is present in videos.
func containsVideoID(videos []VideoItem, id VideoID) bool {
	return indexOfVideo(videos, id) >= 0
}
