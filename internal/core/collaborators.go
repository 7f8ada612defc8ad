package core

import "context"

// PlaylistService is the collaborator interface the core consumes for
// all playlist/video persistence (spec §6). Implementations may fail
// with any error; effects categorize failures into the OperationError
// taxonomy (spec §7).
type PlaylistService interface {
	GetAll(ctx context.Context) ([]Playlist, error)
	GetByID(ctx context.Context, id PlaylistID) (*Playlist, error)
	Create(ctx context.Context, p Playlist) error
	Update(ctx context.Context, p Playlist) error
	Delete(ctx context.Context, id PlaylistID) error
	AddVideoToPlaylist(ctx context.Context, playlistID PlaylistID, v VideoItem) error
	RemoveVideoFromPlaylist(ctx context.Context, playlistID PlaylistID, videoID VideoID) error
	UpdateVideoPositions(ctx context.Context, playlistID PlaylistID, videos []VideoItem) error
	ReplaceAllPlaylists(ctx context.Context, playlists []Playlist) error
}

// PlayerEventSink receives raw player callbacks and is responsible for
// translating them into PlayerStateChanged/VideoEnded actions. The
// Store implements this interface so collaborators can report events
// back without importing the store package themselves.
type PlayerEventSink interface {
	OnPlayerStateChanged(ytStateCode int, videoID VideoID)
	OnVideoEnded()
}

// Player is the embedded-video-player collaborator interface (spec §6).
// The real player is out of scope; implementations plug in however the
// host renders video.
type Player interface {
	Load(ctx context.Context, videoID VideoID, youtubeID string, autoplay bool) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Destroy(ctx context.Context) error
}

// Download is the "trigger a browser download" collaborator interface
// (spec §6). In a non-browser host this is satisfied by writing the
// content to disk.
type Download interface {
	Save(ctx context.Context, fileName string, textContent string) error
}

// Collaborators bundles the three external interfaces an effect may
// call through (spec §4.6's "(action, getState, dispatch, collaborators)
// -> task" signature).
type Collaborators struct {
	Playlists PlaylistService
	Player    Player
	Download  Download
}
