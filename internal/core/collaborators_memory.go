package core

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// MemoryService is an in-memory PlaylistService used by tests and as
// the default quick-start backend for arcflowctl. It is deliberately
// simple: a mutex-guarded map, no query planning, no migrations.
type MemoryService struct {
	mu        sync.Mutex
	playlists map[PlaylistID]Playlist
}

// NewMemoryService returns an empty in-memory PlaylistService, optionally
// seeded with playlists.
func NewMemoryService(seed ...Playlist) *MemoryService {
	s := &MemoryService{playlists: make(map[PlaylistID]Playlist)}
	for _, p := range seed {
		s.playlists[p.ID] = p
	}
	return s
}

func (s *MemoryService) GetAll(ctx context.Context) ([]Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryService) GetByID(ctx context.Context, id PlaylistID) (*Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists[id]
	if !ok {
		return nil, fmt.Errorf("playlist %s: not found", id)
	}
	return &p, nil
}

func (s *MemoryService) Create(ctx context.Context, p Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.playlists[p.ID]; exists {
		return fmt.Errorf("playlist %s: already exists", p.ID)
	}
	s.playlists[p.ID] = p
	return nil
}

func (s *MemoryService) Update(ctx context.Context, p Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.playlists[p.ID]; !exists {
		return fmt.Errorf("playlist %s: not found", p.ID)
	}
	s.playlists[p.ID] = p
	return nil
}

func (s *MemoryService) Delete(ctx context.Context, id PlaylistID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.playlists[id]; !exists {
		return fmt.Errorf("playlist %s: not found", id)
	}
	delete(s.playlists, id)
	return nil
}

func (s *MemoryService) AddVideoToPlaylist(ctx context.Context, playlistID PlaylistID, v VideoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s: not found", playlistID)
	}
	v.PlaylistID = playlistID
	v.Position = len(p.Videos)
	p.Videos = append(cloneVideos(p.Videos), v)
	s.playlists[playlistID] = p
	return nil
}

func (s *MemoryService) RemoveVideoFromPlaylist(ctx context.Context, playlistID PlaylistID, videoID VideoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s: not found", playlistID)
	}
	out := make([]VideoItem, 0, len(p.Videos))
	for _, v := range p.Videos {
		if v.ID != videoID {
			out = append(out, v)
		}
	}
	for i := range out {
		out[i].Position = i
	}
	p.Videos = out
	s.playlists[playlistID] = p
	return nil
}

func (s *MemoryService) UpdateVideoPositions(ctx context.Context, playlistID PlaylistID, videos []VideoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s: not found", playlistID)
	}
	p.Videos = cloneVideos(videos)
	s.playlists[playlistID] = p
	return nil
}

func (s *MemoryService) ReplaceAllPlaylists(ctx context.Context, playlists []Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[PlaylistID]Playlist, len(playlists))
	for _, p := range playlists {
		next[p.ID] = p
	}
	s.playlists = next
	return nil
}

// LogPlayer is a Player implementation that logs every call instead of
// driving a real embedded player, matching the out-of-scope boundary
// from spec §1.
type LogPlayer struct{}

func (LogPlayer) Load(ctx context.Context, videoID VideoID, youtubeID string, autoplay bool) error {
	log.Printf("arcflow: player: load video=%s youtube=%s autoplay=%v", videoID, youtubeID, autoplay)
	return nil
}

func (LogPlayer) Play(ctx context.Context) error {
	log.Printf("arcflow: player: play")
	return nil
}

func (LogPlayer) Pause(ctx context.Context) error {
	log.Printf("arcflow: player: pause")
	return nil
}

func (LogPlayer) Destroy(ctx context.Context) error {
	log.Printf("arcflow: player: destroy")
	return nil
}
