package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

const envelopeSchemaVersion = 1

// VideoDTO is the on-the-wire shape of a VideoItem within an Envelope
// (spec §4.5). Unknown fields are ignored on read (handled by
// encoding/json's default unmarshal behavior); null-valued optional
// fields are omitted on write via omitempty.
type VideoDTO struct {
	ID           string `json:"id"`
	YouTubeID    string `json:"youTubeId"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	// DurationSeconds is the written representation. Duration, when
	// present, is also accepted on read as an ISO-8601 duration string
	// (e.g. "PT4M13S") so envelopes produced by another implementation
	// of this format still import cleanly.
	DurationSeconds *int64 `json:"durationSeconds,omitempty"`
	Duration        string `json:"duration,omitempty"`
	Position        int    `json:"position"`
	AddedAtUTC      string `json:"addedAtUtc"`
}

// PlaylistDTO is the on-the-wire shape of a Playlist within an Envelope.
type PlaylistDTO struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	CreatedAtUTC  string     `json:"createdAtUtc"`
	UpdatedAtUTC  string     `json:"updatedAtUtc"`
	Videos        []VideoDTO `json:"videos"`
}

// Envelope is the schema-version-1 export/import document (spec §4.5).
type Envelope struct {
	SchemaVersion      int           `json:"schemaVersion"`
	ExportedAtUTC      string        `json:"exportedAtUtc"`
	Playlists          []PlaylistDTO `json:"playlists"`
	SelectedPlaylistID *string       `json:"selectedPlaylistId,omitempty"`
}

// buildEnvelope maps loaded playlists into a schema-v1 envelope (the
// export pipeline's mapper step). Videos within each playlist are
// ordered by Position.
func buildEnvelope(playlists []Playlist, selected *PlaylistID, now time.Time) Envelope {
	env := Envelope{
		SchemaVersion: envelopeSchemaVersion,
		ExportedAtUTC: now.UTC().Format(time.RFC3339),
		Playlists:     make([]PlaylistDTO, 0, len(playlists)),
	}
	for _, p := range playlists {
		env.Playlists = append(env.Playlists, playlistToDTO(p))
	}
	if selected != nil {
		s := string(*selected)
		env.SelectedPlaylistID = &s
	}
	return env
}

func playlistToDTO(p Playlist) PlaylistDTO {
	videos := cloneVideos(p.Videos)
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].Position < videos[j].Position })

	dto := PlaylistDTO{
		ID:           string(p.ID),
		Name:         p.Name,
		Description:  p.Description,
		CreatedAtUTC: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC: p.UpdatedAt.UTC().Format(time.RFC3339),
		Videos:       make([]VideoDTO, 0, len(videos)),
	}
	for _, v := range videos {
		dto.Videos = append(dto.Videos, videoToDTO(v))
	}
	return dto
}

func videoToDTO(v VideoItem) VideoDTO {
	dto := VideoDTO{
		ID:           string(v.ID),
		YouTubeID:    v.YoutubeID,
		Title:        v.Title,
		ThumbnailURL: v.ThumbnailURL,
		Position:     v.Position,
		AddedAtUTC:   v.AddedAt.UTC().Format(time.RFC3339),
	}
	if v.Duration > 0 {
		secs := int64(v.Duration.Seconds())
		dto.DurationSeconds = &secs
	}
	return dto
}

// serializeEnvelope renders env as pretty-printed, indented JSON, per
// spec §4.5/§6.
func serializeEnvelope(env Envelope) ([]byte, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, &ExportError{Kind: ExportErrorSerializationFailed, Message: "marshal envelope", Inner: err}
	}
	return data, nil
}

// deserializeEnvelope parses raw JSON text into an Envelope. Unknown
// fields are ignored by encoding/json's default behavior.
func deserializeEnvelope(text string) (*Envelope, *ImportError) {
	var env Envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, &ImportError{Kind: ImportErrorParse, Message: "invalid JSON", Inner: err}
	}
	return &env, nil
}

// validateEnvelope implements spec §4.5 steps 2-4: schema-version
// bound, per-field validation, and intra-envelope id uniqueness.
func validateEnvelope(env *Envelope) *ImportError {
	if env.SchemaVersion > envelopeSchemaVersion {
		return &ImportError{Kind: ImportErrorUnsupportedSchema, Message: fmt.Sprintf("schema version %d is newer than %d", env.SchemaVersion, envelopeSchemaVersion)}
	}

	seenPlaylistIDs := make(map[string]bool)
	seenVideoIDs := make(map[string]bool)

	for pi, p := range env.Playlists {
		if p.Name == "" {
			return &ImportError{Kind: ImportErrorValidation, Field: fmt.Sprintf("playlists[%d].name", pi), Message: "must be non-empty"}
		}
		if p.ID != "" {
			if seenPlaylistIDs[p.ID] {
				return &ImportError{Kind: ImportErrorIDCollision, Field: fmt.Sprintf("playlists[%d].id", pi), Message: "duplicate playlist id within envelope"}
			}
			seenPlaylistIDs[p.ID] = true
		}

		for vi, v := range p.Videos {
			if v.YouTubeID == "" {
				return &ImportError{Kind: ImportErrorValidation, Field: fmt.Sprintf("playlists[%d].videos[%d].youTubeId", pi, vi), Message: "must be non-empty"}
			}
			if v.Title == "" {
				return &ImportError{Kind: ImportErrorValidation, Field: fmt.Sprintf("playlists[%d].videos[%d].title", pi, vi), Message: "must be non-empty"}
			}
			if v.Position < 0 {
				return &ImportError{Kind: ImportErrorValidation, Field: fmt.Sprintf("playlists[%d].videos[%d].position", pi, vi), Message: "must be a non-negative integer"}
			}
			if v.ID != "" {
				if seenVideoIDs[v.ID] {
					return &ImportError{Kind: ImportErrorIDCollision, Field: fmt.Sprintf("playlists[%d].videos[%d].id", pi, vi), Message: "duplicate video id within envelope"}
				}
				seenVideoIDs[v.ID] = true
			}
		}
	}

	return nil
}

// applyImport implements spec §4.5 step 5: converting a validated
// envelope into domain entities under replace-all semantics. Pre-
// existing database ids are irrelevant; every id is regenerated so
// cross-device re-imports never collide with what is already stored.
// The returned map carries each playlist's original envelope id (when
// it had one) to its freshly-minted PlaylistID, so callers can resolve
// Envelope.SelectedPlaylistID against the regenerated identities.
func applyImport(env *Envelope) ([]Playlist, map[string]PlaylistID) {
	playlists := make([]Playlist, 0, len(env.Playlists))
	idMap := make(map[string]PlaylistID, len(env.Playlists))
	for _, pd := range env.Playlists {
		playlistID := NewPlaylistID()
		if pd.ID != "" {
			idMap[pd.ID] = playlistID
		}
		videos := make([]VideoItem, 0, len(pd.Videos))
		for _, vd := range pd.Videos {
			videos = append(videos, VideoItem{
				ID:           NewVideoID(),
				YoutubeID:    vd.YouTubeID,
				Title:        vd.Title,
				ThumbnailURL: vd.ThumbnailURL,
				Duration:     durationFromDTO(vd),
				AddedAt:      parseTimeOrZero(vd.AddedAtUTC),
				Position:     vd.Position,
				PlaylistID:   playlistID,
			})
		}
		playlists = append(playlists, Playlist{
			ID:          playlistID,
			Name:        pd.Name,
			Description: pd.Description,
			CreatedAt:   parseTimeOrZero(pd.CreatedAtUTC),
			UpdatedAt:   parseTimeOrZero(pd.UpdatedAtUTC),
			Videos:      videos,
		})
	}
	return playlists, idMap
}

func durationFromDTO(v VideoDTO) time.Duration {
	if v.DurationSeconds != nil {
		return time.Duration(*v.DurationSeconds) * time.Second
	}
	if d, ok := parseISO8601Duration(v.Duration); ok {
		return d
	}
	return 0
}

var iso8601DurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISO8601Duration accepts the day/hour/minute/second subset of
// ISO-8601 durations (e.g. "PT4M13S", "P1DT2H"), which covers every
// duration a video-length field needs to express.
func parseISO8601Duration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	m := iso8601DurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	days := parseUintOr(m[1])
	hours := parseUintOr(m[2])
	minutes := parseUintOr(m[3])
	seconds := parseUintOr(m[4])
	total := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
	return total, true
}

func parseUintOr(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseTimeOrZero(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func countVideos(playlists []Playlist) int {
	n := 0
	for _, p := range playlists {
		n += len(p.Videos)
	}
	return n
}
