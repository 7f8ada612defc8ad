package core

import (
	"context"
	"strings"
	"testing"
	"time"
)

func samplePlaylists() []Playlist {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	return []Playlist{
		{
			ID:        "pl-1",
			Name:      "Road trip",
			CreatedAt: now,
			UpdatedAt: now,
			Videos: []VideoItem{
				{ID: "v-1", YoutubeID: "dQw4w9WgXcQ", Title: "Song A", Duration: 215 * time.Second, AddedAt: now, Position: 0},
				{ID: "v-2", YoutubeID: "oHg5SJYRHA0", Title: "Song B", Duration: 180 * time.Second, AddedAt: now, Position: 1},
			},
		},
	}
}

func TestExportImportRoundTripPreservesTitlesAndOrder(t *testing.T) {
	playlists := samplePlaylists()
	env := buildEnvelope(playlists, &playlists[0].ID, time.Now())

	data, exportErr := serializeEnvelope(env)
	if exportErr != nil {
		t.Fatalf("serializeEnvelope: %v", exportErr)
	}

	parsed, parseErr := deserializeEnvelope(string(data))
	if parseErr != nil {
		t.Fatalf("deserializeEnvelope: %v", parseErr)
	}
	if err := validateEnvelope(parsed); err != nil {
		t.Fatalf("validateEnvelope: %v", err)
	}

	restored, _ := applyImport(parsed)
	if len(restored) != 1 {
		t.Fatalf("len(restored) = %d, want 1", len(restored))
	}
	if restored[0].Name != "Road trip" {
		t.Fatalf("Name = %q, want %q", restored[0].Name, "Road trip")
	}
	if len(restored[0].Videos) != 2 {
		t.Fatalf("len(Videos) = %d, want 2", len(restored[0].Videos))
	}
	if restored[0].Videos[0].Title != "Song A" || restored[0].Videos[1].Title != "Song B" {
		t.Fatalf("video order/titles not preserved: %+v", restored[0].Videos)
	}
	if restored[0].Videos[0].Duration != 215*time.Second {
		t.Fatalf("Duration = %v, want 215s", restored[0].Videos[0].Duration)
	}
}

func TestExportImportRoundTripRegeneratesIdentities(t *testing.T) {
	playlists := samplePlaylists()
	env := buildEnvelope(playlists, nil, time.Now())
	restored, idMap := applyImport(&env)

	if restored[0].ID == playlists[0].ID {
		t.Fatalf("import should regenerate playlist id, got original %v", restored[0].ID)
	}
	if restored[0].Videos[0].ID == playlists[0].Videos[0].ID {
		t.Fatalf("import should regenerate video id, got original %v", restored[0].Videos[0].ID)
	}
	if idMap[string(playlists[0].ID)] != restored[0].ID {
		t.Fatalf("idMap[%q] = %v, want %v", playlists[0].ID, idMap[string(playlists[0].ID)], restored[0].ID)
	}
}

func TestEffectImportResolvesSelectedPlaylistToRegeneratedID(t *testing.T) {
	playlists := samplePlaylists()
	env := buildEnvelope(playlists, &playlists[0].ID, time.Now())
	data, exportErr := serializeEnvelope(env)
	if exportErr != nil {
		t.Fatalf("serializeEnvelope: %v", exportErr)
	}

	var dispatched []Action
	dispatch := func(a Action) { dispatched = append(dispatched, a) }

	if err := effectImport(context.Background(), NewImportRequestedAction(string(data)), dispatch); err != nil {
		t.Fatalf("effectImport: %v", err)
	}

	var applied *Action
	for i := range dispatched {
		if dispatched[i].Kind == ActionImportApplied {
			applied = &dispatched[i]
			break
		}
	}
	if applied == nil {
		t.Fatalf("no ImportApplied action dispatched: %+v", dispatched)
	}
	if applied.SelectedPlaylistID == nil {
		t.Fatalf("ImportApplied.SelectedPlaylistID = nil, want the regenerated id of playlist %q", playlists[0].ID)
	}
	if *applied.SelectedPlaylistID != applied.Playlists[0].ID {
		t.Fatalf("SelectedPlaylistID = %v, want %v", *applied.SelectedPlaylistID, applied.Playlists[0].ID)
	}
}

func TestDeserializeEnvelopeRejectsMalformedJSON(t *testing.T) {
	_, err := deserializeEnvelope("{not json")
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	if err.Kind != ImportErrorParse {
		t.Fatalf("Kind = %v, want ImportErrorParse", err.Kind)
	}
}

func TestValidateEnvelopeRejectsNewerSchema(t *testing.T) {
	env := &Envelope{SchemaVersion: envelopeSchemaVersion + 1}
	err := validateEnvelope(env)
	if err == nil || err.Kind != ImportErrorUnsupportedSchema {
		t.Fatalf("validateEnvelope() = %v, want ImportErrorUnsupportedSchema", err)
	}
}

func TestValidateEnvelopeRejectsEmptyPlaylistName(t *testing.T) {
	env := &Envelope{Playlists: []PlaylistDTO{{Name: ""}}}
	err := validateEnvelope(env)
	if err == nil || err.Kind != ImportErrorValidation {
		t.Fatalf("validateEnvelope() = %v, want ImportErrorValidation", err)
	}
}

func TestValidateEnvelopeRejectsDuplicateVideoID(t *testing.T) {
	env := &Envelope{
		Playlists: []PlaylistDTO{{
			Name: "P",
			Videos: []VideoDTO{
				{ID: "dup", YouTubeID: "abc", Title: "A"},
				{ID: "dup", YouTubeID: "def", Title: "B"},
			},
		}},
	}
	err := validateEnvelope(env)
	if err == nil || err.Kind != ImportErrorIDCollision {
		t.Fatalf("validateEnvelope() = %v, want ImportErrorIDCollision", err)
	}
}

func TestValidateEnvelopeRejectsNegativePosition(t *testing.T) {
	env := &Envelope{
		Playlists: []PlaylistDTO{{
			Name:   "P",
			Videos: []VideoDTO{{YouTubeID: "abc", Title: "A", Position: -1}},
		}},
	}
	err := validateEnvelope(env)
	if err == nil || err.Kind != ImportErrorValidation {
		t.Fatalf("validateEnvelope() = %v, want ImportErrorValidation", err)
	}
}

func TestApplyImportAcceptsISO8601Duration(t *testing.T) {
	env := &Envelope{
		Playlists: []PlaylistDTO{{
			Name: "P",
			Videos: []VideoDTO{
				{YouTubeID: "abc", Title: "A", Duration: "PT4M13S"},
			},
		}},
	}
	restored, _ := applyImport(env)
	want := 4*time.Minute + 13*time.Second
	if got := restored[0].Videos[0].Duration; got != want {
		t.Fatalf("Duration = %v, want %v", got, want)
	}
}

func TestApplyImportPrefersDurationSecondsOverISO8601(t *testing.T) {
	secs := int64(90)
	env := &Envelope{
		Playlists: []PlaylistDTO{{
			Name: "P",
			Videos: []VideoDTO{
				{YouTubeID: "abc", Title: "A", DurationSeconds: &secs, Duration: "PT4M13S"},
			},
		}},
	}
	restored, _ := applyImport(env)
	if got := restored[0].Videos[0].Duration; got != 90*time.Second {
		t.Fatalf("Duration = %v, want 90s", got)
	}
}

func TestSerializeEnvelopeUsesLowerCamelCaseFields(t *testing.T) {
	env := buildEnvelope(samplePlaylists(), nil, time.Now())
	data, err := serializeEnvelope(env)
	if err != nil {
		t.Fatalf("serializeEnvelope: %v", err)
	}
	text := string(data)
	for _, field := range []string{`"schemaVersion"`, `"youTubeId"`, `"durationSeconds"`, `"addedAtUtc"`} {
		if !strings.Contains(text, field) {
			t.Errorf("serialized envelope missing field %s:\n%s", field, text)
		}
	}
}
