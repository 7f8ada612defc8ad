package core

import (
	"context"
	"fmt"
	"time"

	"github.com/arcflow/core/internal/youtubeurl"
)

// RunEffects is the EffectRunner the Store is wired with. It dispatches
// to a per-action-kind effect function (spec §4.6); actions with no
// listed effect (including UndoRequested/RedoRequested, spec §4.6's
// "No effects" row) are a no-op here.
func RunEffects(ctx context.Context, action Action, getState func() State, dispatch func(Action), collab Collaborators) error {
	switch action.Kind {
	case ActionInitialize:
		return effectInitialize(ctx, dispatch, collab)
	case ActionSelectPlaylist:
		return effectSelectPlaylist(ctx, action, dispatch, collab)
	case ActionSelectVideo, ActionNextRequested, ActionPrevRequested:
		return effectLoadCurrentVideo(ctx, getState, collab)
	case ActionSortChanged:
		return effectPersistPositions(ctx, getState, collab)
	case ActionVideoEnded:
		dispatch(NewNextRequestedAction())
		return nil
	case ActionCreatePlaylist:
		return effectCreatePlaylist(ctx, action, dispatch, collab)
	case ActionAddVideo:
		return effectAddVideo(ctx, action, dispatch, collab)
	case ActionExportRequested:
		return effectExport(ctx, getState, dispatch, collab)
	case ActionImportRequested:
		return effectImport(ctx, action, dispatch)
	case ActionImportApplied, ActionPersistRequested:
		return effectPersist(ctx, getState, dispatch, collab)
	default:
		return nil
	}
}

func opError(category ErrorCategory, op string, err error) *OperationError {
	return &OperationError{
		Category: category,
		Message:  fmt.Sprintf("%s failed", op),
		Context:  OperationErrorContext{CorrelationID: NewCorrelationID(), Operation: op},
		Inner:    err,
	}
}

func effectInitialize(ctx context.Context, dispatch func(Action), collab Collaborators) error {
	playlists, err := collab.Playlists.GetAll(ctx)
	if err != nil {
		dispatch(NewOperationFailedAction(opError(CategoryTransient, "Initialize.GetAll", err)))
		return err
	}
	dispatch(NewPlaylistsLoadedAction(playlists))
	if len(playlists) > 0 {
		dispatch(NewSelectPlaylistAction(playlists[0].ID))
	}
	return nil
}

func effectSelectPlaylist(ctx context.Context, action Action, dispatch func(Action), collab Collaborators) error {
	playlist, err := collab.Playlists.GetByID(ctx, action.PlaylistID)
	if err != nil {
		dispatch(NewOperationFailedAction(opError(CategoryNotFound, "SelectPlaylist.GetByID", err)))
		return err
	}
	dispatch(NewPlaylistLoadedAction(*playlist))
	if len(playlist.Videos) > 0 {
		dispatch(NewSelectVideoAction(0, false))
	}
	return nil
}

func effectLoadCurrentVideo(ctx context.Context, getState func() State, collab Collaborators) error {
	player := getState().Player
	if player.Kind != PlayerLoading {
		return nil
	}
	return collab.Player.Load(ctx, player.VideoID, player.YoutubeID, player.Autoplay)
}

func effectPersistPositions(ctx context.Context, getState func() State, collab Collaborators) error {
	queue := getState().Queue
	if queue.SelectedPlaylistID == "" {
		return nil
	}
	return collab.Playlists.UpdateVideoPositions(ctx, queue.SelectedPlaylistID, queue.Videos)
}

func effectCreatePlaylist(ctx context.Context, action Action, dispatch func(Action), collab Collaborators) error {
	now := time.Now().UTC()
	p := Playlist{
		ID:          NewPlaylistID(),
		Name:        action.NewPlaylistName,
		Description: action.NewPlaylistDesc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := collab.Playlists.Create(ctx, p); err != nil {
		dispatch(NewOperationFailedAction(opError(CategoryExternal, "CreatePlaylist", err)))
		return err
	}
	return reloadAndSelect(ctx, p.ID, "Playlist created", dispatch, collab)
}

func effectAddVideo(ctx context.Context, action Action, dispatch func(Action), collab Collaborators) error {
	video := action.NewVideo
	video.YoutubeID = youtubeurl.Extract(action.NewVideoURL)
	if video.YoutubeID == "" {
		dispatch(NewOperationFailedAction(&OperationError{
			Category: CategoryValidation,
			Message:  "could not extract a valid YouTube video id",
			Context:  OperationErrorContext{CorrelationID: NewCorrelationID(), Operation: "AddVideo", PlaylistID: action.PlaylistID},
		}))
		return nil
	}
	if video.ID == "" {
		video.ID = NewVideoID()
	}
	if video.AddedAt.IsZero() {
		video.AddedAt = time.Now().UTC()
	}
	if err := collab.Playlists.AddVideoToPlaylist(ctx, action.PlaylistID, video); err != nil {
		dispatch(NewOperationFailedAction(opError(CategoryExternal, "AddVideo", err)))
		return err
	}
	return reloadAndSelect(ctx, action.PlaylistID, "Video added", dispatch, collab)
}

func reloadAndSelect(ctx context.Context, playlistID PlaylistID, successMessage string, dispatch func(Action), collab Collaborators) error {
	playlist, err := collab.Playlists.GetByID(ctx, playlistID)
	if err != nil {
		dispatch(NewOperationFailedAction(opError(CategoryTransient, "reload playlist", err)))
		return err
	}
	dispatch(NewPlaylistLoadedAction(*playlist))
	dispatch(NewSelectPlaylistAction(playlistID))
	dispatch(NewShowNotificationAction(Notification{
		Severity:    SeveritySuccess,
		Message:     successMessage,
		Dismissible: true,
	}))
	return nil
}

func effectExport(ctx context.Context, getState func() State, dispatch func(Action), collab Collaborators) error {
	dispatch(NewExportPreparedAction())

	playlistsState := getState().Playlists
	if playlistsState.Kind != PlaylistsLoaded {
		err := &ExportError{Kind: ExportErrorSerializationFailed, Message: "no playlists loaded to export"}
		dispatch(NewExportFailedAction(err))
		return err
	}

	var selected *PlaylistID
	if id := getState().Queue.SelectedPlaylistID; id != "" {
		selected = &id
	}

	now := time.Now().UTC()
	env := buildEnvelope(playlistsState.Playlists, selected, now)
	data, exportErr := serializeEnvelope(env)
	if exportErr != nil {
		dispatch(NewExportFailedAction(exportErr.(*ExportError)))
		return exportErr
	}

	fileName := fmt.Sprintf("arcflow-export-%s.json", now.Format("2006-01-02"))
	if err := collab.Download.Save(ctx, fileName, string(data)); err != nil {
		wrapped := &ExportError{Kind: ExportErrorInteropFailed, Message: "download save failed", Inner: err}
		dispatch(NewExportFailedAction(wrapped))
		return wrapped
	}

	dispatch(NewExportSucceededAction(now))
	return nil
}

func effectImport(ctx context.Context, action Action, dispatch func(Action)) error {
	env, parseErr := deserializeEnvelope(action.ImportJSONText)
	if parseErr != nil {
		dispatch(NewImportFailedAction(parseErr))
		return parseErr
	}
	dispatch(NewImportParsedAction(env))

	if err := validateEnvelope(env); err != nil {
		dispatch(NewImportFailedAction(err))
		return err
	}
	dispatch(NewImportValidatedAction(env))

	playlists, idMap := applyImport(env)

	var selected *PlaylistID
	if env.SelectedPlaylistID != nil {
		if id, ok := idMap[*env.SelectedPlaylistID]; ok {
			selected = &id
		}
	}

	dispatch(NewImportAppliedAction(playlists, selected))
	dispatch(NewImportSucceededAction(len(playlists), countVideos(playlists)))
	return nil
}

func effectPersist(ctx context.Context, getState func() State, dispatch func(Action), collab Collaborators) error {
	state := getState()
	if !state.Persistence.IsDirty {
		return nil
	}
	if state.Playlists.Kind != PlaylistsLoaded {
		return nil
	}
	if err := collab.Playlists.ReplaceAllPlaylists(ctx, state.Playlists.Playlists); err != nil {
		dispatch(NewPersistFailedAction(err.Error()))
		return err
	}
	dispatch(NewPersistSucceededAction())
	return nil
}
