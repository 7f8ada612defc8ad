package core

import "time"

// RepeatMode is the closed union of queue repeat behaviors.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// NotificationSeverity is the closed union of notification severities.
type NotificationSeverity int

const (
	SeverityInfo NotificationSeverity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s NotificationSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeveritySuccess:
		return "Success"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Notification is a single user-visible message appended to the
// Notifications slice. Removed only on explicit dismissal.
type Notification struct {
	Severity      NotificationSeverity
	Message       string
	CorrelationID CorrelationID
	Timestamp     time.Time
	Dismissible   bool
}

// PlaylistsKind is the closed union tag for PlaylistsState.
type PlaylistsKind int

const (
	PlaylistsLoading PlaylistsKind = iota
	PlaylistsLoaded
	PlaylistsEmpty
	PlaylistsError
)

// PlaylistsState is the Loading | Loaded | Empty | Error union over the
// catalog of playlists.
type PlaylistsState struct {
	Kind      PlaylistsKind
	Playlists []Playlist // valid when Kind == PlaylistsLoaded
	Message   string     // valid when Kind == PlaylistsError
}

// PlayerKind is the closed union tag for PlayerState.
type PlayerKind int

const (
	PlayerEmpty PlayerKind = iota
	PlayerLoading
	PlayerBuffering
	PlayerPlaying
	PlayerPaused
	PlayerError
)

// PlayerState is the Empty | Loading | Buffering | Playing | Paused |
// Error union over the embedded player's observed status.
type PlayerState struct {
	Kind      PlayerKind
	VideoID   VideoID // valid when Kind != PlayerEmpty && Kind != PlayerError
	Autoplay  bool    // valid when Kind == PlayerLoading
	Message   string  // valid when Kind == PlayerError
	YoutubeID string  // valid when Kind == PlayerLoading; video's youtube id, for interop
}

// ImportExportKind is the closed union tag for ImportExportState.
type ImportExportKind int

const (
	IEIdle ImportExportKind = iota
	IEExportInProgress
	IEExportSucceeded
	IEExportFailed
	IEImportParsing
	IEImportParsed
	IEImportValidated
	IEImportApplied
	IEImportSucceeded
	IEImportFailed
)

// ImportExportState is the lifecycle union of §3/§4.5.
type ImportExportState struct {
	Kind ImportExportKind

	ExportedAtUTC time.Time    // valid when Kind == IEExportSucceeded
	ExportErr     *ExportError // valid when Kind == IEExportFailed

	Envelope *Envelope // valid when Kind in {IEImportParsed, IEImportValidated}

	PlaylistCount int // valid when Kind == IEImportSucceeded
	VideoCount    int // valid when Kind == IEImportSucceeded

	ImportErr *ImportError // valid when Kind == IEImportFailed
}

// PersistenceState tracks the dirty bit and the last attempt to write the
// catalog back to durable storage.
type PersistenceState struct {
	IsDirty               bool
	LastPersistAttemptUTC time.Time
	LastPersistError      string
}

// QueueState is the video queue and playback cursor. See spec §3 for the
// five structural invariants it must always satisfy.
type QueueState struct {
	SelectedPlaylistID PlaylistID // zero value means "none selected"
	Videos             []VideoItem
	CurrentIndex       *int
	CurrentItemID      *VideoID
	RepeatMode         RepeatMode
	ShuffleEnabled     bool
	ShuffleOrder       []VideoID
	ShuffleSeed        int64
	PlaybackHistory    []VideoID
	Past               []QueueSnapshot
	Future             []QueueSnapshot
}

const (
	playbackHistoryCap = 100
	undoHistoryCap     = 30
)

// State is the root state: six immutable slices replaced as a whole on
// change.
type State struct {
	Playlists     PlaylistsState
	Queue         QueueState
	Player        PlayerState
	ImportExport  ImportExportState
	Persistence   PersistenceState
	Notifications []Notification
}

// NewState returns the initial root state: Playlists Loading, an empty
// queue, an empty player, import/export idle, a clean persistence bit,
// and no notifications.
func NewState() State {
	return State{
		Playlists: PlaylistsState{Kind: PlaylistsLoading},
		Queue:     QueueState{RepeatMode: RepeatOff},
		Player:    PlayerState{Kind: PlayerEmpty},
	}
}

// ActionKind is the closed union tag for Action. Every value here has
// exactly one branch in UndoPolicy, in the reducer's dispatch table, and
// (where an effect exists) in the effects dispatch table.
type ActionKind int

const (
	ActionInitialize ActionKind = iota
	ActionSelectPlaylist
	ActionPlaylistsLoaded
	ActionPlaylistLoaded
	ActionSelectVideo
	ActionSortChanged
	ActionPlayerStateChanged
	ActionVideoEnded
	ActionShuffleSet
	ActionRepeatSet
	ActionNextRequested
	ActionPrevRequested
	ActionPlaybackAdvanced
	ActionPlaybackStopped
	ActionOperationFailed
	ActionShowNotification
	ActionDismissNotification
	ActionExportRequested
	ActionExportPrepared
	ActionExportSucceeded
	ActionExportFailed
	ActionImportRequested
	ActionImportParsed
	ActionImportValidated
	ActionImportApplied
	ActionImportSucceeded
	ActionImportFailed
	ActionPersistRequested
	ActionPersistSucceeded
	ActionPersistFailed
	ActionCreatePlaylist
	ActionAddVideo
	ActionUndoRequested
	ActionRedoRequested

	numActionKinds
)

func (k ActionKind) String() string {
	switch k {
	case ActionInitialize:
		return "Initialize"
	case ActionSelectPlaylist:
		return "SelectPlaylist"
	case ActionPlaylistsLoaded:
		return "PlaylistsLoaded"
	case ActionPlaylistLoaded:
		return "PlaylistLoaded"
	case ActionSelectVideo:
		return "SelectVideo"
	case ActionSortChanged:
		return "SortChanged"
	case ActionPlayerStateChanged:
		return "PlayerStateChanged"
	case ActionVideoEnded:
		return "VideoEnded"
	case ActionShuffleSet:
		return "ShuffleSet"
	case ActionRepeatSet:
		return "RepeatSet"
	case ActionNextRequested:
		return "NextRequested"
	case ActionPrevRequested:
		return "PrevRequested"
	case ActionPlaybackAdvanced:
		return "PlaybackAdvanced"
	case ActionPlaybackStopped:
		return "PlaybackStopped"
	case ActionOperationFailed:
		return "OperationFailed"
	case ActionShowNotification:
		return "ShowNotification"
	case ActionDismissNotification:
		return "DismissNotification"
	case ActionExportRequested:
		return "ExportRequested"
	case ActionExportPrepared:
		return "ExportPrepared"
	case ActionExportSucceeded:
		return "ExportSucceeded"
	case ActionExportFailed:
		return "ExportFailed"
	case ActionImportRequested:
		return "ImportRequested"
	case ActionImportParsed:
		return "ImportParsed"
	case ActionImportValidated:
		return "ImportValidated"
	case ActionImportApplied:
		return "ImportApplied"
	case ActionImportSucceeded:
		return "ImportSucceeded"
	case ActionImportFailed:
		return "ImportFailed"
	case ActionPersistRequested:
		return "PersistRequested"
	case ActionPersistSucceeded:
		return "PersistSucceeded"
	case ActionPersistFailed:
		return "PersistFailed"
	case ActionCreatePlaylist:
		return "CreatePlaylist"
	case ActionAddVideo:
		return "AddVideo"
	case ActionUndoRequested:
		return "UndoRequested"
	case ActionRedoRequested:
		return "RedoRequested"
	default:
		return "Unknown"
	}
}

// Action is a tagged union: Kind selects which of the fields below are
// meaningful. Every producer uses the New*Action constructor for its
// kind rather than building the struct literal directly, so payload
// shape stays centralized here.
type Action struct {
	Kind ActionKind

	PlaylistID         PlaylistID
	Playlists          []Playlist
	Playlist           Playlist
	Index              int
	OldIndex           int
	NewIndex           int
	Autoplay           bool
	YoutubeStateCode   int
	VideoID            VideoID
	ShuffleEnabled     bool
	ShuffleSeed        *int64
	RepeatMode         RepeatMode
	OperationErr       *OperationError
	Notification       Notification
	CorrelationID      CorrelationID
	ExportedAtUTC      time.Time
	ExportErr          *ExportError
	ImportJSONText     string
	Envelope           *Envelope
	SelectedPlaylistID *PlaylistID
	PlaylistCount      int
	VideoCount         int
	ImportErr          *ImportError
	PersistMessage     string
	NewPlaylistName    string
	NewPlaylistDesc    string
	NewVideo           VideoItem
	NewVideoURL        string
}

func NewInitializeAction() Action { return Action{Kind: ActionInitialize} }

func NewSelectPlaylistAction(id PlaylistID) Action {
	return Action{Kind: ActionSelectPlaylist, PlaylistID: id}
}

func NewPlaylistsLoadedAction(playlists []Playlist) Action {
	return Action{Kind: ActionPlaylistsLoaded, Playlists: playlists}
}

func NewPlaylistLoadedAction(playlist Playlist) Action {
	return Action{Kind: ActionPlaylistLoaded, Playlist: playlist}
}

func NewSelectVideoAction(index int, autoplay bool) Action {
	return Action{Kind: ActionSelectVideo, Index: index, Autoplay: autoplay}
}

func NewSortChangedAction(oldIndex, newIndex int) Action {
	return Action{Kind: ActionSortChanged, OldIndex: oldIndex, NewIndex: newIndex}
}

func NewPlayerStateChangedAction(ytCode int, videoID VideoID) Action {
	return Action{Kind: ActionPlayerStateChanged, YoutubeStateCode: ytCode, VideoID: videoID}
}

func NewVideoEndedAction() Action { return Action{Kind: ActionVideoEnded} }

func NewShuffleSetAction(enabled bool, seed *int64) Action {
	return Action{Kind: ActionShuffleSet, ShuffleEnabled: enabled, ShuffleSeed: seed}
}

func NewRepeatSetAction(mode RepeatMode) Action {
	return Action{Kind: ActionRepeatSet, RepeatMode: mode}
}

func NewNextRequestedAction() Action { return Action{Kind: ActionNextRequested} }
func NewPrevRequestedAction() Action { return Action{Kind: ActionPrevRequested} }

func NewPlaybackAdvancedAction(videoID VideoID) Action {
	return Action{Kind: ActionPlaybackAdvanced, VideoID: videoID}
}

func NewPlaybackStoppedAction() Action { return Action{Kind: ActionPlaybackStopped} }

func NewOperationFailedAction(err *OperationError) Action {
	return Action{Kind: ActionOperationFailed, OperationErr: err}
}

func NewShowNotificationAction(n Notification) Action {
	return Action{Kind: ActionShowNotification, Notification: n}
}

func NewDismissNotificationAction(id CorrelationID) Action {
	return Action{Kind: ActionDismissNotification, CorrelationID: id}
}

func NewExportRequestedAction() Action  { return Action{Kind: ActionExportRequested} }
func NewExportPreparedAction() Action   { return Action{Kind: ActionExportPrepared} }

func NewExportSucceededAction(at time.Time) Action {
	return Action{Kind: ActionExportSucceeded, ExportedAtUTC: at}
}

func NewExportFailedAction(err *ExportError) Action {
	return Action{Kind: ActionExportFailed, ExportErr: err}
}

func NewImportRequestedAction(jsonText string) Action {
	return Action{Kind: ActionImportRequested, ImportJSONText: jsonText}
}

func NewImportParsedAction(env *Envelope) Action {
	return Action{Kind: ActionImportParsed, Envelope: env}
}

func NewImportValidatedAction(env *Envelope) Action {
	return Action{Kind: ActionImportValidated, Envelope: env}
}

func NewImportAppliedAction(playlists []Playlist, selected *PlaylistID) Action {
	return Action{Kind: ActionImportApplied, Playlists: playlists, SelectedPlaylistID: selected}
}

func NewImportSucceededAction(playlistCount, videoCount int) Action {
	return Action{Kind: ActionImportSucceeded, PlaylistCount: playlistCount, VideoCount: videoCount}
}

func NewImportFailedAction(err *ImportError) Action {
	return Action{Kind: ActionImportFailed, ImportErr: err}
}

func NewPersistRequestedAction() Action { return Action{Kind: ActionPersistRequested} }
func NewPersistSucceededAction() Action { return Action{Kind: ActionPersistSucceeded} }

func NewPersistFailedAction(message string) Action {
	return Action{Kind: ActionPersistFailed, PersistMessage: message}
}

func NewCreatePlaylistAction(name, description string) Action {
	return Action{Kind: ActionCreatePlaylist, NewPlaylistName: name, NewPlaylistDesc: description}
}

// NewAddVideoAction builds an AddVideo action. video carries the
// already-known metadata (title, thumbnail, duration, position);
// rawURL is the user-supplied YouTube URL the AddVideo effect extracts
// a video id from (spec §6) — video.YoutubeID is set by the effect,
// not by the caller.
func NewAddVideoAction(playlistID PlaylistID, video VideoItem, rawURL string) Action {
	return Action{Kind: ActionAddVideo, PlaylistID: playlistID, NewVideo: video, NewVideoURL: rawURL}
}

func NewUndoRequestedAction() Action { return Action{Kind: ActionUndoRequested} }
func NewRedoRequestedAction() Action { return Action{Kind: ActionRedoRequested} }
