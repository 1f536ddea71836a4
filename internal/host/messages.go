package host

import (
	"github.com/harrison/atpath/internal/config"
	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/session"
	"github.com/harrison/atpath/internal/snapshot"
)

// Request types accepted on the input stream
const (
	TypeSearch                     = "search"
	TypeListFolderContents         = "listFolderContents"
	TypeProcessFolderListText      = "processFolderListText"
	TypeAddDroppedPaths            = "addDroppedPaths"
	TypeAddDroppedFoldersForLister = "addDroppedFoldersForLister"
	TypeClearCollected             = "clearCollected"
	TypeGetOpenFiles               = "getOpenFiles"
	TypeOpenFile                   = "openFile"
	TypeCopy                       = "copy"
	TypeGetSettings                = "getSettings"
	TypeSaveSettings               = "saveSettings"
	TypeGetState                   = "getState"
	TypeSaveState                  = "saveState"
)

// Reply types written to the output stream
const (
	ReplySearchResults       = "searchResults"
	ReplyUpdateListedPaths   = "updateListedPaths"
	ReplyUpdateCollected     = "updateCollectedPaths"
	ReplyAppendToListerInput = "appendToListerInput"
	ReplyInit                = "init"
	ReplyLoadSettings        = "loadSettings"
	ReplyLoadState           = "loadState"
	ReplyCopied              = "copied"
	ReplyNotification        = "notification"
	ReplyError               = "error"
)

// Copy targets
const (
	TargetSearch    = "search"
	TargetCollected = "collected"
	TargetListed    = "listed"
	TargetOpenFiles = "openFiles"
)

// Request is one inbound message. Only the fields of its Type are read.
type Request struct {
	Type string `json:"type"`

	// search
	Query     string `json:"query,omitempty"`
	MatchCase bool   `json:"matchCase,omitempty"`

	// listFolderContents
	Paths []string `json:"paths,omitempty"`

	// processFolderListText
	Text string `json:"text,omitempty"`

	// addDroppedPaths, addDroppedFoldersForLister, getOpenFiles
	URIs []string `json:"uris,omitempty"`

	// openFile
	Path     string           `json:"path,omitempty"`
	FileType models.EntryType `json:"fileType,omitempty"`
	Reveal   bool             `json:"reveal,omitempty"`

	// copy
	Target string `json:"target,omitempty"`

	Settings *Settings      `json:"settings,omitempty"`
	State    *snapshot.State `json:"state,omitempty"`
}

// Settings is the wire form of the editable configuration
type Settings struct {
	OpenFilesExcludeText string `json:"openFilesExcludeText"`
	SearcherExcludeText  string `json:"searcherExcludeText"`
	CollectorExcludeText string `json:"collectorExcludeText"`
	PrefixText           string `json:"prefixText"`
	IsPrefixEnabled      bool   `json:"isPrefixEnabled"`
	IsFullPathEnabled    bool   `json:"isFullPathEnabled"`
	IsExcludeEnabled     bool   `json:"isExcludeEnabled"`
}

// SettingsFromConfig extracts the editable fields of cfg
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		OpenFilesExcludeText: cfg.Exclusions.OpenFiles,
		SearcherExcludeText:  cfg.Exclusions.Searcher,
		CollectorExcludeText: cfg.Exclusions.Collector,
		PrefixText:           cfg.Prefix,
		IsPrefixEnabled:      cfg.PrefixEnabled,
		IsFullPathEnabled:    cfg.FullPath,
		IsExcludeEnabled:     cfg.ExcludeEnabled,
	}
}

// Apply writes the settings onto cfg
func (s Settings) Apply(cfg *config.Config) {
	cfg.Exclusions.OpenFiles = s.OpenFilesExcludeText
	cfg.Exclusions.Searcher = s.SearcherExcludeText
	cfg.Exclusions.Collector = s.CollectorExcludeText
	cfg.Prefix = s.PrefixText
	cfg.PrefixEnabled = s.IsPrefixEnabled
	cfg.FullPath = s.IsFullPathEnabled
	cfg.ExcludeEnabled = s.IsExcludeEnabled
}

type searchResultsReply struct {
	Type  string                `json:"type"`
	Seq   session.Token         `json:"seq"`
	Items []models.SearchResult `json:"items"`
}

type listedPathsReply struct {
	Type           string               `json:"type"`
	Seq            session.Token        `json:"seq"`
	GroupedResults []models.ListedGroup `json:"groupedResults"`
}

type pathsReply struct {
	Type  string             `json:"type"`
	Paths []models.PathEntry `json:"paths"`
}

type listerInputReply struct {
	Type  string   `json:"type"`
	Paths []string `json:"paths"`
	Text  string   `json:"text"`
}

type initReply struct {
	Type  string             `json:"type"`
	Files []models.PathEntry `json:"files"`
}

type settingsReply struct {
	Type     string   `json:"type"`
	Settings Settings `json:"settings"`
}

type stateReply struct {
	Type  string          `json:"type"`
	State *snapshot.State `json:"state"`
}

type copiedReply struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Text   string `json:"text"`
}

type notificationReply struct {
	Type string `json:"type"`
	models.Notification
}

type errorReply struct {
	Type    string `json:"type"`
	Request string `json:"request,omitempty"`
	Message string `json:"message"`
}
