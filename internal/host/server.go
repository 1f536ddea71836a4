// Package host serves the panel protocol: JSON lines in, JSON lines out.
//
// Each inbound line is a Request. Search and folder listing run in the
// background through session.Runner, so a fast typist never sees a stale
// result overwrite a newer one; their replies carry the request's sequence
// token. Every other request is answered before the next line is read.
package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/harrison/atpath/internal/clipboard"
	"github.com/harrison/atpath/internal/collector"
	"github.com/harrison/atpath/internal/config"
	"github.com/harrison/atpath/internal/expander"
	"github.com/harrison/atpath/internal/export"
	"github.com/harrison/atpath/internal/fileutil"
	"github.com/harrison/atpath/internal/logger"
	"github.com/harrison/atpath/internal/models"
	"github.com/harrison/atpath/internal/openfiles"
	"github.com/harrison/atpath/internal/search"
	"github.com/harrison/atpath/internal/session"
	"github.com/harrison/atpath/internal/snapshot"
	"github.com/harrison/atpath/internal/workspace"
)

// maxLineSize bounds one inbound message
const maxLineSize = 10 * 1024 * 1024

// Options configures a Server. Workspace and Config are required.
type Options struct {
	Workspace  *workspace.Workspace
	Config     *config.Config
	ConfigPath string // Where saveSettings writes; empty keeps settings in memory
	FS         fileutil.FS
	Logger     logger.Logger
	Clipboard  clipboard.Writer
	Opener     Opener
	Store      *snapshot.Store // nil disables getState and saveState
}

// Server owns the panel state of one workspace
type Server struct {
	ws         *workspace.Workspace
	fsys       fileutil.FS
	log        logger.Logger
	clip       clipboard.Writer
	opener     Opener
	store      *snapshot.Store
	configPath string

	collected *collector.Collector
	searches  *session.Runner[[]models.SearchResult]
	listings  *session.Runner[expander.Result]

	mu          sync.Mutex
	cfg         *config.Config
	folderText  string
	lastResults []models.SearchResult
	lastGroups  []models.ListedGroup
	openFiles   []models.PathEntry

	outMu sync.Mutex
	enc   *json.Encoder
}

// NewServer builds a server writing replies to out
func NewServer(out io.Writer, opts Options) (*Server, error) {
	if opts.Workspace == nil {
		return nil, errors.New("host: workspace is required")
	}
	if opts.Config == nil {
		return nil, errors.New("host: config is required")
	}

	s := &Server{
		ws:         opts.Workspace,
		fsys:       opts.FS,
		log:        opts.Logger,
		clip:       opts.Clipboard,
		opener:     opts.Opener,
		store:      opts.Store,
		configPath: opts.ConfigPath,
		collected:  collector.New(),
		cfg:        opts.Config.Clone(),
		enc:        json.NewEncoder(out),
	}
	if s.fsys == nil {
		s.fsys = fileutil.OSFS{}
	}
	if s.log == nil {
		s.log = logger.NewNoOpLogger()
	}
	if s.clip == nil {
		s.clip = clipboard.Default()
	}
	if s.opener == nil {
		s.opener = SystemOpener{}
	}
	s.enc.SetEscapeHTML(false)

	s.searches = session.NewRunner(s.deliverSearch)
	s.listings = session.NewRunner(s.deliverListing)
	return s, nil
}

// Serve reads requests from in until EOF or ctx is cancelled, then waits
// for background work to deliver.
func (s *Server) Serve(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.LogWarn(fmt.Sprintf("skipping malformed request at line %d: %v", lineNum, err))
			s.replyError("", fmt.Errorf("malformed request at line %d: %w", lineNum, err))
			continue
		}
		s.Handle(ctx, req)
	}

	s.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return ctx.Err()
}

// Wait blocks until background searches and listings have delivered
func (s *Server) Wait() {
	s.searches.Wait()
	s.listings.Wait()
}

// Handle dispatches one request
func (s *Server) Handle(ctx context.Context, req Request) {
	s.log.LogDebug(fmt.Sprintf("request %s", req.Type))

	var err error
	switch req.Type {
	case TypeSearch:
		s.search(ctx, search.Request{Term: req.Query, MatchCase: req.MatchCase})
	case TypeListFolderContents:
		s.expand(ctx, req.Paths)
	case TypeProcessFolderListText:
		s.processFolderListText(ctx, req.Text)
	case TypeAddDroppedPaths:
		s.addDroppedPaths(req.URIs)
	case TypeAddDroppedFoldersForLister:
		s.addDroppedFolders(ctx, req.URIs)
	case TypeClearCollected:
		s.collected.Clear()
		s.reply(pathsReply{Type: ReplyUpdateCollected, Paths: []models.PathEntry{}})
	case TypeGetOpenFiles:
		s.listOpenFiles(req.URIs)
	case TypeOpenFile:
		err = s.openFile(ctx, req)
	case TypeCopy:
		err = s.copy(req.Target)
	case TypeGetSettings:
		s.reply(settingsReply{Type: ReplyLoadSettings, Settings: SettingsFromConfig(s.config())})
	case TypeSaveSettings:
		err = s.saveSettings(req.Settings)
	case TypeGetState:
		err = s.loadState(ctx)
	case TypeSaveState:
		err = s.saveState(ctx, req.State)
	default:
		err = fmt.Errorf("unknown request type %q", req.Type)
	}

	if err != nil {
		s.log.LogWarn(fmt.Sprintf("%s failed: %v", req.Type, err))
		s.replyError(req.Type, err)
	}
}

// config returns the settings snapshot for one operation
func (s *Server) config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Server) exportOptions() export.Options {
	cfg := s.config()
	return export.Options{Prefix: cfg.Prefix, PrefixEnabled: cfg.PrefixEnabled, FullPath: cfg.FullPath}
}

func (s *Server) search(ctx context.Context, req search.Request) {
	roots := s.ws.Snapshot()
	opts := search.Options{
		Rules:   s.config().SearchRules(),
		OnError: logger.ReadFailureReporter(s.log),
	}

	s.searches.Submit(ctx, func(ctx context.Context) []models.SearchResult {
		start := time.Now()
		results := search.Search(ctx, s.fsys, req, roots, opts)
		logger.LogOperation(s.log, "search", req.Term, len(results), "results", time.Since(start))
		return results
	})
}

func (s *Server) deliverSearch(tok session.Token, results []models.SearchResult) {
	s.mu.Lock()
	s.lastResults = results
	s.mu.Unlock()
	s.reply(searchResultsReply{Type: ReplySearchResults, Seq: tok, Items: results})
}

func (s *Server) expand(ctx context.Context, inputs []string) {
	roots := s.ws.Snapshot()
	cfg := s.config()
	opts := expander.Options{
		Rules:   cfg.CollectorRules(),
		Prefix:  cfg.Prefix,
		OnError: logger.ReadFailureReporter(s.log),
	}
	inputs = append([]string(nil), inputs...)

	s.listings.Submit(ctx, func(ctx context.Context) expander.Result {
		return expander.Expand(ctx, s.fsys, inputs, roots, opts)
	})
}

func (s *Server) deliverListing(tok session.Token, res expander.Result) {
	s.mu.Lock()
	s.lastGroups = res.Groups
	s.mu.Unlock()
	s.reply(listedPathsReply{Type: ReplyUpdateListedPaths, Seq: tok, GroupedResults: res.Groups})
	s.notify(res.Notifications)
}

func (s *Server) processFolderListText(ctx context.Context, text string) {
	s.mu.Lock()
	s.folderText = text
	prefix := s.cfg.Prefix
	s.mu.Unlock()

	s.expand(ctx, expander.ParseFolderList(text, prefix))
}

func (s *Server) addDroppedPaths(uris []string) {
	entries, notes := collector.Classify(s.fsys, s.ws, uris)
	all := s.collected.Add(entries...)
	s.reply(pathsReply{Type: ReplyUpdateCollected, Paths: all})
	s.notify(notes)
}

// addDroppedFolders appends dropped folders to the lister text and
// re-expands it. Dropped files are ignored.
func (s *Server) addDroppedFolders(ctx context.Context, uris []string) {
	entries, notes := collector.Classify(s.fsys, s.ws, uris)
	s.notify(notes)

	var folders []string
	for _, e := range entries {
		if e.IsFolder() {
			folders = append(folders, e.RelativePath)
		}
	}
	if len(folders) == 0 {
		return
	}

	s.mu.Lock()
	s.folderText = expander.AppendFolders(s.folderText, folders, s.cfg.Prefix, s.cfg.PrefixEnabled)
	text := s.folderText
	prefix := s.cfg.Prefix
	s.mu.Unlock()

	s.reply(listerInputReply{Type: ReplyAppendToListerInput, Paths: folders, Text: text})
	s.expand(ctx, expander.ParseFolderList(text, prefix))
}

func (s *Server) listOpenFiles(uris []string) {
	files := openfiles.List(s.ws, uris, s.config().OpenFilesRules())
	if files == nil {
		files = []models.PathEntry{}
	}

	s.mu.Lock()
	s.openFiles = files
	s.mu.Unlock()
	s.reply(initReply{Type: ReplyInit, Files: files})
}

func (s *Server) openFile(ctx context.Context, req Request) error {
	entry, err := s.ws.Resolve(req.Path)
	if err != nil {
		return err
	}

	folder := req.FileType == models.TypeFolder
	if req.FileType == "" {
		info, err := s.fsys.Stat(entry.FullPath)
		if err != nil {
			return fmt.Errorf("open %s: %w", req.Path, err)
		}
		folder = info.IsDir()
	}
	return s.opener.Open(ctx, entry.FullPath, folder, req.Reveal)
}

func (s *Server) copy(target string) error {
	opts := s.exportOptions()

	s.mu.Lock()
	var text string
	switch target {
	case TargetSearch:
		text = export.SearchText(s.lastResults, opts)
	case TargetListed:
		text = export.ListingText(s.lastGroups, opts)
	case TargetOpenFiles:
		text = export.PathsText(s.openFiles, opts)
	case TargetCollected:
		text = export.PathsText(s.collected.Paths(), opts)
	default:
		s.mu.Unlock()
		return fmt.Errorf("unknown copy target %q", target)
	}
	s.mu.Unlock()

	if err := s.clip.WriteAll(text); err != nil {
		return fmt.Errorf("copy %s: %w", target, err)
	}
	s.reply(copiedReply{Type: ReplyCopied, Target: target, Text: text})
	return nil
}

func (s *Server) saveSettings(settings *Settings) error {
	if settings == nil {
		return errors.New("saveSettings: settings are required")
	}

	next := s.config().Clone()
	settings.Apply(next)
	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.configPath != "" {
		if err := next.Save(s.configPath); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cfg = next
	s.mu.Unlock()

	s.log.LogInfo("settings saved")
	s.reply(settingsReply{Type: ReplyLoadSettings, Settings: SettingsFromConfig(next)})
	return nil
}

// loadState restores the stored panel state, replying with a null state
// when nothing is stored or persistence is off.
func (s *Server) loadState(ctx context.Context) error {
	if s.store == nil || !s.config().PersistState {
		s.reply(stateReply{Type: ReplyLoadState})
		return nil
	}

	rec, ok, err := s.store.Load(ctx, snapshot.Key(s.ws.Snapshot()))
	if err != nil {
		return err
	}
	if !ok {
		s.reply(stateReply{Type: ReplyLoadState})
		return nil
	}

	s.collected.Clear()
	s.collected.Add(rec.State.Collected...)
	s.log.LogDebug(fmt.Sprintf("restored %d collected path(s)", s.collected.Len()))
	s.mu.Lock()
	s.folderText = rec.State.FolderListText
	s.mu.Unlock()

	s.reply(stateReply{Type: ReplyLoadState, State: &rec.State})
	return nil
}

// saveState stores state, or the server's own view of it when state is nil
func (s *Server) saveState(ctx context.Context, state *snapshot.State) error {
	if s.store == nil || !s.config().PersistState {
		return nil
	}

	if state == nil {
		s.mu.Lock()
		state = &snapshot.State{FolderListText: s.folderText}
		s.mu.Unlock()
		state.Collected = s.collected.Paths()
	}
	return s.store.Save(ctx, snapshot.Key(s.ws.Snapshot()), *state)
}

func (s *Server) notify(notes []models.Notification) {
	for _, n := range notes {
		logger.LogNotification(s.log, n)
		s.reply(notificationReply{Type: ReplyNotification, Notification: n})
	}
}

func (s *Server) replyError(request string, err error) {
	s.reply(errorReply{Type: ReplyError, Request: request, Message: err.Error()})
}

func (s *Server) reply(v any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if err := s.enc.Encode(v); err != nil {
		s.log.LogError(fmt.Sprintf("writing reply: %v", err))
	}
}
