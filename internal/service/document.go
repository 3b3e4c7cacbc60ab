package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"facilitydocs/internal/auth"
	"facilitydocs/internal/cache"
	"facilitydocs/internal/model"
	"facilitydocs/internal/repository"
	"facilitydocs/internal/retry"
	"facilitydocs/internal/storage"
)

// LoadStatus is the loading state of a DocumentStore.
type LoadStatus string

const (
	StatusIdle    LoadStatus = "idle"
	StatusLoading LoadStatus = "loading"
	StatusLoaded  LoadStatus = "loaded"
	StatusFailed  LoadStatus = "failed"
)

// State is a point-in-time copy of what the library exposes to readers.
type State struct {
	Documents model.DocumentCollection `json:"documents"`
	Status    LoadStatus               `json:"status"`
	IsLoading bool                     `json:"is_loading"`
	LoadError string                   `json:"load_error,omitempty"`
}

// DocumentDraft carries the user-supplied fields of a new document.
type DocumentDraft struct {
	ID          string
	Title       string
	Author      string
	Type        string
	Format      string
	Description string
	FacilityID  string
	URL         string
	StoragePath string
	Thumbnail   string
}

// Upload is an optional file attached to a new document.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DocumentLibrary is the document use cases consumed by the HTTP layer.
type DocumentLibrary interface {
	// Load fills the library. Without force it is a no-op unless nothing was loaded yet.
	Load(ctx context.Context, force bool) error
	Snapshot() State
	FacilityDocuments(facilityID string) []model.Document
	Add(ctx context.Context, draft DocumentDraft, file *Upload) (model.Document, error)
	Remove(ctx context.Context, id, facilityID, storagePath string) error
}

// Fetcher performs one attempt to read every document row.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.DocumentRow, error)
}

// FacilityDirectory lists the facilities that own a document bucket.
type FacilityDirectory interface {
	FacilityIDs(ctx context.Context) ([]string, error)
}

// StoreDeps are the collaborators of a DocumentStore.
type StoreDeps struct {
	Fetcher    Fetcher
	Retry      *retry.Scheduler
	Cache      cache.LocalCache
	Documents  repository.DocumentRepository
	Storage    storage.ObjectStorage
	Facilities FacilityDirectory
	Now        func() time.Time
	Logger     *slog.Logger
}

// StoreOptions tune the outer reload loop that runs after the retry budget of
// a load is spent.
type StoreOptions struct {
	ReloadDelay time.Duration
	MaxReloads  int
}

// DocumentStore is the single source of truth for the document library.
// All reads return copies; every mutation publishes a new collection.
type DocumentStore struct {
	deps StoreDeps
	opts StoreOptions
	log  *slog.Logger

	// ctx outlives requests and bounds loads started by the reload timer.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	docs       model.DocumentCollection
	status     LoadStatus
	loadErr    error
	seq        uint64
	failures   int
	loadedOnce bool
	timer      *time.Timer
}

var _ DocumentLibrary = (*DocumentStore)(nil)

// NewDocumentStore returns an idle store holding an empty collection.
func NewDocumentStore(deps StoreDeps, opts StoreOptions) *DocumentStore {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.ReloadDelay <= 0 {
		opts.ReloadDelay = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &DocumentStore{
		deps:   deps,
		opts:   opts,
		log:    deps.Logger,
		ctx:    ctx,
		cancel: cancel,
		docs:   model.NewDocumentCollection(),
		status: StatusIdle,
	}
}

// Load brings the library up to date.
//
// Without force, Load only acts on an idle store: it adopts a fresh cache
// entry if there is one and otherwise fetches with retries. With force, the
// cache is skipped and any load in flight is superseded.
//
// When the retry budget is exhausted the current collection is kept, the error
// is recorded and, until MaxReloads consecutive failures, another forced load
// is scheduled after ReloadDelay.
func (s *DocumentStore) Load(ctx context.Context, force bool) error {
	s.mu.Lock()
	if !force && s.status != StatusIdle {
		s.mu.Unlock()
		return nil
	}
	s.stopTimerLocked()
	s.seq++
	mine := s.seq
	s.status = StatusLoading
	s.mu.Unlock()

	if !force {
		if entry := s.deps.Cache.Read(ctx); s.deps.Cache.IsFresh(entry) {
			s.mu.Lock()
			adopted := mine == s.seq
			if adopted {
				s.docs = entry.Data.Clone()
				s.status = StatusLoaded
				s.loadErr = nil
				s.failures = 0
				s.loadedOnce = true
			}
			s.mu.Unlock()
			if !adopted {
				s.log.Debug("discarding superseded cache hit", "event", "documents_load_superseded")
				return nil
			}
			s.log.Info("documents served from cache",
				"event", "documents_cache_hit",
				"documents", entry.Data.Len(),
				"cached_at", time.UnixMilli(entry.Timestamp).UTC().Format(time.RFC3339),
			)
			return nil
		}
	}

	start := s.deps.Now()
	rows, err := retry.Do(ctx, s.deps.Retry, s.deps.Fetcher.Fetch)
	if err != nil {
		return s.loadFailed(mine, err)
	}

	coll := s.bucket(ctx, rows)

	s.mu.Lock()
	if mine != s.seq {
		s.mu.Unlock()
		s.log.Debug("discarding superseded load", "event", "documents_load_superseded")
		return nil
	}
	s.docs = coll
	s.status = StatusLoaded
	s.loadErr = nil
	s.failures = 0
	s.loadedOnce = true
	s.mu.Unlock()

	s.deps.Cache.Write(ctx, coll)
	s.log.Info("documents loaded",
		"event", "documents_loaded",
		"documents", coll.Len(),
		"duration_ms", s.deps.Now().Sub(start).Milliseconds(),
	)
	return nil
}

func (s *DocumentStore) loadFailed(mine uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mine != s.seq {
		return err
	}

	if !errors.Is(err, retry.ErrExhausted) {
		// Interrupted before the budget was spent: the next load starts over.
		s.status = StatusIdle
		if s.loadedOnce {
			s.status = StatusLoaded
		}
		s.log.Warn("document load interrupted", "event", "documents_load_interrupted", "error", err.Error())
		return err
	}

	s.status = StatusFailed
	s.loadErr = err

	s.failures++
	if s.failures < s.opts.MaxReloads && s.ctx.Err() == nil {
		s.timer = time.AfterFunc(s.opts.ReloadDelay, func() {
			_ = s.Load(s.ctx, true)
		})
		s.log.Warn("document load failed, reload scheduled",
			"event", "documents_reload_scheduled",
			"failures", s.failures,
			"max_reloads", s.opts.MaxReloads,
			"delay_ms", s.opts.ReloadDelay.Milliseconds(),
			"error", err.Error(),
		)
		return err
	}
	s.log.Error("document load failed, giving up",
		"event", "documents_load_failed",
		"failures", s.failures,
		"documents_kept", s.docs.Len(),
		"error", err.Error(),
	)
	return err
}

// bucket normalizes rows into a collection with a bucket per known facility.
// Rows naming an unknown facility go to the general bucket.
func (s *DocumentStore) bucket(ctx context.Context, rows []model.DocumentRow) model.DocumentCollection {
	ids, err := s.deps.Facilities.FacilityIDs(ctx)
	if err != nil {
		s.log.Warn("facility directory unavailable, trusting document facility ids",
			"event", "facility_directory_failed", "error", err.Error())
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	coll := model.NewDocumentCollection(ids...)
	now := s.deps.Now()
	for _, r := range rows {
		doc := normalizeRow(r, now)
		if doc.FacilityID != "" && (known[doc.FacilityID] || err != nil) {
			coll.Facilities[doc.FacilityID] = append(coll.Facilities[doc.FacilityID], doc)
			continue
		}
		coll.General = append(coll.General, doc)
	}
	return coll
}

// placement names the bucket a new document joins: its facility when the
// directory knows it (or cannot be read), otherwise the general bucket.
func (s *DocumentStore) placement(ctx context.Context, facilityID string) string {
	if facilityID == "" {
		return ""
	}
	ids, err := s.deps.Facilities.FacilityIDs(ctx)
	if err != nil {
		s.log.Warn("facility directory unavailable, trusting document facility id",
			"event", "facility_directory_failed", "error", err.Error())
		return facilityID
	}
	if slices.Contains(ids, facilityID) {
		return facilityID
	}
	return ""
}

// Snapshot returns a deep copy of the current state.
func (s *DocumentStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Documents: s.docs.Clone(),
		Status:    s.status,
		IsLoading: s.status == StatusLoading,
	}
	if s.loadErr != nil {
		st.LoadError = s.loadErr.Error()
	}
	return st
}

// FacilityDocuments returns a copy of one facility's bucket.
func (s *DocumentStore) FacilityDocuments(facilityID string) []model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.Bucket(facilityID)
}

// Add stores a new document and, when file is set, uploads it and records its
// location. Only a failed metadata write is returned as an error: a failed
// upload leaves the record in place without a URL.
func (s *DocumentStore) Add(ctx context.Context, draft DocumentDraft, file *Upload) (model.Document, error) {
	if err := validateDraft(draft); err != nil {
		return model.Document{}, err
	}

	now := s.deps.Now()
	id := draft.ID
	if id == "" {
		v7, err := uuid.NewV7()
		if err != nil {
			return model.Document{}, err
		}
		id = v7.String()
	}

	fileName := ""
	if file != nil {
		fileName = file.Name
	}
	row := model.DocumentRow{
		ID:          id,
		Title:       orDefault(draft.Title, model.UntitledPlaceholder),
		Author:      orDefault(draft.Author, model.UnknownPlaceholder),
		Type:        string(normalizeType(draft.Type)),
		Format:      string(inferFormat(model.Format(draft.Format), fileName, draft.URL, draft.StoragePath)),
		Description: draft.Description,
		FacilityID:  draft.FacilityID,
		URL:         draft.URL,
		StoragePath: draft.StoragePath,
		Thumbnail:   draft.Thumbnail,
		UploadDate:  now,
	}

	stored, err := s.deps.Documents.Upsert(ctx, row)
	if err != nil {
		return model.Document{}, &PersistenceError{Op: "upsert document", Err: err}
	}
	doc := normalizeRow(stored, now)

	if file != nil && file.Body != nil {
		if attached, err := s.attach(ctx, doc, file, now); err != nil {
			s.log.Warn("document saved without its file",
				"event", "document_file_attach_failed",
				"document_id", doc.ID,
				"file_name", file.Name,
				"error", err.Error(),
			)
		} else {
			doc = attached
		}
	}

	placement := s.placement(ctx, doc.FacilityID)

	// The cache only mirrors a collection that came from a full load.
	s.mu.Lock()
	s.docs = s.docs.WithDocumentIn(placement, doc)
	snapshot := s.docs.Clone()
	loaded := s.loadedOnce
	s.mu.Unlock()

	if loaded {
		s.deps.Cache.Write(ctx, snapshot)
	}
	s.log.Info("document added", "event", "document_added", "document_id", doc.ID, "facility_id", doc.FacilityID)
	return doc, nil
}

func (s *DocumentStore) attach(ctx context.Context, doc model.Document, file *Upload, now time.Time) (model.Document, error) {
	key := objectKey(doc.Title, file.Name, now)
	if _, err := s.deps.Storage.Put(ctx, key, file.Body, storage.PutObjectOptions{
		Size:        file.Size,
		ContentType: file.ContentType,
		Metadata:    map[string]string{"original-filename": file.Name},
	}); err != nil {
		return doc, err
	}
	url, err := s.deps.Storage.PublicURL(ctx, key)
	if err != nil {
		return doc, err
	}
	format := doc.Format
	if extension(file.Name) == "pdf" {
		format = model.FormatPDF
	}
	if err := s.deps.Documents.AttachFile(ctx, doc.ID, url, key, format); err != nil {
		return doc, err
	}
	doc.URL = url
	doc.StoragePath = key
	doc.Format = format
	return doc, nil
}

func validateDraft(d DocumentDraft) error {
	if d.Type != "" && !model.DocumentType(strings.ToLower(strings.TrimSpace(d.Type))).Valid() {
		return &ValidationError{Field: "type", Reason: "is not a known document type"}
	}
	if d.Format != "" && !model.Format(d.Format).Valid() {
		return &ValidationError{Field: "format", Reason: "is not a known format"}
	}
	return nil
}

// Remove deletes a document for an authenticated actor. The stored file is
// deleted on a best-effort basis and the document is dropped from every bucket.
func (s *DocumentStore) Remove(ctx context.Context, id, facilityID, storagePath string) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return &AuthorizationError{Op: "remove document"}
	}
	if id == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}

	if storagePath == "" {
		s.mu.Lock()
		doc, _, found := s.docs.Find(id, facilityID)
		s.mu.Unlock()
		if found {
			storagePath = doc.StoragePath
		}
	}

	if err := s.deps.Documents.Delete(ctx, id); err != nil {
		return &PersistenceError{Op: "delete document", Err: err}
	}

	if storagePath != "" {
		if err := s.deps.Storage.Delete(ctx, storagePath); err != nil {
			s.log.Warn("stored file not deleted",
				"event", "document_blob_delete_failed",
				"document_id", id,
				"storage_path", storagePath,
				"error", err.Error(),
			)
		}
	}

	s.mu.Lock()
	s.docs = s.docs.WithoutDocument(id)
	snapshot := s.docs.Clone()
	loaded := s.loadedOnce
	s.mu.Unlock()

	if loaded {
		s.deps.Cache.Write(ctx, snapshot)
	}
	s.log.Info("document removed", "event", "document_removed", "document_id", id, "actor_id", actor.ID)
	return nil
}

// Close cancels a scheduled reload. Loads in flight finish on their own.
func (s *DocumentStore) Close() {
	s.cancel()
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
}

func (s *DocumentStore) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
