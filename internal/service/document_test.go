package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"facilitydocs/internal/auth"
	"facilitydocs/internal/cache"
	"facilitydocs/internal/logging"
	"facilitydocs/internal/model"
	repoMocks "facilitydocs/internal/repository/mocks"
	"facilitydocs/internal/retry"
	"facilitydocs/internal/storage"
	storeMocks "facilitydocs/internal/storage/mocks"
)

var testNow = time.Date(2025, 3, 20, 16, 31, 15, 0, time.UTC)

// scriptedFetcher answers attempt n (1-based) with script(n).
type scriptedFetcher struct {
	mu     sync.Mutex
	calls  int
	script func(ctx context.Context, n int) ([]model.DocumentRow, error)
}

func (f *scriptedFetcher) Fetch(ctx context.Context) ([]model.DocumentRow, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	return f.script(ctx, n)
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func alwaysFail(ctx context.Context, n int) ([]model.DocumentRow, error) {
	return nil, errors.New("backend unreachable")
}

func returning(rows ...model.DocumentRow) func(context.Context, int) ([]model.DocumentRow, error) {
	return func(context.Context, int) ([]model.DocumentRow, error) { return rows, nil }
}

type staticDirectory struct {
	ids []string
	err error
}

func (d staticDirectory) FacilityIDs(context.Context) ([]string, error) { return d.ids, d.err }

type harness struct {
	store   *DocumentStore
	fetcher *scriptedFetcher
	cache   *cache.RedisCache
	redis   *miniredis.Miniredis
	client  *redis.Client
	repo    *repoMocks.MockDocumentRepository
	blobs   *storeMocks.MockStorage
	delays  []time.Duration
	mu      sync.Mutex
}

type harnessOpts struct {
	script     func(context.Context, int) ([]model.DocumentRow, error)
	facilities []string
	reloads    int
	delay      time.Duration
}

func newHarness(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	h := &harness{
		fetcher: &scriptedFetcher{script: o.script},
		repo:    new(repoMocks.MockDocumentRepository),
		blobs:   new(storeMocks.MockStorage),
	}
	if h.fetcher.script == nil {
		h.fetcher.script = returning()
	}
	h.redis = miniredis.RunT(t)
	h.client = redis.NewClient(&redis.Options{Addr: h.redis.Addr()})
	t.Cleanup(func() { _ = h.client.Close() })
	h.cache = cache.NewRedisCache(h.client, cache.Options{
		Now:    func() time.Time { return testNow },
		Logger: logging.Discard(),
	})

	sched := retry.New(retry.Config{MaxAttempts: 3, Step: time.Millisecond}, logging.Discard())
	sched.OnRetry = func(_ int, d time.Duration, _ error) {
		h.mu.Lock()
		h.delays = append(h.delays, d)
		h.mu.Unlock()
	}

	if o.delay == 0 {
		o.delay = time.Hour
	}
	h.store = NewDocumentStore(StoreDeps{
		Fetcher:    h.fetcher,
		Retry:      sched,
		Cache:      h.cache,
		Documents:  h.repo,
		Storage:    h.blobs,
		Facilities: staticDirectory{ids: o.facilities},
		Now:        func() time.Time { return testNow },
		Logger:     logging.Discard(),
	}, StoreOptions{ReloadDelay: o.delay, MaxReloads: o.reloads})
	t.Cleanup(h.store.Close)
	return h
}

// seedCache writes coll as if it had been cached age ago.
func (h *harness) seedCache(t *testing.T, coll model.DocumentCollection, age time.Duration) {
	t.Helper()
	old := cache.NewRedisCache(h.client, cache.Options{
		Now:    func() time.Time { return testNow.Add(-age) },
		Logger: logging.Discard(),
	})
	old.Write(context.Background(), coll)
}

func collectionOf(n int) model.DocumentCollection {
	c := model.NewDocumentCollection("3")
	for i := 0; i < n; i++ {
		c = c.WithDocument(model.Document{ID: string(rune('a' + i)), Title: "cached"})
	}
	return c
}

func TestDocumentStore_Load_FreshCacheSkipsFetch(t *testing.T) {
	h := newHarness(t, harnessOpts{script: alwaysFail})
	h.seedCache(t, collectionOf(5), 10*time.Minute)

	err := h.store.Load(context.Background(), false)

	require.NoError(t, err)
	assert.Zero(t, h.fetcher.Calls())
	st := h.store.Snapshot()
	assert.Equal(t, 5, st.Documents.Len())
	assert.Equal(t, StatusLoaded, st.Status)
	assert.Empty(t, st.LoadError)
}

func TestDocumentStore_Load_StaleCacheFetches(t *testing.T) {
	h := newHarness(t, harnessOpts{script: returning(model.DocumentRow{ID: "fresh"})})
	h.seedCache(t, collectionOf(5), 31*time.Minute)

	require.NoError(t, h.store.Load(context.Background(), false))

	assert.Equal(t, 1, h.fetcher.Calls())
	st := h.store.Snapshot()
	require.Len(t, st.Documents.General, 1)
	assert.Equal(t, "fresh", st.Documents.General[0].ID)

	entry := h.cache.Read(context.Background())
	require.NotNil(t, entry)
	assert.Equal(t, testNow.UnixMilli(), entry.Timestamp, "a successful fetch refreshes the cache")
	assert.Equal(t, 1, entry.Data.Len())
}

func TestDocumentStore_Load_ForceBypassesCache(t *testing.T) {
	h := newHarness(t, harnessOpts{script: returning(model.DocumentRow{ID: "remote"})})
	h.seedCache(t, collectionOf(5), time.Minute)

	require.NoError(t, h.store.Load(context.Background(), true))

	assert.Equal(t, 1, h.fetcher.Calls())
	assert.Equal(t, 1, h.store.Snapshot().Documents.Len())
}

func TestDocumentStore_Load_RetryCeiling(t *testing.T) {
	h := newHarness(t, harnessOpts{script: alwaysFail, reloads: 1})

	err := h.store.Load(context.Background(), false)

	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.Equal(t, 3, h.fetcher.Calls())
	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.delays, 2)
	assert.Less(t, h.delays[0], h.delays[1])
}

func TestDocumentStore_Load_FirstFailureLeavesEmptyCollection(t *testing.T) {
	h := newHarness(t, harnessOpts{script: alwaysFail, reloads: 1})

	_ = h.store.Load(context.Background(), false)

	st := h.store.Snapshot()
	assert.Zero(t, st.Documents.Len())
	assert.NotEmpty(t, st.LoadError)
	assert.Equal(t, StatusFailed, st.Status)
	assert.False(t, st.IsLoading)
}

func TestDocumentStore_Load_StaleDataRetained(t *testing.T) {
	h := newHarness(t, harnessOpts{
		facilities: []string{"3"},
		reloads:    1,
		script: func(ctx context.Context, n int) ([]model.DocumentRow, error) {
			if n == 1 {
				return []model.DocumentRow{{ID: "g"}, {ID: "f", FacilityID: "3"}}, nil
			}
			return nil, errors.New("outage")
		},
	})
	ctx := context.Background()

	require.NoError(t, h.store.Load(ctx, false))
	before := h.store.Snapshot().Documents

	err := h.store.Load(ctx, true)

	assert.ErrorIs(t, err, retry.ErrExhausted)
	st := h.store.Snapshot()
	assert.Equal(t, before, st.Documents)
	assert.NotEmpty(t, st.LoadError)
	assert.Equal(t, 4, h.fetcher.Calls())
}

func TestDocumentStore_Load_RecoversAfterTwoFailures(t *testing.T) {
	h := newHarness(t, harnessOpts{
		facilities: []string{"3"},
		script: func(ctx context.Context, n int) ([]model.DocumentRow, error) {
			if n <= 2 {
				return nil, errors.New("flaky")
			}
			return []model.DocumentRow{
				{ID: "general-1", Title: "Outlook"},
				{ID: "plant-1", Title: "Tour", FacilityID: "3"},
			}, nil
		},
	})

	require.NoError(t, h.store.Load(context.Background(), false))

	st := h.store.Snapshot()
	assert.Empty(t, st.LoadError)
	require.Len(t, st.Documents.General, 1)
	assert.Equal(t, "general-1", st.Documents.General[0].ID)
	require.Len(t, st.Documents.Facilities["3"], 1)
	assert.Equal(t, "plant-1", st.Documents.Facilities["3"][0].ID)
}

func TestDocumentStore_Load_Bucketing(t *testing.T) {
	h := newHarness(t, harnessOpts{
		facilities: []string{"3", "4"},
		script: returning(
			model.DocumentRow{ID: "a", FacilityID: "3"},
			model.DocumentRow{ID: "b"},
			model.DocumentRow{ID: "c", FacilityID: "99"},
		),
	})

	require.NoError(t, h.store.Load(context.Background(), false))

	docs := h.store.Snapshot().Documents
	assert.Equal(t, []string{"a"}, ids(docs.Facilities["3"]))
	assert.Empty(t, docs.Facilities["4"])
	assert.Equal(t, []string{"b", "c"}, ids(docs.General), "unknown facilities fall back to general")
	_, hasUnknown := docs.Facilities["99"]
	assert.False(t, hasUnknown)
	assert.Equal(t, []string{"a"}, ids(h.store.FacilityDocuments("3")))
}

func TestDocumentStore_Load_DirectoryFailureTrustsRows(t *testing.T) {
	h := newHarness(t, harnessOpts{script: returning(model.DocumentRow{ID: "a", FacilityID: "3"})})
	h.store.deps.Facilities = staticDirectory{err: errors.New("db down")}

	require.NoError(t, h.store.Load(context.Background(), false))

	assert.Equal(t, []string{"a"}, ids(h.store.Snapshot().Documents.Facilities["3"]))
}

func TestDocumentStore_Load_ReentrantCallIsNoop(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	h := newHarness(t, harnessOpts{script: func(ctx context.Context, n int) ([]model.DocumentRow, error) {
		close(started)
		<-release
		return []model.DocumentRow{{ID: "x"}}, nil
	}})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- h.store.Load(ctx, false) }()
	<-started

	assert.NoError(t, h.store.Load(ctx, false))
	assert.True(t, h.store.Snapshot().IsLoading)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, h.fetcher.Calls())
	assert.NoError(t, h.store.Load(ctx, false), "a loaded store ignores non-forced loads")
	assert.Equal(t, 1, h.fetcher.Calls())
}

func TestDocumentStore_Load_SupersededResultDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	h := newHarness(t, harnessOpts{script: func(ctx context.Context, n int) ([]model.DocumentRow, error) {
		if n == 1 {
			close(firstStarted)
			<-releaseFirst
			return []model.DocumentRow{{ID: "old"}}, nil
		}
		return []model.DocumentRow{{ID: "new"}}, nil
	}})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- h.store.Load(ctx, true) }()
	<-firstStarted

	require.NoError(t, h.store.Load(ctx, true))
	close(releaseFirst)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"new"}, ids(h.store.Snapshot().Documents.General))
}

// gatedCache holds the first Read until release is closed.
type gatedCache struct {
	cache.LocalCache
	reading chan struct{}
	release chan struct{}
}

func (g *gatedCache) Read(ctx context.Context) *model.CacheEntry {
	entry := g.LocalCache.Read(ctx)
	close(g.reading)
	<-g.release
	return entry
}

func TestDocumentStore_Load_SupersededCacheHitDiscarded(t *testing.T) {
	h := newHarness(t, harnessOpts{script: returning(model.DocumentRow{ID: "new"})})
	h.seedCache(t, collectionOf(2), 10*time.Minute)
	gate := &gatedCache{LocalCache: h.cache, reading: make(chan struct{}), release: make(chan struct{})}
	h.store.deps.Cache = gate
	var logs bytes.Buffer
	h.store.log = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- h.store.Load(ctx, false) }()
	<-gate.reading

	require.NoError(t, h.store.Load(ctx, true))
	close(gate.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"new"}, ids(h.store.Snapshot().Documents.General))
	assert.NotContains(t, logs.String(), "documents_cache_hit")
	assert.Contains(t, logs.String(), "discarding superseded cache hit")
}

func TestDocumentStore_Load_OuterReloadCeiling(t *testing.T) {
	h := newHarness(t, harnessOpts{script: alwaysFail, reloads: 3, delay: 5 * time.Millisecond})

	_ = h.store.Load(context.Background(), false)

	assert.Eventually(t, func() bool { return h.fetcher.Calls() == 9 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 9, h.fetcher.Calls(), "three loads of three attempts, then stop")

	require.NoError(t, h.store.Load(context.Background(), false))
	assert.Equal(t, 9, h.fetcher.Calls(), "a non-forced load after the ceiling does nothing")
	assert.NotEmpty(t, h.store.Snapshot().LoadError)
}

func TestDocumentStore_Load_OuterReloadRecovers(t *testing.T) {
	h := newHarness(t, harnessOpts{
		reloads: 3,
		delay:   5 * time.Millisecond,
		script: func(ctx context.Context, n int) ([]model.DocumentRow, error) {
			if n <= 3 {
				return nil, errors.New("outage")
			}
			return []model.DocumentRow{{ID: "back"}}, nil
		},
	})

	_ = h.store.Load(context.Background(), false)

	assert.Eventually(t, func() bool {
		return h.store.Snapshot().Status == StatusLoaded
	}, 2*time.Second, 5*time.Millisecond)
	st := h.store.Snapshot()
	assert.Empty(t, st.LoadError)
	assert.Equal(t, []string{"back"}, ids(st.Documents.General))
}

func TestDocumentStore_Close_CancelsScheduledReload(t *testing.T) {
	h := newHarness(t, harnessOpts{script: alwaysFail, reloads: 3, delay: 20 * time.Millisecond})

	_ = h.store.Load(context.Background(), false)
	require.Equal(t, 3, h.fetcher.Calls())
	h.store.Close()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 3, h.fetcher.Calls(), "no reload after Close")
	assert.Equal(t, StatusFailed, h.store.Snapshot().Status)
}

func TestDocumentStore_Load_CanceledContextDoesNotFailStore(t *testing.T) {
	h := newHarness(t, harnessOpts{script: func(ctx context.Context, n int) ([]model.DocumentRow, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.store.Load(ctx, false)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusIdle, h.store.Snapshot().Status)
}

func TestDocumentStore_Add(t *testing.T) {
	ctx := context.Background()
	echo := func(r model.DocumentRow) model.DocumentRow { return r }

	tests := []struct {
		name       string
		draft      DocumentDraft
		file       *Upload
		setupMocks func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage)
		wantErr    error
		check      func(t *testing.T, doc model.Document, st State)
	}{
		{
			name:  "metadata only",
			draft: DocumentDraft{Title: "Market outlook", URL: "https://example.com/outlook"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Upsert", ctx, mock.MatchedBy(func(r model.DocumentRow) bool {
					return r.ID != "" && r.Type == "report" && r.Format == "external_link" && r.Author == "Unknown"
				})).Return(echo, nil)
			},
			check: func(t *testing.T, doc model.Document, st State) {
				assert.Equal(t, model.FormatExternalLink, doc.Format)
				assert.Equal(t, testNow, doc.UploadDate)
				assert.Equal(t, []string{doc.ID}, ids(st.Documents.General))
			},
		},
		{
			name:  "pdf upload attached",
			draft: DocumentDraft{Title: "Plant Tour 2025", Type: "case study", FacilityID: "3"},
			file:  &Upload{Name: "tour.PDF", ContentType: "application/pdf", Size: 4, Body: strings.NewReader("%PDF")},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Upsert", ctx, mock.MatchedBy(func(r model.DocumentRow) bool {
					return r.Format == "pdf" && r.FacilityID == "3"
				})).Return(echo, nil)
				key := "documents/1742488275000_plant_tour_2025.pdf"
				mStore.On("Put", ctx, key, mock.Anything, storage.PutObjectOptions{
					Size:        4,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "tour.PDF"},
				}).Return(storage.ObjectInfo{Key: key}, nil)
				mStore.On("PublicURL", ctx, key).Return("https://cdn/documents/"+key, nil)
				mRepo.On("AttachFile", ctx, mock.Anything, "https://cdn/documents/"+key, key, model.FormatPDF).Return(nil)
			},
			check: func(t *testing.T, doc model.Document, st State) {
				assert.Equal(t, "documents/1742488275000_plant_tour_2025.pdf", doc.StoragePath)
				assert.Equal(t, model.TypeCaseStudy, doc.Type)
				assert.True(t, strings.HasPrefix(doc.URL, "https://cdn/"))
				require.Len(t, st.Documents.Facilities["3"], 1)
				assert.Equal(t, doc, st.Documents.Facilities["3"][0])
			},
		},
		{
			name:  "upload failure keeps the record",
			draft: DocumentDraft{Title: "X", Type: "report"},
			file:  &Upload{Name: "x.pdf", Size: 1, Body: strings.NewReader("x")},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Upsert", ctx, mock.Anything).Return(echo, nil)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("quota exceeded"))
			},
			check: func(t *testing.T, doc model.Document, st State) {
				assert.Equal(t, model.FormatPDF, doc.Format)
				assert.Empty(t, doc.URL)
				assert.Empty(t, doc.StoragePath)
				assert.Len(t, st.Documents.General, 1)
			},
		},
		{
			name:  "metadata write failure",
			draft: DocumentDraft{Title: "X"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Upsert", ctx, mock.Anything).Return(model.DocumentRow{}, errors.New("unique violation"))
			},
			wantErr: &PersistenceError{},
			check: func(t *testing.T, doc model.Document, st State) {
				assert.Zero(t, st.Documents.Len())
			},
		},
		{
			name:       "unknown type",
			draft:      DocumentDraft{Title: "X", Type: "memo"},
			setupMocks: func(*repoMocks.MockDocumentRepository, *storeMocks.MockStorage) {},
			wantErr:    ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, harnessOpts{facilities: []string{"3"}})
			tt.setupMocks(h.repo, h.blobs)

			doc, err := h.store.Add(ctx, tt.draft, tt.file)

			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
			case *PersistenceError:
				var pe *PersistenceError
				assert.ErrorAs(t, err, &pe)
			default:
				assert.ErrorIs(t, err, want)
			}
			if tt.check != nil {
				tt.check(t, doc, h.store.Snapshot())
			}
			h.repo.AssertExpectations(t)
			h.blobs.AssertExpectations(t)
		})
	}
}

func TestDocumentStore_Add_WritesThroughCache(t *testing.T) {
	h := newHarness(t, harnessOpts{})
	ctx := context.Background()
	require.NoError(t, h.store.Load(ctx, false))
	h.repo.On("Upsert", ctx, mock.Anything).Return(func(r model.DocumentRow) model.DocumentRow { return r }, nil)

	doc, err := h.store.Add(ctx, DocumentDraft{Title: "Cached"}, nil)
	require.NoError(t, err)

	entry := h.cache.Read(ctx)
	require.NotNil(t, entry)
	assert.Equal(t, []string{doc.ID}, ids(entry.Data.General))
}

func TestDocumentStore_Add_BeforeFirstLoadLeavesCacheEmpty(t *testing.T) {
	h := newHarness(t, harnessOpts{script: returning(
		model.DocumentRow{ID: "r1"}, model.DocumentRow{ID: "r2"}, model.DocumentRow{ID: "r3"},
	)})
	ctx := context.Background()
	h.repo.On("Upsert", ctx, mock.Anything).Return(func(r model.DocumentRow) model.DocumentRow { return r }, nil)

	_, err := h.store.Add(ctx, DocumentDraft{Title: "Early"}, nil)
	require.NoError(t, err)
	assert.Nil(t, h.cache.Read(ctx))

	require.NoError(t, h.store.Load(ctx, false))

	assert.Equal(t, 1, h.fetcher.Calls())
	st := h.store.Snapshot()
	assert.Equal(t, StatusLoaded, st.Status)
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(st.Documents.General))
}

func TestDocumentStore_Add_UnknownFacilityJoinsGeneral(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		directory   staticDirectory
		wantGeneral int
		wantBucket  int
	}{
		{name: "unknown facility", directory: staticDirectory{ids: []string{"3"}}, wantGeneral: 1},
		{name: "known facility", directory: staticDirectory{ids: []string{"3", "9"}}, wantBucket: 1},
		{name: "directory unavailable", directory: staticDirectory{err: errors.New("db down")}, wantBucket: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, harnessOpts{})
			h.store.deps.Facilities = tt.directory
			h.repo.On("Upsert", ctx, mock.Anything).Return(func(r model.DocumentRow) model.DocumentRow { return r }, nil)

			doc, err := h.store.Add(ctx, DocumentDraft{Title: "Orphan", FacilityID: "9"}, nil)
			require.NoError(t, err)

			assert.Equal(t, "9", doc.FacilityID)
			docs := h.store.Snapshot().Documents
			assert.Len(t, docs.General, tt.wantGeneral)
			assert.Len(t, docs.Facilities["9"], tt.wantBucket)
		})
	}
}

func TestDocumentStore_Remove(t *testing.T) {
	authed := auth.WithActor(context.Background(), auth.Actor{ID: "user-1"})

	seed := model.NewDocumentCollection("3", "4").
		WithDocument(model.Document{ID: "dup", FacilityID: "3", StoragePath: "documents/dup.pdf"}).
		WithDocument(model.Document{ID: "dup", FacilityID: "4"}).
		WithDocument(model.Document{ID: "dup"}).
		WithDocument(model.Document{ID: "keep"})

	tests := []struct {
		name        string
		ctx         context.Context
		id          string
		facilityID  string
		storagePath string
		setupMocks  func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage)
		wantErr     error
		wantLeft    int
	}{
		{
			name:       "unauthenticated",
			ctx:        context.Background(),
			id:         "dup",
			setupMocks: func(*repoMocks.MockDocumentRepository, *storeMocks.MockStorage) {},
			wantErr:    ErrUnauthorized,
			wantLeft:   4,
		},
		{
			name:       "recovers storage path from facility bucket",
			ctx:        authed,
			id:         "dup",
			facilityID: "3",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Delete", authed, "dup").Return(nil)
				mStore.On("Delete", authed, "documents/dup.pdf").Return(nil)
			},
			wantLeft: 1,
		},
		{
			name:        "blob delete failure is not fatal",
			ctx:         authed,
			id:          "dup",
			storagePath: "documents/other.pdf",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Delete", authed, "dup").Return(nil)
				mStore.On("Delete", authed, "documents/other.pdf").Return(errors.New("no such key"))
			},
			wantLeft: 1,
		},
		{
			name: "no storage path skips blob delete",
			ctx:  authed,
			id:   "keep",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Delete", authed, "keep").Return(nil)
			},
			wantLeft: 3,
		},
		{
			name: "metadata delete failure",
			ctx:  authed,
			id:   "dup",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository, mStore *storeMocks.MockStorage) {
				mRepo.On("Delete", authed, "dup").Return(errors.New("timeout"))
			},
			wantErr:  errors.New("timeout"),
			wantLeft: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, harnessOpts{})
			h.store.docs = seed.Clone()
			tt.setupMocks(h.repo, h.blobs)

			err := h.store.Remove(tt.ctx, tt.id, tt.facilityID, tt.storagePath)

			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				_, _, found := h.store.Snapshot().Documents.Find(tt.id, "")
				assert.False(t, found, "no bucket may keep a removed document")
			case errors.Is(tt.wantErr, ErrUnauthorized):
				var ae *AuthorizationError
				assert.ErrorAs(t, err, &ae)
				assert.ErrorIs(t, err, ErrUnauthorized)
			default:
				var pe *PersistenceError
				require.ErrorAs(t, err, &pe)
				assert.EqualError(t, pe.Err, tt.wantErr.Error())
			}
			assert.Equal(t, tt.wantLeft, h.store.Snapshot().Documents.Len())
			h.repo.AssertExpectations(t)
			h.blobs.AssertExpectations(t)
		})
	}
}

func TestDocumentStore_Remove_BeforeFirstLoadLeavesCacheEmpty(t *testing.T) {
	ctx := auth.WithActor(context.Background(), auth.Actor{ID: "user-1"})
	h := newHarness(t, harnessOpts{})
	h.repo.On("Delete", ctx, "gone").Return(nil)

	require.NoError(t, h.store.Remove(ctx, "gone", "", ""))

	assert.Nil(t, h.cache.Read(ctx))
	h.repo.AssertExpectations(t)
}

func TestDocumentStore_SnapshotIsACopy(t *testing.T) {
	h := newHarness(t, harnessOpts{script: returning(model.DocumentRow{ID: "a", Title: "orig"})})
	require.NoError(t, h.store.Load(context.Background(), false))

	st := h.store.Snapshot()
	st.Documents.General[0].Title = "mutated"

	assert.Equal(t, "orig", h.store.Snapshot().Documents.General[0].Title)
}

func ids(docs []model.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}
