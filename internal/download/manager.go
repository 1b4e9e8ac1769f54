package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/handiism/socrata-downloader/internal/activity"
	"github.com/handiism/socrata-downloader/internal/config"
	"github.com/handiism/socrata-downloader/internal/http"
	ioutils "github.com/handiism/socrata-downloader/internal/io"
	"github.com/handiism/socrata-downloader/internal/model"
	"github.com/handiism/socrata-downloader/internal/socrata"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ErrNotInitialized is returned by StartDownloads before a successful
// Initialize.
var ErrNotInitialized = errors.New("download: manager is not initialized")

// Manager coordinates the download of one domain.
type Manager struct {
	settings   *config.Settings
	endpoints  socrata.Endpoints
	httpClient *http.Client
	catalogs   *socrata.Client
	logger     *activity.Logger

	catalog *socrata.Catalog
	plan    *Plan

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32
	failedFiles     int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager. A nil logger discards the
// activity log. onProgress may be called from several goroutines at once.
func NewManager(settings *config.Settings, logger *activity.Logger, onProgress func(ProgressEvent)) *Manager {
	if logger == nil {
		logger = activity.Discard()
	}

	endpoints := settings.ToEndpoints()
	httpClient := http.NewClient(settings.ToHTTPOptions())

	return &Manager{
		settings:   settings,
		endpoints:  endpoints,
		httpClient: httpClient,
		catalogs:   socrata.NewClient(endpoints, httpClient),
		logger:     logger,
		onProgress: onProgress,
	}
}

// Initialize fetches the catalog and plans the downloads.
//
// A catalog that cannot be fetched is fatal: the error is returned and
// nothing is planned.
func (m *Manager) Initialize(ctx context.Context) error {
	if err := ioutils.EnsureDir(m.settings.OutputDir); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching catalog: %s", m.endpoints.CatalogURL()), Level: LevelVerbose})

	catalog, err := m.catalogs.FetchCatalog(ctx)
	if err != nil {
		m.logger.Record(activity.Entry{Event: activity.EventCatalogFailed, Detail: err.Error()})
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching catalog: %v", err), Level: LevelError})
		return err
	}

	snapshotPath := filepath.Join(m.settings.OutputDir, fmt.Sprintf("metadata_%s.json", time.Now().Format("20060102_150405")))
	plan := NewPlan(catalog.Assets, m.settings.OutputDir, PlanOptions{
		Reserved: []string{
			m.settings.LogPath(),
			filepath.Join(m.settings.OutputDir, ioutils.LockFileName),
			snapshotPath,
		},
		AssetMetadata: m.settings.SaveAssetMetadata,
	})

	m.logger.Record(activity.Entry{
		Event: activity.EventCatalogFetched,
		Detail: fmt.Sprintf("%d assets from %s: %d to download, %d unsupported, %d dropped",
			len(catalog.Assets), m.endpoints.CatalogURL(), len(plan.Tasks), len(plan.Skipped), len(catalog.Dropped)),
	})
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d assets (%d to download)", len(catalog.Assets), len(plan.Tasks)), Level: LevelInfo})

	for _, dropped := range catalog.Dropped {
		m.logger.Record(activity.Entry{
			Event:  activity.EventEntryDropped,
			Detail: fmt.Sprintf("entry %d: %s", dropped.Index, dropped.Reason),
		})
		m.progress(ProgressEvent{Message: fmt.Sprintf("Catalog entry %d ignored: %s", dropped.Index, dropped.Reason), Level: LevelWarning})
	}

	if m.settings.SaveCatalogSnapshot {
		m.saveSnapshot(ctx, snapshotPath, catalog)
	}

	for _, asset := range plan.Skipped {
		m.logger.Record(activity.Entry{
			Identifier: asset.ID,
			Event:      activity.EventSkipped,
			Detail:     fmt.Sprintf("unsupported asset type %q", asset.TypeHint),
		})
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s (%s): unsupported asset type %q", asset.ID, asset.Label(), asset.TypeHint), Level: LevelVerbose})
	}

	m.catalog = catalog
	m.plan = plan
	atomic.StoreInt32(&m.totalFiles, int32(len(plan.Tasks)))

	return nil
}

// StartDownloads downloads every planned task and returns the account of
// the run.
//
// Failed downloads do not make StartDownloads fail; they are counted in
// the Summary. An error is returned when the run could not start or when
// ctx was cancelled, in which case the Summary is still complete.
func (m *Manager) StartDownloads(ctx context.Context) (*Summary, error) {
	if m.plan == nil {
		return nil, ErrNotInitialized
	}

	lock, err := ioutils.LockDir(m.settings.OutputDir)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	worker := NewWorker(m.endpoints, m.httpClient, func(delta int64) {
		atomic.AddInt64(&m.receivedBytes, delta)
	})

	fetcher := FetcherFunc(func(ctx context.Context, task model.Task) model.Result {
		m.logger.Record(activity.Entry{
			Identifier: task.Asset.ID,
			Event:      activity.EventStarted,
			Detail:     fmt.Sprintf("%s -> %s", task.Asset.Kind, task.Path),
		})
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %s (%s)", task.Asset.ID, task.Asset.Label()), Level: LevelVerbose})
		return worker.Download(ctx, task)
	})

	pool, err := NewPool(PoolConfig{Concurrency: m.settings.Concurrency}, fetcher)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	summary := &Summary{Skipped: len(m.plan.Skipped)}

	for result := range pool.RunAll(ctx, m.plan.Tasks) {
		summary.add(result)
		m.recordResult(result)
	}

	summary.Duration = time.Since(start)
	m.logger.Record(activity.Entry{Event: activity.EventRunCompleted, Detail: summary.String()})

	if summary.Failed == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished: %s", summary), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished with failures: %s", summary), Level: LevelWarning})
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesDone, filesFailed, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles),
		atomic.LoadInt32(&m.failedFiles),
		atomic.LoadInt32(&m.totalFiles)
}

// Catalog returns the catalog fetched by Initialize, nil before.
func (m *Manager) Catalog() *socrata.Catalog {
	return m.catalog
}

// Plan returns the plan computed by Initialize, nil before.
func (m *Manager) Plan() *Plan {
	return m.plan
}

func (m *Manager) recordResult(result model.Result) {
	if result.Succeeded() {
		atomic.AddInt32(&m.downloadedFiles, 1)
		m.logger.Record(activity.Entry{
			Identifier: result.ID,
			Event:      activity.EventSucceeded,
			Detail:     fmt.Sprintf("%d bytes to %s", result.BytesWritten, result.Path),
		})
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(result.Path)), Level: LevelVerbose})
		return
	}

	atomic.AddInt32(&m.failedFiles, 1)
	m.logger.Record(activity.Entry{
		Identifier: result.ID,
		Event:      activity.EventFailed,
		Detail:     result.Err.Error(),
	})
	m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", result.ID, result.Err), Level: LevelError})
}

// saveSnapshot writes the raw catalog next to the downloads. Failures are
// reported but do not stop the run.
func (m *Manager) saveSnapshot(ctx context.Context, path string, catalog *socrata.Catalog) {
	if err := ioutils.WriteFile(ctx, path, catalog.Raw); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error saving catalog snapshot: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved catalog to %s", path), Level: LevelVerbose})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
