// Package lifecycle orchestrates the offline life of a resource on the
// client: download, playback, status, and deletion.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eduvault/eduvault/internal/client/api"
	"github.com/eduvault/eduvault/internal/client/cache"
	"github.com/eduvault/eduvault/internal/client/playback"
	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	apperrors "github.com/eduvault/eduvault/internal/errors"
	offlineDomain "github.com/eduvault/eduvault/internal/offline/domain"
)

// APIClient is the server binding the manager drives.
type APIClient interface {
	IssueDownloadToken(ctx context.Context, resourceID string) (*api.TokenGrant, error)
	IssueDecryptToken(ctx context.Context, resourceID string) (*api.TokenGrant, error)
	RedeemDownload(ctx context.Context, token string) ([]byte, error)
	RedeemDecrypt(ctx context.Context, token string) (string, error)
	RegisterDownload(ctx context.Context, resourceID string) (*api.OfflineRecord, error)
	TouchOfflineRecord(ctx context.Context, resourceID string) (*api.OfflineRecord, error)
	DeleteOfflineRecord(ctx context.Context, resourceID string) error
}

// CacheStore is the local encrypted cache the manager owns.
type CacheStore interface {
	Put(resourceID string, blob []byte, meta cache.Metadata) error
	Get(resourceID string) ([]byte, error)
	GetMetadata(resourceID string) (*cache.Metadata, error)
	SetMetadata(resourceID string, meta cache.Metadata) error
	Delete(resourceID string) error
	List() ([]*cache.Metadata, error)
}

// Player decrypts a blob and streams it into a sink.
type Player interface {
	DecryptAndPlay(blob contentDomain.EncryptedBlob, accessKey string, sink playback.Sink) error
}

// ResourceMetadata is the catalog information recorded alongside a download.
type ResourceMetadata struct {
	Title         string
	ResourceType  string
	FileSizeBytes int64
}

// CachedResource is one cache entry with its derived status.
type CachedResource struct {
	Metadata cache.Metadata
	Status   offlineDomain.Status
}

// PartialDeleteError reports a delete that removed one side but not the
// other. The caller should retry the delete; the failed side is named so the
// inconsistency is never silent.
type PartialDeleteError struct {
	RemoteErr error
	LocalErr  error
}

// Error describes which side of the delete failed.
func (e *PartialDeleteError) Error() string {
	switch {
	case e.RemoteErr != nil && e.LocalErr != nil:
		return fmt.Sprintf("delete failed on both sides: remote: %v; local: %v", e.RemoteErr, e.LocalErr)
	case e.RemoteErr != nil:
		return fmt.Sprintf("local cache entry deleted but remote record removal failed: %v", e.RemoteErr)
	default:
		return fmt.Sprintf("remote record deleted but local cache removal failed: %v", e.LocalErr)
	}
}

// Manager drives the per-resource offline state machine. All shared state is
// scoped to a single resource id; downloads for different resources proceed
// in parallel while concurrent downloads of the same resource coalesce onto
// one in-flight operation.
type Manager struct {
	api       APIClient
	cache     CacheStore
	player    Player
	retention time.Duration
	downloads singleflight.Group
	logger    *slog.Logger
}

// NewManager creates a lifecycle manager.
func NewManager(
	apiClient APIClient,
	cacheStore CacheStore,
	player Player,
	retention time.Duration,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		api:       apiClient,
		cache:     cacheStore,
		player:    player,
		retention: retention,
		logger:    logger,
	}
}

// Download fetches the resource's encrypted blob and caches it.
//
// Concurrent calls for the same resource attach to the first in-flight
// download: one token issuance, one transfer, one cache write. Nothing is
// retried on failure; the caller decides, since a blind retry would burn
// fresh single-use tokens.
func (m *Manager) Download(
	ctx context.Context,
	resourceID string,
	meta ResourceMetadata,
) (*CachedResource, error) {
	result, err, _ := m.downloads.Do(resourceID, func() (any, error) {
		return m.download(ctx, resourceID, meta)
	})
	if err != nil {
		return nil, err
	}
	return result.(*CachedResource), nil
}

func (m *Manager) download(
	ctx context.Context,
	resourceID string,
	meta ResourceMetadata,
) (*CachedResource, error) {
	grant, err := m.api.IssueDownloadToken(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	blob, err := m.api.RedeemDownload(ctx, grant.Token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := cache.Metadata{
		ResourceID:    resourceID,
		Title:         meta.Title,
		ResourceType:  meta.ResourceType,
		FileSizeBytes: meta.FileSizeBytes,
		DownloadedAt:  now,
		ExpiresAt:     now.Add(m.retention),
		LastAccessed:  now,
	}

	if err := m.cache.Put(resourceID, blob, entry); err != nil {
		return nil, err
	}

	// The cache entry exists; only now does the server-side record appear. If
	// registration fails the cache entry is rolled back so the two sides never
	// disagree about what was downloaded.
	record, err := m.api.RegisterDownload(ctx, resourceID)
	if err != nil {
		if cleanupErr := m.cache.Delete(resourceID); cleanupErr != nil {
			m.logger.Warn("failed to roll back cache entry",
				slog.String("resource_id", resourceID),
				slog.Any("error", cleanupErr))
		}
		return nil, err
	}

	// Align the local expiry clock with the server's record.
	entry.DownloadedAt = record.DownloadedAt
	entry.ExpiresAt = record.ExpiresAt
	if err := m.cache.SetMetadata(resourceID, entry); err != nil {
		return nil, err
	}

	m.logger.Info("resource downloaded",
		slog.String("resource_id", resourceID),
		slog.Int("blob_size_bytes", len(blob)),
	)

	return &CachedResource{
		Metadata: entry,
		Status:   statusAt(entry, time.Now().UTC()),
	}, nil
}

// Play decrypts the cached blob and streams it into the sink.
//
// The decrypt credential is fetched fresh for every play and discarded when
// the call returns. A delete racing this play is tolerated: the cache read
// fails with ErrResourceNotCached instead of crashing. Expiry is not checked
// here; an expired resource stays playable until the user deletes it.
func (m *Manager) Play(ctx context.Context, resourceID string, sink playback.Sink) error {
	blob, err := m.cache.Get(resourceID)
	if err != nil {
		return err
	}

	grant, err := m.api.IssueDecryptToken(ctx, resourceID)
	if err != nil {
		return err
	}

	accessKey, err := m.api.RedeemDecrypt(ctx, grant.Token)
	if err != nil {
		return err
	}

	if err := m.player.DecryptAndPlay(blob, accessKey, sink); err != nil {
		return err
	}

	m.touchAfterPlay(ctx, resourceID)
	return nil
}

// touchAfterPlay updates last-access bookkeeping on both sides. Playback has
// already succeeded at this point, so bookkeeping failures are logged rather
// than returned.
func (m *Manager) touchAfterPlay(ctx context.Context, resourceID string) {
	now := time.Now().UTC()

	meta, err := m.cache.GetMetadata(resourceID)
	if err == nil {
		meta.LastAccessed = now
		if err := m.cache.SetMetadata(resourceID, *meta); err != nil {
			m.logger.Warn("failed to update local last access",
				slog.String("resource_id", resourceID),
				slog.Any("error", err))
		}
	}

	if _, err := m.api.TouchOfflineRecord(ctx, resourceID); err != nil {
		m.logger.Warn("failed to update remote last access",
			slog.String("resource_id", resourceID),
			slog.Any("error", err))
	}
}

// Delete removes the remote record and the local cache entry together.
//
// A missing remote record counts as deleted. If exactly one side fails the
// error names it so the caller can retry that side; success is only reported
// when both sides are gone.
func (m *Manager) Delete(ctx context.Context, resourceID string) error {
	remoteErr := m.api.DeleteOfflineRecord(ctx, resourceID)
	if remoteErr != nil && apperrors.Is(remoteErr, apperrors.ErrNotFound) {
		remoteErr = nil
	}

	localErr := m.cache.Delete(resourceID)

	if remoteErr == nil && localErr == nil {
		return nil
	}
	return &PartialDeleteError{RemoteErr: remoteErr, LocalErr: localErr}
}

// ListCachedResources returns every cached entry with its current status.
// Pure local read, safe to call on every list render.
func (m *Manager) ListCachedResources() ([]*CachedResource, error) {
	entries, err := m.cache.List()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resources := make([]*CachedResource, 0, len(entries))
	for _, entry := range entries {
		resources = append(resources, &CachedResource{
			Metadata: *entry,
			Status:   statusAt(*entry, now),
		})
	}
	return resources, nil
}

// RefreshStatus recomputes the status of one cached resource. Pure function
// of the stored expiry and the clock; no network call, idempotent.
func (m *Manager) RefreshStatus(resourceID string) (*CachedResource, error) {
	meta, err := m.cache.GetMetadata(resourceID)
	if err != nil {
		return nil, err
	}
	return &CachedResource{
		Metadata: *meta,
		Status:   statusAt(*meta, time.Now().UTC()),
	}, nil
}

// statusAt derives active vs expired from the stored expiry. Expired from the
// expiry instant onward.
func statusAt(meta cache.Metadata, now time.Time) offlineDomain.Status {
	if now.Before(meta.ExpiresAt) {
		return offlineDomain.StatusActive
	}
	return offlineDomain.StatusExpired
}
