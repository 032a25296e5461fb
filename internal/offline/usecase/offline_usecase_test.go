package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduvault/eduvault/internal/config"
	offlineDomain "github.com/eduvault/eduvault/internal/offline/domain"
)

// memoryOfflineRepository is an in-memory OfflineRepository keyed by
// (principal, resource).
type memoryOfflineRepository struct {
	mu      sync.Mutex
	records map[string]*offlineDomain.OfflineRecord
}

func newMemoryOfflineRepository() *memoryOfflineRepository {
	return &memoryOfflineRepository{records: make(map[string]*offlineDomain.OfflineRecord)}
}

func key(principalID string, resourceID uuid.UUID) string {
	return principalID + "/" + resourceID.String()
}

func (r *memoryOfflineRepository) Upsert(_ context.Context, record *offlineDomain.OfflineRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *record
	r.records[key(record.PrincipalID, record.ResourceID)] = &stored
	return nil
}

func (r *memoryOfflineRepository) Get(
	_ context.Context, principalID string, resourceID uuid.UUID,
) (*offlineDomain.OfflineRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key(principalID, resourceID)]
	if !ok {
		return nil, offlineDomain.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *memoryOfflineRepository) ListByPrincipal(
	_ context.Context, principalID string,
) ([]*offlineDomain.OfflineRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*offlineDomain.OfflineRecord
	for _, record := range r.records {
		if record.PrincipalID == principalID {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryOfflineRepository) Touch(
	_ context.Context, principalID string, resourceID uuid.UUID, accessedAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key(principalID, resourceID)]
	if !ok {
		return offlineDomain.ErrRecordNotFound
	}
	record.LastAccessedAt = accessedAt
	return nil
}

func (r *memoryOfflineRepository) Delete(
	_ context.Context, principalID string, resourceID uuid.UUID,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[key(principalID, resourceID)]; !ok {
		return offlineDomain.ErrRecordNotFound
	}
	delete(r.records, key(principalID, resourceID))
	return nil
}

func newOfflineFixture() (*memoryOfflineRepository, OfflineUseCase) {
	repo := newMemoryOfflineRepository()
	cfg := &config.Config{OfflineRetention: 7 * 24 * time.Hour}
	return repo, NewOfflineUseCase(cfg, repo)
}

func TestOfflineUseCase_RegisterDownload(t *testing.T) {
	ctx := context.Background()
	_, uc := newOfflineFixture()
	resourceID := uuid.Must(uuid.NewV7())

	status, err := uc.RegisterDownload(ctx, "student-1", resourceID)
	require.NoError(t, err)

	assert.Equal(t, offlineDomain.StatusActive, status.Status)
	assert.Equal(t, resourceID, status.Record.ResourceID)
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), status.ExpiresAt, 5*time.Second)
}

func TestOfflineUseCase_RedownloadRestartsRetention(t *testing.T) {
	ctx := context.Background()
	repo, uc := newOfflineFixture()
	resourceID := uuid.Must(uuid.NewV7())

	first, err := uc.RegisterDownload(ctx, "student-1", resourceID)
	require.NoError(t, err)

	// Age the stored record close to expiry, then re-download.
	repo.mu.Lock()
	record := repo.records[key("student-1", resourceID)]
	record.DownloadedAt = record.DownloadedAt.Add(-6 * 24 * time.Hour)
	repo.mu.Unlock()

	second, err := uc.RegisterDownload(ctx, "student-1", resourceID)
	require.NoError(t, err)

	assert.True(t, second.ExpiresAt.After(first.ExpiresAt.Add(-time.Minute)))
	assert.Equal(t, offlineDomain.StatusActive, second.Status)
}

func TestOfflineUseCase_ExpiryIsStatusNotEviction(t *testing.T) {
	ctx := context.Background()
	repo, uc := newOfflineFixture()
	resourceID := uuid.Must(uuid.NewV7())

	_, err := uc.RegisterDownload(ctx, "student-1", resourceID)
	require.NoError(t, err)

	// Age the record past the retention window.
	repo.mu.Lock()
	record := repo.records[key("student-1", resourceID)]
	record.DownloadedAt = record.DownloadedAt.Add(-8 * 24 * time.Hour)
	repo.mu.Unlock()

	status, err := uc.Get(ctx, "student-1", resourceID)
	require.NoError(t, err)
	assert.Equal(t, offlineDomain.StatusExpired, status.Status)

	// Touching an expired record still works.
	touched, err := uc.Touch(ctx, "student-1", resourceID)
	require.NoError(t, err)
	assert.Equal(t, offlineDomain.StatusExpired, touched.Status)

	// The record is still listed.
	list, err := uc.List(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, offlineDomain.StatusExpired, list[0].Status)
}

func TestOfflineUseCase_TouchDoesNotExtendRetention(t *testing.T) {
	ctx := context.Background()
	_, uc := newOfflineFixture()
	resourceID := uuid.Must(uuid.NewV7())

	registered, err := uc.RegisterDownload(ctx, "student-1", resourceID)
	require.NoError(t, err)

	touched, err := uc.Touch(ctx, "student-1", resourceID)
	require.NoError(t, err)

	assert.Equal(t, registered.ExpiresAt, touched.ExpiresAt)
}

func TestOfflineUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	_, uc := newOfflineFixture()
	resourceID := uuid.Must(uuid.NewV7())

	_, err := uc.RegisterDownload(ctx, "student-1", resourceID)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "student-1", resourceID))

	_, err = uc.Get(ctx, "student-1", resourceID)
	assert.ErrorIs(t, err, offlineDomain.ErrRecordNotFound)

	err = uc.Delete(ctx, "student-1", resourceID)
	assert.ErrorIs(t, err, offlineDomain.ErrRecordNotFound)
}
