package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/eduvault/eduvault/internal/catalog/domain"
	"github.com/eduvault/eduvault/internal/config"
	contentDomain "github.com/eduvault/eduvault/internal/content/domain"
	apperrors "github.com/eduvault/eduvault/internal/errors"
	tokenDomain "github.com/eduvault/eduvault/internal/token/domain"
	tokenService "github.com/eduvault/eduvault/internal/token/service"
)

// memoryTokenRepository is an in-memory TokenRepository with the same atomic
// redemption semantics as the SQL implementations.
type memoryTokenRepository struct {
	mu     sync.Mutex
	byHash map[string]*tokenDomain.AccessToken
	byID   map[uuid.UUID]*tokenDomain.AccessToken
}

func newMemoryTokenRepository() *memoryTokenRepository {
	return &memoryTokenRepository{
		byHash: make(map[string]*tokenDomain.AccessToken),
		byID:   make(map[uuid.UUID]*tokenDomain.AccessToken),
	}
}

func (r *memoryTokenRepository) Create(_ context.Context, token *tokenDomain.AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *token
	r.byHash[token.TokenHash] = &stored
	r.byID[token.ID] = &stored
	return nil
}

func (r *memoryTokenRepository) GetByTokenHash(
	_ context.Context, tokenHash string,
) (*tokenDomain.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.byHash[tokenHash]
	if !ok {
		return nil, tokenDomain.ErrTokenNotFound
	}
	copied := *token
	return &copied, nil
}

func (r *memoryTokenRepository) Redeem(
	_ context.Context, tokenID uuid.UUID, redeemedAt time.Time,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.byID[tokenID]
	if !ok || token.RedeemedAt != nil {
		return false, nil
	}
	token.RedeemedAt = &redeemedAt
	return true, nil
}

func (r *memoryTokenRepository) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for hash, token := range r.byHash {
		if token.ExpiresAt.Before(cutoff) {
			delete(r.byHash, hash)
			delete(r.byID, token.ID)
			removed++
		}
	}
	return removed, nil
}

// mockChecker is a mock entitlement gate.
type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) IsEntitled(
	ctx context.Context, principalID string, resource *catalogDomain.Resource,
) (bool, error) {
	args := m.Called(ctx, principalID, resource)
	return args.Bool(0), args.Error(1)
}

// mockResourceUseCase is a mock catalog resolver.
type mockResourceUseCase struct {
	mock.Mock
}

func (m *mockResourceUseCase) Resolve(
	ctx context.Context, resourceID uuid.UUID,
) (*catalogDomain.Resource, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.Resource), args.Error(1)
}

// mockContentUseCase is a mock content store.
type mockContentUseCase struct {
	mock.Mock
}

func (m *mockContentUseCase) GetEncryptedContent(
	ctx context.Context, resourceID uuid.UUID,
) (contentDomain.EncryptedBlob, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(contentDomain.EncryptedBlob), args.Error(1)
}

// stubKeyUseCase returns a fixed access key.
type stubKeyUseCase struct{}

func (stubKeyUseCase) AccessKey(resourceID string) string { return "access-key-" + resourceID }
func (stubKeyUseCase) ContentKey(string) []byte           { return make([]byte, 32) }

type tokenFixture struct {
	repo      *memoryTokenRepository
	checker   *mockChecker
	resources *mockResourceUseCase
	content   *mockContentUseCase
	uc        TokenUseCase
}

func newTokenFixture() *tokenFixture {
	f := &tokenFixture{
		repo:      newMemoryTokenRepository(),
		checker:   &mockChecker{},
		resources: &mockResourceUseCase{},
		content:   &mockContentUseCase{},
	}
	cfg := &config.Config{AccessTokenTTL: 300 * time.Second}
	f.uc = NewTokenUseCase(
		cfg,
		f.repo,
		tokenService.NewTokenService(),
		f.checker,
		f.resources,
		f.content,
		stubKeyUseCase{},
	)
	return f
}

func entitledResource(f *tokenFixture, ctx context.Context, principalID string) *catalogDomain.Resource {
	resource := &catalogDomain.Resource{
		ID:    uuid.Must(uuid.NewV7()),
		URL:   "lectures/201.mp4",
		Type:  catalogDomain.ResourceTypeVideo,
		Title: "Lecture 201",
	}
	f.resources.On("Resolve", ctx, resource.ID).Return(resource, nil)
	f.checker.On("IsEntitled", ctx, principalID, resource).Return(true, nil)
	return resource
}

func TestTokenUseCase_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a token for an entitled principal", func(t *testing.T) {
		f := newTokenFixture()
		resource := entitledResource(f, ctx, "student-1")

		issued, err := f.uc.Issue(ctx, "student-1", resource.ID, tokenDomain.PurposeDownload)

		require.NoError(t, err)
		assert.NotEmpty(t, issued.Token)
		assert.WithinDuration(t, time.Now().UTC().Add(300*time.Second), issued.ExpiresAt, 5*time.Second)
	})

	t.Run("rejects a principal without entitlement", func(t *testing.T) {
		f := newTokenFixture()
		resource := &catalogDomain.Resource{ID: uuid.Must(uuid.NewV7())}
		f.resources.On("Resolve", ctx, resource.ID).Return(resource, nil)
		f.checker.On("IsEntitled", ctx, "student-2", resource).Return(false, nil)

		issued, err := f.uc.Issue(ctx, "student-2", resource.ID, tokenDomain.PurposeDownload)

		assert.ErrorIs(t, err, apperrors.ErrNotEntitled)
		assert.Nil(t, issued)
	})

	t.Run("rejects an unknown resource", func(t *testing.T) {
		f := newTokenFixture()
		resourceID := uuid.Must(uuid.NewV7())
		f.resources.On("Resolve", ctx, resourceID).Return(nil, catalogDomain.ErrResourceNotFound)

		issued, err := f.uc.Issue(ctx, "student-1", resourceID, tokenDomain.PurposeDownload)

		assert.ErrorIs(t, err, catalogDomain.ErrResourceNotFound)
		assert.Nil(t, issued)
	})

	t.Run("rejects an unknown purpose", func(t *testing.T) {
		f := newTokenFixture()

		issued, err := f.uc.Issue(ctx, "student-1", uuid.Must(uuid.NewV7()), tokenDomain.Purpose("stream"))

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Nil(t, issued)
	})
}

func TestTokenUseCase_RedeemDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("redeems once and returns the blob", func(t *testing.T) {
		f := newTokenFixture()
		resource := entitledResource(f, ctx, "student-1")
		blob := contentDomain.EncryptedBlob("encrypted bytes")
		f.content.On("GetEncryptedContent", ctx, resource.ID).Return(blob, nil).Once()

		issued, err := f.uc.Issue(ctx, "student-1", resource.ID, tokenDomain.PurposeDownload)
		require.NoError(t, err)

		got, err := f.uc.RedeemDownload(ctx, issued.Token)
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("second redemption fails", func(t *testing.T) {
		f := newTokenFixture()
		resource := entitledResource(f, ctx, "student-1")
		f.content.On("GetEncryptedContent", ctx, resource.ID).
			Return(contentDomain.EncryptedBlob("encrypted bytes"), nil)

		issued, err := f.uc.Issue(ctx, "student-1", resource.ID, tokenDomain.PurposeDownload)
		require.NoError(t, err)

		_, err = f.uc.RedeemDownload(ctx, issued.Token)
		require.NoError(t, err)

		blob, err := f.uc.RedeemDownload(ctx, issued.Token)
		assert.ErrorIs(t, err, apperrors.ErrTokenAlreadyUsed)
		assert.Nil(t, blob)
	})

	t.Run("concurrent redemption succeeds exactly once", func(t *testing.T) {
		f := newTokenFixture()
		resource := entitledResource(f, ctx, "student-1")
		f.content.On("GetEncryptedContent", ctx, resource.ID).
			Return(contentDomain.EncryptedBlob("encrypted bytes"), nil)

		issued, err := f.uc.Issue(ctx, "student-1", resource.ID, tokenDomain.PurposeDownload)
		require.NoError(t, err)

		const workers = 8
		errs := make([]error, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = f.uc.RedeemDownload(ctx, issued.Token)
			}()
		}
		wg.Wait()

		var succeeded, alreadyUsed int
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case apperrors.Is(err, apperrors.ErrTokenAlreadyUsed):
				alreadyUsed++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, workers-1, alreadyUsed)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newTokenFixture()

		blob, err := f.uc.RedeemDownload(ctx, "no-such-token")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Nil(t, blob)
	})

	t.Run("purpose mismatch does not burn the token", func(t *testing.T) {
		f := newTokenFixture()
		resource := entitledResource(f, ctx, "student-1")

		issued, err := f.uc.Issue(ctx, "student-1", resource.ID, tokenDomain.PurposeDecrypt)
		require.NoError(t, err)

		blob, err := f.uc.RedeemDownload(ctx, issued.Token)
		assert.ErrorIs(t, err, apperrors.ErrTokenPurposeMismatch)
		assert.Nil(t, blob)

		// Still redeemable for its actual purpose.
		accessKey, err := f.uc.RedeemDecrypt(ctx, issued.Token)
		require.NoError(t, err)
		assert.Equal(t, "access-key-"+resource.ID.String(), accessKey)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newTokenFixture()
		resource := entitledResource(f, ctx, "student-1")

		issued, err := f.uc.Issue(ctx, "student-1", resource.ID, tokenDomain.PurposeDownload)
		require.NoError(t, err)

		// Age the stored token past its expiry.
		f.repo.mu.Lock()
		for _, token := range f.repo.byID {
			token.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		}
		f.repo.mu.Unlock()

		blob, err := f.uc.RedeemDownload(ctx, issued.Token)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
		assert.Nil(t, blob)
	})
}

func TestTokenUseCase_RedeemDecrypt(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture()
	resource := entitledResource(f, ctx, "student-1")

	issued, err := f.uc.Issue(ctx, "student-1", resource.ID, tokenDomain.PurposeDecrypt)
	require.NoError(t, err)

	accessKey, err := f.uc.RedeemDecrypt(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "access-key-"+resource.ID.String(), accessKey)

	_, err = f.uc.RedeemDecrypt(ctx, issued.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenAlreadyUsed)
}

func TestTokenUseCase_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture()
	resource := entitledResource(f, ctx, "student-1")
	f.content.On("GetEncryptedContent", ctx, resource.ID).
		Return(contentDomain.EncryptedBlob("encrypted bytes"), nil)

	issued, err := f.uc.Issue(ctx, "student-1", resource.ID, tokenDomain.PurposeDownload)
	require.NoError(t, err)

	stale := &tokenDomain.AccessToken{
		ID:          uuid.Must(uuid.NewV7()),
		TokenHash:   "stale-hash",
		ResourceID:  resource.ID,
		PrincipalID: "student-1",
		Purpose:     tokenDomain.PurposeDownload,
		IssuedAt:    time.Now().UTC().Add(-48 * time.Hour),
		ExpiresAt:   time.Now().UTC().Add(-47 * time.Hour),
	}
	require.NoError(t, f.repo.Create(ctx, stale))

	count, err := f.uc.CleanupExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The live token survives and still redeems.
	_, err = f.uc.RedeemDownload(ctx, issued.Token)
	require.NoError(t, err)
}
