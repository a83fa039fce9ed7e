package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"aircare/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenDraftRepository fails every call, standing in for an unreachable Redis.
type brokenDraftRepository struct {
	calls int
}

var errStoreDown = errors.New("store is down")

func (r *brokenDraftRepository) GetDraft(ctx context.Context, sessionID string) (*models.Draft, error) {
	r.calls++
	return nil, errStoreDown
}

func (r *brokenDraftRepository) SaveDraft(ctx context.Context, sessionID string, draft *models.Draft) error {
	r.calls++
	return errStoreDown
}

func (r *brokenDraftRepository) ClearDraft(ctx context.Context, sessionID string) error {
	r.calls++
	return errStoreDown
}

func (r *brokenDraftRepository) SavePartnerCache(ctx context.Context, sessionID string, partner models.PartnerInfo) error {
	r.calls++
	return errStoreDown
}

func TestFailoverDraftRepository(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("PrimaryHealthy", func(t *testing.T) {
		primary := NewMemoryDraftRepository(time.Hour)
		fallback := NewMemoryDraftRepository(time.Hour)
		repo := NewFailoverDraftRepository(primary, fallback, &logger)

		draft := models.DefaultDraft()
		draft.ServiceType = "청소"
		require.NoError(t, repo.SaveDraft(ctx, "sess-1", draft))

		loaded, err := repo.GetDraft(ctx, "sess-1")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "청소", loaded.ServiceType)

		// fallback never touched
		shadow, err := fallback.GetDraft(ctx, "sess-1")
		require.NoError(t, err)
		assert.Nil(t, shadow)
	})

	t.Run("FallsBackOnPrimaryError", func(t *testing.T) {
		primary := &brokenDraftRepository{}
		fallback := NewMemoryDraftRepository(time.Hour)
		repo := NewFailoverDraftRepository(primary, fallback, &logger)

		draft := models.DefaultDraft()
		draft.Brand = "LG전자"
		require.NoError(t, repo.SaveDraft(ctx, "sess-1", draft))

		loaded, err := repo.GetDraft(ctx, "sess-1")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "LG전자", loaded.Brand)
	})

	t.Run("PrimarySkippedWhileDown", func(t *testing.T) {
		primary := &brokenDraftRepository{}
		fallback := NewMemoryDraftRepository(time.Hour)
		repo := NewFailoverDraftRepository(primary, fallback, &logger)

		// first call marks the primary down
		require.NoError(t, repo.SaveDraft(ctx, "sess-1", models.DefaultDraft()))
		callsAfterFirst := primary.calls

		// further calls within the probe pause must not touch the primary
		require.NoError(t, repo.SaveDraft(ctx, "sess-2", models.DefaultDraft()))
		require.NoError(t, repo.ClearDraft(ctx, "sess-1"))
		_, err := repo.GetDraft(ctx, "sess-2")
		require.NoError(t, err)

		assert.Equal(t, callsAfterFirst, primary.calls)
	})

	t.Run("PartnerCacheFallback", func(t *testing.T) {
		primary := &brokenDraftRepository{}
		fallback := NewMemoryDraftRepository(time.Hour)
		repo := NewFailoverDraftRepository(primary, fallback, &logger)

		info := models.PartnerInfo{UID: "p-1"}
		require.NoError(t, repo.SavePartnerCache(ctx, "sess-1", info))

		cached, ok := fallback.PartnerCache("sess-1")
		require.True(t, ok)
		assert.Equal(t, "p-1", cached.UID)
	})
}
