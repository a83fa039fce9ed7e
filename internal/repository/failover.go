package repository

import (
	"context"
	"sync/atomic"
	"time"

	"aircare/internal/domain"
	"aircare/internal/models"

	"github.com/rs/zerolog"
)

// FailoverDraftRepository serves drafts from the primary store and falls back
// to the secondary when the primary errors. Recovery is probed after a pause.
type FailoverDraftRepository struct {
	primary   domain.DraftRepository
	fallback  domain.DraftRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

const recoveryProbeInterval = time.Minute

func NewFailoverDraftRepository(primary, fallback domain.DraftRepository, logger *zerolog.Logger) *FailoverDraftRepository {
	return &FailoverDraftRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverDraftRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary draft repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverDraftRepository) shouldProbe() bool {
	last := time.Unix(0, r.lastCheck.Load())
	return time.Since(last) > recoveryProbeInterval
}

func (r *FailoverDraftRepository) GetDraft(ctx context.Context, sessionID string) (*models.Draft, error) {
	if !r.isDown.Load() {
		draft, err := r.primary.GetDraft(ctx, sessionID)
		if err == nil {
			return draft, nil
		}
		r.markDown(err)
	}

	if r.isDown.Load() && r.shouldProbe() {
		draft, err := r.primary.GetDraft(ctx, sessionID)
		if err == nil {
			r.isDown.Store(false)
			return draft, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetDraft(ctx, sessionID)
}

func (r *FailoverDraftRepository) SaveDraft(ctx context.Context, sessionID string, draft *models.Draft) error {
	if !r.isDown.Load() {
		err := r.primary.SaveDraft(ctx, sessionID, draft)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SaveDraft(ctx, sessionID, draft)
}

func (r *FailoverDraftRepository) ClearDraft(ctx context.Context, sessionID string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearDraft(ctx, sessionID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearDraft(ctx, sessionID)
}

func (r *FailoverDraftRepository) SavePartnerCache(ctx context.Context, sessionID string, partner models.PartnerInfo) error {
	if !r.isDown.Load() {
		err := r.primary.SavePartnerCache(ctx, sessionID, partner)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SavePartnerCache(ctx, sessionID, partner)
}
