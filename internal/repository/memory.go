package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"aircare/internal/models"
)

// MemoryDraftRepository keeps drafts in process memory. It backs tests and
// serves as the failover target when Redis is unreachable.
type MemoryDraftRepository struct {
	drafts   sync.Map
	partners sync.Map
	ttl      time.Duration
}

func NewMemoryDraftRepository(ttl time.Duration) *MemoryDraftRepository {
	return &MemoryDraftRepository{
		ttl: ttl,
	}
}

type draftEntry struct {
	data      []byte
	expiresAt time.Time
}

func (r *MemoryDraftRepository) GetDraft(ctx context.Context, sessionID string) (*models.Draft, error) {
	val, ok := r.drafts.Load(sessionID)
	if !ok {
		return nil, nil
	}

	entry := val.(*draftEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.drafts.Delete(sessionID)
		return nil, nil
	}

	var draft models.Draft
	if err := json.Unmarshal(entry.data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *MemoryDraftRepository) SaveDraft(ctx context.Context, sessionID string, draft *models.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	r.drafts.Store(sessionID, &draftEntry{
		data:      data,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryDraftRepository) ClearDraft(ctx context.Context, sessionID string) error {
	r.drafts.Delete(sessionID)
	return nil
}

func (r *MemoryDraftRepository) SavePartnerCache(ctx context.Context, sessionID string, partner models.PartnerInfo) error {
	r.partners.Store(sessionID, partner)
	return nil
}

// PartnerCache returns the mirrored partner fields for a session, if any.
func (r *MemoryDraftRepository) PartnerCache(sessionID string) (models.PartnerInfo, bool) {
	val, ok := r.partners.Load(sessionID)
	if !ok {
		return models.PartnerInfo{}, false
	}
	return val.(models.PartnerInfo), true
}
