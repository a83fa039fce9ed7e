package service

import (
	"context"

	"aircare/internal/domain"
	"aircare/internal/events"
	"aircare/internal/models"

	"github.com/rs/zerolog"
)

// DraftService is the authoritative container for per-session booking drafts.
// Every mutator loads the current draft, applies the change and writes it back.
// Persistence is best-effort: a failed save is logged and the in-memory result
// is still returned, so a storage outage never blocks the funnel.
type DraftService struct {
	draftRepo domain.DraftRepository
	eventBus  domain.EventPublisher
	logger    *zerolog.Logger
}

func NewDraftService(draftRepo domain.DraftRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *DraftService {
	return &DraftService{
		draftRepo: draftRepo,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// Get returns the session draft, falling back to a fresh default when the
// stored entry is missing or unreadable. Load failures never propagate.
func (s *DraftService) Get(ctx context.Context, sessionID string) *models.Draft {
	draft, err := s.draftRepo.GetDraft(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to load draft, using defaults")
		return models.DefaultDraft()
	}
	if draft == nil {
		return models.DefaultDraft()
	}
	return draft
}

func (s *DraftService) SetField(ctx context.Context, sessionID, key string, value interface{}) *models.Draft {
	return s.SetFields(ctx, sessionID, map[string]interface{}{key: value})
}

// SetFields merges a patch into the draft and persists once.
func (s *DraftService) SetFields(ctx context.Context, sessionID string, patch map[string]interface{}) *models.Draft {
	draft := s.Get(ctx, sessionID)
	draft.ApplyPatch(patch)
	s.save(ctx, sessionID, draft)
	return draft
}

// SetStatus updates the draft status. Values outside {1,2,3,4} are rejected
// and the draft stays untouched.
func (s *DraftService) SetStatus(ctx context.Context, sessionID string, status int) (*models.Draft, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	draft := s.Get(ctx, sessionID)
	draft.Status = status
	s.save(ctx, sessionID, draft)
	return draft, nil
}

// SelectPartner merges the partner branch into the draft and marks the partner
// flow taken. A previously chosen technician survives unless the new selection
// carries its own. The four partner fields are also mirrored into standalone
// cache keys for collaborating flows.
func (s *DraftService) SelectPartner(ctx context.Context, sessionID string, info models.PartnerInfo) *models.Draft {
	draft := s.Get(ctx, sessionID)
	draft.PartnerUID = info.UID
	draft.PartnerName = info.Name
	draft.PartnerAddress = info.Address
	draft.PartnerAddressDetail = info.AddressDetail
	draft.PartnerFlow = true
	if info.Technician != nil {
		draft.SelectedTechnician = info.Technician
	}
	s.save(ctx, sessionID, draft)

	if err := s.draftRepo.SavePartnerCache(ctx, sessionID, info); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to mirror partner cache")
	}

	s.publishDraftEvent(events.EventPartnerSelected, sessionID, info.UID)
	return draft
}

func (s *DraftService) ClearPartner(ctx context.Context, sessionID string) *models.Draft {
	draft := s.Get(ctx, sessionID)
	draft.ClearPartner()
	s.save(ctx, sessionID, draft)
	return draft
}

// Reset restores the default draft and removes the persisted entry. Calling
// it on an already-clean session is a no-op with the same result.
func (s *DraftService) Reset(ctx context.Context, sessionID string) *models.Draft {
	if err := s.draftRepo.ClearDraft(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear persisted draft")
	}
	s.publishDraftEvent(events.EventDraftReset, sessionID, "")
	return models.DefaultDraft()
}

func (s *DraftService) save(ctx context.Context, sessionID string, draft *models.Draft) {
	if err := s.draftRepo.SaveDraft(ctx, sessionID, draft); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to persist draft")
	}
}

func (s *DraftService) publishDraftEvent(eventType, sessionID, reason string) {
	if s.eventBus == nil {
		return
	}
	payload := events.DraftEventPayload{SessionID: sessionID, Reason: reason}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
