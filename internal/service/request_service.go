package service

import (
	"context"

	"aircare/internal/domain"
	"aircare/internal/events"
	"aircare/internal/models"

	"github.com/rs/zerolog"
)

// RequestsService reads and administers submitted requests. Lifecycle
// timestamp columns are pass-through: this service never derives them.
type RequestsService struct {
	store    domain.RequestStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewRequestsService(store domain.RequestStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *RequestsService {
	return &RequestsService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *RequestsService) GetRequest(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	return s.store.GetRequest(ctx, requestID)
}

// GetRequestsByPhone backs the "my bookings" lookup: exact-match on the
// digits-only phone stored at submission time.
func (s *RequestsService) GetRequestsByPhone(ctx context.Context, phone string) ([]*models.ServiceRequest, error) {
	return s.store.GetRequestsByPhone(ctx, phone)
}

func (s *RequestsService) UpdateRequestStatus(ctx context.Context, requestID string, status int) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}

	if err := s.store.UpdateRequestStatus(ctx, requestID, status); err != nil {
		return err
	}

	if s.eventBus != nil {
		payload := events.RequestEventPayload{RequestID: requestID, Status: status}
		if err := s.eventBus.PublishJSON(events.EventStatusChanged, payload); err != nil {
			s.logger.Error().Err(err).Str("request_id", requestID).Msg("publish event error")
		}
	}

	return nil
}
