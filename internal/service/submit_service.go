package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"aircare/internal/domain"
	"aircare/internal/events"
	"aircare/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubmitService finalizes a session draft into a durable service request.
// Validation failures stop the pipeline before any network side effect; a
// store failure is surfaced and leaves the draft intact so the user can
// resubmit; the outbound notification is detached and never changes the
// reported outcome.
type SubmitService struct {
	drafts     domain.DraftManager
	store      domain.RequestStore
	dispatcher domain.NotifyDispatcher
	eventBus   domain.EventPublisher
	logger     *zerolog.Logger
	inflight   sync.Map // sessionID -> struct{}
}

func NewSubmitService(drafts domain.DraftManager, store domain.RequestStore, dispatcher domain.NotifyDispatcher, eventBus domain.EventPublisher, logger *zerolog.Logger) *SubmitService {
	return &SubmitService{
		drafts:     drafts,
		store:      store,
		dispatcher: dispatcher,
		eventBus:   eventBus,
		logger:     logger,
	}
}

func (s *SubmitService) Submit(ctx context.Context, input models.SubmitInput) (string, error) {
	if _, loaded := s.inflight.LoadOrStore(input.SessionID, struct{}{}); loaded {
		return "", ErrSubmitInFlight
	}
	defer s.inflight.Delete(input.SessionID)

	if !input.Agreed {
		return "", ErrAgreementsRequired
	}

	draft := s.drafts.Get(ctx, input.SessionID)
	if input.CustomerUID != "" {
		draft.CustomerUID = input.CustomerUID
	}

	if err := checkRequiredFields(draft); err != nil {
		return "", err
	}

	draft.CustomerPhone = digitsOnly(draft.CustomerPhone)
	draft.Sprint = append(draft.Sprint, trackingEntry(input.Tracking))

	now := time.Now()
	draft.RequestID = uuid.NewString()
	draft.CreatedAt = now.Format(models.CreatedAtLayout)

	req := draft.ToRequest()
	req.SubmittedAt = now

	if err := s.store.CreateRequest(ctx, req); err != nil {
		s.logger.Error().Err(err).Str("session_id", input.SessionID).Msg("request write failed")
		return "", fmt.Errorf("create request: %w", err)
	}

	// Draft is spent only after the record is durable.
	s.drafts.Reset(ctx, input.SessionID)

	s.publishSubmitted(req)
	s.enqueueAlert(draft, req)

	return req.RequestID, nil
}

// checkRequiredFields walks the fixed field order; the first blank field
// decides the surfaced message.
func checkRequiredFields(draft *models.Draft) error {
	for _, field := range models.RequiredFields {
		if strings.TrimSpace(requiredValue(draft, field.Key)) == "" {
			return &ValidationError{Field: field.Key, Message: field.Message}
		}
	}
	return nil
}

func requiredValue(draft *models.Draft, key string) string {
	switch key {
	case "service_type":
		return draft.ServiceType
	case "customer_phone":
		return draft.CustomerPhone
	case "customer_address":
		return draft.CustomerAddress
	case "customer_address_detail":
		return draft.CustomerAddressDetail
	case "customer_type":
		return draft.CustomerType
	case "service_date":
		return draft.ServiceDate
	case "service_time":
		return draft.ServiceTime
	case "aircon_type":
		return draft.AirconType
	case "brand":
		return draft.Brand
	default:
		return ""
	}
}

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// trackingEntry joins the ambient session tracking values; empty values are
// kept so the entry position always reflects one submission.
func trackingEntry(t models.Tracking) string {
	return strings.Join([]string{t.Source, t.Medium, t.Campaign}, "|")
}

func (s *SubmitService) publishSubmitted(req *models.ServiceRequest) {
	if s.eventBus == nil {
		return
	}

	payload := events.RequestEventPayload{
		RequestID:   req.RequestID,
		CustomerUID: req.CustomerUID,
		ServiceType: req.ServiceType,
		ServiceDate: req.ServiceDate,
		ServiceTime: req.ServiceTime,
		PartnerUID:  req.PartnerUID,
		Status:      req.Status,
		CreatedAt:   req.CreatedAt,
	}

	if err := s.eventBus.PublishJSON(events.EventRequestSubmitted, payload); err != nil {
		s.logger.Error().Err(err).Str("request_id", req.RequestID).Msg("publish event error")
	}
}

func (s *SubmitService) enqueueAlert(draft *models.Draft, req *models.ServiceRequest) {
	if s.dispatcher == nil {
		return
	}

	alert := models.BookingAlert{
		ServiceDate:     req.ServiceDate,
		ServiceTime:     req.ServiceTime,
		Brand:           req.Brand,
		AirconType:      req.AirconType,
		ServiceType:     req.ServiceType,
		CustomerAddress: req.CustomerAddress,
		CustomerPhone:   req.CustomerPhone,
		CustomerType:    req.CustomerType,
	}
	if draft.PartnerFlow {
		alert.PartnerID = draft.PartnerUID
	}

	s.dispatcher.Enqueue(alert)
}
