package domain

import (
	"context"
	"time"

	"aircare/internal/models"
)

type DraftRepository interface {
	GetDraft(ctx context.Context, sessionID string) (*models.Draft, error)
	SaveDraft(ctx context.Context, sessionID string, draft *models.Draft) error
	ClearDraft(ctx context.Context, sessionID string) error
	SavePartnerCache(ctx context.Context, sessionID string, partner models.PartnerInfo) error
}

type RequestStore interface {
	CreateRequest(ctx context.Context, req *models.ServiceRequest) error
	GetRequest(ctx context.Context, requestID string) (*models.ServiceRequest, error)
	GetRequestsByPhone(ctx context.Context, phone string) ([]*models.ServiceRequest, error)
	GetRequestsByDateRange(ctx context.Context, start, end time.Time) ([]*models.ServiceRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID string, status int) error
}

type DraftManager interface {
	Get(ctx context.Context, sessionID string) *models.Draft
	SetField(ctx context.Context, sessionID, key string, value interface{}) *models.Draft
	SetFields(ctx context.Context, sessionID string, patch map[string]interface{}) *models.Draft
	SetStatus(ctx context.Context, sessionID string, status int) (*models.Draft, error)
	SelectPartner(ctx context.Context, sessionID string, info models.PartnerInfo) *models.Draft
	ClearPartner(ctx context.Context, sessionID string) *models.Draft
	Reset(ctx context.Context, sessionID string) *models.Draft
}

type RequestSubmitter interface {
	Submit(ctx context.Context, input models.SubmitInput) (string, error)
}

type RequestService interface {
	GetRequest(ctx context.Context, requestID string) (*models.ServiceRequest, error)
	GetRequestsByPhone(ctx context.Context, phone string) ([]*models.ServiceRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID string, status int) error
}

type Notifier interface {
	SendBookingAlert(ctx context.Context, alert models.BookingAlert) error
}

// NotifyDispatcher queues an alert for background delivery. Enqueue never
// blocks and never reports delivery errors to the caller.
type NotifyDispatcher interface {
	Enqueue(alert models.BookingAlert)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type RequestExporter interface {
	ExportRequests(ctx context.Context, start, end time.Time) (string, error)
}
