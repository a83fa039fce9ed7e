package worker

import (
	"context"
	"time"

	"aircare/internal/domain"
	"aircare/internal/metrics"
	"aircare/internal/models"

	"github.com/rs/zerolog"
)

// NotifyWorker delivers booking alerts in the background. Delivery is a
// single attempt: a failed alert is logged and counted, never retried and
// never reported back to the submission pipeline.
type NotifyWorker struct {
	notifier    domain.Notifier
	queue       chan models.BookingAlert
	sendTimeout time.Duration
	logger      *zerolog.Logger
}

func NewNotifyWorker(notifier domain.Notifier, sendTimeout time.Duration, logger *zerolog.Logger) *NotifyWorker {
	if sendTimeout <= 0 {
		sendTimeout = time.Duration(models.DefaultNotifyTimeout) * time.Second
	}

	return &NotifyWorker{
		notifier:    notifier,
		queue:       make(chan models.BookingAlert, models.NotifyQueueSize),
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// Enqueue hands an alert to the worker without blocking. When the queue is
// full the alert is dropped; the submission it belongs to has already been
// persisted, so losing the alert costs only the SMS.
func (w *NotifyWorker) Enqueue(alert models.BookingAlert) {
	select {
	case w.queue <- alert:
	default:
		w.logger.Warn().Str("phone", alert.CustomerPhone).Msg("notify queue full, dropping alert")
		metrics.IncNotification("dropped")
	}
}

// Start consumes the queue until ctx is canceled.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("notify worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("notify worker stopped")
			return
		case alert := <-w.queue:
			w.deliver(alert)
		}
	}
}

func (w *NotifyWorker) deliver(alert models.BookingAlert) {
	ctx, cancel := context.WithTimeout(context.Background(), w.sendTimeout)
	defer cancel()

	if err := w.notifier.SendBookingAlert(ctx, alert); err != nil {
		w.logger.Error().Err(err).Str("phone", alert.CustomerPhone).Msg("booking alert failed")
		metrics.IncNotification("error")
		return
	}
	metrics.IncNotification("ok")
}
