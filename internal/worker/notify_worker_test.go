package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aircare/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	sent   []models.BookingAlert
	fail   bool
	gotOne chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{gotOne: make(chan struct{}, 16)}
}

func (n *recordingNotifier) SendBookingAlert(ctx context.Context, alert models.BookingAlert) error {
	n.mu.Lock()
	n.sent = append(n.sent, alert)
	fail := n.fail
	n.mu.Unlock()
	n.gotOne <- struct{}{}

	if fail {
		return errors.New("relay unavailable")
	}
	return nil
}

func (n *recordingNotifier) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func TestNotifyWorkerDelivers(t *testing.T) {
	logger := zerolog.Nop()
	notifier := newRecordingNotifier()
	w := NewNotifyWorker(notifier, time.Second, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Enqueue(models.BookingAlert{CustomerPhone: "01012345678", ServiceType: "청소"})

	select {
	case <-notifier.gotOne:
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not delivered")
	}

	require.Equal(t, 1, notifier.sentCount())
	assert.Equal(t, "청소", notifier.sent[0].ServiceType)
}

func TestNotifyWorkerSingleAttempt(t *testing.T) {
	logger := zerolog.Nop()
	notifier := newRecordingNotifier()
	notifier.fail = true
	w := NewNotifyWorker(notifier, time.Second, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Enqueue(models.BookingAlert{CustomerPhone: "01012345678"})

	select {
	case <-notifier.gotOne:
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not attempted")
	}

	// a failed delivery must not be retried
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, notifier.sentCount())
}

func TestNotifyWorkerQueueFullDropsAlert(t *testing.T) {
	logger := zerolog.Nop()
	notifier := newRecordingNotifier()
	// worker not started: the queue only fills
	w := NewNotifyWorker(notifier, time.Second, &logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < models.NotifyQueueSize+10; i++ {
			w.Enqueue(models.BookingAlert{CustomerPhone: "01012345678"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestNotifyWorkerStopsOnCancel(t *testing.T) {
	logger := zerolog.Nop()
	w := NewNotifyWorker(newRecordingNotifier(), time.Second, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}

func TestNotifyWorkerDefaultTimeout(t *testing.T) {
	logger := zerolog.Nop()
	w := NewNotifyWorker(newRecordingNotifier(), 0, &logger)
	assert.Equal(t, time.Duration(models.DefaultNotifyTimeout)*time.Second, w.sendTimeout)
}
