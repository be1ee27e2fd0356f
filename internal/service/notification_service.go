package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Attachment is a file sent along with a notification.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Notification is a single outbound email.
type Notification struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer delivers one notification synchronously.
type Mailer interface {
	Send(ctx context.Context, n Notification) error
}

// Notifier accepts notifications without waiting for delivery.
type Notifier interface {
	Notify(n Notification)
}

// NotificationService is a best-effort outbound queue in front of a Mailer.
//
// Notify never blocks and never reports failure to the caller: a full queue,
// a stopped service or a delivery error only produce a log line. Call Stop()
// during graceful shutdown to flush what is already queued.
type NotificationService struct {
	mailer      Mailer
	log         *logrus.Logger
	sendTimeout time.Duration

	queue chan Notification

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewNotificationService(mailer Mailer, log *logrus.Logger, workers, queueSize int, sendTimeout time.Duration) *NotificationService {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}

	svc := &NotificationService{
		mailer:      mailer,
		log:         log,
		sendTimeout: sendTimeout,
		queue:       make(chan Notification, queueSize),
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go svc.worker()
	}

	return svc
}

func (s *NotificationService) Notify(n Notification) {
	if n.To == "" {
		s.log.Warnf("Dropping notification %q: no recipient", n.Subject)
		return
	}
	if s.stopped.Load() {
		s.log.Warnf("Dropping notification %q to %s: service stopped", n.Subject, n.To)
		return
	}

	select {
	case s.queue <- n:
	default:
		s.log.Warnf("Dropping notification %q to %s: queue full", n.Subject, n.To)
	}
}

// Stop gracefully shuts down the workers after draining the queue.
// Safe to call multiple times.
func (s *NotificationService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("NotificationService stopped")
	}
}

func (s *NotificationService) worker() {
	defer s.wg.Done()

	for {
		select {
		case n := <-s.queue:
			s.deliver(n)
		case <-s.stopChan:
			for {
				select {
				case n := <-s.queue:
					s.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (s *NotificationService) deliver(n Notification) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Recovered from panic while sending notification %q to %s: %v", n.Subject, n.To, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
	defer cancel()

	if err := s.mailer.Send(ctx, n); err != nil {
		s.log.WithFields(logrus.Fields{
			"to":      n.To,
			"subject": n.Subject,
		}).Warnf("Failed to send notification: %+v", err)
		return
	}

	s.log.WithField("to", n.To).Debugf("Notification sent: %s", n.Subject)
}
