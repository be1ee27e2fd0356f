package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Notification
	err  error
	gate chan struct{}
}

func (m *recordingMailer) Send(ctx context.Context, n Notification) error {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestLogger() (*logrus.Logger, *logtest.Hook) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

func TestNotificationService_DeliversQueuedNotifications(t *testing.T) {
	mailer := &recordingMailer{}
	log, _ := newTestLogger()
	svc := NewNotificationService(mailer, log, 2, 10, time.Second)

	svc.Notify(Notification{To: "patient@example.com", Subject: "Appointment Booked", Body: "See you soon"})
	svc.Notify(Notification{To: "doctor@example.com", Subject: "New Appointment"})

	assert.Eventually(t, func() bool { return mailer.count() == 2 }, time.Second, 10*time.Millisecond)
	svc.Stop()
}

func TestNotificationService_SwallowsMailerErrors(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp: connection refused")}
	log, hook := newTestLogger()
	svc := NewNotificationService(mailer, log, 1, 10, time.Second)

	svc.Notify(Notification{To: "patient@example.com", Subject: "Payment Confirmation"})
	svc.Stop()

	assert.Equal(t, 1, mailer.count())
	found := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["to"] == "patient@example.com" {
			found = true
		}
	}
	assert.True(t, found, "delivery failure should be logged")
}

func TestNotificationService_NotifyNeverBlocks(t *testing.T) {
	mailer := &recordingMailer{gate: make(chan struct{})}
	log, hook := newTestLogger()
	svc := NewNotificationService(mailer, log, 1, 1, time.Second)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			svc.Notify(Notification{To: "patient@example.com", Subject: "Status Update"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked while the mailer was stuck")
	}

	close(mailer.gate)
	svc.Stop()

	assert.LessOrEqual(t, mailer.count(), 2)
	assert.GreaterOrEqual(t, mailer.count(), 1)

	dropped := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == `Dropping notification "Status Update" to patient@example.com: queue full` {
			dropped++
		}
	}
	assert.Equal(t, 10-mailer.count(), dropped)
}

func TestNotificationService_StopDrainsAndIsIdempotent(t *testing.T) {
	mailer := &recordingMailer{}
	log, _ := newTestLogger()
	svc := NewNotificationService(mailer, log, 1, 10, time.Second)

	for i := 0; i < 5; i++ {
		svc.Notify(Notification{To: "patient@example.com", Subject: "Reminder"})
	}
	svc.Stop()
	svc.Stop()

	assert.Equal(t, 5, mailer.count())

	svc.Notify(Notification{To: "patient@example.com", Subject: "Late"})
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 5, mailer.count())
}

func TestNotificationService_DropsNotificationWithoutRecipient(t *testing.T) {
	mailer := &recordingMailer{}
	log, _ := newTestLogger()
	svc := NewNotificationService(mailer, log, 1, 10, time.Second)

	svc.Notify(Notification{Subject: "Nobody"})
	svc.Stop()

	assert.Zero(t, mailer.count())
}
