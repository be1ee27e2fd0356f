package mail

import (
	"context"

	"hospital-management-api/internal/service"

	"github.com/sirupsen/logrus"
)

// LogMailer writes notifications to the log instead of sending them.
type LogMailer struct {
	log *logrus.Logger
}

func NewLogMailer(log *logrus.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, n service.Notification) error {
	names := make([]string, 0, len(n.Attachments))
	for _, a := range n.Attachments {
		names = append(names, a.Name)
	}

	m.log.WithFields(logrus.Fields{
		"to":          n.To,
		"subject":     n.Subject,
		"attachments": names,
	}).Info(n.Body)
	return nil
}
