package mail

import (
	"context"
	"io"

	"hospital-management-api/config"
	"hospital-management-api/internal/service"

	"github.com/go-gomail/gomail"
	"github.com/sirupsen/logrus"
)

// SMTPMailer sends notifications through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// NewMailer picks the SMTP mailer when a relay is configured and falls back
// to logging the mail otherwise, which keeps local setups working.
func NewMailer(cfg config.MailConfig, log *logrus.Logger) service.Mailer {
	if cfg.Host == "" {
		log.Warn("SMTP_HOST is not set, notifications will only be logged")
		return NewLogMailer(log)
	}
	return NewSMTPMailer(cfg)
}

func (m *SMTPMailer) Send(ctx context.Context, n service.Notification) error {
	msg := m.buildMessage(n)

	// gomail has no context support, so the dial runs aside and the caller
	// stops waiting once ctx expires.
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *SMTPMailer) buildMessage(n service.Notification) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", n.To)
	msg.SetHeader("Subject", n.Subject)
	msg.SetBody("text/plain", n.Body)

	for _, a := range n.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		msg.Attach(a.Name, settings...)
	}

	return msg
}
