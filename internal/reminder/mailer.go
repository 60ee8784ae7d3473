package reminder

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Mailer delivers one HTML message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer returns a mailer for the given relay.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers msg in one SMTP session.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// GraphSender is the part of the Microsoft Graph client used for mail.
type GraphSender interface {
	SendMail(ctx context.Context, to, subject, html string) error
}

// GraphMailer sends from the signed-in Microsoft 365 mailbox.
type GraphMailer struct {
	client GraphSender
}

// NewGraphMailer wraps a signed-in Graph client.
func NewGraphMailer(client GraphSender) *GraphMailer {
	return &GraphMailer{client: client}
}

// Send posts msg to /me/sendMail.
func (m *GraphMailer) Send(ctx context.Context, msg Message) error {
	return m.client.SendMail(ctx, msg.To, msg.Subject, msg.HTML)
}

// LogMailer only logs what would have been sent.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer logs to logger, or slog.Default when nil.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// Send logs the recipient and subject. The body is logged at debug level.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("reminder (not sent)", "to", msg.To, "subject", msg.Subject, "bytes", len(msg.HTML))
	m.logger.Debug("reminder body", "html", msg.HTML)
	return nil
}
