package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one outgoing email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers emails.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SendGridMailer delivers through the SendGrid v3 API.
type SendGridMailer struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
}

func NewSendGridMailer(key, appName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		client:     sendgrid.NewSendClient(key),
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
	}
}

func (m *SendGridMailer) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", msg.HTML),
	)
	return v3
}

// Send blocks until SendGrid answers; the client has no context support.
// Client.Send writes the body into the client, so each call works on a copy.
func (m *SendGridMailer) Send(_ context.Context, msg *Message) error {
	client := *m.client
	res, err := client.Send(m.prepare(msg))
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// ConsoleMailer logs emails instead of sending them and keeps a copy.
type ConsoleMailer struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []Message
}

func NewConsoleMailer(logger *slog.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Send(ctx context.Context, msg *Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, *msg)
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Email not sent (console mailer)",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"body", msg.Text)
	return nil
}

func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

// New returns a SendGrid mailer when a key is configured and a console mailer otherwise.
func New(apiKey, appName, fromEmail string, logger *slog.Logger) Mailer {
	if apiKey == "" {
		return NewConsoleMailer(logger)
	}
	return NewSendGridMailer(apiKey, appName, fromEmail)
}
