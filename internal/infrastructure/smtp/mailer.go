package smtp

import (
	"context"
	"fmt"

	"github.com/go-auth-nosql/internal/config"
	"github.com/go-auth-nosql/internal/domain"
	gomail "gopkg.in/gomail.v2"
)

// Mailer renders a named template and delivers it.
type Mailer interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type mailer struct {
	dialer    dialer
	from      string
	templates *renderer
}

// NewMailer builds an SMTP mailer. override may be nil; templates it lacks
// fall back to the ones embedded in the binary.
func NewMailer(cfg *config.Config, override TemplateSource) Mailer {
	return newMailer(
		gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		cfg.SMTPFrom,
		override,
	)
}

func newMailer(d dialer, from string, override TemplateSource) *mailer {
	return &mailer{dialer: d, from: from, templates: newRenderer(override)}
}

func (m *mailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body, err := m.templates.render(ctx, msg.Template, msg.Locals)
	if err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", subject)
	for k, v := range msg.Headers {
		gm.SetHeader(k, v)
	}
	gm.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send %s email: %w", msg.Template, err)
	}
	return nil
}
