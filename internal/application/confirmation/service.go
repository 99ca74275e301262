package confirmation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-auth-nosql/internal/domain"
	"github.com/go-auth-nosql/internal/pkg/id"
)

const (
	// TemplateActivateAccount is the email template carrying the confirmation ticket.
	TemplateActivateAccount = "activate-account"
	// HeaderTicket is the message header that repeats the ticket value.
	HeaderTicket = "x-ticket"
)

// Settings are the deployment flags the resend flow depends on.
type Settings struct {
	AutoActivateNewUsers bool
	EmailsEnable         bool
	ServerURL            string
	// ResendInterval is the minimum time between two successful resends. Zero disables it.
	ResendInterval time.Duration
}

type Service interface {
	// Available reports domain.ErrConfigurationDisabled when the route is switched off.
	// Callers check it before reading the request.
	Available() error
	// Resend issues a new ticket to a pending account and mails it.
	// On success the returned session carries no token.
	Resend(ctx context.Context, lookup domain.AccountLookup) (*domain.Session, error)
}

type accountStore interface {
	Select(ctx context.Context, lookup domain.AccountLookup) (*domain.Account, error)
	// UpdateConfirmationResetTimeout records a resend at the given time. It returns
	// domain.ErrThrottled when the previous resend is too recent.
	UpdateConfirmationResetTimeout(ctx context.Context, account *domain.Account, at time.Time) error
}

type mailer interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

type ticketIssuer interface {
	Issue(now time.Time) (domain.Ticket, error)
}

type deliveryLog interface {
	Put(ctx context.Context, d *domain.Delivery) error
}

type service struct {
	accounts   accountStore
	mailer     mailer
	tickets    ticketIssuer
	deliveries deliveryLog
	settings   Settings
	now        func() time.Time
}

// ServiceDeps wires the service. Deliveries is optional; Now defaults to time.Now.
type ServiceDeps struct {
	Accounts   accountStore
	Mailer     mailer
	Tickets    ticketIssuer
	Deliveries deliveryLog
	Settings   Settings
	Now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		accounts:   deps.Accounts,
		mailer:     deps.Mailer,
		tickets:    deps.Tickets,
		deliveries: deps.Deliveries,
		settings:   deps.Settings,
		now:        now,
	}
}

func (s *service) Available() error {
	if s.settings.AutoActivateNewUsers {
		return domain.ErrConfigurationDisabled
	}
	return nil
}

func (s *service) Resend(ctx context.Context, lookup domain.AccountLookup) (*domain.Session, error) {
	if err := s.Available(); err != nil {
		return nil, err
	}

	account, err := s.accounts.Select(ctx, lookup)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("select account: %w", err)
	}
	if account.Active {
		return nil, domain.ErrAccountAlreadyActive
	}
	if !s.settings.EmailsEnable {
		return nil, domain.ErrEmailDisabled
	}

	now := s.now()
	if s.resentRecently(account, now) {
		return nil, fmt.Errorf("account %s: %w", account.AccountID, domain.ErrThrottled)
	}

	ticket, err := s.tickets.Issue(now)
	if err != nil {
		return nil, err
	}

	user := account.UserView()
	displayName := user.Email
	if user.DisplayName != nil && *user.DisplayName != "" {
		displayName = *user.DisplayName
	}

	msg := domain.EmailMessage{
		Template: TemplateActivateAccount,
		To:       user.Email,
		Headers:  map[string]string{HeaderTicket: ticket.Value},
		Locals: map[string]any{
			"display_name":      displayName,
			"ticket":            ticket.Value,
			"url":               s.settings.ServerURL,
			"ticket_expires_at": ticket.ExpiresAt,
		},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("confirmation email delivery failed",
			"account_id", account.AccountID, "template", msg.Template, "err", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailure, err)
	}

	// A concurrent resend may have stamped the account after the check above. The
	// email is already out, so the request still succeeds.
	if err := s.accounts.UpdateConfirmationResetTimeout(ctx, account, now); err != nil {
		if !errors.Is(err, domain.ErrThrottled) {
			return nil, fmt.Errorf("update confirmation reset timeout: %w", err)
		}
		slog.Warn("concurrent confirmation resend", "account_id", account.AccountID)
	}

	s.recordDelivery(ctx, account, msg, ticket, now)

	return domain.PlaceholderSession(user), nil
}

func (s *service) resentRecently(account *domain.Account, now time.Time) bool {
	if s.settings.ResendInterval <= 0 || account.ConfirmationResetTimeout == 0 {
		return false
	}
	return account.ConfirmationResetTimeout > now.Add(-s.settings.ResendInterval).Unix()
}

func (s *service) recordDelivery(ctx context.Context, account *domain.Account, msg domain.EmailMessage, ticket domain.Ticket, now time.Time) {
	if s.deliveries == nil {
		return
	}
	d := &domain.Delivery{
		DeliveryID:      id.NewAt(now),
		AccountID:       account.AccountID,
		Template:        msg.Template,
		Destination:     msg.To,
		TicketExpiresAt: ticket.ExpiresAt.Unix(),
		CreatedAt:       now,
	}
	if err := s.deliveries.Put(ctx, d); err != nil {
		slog.Warn("failed to record email delivery", "account_id", account.AccountID, "err", err)
	}
}
