package http

import (
	"context"
	"time"

	"github.com/go-auth-nosql/internal/domain"
)

// AccountRepository is the minimal interface the router requires from an account store.
type AccountRepository interface {
	Select(ctx context.Context, lookup domain.AccountLookup) (*domain.Account, error)
	// UpdateConfirmationResetTimeout must be atomic; it arbitrates concurrent resends.
	UpdateConfirmationResetTimeout(ctx context.Context, account *domain.Account, at time.Time) error
	Ping(ctx context.Context) error
}

// DeliveryRepository is the minimal interface the router requires from the email delivery log.
type DeliveryRepository interface {
	Put(ctx context.Context, d *domain.Delivery) error
}

// Mailer renders and sends templated email.
type Mailer interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// TicketIssuer issues confirmation tickets.
type TicketIssuer interface {
	Issue(now time.Time) (domain.Ticket, error)
}

// Deps holds all infrastructure dependencies for the router.
// DeliveryRepo may be nil; Now defaults to the wall clock.
type Deps struct {
	AccountRepo  AccountRepository
	DeliveryRepo DeliveryRepository
	Mailer       Mailer
	Tickets      TicketIssuer
	Now          func() time.Time
}
