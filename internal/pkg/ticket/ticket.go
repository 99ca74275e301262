package ticket

import (
	"fmt"
	"time"

	"github.com/go-auth-nosql/internal/domain"
	"github.com/google/uuid"
)

// Validity is how long an issued ticket stays usable.
const Validity = 60 * time.Minute

// Generator issues random UUIDv4 confirmation tickets.
type Generator struct {
	validity time.Duration
}

func NewGenerator() *Generator {
	return &Generator{validity: Validity}
}

// Issue returns a fresh ticket issued at now.
func (g *Generator) Issue(now time.Time) (domain.Ticket, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("generate ticket: %w", err)
	}
	return domain.Ticket{
		Value:     v.String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(g.validity),
	}, nil
}
