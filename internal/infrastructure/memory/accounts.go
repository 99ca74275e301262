package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-auth-nosql/internal/domain"
)

// AccountStore is an in-memory account store.
// It is only safe for single-process deployments.
type AccountStore struct {
	mu          sync.Mutex
	byID        map[string]domain.Account
	byEmail     map[string]string
	minInterval time.Duration
}

func NewAccountStore(minInterval time.Duration) *AccountStore {
	return &AccountStore{
		byID:        make(map[string]domain.Account),
		byEmail:     make(map[string]string),
		minInterval: minInterval,
	}
}

// Put inserts or replaces an account.
func (s *AccountStore) Put(_ context.Context, a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.byID[a.AccountID]; ok {
		delete(s.byEmail, domain.NormalizeEmail(prev.Email))
	}
	stored := *a
	stored.EmailKey = domain.NormalizeEmail(a.Email)
	s.byID[a.AccountID] = stored
	s.byEmail[stored.EmailKey] = a.AccountID
	return nil
}

func (s *AccountStore) Select(_ context.Context, lookup domain.AccountLookup) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accountID string
	switch {
	case lookup.AccountID != nil && *lookup.AccountID != "":
		accountID = *lookup.AccountID
	case lookup.Email != nil && *lookup.Email != "":
		accountID = s.byEmail[domain.NormalizeEmail(*lookup.Email)]
	}
	a, ok := s.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	return &a, nil
}

func (s *AccountStore) UpdateConfirmationResetTimeout(_ context.Context, account *domain.Account, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[account.AccountID]
	if !ok {
		return fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	if a.ConfirmationResetTimeout != 0 && a.ConfirmationResetTimeout > at.Add(-s.minInterval).Unix() {
		return fmt.Errorf("account %s: %w", a.AccountID, domain.ErrThrottled)
	}
	a.ConfirmationResetTimeout = at.Unix()
	a.UpdatedAt = at
	s.byID[a.AccountID] = a
	return nil
}

// Ping always succeeds.
func (s *AccountStore) Ping(context.Context) error { return nil }
