package domain

import "time"

// Ticket is a single-use confirmation token. It is only handed to the user;
// consuming it and enforcing ExpiresAt belong to the activation flow.
type Ticket struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
