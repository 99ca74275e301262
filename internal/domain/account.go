package domain

import (
	"strings"
	"time"
)

// Account is a registered login. Pending accounts (Active == false) are the only
// ones eligible for a confirmation resend. Writers of the accounts table must set
// EmailKey so email lookups match regardless of case.
type Account struct {
	AccountID string      `json:"id" dynamodbav:"account_id"`
	User      AccountUser `json:"user" dynamodbav:"user"`
	Email     string      `json:"email" dynamodbav:"email"`
	EmailKey  string      `json:"-" dynamodbav:"email_key"` // NormalizeEmail(Email), indexed
	Active    bool        `json:"active" dynamodbav:"active"`
	// ConfirmationResetTimeout is the Unix time of the last successful resend; 0 if never.
	ConfirmationResetTimeout int64     `json:"-" dynamodbav:"confirmation_reset_timeout,omitempty"`
	CreatedAt                time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt                time.Time `json:"updated" dynamodbav:"updated_at"`
}

// AccountUser is the profile attached to an account.
type AccountUser struct {
	ID          string  `json:"id" dynamodbav:"id"`
	DisplayName *string `json:"display_name" dynamodbav:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty" dynamodbav:"avatar_url"`
}

// AccountLookup carries the identifying fields of a resend request.
// When neither field is set no account resolves.
type AccountLookup struct {
	AccountID *string `json:"account_id" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

// UserView projects the account for messaging and session responses.
func (a *Account) UserView() User {
	return User{
		ID:          a.User.ID,
		DisplayName: a.User.DisplayName,
		Email:       a.Email,
		AvatarURL:   a.User.AvatarURL,
	}
}

// NormalizeEmail is the case-insensitive form used to match accounts by email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
