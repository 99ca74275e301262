package domain

// User is the public projection of an account.
type User struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name"`
	Email       string  `json:"email"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// Session is the auth response shape. Flows that do not sign the user in return it
// with both JWT fields nil, which serialise as null.
type Session struct {
	JWTToken     *string `json:"jwt_token"`
	JWTExpiresIn *int64  `json:"jwt_expires_in"`
	User         User    `json:"user"`
}

// PlaceholderSession acknowledges an action without granting access.
func PlaceholderSession(u User) *Session {
	return &Session{User: u}
}
