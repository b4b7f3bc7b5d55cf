package accounts

import "time"

// User is an account. Password accounts carry a bcrypt hash; Google accounts do not.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PictureURL   string    `json:"pictureUrl,omitempty"`
	Provider     string    `json:"provider"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Session is the result of a successful sign-in.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EventType names an authentication state change.
type EventType string

const (
	EventSignedUp  EventType = "signed_up"
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// AuthEvent is delivered to subscribers on every state change.
type AuthEvent struct {
	Type EventType `json:"type"`
	User User      `json:"user"`
	At   time.Time `json:"at"`
}
