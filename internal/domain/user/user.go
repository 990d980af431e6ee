// Package user provides the User domain entity.
package user

import "time"

// User represents the signed-in user of the single logical session.
type User struct {
	ID        string    `json:"id"`         // User ID
	Name      string    `json:"name"`       // Display name
	Email     string    `json:"email"`      // Login email
	Provider  string    `json:"provider"`   // Login provider (email, google, ...)
	CreatedAt time.Time `json:"created_at"` // Account creation time
	LastLogin time.Time `json:"last_login"` // Last successful login
	// SessionCount counts logins, LastLogoutAt is nil until the first logout.
	SessionCount int        `json:"session_count"`
	LastLogoutAt *time.Time `json:"last_logout_at,omitempty"`
}

// NewUser creates a user logging in for the first time.
func NewUser(id, name, email, provider string) *User {
	now := time.Now()
	if provider == "" {
		provider = "email"
	}
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		Provider:     provider,
		CreatedAt:    now,
		LastLogin:    now,
		SessionCount: 1,
	}
}

// RecordLogin marks a new login.
func (u *User) RecordLogin() {
	u.LastLogin = time.Now()
	u.SessionCount++
}

// RecordLogout marks the end of the current session.
func (u *User) RecordLogout() {
	now := time.Now()
	u.LastLogoutAt = &now
}

// DisplayName returns the name, falling back to the email.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
