package models

import "time"

// UserIdentity is the anonymous identity handed out by the auth provider.
// It scopes every history read and write and lives only as long as the session.
type UserIdentity struct {
	UserID       string    `json:"user_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"-"` // Zero when the access token does not expire
}

// IsZero reports whether no identity has been established.
func (u UserIdentity) IsZero() bool {
	return u.UserID == ""
}

// ExpiresWithin reports whether the access token lapses before now+d.
func (u UserIdentity) ExpiresWithin(d time.Duration, now time.Time) bool {
	return !u.ExpiresAt.IsZero() && !now.Add(d).Before(u.ExpiresAt)
}
