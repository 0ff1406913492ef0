package auth

import "time"

// Strategy issues and verifies session tokens bound to a user id.
type Strategy interface {
	IssueToken(userID string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	// Now overrides the clock used for expiry checks.
	Now func() time.Time
}
