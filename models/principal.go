package models

import "time"

// Principal is the authenticated caller taken from the bearer token.
type Principal struct {
	UserID    string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func (p Principal) Is(role string) bool { return p.Role == role }
