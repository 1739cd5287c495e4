package domain

import "time"

// Draft is an in-progress form parked while the user authenticates.
type Draft struct {
	Token     string
	Kind      string
	Payload   []byte
	ExpiresAt time.Time
}

// Expired reports whether the draft is no longer retrievable at now.
func (d Draft) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}
