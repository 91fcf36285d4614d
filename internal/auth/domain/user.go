package domain

import "time"

// Timestamps are the audit fields shared by every persisted record.
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	RemovedAt *time.Time // soft delete marker
}

// Removed reports whether the record has been soft deleted.
func (t Timestamps) Removed() bool { return t.RemovedAt != nil }

type User struct {
	ID           string
	Username     string // token subject, unique
	PasswordHash string // argon2id PHC
	Email        string
	Nickname     string
	Role         Role

	Timestamps
}

// Principal returns the request identity for u.
func (u User) Principal() Principal {
	return Principal{
		Subject:      u.Username,
		Role:         u.Role,
		Capabilities: u.Role.Capabilities(),
	}
}
