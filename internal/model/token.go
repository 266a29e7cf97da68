package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Token is a single-use secret sent by email. Only its SHA-256 hash is stored.
type Token struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`
	Type   string `db:"type"` // "password_reset" or "group_invite"
	Hash   string `db:"token_hash"`
	// Subject is the group ID for invitations and empty otherwise.
	Subject   string     `db:"subject"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

const (
	TokenTypePasswordReset = "password_reset"
	TokenTypeGroupInvite   = "group_invite"
)

func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *Token) IsUsed() bool {
	return t.UsedAt != nil
}

func (t *Token) IsValid() bool {
	return !t.IsExpired() && !t.IsUsed()
}

// NewTokenSecret returns 32 random bytes, hex encoded.
func NewTokenSecret() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func HashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
