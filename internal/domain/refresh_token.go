package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken - refresh токен сотрудника; в БД хранится только хеш
type RefreshToken struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// IsValidAt проверяет, что токен не отозван и не истек на момент now
func (rt *RefreshToken) IsValidAt(now time.Time) bool {
	if rt.RevokedAt != nil {
		return false
	}
	return now.Before(rt.ExpiresAt)
}
