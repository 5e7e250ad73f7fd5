package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole представляет роль сотрудника парковки
type UserRole string

const (
	RoleAdmin    UserRole = "admin"    // Администратор: отчеты, управление
	RoleOperator UserRole = "operator" // Оператор: въезд, выезд, отмена
)

// User - сотрудник, работающий с системой парковки
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Никогда не возвращаем в JSON
	FullName     string     `json:"full_name"`
	Role         UserRole   `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if u.FullName == "" {
		return ErrInvalidUserData
	}
	if u.Role != RoleAdmin && u.Role != RoleOperator {
		return ErrInvalidRole
	}
	return nil
}
