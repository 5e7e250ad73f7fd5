package repository

import (
	"context"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с операторами
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// ParkingLotRepository определяет методы для работы с парковками
type ParkingLotRepository interface {
	// Create сохраняет парковку
	Create(ctx context.Context, lot *domain.ParkingLot) error

	// GetCurrent возвращает первую созданную парковку
	GetCurrent(ctx context.Context) (*domain.ParkingLot, error)

	// UpdateCapacity сохраняет новую вместимость парковки
	UpdateCapacity(ctx context.Context, id uuid.UUID, capacity int) error
}

// EntryRepository хранит активные записи о въезде.
// Нужен для восстановления состояния после рестарта.
type EntryRepository interface {
	// Create сохраняет запись о въезде
	Create(ctx context.Context, entry *domain.EntryRecord) error

	// Delete удаляет запись после выезда или отмены
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает все активные записи
	List(ctx context.Context) ([]*domain.EntryRecord, error)
}

// PaymentRepository определяет методы для работы с оплатами
type PaymentRepository interface {
	// Settle сохраняет оплату и удаляет запись о въезде payment.Entry в одной транзакции
	Settle(ctx context.Context, payment *domain.Payment) error

	// GetLatestByPlate возвращает последнюю оплату по номеру
	GetLatestByPlate(ctx context.Context, plate string) (*domain.Payment, error)

	// ListByPlate возвращает историю оплат по номеру, новые первыми
	ListByPlate(ctx context.Context, plate string) ([]*domain.Payment, error)

	// ListByExitBetween возвращает оплаты с выездом в интервале [from, to)
	ListByExitBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error)
}

// CancellationRepository определяет методы для работы с отменами въезда
type CancellationRepository interface {
	// Create сохраняет запись об отмене
	Create(ctx context.Context, cancellation *domain.Cancellation) error

	// List возвращает отмены с пагинацией, новые первыми
	List(ctx context.Context, limit, offset int) ([]*domain.Cancellation, error)
}

// RefreshTokenRepository определяет методы для работы с refresh токенами
type RefreshTokenRepository interface {
	// Create сохраняет новый refresh token
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByTokenHash возвращает refresh token по хешу
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke отзывает refresh token
	Revoke(ctx context.Context, tokenHash string) error

	// DeleteExpired удаляет токены, истекшие до before, и возвращает их число
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
