package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// parkingLotRepository - PostgreSQL реализация ParkingLotRepository
type parkingLotRepository struct {
	db *pgxpool.Pool
}

// NewParkingLotRepository создает новый экземпляр parkingLotRepository
func NewParkingLotRepository(db *pgxpool.Pool) repository.ParkingLotRepository {
	return &parkingLotRepository{db: db}
}

func (r *parkingLotRepository) Create(ctx context.Context, lot *domain.ParkingLot) error {
	query := `
		INSERT INTO parking_lots (id, name, address, capacity, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	lot.ID = uuid.New()
	lot.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query, lot.ID, lot.Name, lot.Address, lot.Capacity, lot.CreatedAt)
	return err
}

func (r *parkingLotRepository) GetCurrent(ctx context.Context) (*domain.ParkingLot, error) {
	query := `
		SELECT id, name, address, capacity, created_at
		FROM parking_lots
		ORDER BY created_at
		LIMIT 1
	`

	lot := &domain.ParkingLot{}
	err := r.db.QueryRow(ctx, query).Scan(&lot.ID, &lot.Name, &lot.Address, &lot.Capacity, &lot.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParkingLotNotFound
		}
		return nil, err
	}

	return lot, nil
}

func (r *parkingLotRepository) UpdateCapacity(ctx context.Context, id uuid.UUID, capacity int) error {
	query := `UPDATE parking_lots SET capacity = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, capacity)
	if err != nil {
		return fmt.Errorf("failed to update capacity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrParkingLotNotFound
	}

	return nil
}
