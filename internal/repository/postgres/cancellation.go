package postgres

import (
	"context"
	"fmt"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// cancellationRepository - PostgreSQL реализация CancellationRepository
type cancellationRepository struct {
	db *pgxpool.Pool
}

// NewCancellationRepository создает новый экземпляр cancellationRepository
func NewCancellationRepository(db *pgxpool.Pool) repository.CancellationRepository {
	return &cancellationRepository{db: db}
}

func (r *cancellationRepository) Create(ctx context.Context, c *domain.Cancellation) error {
	query := `
		INSERT INTO cancellations (id, plate, reason, cancelled_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.Exec(ctx, query, c.ID, c.Plate, c.Reason, c.CancelledAt); err != nil {
		return fmt.Errorf("failed to create cancellation: %w", err)
	}

	return nil
}

func (r *cancellationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Cancellation, error) {
	query := `
		SELECT id, plate, reason, cancelled_at
		FROM cancellations
		ORDER BY cancelled_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cancellations []*domain.Cancellation
	for rows.Next() {
		c := &domain.Cancellation{}
		if err := rows.Scan(&c.ID, &c.Plate, &c.Reason, &c.CancelledAt); err != nil {
			return nil, err
		}
		cancellations = append(cancellations, c)
	}

	return cancellations, rows.Err()
}
