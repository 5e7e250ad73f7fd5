package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// paymentRepository - PostgreSQL реализация PaymentRepository
type paymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository создает новый экземпляр paymentRepository
func NewPaymentRepository(db *pgxpool.Pool) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Settle(ctx context.Context, payment *domain.Payment) error {
	if payment.Entry == nil {
		return domain.ErrInvalidArgument
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO payments (id, plate, spot_id, entry_time, exit_time, billed_hours, fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, insert,
		payment.ID,
		payment.Plate,
		payment.SpotID,
		payment.EntryTime,
		payment.ExitTime,
		payment.BilledHours,
		payment.Fee,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	// Строки въезда может не быть: оплата все равно фиксируется
	if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE id = $1`, payment.Entry.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *paymentRepository) GetLatestByPlate(ctx context.Context, plate string) (*domain.Payment, error) {
	query := `
		SELECT id, plate, spot_id, entry_time, exit_time, billed_hours, fee
		FROM payments
		WHERE plate = $1
		ORDER BY exit_time DESC
		LIMIT 1
	`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, plate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	return payment, nil
}

func (r *paymentRepository) ListByPlate(ctx context.Context, plate string) ([]*domain.Payment, error) {
	query := `
		SELECT id, plate, spot_id, entry_time, exit_time, billed_hours, fee
		FROM payments
		WHERE plate = $1
		ORDER BY exit_time DESC
	`

	return r.list(ctx, query, plate)
}

func (r *paymentRepository) ListByExitBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	query := `
		SELECT id, plate, spot_id, entry_time, exit_time, billed_hours, fee
		FROM payments
		WHERE exit_time >= $1 AND exit_time < $2
		ORDER BY exit_time
	`

	return r.list(ctx, query, from, to)
}

func (r *paymentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	payment := &domain.Payment{}
	err := row.Scan(
		&payment.ID,
		&payment.Plate,
		&payment.SpotID,
		&payment.EntryTime,
		&payment.ExitTime,
		&payment.BilledHours,
		&payment.Fee,
	)
	if err != nil {
		return nil, err
	}
	return payment, nil
}
