package postgres

import (
	"context"
	"fmt"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// entryRepository - PostgreSQL реализация EntryRepository
type entryRepository struct {
	db *pgxpool.Pool
}

// NewEntryRepository создает новый экземпляр entryRepository
func NewEntryRepository(db *pgxpool.Pool) repository.EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *domain.EntryRecord) error {
	query := `
		INSERT INTO entries (id, plate, vehicle_type, vehicle_model, vehicle_color, spot_id, entry_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.Vehicle.Plate,
		entry.Vehicle.Type,
		entry.Vehicle.Model,
		entry.Vehicle.Color,
		entry.SpotID,
		entry.EntryTime,
	)

	if err != nil {
		// Строка осталась от прошлого запуска, а в памяти ее нет
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create entry: %w", err)
	}

	return nil
}

func (r *entryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM entries WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotRegistered
	}

	return nil
}

func (r *entryRepository) List(ctx context.Context) ([]*domain.EntryRecord, error) {
	query := `
		SELECT id, plate, vehicle_type, vehicle_model, vehicle_color, spot_id, entry_time
		FROM entries
		ORDER BY spot_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.EntryRecord
	for rows.Next() {
		entry := &domain.EntryRecord{Vehicle: &domain.Vehicle{}}
		err := rows.Scan(
			&entry.ID,
			&entry.Vehicle.Plate,
			&entry.Vehicle.Type,
			&entry.Vehicle.Model,
			&entry.Vehicle.Color,
			&entry.SpotID,
			&entry.EntryTime,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
