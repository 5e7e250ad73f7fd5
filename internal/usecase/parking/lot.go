package parking

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/repository"
)

// LoadOrCreateLot возвращает сохраненную парковку или создает ее из настроек.
// У сохраненной парковки вместимость из настроек имеет приоритет и записывается в БД.
func LoadOrCreateLot(
	ctx context.Context,
	repo repository.ParkingLotRepository,
	name, address string,
	capacity int,
	log logger.Logger,
) (*domain.ParkingLot, error) {
	lot, err := repo.GetCurrent(ctx)
	if err == nil {
		if lot.Capacity != capacity {
			log.Warn("Stored capacity differs from configuration, using configuration", map[string]interface{}{
				"lot_id":     lot.ID,
				"stored":     lot.Capacity,
				"configured": capacity,
			})
			if err := lot.SetCapacity(capacity); err != nil {
				return nil, err
			}
			if err := repo.UpdateCapacity(ctx, lot.ID, capacity); err != nil {
				return nil, fmt.Errorf("failed to update parking lot capacity: %w", err)
			}
		}
		return lot, nil
	}
	if !errors.Is(err, domain.ErrParkingLotNotFound) {
		return nil, fmt.Errorf("failed to load parking lot: %w", err)
	}

	lot, err = domain.NewParkingLot(name, address, capacity)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to create parking lot: %w", err)
	}

	log.Info("Parking lot created", map[string]interface{}{
		"lot_id":   lot.ID,
		"name":     lot.Name,
		"capacity": lot.Capacity,
	})
	return lot, nil
}
