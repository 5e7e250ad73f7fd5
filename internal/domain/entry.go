package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinSpotID = 1
	MaxSpotID = 200
)

// EntryRecord - запись о въезде автомобиля
// Существует только пока автомобиль на парковке. Не более одной записи на номер.
type EntryRecord struct {
	ID        uuid.UUID `json:"id"`
	Vehicle   *Vehicle  `json:"vehicle"`
	SpotID    int       `json:"spot_id"`
	EntryTime time.Time `json:"entry_time"`
}

// ValidSpot проверяет, что номер места в допустимом диапазоне
func ValidSpot(spotID int) bool {
	return spotID >= MinSpotID && spotID <= MaxSpotID
}

// NewEntryRecord создает запись о въезде
func NewEntryRecord(vehicle *Vehicle, spotID int, entryTime time.Time) (*EntryRecord, error) {
	if vehicle == nil {
		return nil, ErrMissingVehicle
	}
	if !ValidSpot(spotID) {
		return nil, ErrInvalidSpot
	}
	if entryTime.IsZero() {
		return nil, ErrMissingTimestamp
	}

	return &EntryRecord{
		ID:        uuid.New(),
		Vehicle:   vehicle,
		SpotID:    spotID,
		EntryTime: entryTime,
	}, nil
}

// Plate возвращает номер автомобиля записи
func (e *EntryRecord) Plate() string {
	return e.Vehicle.Plate
}
