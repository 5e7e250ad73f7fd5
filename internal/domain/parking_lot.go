package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParkingLot - парковка с ограниченной вместимостью
type ParkingLot struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

// NewParkingLot создает парковку, проверяя данные
func NewParkingLot(name, address string, capacity int) (*ParkingLot, error) {
	lot := &ParkingLot{
		Name:     strings.TrimSpace(name),
		Address:  strings.TrimSpace(address),
		Capacity: capacity,
	}
	if err := lot.Validate(); err != nil {
		return nil, err
	}
	return lot, nil
}

// Validate проверяет корректность данных парковки
func (l *ParkingLot) Validate() error {
	if strings.TrimSpace(l.Name) == "" || strings.TrimSpace(l.Address) == "" {
		return ErrInvalidParkingLotData
	}
	if l.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// SetCapacity меняет вместимость; значения <= 0 отклоняются
func (l *ParkingLot) SetCapacity(capacity int) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}
	l.Capacity = capacity
	return nil
}
