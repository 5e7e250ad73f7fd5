package domain

import (
	"time"

	"github.com/google/uuid"
)

// Payment - оплата стоянки, создается один раз при выезде
// Ссылка на EntryRecord может пережить саму запись в реестре.
// Entry не сериализуется и не хранится в БД: после выезда из записи нужны только номер и место.
type Payment struct {
	ID          uuid.UUID    `json:"id"`
	Entry       *EntryRecord `json:"-"`
	Plate       string       `json:"plate"`
	SpotID      int          `json:"spot_id"`
	EntryTime   time.Time    `json:"entry_time"`
	ExitTime    time.Time    `json:"exit_time"`
	BilledHours int          `json:"billed_hours"`
	Fee         float64      `json:"fee"`
}

// NewPayment создает оплату по записи о въезде
func NewPayment(entry *EntryRecord, exitTime time.Time, billedHours int, fee float64) (*Payment, error) {
	if entry == nil || entry.Vehicle == nil {
		return nil, ErrInvalidArgument
	}
	if exitTime.IsZero() {
		return nil, ErrMissingTimestamp
	}
	if exitTime.Before(entry.EntryTime) {
		return nil, ErrExitBeforeEntry
	}
	if fee < 0 {
		return nil, ErrNegativeFee
	}

	return &Payment{
		ID:          uuid.New(),
		Entry:       entry,
		Plate:       entry.Vehicle.Plate,
		SpotID:      entry.SpotID,
		EntryTime:   entry.EntryTime,
		ExitTime:    exitTime,
		BilledHours: billedHours,
		Fee:         fee,
	}, nil
}

// Duration возвращает фактическую длительность стоянки
func (p *Payment) Duration() time.Duration {
	return p.ExitTime.Sub(p.EntryTime)
}
