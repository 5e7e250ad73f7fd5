package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cancellation - запись аудита об отмене въезда
type Cancellation struct {
	ID          uuid.UUID `json:"id"`
	Plate       string    `json:"plate"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// Validate проверяет корректность записи аудита
func (c *Cancellation) Validate() error {
	if c.Plate == "" {
		return ErrInvalidLicensePlate
	}
	if strings.TrimSpace(c.Reason) == "" {
		return ErrEmptyCancelReason
	}
	return nil
}
