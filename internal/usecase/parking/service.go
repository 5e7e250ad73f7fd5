package parking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/repository"
)

// CheckInRequest - запрос на въезд
type CheckInRequest struct {
	Plate       string `json:"plate" validate:"required"`
	VehicleType string `json:"vehicle_type" validate:"required"`
	Model       string `json:"model" validate:"required"`
	Color       string `json:"color" validate:"required"`
	SpotID      *int   `json:"spot_id,omitempty"`
}

// CancelRequest - запрос на отмену въезда
type CancelRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// QuoteResult - расчет стоимости без выезда
type QuoteResult struct {
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
	BilledHours int       `json:"billed_hours"`
	Fee         float64   `json:"fee"`
}

// MetricsRecorder принимает события жизненного цикла для метрик
type MetricsRecorder interface {
	RecordAdmission()
	RecordRejection(reason string)
	RecordRelease(billedHours int, fee float64)
	RecordCancellation()
	SetOccupancy(occupied, capacity int)
}

type noopMetrics struct{}

func (noopMetrics) RecordAdmission()           {}
func (noopMetrics) RecordRejection(string)     {}
func (noopMetrics) RecordRelease(int, float64) {}
func (noopMetrics) RecordCancellation()        {}
func (noopMetrics) SetOccupancy(int, int)      {}

// Service связывает Lifecycle с хранилищем, метриками и логированием
type Service struct {
	lifecycle   *Lifecycle
	entryRepo   repository.EntryRepository
	paymentRepo repository.PaymentRepository
	metrics     MetricsRecorder
	logger      logger.Logger
}

// NewService создает новый экземпляр ParkingService
func NewService(
	lifecycle *Lifecycle,
	entryRepo repository.EntryRepository,
	paymentRepo repository.PaymentRepository,
	metrics MetricsRecorder,
	logger logger.Logger,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		lifecycle:   lifecycle,
		entryRepo:   entryRepo,
		paymentRepo: paymentRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// CheckIn регистрирует въезд автомобиля.
// Если место не указано, занимается наименьшее свободное.
func (s *Service) CheckIn(ctx context.Context, req *CheckInRequest) (*domain.EntryRecord, error) {
	s.logger.Info("Vehicle check-in", map[string]interface{}{
		"plate":   req.Plate,
		"spot_id": req.SpotID,
	})

	vehicle, err := domain.NewVehicle(req.Plate, req.VehicleType, req.Model, req.Color)
	if err != nil {
		s.metrics.RecordRejection(rejectionReason(err))
		return nil, err
	}

	var record *domain.EntryRecord
	if req.SpotID != nil {
		record, err = s.lifecycle.Admit(vehicle, *req.SpotID)
	} else {
		record, err = s.lifecycle.AdmitNextFree(vehicle)
	}
	if err != nil {
		s.logger.Warn("Check-in rejected", map[string]interface{}{
			"plate": vehicle.Plate,
			"error": err.Error(),
		})
		s.metrics.RecordRejection(rejectionReason(err))
		return nil, err
	}

	if err := s.entryRepo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to save entry", map[string]interface{}{
			"plate": vehicle.Plate,
			"error": err.Error(),
		})
		// Въезд без сохраненной записи не должен оставаться в памяти
		if derr := s.lifecycle.discard(record); derr != nil {
			s.logger.Error("Failed to discard unsaved entry", map[string]interface{}{
				"plate": vehicle.Plate,
				"error": derr.Error(),
			})
		}
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	s.metrics.RecordAdmission()
	s.reportOccupancy()

	s.logger.Info("Vehicle checked in", map[string]interface{}{
		"entry_id": record.ID,
		"plate":    vehicle.Plate,
		"spot_id":  record.SpotID,
	})

	return record, nil
}

// CheckOut завершает стоянку по текущему времени и сохраняет оплату
func (s *Service) CheckOut(ctx context.Context, plate string) (*domain.Payment, error) {
	s.logger.Info("Vehicle check-out", map[string]interface{}{
		"plate": plate,
	})

	payment, err := s.lifecycle.Release(plate, s.lifecycle.Now())
	if err != nil {
		s.logger.Warn("Check-out failed", map[string]interface{}{
			"plate": plate,
			"error": err.Error(),
		})
		return nil, err
	}

	s.metrics.RecordRelease(payment.BilledHours, payment.Fee)
	s.reportOccupancy()

	// Выезд уже состоялся: при ошибке хранилища оплату нельзя потерять, пишем ее в лог.
	// Оплата и удаление записи о въезде фиксируются вместе, иначе после рестарта
	// автомобиль восстановится как стоящий и будет оплачен дважды.
	if err := s.paymentRepo.Settle(ctx, payment); err != nil {
		s.logger.Error("Failed to settle payment", map[string]interface{}{
			"payment_id":   payment.ID,
			"plate":        payment.Plate,
			"spot_id":      payment.SpotID,
			"entry_time":   payment.EntryTime,
			"exit_time":    payment.ExitTime,
			"billed_hours": payment.BilledHours,
			"fee":          payment.Fee,
			"error":        err.Error(),
		})
		return payment, fmt.Errorf("failed to save payment: %w", err)
	}

	s.logger.Info("Vehicle checked out", map[string]interface{}{
		"plate":        payment.Plate,
		"billed_hours": payment.BilledHours,
		"fee":          payment.Fee,
	})

	return payment, nil
}

// Cancel отменяет въезд без оплаты
func (s *Service) Cancel(ctx context.Context, plate, reason string) (*domain.EntryRecord, error) {
	s.logger.Info("Cancelling admission", map[string]interface{}{
		"plate":  plate,
		"reason": reason,
	})

	record, err := s.lifecycle.CancelAdmission(ctx, plate, reason)
	if err != nil {
		s.logger.Warn("Cancellation failed", map[string]interface{}{
			"plate": plate,
			"error": err.Error(),
		})
		return nil, err
	}

	s.metrics.RecordCancellation()
	s.reportOccupancy()

	if err := s.entryRepo.Delete(ctx, record.ID); err != nil {
		s.logger.Error("Failed to delete entry", map[string]interface{}{
			"entry_id": record.ID,
			"error":    err.Error(),
		})
		return record, fmt.Errorf("failed to delete entry: %w", err)
	}

	return record, nil
}

// GetEntry возвращает активную запись по номеру
func (s *Service) GetEntry(ctx context.Context, plate string) (*domain.EntryRecord, error) {
	record, ok := s.lifecycle.Find(plate)
	if !ok {
		return nil, domain.ErrNotRegistered
	}
	return record, nil
}

// ListEntries возвращает все активные записи
func (s *Service) ListEntries(ctx context.Context) []*domain.EntryRecord {
	return s.lifecycle.Entries()
}

// Occupancy возвращает снимок занятости
func (s *Service) Occupancy() Occupancy {
	return s.lifecycle.Occupancy()
}

// Rates возвращает действующую тарифную таблицу
func (s *Service) Rates() domain.Rates {
	return s.lifecycle.Calculator().Rates()
}

// Quote считает стоимость стоянки без изменения состояния
func (s *Service) Quote(entryTime, exitTime time.Time) (*QuoteResult, error) {
	hours, err := domain.BilledHours(entryTime, exitTime)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{
		EntryTime:   entryTime,
		ExitTime:    exitTime,
		BilledHours: hours,
		Fee:         s.lifecycle.Calculator().FeeForHours(hours),
	}, nil
}

// Restore загружает сохраненные записи в Lifecycle после рестарта
func (s *Service) Restore(ctx context.Context) error {
	records, err := s.entryRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	if err := s.lifecycle.Restore(records); err != nil {
		return err
	}

	s.reportOccupancy()

	s.logger.Info("Active entries restored", map[string]interface{}{
		"count": len(records),
	})
	return nil
}

func (s *Service) reportOccupancy() {
	occupancy := s.lifecycle.Occupancy()
	s.metrics.SetOccupancy(occupancy.Occupied, occupancy.Capacity)
}

// rejectionReason переводит ошибку въезда в метку метрики
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, domain.ErrSpotOccupied):
		return "spot_occupied"
	case errors.Is(err, domain.ErrInvalidSpot):
		return "invalid_spot"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "internal"
	}
}
