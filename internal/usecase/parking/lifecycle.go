package parking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
)

// AuditSink получает записи об отмене въезда
type AuditSink interface {
	RecordCancellation(ctx context.Context, plate, reason string) error
}

// Occupancy - снимок занятости парковки
type Occupancy struct {
	Capacity  int `json:"capacity"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}

// Option настраивает Lifecycle
type Option func(*Lifecycle)

// WithClock подменяет источник текущего времени (для тестов и восстановления)
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) {
		l.now = now
	}
}

// Lifecycle управляет въездом, выездом и отменой для одной парковки.
//
// Состояния номера: свободен -> на парковке -> свободен (через Release с оплатой
// или CancelAdmission без оплаты). Один mutex покрывает и CapacityGuard, и
// EntryRegistry: резерв+регистрация и удаление+освобождение атомарны для всех
// остальных вызовов. Под блокировкой нет I/O и логирования.
type Lifecycle struct {
	mu       sync.Mutex
	lot      *domain.ParkingLot
	guard    *CapacityGuard
	registry *EntryRegistry

	calculator *domain.TariffCalculator
	audit      AuditSink
	logger     logger.Logger
	now        func() time.Time
}

// NewLifecycle создает Lifecycle для парковки lot
func NewLifecycle(
	lot *domain.ParkingLot,
	calculator *domain.TariffCalculator,
	audit AuditSink,
	log logger.Logger,
	opts ...Option,
) (*Lifecycle, error) {
	if lot == nil || calculator == nil {
		return nil, domain.ErrInvalidArgument
	}
	if err := lot.Validate(); err != nil {
		return nil, err
	}

	guard, err := NewCapacityGuard(lot.Capacity)
	if err != nil {
		return nil, err
	}

	l := &Lifecycle{
		lot:        lot,
		guard:      guard,
		registry:   NewEntryRegistry(),
		calculator: calculator,
		audit:      audit,
		logger:     log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Admit регистрирует въезд автомобиля на место spotID
func (l *Lifecycle) Admit(vehicle *domain.Vehicle, spotID int) (*domain.EntryRecord, error) {
	if vehicle == nil {
		return nil, domain.ErrMissingVehicle
	}
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.admitLocked(vehicle, spotID, l.now())
}

// AdmitNextFree регистрирует въезд на наименьшее свободное место
func (l *Lifecycle) AdmitNextFree(vehicle *domain.Vehicle) (*domain.EntryRecord, error) {
	if vehicle == nil {
		return nil, domain.ErrMissingVehicle
	}
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	spotID, ok := l.registry.NextFreeSpot()
	if !ok {
		return nil, domain.ErrCapacityExceeded
	}
	return l.admitLocked(vehicle, spotID, l.now())
}

// admitLocked: сначала резерв вместимости, затем регистрация.
// Если реестр отказал, резерв откатывается до возврата ошибки.
func (l *Lifecycle) admitLocked(vehicle *domain.Vehicle, spotID int, at time.Time) (*domain.EntryRecord, error) {
	if err := l.guard.TryReserve(); err != nil {
		return nil, err
	}

	record, err := l.registry.Register(vehicle, spotID, at)
	if err != nil {
		l.guard.Release()
		return nil, err
	}
	return record, nil
}

// Release завершает стоянку и возвращает оплату.
// Порядок времени проверяется до изменения состояния: при выезде раньше въезда
// запись и место не трогаются. После удаления записи расчет по времени уже
// не может завершиться ошибкой, удаление и освобождение места не откатываются.
func (l *Lifecycle) Release(plate string, exitTime time.Time) (*domain.Payment, error) {
	if exitTime.IsZero() {
		return nil, domain.ErrMissingTimestamp
	}

	record, err := l.detach(domain.NormalizeLicensePlate(plate), func(r *domain.EntryRecord) error {
		if exitTime.Before(r.EntryTime) {
			return domain.ErrExitBeforeEntry
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	hours, err := domain.BilledHours(record.EntryTime, exitTime)
	if err != nil {
		return nil, err
	}
	return domain.NewPayment(record, exitTime, hours, l.calculator.FeeForHours(hours))
}

// CancelAdmission отменяет въезд без оплаты и пишет запись в аудит
func (l *Lifecycle) CancelAdmission(ctx context.Context, plate, reason string) (*domain.EntryRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrEmptyCancelReason
	}

	plate = domain.NormalizeLicensePlate(plate)
	record, err := l.detach(plate, nil)
	if err != nil {
		return nil, err
	}

	if l.audit != nil {
		if err := l.audit.RecordCancellation(ctx, plate, reason); err != nil {
			// Отмена уже выполнена, ошибка аудита не откатывает ее
			l.logger.Error("Failed to record cancellation", map[string]interface{}{
				"plate": plate,
				"error": err.Error(),
			})
		}
	}

	return record, nil
}

// discard удаляет запись без оплаты и без аудита (откат неудачного сохранения).
// Удаляется только сама record: если номер уже выехал и въехал снова, новая запись остается.
func (l *Lifecycle) discard(record *domain.EntryRecord) error {
	_, err := l.detach(record.Vehicle.Plate, func(current *domain.EntryRecord) error {
		if current.ID != record.ID {
			return domain.ErrNotRegistered
		}
		return nil
	})
	return err
}

// detach атомарно удаляет запись из реестра и освобождает место
func (l *Lifecycle) detach(plate string, check func(*domain.EntryRecord) error) (*domain.EntryRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.registry.Find(plate)
	if !ok {
		return nil, domain.ErrNotRegistered
	}
	if check != nil {
		if err := check(record); err != nil {
			return nil, err
		}
	}

	if _, err := l.registry.Remove(plate); err != nil {
		return nil, err
	}
	l.guard.Release()

	return record, nil
}

// Restore заполняет Lifecycle сохраненными записями после рестарта.
// Либо восстанавливаются все записи, либо ни одной.
func (l *Lifecycle) Restore(records []*domain.EntryRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	restored := make([]string, 0, len(records))
	for _, record := range records {
		if err := l.restoreLocked(record); err != nil {
			for _, plate := range restored {
				_, _ = l.registry.Remove(plate)
				l.guard.Release()
			}
			return fmt.Errorf("failed to restore entry: %w", err)
		}
		restored = append(restored, record.Vehicle.Plate)
	}
	return nil
}

func (l *Lifecycle) restoreLocked(record *domain.EntryRecord) error {
	if err := l.guard.TryReserve(); err != nil {
		return err
	}
	if err := l.registry.restore(record); err != nil {
		l.guard.Release()
		return err
	}
	return nil
}

// Find возвращает активную запись по номеру
func (l *Lifecycle) Find(plate string) (*domain.EntryRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.registry.Find(domain.NormalizeLicensePlate(plate))
}

// Entries возвращает активные записи, отсортированные по месту
func (l *Lifecycle) Entries() []*domain.EntryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.registry.List()
}

// Occupancy возвращает снимок занятости
func (l *Lifecycle) Occupancy() Occupancy {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Occupancy{
		Capacity:  l.guard.Capacity(),
		Occupied:  l.guard.CurrentOccupancy(),
		Available: l.guard.Available(),
	}
}

// Lot возвращает парковку
func (l *Lifecycle) Lot() *domain.ParkingLot {
	return l.lot
}

// Calculator возвращает тарифный калькулятор
func (l *Lifecycle) Calculator() *domain.TariffCalculator {
	return l.calculator
}

// Now возвращает текущее время по часам Lifecycle
func (l *Lifecycle) Now() time.Time {
	return l.now()
}
