package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/repository"
	"github.com/google/uuid"
)

// Sink принимает записи об отмене въезда
type Sink interface {
	RecordCancellation(ctx context.Context, plate, reason string) error
}

// LogSink пишет отмены в лог
type LogSink struct {
	logger logger.Logger
}

// NewLogSink создает LogSink
func NewLogSink(logger logger.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "audit")}
}

// RecordCancellation пишет отмену в лог
func (s *LogSink) RecordCancellation(ctx context.Context, plate, reason string) error {
	s.logger.Info("Admission cancelled", map[string]interface{}{
		"plate":  plate,
		"reason": reason,
	})
	return nil
}

// StoreSink сохраняет отмены в БД
type StoreSink struct {
	repo repository.CancellationRepository
	now  func() time.Time
}

// NewStoreSink создает StoreSink
func NewStoreSink(repo repository.CancellationRepository) *StoreSink {
	return &StoreSink{repo: repo, now: time.Now}
}

// RecordCancellation сохраняет запись об отмене
func (s *StoreSink) RecordCancellation(ctx context.Context, plate, reason string) error {
	cancellation := &domain.Cancellation{
		ID:          uuid.New(),
		Plate:       plate,
		Reason:      reason,
		CancelledAt: s.now(),
	}
	if err := cancellation.Validate(); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, cancellation); err != nil {
		return fmt.Errorf("failed to store cancellation: %w", err)
	}
	return nil
}

// MultiSink передает отмену во все sink по порядку.
// Ошибка одного sink не останавливает остальные.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink создает MultiSink; nil sink пропускаются
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, sink := range sinks {
		if sink != nil {
			m.sinks = append(m.sinks, sink)
		}
	}
	return m
}

// RecordCancellation вызывает все sink и объединяет ошибки
func (m *MultiSink) RecordCancellation(ctx context.Context, plate, reason string) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.RecordCancellation(ctx, plate, reason); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
