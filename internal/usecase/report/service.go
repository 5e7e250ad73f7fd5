package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/repository"
)

// Service строит отчеты по оплатам
type Service struct {
	paymentRepo      repository.PaymentRepository
	cancellationRepo repository.CancellationRepository
	capacity         int
	location         *time.Location
	logger           logger.Logger
	now              func() time.Time
}

const (
	defaultCancellationLimit = 50
	maxCancellationLimit     = 500
)

// NewService создает новый экземпляр ReportService.
// Границы дня считаются в location.
func NewService(
	paymentRepo repository.PaymentRepository,
	cancellationRepo repository.CancellationRepository,
	capacity int,
	location *time.Location,
	logger logger.Logger,
) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		paymentRepo:      paymentRepo,
		cancellationRepo: cancellationRepo,
		capacity:         capacity,
		location:         location,
		logger:           logger,
		now:              time.Now,
	}
}

// DailyReport считает показатели за день по оплатам с выездом в этот день.
//
// AverageOccupancy - доля занятых место-минут: сумма минут стоянки внутри дня,
// деленная на capacity * прошедшие минуты дня (для текущего дня - до сейчас).
func (s *Service) DailyReport(ctx context.Context, date time.Time) (*domain.DailyReport, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	payments, err := s.paymentRepo.ListByExitBetween(ctx, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("Failed to load payments for report", map[string]interface{}{
			"date":  dayStart.Format(time.DateOnly),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	report := &domain.DailyReport{
		Date:         dayStart,
		VehicleCount: len(payments),
	}

	var stayMinutes, occupiedMinutes float64
	for _, p := range payments {
		report.Revenue += p.Fee
		stayMinutes += math.Floor(p.Duration().Minutes())

		from, to := p.EntryTime, p.ExitTime
		if from.Before(dayStart) {
			from = dayStart
		}
		if to.After(dayEnd) {
			to = dayEnd
		}
		occupiedMinutes += math.Floor(to.Sub(from).Minutes())
	}

	if report.VehicleCount > 0 {
		report.AverageStayHours = round2(stayMinutes / float64(report.VehicleCount) / 60)
	}

	elapsed := dayEnd
	if now := s.now().In(s.location); now.Before(dayEnd) {
		elapsed = now
	}
	if dayMinutes := math.Floor(elapsed.Sub(dayStart).Minutes()); dayMinutes > 0 && s.capacity > 0 {
		report.AverageOccupancy = round2(occupiedMinutes / (dayMinutes * float64(s.capacity)))
	}
	report.Revenue = round2(report.Revenue)

	return report, nil
}

// DailyReportCSV возвращает дневной отчет в CSV (метрика, значение)
func (s *Service) DailyReportCSV(ctx context.Context, date time.Time) ([]byte, error) {
	report, err := s.DailyReport(ctx, date)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := [][]string{
		{"metric", "value"},
		{"date", report.Date.Format("02/01/2006")},
		{"revenue", strconv.FormatFloat(report.Revenue, 'f', 2, 64)},
		{"vehicle_count", strconv.Itoa(report.VehicleCount)},
		{"average_stay_hours", strconv.FormatFloat(report.AverageStayHours, 'f', 2, 64)},
		{"average_occupancy", strconv.FormatFloat(report.AverageOccupancy*100, 'f', 2, 64) + "%"},
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}

	return buf.Bytes(), nil
}

// Receipt возвращает квитанцию по последней оплате номера
func (s *Service) Receipt(ctx context.Context, plate string) (*domain.Receipt, error) {
	payment, err := s.paymentRepo.GetLatestByPlate(ctx, domain.NormalizeLicensePlate(plate))
	if err != nil {
		return nil, err
	}
	return domain.ReceiptFromPayment(payment), nil
}

// History возвращает все оплаты номера, новые первыми
func (s *Service) History(ctx context.Context, plate string) ([]*domain.Receipt, error) {
	payments, err := s.paymentRepo.ListByPlate(ctx, domain.NormalizeLicensePlate(plate))
	if err != nil {
		return nil, err
	}

	history := make([]*domain.Receipt, 0, len(payments))
	for _, p := range payments {
		history = append(history, domain.ReceiptFromPayment(p))
	}
	return history, nil
}

// Cancellations возвращает журнал отмен, новые первыми.
// limit <= 0 - значение по умолчанию, сверху ограничен maxCancellationLimit.
func (s *Service) Cancellations(ctx context.Context, limit, offset int) ([]*domain.Cancellation, error) {
	if limit <= 0 {
		limit = defaultCancellationLimit
	}
	if limit > maxCancellationLimit {
		limit = maxCancellationLimit
	}
	if offset < 0 {
		offset = 0
	}

	cancellations, err := s.cancellationRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load cancellations: %w", err)
	}
	return cancellations, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
