package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReportService - мок для сервиса отчетов
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) DailyReport(ctx context.Context, date time.Time) (*domain.DailyReport, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyReport), args.Error(1)
}

func (m *MockReportService) DailyReportCSV(ctx context.Context, date time.Time) ([]byte, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReportService) Receipt(ctx context.Context, plate string) (*domain.Receipt, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReportService) History(ctx context.Context, plate string) ([]*domain.Receipt, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Receipt), args.Error(1)
}

func (m *MockReportService) Cancellations(ctx context.Context, limit, offset int) ([]*domain.Cancellation, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Cancellation), args.Error(1)
}

func TestReportHandler_DailyReport(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		mockSetup      func(*MockReportService)
		expectedStatus int
	}{
		{
			name:  "отчет за дату",
			query: "?date=2025-03-10",
			mockSetup: func(m *MockReportService) {
				m.On("DailyReport", mock.Anything, day).Return(&domain.DailyReport{
					Date:         day,
					VehicleCount: 2,
					Revenue:      45,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "без даты - сегодня",
			query: "",
			mockSetup: func(m *MockReportService) {
				m.On("DailyReport", mock.Anything, today).Return(&domain.DailyReport{Date: today}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "неверная дата",
			query:          "?date=10/03/2025",
			mockSetup:      func(m *MockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "ошибка хранилища",
			query: "?date=2025-03-10",
			mockSetup: func(m *MockReportService) {
				m.On("DailyReport", mock.Anything, day).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockReportService)
			tt.mockSetup(mockService)
			handler := NewReportHandler(mockService, logger.NewNoop())
			handler.now = func() time.Time { return today }

			w := httptest.NewRecorder()
			handler.DailyReport(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/daily"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestReportHandler_DailyReportCSV(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	csvData := []byte("metric,value\nvehicle_count,2\n")

	mockService := new(MockReportService)
	mockService.On("DailyReportCSV", mock.Anything, day).Return(csvData, nil)
	handler := NewReportHandler(mockService, logger.NewNoop())

	w := httptest.NewRecorder()
	handler.DailyReportCSV(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/daily.csv?date=2025-03-10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report_20250310.csv")
	assert.Equal(t, csvData, w.Body.Bytes())
}

func TestReportHandler_Receipts(t *testing.T) {
	entry := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("квитанция", func(t *testing.T) {
		mockService := new(MockReportService)
		mockService.On("Receipt", mock.Anything, "ABC123").Return(&domain.Receipt{
			Plate:     "ABC123",
			EntryTime: entry,
			ExitTime:  entry.Add(2 * time.Hour),
			Total:     35,
		}, nil)
		handler := NewReportHandler(mockService, logger.NewNoop())

		req := WithURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/receipts/ABC123", nil), "plate", "ABC123")
		w := httptest.NewRecorder()
		handler.GetReceipt(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := DecodeResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, float64(35), data["total"])
	})

	t.Run("оплат нет", func(t *testing.T) {
		mockService := new(MockReportService)
		mockService.On("Receipt", mock.Anything, "NONE").Return(nil, domain.ErrPaymentNotFound)
		handler := NewReportHandler(mockService, logger.NewNoop())

		req := WithURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/receipts/NONE", nil), "plate", "NONE")
		w := httptest.NewRecorder()
		handler.GetReceipt(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("история", func(t *testing.T) {
		mockService := new(MockReportService)
		mockService.On("History", mock.Anything, "ABC123").Return([]*domain.Receipt{
			{Plate: "ABC123", Total: 10},
			{Plate: "ABC123", Total: 35},
		}, nil)
		handler := NewReportHandler(mockService, logger.NewNoop())

		req := WithURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/history/ABC123", nil), "plate", "ABC123")
		w := httptest.NewRecorder()
		handler.GetHistory(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(2), DecodeResponse(t, w)["count"])
	})
}

func TestReportHandler_GetCancellations(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		mockSetup      func(*MockReportService)
		expectedStatus int
	}{
		{
			name:  "с пагинацией",
			query: "?limit=10&offset=20",
			mockSetup: func(m *MockReportService) {
				m.On("Cancellations", mock.Anything, 10, 20).Return([]*domain.Cancellation{
					{Plate: "ABC123", Reason: "ошибка оператора"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "без параметров",
			query: "",
			mockSetup: func(m *MockReportService) {
				m.On("Cancellations", mock.Anything, 0, 0).Return([]*domain.Cancellation{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "неверный limit",
			query:          "?limit=abc",
			mockSetup:      func(m *MockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockReportService)
			tt.mockSetup(mockService)
			handler := NewReportHandler(mockService, logger.NewNoop())

			w := httptest.NewRecorder()
			handler.GetCancellations(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/cancellations"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
