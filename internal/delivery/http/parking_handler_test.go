package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/usecase/parking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockParkingService - мок для parking service
type MockParkingService struct {
	mock.Mock
}

func (m *MockParkingService) CheckIn(ctx context.Context, req *parking.CheckInRequest) (*domain.EntryRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryRecord), args.Error(1)
}

func (m *MockParkingService) CheckOut(ctx context.Context, plate string) (*domain.Payment, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockParkingService) Cancel(ctx context.Context, plate, reason string) (*domain.EntryRecord, error) {
	args := m.Called(ctx, plate, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryRecord), args.Error(1)
}

func (m *MockParkingService) GetEntry(ctx context.Context, plate string) (*domain.EntryRecord, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryRecord), args.Error(1)
}

func (m *MockParkingService) ListEntries(ctx context.Context) []*domain.EntryRecord {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.EntryRecord)
}

func (m *MockParkingService) Occupancy() parking.Occupancy {
	args := m.Called()
	return args.Get(0).(parking.Occupancy)
}

var handlerTestNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

// TestParkingHandler_CheckIn тестирует регистрацию въезда
func TestParkingHandler_CheckIn(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockParkingService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешный въезд",
			requestBody: parking.CheckInRequest{
				Plate:       "ABC123",
				VehicleType: "car",
				Model:       "Corolla",
				Color:       "white",
			},
			mockSetup: func(m *MockParkingService) {
				m.On("CheckIn", mock.Anything, mock.MatchedBy(func(req *parking.CheckInRequest) bool {
					return req.Plate == "ABC123" && req.SpotID == nil
				})).Return(CreateTestEntry("ABC123", 1, handlerTestNow), nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, float64(1), data["spot_id"])
			},
		},
		{
			name: "парковка заполнена",
			requestBody: parking.CheckInRequest{
				Plate:       "ABC123",
				VehicleType: "car",
				Model:       "Corolla",
				Color:       "white",
			},
			mockSetup: func(m *MockParkingService) {
				m.On("CheckIn", mock.Anything, mock.Anything).Return(nil, domain.ErrCapacityExceeded)
			},
			expectedStatus: http.StatusConflict,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Equal(t, domain.ErrCapacityExceeded.Error(), resp["error"])
			},
		},
		{
			name: "место занято",
			requestBody: map[string]interface{}{
				"plate": "ABC123", "vehicle_type": "car", "model": "Corolla", "color": "white", "spot_id": 5,
			},
			mockSetup: func(m *MockParkingService) {
				m.On("CheckIn", mock.Anything, mock.MatchedBy(func(req *parking.CheckInRequest) bool {
					return req.SpotID != nil && *req.SpotID == 5
				})).Return(nil, domain.ErrSpotOccupied)
			},
			expectedStatus: http.StatusConflict,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
		{
			name: "пустой номер",
			requestBody: parking.CheckInRequest{
				VehicleType: "car",
			},
			mockSetup: func(m *MockParkingService) {
				m.On("CheckIn", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidLicensePlate)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
		{
			name:           "невалидный JSON",
			requestBody:    "invalid json",
			mockSetup:      func(m *MockParkingService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
		{
			name: "ошибка хранилища скрыта",
			requestBody: parking.CheckInRequest{
				Plate:       "ABC123",
				VehicleType: "car",
				Model:       "Corolla",
				Color:       "white",
			},
			mockSetup: func(m *MockParkingService) {
				m.On("CheckIn", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.Equal(t, "Failed to check in", resp["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockParkingService)
			tt.mockSetup(mockService)
			handler := NewParkingHandler(mockService, logger.NewNoop())

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/entries", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CheckIn(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, DecodeResponse(t, w))
			mockService.AssertExpectations(t)
		})
	}
}

// TestParkingHandler_CheckOut тестирует выезд
func TestParkingHandler_CheckOut(t *testing.T) {
	tests := []struct {
		name           string
		plate          string
		mockSetup      func(*MockParkingService)
		expectedStatus int
	}{
		{
			name:  "успешный выезд",
			plate: "ABC123",
			mockSetup: func(m *MockParkingService) {
				m.On("CheckOut", mock.Anything, "ABC123").Return(&domain.Payment{
					ID:          uuid.New(),
					Plate:       "ABC123",
					SpotID:      1,
					EntryTime:   handlerTestNow,
					ExitTime:    handlerTestNow.Add(5 * time.Hour),
					BilledHours: 5,
					Fee:         35,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "автомобиль не на парковке",
			plate: "XYZ999",
			mockSetup: func(m *MockParkingService) {
				m.On("CheckOut", mock.Anything, "XYZ999").Return(nil, domain.ErrNotRegistered)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockParkingService)
			tt.mockSetup(mockService)
			handler := NewParkingHandler(mockService, logger.NewNoop())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/entries/"+tt.plate+"/exit", nil)
			req = WithURLParam(req, "plate", tt.plate)
			w := httptest.NewRecorder()

			handler.CheckOut(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				resp := DecodeResponse(t, w)
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, float64(35), data["fee"])
				assert.Equal(t, float64(5), data["billed_hours"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestParkingHandler_Cancel тестирует отмену въезда
func TestParkingHandler_Cancel(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockParkingService)
		expectedStatus int
	}{
		{
			name:        "успешная отмена",
			requestBody: parking.CancelRequest{Reason: "ошибочный въезд"},
			mockSetup: func(m *MockParkingService) {
				m.On("Cancel", mock.Anything, "ABC123", "ошибочный въезд").
					Return(CreateTestEntry("ABC123", 3, handlerTestNow), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "пустая причина",
			requestBody: parking.CancelRequest{Reason: ""},
			mockSetup: func(m *MockParkingService) {
				m.On("Cancel", mock.Anything, "ABC123", "").Return(nil, domain.ErrEmptyCancelReason)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "невалидный JSON",
			requestBody:    "{",
			mockSetup:      func(m *MockParkingService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockParkingService)
			tt.mockSetup(mockService)
			handler := NewParkingHandler(mockService, logger.NewNoop())

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/entries/ABC123/cancel", bytes.NewReader(body))
			req = WithURLParam(req, "plate", "ABC123")
			w := httptest.NewRecorder()

			handler.Cancel(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestParkingHandler_Queries тестирует чтение записей и занятости
func TestParkingHandler_Queries(t *testing.T) {
	t.Run("список записей", func(t *testing.T) {
		mockService := new(MockParkingService)
		mockService.On("ListEntries", mock.Anything).Return([]*domain.EntryRecord{
			CreateTestEntry("AAA111", 1, handlerTestNow),
			CreateTestEntry("BBB222", 2, handlerTestNow),
		})
		handler := NewParkingHandler(mockService, logger.NewNoop())

		w := httptest.NewRecorder()
		handler.ListEntries(w, httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		resp := DecodeResponse(t, w)
		assert.Equal(t, float64(2), resp["count"])
	})

	t.Run("запись не найдена", func(t *testing.T) {
		mockService := new(MockParkingService)
		mockService.On("GetEntry", mock.Anything, "NONE").Return(nil, domain.ErrNotRegistered)
		handler := NewParkingHandler(mockService, logger.NewNoop())

		req := WithURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/entries/NONE", nil), "plate", "NONE")
		w := httptest.NewRecorder()
		handler.GetEntry(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("занятость", func(t *testing.T) {
		mockService := new(MockParkingService)
		mockService.On("Occupancy").Return(parking.Occupancy{Capacity: 200, Occupied: 3, Available: 197})
		handler := NewParkingHandler(mockService, logger.NewNoop())

		w := httptest.NewRecorder()
		handler.GetOccupancy(w, httptest.NewRequest(http.MethodGet, "/api/v1/occupancy", nil))

		resp := DecodeResponse(t, w)
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, float64(197), data["available"])
	})
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"место занято раньше неверного места", domain.ErrSpotOccupied, http.StatusConflict},
		{"неверное место", domain.ErrInvalidSpot, http.StatusBadRequest},
		{"повторный въезд", domain.ErrAlreadyRegistered, http.StatusConflict},
		{"выезд раньше въезда", domain.ErrExitBeforeEntry, http.StatusBadRequest},
		{"нет оплаты", domain.ErrPaymentNotFound, http.StatusNotFound},
		{"обернутая ошибка", errors.Join(errors.New("ctx"), domain.ErrNotRegistered), http.StatusNotFound},
		{"неизвестная", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFromError(tt.err))
		})
	}
}
