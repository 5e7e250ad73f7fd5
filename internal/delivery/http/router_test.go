package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/config"
	"github.com/frontandrew/parking/internal/pkg/jwt"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/usecase/parking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const routerTestSecret = "router-test-secret"

func newTestRouter(t *testing.T, parkingService *MockParkingService) http.Handler {
	t.Helper()
	log := logger.NewNoop()
	cfg := &config.Config{
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		},
	}
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("parking_admissions_total 0\n"))
	})

	return NewRouter(
		NewAuthHandler(new(MockAuthService), log),
		NewParkingHandler(parkingService, log),
		NewTariffHandler(new(MockTariffService)),
		NewReportHandler(new(MockReportService), log),
		jwt.NewTokenService(routerTestSecret, 15*time.Minute, time.Hour),
		metricsHandler,
		cfg,
		log,
	).Setup()
}

func bearer(t *testing.T, role domain.UserRole) string {
	t.Helper()
	token, err := CreateTestJWTToken(CreateTestUser(uuid.New(), "staff@parking.local", role), routerTestSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		auth           domain.UserRole
		mockSetup      func(*MockParkingService)
		expectedStatus int
	}{
		{
			name:           "health без авторизации",
			method:         http.MethodGet,
			path:           "/health",
			mockSetup:      func(m *MockParkingService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "метрики",
			method:         http.MethodGet,
			path:           "/metrics",
			mockSetup:      func(m *MockParkingService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "занятость публична",
			method: http.MethodGet,
			path:   "/api/v1/occupancy",
			mockSetup: func(m *MockParkingService) {
				m.On("Occupancy").Return(parking.Occupancy{Capacity: 1, Available: 1})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "записи требуют токен",
			method:         http.MethodGet,
			path:           "/api/v1/entries",
			mockSetup:      func(m *MockParkingService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "оператор видит записи",
			method: http.MethodGet,
			path:   "/api/v1/entries",
			auth:   domain.RoleOperator,
			mockSetup: func(m *MockParkingService) {
				m.On("ListEntries", mock.Anything).Return([]*domain.EntryRecord{})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "номер из пути",
			method: http.MethodPost,
			path:   "/api/v1/entries/ABC123/exit",
			auth:   domain.RoleOperator,
			mockSetup: func(m *MockParkingService) {
				m.On("CheckOut", mock.Anything, "ABC123").Return(nil, domain.ErrNotRegistered)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "отчеты только администратору",
			method:         http.MethodGet,
			path:           "/api/v1/reports/daily",
			auth:           domain.RoleOperator,
			mockSetup:      func(m *MockParkingService) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "регистрация только администратору",
			method:         http.MethodPost,
			path:           "/api/v1/auth/register",
			auth:           domain.RoleOperator,
			mockSetup:      func(m *MockParkingService) {},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parkingService := new(MockParkingService)
			tt.mockSetup(parkingService)
			router := newTestRouter(t, parkingService)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", bearer(t, tt.auth))
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			parkingService.AssertExpectations(t)
		})
	}
}
