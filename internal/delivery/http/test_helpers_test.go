package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/parking/internal/delivery/http/middleware"
	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateTestUser создает тестового сотрудника
func CreateTestUser(id uuid.UUID, email string, role domain.UserRole) *domain.User {
	return &domain.User{
		ID:       id,
		Email:    email,
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
}

// CreateTestEntry создает тестовую запись о въезде
func CreateTestEntry(plate string, spotID int, entryTime time.Time) *domain.EntryRecord {
	return &domain.EntryRecord{
		ID: uuid.New(),
		Vehicle: &domain.Vehicle{
			Plate: plate,
			Type:  "car",
			Model: "Test Model",
			Color: "Test Color",
		},
		SpotID:    spotID,
		EntryTime: entryTime,
	}
}

// CreateAuthContext создает контекст с claims для тестирования
func CreateAuthContext(t *testing.T, userID uuid.UUID, role domain.UserRole) context.Context {
	t.Helper()
	return middleware.WithUserClaims(context.Background(), &jwt.Claims{
		UserID: userID,
		Email:  "test@parking.local",
		Role:   role,
	})
}

// CreateTestJWTToken создает тестовый access токен
func CreateTestJWTToken(user *domain.User, secretKey string) (string, error) {
	tokenService := jwt.NewTokenService(secretKey, 15*time.Minute, 7*24*time.Hour)
	tokenPair, err := tokenService.GenerateTokenPair(user)
	if err != nil {
		return "", err
	}
	return tokenPair.AccessToken, nil
}

// WithURLParam добавляет параметр chi в запрос
func WithURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// DecodeResponse разбирает JSON ответ
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return response
}

// AssertSuccess проверяет успешный ответ API
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError проверяет ошибочный ответ API
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
