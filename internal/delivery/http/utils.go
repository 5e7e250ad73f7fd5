package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frontandrew/parking/internal/domain"
)

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondData отправляет успешный ответ в конверте {"success": true, "data": ...}
func respondData(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// statusFromError переводит доменную ошибку в HTTP статус.
// Неизвестные ошибки - 500.
func statusFromError(err error) int {
	switch {
	// ErrSpotOccupied оборачивает ErrInvalidSpot, поэтому проверяется раньше
	case errors.Is(err, domain.ErrSpotOccupied),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidSpot),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidUserData):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotRegistered),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrParkingLotNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserInactive),
		errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError отвечает статусом по доменной ошибке.
// Текст внутренних ошибок наружу не отдается.
func respondDomainError(w http.ResponseWriter, err error, fallback string) {
	code := statusFromError(err)
	if code == http.StatusInternalServerError {
		respondError(w, code, fallback)
		return
	}
	respondError(w, code, err.Error())
}
