package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/usecase/parking"
	"github.com/go-chi/chi/v5"
)

// ParkingService определяет интерфейс для сервиса въезда и выезда
type ParkingService interface {
	CheckIn(ctx context.Context, req *parking.CheckInRequest) (*domain.EntryRecord, error)
	CheckOut(ctx context.Context, plate string) (*domain.Payment, error)
	Cancel(ctx context.Context, plate, reason string) (*domain.EntryRecord, error)
	GetEntry(ctx context.Context, plate string) (*domain.EntryRecord, error)
	ListEntries(ctx context.Context) []*domain.EntryRecord
	Occupancy() parking.Occupancy
}

// ParkingHandler обрабатывает въезд, выезд и отмену
type ParkingHandler struct {
	parkingService ParkingService
	logger         logger.Logger
}

// NewParkingHandler создает новый handler
func NewParkingHandler(parkingService ParkingService, logger logger.Logger) *ParkingHandler {
	return &ParkingHandler{
		parkingService: parkingService,
		logger:         logger,
	}
}

// CheckIn регистрирует въезд
// POST /api/v1/entries
func (h *ParkingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req parking.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.parkingService.CheckIn(r.Context(), &req)
	if err != nil {
		h.logFailure("Check-in failed", req.Plate, err)
		respondDomainError(w, err, "Failed to check in")
		return
	}

	respondData(w, http.StatusCreated, record)
}

// CheckOut завершает стоянку и возвращает оплату
// POST /api/v1/entries/{plate}/exit
func (h *ParkingHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")

	payment, err := h.parkingService.CheckOut(r.Context(), plate)
	if err != nil {
		h.logFailure("Check-out failed", plate, err)
		respondDomainError(w, err, "Failed to check out")
		return
	}

	respondData(w, http.StatusOK, payment)
}

// Cancel отменяет въезд без оплаты
// POST /api/v1/entries/{plate}/cancel
func (h *ParkingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")

	var req parking.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.parkingService.Cancel(r.Context(), plate, req.Reason)
	if err != nil {
		h.logFailure("Cancellation failed", plate, err)
		respondDomainError(w, err, "Failed to cancel admission")
		return
	}

	respondData(w, http.StatusOK, record)
}

// GetEntry возвращает активную запись по номеру
// GET /api/v1/entries/{plate}
func (h *ParkingHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	record, err := h.parkingService.GetEntry(r.Context(), chi.URLParam(r, "plate"))
	if err != nil {
		respondDomainError(w, err, "Failed to get entry")
		return
	}

	respondData(w, http.StatusOK, record)
}

// ListEntries возвращает все активные записи
// GET /api/v1/entries
func (h *ParkingHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	records := h.parkingService.ListEntries(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    records,
		"count":   len(records),
	})
}

// GetOccupancy возвращает занятость парковки
// GET /api/v1/occupancy
func (h *ParkingHandler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.parkingService.Occupancy())
}

// logFailure пишет в лог только непредвиденные ошибки; отказы по правилам логирует сервис
func (h *ParkingHandler) logFailure(msg, plate string, err error) {
	if statusFromError(err) != http.StatusInternalServerError {
		return
	}
	h.logger.Error(msg, map[string]interface{}{
		"plate": plate,
		"error": err.Error(),
	})
}
