package http

import (
	"net/http"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/usecase/parking"
)

// TariffService определяет интерфейс для тарифов и расчета стоимости
type TariffService interface {
	Rates() domain.Rates
	Quote(entryTime, exitTime time.Time) (*parking.QuoteResult, error)
}

// TariffHandler отдает тарифную таблицу и предварительный расчет
type TariffHandler struct {
	tariffService TariffService
}

// NewTariffHandler создает новый handler
func NewTariffHandler(tariffService TariffService) *TariffHandler {
	return &TariffHandler{
		tariffService: tariffService,
	}
}

// GetRates возвращает действующую тарифную таблицу
// GET /api/v1/tariff
func (h *TariffHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.tariffService.Rates())
}

// Quote считает стоимость стоянки
// GET /api/v1/tariff/quote?entry=RFC3339&exit=RFC3339
func (h *TariffHandler) Quote(w http.ResponseWriter, r *http.Request) {
	entryTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("entry"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid entry time, expected RFC3339")
		return
	}
	exitTime, err := time.Parse(time.RFC3339, r.URL.Query().Get("exit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid exit time, expected RFC3339")
		return
	}

	quote, err := h.tariffService.Quote(entryTime, exitTime)
	if err != nil {
		respondDomainError(w, err, "Failed to calculate fee")
		return
	}

	respondData(w, http.StatusOK, quote)
}
