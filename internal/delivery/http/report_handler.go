package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ReportService определяет интерфейс для сервиса отчетов
type ReportService interface {
	DailyReport(ctx context.Context, date time.Time) (*domain.DailyReport, error)
	DailyReportCSV(ctx context.Context, date time.Time) ([]byte, error)
	Receipt(ctx context.Context, plate string) (*domain.Receipt, error)
	History(ctx context.Context, plate string) ([]*domain.Receipt, error)
	Cancellations(ctx context.Context, limit, offset int) ([]*domain.Cancellation, error)
}

// ReportHandler обрабатывает запросы отчетов
type ReportHandler struct {
	reportService ReportService
	logger        logger.Logger
	now           func() time.Time
}

// NewReportHandler создает новый handler
func NewReportHandler(reportService ReportService, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
		now:           time.Now,
	}
}

// DailyReport возвращает отчет за день
// GET /api/v1/reports/daily?date=YYYY-MM-DD
func (h *ReportHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	report, err := h.reportService.DailyReport(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to build daily report", map[string]interface{}{
			"date":  date.Format(time.DateOnly),
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondData(w, http.StatusOK, report)
}

// DailyReportCSV отдает отчет за день в CSV
// GET /api/v1/reports/daily.csv?date=YYYY-MM-DD
func (h *ReportHandler) DailyReportCSV(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	data, err := h.reportService.DailyReportCSV(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to export daily report", map[string]interface{}{
			"date":  date.Format(time.DateOnly),
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to export report")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report_`+date.Format("20060102")+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetReceipt возвращает квитанцию о последней оплате
// GET /api/v1/reports/receipts/{plate}
func (h *ReportHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.reportService.Receipt(r.Context(), chi.URLParam(r, "plate"))
	if err != nil {
		respondDomainError(w, err, "Failed to get receipt")
		return
	}

	respondData(w, http.StatusOK, receipt)
}

// GetHistory возвращает историю оплат по номеру
// GET /api/v1/reports/history/{plate}
func (h *ReportHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.reportService.History(r.Context(), chi.URLParam(r, "plate"))
	if err != nil {
		respondDomainError(w, err, "Failed to get history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    history,
		"count":   len(history),
	})
}

// GetCancellations возвращает журнал отмен
// GET /api/v1/reports/cancellations?limit=50&offset=0
func (h *ReportHandler) GetCancellations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid offset")
		return
	}

	cancellations, err := h.reportService.Cancellations(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to get cancellations", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get cancellations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    cancellations,
		"count":   len(cancellations),
	})
}

// queryInt читает целый query параметр; отсутствие - 0
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// parseDate читает ?date=YYYY-MM-DD; без параметра - сегодня
func (h *ReportHandler) parseDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return h.now(), true
	}

	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
