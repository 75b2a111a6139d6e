package reports

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chamunda-enterprise/challan/internal/platform/httpx"
)

// Handler serves the monthly workbook endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/monthly-excel/list", h.list)
	r.Get("/monthly-excel/download", h.download)
	r.Get("/monthly-excel/{year}/{month}", h.generate)
}

// generate handles GET /monthly-excel/{year}/{month}
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	year, errYear := strconv.Atoi(chi.URLParam(r, "year"))
	month, errMonth := strconv.Atoi(chi.URLParam(r, "month"))
	if errYear != nil || errMonth != nil {
		httpx.RespondError(w, ErrInvalidPeriod, "")
		return
	}

	wb, err := h.service.Generate(r.Context(), year, month, OriginHTTP)
	if err != nil {
		h.fail(w, err, "Failed to generate monthly Excel")
		return
	}
	writeWorkbook(w, wb.Filename, wb.Buffer)
}

// list handles GET /monthly-excel/list
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	files, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to get monthly Excel files")
		return
	}
	httpx.OK(w, http.StatusOK, "", files)
}

// download handles GET /monthly-excel/download?filename=
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Download(r.Context(), r.URL.Query().Get("filename"))
	if err != nil {
		h.fail(w, err, "Failed to download monthly Excel")
		return
	}
	writeWorkbook(w, report.Filename, report.Data)
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", SpreadsheetContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) fail(w http.ResponseWriter, err error, summary string) {
	if httpx.StatusOf(err) == http.StatusInternalServerError {
		h.logger.Error(summary, "error", err)
	}
	httpx.RespondError(w, err, summary)
}
