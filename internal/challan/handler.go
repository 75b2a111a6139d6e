package challan

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/chamunda-enterprise/challan/internal/platform/httpx"
	"github.com/chamunda-enterprise/challan/internal/shared"
)

// Handler manages challan HTTP endpoints.
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
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/draft", h.saveDraft)
	r.Post("/save-download", h.saveAndDownload)
	r.Get("/generate-pdf/{id}", h.generatePDF)
	r.Get("/download/{invoiceNumber}", h.downloadByNumber)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// create handles POST /api/challans
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req ChallanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, "Failed to create challan")
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err, "Failed to create challan")
		return
	}

	message := "Challan created successfully"
	if c.Status == StatusDraft {
		message = "Challan saved as draft successfully"
	}
	httpx.OK(w, http.StatusCreated, message, c)
}

// list handles GET /api/challans
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := shared.ParsePage(q.Get("page"), q.Get("limit"))

	challans, pagination, err := h.service.List(r.Context(), q.Get("status"), page, limit)
	if err != nil {
		h.fail(w, err, "Failed to fetch challans")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope{Success: true, Data: challans, Pagination: pagination})
}

// show handles GET /api/challans/{id}
func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "Failed to fetch challan")
		return
	}
	httpx.OK(w, http.StatusOK, "", c)
}

// update handles PUT /api/challans/{id}
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, "Failed to update challan")
		return
	}

	c, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err, "Failed to update challan")
		return
	}
	httpx.OK(w, http.StatusOK, "Challan updated successfully", c)
}

// saveDraft handles POST /api/challans/draft
func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request) {
	var req ChallanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, "Failed to save draft")
		return
	}

	c, created, err := h.service.SaveDraft(r.Context(), req)
	if err != nil {
		h.fail(w, err, "Failed to save draft")
		return
	}
	if created {
		httpx.OK(w, http.StatusCreated, "Draft saved successfully", c)
		return
	}
	httpx.OK(w, http.StatusOK, "Draft updated successfully", c)
}

// saveAndDownload handles POST /api/challans/save-download
func (h *Handler) saveAndDownload(w http.ResponseWriter, r *http.Request) {
	var req ChallanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, "Failed to save and download challan")
		return
	}

	c, path, err := h.service.SaveAndRender(r.Context(), req)
	if err != nil {
		h.fail(w, err, "Failed to save and download challan")
		return
	}
	h.streamPDF(w, c, path)
}

// generatePDF handles GET /api/challans/generate-pdf/{id}
func (h *Handler) generatePDF(w http.ResponseWriter, r *http.Request) {
	c, path, err := h.service.RenderPDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "Failed to generate PDF")
		return
	}
	h.streamPDF(w, c, path)
}

// downloadByNumber handles GET /api/challans/download/{invoiceNumber}
func (h *Handler) downloadByNumber(w http.ResponseWriter, r *http.Request) {
	c, path, err := h.service.RenderPDFByNumber(r.Context(), chi.URLParam(r, "invoiceNumber"))
	if err != nil {
		h.fail(w, err, "Failed to generate PDF")
		return
	}
	h.streamPDF(w, c, path)
}

// delete handles DELETE /api/challans/{id}
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err, "Failed to delete challan")
		return
	}
	httpx.OK(w, http.StatusOK, "Challan deleted successfully", nil)
}

// streamPDF sends the rendered file and removes it afterwards.
func (h *Handler) streamPDF(w http.ResponseWriter, c *Challan, path string) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn("remove temp pdf failed", "path", path, "error", err)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		h.fail(w, fmt.Errorf("open pdf: %w", err), "Failed to generate PDF")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", InvoiceFilename(c.InvoiceNumber, c.Buyer)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Warn("stream pdf interrupted", "invoice", c.InvoiceNumber, "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error, summary string) {
	if httpx.StatusOf(err) == http.StatusInternalServerError {
		h.logger.Error(summary, "error", err)
	}
	httpx.RespondError(w, err, summary)
}
