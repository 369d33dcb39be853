package handlers

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// ExportHandler serves journal downloads.
type ExportHandler struct {
	Service *services.ExportService
}

// NewExportHandler creates a new instance of ExportHandler.
func NewExportHandler(service *services.ExportService) *ExportHandler {
	return &ExportHandler{Service: service}
}

// ExportHandler renders the entries of a period in the requested format.
func (h *ExportHandler) ExportEntriesHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.FormatJSON
	}
	period := r.URL.Query().Get("period")

	payload, contentType, err := h.Service.Export(r.Context(), format, period)
	if err != nil {
		respondError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{"format": format, "period": period}).Info("Journal exported")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "mood-journal."+format))
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
