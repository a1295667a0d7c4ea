package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/supportdesk/backend/internal/ingest"
	"github.com/supportdesk/backend/internal/models"
	"github.com/supportdesk/backend/internal/queue"
	"github.com/supportdesk/backend/internal/service"
)

// EmailStore persists imported emails. *db.Store satisfies it.
type EmailStore interface {
	Ping(ctx context.Context) error
	InsertEmails(ctx context.Context, emails []models.Email) (int64, error)
	ReplaceEmails(ctx context.Context, emails []models.Email) (int64, error)
}

type Handler struct {
	Triage         *service.TriageService
	Store          EmailStore
	Validator      *validator.Validate
	Logger         zerolog.Logger
	RequestTimeout time.Duration
}

// RankedItem is a queue item with its 1-indexed position in the full queue.
type RankedItem struct {
	Rank int `json:"rank"`
	models.Item
}

type ListResponse struct {
	Items []RankedItem `json:"items"`
	Count int          `json:"count"`
}

type ImportResponse struct {
	Batch     string                `json:"batch"`
	Rows      int                   `json:"rows"`
	Stored    int64                 `json:"stored"`
	RowErrors []ingest.RowError     `json:"row_errors"`
	Summary   service.IngestSummary `json:"summary"`
}

type EditResponseRequest struct {
	Response string `json:"response" validate:"required"`
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "items": h.Triage.Len()})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "items": h.Triage.Len()})
}

// @Summary List triaged emails
// @Description Most urgent first. Optional priority filter keeps queue order.
// @Tags emails
// @Produce json
// @Param priority query string false "Urgent or Not urgent"
// @Success 200 {object} ListResponse
// @Failure 400 {object} map[string]any
// @Router /api/emails [get]
func (h *Handler) ListEmails(c *gin.Context) {
	raw := c.Query("priority")
	var (
		want     models.Priority
		filtered = raw != ""
	)
	if filtered {
		p, ok := parsePriority(raw)
		if !ok {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "priority must be Urgent or Not urgent", raw)
			return
		}
		want = p
	}

	// Ranks come from the same snapshot that is filtered.
	view := h.Triage.OrderedView()
	out := make([]RankedItem, 0, len(view))
	for i, it := range view {
		if filtered && it.Priority != want {
			continue
		}
		out = append(out, RankedItem{Rank: i + 1, Item: it})
	}
	c.JSON(http.StatusOK, ListResponse{Items: out, Count: len(out)})
}

// @Summary Email detail
// @Tags emails
// @Produce json
// @Param rank path int true "1-indexed queue rank"
// @Success 200 {object} RankedItem
// @Failure 404 {object} map[string]any
// @Router /api/emails/{rank} [get]
func (h *Handler) GetEmail(c *gin.Context) {
	rank, ok := rankParam(c)
	if !ok {
		return
	}
	it, err := h.Triage.ItemAt(rank)
	if err != nil {
		h.writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, RankedItem{Rank: rank, Item: it})
}

// @Summary Analytics
// @Tags analytics
// @Produce json
// @Success 200 {object} models.Analytics
// @Router /api/analytics [get]
func (h *Handler) Analytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Triage.Analytics())
}

// @Summary Import emails CSV
// @Description Replaces the queue with a triaged batch. mode=append keeps existing items. Emails are stored first when a database is configured.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param emails formData file true "emails.csv"
// @Param mode query string false "replace or append"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} map[string]any
// @Router /api/import [post]
func (h *Handler) Import(c *gin.Context) {
	file, err := c.FormFile("emails")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "emails file required", nil)
		return
	}
	if !ingest.ValidateExt(file.Filename) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "file must be .csv", nil)
		return
	}
	mode := strings.ToLower(c.DefaultQuery("mode", "replace"))
	if mode != "replace" && mode != "append" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "mode must be replace or append", mode)
		return
	}

	f, err := file.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to open upload", err.Error())
		return
	}
	defer f.Close()

	batch := ingest.NewBatch()
	logger := h.Logger.With().Str("batch", batch).Str("mode", mode).Logger()
	emails, rowErrs, err := ingest.ParseCSV(f, ingest.Options{Batch: batch, Logger: logger})
	if err != nil {
		writeError(c, http.StatusBadRequest, "CSV_PARSE_ERROR", "CSV validation errors", err.Error())
		return
	}

	ctx := c.Request.Context()
	if h.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.RequestTimeout)
		defer cancel()
	}

	var stored int64
	if h.Store != nil {
		if mode == "append" {
			stored, err = h.Store.InsertEmails(ctx, emails)
		} else {
			stored, err = h.Store.ReplaceEmails(ctx, emails)
		}
		if err != nil {
			logger.Error().Err(err).Msg("persist emails failed")
			writeError(c, http.StatusServiceUnavailable, "DB_ERROR", "Failed to store emails", err.Error())
			return
		}
	}

	var summary service.IngestSummary
	if mode == "append" {
		summary, err = h.Triage.Ingest(ctx, emails)
	} else {
		summary, err = h.Triage.Replace(ctx, emails)
	}
	if err != nil {
		logger.Error().Err(err).Msg("import failed")
		writeError(c, http.StatusServiceUnavailable, "INGEST_ERROR", "Ingest did not complete", err.Error())
		return
	}

	if rowErrs == nil {
		rowErrs = []ingest.RowError{}
	}
	c.JSON(http.StatusOK, ImportResponse{Batch: batch, Rows: len(emails), Stored: stored, RowErrors: rowErrs, Summary: summary})
}

// @Summary Resolve email
// @Tags emails
// @Produce json
// @Param rank path int true "1-indexed queue rank"
// @Success 200 {object} RankedItem
// @Failure 404 {object} map[string]any
// @Router /api/emails/{rank}/resolve [post]
func (h *Handler) Resolve(c *gin.Context) {
	rank, ok := rankParam(c)
	if !ok {
		return
	}
	it, err := h.Triage.MarkResolved(rank)
	if err != nil {
		h.writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, RankedItem{Rank: rank, Item: it})
}

// @Summary Edit drafted response
// @Tags emails
// @Accept json
// @Produce json
// @Param rank path int true "1-indexed queue rank"
// @Param body body EditResponseRequest true "New response text"
// @Success 200 {object} RankedItem
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/emails/{rank}/response [put]
func (h *Handler) EditResponse(c *gin.Context) {
	rank, ok := rankParam(c)
	if !ok {
		return
	}
	var req EditResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	it, err := h.Triage.EditResponse(rank, req.Response)
	if err != nil {
		h.writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, RankedItem{Rank: rank, Item: it})
}

func (h *Handler) writeQueueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queue.ErrOutOfRange):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No email at that rank", err.Error())
	case errors.Is(err, service.ErrEmptyResponse):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Response text is empty", nil)
	default:
		h.Logger.Error().Err(err).Msg("queue operation failed")
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Queue operation failed", err.Error())
	}
}

func rankParam(c *gin.Context) (int, bool) {
	rank, err := strconv.Atoi(c.Param("rank"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "rank must be an integer", c.Param("rank"))
		return 0, false
	}
	return rank, true
}

func parsePriority(v string) (models.Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(v, "_", " "))) {
	case "urgent":
		return models.PriorityUrgent, true
	case "not urgent":
		return models.PriorityNotUrgent, true
	default:
		return "", false
	}
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
