package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/workpool/internal/models"
	"github.com/kubev2v/workpool/internal/store"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type historyParams struct {
	Limit  int   `form:"limit" binding:"omitempty,min=1"`
	Status []int `form:"status"`
}

type requestResponse struct {
	ID         string    `json:"id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	DurationMs float64   `json:"durationMs"`
	ServedAt   time.Time `json:"servedAt"`
}

// History returns the most recent served requests
// (GET /history)
func (h *Handler) History(c *gin.Context) {
	var params historyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := defaultHistoryLimit
	if params.Limit > 0 {
		limit = min(params.Limit, maxHistoryLimit)
	}

	opts := []store.ListOption{store.WithLimit(uint64(limit))}
	if len(params.Status) > 0 {
		opts = append(opts, store.ByStatus(params.Status...))
	}

	requests, err := h.history.List(c.Request.Context(), opts...)
	if err != nil {
		zap.S().Named("history_handler").Errorw("failed to list requests", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list requests"})
		return
	}

	resp := make([]requestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, requestResponse{
			ID:         r.ID,
			Method:     r.Method,
			Path:       r.Path,
			Status:     r.Status,
			DurationMs: float64(r.Duration.Microseconds()) / 1000,
			ServedAt:   r.ServedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"requests": resp})
}

// RecordRequest is a middleware that stores every served request in the history.
// Recording failures are logged and never change the response.
func (h *Handler) RecordRequest(c *gin.Context) {
	start := time.Now()
	c.Next()

	id := c.GetHeader(models.RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}

	r := models.Request{
		ID:       id,
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		Status:   c.Writer.Status(),
		Duration: time.Since(start),
		ServedAt: start,
	}
	if err := h.history.Record(c.Request.Context(), r); err != nil {
		zap.S().Named("history_handler").Warnw("failed to record request", "id", id, "error", err)
	}
}
