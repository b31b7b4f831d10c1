package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kubev2v/workpool/internal/config"
	"github.com/kubev2v/workpool/internal/models"
	"github.com/kubev2v/workpool/internal/store"
)

// HistoryStore stores served requests.
type HistoryStore interface {
	Record(ctx context.Context, r models.Request) error
	List(ctx context.Context, opts ...store.ListOption) ([]models.Request, error)
}

type Handler struct {
	staticsFolder string
	sleepDelay    time.Duration
	history       HistoryStore
	gatherer      prometheus.Gatherer
}

// New creates a Handler. history and gatherer may be nil, which disables
// request recording and the /history and /metrics routes.
func New(cfg config.Server, history HistoryStore, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		staticsFolder: cfg.StaticsFolder,
		sleepDelay:    cfg.SleepDelay,
		history:       history,
		gatherer:      gatherer,
	}
}

// RegisterHandlers installs the routes on router.
func RegisterHandlers(router *gin.Engine, h *Handler) {
	if h.history != nil {
		router.Use(h.RecordRequest)
	}

	router.GET("/", h.Index)
	router.GET("/sleep", h.Sleep)
	if h.history != nil {
		router.GET("/history", h.History)
	}
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
	router.NoRoute(h.NotFound)
}
