package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	helloPage    = "hello.html"
	notFoundPage = "404.html"
)

// Index serves hello.html
// (GET /)
func (h *Handler) Index(c *gin.Context) {
	h.servePage(c, http.StatusOK, helloPage)
}

// Sleep holds the worker for the configured delay, then serves hello.html
// (GET /sleep)
func (h *Handler) Sleep(c *gin.Context) {
	time.Sleep(h.sleepDelay)
	h.servePage(c, http.StatusOK, helloPage)
}

// NotFound serves 404.html for every unknown route.
func (h *Handler) NotFound(c *gin.Context) {
	h.servePage(c, http.StatusNotFound, notFoundPage)
}

func (h *Handler) servePage(c *gin.Context, status int, name string) {
	body, err := os.ReadFile(filepath.Join(h.staticsFolder, name))
	if err != nil {
		zap.S().Named("handlers").Errorw("failed to read page", "page", name, "error", err)
		c.String(http.StatusInternalServerError, "failed to read %s", name)
		return
	}
	c.Data(status, "text/html; charset=utf-8", body)
}
