package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatsStore exposes the counters the status endpoints report.
type StatsStore interface {
	Ping() error
	CountSeen() (int, error)
	CountFeeds() (int, error)
}

type Handler struct {
	store        StatsStore
	feedCount    int
	webhookCount int
	version      string
	startedAt    time.Time
}

func NewHandler(store StatsStore, feedCount, webhookCount int, version string) *Handler {
	return &Handler{
		store:        store,
		feedCount:    feedCount,
		webhookCount: webhookCount,
		version:      version,
		startedAt:    time.Now(),
	}
}

// HealthCheck reports process liveness and store reachability.
func (h *Handler) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(); err != nil {
		slog.Error("Health check failed to reach store", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "store unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// GetStats reports delivery statistics.
func (h *Handler) GetStats(c *gin.Context) {
	seen, err := h.store.CountSeen()
	if err != nil {
		slog.Error("Failed to count seen entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read store"})
		return
	}

	seededFeeds, err := h.store.CountFeeds()
	if err != nil {
		slog.Error("Failed to count seeded feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read store"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configured_feeds":    h.feedCount,
		"configured_webhooks": h.webhookCount,
		"seeded_feeds":        seededFeeds,
		"seen_entries":        seen,
	})
}
