package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adminhub-backend-go/internal/core"
	"adminhub-backend-go/pkg/cache"
)

const (
	statsCacheKey = "admin:stats"
	statsCacheTTL = 30 * time.Second
)

// StatsHandler exposes the system statistics query with optional read-side
// caching. The aggregates scan the users collection, so dashboard polling
// goes through Redis when one is configured.
type StatsHandler struct {
	users  core.UserAdminService
	guard  core.Guard
	cache  cache.Cache
	logger *zap.Logger
}

// NewStatsHandler constructs a StatsHandler. c may be nil to disable
// caching.
func NewStatsHandler(users core.UserAdminService, guard core.Guard, c cache.Cache, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{users: users, guard: guard, cache: c, logger: logger}
}

// invalidateStats drops the cached stats payload after a mutation commits,
// so the next read recomputes the aggregates instead of waiting out the
// TTL. Best-effort, like the rest of the cache path.
func invalidateStats(c cache.Cache, logger *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.Delete(statsCacheKey); err != nil {
		logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

func (h *StatsHandler) Get(c *gin.Context) {
	cred := credentialFrom(c)

	if h.cache != nil {
		if cached, err := h.cache.Get(statsCacheKey); err == nil && cached != "" {
			// Authorization still applies to cached responses.
			if _, err := h.guard.Authorize(c.Request.Context(), cred); err != nil {
				respondError(c, h.logger, err)
				return
			}
			var stats core.SystemStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				c.JSON(http.StatusOK, stats)
				return
			}
		}
	}

	stats, err := h.users.GetSystemStats(c.Request.Context(), cred)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if h.cache != nil {
		if body, err := json.Marshal(stats); err == nil {
			if err := h.cache.Set(statsCacheKey, string(body), statsCacheTTL); err != nil {
				h.logger.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusOK, stats)
}
