package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adminhub-backend-go/internal/core"
	"adminhub-backend-go/pkg/cache"
)

// UserHandler exposes the user-lifecycle admin commands.
type UserHandler struct {
	users  core.UserAdminService
	cache  cache.Cache
	logger *zap.Logger
}

// NewUserHandler constructs a UserHandler. c may be nil when stats caching
// is disabled.
func NewUserHandler(users core.UserAdminService, c cache.Cache, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, cache: c, logger: logger}
}

func pageParams(c *gin.Context) (int, string) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return limit, c.Query("cursor")
}

func (h *UserHandler) UpdatePlan(c *gin.Context) {
	var body updatePlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	user, err := h.users.UpdateUserPlan(c.Request.Context(), credentialFrom(c), c.Param("uid"), body.Plan)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Ban(c *gin.Context) {
	var body banUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	user, err := h.users.BanUser(c.Request.Context(), credentialFrom(c), c.Param("uid"), body.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Unban(c *gin.Context) {
	user, err := h.users.UnbanUser(c.Request.Context(), credentialFrom(c), c.Param("uid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ResetMessages(c *gin.Context) {
	user, err := h.users.ResetUserMessages(c.Request.Context(), credentialFrom(c), c.Param("uid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), credentialFrom(c), c.Param("uid")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *UserHandler) Promote(c *gin.Context) {
	user, err := h.users.PromoteUser(c.Request.Context(), credentialFrom(c), c.Param("uid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Demote(c *gin.Context) {
	user, err := h.users.DemoteUser(c.Request.Context(), credentialFrom(c), c.Param("uid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), credentialFrom(c), c.Param("uid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) List(c *gin.Context) {
	limit, cursor := pageParams(c)
	users, next, err := h.users.GetAllUsers(c.Request.Context(), credentialFrom(c), limit, cursor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "nextCursor": next})
}

func (h *UserHandler) ListBanned(c *gin.Context) {
	users, err := h.users.GetBannedUsers(c.Request.Context(), credentialFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) ListLogs(c *gin.Context) {
	limit, cursor := pageParams(c)
	logs, next, err := h.users.GetAdminLogs(c.Request.Context(), credentialFrom(c), limit, cursor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "nextCursor": next})
}

func (h *UserHandler) ClearLogs(c *gin.Context) {
	var body clearLogsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	deleted, err := h.users.ClearOldLogs(c.Request.Context(), credentialFrom(c), body.DaysOld)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
