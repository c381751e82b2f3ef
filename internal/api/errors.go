package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adminhub-backend-go/internal/core"
	"adminhub-backend-go/internal/db"
	"adminhub-backend-go/internal/middleware"
)

// credentialFrom builds the executor credential from the request: the raw
// bearer token stashed by the middleware plus the client address for the
// audit trail.
func credentialFrom(c *gin.Context) core.Credential {
	return core.Credential{
		IDToken: c.GetString(middleware.ContextIDToken),
		IP:      c.ClientIP(),
	}
}

// respondError maps the executor's error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired authentication token"})
	case errors.Is(err, core.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin privileges required"})
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrLicenseNotFound),
		errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrCannotBanAdmin),
		errors.Is(err, core.ErrCannotDeleteAdmin):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrInvalidPlan),
		errors.Is(err, core.ErrInvalidValidity),
		errors.Is(err, core.ErrInvalidDaysOld):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("admin command failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
