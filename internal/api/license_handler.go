package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adminhub-backend-go/internal/core"
	"adminhub-backend-go/pkg/cache"
)

// LicenseHandler exposes the license-lifecycle admin commands.
type LicenseHandler struct {
	licenses core.LicenseService
	cache    cache.Cache
	logger   *zap.Logger
}

// NewLicenseHandler constructs a LicenseHandler. c may be nil when stats
// caching is disabled.
func NewLicenseHandler(licenses core.LicenseService, c cache.Cache, logger *zap.Logger) *LicenseHandler {
	return &LicenseHandler{licenses: licenses, cache: c, logger: logger}
}

func (h *LicenseHandler) Create(c *gin.Context) {
	var body createLicenseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	license, err := h.licenses.CreateLicense(c.Request.Context(), credentialFrom(c), body.Plan, body.ValidityDays)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusCreated, license)
}

func (h *LicenseHandler) Invalidate(c *gin.Context) {
	if err := h.licenses.InvalidateLicense(c.Request.Context(), credentialFrom(c), c.Param("key")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, gin.H{"invalidated": true})
}

func (h *LicenseHandler) Delete(c *gin.Context) {
	if err := h.licenses.DeleteLicense(c.Request.Context(), credentialFrom(c), c.Param("key")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *LicenseHandler) Purge(c *gin.Context) {
	deleted, err := h.licenses.PurgeInvalidLicenses(c.Request.Context(), credentialFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateStats(h.cache, h.logger)
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *LicenseHandler) List(c *gin.Context) {
	licenses, err := h.licenses.GetAllLicenses(c.Request.Context(), credentialFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"licenses": licenses})
}
