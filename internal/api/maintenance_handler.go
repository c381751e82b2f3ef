package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adminhub-backend-go/internal/core"
)

// MaintenanceHandler exposes the AI config and maintenance-mode commands.
type MaintenanceHandler struct {
	maintenance core.MaintenanceService
	logger      *zap.Logger
}

// NewMaintenanceHandler constructs a MaintenanceHandler.
func NewMaintenanceHandler(maintenance core.MaintenanceService, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance, logger: logger}
}

func (h *MaintenanceHandler) GetAIConfig(c *gin.Context) {
	cfg, err := h.maintenance.GetAIConfig(c.Request.Context(), credentialFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *MaintenanceHandler) UpdateAIConfig(c *gin.Context) {
	var body core.AIConfigUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	cfg, err := h.maintenance.UpdateAIConfig(c.Request.Context(), credentialFrom(c), body)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *MaintenanceHandler) Get(c *gin.Context) {
	cfg, err := h.maintenance.GetMaintenance(c.Request.Context(), credentialFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *MaintenanceHandler) SetGlobal(c *gin.Context) {
	var body globalMaintenanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	if err := h.maintenance.SetGlobalMaintenance(c.Request.Context(), credentialFrom(c), body.Enabled, body.Message); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": body.Enabled})
}

func (h *MaintenanceHandler) SetPartial(c *gin.Context) {
	var body partialMaintenanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	if err := h.maintenance.SetPartialMaintenance(c.Request.Context(), credentialFrom(c), body.Enabled, body.Services); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": body.Enabled})
}

func (h *MaintenanceHandler) SetAI(c *gin.Context) {
	var body subServiceMaintenanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	if err := h.maintenance.SetAIMaintenance(c.Request.Context(), credentialFrom(c), body.Enabled, body.Message); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": body.Enabled})
}

func (h *MaintenanceHandler) SetLicense(c *gin.Context) {
	var body subServiceMaintenanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	if err := h.maintenance.SetLicenseMaintenance(c.Request.Context(), credentialFrom(c), body.Enabled, body.Message); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": body.Enabled})
}

func (h *MaintenanceHandler) SetPlanned(c *gin.Context) {
	var body plannedMaintenanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload", Details: err.Error()})
		return
	}
	if err := h.maintenance.SetPlannedMaintenance(c.Request.Context(), credentialFrom(c), body.Enabled, body.ScheduledAt, body.Message); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": body.Enabled})
}
