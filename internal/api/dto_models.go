package api

import "time"

// ErrorResponse is the uniform error payload for admin endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type updatePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

type banUserRequest struct {
	Reason string `json:"reason"`
}

type createLicenseRequest struct {
	Plan         string `json:"plan" binding:"required"`
	ValidityDays int    `json:"validityDays" binding:"required"`
}

type globalMaintenanceRequest struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

type partialMaintenanceRequest struct {
	Enabled  bool     `json:"enabled"`
	Services []string `json:"services"`
}

type subServiceMaintenanceRequest struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

type plannedMaintenanceRequest struct {
	Enabled     bool      `json:"enabled"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Message     string    `json:"message"`
}

type clearLogsRequest struct {
	DaysOld int `json:"daysOld" binding:"required"`
}
