package core

import (
	"context"
	"time"

	"adminhub-backend-go/internal/models"
)

// Credential is what a caller presents with each command: the raw bearer
// token plus the transport-level client address used for audit records.
type Credential struct {
	IDToken string
	IP      string
}

// Guard authorizes a caller as an admin. On denial for a valid non-admin
// subject it writes an UNAUTHORIZED_ADMIN_ACCESS audit entry (best-effort)
// before returning the error.
type Guard interface {
	Authorize(ctx context.Context, cred Credential) (string, error)
}

// AuditRecorder appends administrative action records. It never fails the
// caller: audit logging is a side channel, not a precondition for the
// mutation it describes.
type AuditRecorder interface {
	Record(ctx context.Context, adminUID, action string, data map[string]interface{})
}

// AIConfigUpdate carries a partial AI config change; nil fields are left
// untouched by the merge.
type AIConfigUpdate struct {
	Model        *string  `json:"model"`
	Temperature  *float64 `json:"temperature"`
	MaxTokens    *int     `json:"maxTokens"`
	SystemPrompt *string  `json:"systemPrompt"`
}

// SystemStats aggregates account and license counters. The health, latency
// and storage figures are static placeholders carried over from the
// dashboard contract; they are not computed from real telemetry.
type SystemStats struct {
	TotalUsers        int    `json:"totalUsers"`
	TotalAdmins       int    `json:"totalAdmins"`
	BannedUsers       int    `json:"bannedUsers"`
	TotalMessagesUsed int    `json:"totalMessagesUsed"`
	ActiveLicenses    int    `json:"activeLicenses"`
	SystemHealth      string `json:"systemHealth"`
	APILatencyMs      int    `json:"apiLatencyMs"`
	StorageUsed       string `json:"storageUsed"`
}

// UserAdminService covers the user lifecycle commands plus the read-only
// observability queries. Every mutation follows the same template:
// authorize, load target, validate invariant, mutate, audit, return.
type UserAdminService interface {
	UpdateUserPlan(ctx context.Context, cred Credential, uid, plan string) (*models.User, error)
	BanUser(ctx context.Context, cred Credential, uid, reason string) (*models.User, error)
	UnbanUser(ctx context.Context, cred Credential, uid string) (*models.User, error)
	ResetUserMessages(ctx context.Context, cred Credential, uid string) (*models.User, error)
	DeleteUser(ctx context.Context, cred Credential, uid string) error
	PromoteUser(ctx context.Context, cred Credential, uid string) (*models.User, error)
	DemoteUser(ctx context.Context, cred Credential, uid string) (*models.User, error)

	GetUser(ctx context.Context, cred Credential, uid string) (*models.User, error)
	GetAllUsers(ctx context.Context, cred Credential, limit int, cursor string) ([]*models.User, string, error)
	GetBannedUsers(ctx context.Context, cred Credential) ([]*models.User, error)
	GetAdminLogs(ctx context.Context, cred Credential, limit int, cursor string) ([]*models.AuditLog, string, error)
	ClearOldLogs(ctx context.Context, cred Credential, daysOld int) (int, error)
	GetSystemStats(ctx context.Context, cred Credential) (*SystemStats, error)
}

// LicenseService covers the license lifecycle commands.
type LicenseService interface {
	CreateLicense(ctx context.Context, cred Credential, plan string, validityDays int) (*models.License, error)
	InvalidateLicense(ctx context.Context, cred Credential, key string) error
	DeleteLicense(ctx context.Context, cred Credential, key string) error
	PurgeInvalidLicenses(ctx context.Context, cred Credential) (int, error)
	GetAllLicenses(ctx context.Context, cred Credential) ([]*models.License, error)
}

// MaintenanceService covers AI config and the maintenance-mode toggles.
// Each toggle is an independent partial merge into the single maintenance
// config document, so flipping one flag never clobbers the others.
type MaintenanceService interface {
	GetAIConfig(ctx context.Context, cred Credential) (*models.AIConfig, error)
	UpdateAIConfig(ctx context.Context, cred Credential, update AIConfigUpdate) (*models.AIConfig, error)

	GetMaintenance(ctx context.Context, cred Credential) (*models.MaintenanceConfig, error)
	SetGlobalMaintenance(ctx context.Context, cred Credential, enabled bool, message string) error
	SetPartialMaintenance(ctx context.Context, cred Credential, enabled bool, services []string) error
	SetAIMaintenance(ctx context.Context, cred Credential, enabled bool, message string) error
	SetLicenseMaintenance(ctx context.Context, cred Credential, enabled bool, message string) error
	SetPlannedMaintenance(ctx context.Context, cred Credential, enabled bool, scheduledAt time.Time, message string) error
}
