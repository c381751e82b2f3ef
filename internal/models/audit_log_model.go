package models

import "time"

// Audit action vocabulary. These strings are stored verbatim in the
// admin_logs collection and consumed by the dashboard, so they are fixed.
const (
	ActionUnauthorizedAdminAccess = "UNAUTHORIZED_ADMIN_ACCESS"

	ActionUpdateUserPlan    = "UPDATE_USER_PLAN"
	ActionBanUser           = "BAN_USER"
	ActionUnbanUser         = "UNBAN_USER"
	ActionResetUserMessages = "RESET_USER_MESSAGES"
	ActionDeleteUser        = "DELETE_USER"
	ActionPromoteUser       = "PROMOTE_USER"
	ActionDemoteUser        = "DEMOTE_USER"

	ActionCreateLicense     = "CREATE_LICENSE"
	ActionInvalidateLicense = "INVALIDATE_LICENSE"
	ActionDeleteLicense     = "DELETE_LICENSE"
	ActionPurgeLicenses     = "PURGE_LICENSES"

	ActionUpdateAIConfig = "UPDATE_AI_CONFIG"
	ActionClearOldLogs   = "CLEAR_OLD_LOGS"

	ActionEnableGlobalMaintenance   = "ENABLE_GLOBAL_MAINTENANCE"
	ActionDisableGlobalMaintenance  = "DISABLE_GLOBAL_MAINTENANCE"
	ActionEnablePartialMaintenance  = "ENABLE_PARTIAL_MAINTENANCE"
	ActionDisablePartialMaintenance = "DISABLE_PARTIAL_MAINTENANCE"
	ActionEnableIAMaintenance       = "ENABLE_IA_MAINTENANCE"
	ActionDisableIAMaintenance      = "DISABLE_IA_MAINTENANCE"
	ActionEnableLicenseMaintenance  = "ENABLE_LICENSE_MAINTENANCE"
	ActionDisableLicenseMaintenance = "DISABLE_LICENSE_MAINTENANCE"
	ActionEnablePlannedMaintenance  = "ENABLE_PLANNED_MAINTENANCE"
	ActionDisablePlannedMaintenance = "DISABLE_PLANNED_MAINTENANCE"
)

// AuditLog represents one immutable administrative action record.
type AuditLog struct {
	ID        string                 `json:"id"`
	AdminUID  string                 `json:"adminUid"`
	Action    string                 `json:"action"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp *time.Time             `json:"timestamp,omitempty"`
	IPAddress string                 `json:"ipAddress,omitempty"`
}

// AuditLogFromDoc decodes an admin_logs document.
func AuditLogFromDoc(id string, data map[string]interface{}) *AuditLog {
	return &AuditLog{
		ID:        id,
		AdminUID:  docString(data, "adminUid"),
		Action:    docString(data, "action"),
		Data:      docMap(data, "data"),
		Timestamp: docTime(data, "timestamp"),
		IPAddress: docString(data, "ipAddress"),
	}
}
