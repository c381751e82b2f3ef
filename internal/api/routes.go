package api

import (
	"github.com/gin-gonic/gin"

	"adminhub-backend-go/internal/middleware"
)

// RegisterRoutes wires the admin endpoints under the given group. All
// routes require a bearer token; verification and the admin check happen
// inside the executor so every command is one auditable unit.
func RegisterRoutes(router *gin.RouterGroup, users *UserHandler, licenses *LicenseHandler, maintenance *MaintenanceHandler, stats *StatsHandler) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireBearer())

	admin.GET("/users", users.List)
	admin.GET("/users/banned", users.ListBanned)
	admin.GET("/users/:uid", users.Get)
	admin.POST("/users/:uid/plan", users.UpdatePlan)
	admin.POST("/users/:uid/ban", users.Ban)
	admin.POST("/users/:uid/unban", users.Unban)
	admin.POST("/users/:uid/reset-messages", users.ResetMessages)
	admin.POST("/users/:uid/promote", users.Promote)
	admin.POST("/users/:uid/demote", users.Demote)
	admin.DELETE("/users/:uid", users.Delete)

	admin.GET("/licenses", licenses.List)
	admin.POST("/licenses", licenses.Create)
	admin.POST("/licenses/purge", licenses.Purge)
	admin.POST("/licenses/:key/invalidate", licenses.Invalidate)
	admin.DELETE("/licenses/:key", licenses.Delete)

	admin.GET("/config/ai", maintenance.GetAIConfig)
	admin.PUT("/config/ai", maintenance.UpdateAIConfig)
	admin.GET("/maintenance", maintenance.Get)
	admin.POST("/maintenance/global", maintenance.SetGlobal)
	admin.POST("/maintenance/partial", maintenance.SetPartial)
	admin.POST("/maintenance/ai", maintenance.SetAI)
	admin.POST("/maintenance/license", maintenance.SetLicense)
	admin.POST("/maintenance/planned", maintenance.SetPlanned)

	admin.GET("/logs", users.ListLogs)
	admin.POST("/logs/clear", users.ClearLogs)

	admin.GET("/stats", stats.Get)
}
