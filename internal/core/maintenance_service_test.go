package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminhub-backend-go/internal/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

func TestGetAIConfigDefaults(t *testing.T) {
	env := newTestEnv(t)

	cfg, err := env.maintenance.GetAIConfig(context.Background(), adminCred)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAIConfig(), cfg)
}

func TestUpdateAIConfigPartialMerge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cfg, err := env.maintenance.UpdateAIConfig(ctx, adminCred, AIConfigUpdate{
		Temperature: floatPtr(0.2),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, models.DefaultAIConfig().Model, cfg.Model)

	cfg, err = env.maintenance.UpdateAIConfig(ctx, adminCred, AIConfigUpdate{
		Model:     strPtr("gpt-4"),
		MaxTokens: intPtr(4096),
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", cfg.Model)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, 0.2, cfg.Temperature, "earlier partial update must be preserved")

	entries := env.auditEntries(t, models.ActionUpdateAIConfig)
	assert.Len(t, entries, 2)
}

func TestUpdateAIConfigEmptyUpdate(t *testing.T) {
	env := newTestEnv(t)

	cfg, err := env.maintenance.UpdateAIConfig(context.Background(), adminCred, AIConfigUpdate{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAIConfig(), cfg)
}

func TestMaintenanceDefaults(t *testing.T) {
	env := newTestEnv(t)

	cfg, err := env.maintenance.GetMaintenance(context.Background(), adminCred)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.AIService.Enabled)
	assert.True(t, cfg.LicenseService.Enabled)
	assert.False(t, cfg.Planned.Enabled)
	assert.Empty(t, cfg.PartialServices)
}

func TestGlobalMaintenanceToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.maintenance.SetGlobalMaintenance(ctx, adminCred, true, "migrating"))

	cfg, err := env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "migrating", cfg.Message)
	assert.Equal(t, "admin1", cfg.EnabledBy)
	assert.NotNil(t, cfg.EnabledAt)
	env.requireAudited(t, models.ActionEnableGlobalMaintenance)

	require.NoError(t, env.maintenance.SetGlobalMaintenance(ctx, adminCred, false, ""))

	cfg, err = env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.Message)
	assert.Nil(t, cfg.EnabledAt)
	env.requireAudited(t, models.ActionDisableGlobalMaintenance)
}

func TestPartialMaintenance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.maintenance.SetPartialMaintenance(ctx, adminCred, true, []string{"chat", "export"}))

	cfg, err := env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat", "export"}, cfg.PartialServices)

	// Disabling clears the list even when services are still named.
	require.NoError(t, env.maintenance.SetPartialMaintenance(ctx, adminCred, false, []string{"chat"}))

	cfg, err = env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.Empty(t, cfg.PartialServices)
}

func TestSubServiceMaintenancePolarity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Maintenance ON means the service flag goes to unavailable.
	require.NoError(t, env.maintenance.SetAIMaintenance(ctx, adminCred, true, "model swap"))

	cfg, err := env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.False(t, cfg.AIService.Enabled)
	assert.Equal(t, "model swap", cfg.AIService.Message)
	assert.True(t, cfg.LicenseService.Enabled, "other subservice untouched")

	entry := env.requireAudited(t, "ENABLE_IA_MAINTENANCE")
	assert.Equal(t, "admin1", entry.AdminUID)

	require.NoError(t, env.maintenance.SetAIMaintenance(ctx, adminCred, false, ""))

	cfg, err = env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.True(t, cfg.AIService.Enabled)
	assert.Empty(t, cfg.AIService.Message)
	env.requireAudited(t, "DISABLE_IA_MAINTENANCE")
}

func TestLicenseMaintenance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.maintenance.SetLicenseMaintenance(ctx, adminCred, true, "billing cutover"))

	cfg, err := env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.False(t, cfg.LicenseService.Enabled)
	assert.True(t, cfg.AIService.Enabled)
	env.requireAudited(t, models.ActionEnableLicenseMaintenance)
}

func TestPlannedMaintenance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	window := time.Date(2026, 9, 15, 2, 0, 0, 0, time.UTC)
	require.NoError(t, env.maintenance.SetPlannedMaintenance(ctx, adminCred, true, window, "quarterly patching"))

	cfg, err := env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.True(t, cfg.Planned.Enabled)
	require.NotNil(t, cfg.Planned.ScheduledAt)
	assert.Equal(t, window, *cfg.Planned.ScheduledAt)
	assert.Equal(t, "quarterly patching", cfg.Planned.Message)
	assert.Equal(t, "admin1", cfg.Planned.ScheduledBy)

	require.NoError(t, env.maintenance.SetPlannedMaintenance(ctx, adminCred, false, time.Time{}, ""))

	cfg, err = env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.False(t, cfg.Planned.Enabled)
	assert.Nil(t, cfg.Planned.ScheduledAt)
}

func TestMaintenanceTogglesAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.maintenance.SetGlobalMaintenance(ctx, adminCred, true, "full outage"))
	require.NoError(t, env.maintenance.SetAIMaintenance(ctx, adminCred, true, "ai offline"))
	require.NoError(t, env.maintenance.SetPartialMaintenance(ctx, adminCred, true, []string{"chat"}))

	cfg, err := env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled, "global flag survives subservice toggles")
	assert.False(t, cfg.AIService.Enabled)
	assert.Equal(t, []string{"chat"}, cfg.PartialServices)

	require.NoError(t, env.maintenance.SetAIMaintenance(ctx, adminCred, false, ""))

	cfg, err = env.maintenance.GetMaintenance(ctx, adminCred)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.AIService.Enabled)
	assert.Equal(t, []string{"chat"}, cfg.PartialServices)
}
