package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminhub-backend-go/internal/models"
)

func TestGuardAuthorizeAdmin(t *testing.T) {
	env := newTestEnv(t)

	uid, err := env.guard.Authorize(context.Background(), adminCred)
	require.NoError(t, err)
	assert.Equal(t, "admin1", uid)
	assert.Empty(t, env.auditEntries(t, models.ActionUnauthorizedAdminAccess))
}

func TestGuardRejectsUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.guard.Authorize(context.Background(), Credential{IDToken: "forged", IP: "10.0.0.9"})
	assert.True(t, errors.Is(err, ErrInvalidCredential))
}

func TestGuardRejectsUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	env.idp.tokens["orphan-token"] = "orphan"

	_, err := env.guard.Authorize(context.Background(), Credential{IDToken: "orphan-token"})
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestGuardAuditsNonAdminAttempt(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user1", map[string]interface{}{"email": "user@example.com"})
	env.idp.tokens["user-token"] = "user1"

	_, err := env.guard.Authorize(context.Background(), Credential{IDToken: "user-token", IP: "203.0.113.7"})
	assert.True(t, errors.Is(err, ErrNotAuthorized))

	entry := env.requireAudited(t, models.ActionUnauthorizedAdminAccess)
	assert.Equal(t, "user1", entry.AdminUID)
	assert.Equal(t, "203.0.113.7", entry.IPAddress)
	assert.Equal(t, "user@example.com", entry.Data["email"])
	assert.NotNil(t, entry.Timestamp)
}
