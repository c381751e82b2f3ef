package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"adminhub-backend-go/internal/db"
	"adminhub-backend-go/internal/identity"
	"adminhub-backend-go/internal/models"
)

type guard struct {
	store    db.Store
	idp      identity.Provider
	recorder AuditRecorder
	logger   *zap.Logger
}

// NewGuard creates the authorization guard.
func NewGuard(store db.Store, idp identity.Provider, recorder AuditRecorder, logger *zap.Logger) Guard {
	return &guard{store: store, idp: idp, recorder: recorder, logger: logger}
}

// Authorize verifies the credential, resolves it to a user record and
// checks the admin flag. A valid token belonging to a non-admin is audited
// as an unauthorized access attempt before the denial is returned.
func (g *guard) Authorize(ctx context.Context, cred Credential) (string, error) {
	uid, err := g.idp.Verify(ctx, cred.IDToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	data, err := g.store.Get(ctx, db.UsersCollection, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, uid)
		}
		return "", fmt.Errorf("load user %s: %w", uid, err)
	}

	user := models.UserFromDoc(uid, data)
	if !user.IsAdmin {
		g.logger.Warn("unauthorized admin access attempt",
			zap.String("uid", uid),
			zap.String("ip", cred.IP))
		g.recorder.Record(ctx, uid, models.ActionUnauthorizedAdminAccess, map[string]interface{}{
			"email":     user.Email,
			"ipAddress": cred.IP,
		})
		return "", ErrNotAuthorized
	}
	return uid, nil
}
