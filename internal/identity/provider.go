// Package identity wraps the trusted identity provider: the service that
// issued the bearer credentials admins present, and that owns the account
// records mirrored by the users collection.
package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// Provider exchanges bearer credentials for verified subject identifiers
// and exposes the account-level side calls the admin commands need.
type Provider interface {
	// Verify checks that idToken is a well-formed, unexpired token issued by
	// the trusted provider and returns the subject UID.
	Verify(ctx context.Context, idToken string) (string, error)
	// DeleteAccount removes the provider-side account record.
	DeleteAccount(ctx context.Context, uid string) error
	// SetAdminClaim mirrors the admin flag as a custom claim on the
	// provider-side account, so freshly minted tokens carry it.
	SetAdminClaim(ctx context.Context, uid string, isAdmin bool) error
}

type firebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider wraps a Firebase Auth client.
func NewFirebaseProvider(client *auth.Client) Provider {
	return &firebaseProvider{client: client}
}

func (p *firebaseProvider) Verify(ctx context.Context, idToken string) (string, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("verify id token: %w", err)
	}
	return token.UID, nil
}

func (p *firebaseProvider) DeleteAccount(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("delete auth user %s: %w", uid, err)
	}
	return nil
}

func (p *firebaseProvider) SetAdminClaim(ctx context.Context, uid string, isAdmin bool) error {
	claims := map[string]interface{}{"admin": isAdmin}
	if err := p.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return fmt.Errorf("set custom claims for %s: %w", uid, err)
	}
	return nil
}
