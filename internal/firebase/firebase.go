package firebase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"adminhub-backend-go/internal/config"
)

// InitApp initializes the Firebase Admin SDK from the loaded configuration.
// Credentials come from either a service account file path or a base64
// encoded service account JSON; absence of both is a startup error, not
// something requests can recover from.
func InitApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	if cfg == nil {
		return nil, errors.New("firebase: config cannot be nil")
	}

	var opt option.ClientOption
	switch {
	case cfg.GoogleApplicationCredentials != "":
		opt = option.WithCredentialsFile(cfg.GoogleApplicationCredentials)
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		jsonKey, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, errors.New("firebase: FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not valid base64")
		}
		opt = option.WithCredentialsJSON(jsonKey)
	default:
		return nil, errors.New("firebase: either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 must be set")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	return app, nil
}
