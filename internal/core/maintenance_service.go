package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"adminhub-backend-go/internal/db"
	"adminhub-backend-go/internal/models"
)

type maintenanceService struct {
	guard    Guard
	store    db.Store
	recorder AuditRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewMaintenanceService creates the config/maintenance command executor.
func NewMaintenanceService(guard Guard, store db.Store, recorder AuditRecorder, logger *zap.Logger) MaintenanceService {
	return &maintenanceService{
		guard:    guard,
		store:    store,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// configDoc reads a config document; an absent document is a valid initial
// state and comes back as nil, never as an error.
func (s *maintenanceService) configDoc(ctx context.Context, id string) (map[string]interface{}, error) {
	data, err := s.store.Get(ctx, db.ConfigCollection, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load config %s: %w", id, err)
	}
	return data, nil
}

// mergeMaintenance applies a partial update to the maintenance document so
// independent toggles never clobber each other's fields.
func (s *maintenanceService) mergeMaintenance(ctx context.Context, fields map[string]interface{}) error {
	if err := s.store.Set(ctx, db.ConfigCollection, models.MaintenanceConfigDoc, fields, true); err != nil {
		return fmt.Errorf("merge maintenance config: %w", err)
	}
	return nil
}

func (s *maintenanceService) GetAIConfig(ctx context.Context, cred Credential) (*models.AIConfig, error) {
	if _, err := s.guard.Authorize(ctx, cred); err != nil {
		return nil, err
	}
	data, err := s.configDoc(ctx, models.AIConfigDoc)
	if err != nil {
		return nil, err
	}
	return models.AIConfigFromDoc(data), nil
}

func (s *maintenanceService) UpdateAIConfig(ctx context.Context, cred Credential, update AIConfigUpdate) (*models.AIConfig, error) {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Model != nil {
		fields["model"] = *update.Model
	}
	if update.Temperature != nil {
		fields["temperature"] = *update.Temperature
	}
	if update.MaxTokens != nil {
		fields["maxTokens"] = *update.MaxTokens
	}
	if update.SystemPrompt != nil {
		fields["systemPrompt"] = *update.SystemPrompt
	}
	if len(fields) > 0 {
		if err := s.store.Set(ctx, db.ConfigCollection, models.AIConfigDoc, fields, true); err != nil {
			return nil, fmt.Errorf("merge ai config: %w", err)
		}
	}

	s.recorder.Record(ctx, adminUID, models.ActionUpdateAIConfig, map[string]interface{}{
		"updated":   fields,
		"ipAddress": cred.IP,
	})

	data, err := s.configDoc(ctx, models.AIConfigDoc)
	if err != nil {
		return nil, err
	}
	return models.AIConfigFromDoc(data), nil
}

func (s *maintenanceService) GetMaintenance(ctx context.Context, cred Credential) (*models.MaintenanceConfig, error) {
	if _, err := s.guard.Authorize(ctx, cred); err != nil {
		return nil, err
	}
	data, err := s.configDoc(ctx, models.MaintenanceConfigDoc)
	if err != nil {
		return nil, err
	}
	return models.MaintenanceFromDoc(data), nil
}

func (s *maintenanceService) SetGlobalMaintenance(ctx context.Context, cred Credential, enabled bool, message string) error {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return err
	}

	var fields map[string]interface{}
	action := models.ActionDisableGlobalMaintenance
	if enabled {
		action = models.ActionEnableGlobalMaintenance
		fields = map[string]interface{}{
			"enabled":   true,
			"message":   message,
			"enabledAt": s.now().UTC(),
			"enabledBy": adminUID,
		}
	} else {
		fields = map[string]interface{}{
			"enabled":   false,
			"message":   nil,
			"enabledAt": nil,
			"enabledBy": nil,
		}
	}
	if err := s.mergeMaintenance(ctx, fields); err != nil {
		return err
	}

	s.recorder.Record(ctx, adminUID, action, map[string]interface{}{
		"message":   message,
		"ipAddress": cred.IP,
	})
	return nil
}

func (s *maintenanceService) SetPartialMaintenance(ctx context.Context, cred Credential, enabled bool, services []string) error {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return err
	}

	action := models.ActionDisablePartialMaintenance
	if enabled {
		action = models.ActionEnablePartialMaintenance
	} else {
		services = []string{}
	}
	if services == nil {
		services = []string{}
	}
	if err := s.mergeMaintenance(ctx, map[string]interface{}{
		"partialServices": services,
	}); err != nil {
		return err
	}

	s.recorder.Record(ctx, adminUID, action, map[string]interface{}{
		"services":  services,
		"ipAddress": cred.IP,
	})
	return nil
}

// subServiceFields builds the nested flag update for a subservice. The
// polarity is inverted on purpose: maintenance ON stores enabled=false
// (service unavailable), maintenance OFF stores enabled=true. Availability
// checks elsewhere read the flag directly, so this must not be "fixed".
func (s *maintenanceService) subServiceFields(maintenance bool, message, adminUID string) map[string]interface{} {
	if maintenance {
		return map[string]interface{}{
			"enabled":   false,
			"message":   message,
			"enabledAt": s.now().UTC(),
			"enabledBy": adminUID,
		}
	}
	return map[string]interface{}{
		"enabled":   true,
		"message":   nil,
		"enabledAt": nil,
		"enabledBy": nil,
	}
}

func (s *maintenanceService) SetAIMaintenance(ctx context.Context, cred Credential, enabled bool, message string) error {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return err
	}

	action := models.ActionDisableIAMaintenance
	if enabled {
		action = models.ActionEnableIAMaintenance
	}
	if err := s.mergeMaintenance(ctx, map[string]interface{}{
		"aiService": s.subServiceFields(enabled, message, adminUID),
	}); err != nil {
		return err
	}

	s.recorder.Record(ctx, adminUID, action, map[string]interface{}{
		"message":   message,
		"ipAddress": cred.IP,
	})
	return nil
}

func (s *maintenanceService) SetLicenseMaintenance(ctx context.Context, cred Credential, enabled bool, message string) error {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return err
	}

	action := models.ActionDisableLicenseMaintenance
	if enabled {
		action = models.ActionEnableLicenseMaintenance
	}
	if err := s.mergeMaintenance(ctx, map[string]interface{}{
		"licenseService": s.subServiceFields(enabled, message, adminUID),
	}); err != nil {
		return err
	}

	s.recorder.Record(ctx, adminUID, action, map[string]interface{}{
		"message":   message,
		"ipAddress": cred.IP,
	})
	return nil
}

func (s *maintenanceService) SetPlannedMaintenance(ctx context.Context, cred Credential, enabled bool, scheduledAt time.Time, message string) error {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return err
	}

	var planned map[string]interface{}
	action := models.ActionDisablePlannedMaintenance
	if enabled {
		action = models.ActionEnablePlannedMaintenance
		planned = map[string]interface{}{
			"enabled":     true,
			"scheduledAt": scheduledAt.UTC(),
			"message":     message,
			"scheduledBy": adminUID,
		}
	} else {
		planned = map[string]interface{}{
			"enabled":     false,
			"scheduledAt": nil,
			"message":     nil,
			"scheduledBy": nil,
		}
	}
	if err := s.mergeMaintenance(ctx, map[string]interface{}{
		"plannedMaintenance": planned,
	}); err != nil {
		return err
	}

	s.recorder.Record(ctx, adminUID, action, map[string]interface{}{
		"scheduledAt": scheduledAt.UTC(),
		"message":     message,
		"ipAddress":   cred.IP,
	})
	return nil
}
