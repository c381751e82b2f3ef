package core

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"adminhub-backend-go/internal/db"
	"adminhub-backend-go/internal/models"
)

const licenseKeyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateLicenseKey produces a key of the form
// LIC-<unix-millisecond-timestamp>-<9 uppercase alphanumerics>. The time
// component plus the random suffix keep keys collision-resistant without
// coordination.
func generateLicenseKey(now time.Time) (string, error) {
	// Bytes at or above the largest multiple of the charset size are
	// rejected, keeping the suffix characters uniformly distributed.
	const rejectAbove = 256 - 256%len(licenseKeyCharset)

	suffix := make([]byte, 0, 9)
	buf := make([]byte, 16)
	for len(suffix) < cap(suffix) {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("license key entropy: %w", err)
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			suffix = append(suffix, licenseKeyCharset[int(b)%len(licenseKeyCharset)])
			if len(suffix) == cap(suffix) {
				break
			}
		}
	}
	return fmt.Sprintf("LIC-%d-%s", now.UnixMilli(), suffix), nil
}

type licenseService struct {
	guard    Guard
	store    db.Store
	recorder AuditRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewLicenseService creates the license-lifecycle command executor.
func NewLicenseService(guard Guard, store db.Store, recorder AuditRecorder, logger *zap.Logger) LicenseService {
	return &licenseService{
		guard:    guard,
		store:    store,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *licenseService) loadLicense(ctx context.Context, key string) (*models.License, error) {
	data, err := s.store.Get(ctx, db.LicensesCollection, key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrLicenseNotFound, key)
		}
		return nil, fmt.Errorf("load license %s: %w", key, err)
	}
	return models.LicenseFromDoc(key, data), nil
}

func (s *licenseService) CreateLicense(ctx context.Context, cred Credential, plan string, validityDays int) (*models.License, error) {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return nil, err
	}
	if !models.ValidPlan(plan) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}
	if validityDays <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidValidity, validityDays)
	}

	createdAt := s.now().UTC()
	key, err := generateLicenseKey(createdAt)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, db.LicensesCollection, key, map[string]interface{}{
		"plan":         plan,
		"valid":        true,
		"usedBy":       nil,
		"usedAt":       nil,
		"createdAt":    createdAt,
		"createdBy":    adminUID,
		"validityDays": validityDays,
	}, false); err != nil {
		return nil, fmt.Errorf("create license: %w", err)
	}

	s.recorder.Record(ctx, adminUID, models.ActionCreateLicense, map[string]interface{}{
		"key":          key,
		"plan":         plan,
		"validityDays": validityDays,
		"ipAddress":    cred.IP,
	})

	return &models.License{
		Key:          key,
		Plan:         plan,
		Valid:        true,
		CreatedAt:    &createdAt,
		CreatedBy:    adminUID,
		ValidityDays: validityDays,
	}, nil
}

func (s *licenseService) InvalidateLicense(ctx context.Context, cred Credential, key string) error {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return err
	}
	license, err := s.loadLicense(ctx, key)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, db.LicensesCollection, key, map[string]interface{}{
		"valid": false,
	}); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrLicenseNotFound, key)
		}
		return fmt.Errorf("invalidate license %s: %w", key, err)
	}

	s.recorder.Record(ctx, adminUID, models.ActionInvalidateLicense, map[string]interface{}{
		"key":       key,
		"plan":      license.Plan,
		"ipAddress": cred.IP,
	})
	return nil
}

// DeleteLicense removes a license document. Deleting a still-valid license
// is permitted; invalidation is not a prerequisite.
func (s *licenseService) DeleteLicense(ctx context.Context, cred Credential, key string) error {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return err
	}
	license, err := s.loadLicense(ctx, key)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, db.LicensesCollection, key); err != nil {
		return fmt.Errorf("delete license %s: %w", key, err)
	}

	s.recorder.Record(ctx, adminUID, models.ActionDeleteLicense, map[string]interface{}{
		"key":       key,
		"plan":      license.Plan,
		"wasValid":  license.Valid,
		"ipAddress": cred.IP,
	})
	return nil
}

func (s *licenseService) PurgeInvalidLicenses(ctx context.Context, cred Credential) (int, error) {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteMany(ctx, db.LicensesCollection, []db.Where{
		{Field: "valid", Op: "==", Value: false},
	})
	if err != nil {
		return 0, fmt.Errorf("purge invalid licenses: %w", err)
	}

	s.recorder.Record(ctx, adminUID, models.ActionPurgeLicenses, map[string]interface{}{
		"deleted":   deleted,
		"ipAddress": cred.IP,
	})
	return deleted, nil
}

func (s *licenseService) GetAllLicenses(ctx context.Context, cred Credential) ([]*models.License, error) {
	if _, err := s.guard.Authorize(ctx, cred); err != nil {
		return nil, err
	}

	docs, err := s.store.List(ctx, db.LicensesCollection, db.Query{OrderBy: "createdAt", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}

	licenses := make([]*models.License, 0, len(docs))
	for _, doc := range docs {
		licenses = append(licenses, models.LicenseFromDoc(doc.ID, doc.Data))
	}
	return licenses, nil
}
