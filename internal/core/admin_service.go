package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"adminhub-backend-go/internal/db"
	"adminhub-backend-go/internal/identity"
	"adminhub-backend-go/internal/models"
)

const defaultPageSize = 50

type userAdminService struct {
	guard    Guard
	store    db.Store
	idp      identity.Provider
	recorder AuditRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewUserAdminService creates the user-lifecycle command executor.
func NewUserAdminService(guard Guard, store db.Store, idp identity.Provider, recorder AuditRecorder, logger *zap.Logger) UserAdminService {
	return &userAdminService{
		guard:    guard,
		store:    store,
		idp:      idp,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *userAdminService) loadUser(ctx context.Context, uid string) (*models.User, error) {
	data, err := s.store.Get(ctx, db.UsersCollection, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, uid)
		}
		return nil, fmt.Errorf("load user %s: %w", uid, err)
	}
	return models.UserFromDoc(uid, data), nil
}

func (s *userAdminService) updateUser(ctx context.Context, uid string, fields map[string]interface{}) error {
	if err := s.store.Update(ctx, db.UsersCollection, uid, fields); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, uid)
		}
		return fmt.Errorf("update user %s: %w", uid, err)
	}
	return nil
}

func (s *userAdminService) UpdateUserPlan(ctx context.Context, cred Credential, uid, plan string) (*models.User, error) {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return nil, err
	}
	if !models.ValidPlan(plan) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}
	user, err := s.loadUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	limit := models.PlanMessageLimits[plan]
	if err := s.updateUser(ctx, uid, map[string]interface{}{
		"plan":          plan,
		"messagesLimit": limit,
	}); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, adminUID, models.ActionUpdateUserPlan, map[string]interface{}{
		"targetUid":     uid,
		"oldPlan":       user.Plan,
		"newPlan":       plan,
		"messagesLimit": limit,
		"ipAddress":     cred.IP,
	})

	user.Plan = plan
	user.MessagesLimit = limit
	return user, nil
}

func (s *userAdminService) BanUser(ctx context.Context, cred Credential, uid, reason string) (*models.User, error) {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		return nil, fmt.Errorf("%w: %s", ErrCannotBanAdmin, uid)
	}

	bannedAt := s.now().UTC()
	if err := s.updateUser(ctx, uid, map[string]interface{}{
		"isBanned":  true,
		"bannedAt":  bannedAt,
		"bannedBy":  adminUID,
		"banReason": reason,
	}); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, adminUID, models.ActionBanUser, map[string]interface{}{
		"targetUid": uid,
		"email":     user.Email,
		"reason":    reason,
		"ipAddress": cred.IP,
	})

	user.IsBanned = true
	user.BannedAt = &bannedAt
	user.BannedBy = adminUID
	user.BanReason = reason
	return user, nil
}

func (s *userAdminService) UnbanUser(ctx context.Context, cred Credential, uid string) (*models.User, error) {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	if err := s.updateUser(ctx, uid, map[string]interface{}{
		"isBanned":  false,
		"bannedAt":  nil,
		"bannedBy":  nil,
		"banReason": nil,
	}); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, adminUID, models.ActionUnbanUser, map[string]interface{}{
		"targetUid": uid,
		"email":     user.Email,
		"ipAddress": cred.IP,
	})

	user.IsBanned = false
	user.BannedAt = nil
	user.BannedBy = ""
	user.BanReason = ""
	return user, nil
}

func (s *userAdminService) ResetUserMessages(ctx context.Context, cred Credential, uid string) (*models.User, error) {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	resetAt := s.now().UTC()
	if err := s.updateUser(ctx, uid, map[string]interface{}{
		"messagesUsed":     0,
		"lastMessageReset": resetAt,
	}); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, adminUID, models.ActionResetUserMessages, map[string]interface{}{
		"targetUid":    uid,
		"previousUsed": user.MessagesUsed,
		"ipAddress":    cred.IP,
	})

	user.MessagesUsed = 0
	user.LastMessageReset = &resetAt
	return user, nil
}

func (s *userAdminService) DeleteUser(ctx context.Context, cred Credential, uid string) error {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return err
	}
	user, err := s.loadUser(ctx, uid)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return fmt.Errorf("%w: %s", ErrCannotDeleteAdmin, uid)
	}

	if err := s.store.Delete(ctx, db.UsersCollection, uid); err != nil {
		return fmt.Errorf("delete user %s: %w", uid, err)
	}

	// The identity-provider record may already be gone; its removal must not
	// undo the committed document delete.
	if err := s.idp.DeleteAccount(ctx, uid); err != nil {
		s.logger.Warn("identity provider account delete failed",
			zap.String("uid", uid),
			zap.Error(err))
	}

	s.recorder.Record(ctx, adminUID, models.ActionDeleteUser, map[string]interface{}{
		"targetUid": uid,
		"email":     user.Email,
		"ipAddress": cred.IP,
	})
	return nil
}

func (s *userAdminService) setAdmin(ctx context.Context, cred Credential, uid string, isAdmin bool, action string) (*models.User, error) {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	if err := s.updateUser(ctx, uid, map[string]interface{}{"isAdmin": isAdmin}); err != nil {
		return nil, err
	}

	if err := s.idp.SetAdminClaim(ctx, uid, isAdmin); err != nil {
		s.logger.Warn("admin claim mirror failed",
			zap.String("uid", uid),
			zap.Bool("isAdmin", isAdmin),
			zap.Error(err))
	}

	s.recorder.Record(ctx, adminUID, action, map[string]interface{}{
		"targetUid": uid,
		"email":     user.Email,
		"ipAddress": cred.IP,
	})

	user.IsAdmin = isAdmin
	return user, nil
}

func (s *userAdminService) PromoteUser(ctx context.Context, cred Credential, uid string) (*models.User, error) {
	return s.setAdmin(ctx, cred, uid, true, models.ActionPromoteUser)
}

func (s *userAdminService) DemoteUser(ctx context.Context, cred Credential, uid string) (*models.User, error) {
	return s.setAdmin(ctx, cred, uid, false, models.ActionDemoteUser)
}

func (s *userAdminService) GetUser(ctx context.Context, cred Credential, uid string) (*models.User, error) {
	if _, err := s.guard.Authorize(ctx, cred); err != nil {
		return nil, err
	}
	return s.loadUser(ctx, uid)
}

func (s *userAdminService) GetAllUsers(ctx context.Context, cred Credential, limit int, cursor string) ([]*models.User, string, error) {
	if _, err := s.guard.Authorize(ctx, cred); err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	docs, err := s.store.List(ctx, db.UsersCollection, db.Query{Limit: limit, StartAfter: cursor})
	if err != nil {
		return nil, "", fmt.Errorf("list users: %w", err)
	}

	users := make([]*models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, models.UserFromDoc(doc.ID, doc.Data))
	}
	next := ""
	if len(docs) == limit {
		next = docs[len(docs)-1].ID
	}
	return users, next, nil
}

func (s *userAdminService) GetBannedUsers(ctx context.Context, cred Credential) ([]*models.User, error) {
	if _, err := s.guard.Authorize(ctx, cred); err != nil {
		return nil, err
	}

	docs, err := s.store.List(ctx, db.UsersCollection, db.Query{
		Where: []db.Where{{Field: "isBanned", Op: "==", Value: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("list banned users: %w", err)
	}

	users := make([]*models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, models.UserFromDoc(doc.ID, doc.Data))
	}
	return users, nil
}

func (s *userAdminService) GetAdminLogs(ctx context.Context, cred Credential, limit int, cursor string) ([]*models.AuditLog, string, error) {
	if _, err := s.guard.Authorize(ctx, cred); err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	docs, err := s.store.List(ctx, db.AdminLogsCollection, db.Query{
		OrderBy:    "timestamp",
		Desc:       true,
		Limit:      limit,
		StartAfter: cursor,
	})
	if err != nil {
		return nil, "", fmt.Errorf("list admin logs: %w", err)
	}

	logs := make([]*models.AuditLog, 0, len(docs))
	for _, doc := range docs {
		logs = append(logs, models.AuditLogFromDoc(doc.ID, doc.Data))
	}
	next := ""
	if len(docs) == limit {
		next = docs[len(docs)-1].ID
	}
	return logs, next, nil
}

func (s *userAdminService) ClearOldLogs(ctx context.Context, cred Credential, daysOld int) (int, error) {
	adminUID, err := s.guard.Authorize(ctx, cred)
	if err != nil {
		return 0, err
	}
	if daysOld <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDaysOld, daysOld)
	}

	// Strict less-than: entries exactly at the cutoff are retained.
	cutoff := s.now().UTC().AddDate(0, 0, -daysOld)
	deleted, err := s.store.DeleteMany(ctx, db.AdminLogsCollection, []db.Where{
		{Field: "timestamp", Op: "<", Value: cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("clear old logs: %w", err)
	}

	s.recorder.Record(ctx, adminUID, models.ActionClearOldLogs, map[string]interface{}{
		"daysOld":   daysOld,
		"deleted":   deleted,
		"ipAddress": cred.IP,
	})
	return deleted, nil
}

func (s *userAdminService) GetSystemStats(ctx context.Context, cred Credential) (*SystemStats, error) {
	if _, err := s.guard.Authorize(ctx, cred); err != nil {
		return nil, err
	}

	totalUsers, err := s.store.Count(ctx, db.UsersCollection, nil)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	totalAdmins, err := s.store.Count(ctx, db.UsersCollection, []db.Where{
		{Field: "isAdmin", Op: "==", Value: true},
	})
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	banned, err := s.store.Count(ctx, db.UsersCollection, []db.Where{
		{Field: "isBanned", Op: "==", Value: true},
	})
	if err != nil {
		return nil, fmt.Errorf("count banned users: %w", err)
	}
	activeLicenses, err := s.store.Count(ctx, db.LicensesCollection, []db.Where{
		{Field: "valid", Op: "==", Value: true},
	})
	if err != nil {
		return nil, fmt.Errorf("count licenses: %w", err)
	}

	docs, err := s.store.List(ctx, db.UsersCollection, db.Query{})
	if err != nil {
		return nil, fmt.Errorf("list users for stats: %w", err)
	}
	totalMessages := 0
	for _, doc := range docs {
		totalMessages += models.UserFromDoc(doc.ID, doc.Data).MessagesUsed
	}

	return &SystemStats{
		TotalUsers:        totalUsers,
		TotalAdmins:       totalAdmins,
		BannedUsers:       banned,
		TotalMessagesUsed: totalMessages,
		ActiveLicenses:    activeLicenses,
		// Static placeholder figures, not real telemetry.
		SystemHealth: "healthy",
		APILatencyMs: 120,
		StorageUsed:  "2.1 GB",
	}, nil
}
