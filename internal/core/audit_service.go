package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"adminhub-backend-go/internal/db"
	"adminhub-backend-go/pkg/events"
)

// auditRecorder appends admin action records to the admin_logs collection.
// The entry timestamp is assigned by the store at write time so log listing
// stays monotonically ordered. Each successful append is also published to
// the audit event queue when one is configured; both the append and the
// publish are best-effort from the caller's point of view.
type auditRecorder struct {
	store     db.Store
	publisher events.Publisher
	queue     string
	logger    *zap.Logger
}

// NewAuditRecorder creates the audit logger. publisher may be nil to
// disable event fan-out.
func NewAuditRecorder(store db.Store, publisher events.Publisher, queue string, logger *zap.Logger) AuditRecorder {
	return &auditRecorder{store: store, publisher: publisher, queue: queue, logger: logger}
}

func (r *auditRecorder) Record(ctx context.Context, adminUID, action string, data map[string]interface{}) {
	if err := r.append(ctx, adminUID, action, data); err != nil {
		r.logger.Warn("audit write failed",
			zap.String("action", action),
			zap.String("adminUid", adminUID),
			zap.Error(err))
	}
}

func (r *auditRecorder) append(ctx context.Context, adminUID, action string, data map[string]interface{}) error {
	if adminUID == "" || action == "" {
		return fmt.Errorf("audit entry requires adminUid and action")
	}

	ip := "unknown"
	if s, ok := data["ipAddress"].(string); ok && s != "" {
		ip = s
	}

	id, err := r.store.Add(ctx, db.AdminLogsCollection, map[string]interface{}{
		"adminUid":  adminUID,
		"action":    action,
		"data":      data,
		"ipAddress": ip,
		"timestamp": db.ServerTimestamp,
	})
	if err != nil {
		return err
	}

	r.publish(id, adminUID, action, ip)
	return nil
}

func (r *auditRecorder) publish(id, adminUID, action, ip string) {
	if r.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"id":         id,
		"adminUid":   adminUID,
		"action":     action,
		"ipAddress":  ip,
		"occurredAt": time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := r.publisher.Publish(r.queue, body); err != nil {
		r.logger.Warn("audit event publish failed",
			zap.String("action", action),
			zap.Error(err))
	}
}
