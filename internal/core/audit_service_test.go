package core

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adminhub-backend-go/internal/db"
	"adminhub-backend-go/internal/models"
)

type fakePublisher struct {
	queue      string
	bodies     [][]byte
	publishErr error
}

func (p *fakePublisher) Publish(queueName string, body []byte) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.queue = queueName
	p.bodies = append(p.bodies, body)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func TestRecordStoresEntry(t *testing.T) {
	store := db.NewMemStore()
	recorder := NewAuditRecorder(store, nil, "admin-audit", zap.NewNop())

	recorder.Record(context.Background(), "admin1", models.ActionBanUser, map[string]interface{}{
		"targetUid": "u1",
		"ipAddress": "192.0.2.10",
	})

	docs, err := store.List(context.Background(), db.AdminLogsCollection, db.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	entry := models.AuditLogFromDoc(docs[0].ID, docs[0].Data)
	assert.Equal(t, "admin1", entry.AdminUID)
	assert.Equal(t, models.ActionBanUser, entry.Action)
	assert.Equal(t, "192.0.2.10", entry.IPAddress)
	assert.Equal(t, "u1", entry.Data["targetUid"])
	assert.NotNil(t, entry.Timestamp, "store assigns the entry timestamp")
}

func TestRecordDefaultsUnknownIP(t *testing.T) {
	store := db.NewMemStore()
	recorder := NewAuditRecorder(store, nil, "admin-audit", zap.NewNop())

	recorder.Record(context.Background(), "admin1", models.ActionUnbanUser, map[string]interface{}{
		"targetUid": "u1",
	})

	docs, err := store.List(context.Background(), db.AdminLogsCollection, db.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "unknown", models.AuditLogFromDoc(docs[0].ID, docs[0].Data).IPAddress)
}

func TestRecordStoreFailureIsSwallowed(t *testing.T) {
	store := failingStore{db.NewMemStore()}
	recorder := NewAuditRecorder(store, nil, "admin-audit", zap.NewNop())

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), "admin1", models.ActionBanUser, nil)
	})
}

func TestRecordSkipsEmptyIdentity(t *testing.T) {
	store := db.NewMemStore()
	recorder := NewAuditRecorder(store, nil, "admin-audit", zap.NewNop())

	recorder.Record(context.Background(), "", models.ActionBanUser, nil)
	recorder.Record(context.Background(), "admin1", "", nil)

	docs, err := store.List(context.Background(), db.AdminLogsCollection, db.Query{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRecordPublishesEvent(t *testing.T) {
	store := db.NewMemStore()
	pub := &fakePublisher{}
	recorder := NewAuditRecorder(store, pub, "admin-audit", zap.NewNop())

	recorder.Record(context.Background(), "admin1", models.ActionDeleteUser, map[string]interface{}{
		"ipAddress": "192.0.2.10",
	})

	require.Len(t, pub.bodies, 1)
	assert.Equal(t, "admin-audit", pub.queue)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(pub.bodies[0], &event))
	assert.Equal(t, "admin1", event["adminUid"])
	assert.Equal(t, models.ActionDeleteUser, event["action"])
	assert.Equal(t, "192.0.2.10", event["ipAddress"])
	assert.NotEmpty(t, event["id"])
}

func TestRecordPublishFailureIsSwallowed(t *testing.T) {
	store := db.NewMemStore()
	pub := &fakePublisher{publishErr: fmt.Errorf("broker down")}
	recorder := NewAuditRecorder(store, pub, "admin-audit", zap.NewNop())

	recorder.Record(context.Background(), "admin1", models.ActionDeleteUser, nil)

	docs, err := store.List(context.Background(), db.AdminLogsCollection, db.Query{})
	require.NoError(t, err)
	assert.Len(t, docs, 1, "the append still commits when the publish fails")
}
