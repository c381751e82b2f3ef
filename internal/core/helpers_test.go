package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adminhub-backend-go/internal/db"
	"adminhub-backend-go/internal/models"
)

// fakeIdentity maps tokens to UIDs and records the side calls the services
// make against the identity provider.
type fakeIdentity struct {
	tokens    map[string]string
	deleteErr error
	claimErr  error

	deleted []string
	claims  map[string]bool
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		tokens: map[string]string{},
		claims: map[string]bool{},
	}
}

func (f *fakeIdentity) Verify(_ context.Context, idToken string) (string, error) {
	uid, ok := f.tokens[idToken]
	if !ok {
		return "", errors.New("token not recognized")
	}
	return uid, nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, uid string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeIdentity) SetAdminClaim(_ context.Context, uid string, isAdmin bool) error {
	if f.claimErr != nil {
		return f.claimErr
	}
	f.claims[uid] = isAdmin
	return nil
}

type testEnv struct {
	store       *db.MemStore
	idp         *fakeIdentity
	recorder    AuditRecorder
	guard       Guard
	users       UserAdminService
	licenses    LicenseService
	maintenance MaintenanceService
}

// adminCred authenticates as the seeded admin account.
var adminCred = Credential{IDToken: "admin-token", IP: "10.0.0.1"}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := db.NewMemStore()
	idp := newFakeIdentity()
	logger := zap.NewNop()
	recorder := NewAuditRecorder(store, nil, "admin-audit", logger)
	guard := NewGuard(store, idp, recorder, logger)

	env := &testEnv{
		store:       store,
		idp:         idp,
		recorder:    recorder,
		guard:       guard,
		users:       NewUserAdminService(guard, store, idp, recorder, logger),
		licenses:    NewLicenseService(guard, store, recorder, logger),
		maintenance: NewMaintenanceService(guard, store, recorder, logger),
	}

	env.seedUser(t, "admin1", map[string]interface{}{
		"email":   "root@example.com",
		"isAdmin": true,
		"plan":    models.PlanPro,
	})
	idp.tokens["admin-token"] = "admin1"
	return env
}

func (e *testEnv) seedUser(t *testing.T, uid string, fields map[string]interface{}) {
	t.Helper()
	require.NoError(t, e.store.Set(context.Background(), db.UsersCollection, uid, fields, false))
}

func (e *testEnv) seedLog(t *testing.T, id string, ts time.Time, action string) {
	t.Helper()
	require.NoError(t, e.store.Set(context.Background(), db.AdminLogsCollection, id, map[string]interface{}{
		"adminUid":  "admin1",
		"action":    action,
		"timestamp": ts,
	}, false))
}

// auditEntries returns the stored audit records carrying the given action.
func (e *testEnv) auditEntries(t *testing.T, action string) []*models.AuditLog {
	t.Helper()
	docs, err := e.store.List(context.Background(), db.AdminLogsCollection, db.Query{})
	require.NoError(t, err)

	var out []*models.AuditLog
	for _, doc := range docs {
		entry := models.AuditLogFromDoc(doc.ID, doc.Data)
		if entry.Action == action {
			out = append(out, entry)
		}
	}
	return out
}

func (e *testEnv) requireAudited(t *testing.T, action string) *models.AuditLog {
	t.Helper()
	entries := e.auditEntries(t, action)
	require.Len(t, entries, 1, "expected exactly one %s audit entry", action)
	return entries[0]
}

// failingStore wraps a Store and fails every Add, for exercising the
// best-effort audit path.
type failingStore struct {
	db.Store
}

func (failingStore) Add(context.Context, string, map[string]interface{}) (string, error) {
	return "", fmt.Errorf("backend unavailable")
}
