package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreSetMerge(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.Set(ctx, "config", "maintenance", map[string]interface{}{
		"enabled": true,
		"message": "down for upgrade",
		"aiService": map[string]interface{}{
			"enabled": false,
			"message": "ai offline",
		},
		"partialServices": []string{"chat"},
	}, false))

	// Merge touches one nested field and the array; siblings survive, the
	// array is replaced wholesale.
	require.NoError(t, store.Set(ctx, "config", "maintenance", map[string]interface{}{
		"aiService": map[string]interface{}{
			"enabled": true,
		},
		"partialServices": []string{"billing", "export"},
	}, true))

	doc, err := store.Get(ctx, "config", "maintenance")
	require.NoError(t, err)
	assert.Equal(t, true, doc["enabled"])
	assert.Equal(t, "down for upgrade", doc["message"])

	ai, ok := doc["aiService"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, ai["enabled"])
	assert.Equal(t, "ai offline", ai["message"])

	assert.Equal(t, []string{"billing", "export"}, doc["partialServices"])
}

func TestMemStoreSetReplace(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{
		"email": "a@example.com",
		"plan":  "pro",
	}, false))
	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{
		"email": "b@example.com",
	}, false))

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", doc["email"])
	_, ok := doc["plan"]
	assert.False(t, ok, "replace should drop unspecified fields")
}

func TestMemStoreUpdateMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	err := store.Update(ctx, "users", "ghost", map[string]interface{}{"isBanned": true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	_, err := store.Get(ctx, "users", "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemStoreDeleteAbsentIsNoError(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	assert.NoError(t, store.Delete(ctx, "users", "ghost"))
}

func TestMemStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"plan": "free"}, false))

	doc, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	doc["plan"] = "pro"

	again, err := store.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "free", again["plan"])
}

func TestMemStoreServerTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	before := time.Now().UTC()
	id, err := store.Add(ctx, "admin_logs", map[string]interface{}{
		"action":    "BAN_USER",
		"timestamp": ServerTimestamp,
	})
	require.NoError(t, err)
	after := time.Now().UTC()

	doc, err := store.Get(ctx, "admin_logs", id)
	require.NoError(t, err)
	ts, ok := doc["timestamp"].(time.Time)
	require.True(t, ok, "sentinel must resolve to a concrete time")
	assert.False(t, ts.Before(before))
	assert.False(t, ts.After(after))
}

func TestMemStoreListPagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	for _, id := range []string{"u3", "u1", "u2"} {
		require.NoError(t, store.Set(ctx, "users", id, map[string]interface{}{"email": id + "@example.com"}, false))
	}

	page, err := store.List(ctx, "users", Query{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "u1", page[0].ID)
	assert.Equal(t, "u2", page[1].ID)

	page, err = store.List(ctx, "users", Query{Limit: 2, StartAfter: "u2"})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "u3", page[0].ID)
}

func TestMemStoreListCursorDeletedMidPagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	for _, id := range []string{"u1", "u2", "u3", "u4"} {
		require.NoError(t, store.Set(ctx, "users", id, map[string]interface{}{"email": id + "@example.com"}, false))
	}

	page, err := store.List(ctx, "users", Query{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	cursor := page[1].ID // u2

	// Losing the cursor document must not replay rows from the start.
	require.NoError(t, store.Delete(ctx, "users", cursor))

	page, err = store.List(ctx, "users", Query{Limit: 2, StartAfter: cursor})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "u3", page[0].ID)
	assert.Equal(t, "u4", page[1].ID)
}

func TestMemStoreListUnknownFieldCursorReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Set(ctx, "admin_logs", id, map[string]interface{}{
			"timestamp": base.Add(time.Duration(i) * time.Hour),
		}, false))
	}

	docs, err := store.List(ctx, "admin_logs", Query{
		OrderBy:    "timestamp",
		Desc:       true,
		StartAfter: "vanished",
	})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemStoreListOrderByDesc(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Set(ctx, "admin_logs", id, map[string]interface{}{
			"timestamp": base.Add(time.Duration(i) * time.Hour),
		}, false))
	}

	docs, err := store.List(ctx, "admin_logs", Query{OrderBy: "timestamp", Desc: true})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "c", docs[0].ID)
	assert.Equal(t, "a", docs[2].ID)
}

func TestMemStoreListWhere(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"isBanned": true}, false))
	require.NoError(t, store.Set(ctx, "users", "u2", map[string]interface{}{"isBanned": false}, false))
	require.NoError(t, store.Set(ctx, "users", "u3", map[string]interface{}{}, false))

	docs, err := store.List(ctx, "users", Query{
		Where: []Where{{Field: "isBanned", Op: "==", Value: true}},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "u1", docs[0].ID)
}

func TestMemStoreDeleteMany(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Set(ctx, "admin_logs", "old", map[string]interface{}{
		"timestamp": cutoff.Add(-time.Hour),
	}, false))
	require.NoError(t, store.Set(ctx, "admin_logs", "edge", map[string]interface{}{
		"timestamp": cutoff,
	}, false))
	require.NoError(t, store.Set(ctx, "admin_logs", "new", map[string]interface{}{
		"timestamp": cutoff.Add(time.Hour),
	}, false))

	deleted, err := store.DeleteMany(ctx, "admin_logs", []Where{
		{Field: "timestamp", Op: "<", Value: cutoff},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = store.Get(ctx, "admin_logs", "old")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = store.Get(ctx, "admin_logs", "edge")
	assert.NoError(t, err, "boundary document must be retained")
}

func TestMemStoreCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.Set(ctx, "users", "u1", map[string]interface{}{"isAdmin": true}, false))
	require.NoError(t, store.Set(ctx, "users", "u2", map[string]interface{}{"isAdmin": false}, false))
	require.NoError(t, store.Set(ctx, "users", "u3", map[string]interface{}{"isAdmin": true}, false))

	total, err := store.Count(ctx, "users", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	admins, err := store.Count(ctx, "users", []Where{{Field: "isAdmin", Op: "==", Value: true}})
	require.NoError(t, err)
	assert.Equal(t, 2, admins)
}
