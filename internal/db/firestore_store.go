package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore batches are capped at 500 writes.
const maxBatchSize = 500

// firestoreStore implements Store on top of Firestore.
type firestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps a Firestore client in the Store interface.
func NewFirestoreStore(client *firestore.Client) Store {
	return &firestoreStore{client: client}
}

// translateFields swaps the ServerTimestamp sentinel for the Firestore one,
// recursing into nested maps so merge payloads can carry it too.
func translateFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case serverTimestamp:
			out[k] = firestore.ServerTimestamp
		case map[string]interface{}:
			out[k] = translateFields(val)
		default:
			out[k] = v
		}
	}
	return out
}

func (s *firestoreStore) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return snap.Data(), nil
}

func (s *firestoreStore) buildQuery(ctx context.Context, collection string, q Query) (firestore.Query, error) {
	fq := s.client.Collection(collection).Query
	for _, w := range q.Where {
		fq = fq.Where(w.Field, w.Op, w.Value)
	}
	dir := firestore.Asc
	if q.Desc {
		dir = firestore.Desc
	}
	if q.OrderBy != "" {
		fq = fq.OrderBy(q.OrderBy, dir).OrderBy(firestore.DocumentID, dir)
	} else {
		fq = fq.OrderBy(firestore.DocumentID, dir)
	}
	if q.StartAfter != "" {
		if q.OrderBy != "" {
			// Field-ordered cursors need the cursor document's field value.
			snap, err := s.client.Collection(collection).Doc(q.StartAfter).Get(ctx)
			if err != nil {
				return fq, fmt.Errorf("resolve cursor %s/%s: %w", collection, q.StartAfter, err)
			}
			val, err := snap.DataAt(q.OrderBy)
			if err != nil {
				return fq, fmt.Errorf("cursor field %q on %s/%s: %w", q.OrderBy, collection, q.StartAfter, err)
			}
			fq = fq.StartAfter(val, snap.Ref.ID)
		} else {
			fq = fq.StartAfter(q.StartAfter)
		}
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq, nil
}

func (s *firestoreStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	fq, err := s.buildQuery(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	iter := fq.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *firestoreStore) Set(ctx context.Context, collection, id string, fields map[string]interface{}, merge bool) error {
	ref := s.client.Collection(collection).Doc(id)
	var err error
	if merge {
		_, err = ref.Set(ctx, translateFields(fields), firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, translateFields(fields))
	}
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *firestoreStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range translateFields(fields) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *firestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *firestoreStore) Add(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, translateFields(fields))
	if err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *firestoreStore) DeleteMany(ctx context.Context, collection string, filters []Where) (int, error) {
	fq := s.client.Collection(collection).Query
	for _, w := range filters {
		fq = fq.Where(w.Field, w.Op, w.Value)
	}
	// Snapshot the matching refs first; documents created after this read
	// are intentionally not part of the purge.
	iter := fq.Select().Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("select for delete in %s: %w", collection, err)
		}
		refs = append(refs, snap.Ref)
	}

	for start := 0; start < len(refs); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(refs) {
			end = len(refs)
		}
		batch := s.client.Batch()
		for _, ref := range refs[start:end] {
			batch.Delete(ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return 0, fmt.Errorf("batch delete in %s: %w", collection, err)
		}
	}
	return len(refs), nil
}

func (s *firestoreStore) Count(ctx context.Context, collection string, filters []Where) (int, error) {
	fq := s.client.Collection(collection).Query
	for _, w := range filters {
		fq = fq.Where(w.Field, w.Op, w.Value)
	}
	result, err := fq.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	value, ok := result["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count %s: unexpected aggregation result %T", collection, result["all"])
	}
	return int(value.GetIntegerValue()), nil
}
