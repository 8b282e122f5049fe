package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the durable networked Store backend. Document states
// it produces are indistinguishable from MemoryStore's for any sequence
// of Get/Set calls.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return snap.Data(), nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	ref := s.client.Collection(collection).Doc(id)

	if !merge && hasDelta(fields) {
		// Firestore resolves transforms after a full replace, which would
		// count deltas from zero. Read the previous document inside a
		// transaction so non-merge deltas add to the prior value, matching
		// MemoryStore.
		err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			prev := map[string]any{}
			snap, err := tx.Get(ref)
			if err != nil && status.Code(err) != codes.NotFound {
				return err
			}
			if err == nil {
				prev = snap.Data()
			}
			next := make(map[string]any, len(fields))
			for k, f := range fields {
				if f.IsDelta() {
					next[k] = asInt64(prev[k]) + f.Amount()
					continue
				}
				next[k] = f.Value()
			}
			return tx.Set(ref, next)
		})
		if err != nil {
			return fmt.Errorf("%w: set %s/%s: %v", ErrUnavailable, collection, id, err)
		}
		return nil
	}

	data := make(map[string]any, len(fields))
	for k, f := range fields {
		if f.IsDelta() {
			data[k] = firestore.Increment(f.Amount())
			continue
		}
		data[k] = f.Value()
	}
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}
	if _, err := ref.Set(ctx, data, opts...); err != nil {
		return fmt.Errorf("%w: set %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func hasDelta(fields Fields) bool {
	for _, f := range fields {
		if f.IsDelta() {
			return true
		}
	}
	return false
}
