package remote

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// Firestore is a Collection backed by a Google Cloud Firestore collection.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// FirestoreConfig identifies the Firestore collection to use.
type FirestoreConfig struct {
	ProjectID       string
	Collection      string
	CredentialsFile string // empty means application default credentials
}

// NewFirestore connects to Firestore. The connection is lazy; an unreachable
// backend surfaces on the first call, which callers treat as ErrUnavailable.
func NewFirestore(ctx context.Context, cfg FirestoreConfig) (*Firestore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &Firestore{client: client, collection: cfg.Collection}, nil
}

func (f *Firestore) Add(ctx context.Context, data map[string]any) (string, error) {
	ref, _, err := f.client.Collection(f.collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: adding document: %v", ErrUnavailable, err)
	}
	return ref.ID, nil
}

func (f *Firestore) All(ctx context.Context) ([]Document, error) {
	snaps, err := f.client.Collection(f.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %v", ErrUnavailable, err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (f *Firestore) Delete(ctx context.Context, id string) error {
	if _, err := f.client.Collection(f.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("%w: deleting document %s: %v", ErrUnavailable, id, err)
	}
	return nil
}

// Close releases the underlying client.
func (f *Firestore) Close() error {
	return f.client.Close()
}
