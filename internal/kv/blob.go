package kv

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/DukeRupert/sitewalk/internal/storage"
)

// BlobStore keeps each value as one object in a storage backend, under
// prefix + key. With LocalStorage that is one JSON file per key; with
// R2Storage one object per key.
type BlobStore struct {
	objects storage.Storage
	prefix  string
}

// NewBlobStore returns a Store over objects.
func NewBlobStore(objects storage.Storage, prefix string) *BlobStore {
	return &BlobStore{objects: objects, prefix: prefix}
}

func (b *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := b.objects.Get(ctx, b.prefix+key)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kv: get %q: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("kv: read %q: %w", key, err)
	}
	return data, nil
}

func (b *BlobStore) Set(ctx context.Context, key string, value []byte) error {
	err := b.objects.Put(ctx, b.prefix+key, bytes.NewReader(value), storage.PutOptions{
		ContentType: "application/json",
		Overwrite:   true,
	})
	if err != nil {
		return fmt.Errorf("kv: set %q: %w", key, err)
	}
	return nil
}
