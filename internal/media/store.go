package media

import "context"

// Store holds post image blobs, content-addressed by a generated key.
type Store interface {
	// Put stores data under a freshly generated key ("<uuid>.<ext>") and
	// returns that key.
	Put(ctx context.Context, data []byte, ext string) (string, error)

	// Get returns the blob bytes, or ErrBlobNotFound once it has expired
	// or been deleted.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, key string) error
}
