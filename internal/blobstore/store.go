package blobstore

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Download when no object exists at the
// given path. Exists is the cheaper check; Download callers that race with
// deletes still need to handle it.
var ErrObjectNotFound = errors.New("object not found")

// Store is the single-key blob storage the cart documents live in. One JSON
// document per path, no versioning, last writer wins.
type Store interface {
	Exists(ctx context.Context, path string) (bool, error)
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte, contentType string) error
}
