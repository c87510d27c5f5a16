package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS is a Store backed by a Google Cloud Storage bucket. Objects become
// publicly readable when the bucket grants allUsers the Storage Object
// Viewer role; the service itself only needs object read/write.
type GCS struct {
	client *storage.Client
	bucket string
}

// NewGCS opens a storage client for the given bucket. credentialsFile may be
// empty, in which case application default credentials are used.
func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCS, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("blobstore: bucket is empty")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("blobstore: new storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Exists(ctx context.Context, path string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(path).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("blobstore: attrs %s: %w", path, err)
}

func (g *GCS) Download(ctx context.Context, path string) ([]byte, error) {
	r, err := g.client.Bucket(g.bucket).Object(path).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("blobstore: open %s: %w", path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("blobstore: read %s: %w", path, err)
	}
	return data, nil
}

func (g *GCS) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	w := g.client.Bucket(g.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("blobstore: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("blobstore: close %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}
