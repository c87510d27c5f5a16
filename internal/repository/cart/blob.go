package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront-cart/internal/blobstore"
	"storefront-cart/internal/domain"
)

type blobRepo struct {
	store   blobstore.Store
	bucket  string
	baseURL string
	logger  *log.Logger
}

// NewBlob builds a Repository on top of a blob store. baseURL is the public
// host the bucket is served from (usually https://storage.googleapis.com).
func NewBlob(store blobstore.Store, bucket, baseURL string, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &blobRepo{
		store:   store,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

func (r *blobRepo) Load(ctx context.Context, id domain.CartIdentifier) (domain.CartState, error) {
	state, err := r.LoadStrict(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.EmptyCart(), nil
	case errors.Is(err, domain.ErrCorruptCart):
		// Corrupt state is treated as absent, never surfaced as an error.
		r.logger.Printf("cart repo: parse path=%s error=%v, falling back to empty cart", Path(id), err)
		return domain.EmptyCart(), nil
	case err != nil:
		return domain.CartState{}, err
	}
	return state, nil
}

func (r *blobRepo) LoadStrict(ctx context.Context, id domain.CartIdentifier) (domain.CartState, error) {
	path := Path(id)

	exists, err := r.store.Exists(ctx, path)
	if err != nil {
		r.logger.Printf("cart repo: exists path=%s error=%v", path, err)
		return domain.CartState{}, err
	}
	if !exists {
		return domain.CartState{}, domain.ErrNotFound
	}

	data, err := r.store.Download(ctx, path)
	if err != nil {
		if errors.Is(err, blobstore.ErrObjectNotFound) {
			// Deleted between the existence check and the read.
			return domain.CartState{}, domain.ErrNotFound
		}
		r.logger.Printf("cart repo: download path=%s error=%v", path, err)
		return domain.CartState{}, err
	}

	var state domain.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.CartState{}, fmt.Errorf("%w: %s: %v", domain.ErrCorruptCart, path, err)
	}
	if state.Items == nil {
		state.Items = []domain.CartItem{}
	}
	return state, nil
}

func (r *blobRepo) Save(ctx context.Context, id domain.CartIdentifier, state domain.CartState) error {
	path := Path(id)

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart %s: %w", path, err)
	}
	if err := r.store.Upload(ctx, path, data, "application/json"); err != nil {
		r.logger.Printf("cart repo: upload path=%s error=%v", path, err)
		return err
	}
	return nil
}

func (r *blobRepo) URL(id domain.CartIdentifier) string {
	return fmt.Sprintf("%s/%s/%s", r.baseURL, r.bucket, Path(id))
}
