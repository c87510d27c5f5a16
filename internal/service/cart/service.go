package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"storefront-cart/internal/domain"
)

// Service runs the read-modify-write cycle for every cart operation. There
// is no lock around the cycle: two concurrent requests against the same
// identifier race and the second save wins.
type Service struct {
	carts    cartRepo
	products productRepo
	logger   *log.Logger
}

type cartRepo interface {
	Load(ctx context.Context, id domain.CartIdentifier) (domain.CartState, error)
	LoadStrict(ctx context.Context, id domain.CartIdentifier) (domain.CartState, error)
	Save(ctx context.Context, id domain.CartIdentifier, state domain.CartState) error
	URL(id domain.CartIdentifier) string
}

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

func New(carts cartRepo, products productRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{carts: carts, products: products, logger: logger}
}

// Get returns the current cart with its public URL filled in.
func (s *Service) Get(ctx context.Context, id domain.CartIdentifier) (domain.CartState, error) {
	state, err := s.carts.Load(ctx, id)
	if err != nil {
		return domain.CartState{}, err
	}
	state.CartURL = s.carts.URL(id)
	return state, nil
}

// Add snapshots the product from the catalog and adds quantity of it to the
// cart. A product already in the cart has its quantity incremented.
func (s *Service) Add(ctx context.Context, id domain.CartIdentifier, productID int64, quantity int) (domain.CartState, error) {
	if quantity <= 0 {
		return domain.CartState{}, fmt.Errorf("%w: quantity %d", domain.ErrInvalidInput, quantity)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.CartState{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
		}
		return domain.CartState{}, err
	}

	state, err := s.carts.Load(ctx, id)
	if err != nil {
		return domain.CartState{}, err
	}

	state = addItem(state, domain.CartItemFromProduct(*product, quantity))
	return s.persist(ctx, id, state)
}

// Remove drops the item from the cart; removing an absent item succeeds.
func (s *Service) Remove(ctx context.Context, id domain.CartIdentifier, productID int64) (domain.CartState, error) {
	state, err := s.carts.Load(ctx, id)
	if err != nil {
		return domain.CartState{}, err
	}

	state = removeItem(state, productID)
	return s.persist(ctx, id, state)
}

// SetQuantity overwrites an item's quantity; 0 deletes the item. Setting a
// positive quantity on an item never added fails with ErrNotFound.
func (s *Service) SetQuantity(ctx context.Context, id domain.CartIdentifier, productID int64, quantity int) (domain.CartState, error) {
	state, err := s.carts.Load(ctx, id)
	if err != nil {
		return domain.CartState{}, err
	}

	absentNoop := quantity == 0 && state.FindItem(productID) < 0

	state, err = setQuantity(state, productID, quantity)
	if err != nil {
		return domain.CartState{}, err
	}
	if absentNoop {
		// Nothing changed; return the cart without a write.
		state.CartURL = s.carts.URL(id)
		return state, nil
	}
	return s.persist(ctx, id, state)
}

// Replace stores the submitted state wholesale. No validation beyond the
// structural parse the handler already did; the caller's state is the new
// truth.
func (s *Service) Replace(ctx context.Context, id domain.CartIdentifier, state domain.CartState) (domain.CartState, error) {
	if state.Items == nil {
		state.Items = []domain.CartItem{}
	}
	return s.persist(ctx, id, state)
}

// Clear resets the cart to the canonical empty value.
func (s *Service) Clear(ctx context.Context, id domain.CartIdentifier) (domain.CartState, error) {
	return s.persist(ctx, id, domain.EmptyCart())
}

func (s *Service) persist(ctx context.Context, id domain.CartIdentifier, state domain.CartState) (domain.CartState, error) {
	state.CartURL = s.carts.URL(id)
	if err := s.carts.Save(ctx, id, state); err != nil {
		return domain.CartState{}, err
	}
	return state, nil
}
