package cart

import (
	"context"
	"fmt"

	"storefront-cart/internal/domain"
)

const documentName = "cart.json"

// Repository reads and writes the one cart document each identifier owns.
//
// Load never fails on an absent or unparsable document; both map to the
// canonical empty cart. LoadStrict reports absence as domain.ErrNotFound and
// an unparsable document as domain.ErrCorruptCart — the migration source
// read must not mask data loss. Save overwrites unconditionally (last writer
// wins) and propagates write failures.
type Repository interface {
	Load(ctx context.Context, id domain.CartIdentifier) (domain.CartState, error)
	LoadStrict(ctx context.Context, id domain.CartIdentifier) (domain.CartState, error)
	Save(ctx context.Context, id domain.CartIdentifier, state domain.CartState) error
	URL(id domain.CartIdentifier) string
}

// Path maps an identifier to its storage path. Wallet carts live under
// wallets/, guest carts under guests/; the two namespaces never collide.
func Path(id domain.CartIdentifier) string {
	base := "guests"
	if id.Kind == domain.IdentifierWallet {
		base = "wallets"
	}
	return fmt.Sprintf("%s/%s/%s", base, id.ID, documentName)
}
