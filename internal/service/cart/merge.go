package cart

import (
	"context"
	"errors"
	"fmt"

	"storefront-cart/internal/domain"
)

// MigrateGuestToWallet folds the guest cart into the wallet cart and resets
// the guest document. Single pass, not resumable:
//
//  1. absent guest cart → nothing to migrate, no side effects
//  2. unparsable guest cart → hard failure; masking it would drop items
//  3. absent or unparsable wallet cart → treated as empty (safe to clobber)
//  4. additive, order-stable item merge
//  5. save wallet, then reset guest
//
// Steps 5's two writes are not atomic: a crash in between leaves both a
// populated wallet cart and a non-empty guest cart.
func (s *Service) MigrateGuestToWallet(ctx context.Context, guestSessionID, walletID string) error {
	guestID := domain.GuestIdentifier(guestSessionID)
	walletIdent := domain.WalletIdentifier(walletID)

	guestCart, err := s.carts.LoadStrict(ctx, guestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("cart migrate: guest=%s no cart to migrate", guestSessionID)
			return nil
		}
		if errors.Is(err, domain.ErrCorruptCart) {
			s.logger.Printf("cart migrate: guest=%s corrupt source error=%v", guestSessionID, err)
			return err
		}
		return fmt.Errorf("load guest cart: %w", err)
	}

	// Wallet side uses the forgiving load: a corrupt target is ambiguous
	// anyway and is safely overwritten.
	walletCart, err := s.carts.Load(ctx, walletIdent)
	if err != nil {
		return fmt.Errorf("load wallet cart: %w", err)
	}

	walletCart.Items = mergeItems(walletCart.Items, guestCart.Items)

	if _, err := s.persist(ctx, walletIdent, walletCart); err != nil {
		return fmt.Errorf("save wallet cart: %w", err)
	}
	if _, err := s.persist(ctx, guestID, domain.EmptyCart()); err != nil {
		return fmt.Errorf("reset guest cart: %w", err)
	}

	s.logger.Printf("cart migrate: guest=%s wallet=%s items=%d merged", guestSessionID, walletID, len(walletCart.Items))
	return nil
}
