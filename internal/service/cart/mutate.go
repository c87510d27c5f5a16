package cart

import (
	"fmt"

	"storefront-cart/internal/domain"
)

// The pure state transitions applied to an in-memory cart before it is
// persisted. Each returns a new CartState; callers decide how failures map
// to the HTTP surface.

// addItem increments the quantity of an existing line or appends the given
// snapshot as a new line.
func addItem(state domain.CartState, item domain.CartItem) domain.CartState {
	if idx := state.FindItem(item.ID); idx >= 0 {
		state.Items[idx].Quantity += item.Quantity
		return state
	}
	state.Items = append(state.Items, item)
	return state
}

// removeItem drops the line with the given product id. Removing an absent
// item is a no-op, not an error.
func removeItem(state domain.CartState, productID int64) domain.CartState {
	items := state.Items[:0]
	for _, item := range state.Items {
		if item.ID != productID {
			items = append(items, item)
		}
	}
	state.Items = items
	return state
}

// setQuantity overwrites the quantity of an existing line; quantity 0
// deletes it. Setting a positive quantity on an absent line fails with
// ErrNotFound, quantity 0 on an absent line is a no-op.
func setQuantity(state domain.CartState, productID int64, quantity int) (domain.CartState, error) {
	if quantity < 0 {
		return state, fmt.Errorf("%w: quantity %d", domain.ErrInvalidInput, quantity)
	}

	idx := state.FindItem(productID)
	if idx < 0 {
		if quantity == 0 {
			return state, nil
		}
		return state, fmt.Errorf("%w: item %d not in cart", domain.ErrNotFound, productID)
	}

	if quantity == 0 {
		state.Items = append(state.Items[:idx], state.Items[idx+1:]...)
		return state, nil
	}
	state.Items[idx].Quantity = quantity
	return state, nil
}

// mergeItems folds guest items into the wallet list: quantities add for
// shared product ids, guest-only items append in guest-list order, wallet
// items keep their relative order.
func mergeItems(wallet, guest []domain.CartItem) []domain.CartItem {
	merged := make([]domain.CartItem, len(wallet))
	copy(merged, wallet)

	for _, guestItem := range guest {
		found := false
		for i := range merged {
			if merged[i].ID == guestItem.ID {
				merged[i].Quantity += guestItem.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, guestItem)
		}
	}
	return merged
}
