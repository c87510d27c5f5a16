package domain

// CartItem is one line in a cart. Name, price and images are snapshotted
// from the catalog when the item is added and are not re-synced afterwards.
type CartItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image1   string  `json:"image1,omitempty"`
	Image2   string  `json:"image2,omitempty"`
}

// CartState is the persisted cart document. IsOpen and CartURL are
// read-model conveniences; the server rebuilds CartURL on every response.
type CartState struct {
	Items   []CartItem `json:"items"`
	IsOpen  bool       `json:"isOpen"`
	CartURL string     `json:"cartUrl"`
}

// EmptyCart returns the canonical empty cart, used whenever no document
// exists or an existing one cannot be parsed.
func EmptyCart() CartState {
	return CartState{Items: []CartItem{}}
}

// FindItem returns the index of the item with the given product id, or -1.
func (c CartState) FindItem(productID int64) int {
	for i, item := range c.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// IdentifierKind distinguishes guest carts from wallet carts.
type IdentifierKind string

const (
	IdentifierGuest  IdentifierKind = "guest"
	IdentifierWallet IdentifierKind = "wallet"
)

// CartIdentifier is the key a cart document is addressed under. Wallet ids
// come from the authentication context and are trusted as-is; guest ids are
// server-minted session tokens held in a client cookie. A guest id is never
// reused as a wallet id; migration copies data across instead.
type CartIdentifier struct {
	Kind IdentifierKind
	ID   string
}

func GuestIdentifier(sessionID string) CartIdentifier {
	return CartIdentifier{Kind: IdentifierGuest, ID: sessionID}
}

func WalletIdentifier(walletID string) CartIdentifier {
	return CartIdentifier{Kind: IdentifierWallet, ID: walletID}
}
